// Package removecmd implements the `minimble remove` command.
package removecmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/minimble/cmd/minimble/shared"
)

// ErrAborted is returned when the confirmation prompt is declined.
var ErrAborted = errors.New("Delete aborted") //nolint:staticcheck // user-facing message

// Command implements `minimble remove`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	yes bool
}

// New creates the remove command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "remove <name|@>",
		Aliases: []string{"rm"},
		Short:   "Delete a note and drop the directory tags pointing at it",
		Args:    cobra.ExactArgs(1),
		RunE:    c.run,
	}
	c.cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Skip the confirmation prompt")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service(false)
	if err != nil {
		return err
	}

	if !c.yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return ErrAborted
	}

	res, err := svc.Remove(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed note at %s\n", res.Path)
	return nil
}

// confirm asks for a y answer on in. Anything else, including EOF, declines.
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Are you sure you want to remove the file? [y/N] ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(answer) == "y"
}
