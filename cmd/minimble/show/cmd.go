// Package showcmd implements the `minimble show` command.
package showcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/minimble/cmd/minimble/shared"
)

// Command implements `minimble show`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	match string
}

// New creates the show command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "show [name|@]",
		Short: "List notes, or print one note",
		Long: `Without a name, list every note with the directories tagged to it.
With a name (or @), print that note's content.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	c.cmd.Flags().StringVar(&c.match, "match", "", "Only list notes whose name matches this glob")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service(false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		return svc.Show(args[0], out)
	}

	notes, err := svc.List(c.match)
	if err != nil {
		return err
	}
	for _, n := range notes {
		if len(n.Dirs) == 0 {
			fmt.Fprintln(out, n.Name)
			continue
		}
		fmt.Fprintf(out, "%s (%s)\n", n.Name, strings.Join(n.Dirs, ", "))
	}
	return nil
}
