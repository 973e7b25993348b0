// Package whichcmd implements the `minimble which` command.
package whichcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/minimble/cmd/minimble/shared"
)

// Command implements `minimble which`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the which command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "which [dir]",
		Short: "Show the note @ resolves to from a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service(false)
	if err != nil {
		return err
	}
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	res, err := svc.Which(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (tagged at %s)\n", res.Name, res.Dir)
	return nil
}
