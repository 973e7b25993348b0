// Package renamecmd implements the `minimble rename` command.
package renamecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/minimble/cmd/minimble/shared"
)

// Command implements `minimble rename`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the rename command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "rename <name|@> <new_name>",
		Short: "Rename a note; its directory tags follow it",
		Args:  cobra.ExactArgs(2),
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
	res, err := svc.Rename(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed note at %s\n", res.NewPath)
	return nil
}
