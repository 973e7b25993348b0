// Package setupcmd implements the `minimble setup` command.
package setupcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/minimble/cmd/minimble/shared"
	"github.com/go-ports/minimble/internal/setup"
)

// Command implements `minimble setup`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	project bool
	pin     bool
}

// New creates the setup command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:       "setup <agent>",
		Short:     "Register the minimble MCP server with a coding agent",
		Long:      "Register the minimble MCP server with a coding agent: " + strings.Join(setup.Agents, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: setup.Agents,
		RunE:      c.run,
	}
	f := c.cmd.Flags()
	f.BoolVar(&c.project, "project", false, "Install in the current project instead of globally")
	f.BoolVar(&c.pin, "pin-notes-dir", false, "Pass the resolved notes directory to the server as NOTES_DIR")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	opts := setup.Options{Project: c.project}
	if c.pin {
		s, err := c.ctx.Settings()
		if err != nil {
			return err
		}
		opts.NotesDir = s.NotesDir
	}
	res, err := setup.Install(args[0], opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
