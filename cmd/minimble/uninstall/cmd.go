// Package uninstallcmd implements the `minimble uninstall` command.
package uninstallcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/minimble/internal/setup"
)

// Command implements `minimble uninstall`.
type Command struct {
	cmd *cobra.Command

	project bool
}

// New creates the uninstall command.
func New() *Command {
	c := &Command{}
	c.cmd = &cobra.Command{
		Use:       "uninstall <agent>",
		Short:     "Remove the minimble MCP server from a coding agent",
		Args:      cobra.ExactArgs(1),
		ValidArgs: setup.Agents,
		RunE:      c.run,
	}
	c.cmd.Flags().BoolVar(&c.project, "project", false, "Remove from the current project instead of globally")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	res, err := setup.Uninstall(args[0], setup.Options{Project: c.project})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
