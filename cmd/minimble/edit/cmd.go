// Package editcmd implements the `minimble edit` command.
package editcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/minimble/cmd/minimble/shared"
	"github.com/go-ports/minimble/internal/service"
)

// Command implements `minimble edit`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	addDir    string
	removeDir string
}

// New creates the edit command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "edit <name|@>",
		Short: "Open a note in the editor, creating it if needed",
		Long: `Open a note in the editor, creating it if needed.

Pass @ instead of a name to edit the note tagged to the current directory
or its nearest tagged parent.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.addDir, "add-dir-tag", "", "After saving, tag this directory to the note")
	f.StringVar(&c.removeDir, "remove-dir-tag", "", "After saving, remove this directory's tag")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service(true)
	if err != nil {
		return err
	}

	res, err := svc.Edit(cmd.Context(), args[0], service.TagChange{Add: c.addDir, Remove: c.removeDir})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved note to %s\n", res.Path)
	if res.Tags != nil {
		if res.Tags.Added != "" {
			fmt.Fprintf(out, "Tagged %s to %s\n", res.Tags.Added, res.Name)
		}
		if res.Tags.Removed != "" {
			fmt.Fprintf(out, "Untagged %s\n", res.Tags.Removed)
		}
	}
	return nil
}
