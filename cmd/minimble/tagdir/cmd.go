// Package tagdircmd implements the `minimble tag-dir` command.
package tagdircmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/minimble/cmd/minimble/shared"
	"github.com/go-ports/minimble/internal/service"
)

// Command implements `minimble tag-dir`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	addDir    string
	removeDir string
}

// New creates the tag-dir command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "tag-dir <name|@>",
		Short: "Tag or untag directories for a note",
		Long: `Tag or untag directories for a note.

A tagged directory, and every directory below it, resolves @ to the note.
Relative directories are taken from the current directory.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.StringVar(&c.addDir, "add-dir-tag", "", "Tag this directory to the note")
	f.StringVar(&c.addDir, "add-dir", "", "Alias for --add-dir-tag")
	f.StringVar(&c.removeDir, "remove-dir-tag", "", "Remove this directory's tag")
	f.StringVar(&c.removeDir, "rm-dir", "", "Alias for --remove-dir-tag")
	c.cmd.MarkFlagsOneRequired("add-dir-tag", "add-dir", "remove-dir-tag", "rm-dir")
	c.cmd.MarkFlagsMutuallyExclusive("add-dir-tag", "add-dir")
	c.cmd.MarkFlagsMutuallyExclusive("remove-dir-tag", "rm-dir")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service(false)
	if err != nil {
		return err
	}
	res, err := svc.TagDir(args[0], service.TagChange{Add: c.addDir, Remove: c.removeDir})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Added != "" {
		fmt.Fprintf(out, "Tagged %s to %s\n", res.Added, res.Name)
	}
	if res.Removed != "" {
		fmt.Fprintf(out, "Untagged %s\n", res.Removed)
	}
	fmt.Fprintln(out, "Saved note")
	return nil
}
