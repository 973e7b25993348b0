// Package configcmd implements the `minimble config` command group.
package configcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/minimble/cmd/minimble/shared"
	"github.com/go-ports/minimble/internal/config"
	"github.com/go-ports/minimble/internal/notedata"
)

const configTemplate = `# minimble configuration
#
# Every value here can be overridden by the environment (NOTES_DIR, EDITOR),
# the env file next to this one, or the --notes-dir / --editor flags.

# Directory holding the notes and minimble_data.json.
# notes_dir: ~/notes

# Editor command line. The note path is appended as the last argument.
# editor: code --wait
`

// Command implements `minimble config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(),
		newSetNotesDir(),
		newClearNotesDir(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	s, err := c.ctx.Settings()
	if err != nil {
		return err
	}
	cfgPath, err := config.GlobalPath()
	if err != nil {
		return err
	}
	envPath, err := config.EnvFilePath()
	if err != nil {
		return err
	}
	data := map[string]any{
		"notes_dir":        s.NotesDir,
		"notes_dir_source": s.NotesDirSource,
		"editor":           s.Editor,
		"editor_source":    s.EditorSource,
		"data_file":        s.DataPath(notedata.FileName),
		"config_file":      cfgPath,
		"env_file":         envPath,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			cfgPath, err := config.GlobalPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-notes-dir
// ---------------------------------------------------------------------------

func newSetNotesDir() *cobra.Command {
	return &cobra.Command{
		Use:   "set-notes-dir <path>",
		Short: "Persist the notes directory (used when NOTES_DIR is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedNotesDir(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(resolved, 0o755); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted notes directory: %s\n", resolved)
			fmt.Fprintf(out, "Override anytime with %s or --notes-dir.\n", config.EnvNotesDir)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-notes-dir
// ---------------------------------------------------------------------------

func newClearNotesDir() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-notes-dir",
		Short: "Remove the persisted notes directory from the global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedNotesDir()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted notes directory setting.")
			} else {
				fmt.Fprintln(out, "No persisted notes directory setting was found.")
			}
			return nil
		},
	}
}
