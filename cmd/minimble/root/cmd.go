// Package rootcmd wires the root cobra.Command for the minimble CLI binary.
package rootcmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/minimble/cmd/minimble/config"
	editcmd "github.com/go-ports/minimble/cmd/minimble/edit"
	mcpcmd "github.com/go-ports/minimble/cmd/minimble/mcp"
	removecmd "github.com/go-ports/minimble/cmd/minimble/remove"
	renamecmd "github.com/go-ports/minimble/cmd/minimble/rename"
	setupcmd "github.com/go-ports/minimble/cmd/minimble/setup"
	"github.com/go-ports/minimble/cmd/minimble/shared"
	showcmd "github.com/go-ports/minimble/cmd/minimble/show"
	tagdircmd "github.com/go-ports/minimble/cmd/minimble/tagdir"
	uninstallcmd "github.com/go-ports/minimble/cmd/minimble/uninstall"
	versioncmd "github.com/go-ports/minimble/cmd/minimble/version"
	whichcmd "github.com/go-ports/minimble/cmd/minimble/which"
)

// New creates and returns the root cobra.Command for the minimble CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "minimble",
		Short:         "minimble - small markdown notes tagged to directories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if ctx.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	f := root.PersistentFlags()
	f.StringVar(
		&ctx.NotesDir, "notes-dir", "",
		"Override notes directory (default: $NOTES_DIR → env file → persisted config → OS data dir)",
	)
	f.StringVar(&ctx.Editor, "editor", "", "Editor command line (default: $EDITOR)")
	f.BoolVarP(&ctx.Verbose, "verbose", "v", false, "Log resolution and store activity to stderr")

	root.AddCommand(
		editcmd.New(ctx).Cmd(),
		removecmd.New(ctx).Cmd(),
		renamecmd.New(ctx).Cmd(),
		tagdircmd.New(ctx).Cmd(),
		showcmd.New(ctx).Cmd(),
		whichcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New().Cmd(),
		versioncmd.New().Cmd(),
	)

	return root
}
