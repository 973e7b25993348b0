// Package shared holds the context passed to all CLI commands.
package shared

import (
	"github.com/go-ports/minimble/internal/config"
	"github.com/go-ports/minimble/internal/editor"
	"github.com/go-ports/minimble/internal/service"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// NotesDir overrides the notes directory.
	// When empty, resolution falls through to NOTES_DIR → env file → persisted config → OS data dir.
	NotesDir string
	// Editor overrides the editor command line, e.g. "code --wait".
	Editor  string
	Verbose bool
}

// Settings resolves the configuration for this invocation.
func (c *Context) Settings() (*config.Settings, error) {
	return config.Resolve(config.Overrides{NotesDir: c.NotesDir, Editor: c.Editor})
}

// Service builds a service for one command. withEditor requires a configured
// editor and attaches it.
func (c *Context) Service(withEditor bool) (*service.Service, error) {
	s, err := c.Settings()
	if err != nil {
		return nil, err
	}
	var ed editor.Editor
	if withEditor {
		if err := s.ValidateEditor(); err != nil {
			return nil, err
		}
		cmd, err := editor.Parse(s.Editor)
		if err != nil {
			return nil, err
		}
		ed = cmd
	}
	return service.New(s, ed)
}
