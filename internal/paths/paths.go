// Package paths normalises directory arguments and maps note names to files.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NoteExt is the extension every note file carries.
const NoteExt = "md"

// ErrCwdUnavailable is returned when the current working directory cannot be read.
var ErrCwdUnavailable = errors.New("current directory unavailable")

// Absolute converts p into a cleaned absolute path. Relative paths are joined
// onto the directory returned by cwd. The target itself is never inspected:
// no existence check and no symlink resolution.
func Absolute(cwd func() (string, error), p string) (string, error) {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", p, err)
		}
		p = filepath.Join(home, p[2:])
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	dir, err := cwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCwdUnavailable, err)
	}
	return filepath.Clean(filepath.Join(dir, p)), nil
}

// Ancestors returns dir followed by each successive parent, ending with the
// filesystem root. dir is expected to be absolute and clean.
func Ancestors(dir string) []string {
	out := []string{dir}
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return out
		}
		out = append(out, parent)
		dir = parent
	}
}

// NotePath returns the file backing the note called name.
func NotePath(notesDir, name string) string {
	return filepath.Join(notesDir, name+"."+NoteExt)
}

// IsNoteFile reports whether fileName is a note file and returns its name.
// The extension must be exactly "md"; "README.MD" or "a.markdown" do not count.
func IsNoteFile(fileName string) (string, bool) {
	ext := filepath.Ext(fileName)
	if ext != "."+NoteExt {
		return "", false
	}
	name := strings.TrimSuffix(fileName, ext)
	if name == "" {
		return "", false
	}
	return name, true
}
