// Package resolver maps a note name token to the note it refers to.
//
// A literal token names a note directly. The Current sentinel instead names
// the note tagged to the working directory or, failing that, to the nearest
// tagged ancestor, the same way version-control tools find a repository root.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-ports/minimble/internal/notedata"
	"github.com/go-ports/minimble/internal/paths"
)

// Current is the token meaning "the note tagged to this directory".
const Current = "@"

// ErrNoTagFound is returned when no directory between cwd and the root is tagged.
var ErrNoTagFound = errors.New("no note tagged to current or parent directories")

// Resolver resolves tokens against a loaded store.
type Resolver struct {
	Data  *notedata.Data
	Getwd func() (string, error)
}

// Resolve returns the note name token refers to. Literal tokens are returned
// unchanged without any validation or existence check.
func (r Resolver) Resolve(token string) (string, error) {
	if token != Current {
		return token, nil
	}
	cwd, err := r.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", paths.ErrCwdUnavailable, err)
	}
	name, _, err := r.ResolveFrom(cwd)
	return name, err
}

// ResolveFrom walks from dir up to the filesystem root and returns the first
// tagged note together with the directory that carries the tag.
func (r Resolver) ResolveFrom(dir string) (name, taggedDir string, err error) {
	abs, err := paths.Absolute(r.Getwd, dir)
	if err != nil {
		return "", "", err
	}
	for _, d := range paths.Ancestors(abs) {
		if n, ok := r.Data.DirTag(d); ok {
			slog.Debug("resolved directory tag", "from", abs, "dir", d, "note", n)
			return n, d, nil
		}
	}
	return "", "", fmt.Errorf("%w (searched from %s)", ErrNoTagFound, abs)
}
