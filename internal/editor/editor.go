// Package editor launches the user's text editor on a note file.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned by Parse when the editor setting is blank.
var ErrNoEditor = errors.New("editor not set")

// Editor opens a file for interactive editing and blocks until the session ends.
// ok reports whether the session completed without error; err is non-nil only
// when the editor could not be started at all.
type Editor interface {
	Open(ctx context.Context, path string) (ok bool, err error)
}

// Func adapts a plain function to Editor.
type Func func(ctx context.Context, path string) (bool, error)

// Open calls f.
func (f Func) Open(ctx context.Context, path string) (bool, error) { return f(ctx, path) }

// Command runs an external program with the note path as its last argument.
type Command struct {
	Program string
	Args    []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Parse splits an editor setting such as "code --wait" into a Command wired
// to the process's standard streams.
func Parse(setting string) (*Command, error) {
	fields := strings.Fields(setting)
	if len(fields) == 0 {
		return nil, ErrNoEditor
	}
	return &Command{
		Program: fields[0],
		Args:    fields[1:],
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, nil
}

// Open runs the editor and waits for it to exit. There is no timeout: a hung
// editor blocks the caller until it exits or ctx is cancelled.
func (c *Command) Open(ctx context.Context, path string) (bool, error) {
	args := append(append([]string{}, c.Args...), path)
	cmd := exec.CommandContext(ctx, c.Program, args...) // #nosec G204 -- the editor is chosen by the user
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("run %s: %w", c.Program, err)
	}
	return true, nil
}

// String returns the command line without the file argument.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}
