// Package service implements the note operations by composing the resolver,
// the directory-tag store, the editor and the notes directory on disk.
//
// A Service is built once per invocation: it loads the store, runs one
// operation and persists the store straight after any mutation. Nothing guards
// against two processes doing this at once; the last writer wins.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/go-ports/minimble/internal/config"
	"github.com/go-ports/minimble/internal/editor"
	"github.com/go-ports/minimble/internal/models"
	"github.com/go-ports/minimble/internal/notedata"
	"github.com/go-ports/minimble/internal/paths"
	"github.com/go-ports/minimble/internal/resolver"
)

var (
	// ErrNotSaved is returned when the editor exits without the note file existing.
	ErrNotSaved = errors.New("note not saved")
	// ErrAlreadyExists is returned when a rename target is already taken.
	ErrAlreadyExists = errors.New("note already exists")
	// ErrEditorFailed is returned when the editor cannot start or reports failure.
	ErrEditorFailed = errors.New("editor failed")
)

// TagChange requests directory tag updates. Empty fields are ignored.
type TagChange struct {
	Add    string
	Remove string
}

// Empty reports whether no change was requested.
func (t TagChange) Empty() bool { return t.Add == "" && t.Remove == "" }

// Service runs note operations against one notes directory.
type Service struct {
	NotesDir string
	DataPath string
	Data     *notedata.Data
	Editor   editor.Editor
	Getwd    func() (string, error)
}

// New creates the notes directory if needed and loads the store.
// ed may be nil for callers that never edit.
func New(settings *config.Settings, ed editor.Editor) (*Service, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(settings.NotesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create notes dir %s: %w", settings.NotesDir, err)
	}

	dataPath := settings.DataPath(notedata.FileName)
	data, err := notedata.Load(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read note data from %s: %w", dataPath, err)
	}
	slog.Debug("loaded note data", "path", dataPath, "tags", data.Len())

	return &Service{
		NotesDir: settings.NotesDir,
		DataPath: dataPath,
		Data:     data,
		Editor:   ed,
		Getwd:    os.Getwd,
	}, nil
}

func (s *Service) resolver() resolver.Resolver {
	return resolver.Resolver{Data: s.Data, Getwd: s.Getwd}
}

func (s *Service) persist() error {
	if err := s.Data.Save(s.DataPath); err != nil {
		return fmt.Errorf("failed to write data to %s: %w", s.DataPath, err)
	}
	slog.Debug("saved note data", "path", s.DataPath, "tags", s.Data.Len())
	return nil
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

// Resolve maps a name token (a literal name or resolver.Current) to a note name.
func (s *Service) Resolve(token string) (string, error) {
	return s.resolver().Resolve(token)
}

// Which reports the note resolver.Current would pick from dir and the
// directory carrying the tag. An empty dir means the working directory.
func (s *Service) Which(dir string) (*models.Resolution, error) {
	if dir == "" {
		dir = "."
	}
	from, err := paths.Absolute(s.Getwd, dir)
	if err != nil {
		return nil, err
	}
	name, tagged, err := s.resolver().ResolveFrom(from)
	if err != nil {
		return nil, err
	}
	return &models.Resolution{Name: name, Dir: tagged, From: from}, nil
}

// ---------------------------------------------------------------------------
// Edit
// ---------------------------------------------------------------------------

// Edit opens the note in the editor and then applies any requested tag change.
// The note file must exist once the editor returns, whatever the editor's
// exit status said.
func (s *Service) Edit(ctx context.Context, token string, change TagChange) (*models.EditResult, error) {
	if s.Editor == nil {
		return nil, fmt.Errorf("%w: editor", config.ErrMissing)
	}
	name, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}
	notePath := paths.NotePath(s.NotesDir, name)

	ok, err := s.Editor.Open(ctx, notePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to run editor subprocess successfully: %w", ErrEditorFailed, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: editor exited with error", ErrEditorFailed)
	}
	if _, err := os.Stat(notePath); err != nil {
		return nil, fmt.Errorf("%w: did not save note at %s", ErrNotSaved, notePath)
	}

	res := &models.EditResult{Name: name, Path: notePath}
	if !change.Empty() {
		tags, err := s.applyTags(name, change)
		if err != nil {
			return nil, err
		}
		res.Tags = tags
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// Remove / Rename
// ---------------------------------------------------------------------------

// Remove deletes the note file and drops every directory tag pointing at it.
func (s *Service) Remove(token string) (*models.RemoveResult, error) {
	name, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}
	notePath := paths.NotePath(s.NotesDir, name)

	if err := os.Remove(notePath); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", notePath, err)
	}

	dropped := s.Data.RemoveNote(name)
	if dropped > 0 {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	return &models.RemoveResult{Name: name, Path: notePath, DroppedTags: dropped}, nil
}

// Rename moves the note file to newName and re-points its directory tags.
// An existing note at newName is never overwritten.
func (s *Service) Rename(token, newName string) (*models.RenameResult, error) {
	name, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}
	oldPath := paths.NotePath(s.NotesDir, name)
	newPath := paths.NotePath(s.NotesDir, newName)

	if _, err := os.Lstat(newPath); err == nil {
		return nil, fmt.Errorf("%w: note exists at %s", ErrAlreadyExists, newPath)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return nil, fmt.Errorf("failed to rename %s: %w", oldPath, err)
	}

	moved := s.Data.RenameNote(name, newName)
	if moved > 0 {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	return &models.RenameResult{
		OldName:   name,
		NewName:   newName,
		OldPath:   oldPath,
		NewPath:   newPath,
		MovedTags: moved,
	}, nil
}

// ---------------------------------------------------------------------------
// TagDir
// ---------------------------------------------------------------------------

// TagDir tags and/or untags directories for the note. Add and Remove are
// independent and may name different directories; Remove is applied last.
func (s *Service) TagDir(token string, change TagChange) (*models.TagResult, error) {
	name, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}
	return s.applyTags(name, change)
}

func (s *Service) applyTags(name string, change TagChange) (*models.TagResult, error) {
	res := &models.TagResult{Name: name}
	if change.Add != "" {
		dir, err := paths.Absolute(s.Getwd, change.Add)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s into an absolute path: %w", change.Add, err)
		}
		s.Data.SetDirTag(dir, name)
		res.Added = dir
	}
	if change.Remove != "" {
		dir, err := paths.Absolute(s.Getwd, change.Remove)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s into an absolute path: %w", change.Remove, err)
		}
		s.Data.RemoveDirTag(dir)
		res.Removed = dir
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// List / Show
// ---------------------------------------------------------------------------

// List returns every note directly inside the notes directory, in file name
// order and annotated with its tagged directories. A non-empty pattern keeps only
// names matching that glob.
func (s *Service) List(pattern string) ([]models.NoteSummary, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	entries, err := os.ReadDir(s.NotesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", s.NotesDir, err)
	}

	out := make([]models.NoteSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := paths.IsNoteFile(e.Name())
		if !ok {
			continue
		}
		if pattern != "" {
			if match, _ := doublestar.Match(pattern, name); !match {
				continue
			}
		}
		out = append(out, models.NoteSummary{
			Name: name,
			Path: paths.NotePath(s.NotesDir, name),
			Dirs: s.Data.DirsFor(name),
		})
	}
	return out, nil
}

// Show copies the note's content to w.
func (s *Service) Show(token string, w io.Writer) error {
	name, err := s.Resolve(token)
	if err != nil {
		return err
	}
	notePath := paths.NotePath(s.NotesDir, name)

	f, err := os.Open(notePath)
	if err != nil {
		return fmt.Errorf("failed to open file at %s: %w", notePath, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("read %s: %w", notePath, err)
	}
	return nil
}
