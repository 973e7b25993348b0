// Package notedata persists the directory-tag table that sits next to the notes.
package notedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// FileName is the name of the data file inside the notes directory.
const FileName = "minimble_data.json"

// ErrCorrupt is returned when an existing data file cannot be read or parsed.
var ErrCorrupt = errors.New("note data corrupt")

// Data maps absolute directory paths to the name of the note tagged there.
// Values are not checked against the notes directory; a tag may point at a
// note that does not exist (yet).
type Data struct {
	DirectoryTags map[string]string `json:"directory_tags"`
}

// New returns an empty store.
func New() *Data {
	return &Data{DirectoryTags: make(map[string]string)}
}

// Load reads the store at path. A missing file yields an empty store.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrCorrupt, path, err)
	}

	d := New()
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrCorrupt, path, err)
	}
	if d.DirectoryTags == nil {
		d.DirectoryTags = make(map[string]string)
	}
	return d, nil
}

// Save writes the store to path, replacing any previous file atomically.
func (d *Data) Save(path string) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode note data: %w", err)
	}
	b = append(b, '\n')
	if err := writeFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Directory tags
// ---------------------------------------------------------------------------

// SetDirTag associates dir with name, replacing any previous association.
func (d *Data) SetDirTag(dir, name string) {
	d.DirectoryTags[dir] = name
}

// RemoveDirTag drops the association for dir, if any.
func (d *Data) RemoveDirTag(dir string) {
	delete(d.DirectoryTags, dir)
}

// DirTag returns the note tagged to exactly dir. Callers normalise dir first.
func (d *Data) DirTag(dir string) (string, bool) {
	name, ok := d.DirectoryTags[dir]
	return name, ok
}

// DirsFor returns the sorted directories tagged to name.
func (d *Data) DirsFor(name string) []string {
	var dirs []string
	for dir, n := range d.DirectoryTags {
		if n == name {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// RenameNote re-points every tag for oldName at newName and returns how many moved.
func (d *Data) RenameNote(oldName, newName string) int {
	n := 0
	for dir, name := range d.DirectoryTags {
		if name == oldName {
			d.DirectoryTags[dir] = newName
			n++
		}
	}
	return n
}

// RemoveNote drops every tag pointing at name and returns how many were removed.
func (d *Data) RemoveNote(name string) int {
	n := 0
	for dir, tagged := range d.DirectoryTags {
		if tagged == name {
			delete(d.DirectoryTags, dir)
			n++
		}
	}
	return n
}

// Len returns the number of tagged directories.
func (d *Data) Len() int { return len(d.DirectoryTags) }

// Equal reports whether both stores hold the same associations.
func (d *Data) Equal(other *Data) bool {
	return maps.Equal(d.DirectoryTags, other.DirectoryTags)
}

// ---------------------------------------------------------------------------
// File helpers
// ---------------------------------------------------------------------------

// writeFileAtomic writes data to a temp file beside path, syncs it and renames
// it over path so readers never observe a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".minimble-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	success = true
	return nil
}
