// Package models defines the results returned by note operations.
package models

// NoteSummary describes one note in a listing.
type NoteSummary struct {
	Name string   `json:"name"`
	Path string   `json:"path"`
	Dirs []string `json:"dirs"` // directories tagged to this note, sorted
}

// EditResult is returned from Service.Edit.
type EditResult struct {
	Name string     `json:"name"`
	Path string     `json:"path"`
	Tags *TagResult `json:"tags,omitempty"` // nil when no tag change was requested
}

// RemoveResult is returned from Service.Remove.
type RemoveResult struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	DroppedTags int    `json:"dropped_tags"`
}

// RenameResult is returned from Service.Rename.
type RenameResult struct {
	OldName   string `json:"old_name"`
	NewName   string `json:"new_name"`
	OldPath   string `json:"old_path"`
	NewPath   string `json:"new_path"`
	MovedTags int    `json:"moved_tags"`
}

// TagResult is returned from Service.TagDir.
type TagResult struct {
	Name    string `json:"name"`
	Added   string `json:"added,omitempty"`   // absolute directory tagged, empty if none
	Removed string `json:"removed,omitempty"` // absolute directory untagged, empty if none
}

// Resolution reports which tagged directory supplied a note.
type Resolution struct {
	Name string `json:"name"`
	Dir  string `json:"dir"`
	From string `json:"from"`
}
