// Package config resolves the notes directory and editor from flags,
// environment, an optional env file and the persisted global config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted during resolution.
const (
	EnvNotesDir = "NOTES_DIR"
	EnvEditor   = "EDITOR"
)

// Resolution sources reported alongside each setting.
const (
	SourceFlag    = "flag"
	SourceEnv     = "env"
	SourceEnvFile = "envfile"
	SourceConfig  = "config"
	SourceDefault = "default"
	SourceUnset   = "unset"
)

// ErrMissing is returned when a required setting has no value from any source.
var ErrMissing = errors.New("configuration missing")

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

// Settings is the resolved configuration for one invocation.
type Settings struct {
	NotesDir       string
	NotesDirSource string
	Editor         string
	EditorSource   string
}

// Overrides carries values supplied on the command line.
type Overrides struct {
	NotesDir string
	Editor   string
}

// Validate checks the settings every command needs.
func (s *Settings) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.NotesDir, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: notes directory: %w", ErrMissing, err)
	}
	return nil
}

// ValidateEditor checks that an editor is configured.
func (s *Settings) ValidateEditor() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.Editor, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: editor (set %s or --editor): %w", ErrMissing, EnvEditor, err)
	}
	return nil
}

// DataPath returns the location of the directory-tag data file.
func (s *Settings) DataPath(fileName string) string {
	return filepath.Join(s.NotesDir, fileName)
}

// Resolve builds Settings from, in priority order: overrides, process
// environment, the env file, the global config file, and the OS default.
func Resolve(o Overrides) (*Settings, error) {
	envFile, err := readEnvFile()
	if err != nil {
		return nil, err
	}
	global, err := readGlobal()
	if err != nil {
		return nil, err
	}

	s := &Settings{}

	switch {
	case o.NotesDir != "":
		s.NotesDir, s.NotesDirSource = o.NotesDir, SourceFlag
	case os.Getenv(EnvNotesDir) != "":
		s.NotesDir, s.NotesDirSource = os.Getenv(EnvNotesDir), SourceEnv
	case envFile[EnvNotesDir] != "":
		s.NotesDir, s.NotesDirSource = envFile[EnvNotesDir], SourceEnvFile
	case global.NotesDir != "":
		s.NotesDir, s.NotesDirSource = global.NotesDir, SourceConfig
	default:
		dir, err := defaultNotesDir()
		if err != nil {
			return nil, fmt.Errorf("%w: notes directory: %w", ErrMissing, err)
		}
		s.NotesDir, s.NotesDirSource = dir, SourceDefault
	}

	if s.NotesDir, err = normalizePath(s.NotesDir); err != nil {
		return nil, fmt.Errorf("notes directory %q: %w", s.NotesDir, err)
	}

	switch {
	case o.Editor != "":
		s.Editor, s.EditorSource = o.Editor, SourceFlag
	case os.Getenv(EnvEditor) != "":
		s.Editor, s.EditorSource = os.Getenv(EnvEditor), SourceEnv
	case envFile[EnvEditor] != "":
		s.Editor, s.EditorSource = envFile[EnvEditor], SourceEnvFile
	case global.Editor != "":
		s.Editor, s.EditorSource = global.Editor, SourceConfig
	default:
		s.EditorSource = SourceUnset
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Global config file
// ---------------------------------------------------------------------------

// Global is the persisted, user-wide configuration.
type Global struct {
	NotesDir string `yaml:"notes_dir,omitempty"`
	Editor   string `yaml:"editor,omitempty"`
}

// Dir returns the directory holding the global config and env files.
// XDG_CONFIG_HOME is honoured on every platform.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "minimble"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "minimble"), nil
}

// GlobalPath returns the path of the global config.yaml.
func GlobalPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnvFilePath returns the path of the optional env file.
func EnvFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "env"), nil
}

func readGlobal() (*Global, error) {
	path, err := GlobalPath()
	if err != nil {
		return &Global{}, nil
	}
	return LoadGlobal(path)
}

// LoadGlobal reads a global config file. A missing file yields an empty Global.
func LoadGlobal(path string) (*Global, error) {
	g := &Global{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	g.NotesDir = strings.TrimSpace(g.NotesDir)
	g.Editor = strings.TrimSpace(g.Editor)
	return g, nil
}

// SetPersistedNotesDir normalises path and stores it as notes_dir in the
// global config, preserving any other keys. Returns the normalised path.
func SetPersistedNotesDir(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}
	if err := updateGlobal(func(raw map[string]any) bool {
		raw["notes_dir"] = normalized
		return true
	}); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedNotesDir removes notes_dir from the global config.
// Returns true if the key was present. An emptied file is deleted.
func ClearPersistedNotesDir() (bool, error) {
	found := false
	err := updateGlobal(func(raw map[string]any) bool {
		if _, ok := raw["notes_dir"]; !ok {
			return false
		}
		delete(raw, "notes_dir")
		found = true
		return true
	})
	return found, err
}

// updateGlobal applies mutate to the raw global config and writes the result
// back when mutate reports a change.
func updateGlobal(mutate func(raw map[string]any) bool) error {
	cfgPath, err := GlobalPath()
	if err != nil {
		return err
	}

	var raw map[string]any
	if data, err := os.ReadFile(cfgPath); err == nil {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", cfgPath, err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	if !mutate(raw) {
		return nil
	}

	if len(raw) == 0 {
		if err := os.Remove(cfgPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return err
	}
	out, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(cfgPath, out, 0o600)
}

// ---------------------------------------------------------------------------
// Env file
// ---------------------------------------------------------------------------

// readEnvFile parses the optional env file. Only NOTES_DIR and EDITOR are used.
func readEnvFile() (map[string]string, error) {
	path, err := EnvFilePath()
	if err != nil {
		return map[string]string{}, nil
	}
	vals, err := godotenv.Read(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vals, nil
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// defaultNotesDir returns the per-user data directory for notes.
func defaultNotesDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "minimble"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "minimble"), nil
	case "windows":
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "minimble"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "minimble"), nil
	default:
		return filepath.Join(home, ".local", "share", "minimble"), nil
	}
}

// normalizePath expands ~ and environment references and makes the path absolute.
func normalizePath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
