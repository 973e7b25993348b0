// Package setup registers the minimble MCP server with supported coding
// agents (Claude Code, Cursor, Codex, OpenCode) and removes it again.
package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ServerName is the key the MCP server is registered under.
const ServerName = "minimble"

// Supported agents.
const (
	ClaudeCode = "claude-code"
	Cursor     = "cursor"
	Codex      = "codex"
	OpenCode   = "opencode"
)

// Agents lists the supported agent names.
var Agents = []string{ClaudeCode, Cursor, Codex, OpenCode}

// ErrUnknownAgent is returned for an agent name not in Agents.
var ErrUnknownAgent = errors.New("unknown agent")

// Options controls where an agent's config file is found.
type Options struct {
	// Home replaces the user's home directory. Empty means os.UserHomeDir.
	Home string
	// Project targets the project-level config under ProjectDir instead of
	// the user-level one.
	Project    bool
	ProjectDir string
	// NotesDir, when set, is passed to the server as NOTES_DIR.
	NotesDir string
}

// Result is the return value from Install and Uninstall.
type Result struct {
	Path    string
	Changed bool
	Message string
}

// ConfigPath returns the file Install and Uninstall edit for agent.
func ConfigPath(agent string, o Options) (string, error) {
	if !slices.Contains(Agents, agent) {
		return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownAgent, agent, strings.Join(Agents, ", "))
	}
	if o.Project {
		dir := o.ProjectDir
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			dir = cwd
		}
		switch agent {
		case ClaudeCode:
			return filepath.Join(dir, ".mcp.json"), nil
		case Cursor:
			return filepath.Join(dir, ".cursor", "mcp.json"), nil
		case Codex:
			return filepath.Join(dir, ".codex", "config.toml"), nil
		default:
			return filepath.Join(dir, "opencode.json"), nil
		}
	}

	home := o.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = h
	}
	switch agent {
	case ClaudeCode:
		return filepath.Join(home, ".claude.json"), nil
	case Cursor:
		return filepath.Join(home, ".cursor", "mcp.json"), nil
	case Codex:
		return filepath.Join(home, ".codex", "config.toml"), nil
	default:
		return filepath.Join(home, ".config", "opencode", "opencode.json"), nil
	}
}

// Install registers the MCP server for agent. Installing twice is a no-op.
func Install(agent string, o Options) (Result, error) {
	path, err := ConfigPath(agent, o)
	if err != nil {
		return Result{}, err
	}

	var changed bool
	switch agent {
	case Codex:
		changed, err = appendTOMLSection(path, o.NotesDir)
	case OpenCode:
		changed, err = installJSON(path, "mcp", openCodeEntry(o.NotesDir))
	default:
		changed, err = installJSON(path, "mcpServers", stdioEntry(o.NotesDir))
	}
	if err != nil {
		return Result{}, fmt.Errorf("install %s MCP server in %s: %w", agent, path, err)
	}
	if !changed {
		return Result{Path: path, Message: "Already installed in " + path}, nil
	}
	return Result{Path: path, Changed: true, Message: "Installed MCP server in " + path}, nil
}

// Uninstall removes the MCP server registration for agent. A config file
// left empty is deleted.
func Uninstall(agent string, o Options) (Result, error) {
	path, err := ConfigPath(agent, o)
	if err != nil {
		return Result{}, err
	}

	var changed bool
	switch agent {
	case Codex:
		changed, err = removeTOMLSection(path)
	case OpenCode:
		changed, err = uninstallJSON(path, "mcp")
	default:
		changed, err = uninstallJSON(path, "mcpServers")
	}
	if err != nil {
		return Result{}, fmt.Errorf("uninstall %s MCP server from %s: %w", agent, path, err)
	}
	if !changed {
		return Result{Path: path, Message: "Nothing to remove in " + path}, nil
	}
	return Result{Path: path, Changed: true, Message: "Removed MCP server from " + path}, nil
}

// ---------------------------------------------------------------------------
// MCP config entries
// ---------------------------------------------------------------------------

func stdioEntry(notesDir string) map[string]any {
	e := map[string]any{
		"command": "minimble",
		"args":    []any{"mcp"},
		"type":    "stdio",
	}
	if notesDir != "" {
		e["env"] = map[string]any{"NOTES_DIR": notesDir}
	}
	return e
}

func openCodeEntry(notesDir string) map[string]any {
	e := map[string]any{
		"type":    "local",
		"command": []any{"minimble", "mcp"},
	}
	if notesDir != "" {
		e["environment"] = map[string]any{"NOTES_DIR": notesDir}
	}
	return e
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

// readJSON returns the decoded object at path, or an empty one if the file
// does not exist. A file that is not a JSON object is an error so that a
// user's config is never overwritten.
func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

func writeJSON(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent config files (MCP server entries) do not contain secrets
}

func installJSON(path, key string, entry map[string]any) (bool, error) {
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, _ := data[key].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
		data[key] = servers
	}
	if _, exists := servers[ServerName]; exists {
		return false, nil
	}
	servers[ServerName] = entry
	return true, writeJSON(path, data)
}

func uninstallJSON(path, key string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, _ := data[key].(map[string]any)
	if _, exists := servers[ServerName]; !exists {
		return false, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(data, key)
	}
	if len(data) == 0 {
		return true, os.Remove(path)
	}
	return true, writeJSON(path, data)
}

// ---------------------------------------------------------------------------
// TOML helpers (text-based; only handles the [mcp_servers.minimble] table)
// ---------------------------------------------------------------------------

const tomlHeader = "[mcp_servers." + ServerName + "]"

func hasTOMLSection(content string) bool {
	for line := range strings.SplitSeq(content, "\n") {
		if strings.TrimSpace(line) == tomlHeader {
			return true
		}
	}
	return false
}

func appendTOMLSection(path, notesDir string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if hasTOMLSection(string(existing)) {
		return false, nil
	}

	var b strings.Builder
	b.WriteString("\n" + tomlHeader + "\n")
	b.WriteString("command = \"minimble\"\n")
	b.WriteString("args = [\"mcp\"]\n")
	if notesDir != "" {
		fmt.Fprintf(&b, "env = { NOTES_DIR = %q }\n", notesDir)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.WriteString(b.String())
	return err == nil, err
}

func removeTOMLSection(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	content := string(data)
	if !hasTOMLSection(content) {
		return false, nil
	}

	// Drop the header and its key-value pairs up to the next table or EOF.
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == tomlHeader {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(trimmed, "[") {
			inSection = false
		}
		if !inSection {
			kept = append(kept, line)
		}
	}

	cleaned := strings.TrimSpace(strings.Join(kept, "\n"))
	if cleaned == "" {
		return true, os.Remove(path)
	}
	return true, os.WriteFile(path, []byte(cleaned+"\n"), 0o644) // #nosec G306 -- agent TOML config is not a sensitive credential file
}
