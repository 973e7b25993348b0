// Package mcp provides the stdio MCP server exposing note tools for coding agents.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/minimble/internal/buildinfo"
	"github.com/go-ports/minimble/internal/config"
	"github.com/go-ports/minimble/internal/models"
	"github.com/go-ports/minimble/internal/paths"
	"github.com/go-ports/minimble/internal/redaction"
	"github.com/go-ports/minimble/internal/service"
)

const listDescription = `List the notes in the notes directory together with the directories tagged to each. Use match to filter note names with a glob such as "proj-*".`

const showDescription = `Return the content of a note. Pass "@" as the name to read the note tagged to dir (or the server's working directory) or its nearest tagged parent. Secrets in the note are masked as [REDACTED]. Call this at session start to load the notes for the project you are working in.` //nolint:lll

const resolveDescription = `Report which note is tagged to dir or its nearest tagged parent directory, and which directory carries the tag.`

const tagDirDescription = `Tag a directory to a note so that "@" resolves to it from that directory and every directory below it, or remove a directory's tag. At least one of add_dir and remove_dir is required.` //nolint:lll

// ServiceFactory builds a Service for one tool call. The store is loaded fresh
// on every call so edits made from the CLI are picked up.
type ServiceFactory func() (*service.Service, error)

type handler struct {
	mu         sync.Mutex
	newService ServiceFactory
}

// NewServer creates and registers all note tools on a new MCP server.
// It is separate from Serve so that tests can obtain a fully configured
// server without committing to the stdio transport.
func NewServer(newService ServiceFactory) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("minimble", buildinfo.ResolvedVersion())
	registerTools(s, &handler{newService: newService})
	return s
}

// Serve starts the stdio MCP server for settings, blocking until stdin closes.
func Serve(_ context.Context, settings *config.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	slog.Debug("serving mcp on stdio", "notes_dir", settings.NotesDir)
	return mcpserver.ServeStdio(NewServer(func() (*service.Service, error) {
		return service.New(settings, nil)
	}))
}

func registerTools(s *mcpserver.MCPServer, h *handler) {
	s.AddTool(mcp.NewTool("note_list",
		mcp.WithDescription(listDescription),
		mcp.WithString("match",
			mcp.Description("Glob matched against note names. Omit to list every note."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h.run(func(svc *service.Service) (any, error) {
			return handleList(svc, req)
		})
	})

	s.AddTool(mcp.NewTool("note_show",
		mcp.WithDescription(showDescription),
		mcp.WithString("name",
			mcp.Description(`Note name, or "@" for the note tagged to dir.`),
			mcp.Required(),
		),
		mcp.WithString("dir",
			mcp.Description(`Directory "@" is resolved from. Defaults to the server's working directory.`),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h.run(func(svc *service.Service) (any, error) {
			return handleShow(svc, req)
		})
	})

	s.AddTool(mcp.NewTool("note_resolve",
		mcp.WithDescription(resolveDescription),
		mcp.WithString("dir",
			mcp.Description("Directory to resolve from. Defaults to the server's working directory."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h.run(func(svc *service.Service) (any, error) {
			return svc.Which(req.GetString("dir", ""))
		})
	})

	s.AddTool(mcp.NewTool("note_tag_dir",
		mcp.WithDescription(tagDirDescription),
		mcp.WithString("name",
			mcp.Description(`Note name, or "@".`),
			mcp.Required(),
		),
		mcp.WithString("add_dir",
			mcp.Description("Directory to tag to the note."),
		),
		mcp.WithString("remove_dir",
			mcp.Description("Directory whose tag is removed."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h.run(func(svc *service.Service) (any, error) {
			return handleTagDir(svc, req)
		})
	})

	s.AddTool(mcp.NewTool("note_rename",
		mcp.WithDescription("Rename a note. Directory tags follow the note. Fails if new_name is taken."),
		mcp.WithString("name",
			mcp.Description(`Current note name, or "@".`),
			mcp.Required(),
		),
		mcp.WithString("new_name",
			mcp.Description("New note name."),
			mcp.Required(),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h.run(func(svc *service.Service) (any, error) {
			name, err := requireArg(req, "name")
			if err != nil {
				return nil, err
			}
			newName, err := requireArg(req, "new_name")
			if err != nil {
				return nil, err
			}
			return svc.Rename(name, newName)
		})
	})

	s.AddTool(mcp.NewTool("note_remove",
		mcp.WithDescription("Delete a note and every directory tag pointing at it."),
		mcp.WithString("name",
			mcp.Description(`Note name, or "@".`),
			mcp.Required(),
		),
		mcp.WithDestructiveHintAnnotation(true),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h.run(func(svc *service.Service) (any, error) {
			name, err := requireArg(req, "name")
			if err != nil {
				return nil, err
			}
			return svc.Remove(name)
		})
	})
}

// run serialises tool calls, each against a freshly loaded service.
func (h *handler) run(fn func(svc *service.Service) (any, error)) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	svc, err := h.newService()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := fn(svc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleList(svc *service.Service, req mcp.CallToolRequest) (any, error) {
	notes, err := svc.List(req.GetString("match", ""))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteJSON(n))
	}
	return map[string]any{
		"notes_dir": svc.NotesDir,
		"total":     len(out),
		"notes":     out,
	}, nil
}

func handleShow(svc *service.Service, req mcp.CallToolRequest) (any, error) {
	token, err := requireArg(req, "name")
	if err != nil {
		return nil, err
	}
	if dir := req.GetString("dir", ""); dir != "" {
		abs, err := paths.Absolute(svc.Getwd, dir)
		if err != nil {
			return nil, err
		}
		svc.Getwd = func() (string, error) { return abs, nil }
	}

	name, err := svc.Resolve(token)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := svc.Show(name, &buf); err != nil {
		return nil, err
	}
	red, err := redaction.Load(svc.NotesDir)
	if err != nil {
		return nil, err
	}
	content, redacted := red.Redact(buf.String())
	return map[string]any{
		"name":     name,
		"path":     paths.NotePath(svc.NotesDir, name),
		"dirs":     dirsOrEmpty(svc.Data.DirsFor(name)),
		"content":  content,
		"redacted": redacted,
	}, nil
}

func handleTagDir(svc *service.Service, req mcp.CallToolRequest) (any, error) {
	token, err := requireArg(req, "name")
	if err != nil {
		return nil, err
	}
	change := service.TagChange{
		Add:    req.GetString("add_dir", ""),
		Remove: req.GetString("remove_dir", ""),
	}
	if change.Empty() {
		return nil, fmt.Errorf("at least one of add_dir or remove_dir is required")
	}
	return svc.TagDir(token, change)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func requireArg(req mcp.CallToolRequest, key string) (string, error) {
	v := req.GetString(key, "")
	if v == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return v, nil
}

func noteJSON(n models.NoteSummary) map[string]any {
	return map[string]any{
		"name": n.Name,
		"path": n.Path,
		"dirs": dirsOrEmpty(n.Dirs),
	}
}

func dirsOrEmpty(dirs []string) []string {
	if dirs == nil {
		return make([]string, 0)
	}
	return dirs
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
