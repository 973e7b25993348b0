// MCP server end-to-end tests. Each test wires the real server in-process
// through the mcp-go in-process client, backed by a service factory rooted at
// a temporary notes directory.
package e2e_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-ports/minimble/internal/checkers"
	"github.com/go-ports/minimble/internal/config"
	internalmcp "github.com/go-ports/minimble/internal/mcp"
	"github.com/go-ports/minimble/internal/notedata"
	"github.com/go-ports/minimble/internal/service"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newMCPClient creates an in-process MCP client backed by a fresh notes dir.
// The client is started and initialized before it is returned; cleanup is
// registered on c automatically.
func newMCPClient(c *qt.C) (*mcpclient.Client, string) {
	c.TB.Helper()

	notesDir, err := filepath.EvalSymlinks(c.TB.TempDir())
	c.Assert(err, qt.IsNil)
	settings := &config.Settings{NotesDir: notesDir}

	srv := internalmcp.NewServer(func() (*service.Service, error) {
		return service.New(settings, nil)
	})
	cl, err := mcpclient.NewInProcessClient(srv)
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = cl.Close() })

	c.Assert(cl.Start(context.Background()), qt.IsNil)

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "e2e-test", Version: "0.0.1"}
	_, err = cl.Initialize(context.Background(), initReq)
	c.Assert(err, qt.IsNil)

	return cl, notesDir
}

// callTool invokes the named MCP tool and returns the result and the text of
// its first content item.
func callTool(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) (*mcp.CallToolResult, string) {
	c.TB.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := cl.CallTool(context.Background(), req)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Content, qt.HasLen, 1)

	tc, ok := mcp.AsTextContent(result.Content[0])
	c.Assert(ok, qt.IsTrue)

	return result, tc.Text
}

// callJSON invokes a tool that must succeed and decodes its JSON payload.
func callJSON(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) map[string]any {
	c.TB.Helper()

	result, text := callTool(c, cl, name, args)
	c.Assert(result.IsError, qt.IsFalse, qt.Commentf("tool error: %s", text))

	var out map[string]any
	c.Assert(json.Unmarshal([]byte(text), &out), qt.IsNil)
	return out
}

func writeNote(c *qt.C, notesDir, name, content string) {
	c.TB.Helper()
	c.Assert(os.WriteFile(filepath.Join(notesDir, name+".md"), []byte(content), 0o600), qt.IsNil)
}

// ---------------------------------------------------------------------------
// ListTools
// ---------------------------------------------------------------------------

func TestMCPListTools_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	result, err := cl.ListTools(context.Background(), mcp.ListToolsRequest{})
	c.Assert(err, qt.IsNil)

	names := make(map[string]bool, len(result.Tools))
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	c.Assert(names, qt.DeepEquals, map[string]bool{
		"note_list":    true,
		"note_show":    true,
		"note_resolve": true,
		"note_tag_dir": true,
		"note_rename":  true,
		"note_remove":  true,
	})
}

// ---------------------------------------------------------------------------
// note_list / note_show
// ---------------------------------------------------------------------------

func TestMCPListAndShow_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, notesDir := newMCPClient(c)

	writeNote(c, notesDir, "alpha", "first")
	writeNote(c, notesDir, "beta", "second")

	callJSON(c, cl, "note_tag_dir", map[string]any{"name": "alpha", "add_dir": "/work/alpha"})

	c.Run("list all", func(c *qt.C) {
		out := callJSON(c, cl, "note_list", nil)
		c.Assert(out["total"], qt.Equals, float64(2))
		notes := out["notes"].([]any)
		first := notes[0].(map[string]any)
		c.Assert(first["name"], qt.Equals, "alpha")
		c.Assert(first["dirs"], qt.DeepEquals, []any{"/work/alpha"})
		second := notes[1].(map[string]any)
		c.Assert(second["dirs"], qt.DeepEquals, []any{})
	})

	c.Run("list with match", func(c *qt.C) {
		_, text := callTool(c, cl, "note_list", map[string]any{"match": "b*"})
		c.Assert(text, checkers.JSONPathEquals("$.total"), float64(1))
		c.Assert(text, checkers.JSONPathEquals("$.notes[0].name"), "beta")
	})

	c.Run("show by name", func(c *qt.C) {
		out := callJSON(c, cl, "note_show", map[string]any{"name": "beta"})
		c.Assert(out["content"], qt.Equals, "second")
		c.Assert(out["path"], qt.Equals, filepath.Join(notesDir, "beta.md"))
	})

	c.Run("show current from a nested dir", func(c *qt.C) {
		out := callJSON(c, cl, "note_show", map[string]any{"name": "@", "dir": "/work/alpha/src/pkg"})
		c.Assert(out["name"], qt.Equals, "alpha")
		c.Assert(out["content"], qt.Equals, "first")
	})
}

func TestMCPShow_RedactsSecrets(t *testing.T) {
	c := qt.New(t)
	cl, notesDir := newMCPClient(c)

	writeNote(c, notesDir, "deploy", "host: prod-1\npassword: hunter2\nticket acme-42\n")
	c.Assert(os.WriteFile(filepath.Join(notesDir, ".minimbleignore"), []byte("acme-[0-9]+\n"), 0o600), qt.IsNil)

	result, text := callTool(c, cl, "note_show", map[string]any{"name": "deploy"})
	c.Assert(result.IsError, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.content"), "host: prod-1\n[REDACTED]\nticket [REDACTED]\n")
	c.Assert(text, checkers.JSONPathEquals("$.redacted"), float64(2))

	// The note on disk is untouched.
	b, err := os.ReadFile(filepath.Join(notesDir, "deploy.md"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Contains, "hunter2")
}

func TestMCPShow_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	c.Run("missing note", func(c *qt.C) {
		result, _ := callTool(c, cl, "note_show", map[string]any{"name": "nobody"})
		c.Assert(result.IsError, qt.IsTrue)
	})

	c.Run("no tag for dir", func(c *qt.C) {
		result, text := callTool(c, cl, "note_show", map[string]any{"name": "@", "dir": "/nowhere"})
		c.Assert(result.IsError, qt.IsTrue)
		c.Assert(text, qt.Contains, "no note tagged to current or parent directories")
	})

	c.Run("bad glob", func(c *qt.C) {
		result, _ := callTool(c, cl, "note_list", map[string]any{"match": "["})
		c.Assert(result.IsError, qt.IsTrue)
	})
}

// ---------------------------------------------------------------------------
// note_resolve / note_tag_dir
// ---------------------------------------------------------------------------

func TestMCPTagAndResolve_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, notesDir := newMCPClient(c)

	out := callJSON(c, cl, "note_tag_dir", map[string]any{"name": "proj", "add_dir": "/work/proj"})
	c.Assert(out["added"], qt.Equals, "/work/proj")

	out = callJSON(c, cl, "note_resolve", map[string]any{"dir": "/work/proj/internal"})
	c.Assert(out, qt.DeepEquals, map[string]any{
		"name": "proj",
		"dir":  "/work/proj",
		"from": "/work/proj/internal",
	})

	out = callJSON(c, cl, "note_tag_dir", map[string]any{"name": "proj", "remove_dir": "/work/proj"})
	c.Assert(out["removed"], qt.Equals, "/work/proj")

	d, err := notedata.Load(filepath.Join(notesDir, notedata.FileName))
	c.Assert(err, qt.IsNil)
	c.Assert(d.Len(), qt.Equals, 0)
}

func TestMCPTagDir_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	result, text := callTool(c, cl, "note_tag_dir", map[string]any{"name": "proj"})
	c.Assert(result.IsError, qt.IsTrue)
	c.Assert(text, qt.Contains, "add_dir or remove_dir")
}

// ---------------------------------------------------------------------------
// note_rename / note_remove
// ---------------------------------------------------------------------------

func TestMCPRenameAndRemove_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, notesDir := newMCPClient(c)

	writeNote(c, notesDir, "bob", "38")
	callJSON(c, cl, "note_tag_dir", map[string]any{"name": "bob", "add_dir": "/work"})

	out := callJSON(c, cl, "note_rename", map[string]any{"name": "bob", "new_name": "robert"})
	c.Assert(out["new_path"], qt.Equals, filepath.Join(notesDir, "robert.md"))
	c.Assert(out["moved_tags"], qt.Equals, float64(1))

	out = callJSON(c, cl, "note_resolve", map[string]any{"dir": "/work"})
	c.Assert(out["name"], qt.Equals, "robert")

	out = callJSON(c, cl, "note_remove", map[string]any{"name": "robert"})
	c.Assert(out["dropped_tags"], qt.Equals, float64(1))

	entries, err := os.ReadDir(notesDir)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Name(), qt.Equals, notedata.FileName)
}

func TestMCPRename_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl, notesDir := newMCPClient(c)

	writeNote(c, notesDir, "bob", "b")
	writeNote(c, notesDir, "alice", "a")

	result, _ := callTool(c, cl, "note_rename", map[string]any{"name": "bob", "new_name": "alice"})
	c.Assert(result.IsError, qt.IsTrue)

	b, err := os.ReadFile(filepath.Join(notesDir, "bob.md"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Equals, "b")
}
