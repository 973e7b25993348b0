// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that decodes the JSON document under test
// (a string or []byte), selects path from it and compares the selection with
// the wanted value using qt.DeepEquals. JSON numbers decode as float64.
//
//	c.Assert(text, checkers.JSONPathEquals("$.notes[0].name"), "bob")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

type jsonPathChecker struct {
	path string
}

func (c *jsonPathChecker) ArgNames() []string {
	return []string{"got", "want"}
}

func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var raw []byte
	switch v := got.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return qt.BadCheckf("got must be a string or []byte, not %T", got)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		note("document", string(raw))
		return fmt.Errorf("cannot decode JSON: %w", err)
	}
	selected, err := jsonpath.Read(doc, c.path)
	if err != nil {
		note("document", string(raw))
		return fmt.Errorf("cannot read %s: %w", c.path, err)
	}
	note("path", c.path)
	return qt.DeepEquals.Check(selected, args, note)
}
