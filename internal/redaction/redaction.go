// Package redaction masks secrets in note content before it leaves the
// machine, e.g. when a note is handed to a coding agent over MCP.
package redaction

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreFile is the per-notes-directory file of extra patterns, one regular
// expression per line; blank lines and # comments are skipped.
const IgnoreFile = ".minimbleignore"

// Replacement is substituted for every redacted span.
const Replacement = "[REDACTED]"

var builtinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)sk_(?:live|test)_[a-zA-Z0-9]+`),     // Stripe keys
	regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`),                  // OpenAI-style keys
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),             // GitHub tokens
	regexp.MustCompile(`github_pat_[a-zA-Z0-9_]+`),               // GitHub fine-grained PATs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),                       // AWS access key IDs
	regexp.MustCompile(`xox[abpr]-[a-zA-Z0-9-]+`),                // Slack tokens
	regexp.MustCompile(`-----BEGIN (?:[A-Z]+ )?PRIVATE KEY-----`), // Private keys
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+`),   // JWTs
	regexp.MustCompile(`(?i)password\s*[:=]\s*["']?.+`),
	regexp.MustCompile(`(?i)secret\s*[:=]\s*["']?.+`),
	regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*["']?.+`),
}

// secretTagRe matches explicit <secret>…</secret> pairs, including multiline.
var secretTagRe = regexp.MustCompile(`(?s)<secret>.*?</secret>`)

// Redactor masks secrets using the built-in patterns plus any extras.
type Redactor struct {
	extra []*regexp.Regexp
}

// New returns a Redactor using the built-in patterns and extra.
func New(extra ...*regexp.Regexp) *Redactor {
	return &Redactor{extra: extra}
}

// Load builds a Redactor from the ignore file in notesDir. A missing file
// yields a Redactor with only the built-in patterns.
func Load(notesDir string) (*Redactor, error) {
	path := filepath.Join(notesDir, IgnoreFile)
	extra, err := loadPatterns(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return New(extra...), nil
}

// Redact returns text with secrets replaced by Replacement, and how many
// spans were replaced. Explicit <secret> tags are handled first; orphaned
// tags are stripped.
func (r *Redactor) Redact(text string) (string, int) {
	n := 0
	replace := func(re *regexp.Regexp) {
		text = re.ReplaceAllStringFunc(text, func(string) string {
			n++
			return Replacement
		})
	}

	replace(secretTagRe)
	text = strings.ReplaceAll(text, "<secret>", "")
	text = strings.ReplaceAll(text, "</secret>", "")

	for _, re := range builtinPatterns {
		replace(re)
	}
	for _, re := range r.extra {
		replace(re)
	}
	return text, n
}

func loadPatterns(path string) ([]*regexp.Regexp, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []*regexp.Regexp
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		re, err := regexp.Compile(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, scanner.Err()
}
