// Package envfile reads and merges the line-oriented NAME=value env file
// that holds extracted secrets. Content is always read and rewritten whole.
package envfile

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/vibeguard/vibeguard/internal/types"
)

var (
	// ErrMultilineValue rejects values that would break the line format.
	ErrMultilineValue = errors.New("secret value contains a line break and cannot be stored in an env file")
	// ErrEmptyValue rejects empty secrets.
	ErrEmptyValue = errors.New("secret value is empty")
)

var reEntry = regexp.MustCompile(`^([A-Z_][A-Z0-9_]*)=(.*)$`)

// MergeResult is the outcome of merging one secret into an env file.
type MergeResult struct {
	// Name is the variable the value is stored under. It differs from the
	// requested name when the value already existed or the name was taken.
	Name    string
	Content string
	// Changed is false when the value was already stored.
	Changed bool
	// Renamed is true when a numeric suffix was added to avoid a collision.
	Renamed bool
}

// Merge adds name=value to content. If any entry already holds value, its
// name is returned and content is left byte-identical, so merging the same
// secret twice never creates a second entry. Otherwise name gets a _2, _3,
// ... suffix while it is taken, and one line is appended.
func Merge(content, name, value string) (MergeResult, error) {
	if value == "" {
		return MergeResult{}, ErrEmptyValue
	}
	if strings.ContainsAny(value, "\r\n") {
		return MergeResult{}, ErrMultilineValue
	}
	lines := splitLines(content)
	for _, l := range lines {
		m := reEntry.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		rest := m[2]
		if strings.HasPrefix(rest, value) && strings.TrimSpace(rest[len(value):]) == "" {
			return MergeResult{Name: m[1], Content: content}, nil
		}
	}

	final := name
	for n := 2; hasName(lines, final); n++ {
		final = name + "_" + strconv.Itoa(n)
	}
	prefix := ""
	if content != "" && !strings.HasSuffix(content, "\n") {
		prefix = "\n"
	}
	return MergeResult{
		Name:    final,
		Content: content + prefix + final + "=" + value + "\n",
		Changed: true,
		Renamed: final != name,
	}, nil
}

func hasName(lines []string, name string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, name+"=") {
			return true
		}
	}
	return false
}

func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Parse returns the NAME=value entries of content in order. Comments, blank
// lines and lines that are not entries are skipped.
func Parse(content string) []types.EnvEntry {
	var out []types.EnvEntry
	for _, l := range splitLines(content) {
		if m := reEntry.FindStringSubmatch(l); m != nil {
			out = append(out, types.EnvEntry{Name: m[1], Value: m[2]})
		}
	}
	return out
}

// Example blanks every value in content, keeping names, comments and blank
// lines, for committing as a .env.example template.
func Example(content string) string {
	lines := strings.Split(content, "\n")
	for i, ln := range lines {
		if strings.HasPrefix(strings.TrimSpace(ln), "#") || !strings.Contains(ln, "=") {
			continue
		}
		kv := strings.SplitN(ln, "=", 2)
		lines[i] = strings.TrimSpace(kv[0]) + "="
	}
	return strings.Join(lines, "\n")
}

// ReadOptional returns the content of path, or "" when it does not exist.
// A missing env file is the normal starting state.
func ReadOptional(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// Write replaces the env file at path with content, owner read/write only.
func Write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
