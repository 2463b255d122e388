// Package ignore matches repo-relative paths against gitignore-syntax
// pattern files such as .vibeguardignore.
package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher reports whether a slash-separated relative path is ignored. The
// zero value ignores nothing.
type Matcher struct {
	m gitignore.Matcher
}

// Parse compiles gitignore-syntax content. Blank lines and # comments are
// skipped.
func Parse(content string) Matcher {
	var ps []gitignore.Pattern
	for _, l := range strings.Split(content, "\n") {
		l = strings.TrimRight(l, " \r\t")
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(l, nil))
	}
	if len(ps) == 0 {
		return Matcher{}
	}
	return Matcher{m: gitignore.NewMatcher(ps)}
}

// Load reads a pattern file. A missing file yields an empty matcher and no
// error; other read errors still return a usable empty matcher.
func Load(path string) (Matcher, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Matcher{}, nil
		}
		return Matcher{}, err
	}
	return Parse(string(b)), nil
}

// Match reports whether rel is ignored.
func (m Matcher) Match(rel string) bool {
	if m.m == nil || rel == "" {
		return false
	}
	return m.m.Match(strings.Split(filepath.ToSlash(rel), "/"), false)
}
