package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/vibeguard/vibeguard/internal/ignore"
)

// EnsureLine returns content with line present as one of its lines. Lines
// are compared after trimming surrounding whitespace. When line is added, a
// newline is inserted first if content does not already end with one.
func EnsureLine(content, line string) (string, bool) {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return content, false
		}
	}
	prefix := ""
	if content != "" && !strings.HasSuffix(content, "\n") {
		prefix = "\n"
	}
	return content + prefix + line + "\n", true
}

// AppendIgnore ensures pattern is a line of the ignore file (e.g.
// .gitignore) at repoRoot, creating the file if missing. It reports whether
// the file was changed. Idempotent.
func AppendIgnore(repoRoot, ignoreFile, pattern string) (bool, error) {
	path := filepath.Join(repoRoot, ignoreFile)
	content, err := readOptional(path)
	if err != nil {
		return false, err
	}
	updated, changed := EnsureLine(content, pattern)
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// Status describes how well the env file is kept out of version control.
type Status struct {
	EnvPath string
	// EnvExists is false when there is nothing to protect yet.
	EnvExists bool
	// Listed is true when the ignore file has the env file name as a line.
	Listed bool
	// Covered is true when any ignore pattern matches the env file.
	Covered bool
	// Tracked is true when the env file is already in the git index, where
	// ignoring it has no effect.
	Tracked bool
}

// NeedsAttention reports whether the caller should warn: the env file exists
// but its name is not listed in the ignore file.
func (s Status) NeedsAttention() bool {
	return s.EnvExists && !s.Listed
}

// CheckIgnored inspects root without modifying anything.
func CheckIgnored(root, envFile, ignoreFile string) (Status, error) {
	st := Status{EnvPath: filepath.Join(root, envFile)}
	if _, err := os.Stat(st.EnvPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	st.EnvExists = true

	content, err := readOptional(filepath.Join(root, ignoreFile))
	if err != nil {
		return st, err
	}
	_, missing := EnsureLine(content, envFile)
	st.Listed = !missing
	st.Covered = ignore.Parse(content).Match(filepath.ToSlash(envFile))
	st.Tracked = trackedInGit(root, envFile)
	return st, nil
}

// trackedInGit reports whether rel (relative to root) has an index entry in
// the repository containing root. Outside a repository it is false.
func trackedInGit(root, rel string) bool {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	inRepo, err := filepath.Rel(wt.Filesystem.Root(), filepath.Join(absRoot, rel))
	if err != nil {
		return false
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return false
	}
	_, err = idx.Entry(filepath.ToSlash(inRepo))
	return err == nil
}

func readOptional(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
