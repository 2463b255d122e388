package engine

import (
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// IgnoreFileName is the gitignore-syntax file of paths a workspace scan skips.
const IgnoreFileName = ".vibeguardignore"

// ignoreDirective in a file's content excludes the whole file.
const ignoreDirective = "vibeguard:ignore-file"

// builtinExcludes are applied to every workspace scan, whatever the config.
func builtinExcludes(envFile string) []string {
	return []string{
		"**/node_modules/**",
		"**/.git/**",
		"**/*.min.js",
		"**/*.lock",
		"**/dist/**",
		"**/build/**",
		"**/" + envFile,
		"**/" + envFile + ".*",
		"**/.vibeguardcache.json",
	}
}

// directories pruned without descending
var builtinExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
}

// extra directories skipped when default excludes are enabled
var defaultExcludeDirs = map[string]bool{
	"target":      true,
	"vendor":      true,
	"out":         true,
	".venv":       true,
	"venv":        true,
	"__pycache__": true,
	"coverage":    true,
	"bin":         true,
	"obj":         true,
}

// suffixes treated as non-text or generated when default excludes are enabled
var defaultExcludeFileSuffixes = []string{
	".map",
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico",
	".pdf", ".zip", ".gz", ".tar", ".tgz", ".7z",
	".jar", ".class", ".exe", ".dll", ".so",
	".wasm", ".pyc",
	".pb.go", ".gen.go",
}

var defaultExcludeFileNames = map[string]bool{
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	".DS_Store":         true,
}

func isExcludedDir(name string, defaults bool) bool {
	if builtinExcludeDirs[name] {
		return true
	}
	return defaults && defaultExcludeDirs[name]
}

func isDefaultFileExcluded(lowerRel string) bool {
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	return defaultExcludeFileNames[filepath.Base(lowerRel)]
}

// allowedByGlobs reports whether relPath passes the built-in excludes and the
// configured include/exclude globs. Include globs are comma-separated and, if
// provided, act as a positive filter. Exclude globs are subtracted last.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := filepath.ToSlash(relPath)
	if matchAnyGlob(rp, builtinExcludes(cfg.EnvFile)) {
		return false
	}
	if includes := parseGlobsList(cfg.IncludeGlobs); len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if excludes := parseGlobsList(cfg.ExcludeGlobs); len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	base := filepath.Base(pathToMatch)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
