package scanner

import (
	"path/filepath"
	"strings"
)

var lockFiles = map[string]bool{
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
}

// ShouldScan reports whether the document at path is eligible for scanning.
// The env file itself and its variants (envFile.*), anything under
// node_modules, minified assets and package lock files are skipped before
// any pattern runs. An empty envFile means ".env".
func ShouldScan(path, envFile string) bool {
	if envFile == "" {
		envFile = ".env"
	}
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	if base == envFile || strings.HasPrefix(base, envFile+".") {
		return false
	}
	for _, part := range strings.Split(slashed, "/") {
		if part == "node_modules" {
			return false
		}
	}
	if strings.HasSuffix(base, ".min.js") || strings.HasSuffix(base, ".min.css") {
		return false
	}
	return !lockFiles[base]
}
