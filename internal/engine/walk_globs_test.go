package engine

import (
	"context"
	"sort"
	"testing"

	"github.com/vibeguard/vibeguard/internal/ignore"
)

var ignoreNone ignore.Matcher

func TestWalk_WithIncludeExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":                   "hello",
		"b.go":                    "package main\n",
		"c.md":                    "doc",
		"node_modules/x/index.js": "x",
		"vendor/lib.go":           "package lib\n",
	})

	walk := func(cfg Config) []string {
		var got []string
		if err := Walk(context.Background(), cfg, ignoreNone, func(rel string) { got = append(got, rel) }); err != nil {
			t.Fatal(err)
		}
		sort.Strings(got)
		return got
	}

	got := walk(Config{Root: dir, IncludeGlobs: "**/*.go"})
	if len(got) != 2 || got[0] != "b.go" || got[1] != "vendor/lib.go" {
		t.Fatalf("include globs failed, got %v", got)
	}

	got = walk(Config{Root: dir, IncludeGlobs: "**/*.go", DefaultExcludes: true})
	if len(got) != 1 || got[0] != "b.go" {
		t.Fatalf("default excludes failed, got %v", got)
	}

	for _, p := range walk(Config{Root: dir, ExcludeGlobs: "**/*.md"}) {
		if p == "c.md" {
			t.Fatalf("exclude globs failed, saw %s", p)
		}
		if p == "node_modules/x/index.js" {
			t.Fatalf("node_modules not pruned")
		}
	}
}

func TestAllowedByGlobs_Builtins(t *testing.T) {
	cfg := Config{EnvFile: ".env"}
	for _, rel := range []string{".env", "svc/.env", ".env.production", "Cargo.lock", "web/app.min.js", "build/out.js"} {
		if allowedByGlobs(rel, cfg) {
			t.Errorf("%s should be excluded", rel)
		}
	}
	for _, rel := range []string{"app.py", "src/env.ts", "docs/build.md"} {
		if !allowedByGlobs(rel, cfg) {
			t.Errorf("%s should be allowed", rel)
		}
	}
}
