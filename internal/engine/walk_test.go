package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCountTargets_IgnoreFileAndMaxBytes(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.txt":          "ok",
		"ignored.txt":    "secret",
		IgnoreFileName:   "ignored.txt\n",
		".env":           "API_KEY=x\n",
		".env.local":     "API_KEY=y\n",
		"yarn.lock":      "lock",
		"app.min.js":     "x",
		"dist/bundle.js": "x",
	})
	if err := os.WriteFile(filepath.Join(dir, "big.txt"), make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := CountTargets(Config{Root: dir, MaxBytes: 1024})
	if err != nil {
		t.Fatal(err)
	}
	// a.txt and the ignore file itself; everything else is filtered by path or size
	if n != 2 {
		t.Fatalf("expected 2 targets, got %d", n)
	}
}

func TestEligible_CustomEnvFile(t *testing.T) {
	cfg := Config{Root: ".", EnvFile: "secrets.env"}.withDefaults()
	cases := map[string]bool{
		"secrets.env":       false,
		"sub/secrets.env.1": false,
		".env":              true,
		"src/app.py":        true,
	}
	for rel, want := range cases {
		if got := eligible(cfg, ignoreNone, rel, 10); got != want {
			t.Errorf("eligible(%q) = %v, want %v", rel, got, want)
		}
	}
}

func TestLooksBinary(t *testing.T) {
	if !looksBinary([]byte("ab\x00cd")) {
		t.Fatal("NUL byte not detected")
	}
	if looksBinary([]byte("plain text")) {
		t.Fatal("text reported as binary")
	}
	if !looksNonTextMIME("logo.png", nil) {
		t.Fatal("png extension not detected")
	}
	if !looksNonTextMIME("blob", []byte("PK\x03\x04rest")) {
		t.Fatal("zip header not detected")
	}
}

func TestDirs_PrunesExcludedTrees(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/app.py":                "x",
		"src/lib/util.py":           "x",
		"node_modules/pkg/index.js": "x",
		"vendor/mod/a.go":           "x",
		"skipme/a.txt":              "x",
		IgnoreFileName:              "skipme\n",
	})
	dirs, err := Dirs(Config{Root: dir, DefaultExcludes: true})
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, d := range dirs {
		rel, _ := filepath.Rel(dir, d)
		got[filepath.ToSlash(rel)] = true
	}
	for _, want := range []string{".", "src", "src/lib"} {
		if !got[want] {
			t.Errorf("missing dir %q in %v", want, dirs)
		}
	}
	for _, bad := range []string{"node_modules", "vendor", "skipme"} {
		if got[bad] {
			t.Errorf("dir %q should be pruned", bad)
		}
	}
}
