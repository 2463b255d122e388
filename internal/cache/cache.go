// Package cache persists content hashes of files that scanned clean, so a
// workspace scan can skip them until they change. It never stores findings
// or secret values.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// DB maps a root-relative path to the xxhash of content that had no findings.
type DB struct {
	Entries map[string]string `json:"entries"`
}

// Path returns the cache file location for root. The cache lives under .git
// when present so it is never committed.
func Path(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "vibeguardcache.json")
	}
	return filepath.Join(root, ".vibeguardcache.json")
}

// Load reads the cache for root. The returned DB is always usable, even
// alongside an error.
func Load(root string) (DB, error) {
	var db DB
	f, err := os.ReadFile(Path(root))
	if err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]string{}
	}
	return db, nil
}

// Save writes db for root.
func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(root), b, 0o644)
}

// Clear removes the cache file for root. A missing file is not an error.
func Clear(root string) error {
	if err := os.Remove(Path(root)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
