package engine

import (
	"context"
	"io/fs"
	"mime"
	"path/filepath"
	"strings"

	"github.com/vibeguard/vibeguard/internal/ignore"
	"github.com/vibeguard/vibeguard/internal/scanner"
)

// Walk traverses the working tree and invokes handle with the root-relative,
// slash-separated path of each eligible file. Files are not read here.
func Walk(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(rel string)) error {
	cfg = cfg.withDefaults()
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			cfg.Logger.Debug("walk", "path", p, "err", err)
			return nil
		}
		if ctx != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
		}
		rel, rerr := filepath.Rel(cfg.Root, p)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if isExcludedDir(d.Name(), cfg.DefaultExcludes) || ign.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		var size int64 = -1
		if info, ierr := d.Info(); ierr == nil {
			size = info.Size()
		}
		if eligible(cfg, ign, rel, size) {
			handle(rel)
		}
		return nil
	})
}

// eligible applies every path-level filter. size < 0 means unknown.
func eligible(cfg Config, ign ignore.Matcher, rel string, size int64) bool {
	if !scanner.ShouldScan(rel, cfg.EnvFile) {
		return false
	}
	if !allowedByGlobs(rel, cfg) {
		return false
	}
	if ign.Match(rel) {
		return false
	}
	if size > cfg.MaxBytes {
		return false
	}
	return !(cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)))
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// looksNonTextMIME uses the file extension and a tiny content sniff to skip
// clearly non-text content (e.g., images) in addition to NUL-byte detection.
func looksNonTextMIME(path string, b []byte) bool {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
			return true
		}
		if strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip") {
			return true
		}
	}
	if len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n" {
		return true
	}
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// CountTargets returns the number of files a scan with cfg would consider.
// It mirrors the selection logic of ScanWithStats without reading content.
func CountTargets(cfg Config) (int, error) {
	cfg = cfg.withDefaults()
	ign, _ := ignore.Load(filepath.Join(cfg.Root, IgnoreFileName))
	n := 0
	err := Walk(context.Background(), cfg, ign, func(string) { n++ })
	return n, err
}

// Dirs returns the absolute path of cfg.Root and of every directory below
// it that a scan would descend into. Watchers subscribe to these.
func Dirs(cfg Config) ([]string, error) {
	cfg = cfg.withDefaults()
	ign, _ := ignore.Load(filepath.Join(cfg.Root, IgnoreFileName))
	var dirs []string
	err := filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(cfg.Root, p)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && (isExcludedDir(d.Name(), cfg.DefaultExcludes) || ign.Match(rel)) {
			return filepath.SkipDir
		}
		dirs = append(dirs, p)
		return nil
	})
	return dirs, err
}
