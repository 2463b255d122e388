package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vibeguard/vibeguard/internal/cache"
	"github.com/vibeguard/vibeguard/internal/ignore"
	"github.com/vibeguard/vibeguard/internal/scanner"
	"github.com/vibeguard/vibeguard/internal/types"
)

// DefaultMaxBytes is the file size limit used when Config.MaxBytes is unset.
const DefaultMaxBytes = 1 << 20

// Config controls scope, performance and filters of a workspace scan.
type Config struct {
	Root            string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int
	EnvFile         string
	DefaultExcludes bool
	NoCache         bool
	Logger          *slog.Logger
	// Progress is called once per file considered, from worker goroutines.
	Progress func()
}

func (c Config) withDefaults() Config {
	if c.Root == "" {
		c.Root = "."
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.Threads <= 0 {
		c.Threads = runtime.GOMAXPROCS(0)
	}
	if c.EnvFile == "" {
		c.EnvFile = ".env"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Result contains findings and basic scan statistics. Findings are ordered
// by path, and by scanner order within a file.
type Result struct {
	Findings     []types.Finding
	FilesScanned int
	FilesSkipped int
	CacheHits    int
	Duration     time.Duration
}

// Scan runs a scan and returns only findings (without stats).
func Scan(ctx context.Context, cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// ScanWithStats scans every eligible file under cfg.Root.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	ign, err := ignore.Load(filepath.Join(cfg.Root, IgnoreFileName))
	if err != nil {
		cfg.Logger.Warn("could not read ignore file", "file", IgnoreFileName, "err", err)
	}
	var rels []string
	if err := Walk(ctx, cfg, ign, func(rel string) { rels = append(rels, rel) }); err != nil {
		return Result{}, err
	}
	return scanRels(ctx, cfg, rels)
}

// ScanPaths scans only the given root-relative paths, applying the same
// filters as a full scan. Paths that no longer exist are counted as skipped.
func ScanPaths(ctx context.Context, cfg Config, rels []string) (Result, error) {
	cfg = cfg.withDefaults()
	ign, _ := ignore.Load(filepath.Join(cfg.Root, IgnoreFileName))
	var keep []string
	skipped := 0
	for _, rel := range rels {
		rel = filepath.ToSlash(rel)
		info, err := os.Stat(filepath.Join(cfg.Root, rel))
		if err != nil || !info.Mode().IsRegular() || !eligible(cfg, ign, rel, info.Size()) {
			skipped++
			continue
		}
		keep = append(keep, rel)
	}
	res, err := scanRels(ctx, cfg, keep)
	res.FilesSkipped += skipped
	return res, err
}

type fileResult struct {
	findings []types.Finding
	hash     string
	skipped  bool
	cached   bool
}

func scanRels(ctx context.Context, cfg Config, rels []string) (Result, error) {
	started := time.Now()
	var db cache.DB
	if cfg.NoCache {
		db.Entries = map[string]string{}
	} else {
		db, _ = cache.Load(cfg.Root)
	}

	results := make([]fileResult, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	for i, rel := range rels {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scanFile(cfg, db.Entries, rel)
			if cfg.Progress != nil {
				cfg.Progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var res Result
	changed := false
	for i, r := range results {
		rel := rels[i]
		switch {
		case r.skipped:
			res.FilesSkipped++
			continue
		case r.cached:
			res.CacheHits++
		}
		res.FilesScanned++
		res.Findings = append(res.Findings, r.findings...)
		// only clean files are cached; files with findings are always rescanned
		if len(r.findings) == 0 {
			if db.Entries[rel] != r.hash {
				db.Entries[rel] = r.hash
				changed = true
			}
		} else if _, ok := db.Entries[rel]; ok {
			delete(db.Entries, rel)
			changed = true
		}
	}
	res.Duration = time.Since(started)
	if !cfg.NoCache && changed {
		if err := cache.Save(cfg.Root, db); err != nil {
			cfg.Logger.Warn("could not save scan cache", "err", err)
		}
	}
	cfg.Logger.Debug("scan complete",
		"files", res.FilesScanned, "skipped", res.FilesSkipped,
		"cache_hits", res.CacheHits, "findings", len(res.Findings),
		"workers", cfg.Threads, "duration", res.Duration)
	return res, nil
}

// scanText is the per-document detector; tests replace it.
var scanText = scanner.Scan

// scanFile never panics: a detector failure skips the file and the rest of
// the scan goes on.
func scanFile(cfg Config, cached map[string]string, rel string) (res fileResult) {
	defer func() {
		if r := recover(); r != nil {
			cfg.Logger.Error("scanner failed, skipping file", "path", rel, "panic", r)
			res = fileResult{skipped: true}
		}
	}()
	b, err := os.ReadFile(filepath.Join(cfg.Root, filepath.FromSlash(rel)))
	if err != nil {
		cfg.Logger.Warn("skipping unreadable file", "path", rel, "err", err)
		return fileResult{skipped: true}
	}
	if looksBinary(b) || looksNonTextMIME(rel, b) {
		return fileResult{skipped: true}
	}
	if bytes.Contains(b, []byte(ignoreDirective)) {
		return fileResult{skipped: true}
	}
	h := fastHash(b)
	if cached[rel] == h {
		return fileResult{hash: h, cached: true}
	}
	return fileResult{findings: scanText(rel, string(b)), hash: h}
}

func fastHash(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
