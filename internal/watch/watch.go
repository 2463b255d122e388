// Package watch re-scans files as they change on disk, the command-line
// counterpart of scanning on every save in an editor.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vibeguard/vibeguard/internal/engine"
	"github.com/vibeguard/vibeguard/internal/types"
)

// DefaultDebounce is the quiet period after the last write to a file before
// it is scanned.
const DefaultDebounce = 500 * time.Millisecond

// Options are the callbacks a watch loop reports to. Callbacks run on the
// loop goroutine, one at a time.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
	// OnFindings receives the scan result of a changed file, including an
	// empty result when the file became clean.
	OnFindings func(rel string, findings []types.Finding)
	// OnEnvWrite is called after the env file at the root is written.
	OnEnvWrite func()
}

// Run watches cfg.Root until ctx is done. Directories created while running
// are watched too.
func Run(ctx context.Context, cfg engine.Config, opts Options) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if cfg.EnvFile == "" {
		cfg.EnvFile = ".env"
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return err
	}
	cfg.Root = root

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	dirs, err := engine.Dirs(cfg)
	if err != nil {
		return fmt.Errorf("list directories: %w", err)
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			opts.Logger.Warn("cannot watch directory", "dir", d, "err", err)
		}
	}
	opts.Logger.Debug("watching", "root", root, "dirs", len(dirs))

	due := make(chan string, 64)
	var mu sync.Mutex
	timers := map[string]*time.Timer{}
	schedule := func(rel string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[rel]; ok {
			t.Stop()
		}
		timers[rel] = time.AfterFunc(opts.Debounce, func() {
			mu.Lock()
			delete(timers, rel)
			mu.Unlock()
			select {
			case due <- rel:
			case <-ctx.Done():
			}
		})
	}
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = fsw.Add(ev.Name)
					continue
				}
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil {
				continue
			}
			schedule(filepath.ToSlash(rel))
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Error("watcher error", "err", err)
		case rel := <-due:
			handle(ctx, cfg, opts, rel)
		}
	}
}

func handle(ctx context.Context, cfg engine.Config, opts Options, rel string) {
	if rel == filepath.ToSlash(cfg.EnvFile) {
		if opts.OnEnvWrite != nil {
			opts.OnEnvWrite()
		}
		return
	}
	res, err := engine.ScanPaths(ctx, cfg, []string{rel})
	if err != nil {
		opts.Logger.Warn("rescan failed", "path", rel, "err", err)
		return
	}
	if res.FilesScanned == 0 {
		return
	}
	if opts.OnFindings != nil {
		opts.OnFindings(rel, res.Findings)
	}
}
