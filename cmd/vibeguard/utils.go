package vibeguard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vibeguard/vibeguard/internal/audit"
	"github.com/vibeguard/vibeguard/internal/config"
	"github.com/vibeguard/vibeguard/internal/detectors"
	"github.com/vibeguard/vibeguard/internal/engine"
	"github.com/vibeguard/vibeguard/internal/remediate"
	"github.com/vibeguard/vibeguard/internal/types"
)

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadSettings resolves the workspace root and its layered config, then
// applies the persistent flags the user set explicitly (CLI > local > global).
func loadSettings(cmd *cobra.Command, path string) (string, config.Settings, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", config.Settings{}, err
	}
	s, err := config.Load(abs)
	if err != nil {
		return "", config.Settings{}, fmt.Errorf("config: %w", err)
	}
	s.Threads = pickInt(flagThreads, s.Threads)
	s.NoColor = pickBool(cmd, "no-color", flagNoColor, s.NoColor)
	s.DefaultExcludes = pickBool(cmd, "default-excludes", flagDefaultExcludes, s.DefaultExcludes)
	return abs, s, nil
}

func engineConfig(root string, s config.Settings) engine.Config {
	return engine.Config{
		Root:            root,
		IncludeGlobs:    s.Include,
		ExcludeGlobs:    s.Exclude,
		MaxBytes:        s.MaxBytes,
		Threads:         s.Threads,
		EnvFile:         s.EnvFile,
		DefaultExcludes: s.DefaultExcludes,
		NoCache:         flagNoCache,
		Logger:          slog.Default(),
	}
}

func newFixer(root string, s config.Settings) *remediate.Fixer {
	return &remediate.Fixer{
		Root:       root,
		EnvFile:    s.EnvFile,
		IgnoreFile: s.IgnoreFile,
		Logger:     slog.Default(),
	}
}

// absPath resolves a finding path, which is relative to root after a
// workspace scan.
func absPath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

// suggestName is the name offered before a fix: inferred from the code
// around the secret, or the detector's default.
func suggestName(text string, f types.Finding) string {
	name := remediate.InferName(text, f.Span, f.Detector)
	if remediate.ValidateName(name) != nil {
		return detectors.DefaultEnvVar(f.Detector)
	}
	return name
}

// fixFinding remediates f under name and records it in the audit log.
func fixFinding(ctx context.Context, fx *remediate.Fixer, f types.Finding, name string) (remediate.Outcome, error) {
	req := f.Request()
	req.Path = absPath(fx.Root, f.Path)
	out, err := fx.Fix(ctx, req, name)
	if err != nil {
		return out, err
	}
	recordFix(fx, out)
	return out, nil
}

func recordFix(fx *remediate.Fixer, out remediate.Outcome) {
	rel, err := filepath.Rel(fx.Root, out.Path)
	if err != nil {
		rel = out.Path
	}
	rec := audit.FixRecord{
		Root:      fx.Root,
		Path:      filepath.ToSlash(rel),
		Line:      out.Line,
		Detector:  out.Detector,
		Requested: out.Requested,
		Name:      out.Name,
		Renamed:   out.Renamed,
		Reused:    out.Reused,
		EnvFile:   filepath.Base(out.EnvPath),
	}
	if err := audit.NewAuditLog(fx.Root).LogFix(rec); err != nil {
		slog.Warn("could not write audit log", "err", err)
	}
}

func pickString(cli, resolved string) string {
	if cli != "" {
		return cli
	}
	return resolved
}

func pickInt(cli, resolved int) int {
	if cli != 0 {
		return cli
	}
	return resolved
}

func pickInt64(cli, resolved int64) int64 {
	if cli != 0 {
		return cli
	}
	return resolved
}

// pickBool prefers the flag only when the user set it, so a false flag can
// override a true config value.
func pickBool(cmd *cobra.Command, name string, cli, resolved bool) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return cli
	}
	return resolved
}
