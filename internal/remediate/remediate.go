package remediate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vibeguard/vibeguard/internal/detectors"
	"github.com/vibeguard/vibeguard/internal/envfile"
	"github.com/vibeguard/vibeguard/internal/files"
	"github.com/vibeguard/vibeguard/internal/scanner"
	"github.com/vibeguard/vibeguard/internal/types"
)

// ErrNoWorkspace is returned when no workspace root is configured.
var ErrNoWorkspace = errors.New("no workspace folder: cannot save to env file")

// Fixer moves secrets from source files into the env file of one workspace.
//
// Calls on one Fixer are serialized. Two Fixers (or two processes) writing
// the same env file concurrently can lose an update: the file is read and
// rewritten whole, without locking.
type Fixer struct {
	Root       string
	EnvFile    string // default ".env"
	IgnoreFile string // default ".gitignore"
	Host       Host   // default OSHost
	Logger     *slog.Logger

	mu sync.Mutex
}

// Outcome reports what a remediation did.
type Outcome struct {
	Path      string
	Line      int
	Detector  string
	Requested string
	// Name is the variable actually used; see Renamed and Reused.
	Name string
	// Renamed is true when Requested was taken by a different value.
	Renamed bool
	// Reused is true when the value was already stored under Name.
	Reused        bool
	EnvPath       string
	Replacement   string
	ImportAdded   bool
	IgnoreUpdated bool
}

// Summary is the one-line user message for o.
func (o Outcome) Summary() string {
	note := ""
	if o.Renamed {
		note = fmt.Sprintf(" (renamed to %s to avoid conflict)", o.Name)
	}
	return fmt.Sprintf("%s saved to %s%s and code updated.", o.Name, filepath.Base(o.EnvPath), note)
}

func (f *Fixer) envFile() string {
	if f.EnvFile == "" {
		return ".env"
	}
	return f.EnvFile
}

func (f *Fixer) ignoreFile() string {
	if f.IgnoreFile == "" {
		return ".gitignore"
	}
	return f.IgnoreFile
}

func (f *Fixer) host() Host {
	if f.Host == nil {
		return OSHost{}
	}
	return f.Host
}

func (f *Fixer) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// Fix moves the secret described by req into the env file and rewrites the
// source to read it from the environment. name overrides the inferred
// variable name; it must be UPPER_SNAKE_CASE.
//
// The env file is written before the source is edited. If the source edit
// fails, the secret is still in the env file and still in the source, never
// lost. Nothing is written when validation or a precondition fails.
func (f *Fixer) Fix(ctx context.Context, req types.RemediationRequest, name string) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if f.Root == "" {
		return Outcome{}, ErrNoWorkspace
	}
	if name != "" {
		if err := ValidateName(name); err != nil {
			return Outcome{}, err
		}
	}
	h := f.host()

	src, err := h.ReadFile(req.Path)
	if err != nil {
		return Outcome{}, fmt.Errorf("read %s: %w", req.Path, err)
	}
	text := string(src)
	if req.Span.Start < 0 || req.Span.End > len(text) || req.Span.Start > req.Span.End ||
		text[req.Span.Start:req.Span.End] != req.Value {
		return Outcome{}, fmt.Errorf("%s: %w", req.Path, ErrStaleSpan)
	}
	if InConstant(text, req.Path, req.Span) {
		return Outcome{}, fmt.Errorf("%s: %w", req.Path, ErrConstantDeclaration)
	}
	if err := h.Writable(req.Path); err != nil {
		return Outcome{}, err
	}
	if name == "" {
		name = InferName(text, req.Span, req.Detector)
		if ValidateName(name) != nil {
			name = detectors.DefaultEnvVar(req.Detector)
		}
	}

	envPath := filepath.Join(f.Root, f.envFile())
	current, err := f.readOptional(envPath)
	if err != nil {
		return Outcome{}, err
	}
	merged, err := envfile.Merge(current, name, req.Value)
	if err != nil {
		return Outcome{}, err
	}
	if merged.Changed {
		if err := h.WriteFile(envPath, []byte(merged.Content), 0o600); err != nil {
			return Outcome{}, fmt.Errorf("save secret to %s: %w", envPath, err)
		}
	}

	plan := PlanRewrite(text, req.Path, req.Span, merged.Name)
	if err := h.ApplyEdits(req.Path, text, plan.Edits()); err != nil {
		return Outcome{}, fmt.Errorf("secret saved as %s but %s was not updated: %w", merged.Name, req.Path, err)
	}

	out := Outcome{
		Path:        req.Path,
		Line:        scanner.NewLineIndex(text).Position(req.Span.Start).Line,
		Detector:    req.Detector,
		Requested:   name,
		Name:        merged.Name,
		Renamed:     merged.Renamed,
		Reused:      !merged.Changed,
		EnvPath:     envPath,
		Replacement: plan.Edit.Text,
		ImportAdded: plan.Import != nil,
	}
	out.IgnoreUpdated, err = f.ensureIgnored()
	if err != nil {
		return out, fmt.Errorf("update %s: %w", f.ignoreFile(), err)
	}
	f.logger().Debug("remediated secret",
		"path", req.Path, "line", out.Line, "detector", req.Detector,
		"name", out.Name, "renamed", out.Renamed, "reused", out.Reused)
	return out, nil
}

// EnsureIgnored adds the env file name to the ignore file if it is missing.
// It is the confirmed action behind the startup warning.
func (f *Fixer) EnsureIgnored() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Root == "" {
		return false, ErrNoWorkspace
	}
	return f.ensureIgnored()
}

func (f *Fixer) ensureIgnored() (bool, error) {
	path := filepath.Join(f.Root, f.ignoreFile())
	content, err := f.readOptional(path)
	if err != nil {
		return false, err
	}
	updated, changed := files.EnsureLine(content, f.envFile())
	if !changed {
		return false, nil
	}
	if err := f.host().WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, err
	}
	f.logger().Info("added env file to ignore file", "env", f.envFile(), "ignore", path)
	return true, nil
}

func (f *Fixer) readOptional(path string) (string, error) {
	b, err := f.host().ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// NameFunc chooses the variable name for a finding. Returning ok=false
// skips the finding.
type NameFunc func(f types.Finding, suggested string) (name string, ok bool, err error)

// FixAll remediates every finding in the document at path, one at a time,
// rescanning after each edit so spans always match the current text.
// Skipped secrets are not offered again. A repeated secret is fixed at every
// occurrence and reuses the name it was first stored under.
func (f *Fixer) FixAll(ctx context.Context, path string, choose NameFunc) ([]Outcome, error) {
	skipped := map[string]bool{}
	stuck := map[string]bool{}
	var outs []Outcome
	for {
		if err := ctx.Err(); err != nil {
			return outs, err
		}
		text, findings, err := f.scanDocument(path)
		if err != nil {
			return outs, err
		}
		var next *types.Finding
		for i := range findings {
			fd := findings[i]
			if !skipped[secretKey(fd)] && !stuck[occurrenceKey(fd)] {
				next = &fd
				break
			}
		}
		if next == nil {
			return outs, nil
		}
		if InConstant(text, path, next.Span) {
			stuck[occurrenceKey(*next)] = true
			f.logger().Warn("left secret in place", "path", path, "line", next.Line, "err", ErrConstantDeclaration)
			continue
		}
		name := InferName(text, next.Span, next.Detector)
		if ValidateName(name) != nil {
			name = detectors.DefaultEnvVar(next.Detector)
		}
		if choose != nil {
			chosen, ok, err := choose(*next, name)
			if err != nil {
				return outs, err
			}
			if !ok {
				skipped[secretKey(*next)] = true
				continue
			}
			name = chosen
		}
		out, err := f.Fix(ctx, next.Request(), name)
		if err != nil {
			return outs, err
		}
		outs = append(outs, out)

		// the rewrite left this occurrence in place; do not retry it
		_, after, err := f.scanDocument(path)
		if err != nil {
			return outs, err
		}
		for _, fd := range after {
			if occurrenceKey(fd) == occurrenceKey(*next) {
				stuck[occurrenceKey(fd)] = true
				f.logger().Warn("secret still present after fix",
					"path", path, "line", next.Line, "detector", next.Detector)
				break
			}
		}
	}
}

func (f *Fixer) scanDocument(path string) (string, []types.Finding, error) {
	src, err := f.host().ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := string(src)
	return text, scanner.Scan(path, text), nil
}

func secretKey(fd types.Finding) string {
	return fd.Detector + "\x00" + fd.Match
}

func occurrenceKey(fd types.Finding) string {
	return secretKey(fd) + "\x00" + strconv.Itoa(fd.Span.Start)
}
