package core

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/vibeguard/vibeguard/internal/detectors"
	"github.com/vibeguard/vibeguard/internal/engine"
	"github.com/vibeguard/vibeguard/internal/remediate"
	"github.com/vibeguard/vibeguard/internal/report"
	"github.com/vibeguard/vibeguard/internal/scanner"
	"github.com/vibeguard/vibeguard/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config             = engine.Config
	Result             = engine.Result
	Finding            = types.Finding
	RemediationRequest = types.RemediationRequest
	Fixer              = remediate.Fixer
	Outcome            = remediate.Outcome
	Host               = remediate.Host
)

// Scan is the stable entrypoint for scanning a workspace.
func Scan(ctx context.Context, cfg Config) ([]Finding, error) {
	return engine.Scan(ctx, cfg)
}

// ScanWithStats scans a workspace and reports statistics with the findings.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanWithStats(ctx, cfg)
}

// ScanText scans one in-memory document. path selects nothing but is
// copied into each finding.
func ScanText(path, text string) []Finding {
	return scanner.Scan(path, text)
}

// Fix moves the secret of f, found in the document at path, into root's
// .env and rewrites the source. An empty name uses the inferred one.
func Fix(ctx context.Context, root, path string, f Finding, name string) (Outcome, error) {
	fx := &Fixer{Root: root}
	req := f.Request()
	req.Path = path
	return fx.Fix(ctx, req, name)
}

// PatternIDs returns the IDs of the credential patterns, in match order.
func PatternIDs() []string { return detectors.IDs() }

// WriteFindings writes findings in the format of `vibeguard scan --json`.
// Matched secrets are included verbatim.
func WriteFindings(w io.Writer, findings []Finding) error {
	return report.WriteJSON(w, findings)
}

// ReadFindings parses the output of WriteFindings. Empty input is no
// findings, not an error.
func ReadFindings(r io.Reader) ([]Finding, error) {
	fs := []Finding{}
	if err := json.NewDecoder(r).Decode(&fs); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return fs, nil
}
