// Package core provides a small, stable facade over VibeGuard's internal
// scanner and remediation engine for external integrations such as editor
// plugins and pre-commit hooks.
//
// Example:
//
//	findings, err := core.Scan(ctx, core.Config{Root: "."})
//	if err != nil { /* handle */ }
//	_ = core.WriteFindings(os.Stdout, findings)
package core
