package remediate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vibeguard/vibeguard/internal/detectors"
	"github.com/vibeguard/vibeguard/internal/scanner"
	"github.com/vibeguard/vibeguard/internal/types"
)

// ErrInvalidName is returned for variable names that are not UPPER_SNAKE_CASE.
var ErrInvalidName = errors.New("use UPPER_SNAKE_CASE (e.g. OPENAI_API_KEY)")

var (
	reAssignTarget  = regexp.MustCompile("([a-zA-Z_][a-zA-Z0-9_]*)\\s*[=:]\\s*[\"'`]?\\s*$")
	reCamelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
	reDashSpace     = regexp.MustCompile(`[-\s]+`)
	reNonIdent      = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	reValidName     = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

// keywords that can sit right before an assignment operator but never name
// the value being assigned.
var notIdentifiers = map[string]bool{
	"const": true, "let": true, "var": true, "val": true, "return": true,
	"export": true, "default": true, "new": true, "true": true, "false": true,
}

// InferName derives an UPPER_SNAKE_CASE variable name for the secret at span
// from the assignment target or keyword argument immediately before it on
// the same line. `Client(api_key="...")` yields API_KEY, not CLIENT. When no
// usable identifier precedes the literal, the pattern's default is returned.
func InferName(text string, span types.Span, detector string) string {
	before := text[scanner.LineStart(text, span.Start):span.Start]
	if m := reAssignTarget.FindStringSubmatch(before); m != nil && !notIdentifiers[m[1]] {
		if name := ToUpperSnake(m[1]); name != "" {
			return name
		}
	}
	return detectors.DefaultEnvVar(detector)
}

// ToUpperSnake converts an identifier to UPPER_SNAKE_CASE: camelCase
// boundaries and runs of hyphens or whitespace become single underscores,
// anything outside [A-Za-z0-9_] is dropped.
func ToUpperSnake(name string) string {
	s := reCamelBoundary.ReplaceAllString(name, "${1}_${2}")
	s = reDashSpace.ReplaceAllString(s, "_")
	s = reNonIdent.ReplaceAllString(s, "")
	return strings.ToUpper(s)
}

// ValidateName rejects names an interactive caller typed that are not
// UPPER_SNAKE_CASE. Names are never sanitized on the caller's behalf.
func ValidateName(name string) error {
	if !reValidName.MatchString(name) {
		return fmt.Errorf("invalid variable name %q: %w", name, ErrInvalidName)
	}
	return nil
}
