package detectors

import (
	"regexp"
	"strings"

	"github.com/vibeguard/vibeguard/internal/types"
)

// GenericID is the detector id reported for generic assignment matches.
const GenericID = "generic-secret"

// GenericEnvVar is the fallback variable name for generic matches.
const GenericEnvVar = "API_KEY"

// CredentialPattern is one immutable registry row.
type CredentialPattern struct {
	ID            string
	Name          string
	Rule          *regexp.Regexp
	DefaultEnvVar string
	Severity      types.Severity
	// Exclude lists prefixes that disqualify a match starting at that
	// position. RE2 has no lookahead, so "sk-(?!ant-)" is written as an
	// exclusion of "sk-ant-".
	Exclude []string
}

var all = []CredentialPattern{
	{
		ID:            "openai-api-key",
		Name:          "OpenAI API Key",
		Rule:          regexp.MustCompile(`sk-(?:proj-)?[a-zA-Z0-9\-_]{20,}`),
		DefaultEnvVar: "OPENAI_API_KEY",
		Severity:      types.SevError,
		Exclude:       []string{"sk-ant-"},
	},
	{
		ID:            "anthropic-api-key",
		Name:          "Anthropic API Key",
		Rule:          regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]{20,}`),
		DefaultEnvVar: "ANTHROPIC_API_KEY",
		Severity:      types.SevError,
	},
	{
		ID:            "aws-access-key-id",
		Name:          "AWS Access Key ID",
		Rule:          regexp.MustCompile(`\bAKIA[0-9A-Z]{16,}\b`),
		DefaultEnvVar: "AWS_ACCESS_KEY_ID",
		Severity:      types.SevError,
	},
	{
		ID:            "google-api-key",
		Name:          "Google API Key",
		Rule:          regexp.MustCompile(`AIza[0-9A-Za-z\-_]{33,}`),
		DefaultEnvVar: "GOOGLE_API_KEY",
		Severity:      types.SevError,
	},
	{
		ID:            "github-token",
		Name:          "GitHub Personal Access Token",
		Rule:          regexp.MustCompile(`ghp_[a-zA-Z0-9]{35,}`),
		DefaultEnvVar: "GITHUB_TOKEN",
		Severity:      types.SevError,
	},
	{
		ID:            "github-fine-grained-token",
		Name:          "GitHub Fine-grained Token",
		Rule:          regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{82}`),
		DefaultEnvVar: "GITHUB_TOKEN",
		Severity:      types.SevError,
	},
	{
		ID:            "stripe-secret-key",
		Name:          "Stripe Secret Key",
		Rule:          regexp.MustCompile(`sk_live_[0-9a-zA-Z]{24,}`),
		DefaultEnvVar: "STRIPE_SECRET_KEY",
		Severity:      types.SevError,
	},
	{
		ID:            "stripe-publishable-key",
		Name:          "Stripe Publishable Key",
		Rule:          regexp.MustCompile(`pk_live_[0-9a-zA-Z]{24,}`),
		DefaultEnvVar: "STRIPE_PUBLISHABLE_KEY",
		Severity:      types.SevWarning,
	},
	{
		ID:            "huggingface-token",
		Name:          "Hugging Face Token",
		Rule:          regexp.MustCompile(`hf_[a-zA-Z0-9]{30,}`),
		DefaultEnvVar: "HUGGINGFACE_TOKEN",
		Severity:      types.SevError,
	},
}

// Generic matches `<secret-ish identifier> = "<20+ chars>"`. Group 1 is the
// value inside the quotes.
var Generic = regexp.MustCompile(`(?i)(?:api[_\-]?key|api[_\-]?secret|secret[_\-]?key|access[_\-]?token|auth[_\-]?token|private[_\-]?key|openai[_\-]?key|claude[_\-]?key|gemini[_\-]?key)\s*[=:]\s*["']([a-zA-Z0-9+/=_\-.]{20,})["']`)

var byID = func() map[string]*CredentialPattern {
	m := make(map[string]*CredentialPattern, len(all))
	for i := range all {
		m[all[i].ID] = &all[i]
	}
	return m
}()

// All returns the registry in its fixed order. Callers must not modify the
// returned patterns.
func All() []CredentialPattern {
	return all
}

// Lookup returns the pattern registered under id.
func Lookup(id string) (CredentialPattern, bool) {
	p, ok := byID[id]
	if !ok {
		return CredentialPattern{}, false
	}
	return *p, true
}

// IDs lists registry ids in order, followed by the generic sentinel.
func IDs() []string {
	out := make([]string, 0, len(all)+1)
	for _, p := range all {
		out = append(out, p.ID)
	}
	return append(out, GenericID)
}

// DefaultEnvVar returns the registered variable name for id, or
// GenericEnvVar for the generic sentinel and unknown ids.
func DefaultEnvVar(id string) string {
	if p, ok := byID[id]; ok {
		return p.DefaultEnvVar
	}
	return GenericEnvVar
}

// FindAll returns the [start, end) offsets of every non-overlapping match of
// p in text, left to right. A match beginning with an excluded prefix is
// dropped and the search resumes one byte after its start.
func (p CredentialPattern) FindAll(text string) [][2]int {
	if len(p.Exclude) == 0 {
		var out [][2]int
		for _, loc := range p.Rule.FindAllStringIndex(text, -1) {
			out = append(out, [2]int{loc[0], loc[1]})
		}
		return out
	}
	var out [][2]int
	pos := 0
	for pos <= len(text) {
		loc := p.Rule.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if p.excluded(text[start:]) {
			pos = start + 1
			continue
		}
		out = append(out, [2]int{start, end})
		if end == start {
			end++
		}
		pos = end
	}
	return out
}

func (p CredentialPattern) excluded(s string) bool {
	for _, x := range p.Exclude {
		if strings.HasPrefix(s, x) {
			return true
		}
	}
	return false
}
