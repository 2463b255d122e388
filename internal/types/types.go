package types

// Severity is the level a finding is reported at.
type Severity string

const (
	SevError   Severity = "error"
	SevWarning Severity = "warning"
)

// Span is a half-open byte range [Start, End) into a document's text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Position is a 1-based line and column. Columns count bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Finding describes a hardcoded secret located in a document. Findings are
// recomputed on every scan; there is no identity across edits.
type Finding struct {
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Match    string   `json:"match"`
	Detector string   `json:"detector"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Span     Span     `json:"span"`
	End      Position `json:"end"`
}

// RemediationRequest asks for the secret at Span (value only, quotes
// excluded) in the document at Path to be moved to the env file.
type RemediationRequest struct {
	Path     string `json:"path"`
	Span     Span   `json:"span"`
	Detector string `json:"detector"`
	Value    string `json:"value"`
}

// Request builds the remediation request for f.
func (f Finding) Request() RemediationRequest {
	return RemediationRequest{Path: f.Path, Span: f.Span, Detector: f.Detector, Value: f.Match}
}

// EnvEntry is one NAME=value line of an env file.
type EnvEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
