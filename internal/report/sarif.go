package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/vibeguard/vibeguard/internal/detectors"
	"github.com/vibeguard/vibeguard/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int          `json:"startLine"`
	StartColumn int          `json:"startColumn,omitempty"`
	EndLine     int          `json:"endLine,omitempty"`
	EndColumn   int          `json:"endColumn,omitempty"`
	Snippet     sarifMessage `json:"snippet"`
}

func sevToLevel(s types.Severity) string {
	if s == types.SevError {
		return "error"
	}
	return "warning"
}

// WriteSARIF writes findings as SARIF 2.1.0 to w. Snippets are masked.
func WriteSARIF(w io.Writer, findings []types.Finding, toolVersion string) error {
	var ids []string
	seen := map[string]bool{}
	for _, f := range findings {
		if !seen[f.Detector] {
			seen[f.Detector] = true
			ids = append(ids, f.Detector)
		}
	}
	sort.Strings(ids)
	index := make(map[string]int, len(ids))
	rules := make([]sarifRule, 0, len(ids))
	for i, id := range ids {
		index[id] = i
		rules = append(rules, sarifRule{ID: id, Name: ruleName(id), ShortDescription: sarifMessage{Text: ruleName(id) + " hardcoded in source"}})
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           "vibeguard",
			Version:        toolVersion,
			InformationURI: "https://github.com/vibeguard/vibeguard",
			Rules:          rules,
		}},
		Results: []sarifResult{},
	}
	for _, f := range findings {
		run.Results = append(run.Results, sarifResult{
			RuleID:    f.Detector,
			RuleIndex: index[f.Detector],
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: f.Message},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.Path},
					Region: sarifRegion{
						StartLine:   f.Line,
						StartColumn: f.Column,
						EndLine:     f.End.Line,
						EndColumn:   f.End.Column,
						Snippet:     sarifMessage{Text: maskValue(f.Match)},
					},
				},
			}},
		})
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func ruleName(id string) string {
	if p, ok := detectors.Lookup(id); ok {
		return p.Name
	}
	return "Secret in variable assignment"
}
