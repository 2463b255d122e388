package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vibeguard/vibeguard/internal/types"
)

func TestWriteSARIF_Structure(t *testing.T) {
	fs := []types.Finding{
		{Path: "a.go", Line: 10, Column: 5, End: types.Position{Line: 10, Column: 45}, Match: token, Detector: "github-token", Severity: types.SevError, Message: "GitHub Personal Access Token hardcoded! Move to .env to prevent leaks."},
		{Path: "b.py", Line: 5, Column: 11, Match: "abcdefghijklmnopqrstuvwxyz", Detector: "generic-secret", Severity: types.SevWarning},
	}
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, fs, "1.2.3"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), token) {
		t.Fatalf("SARIF must not contain raw secrets")
	}
	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
							EndColumn   int `json:"endColumn"`
							Snippet     struct {
								Text string `json:"text"`
							} `json:"snippet"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v; body=%s", err, buf.String())
	}
	if doc.Version != "2.1.0" || len(doc.Runs) != 1 {
		t.Fatalf("expected one SARIF 2.1.0 run, got %+v", doc)
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Name != "vibeguard" || run.Tool.Driver.Version != "1.2.3" {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(run.Tool.Driver.Rules))
	}
	for _, r := range run.Results {
		if run.Tool.Driver.Rules[r.RuleIndex].ID != r.RuleID {
			t.Fatalf("ruleIndex %d does not point at %s", r.RuleIndex, r.RuleID)
		}
	}
	first := run.Results[0]
	if first.Level != "error" || run.Results[1].Level != "warning" {
		t.Fatalf("unexpected levels: %s, %s", first.Level, run.Results[1].Level)
	}
	region := first.Locations[0].PhysicalLocation.Region
	if region.StartLine != 10 || region.StartColumn != 5 || region.EndColumn != 45 {
		t.Fatalf("unexpected region: %+v", region)
	}
	if region.Snippet.Text != "ghp_…cdef" {
		t.Fatalf("unexpected snippet: %q", region.Snippet.Text)
	}
}

func TestWriteSARIF_EmptyHasResultsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, nil, "dev"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"results": []`) {
		t.Fatalf("expected empty results array; got %s", buf.String())
	}
}

func TestWriteJSON_NilIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Fatalf("got %q, want %q", got, "[]\n")
	}
}

func TestWriteJSON_Fields(t *testing.T) {
	fs := []types.Finding{{Path: "a.py", Line: 3, Column: 9, Match: token, Detector: "github-token", Severity: types.SevError}}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, fs); err != nil {
		t.Fatal(err)
	}
	var back []types.Finding
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].Path != "a.py" || back[0].Line != 3 || back[0].Detector != "github-token" {
		t.Fatalf("unexpected findings: %+v", back)
	}
}
