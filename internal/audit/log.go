// Package audit appends one JSON line per remediation to a local log. Records
// describe where a secret was and what it became; the secret value itself is
// never written.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FixRecord describes one completed remediation.
type FixRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Root      string    `json:"root"`
	Path      string    `json:"path"`
	Line      int       `json:"line"`
	Detector  string    `json:"detector"`
	Requested string    `json:"requested_name"`
	Name      string    `json:"name"`
	Renamed   bool      `json:"renamed"`
	Reused    bool      `json:"reused"`
	EnvFile   string    `json:"env_file"`
}

type AuditLog struct {
	logPath string
}

// NewAuditLog returns the log for root, kept under .git when present so it
// is never committed.
func NewAuditLog(root string) *AuditLog {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".vibeguard_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "vibeguard_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns all records, newest first. Malformed lines are skipped.
func (a *AuditLog) LoadHistory() ([]FixRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []FixRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record FixRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// LogFix appends record, filling ID and Timestamp when unset.
func (a *AuditLog) LogFix(record FixRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	// owner-only: records name files that held secrets
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}
