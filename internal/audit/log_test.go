package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFix_RoundTripNewestFirst(t *testing.T) {
	dir := t.TempDir()
	log := NewAuditLog(dir)
	require.Equal(t, filepath.Join(dir, ".vibeguard_audit.jsonl"), log.Path())

	require.NoError(t, log.LogFix(FixRecord{Path: "a.py", Line: 3, Detector: "openai-api-key", Requested: "API_KEY", Name: "API_KEY"}))
	require.NoError(t, log.LogFix(FixRecord{Path: "b.ts", Line: 1, Detector: "generic-secret", Requested: "API_KEY", Name: "API_KEY_2", Renamed: true}))

	recs, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b.ts", recs[0].Path)
	assert.True(t, recs[0].Renamed)
	assert.Equal(t, "a.py", recs[1].Path)
	for _, r := range recs {
		_, err := uuid.Parse(r.ID)
		assert.NoError(t, err)
		assert.False(t, r.Timestamp.IsZero())
	}
	assert.NotEqual(t, recs[0].ID, recs[1].ID)

	info, err := os.Stat(log.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewAuditLog_UsesGitDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	assert.Equal(t, filepath.Join(dir, ".git", "vibeguard_audit.jsonl"), NewAuditLog(dir).Path())
}

func TestLoadHistory_Missing(t *testing.T) {
	_, err := NewAuditLog(t.TempDir()).LoadHistory()
	assert.Error(t, err)
}
