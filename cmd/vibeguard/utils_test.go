package vibeguard

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeguard/vibeguard/internal/scanner"
)

func TestPickHelpers(t *testing.T) {
	assert.Equal(t, "cli", pickString("cli", "cfg"))
	assert.Equal(t, "cfg", pickString("", "cfg"))
	assert.Equal(t, 4, pickInt(4, 8))
	assert.Equal(t, 8, pickInt(0, 8))
	assert.Equal(t, int64(1), pickInt64(0, 1))
}

func TestPickBool_OnlyWhenChanged(t *testing.T) {
	var v bool
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().BoolVar(&v, "no-color", false, "")
	assert.True(t, pickBool(cmd, "no-color", v, true), "unset flag keeps config value")

	require.NoError(t, cmd.Flags().Parse([]string{"--no-color=false"}))
	assert.False(t, pickBool(cmd, "no-color", v, true), "explicit flag wins")
}

func TestSuggestName(t *testing.T) {
	text := `client = OpenAI(api_key="sk-abcdefghijklmnopqrstuvwx")` + "\n"
	fs := scanner.Scan("app.py", text)
	require.Len(t, fs, 1)
	assert.Equal(t, "API_KEY", suggestName(text, fs[0]))

	text = `call("sk-abcdefghijklmnopqrstuvwx")` + "\n"
	fs = scanner.Scan("app.py", text)
	require.Len(t, fs, 1)
	assert.Equal(t, "OPENAI_API_KEY", suggestName(text, fs[0]))
}

func TestAbsPath(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, filepath.Join(root, "src", "a.py"), absPath(root, "src/a.py"))
	abs := filepath.Join(root, "b.py")
	assert.Equal(t, abs, absPath(root, abs))
}
