package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeguard/vibeguard/internal/types"
)

func TestMerge_EmptyStore(t *testing.T) {
	res, err := Merge("", "API_KEY", "sk-test1234567890abcdefghijklmnop")
	require.NoError(t, err)
	assert.Equal(t, "API_KEY", res.Name)
	assert.Equal(t, "API_KEY=sk-test1234567890abcdefghijklmnop\n", res.Content)
	assert.True(t, res.Changed)
	assert.False(t, res.Renamed)
}

func TestMerge_Idempotent(t *testing.T) {
	first, err := Merge("# secrets\n", "API_KEY", "value-1")
	require.NoError(t, err)
	second, err := Merge(first.Content, "OTHER_NAME", "value-1")
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Content, second.Content)
	assert.False(t, second.Changed)
}

func TestMerge_ReusesValueWithTrailingWhitespace(t *testing.T) {
	res, err := Merge("TOKEN=abc \r\n", "NEW", "abc")
	require.NoError(t, err)
	assert.Equal(t, "TOKEN", res.Name)
	assert.False(t, res.Changed)
}

func TestMerge_CollisionRenames(t *testing.T) {
	res, err := Merge("API_KEY=xxxx\n", "API_KEY", "yyyy")
	require.NoError(t, err)
	assert.Equal(t, "API_KEY_2", res.Name)
	assert.True(t, res.Renamed)
	assert.Equal(t, "API_KEY=xxxx\nAPI_KEY_2=yyyy\n", res.Content)

	res, err = Merge(res.Content, "API_KEY", "zzzz")
	require.NoError(t, err)
	assert.Equal(t, "API_KEY_3", res.Name)
	assert.Equal(t, []types.EnvEntry{
		{Name: "API_KEY", Value: "xxxx"},
		{Name: "API_KEY_2", Value: "yyyy"},
		{Name: "API_KEY_3", Value: "zzzz"},
	}, Parse(res.Content))
}

func TestMerge_AddsMissingTrailingNewline(t *testing.T) {
	res, err := Merge("A=1", "B", "2")
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2\n", res.Content)
}

func TestMerge_PrefixOfStoredValueIsNotAMatch(t *testing.T) {
	res, err := Merge("A=abcdef\n", "B", "abc")
	require.NoError(t, err)
	assert.Equal(t, "B", res.Name)
	assert.True(t, res.Changed)
}

func TestMerge_RejectsUnstorableValues(t *testing.T) {
	_, err := Merge("", "A", "line1\nline2")
	assert.ErrorIs(t, err, ErrMultilineValue)
	_, err = Merge("", "A", "")
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestParse_SkipsCommentsAndBlanks(t *testing.T) {
	got := Parse("# comment\n\nA=1\nnot an entry\nB=x=y\n")
	assert.Equal(t, []types.EnvEntry{{Name: "A", Value: "1"}, {Name: "B", Value: "x=y"}}, got)
}

func TestExample(t *testing.T) {
	assert.Equal(t, "# keys\nA=\nB=\n", Example("# keys\nA=1\nB = two\n"))
}

func TestReadOptionalAndWrite(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	got, err := ReadOptional(p)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, Write(p, "A=1\n"))
	got, err = ReadOptional(p)
	require.NoError(t, err)
	assert.Equal(t, "A=1\n", got)

	st, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}
