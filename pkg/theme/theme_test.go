package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTokens(t *testing.T) {
	th := Default()

	if _, ok := th.Lookup("color.background"); !ok {
		t.Fatal("expected default theme to define color.background")
	}
	assert.Equal(t, 14.0, th.Float("font.size"))
}

func TestMergeDoesNotMutateBase(t *testing.T) {
	base := Default()
	n := base.Len()

	merged := base.Merge(Tokens{"color.accent": "#ff0000", "custom.token": "42"})

	assert.Equal(t, n, base.Len(), "base theme must stay immutable")
	v, ok := merged.Lookup("custom.token")
	require.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#336699")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xff336699), c)

	c, err = ParseColor("#80336699")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80336699), c)

	_, err = ParseColor("not-a-color")
	assert.Error(t, err)
}

func TestColorFallsBackToOpaqueBlack(t *testing.T) {
	th := Default()
	assert.Equal(t, uint32(0xff000000), th.Color("no.such.token"))
}

func TestRegistrySealsOnFirstRead(t *testing.T) {
	reg := NewDefaultRegistry()

	first := reg.Snapshot()
	ok := reg.Initialize(New(Tokens{"color.background": "#ffffff"}))

	assert.False(t, ok, "Initialize after Snapshot must be rejected")
	second := reg.Snapshot()
	a, _ := first.Lookup("color.background")
	b, _ := second.Lookup("color.background")
	assert.Equal(t, a, b)
}

func TestRegistryInitializeBeforeRead(t *testing.T) {
	reg := NewDefaultRegistry()

	ok := reg.Initialize(New(Tokens{"color.background": "#ffffff"}))
	require.True(t, ok)

	v, _ := reg.Snapshot().Lookup("color.background")
	assert.Equal(t, "#ffffff", v)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	data := []byte("color.background: \"#222222\"\nfont.size: \"18\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	th, err := LoadFile(path)
	require.NoError(t, err)

	v, _ := th.Lookup("color.background")
	assert.Equal(t, "#222222", v)
	assert.Equal(t, 18.0, th.Float("font.size"))
	// untouched defaults survive the merge
	if _, ok := th.Lookup("color.text"); !ok {
		t.Error("expected defaults to survive a file merge")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("\t- broken"))
	assert.Error(t, err)
}
