package iconfont

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont")
	defer teardown()
	//
	m, err := ParseManifest([]byte(`{"id":"icons","charmap":[]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultMetrics(), m.Metrics())
	//
	m, err = ParseManifest([]byte(`{"id":"icons","ascent":896,"descent":-128,"charmap":[]}`))
	require.NoError(t, err)
	metrics := m.Metrics()
	assert.Equal(t, 896.0, metrics.Ascent)
	assert.Equal(t, -128.0, metrics.Descent)
	assert.Equal(t, 1024.0, metrics.UnitsPerEm, "missing metric should default")
	assert.Equal(t, 1024.0, metrics.Height())
}

func TestManifestZeroMetricOverrides(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont")
	defer teardown()
	//
	m, err := ParseManifest([]byte(`{"id":"icons","ascent":800,"descent":0,"horizAdvX":0,"charmap":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Metrics().HorizAdvX, "present zero value should win over default")
}

func TestManifestInvalid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont")
	defer teardown()
	//
	inputs := map[string]string{
		"syntax":     `{"id": "icons",`,
		"no id":      `{"charmap":[]}`,
		"ascent":     `{"id":"icons","ascent":0,"descent":10}`,
		"unitsPerEm": `{"id":"icons","unitsPerEm":0}`,
		"pngscale":   `{"id":"icons","pngscales":[16,0]}`,
		"no file":    `{"id":"icons","charmap":[{"unicode":"e001"}]}`,
		"unicode":    `{"id":"icons","charmap":[{"file":"a.svg","unicode":{"x":1}}]}`,
	}
	for name, input := range inputs {
		_, err := ParseManifest([]byte(input))
		assert.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrManifest), "%s: expected manifest error, have %v", name, err)
	}
}

func TestLoadManifest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont")
	defer teardown()
	//
	dir := t.TempDir()
	_, err := LoadManifest(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrManifest)
	//
	conf := `{"id":"icons","outputformats":["svg","ttf"],"pngscales":[16],
		"charmap":[{"file":"icons/a.svg","unicode":"e001"},{"file":"b.svg","unicode":["e002","U+1F600"]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(conf), 0o644))
	m, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "icons", m.ID)
	assert.True(t, m.Wants(FormatTTF))
	assert.False(t, m.Wants(FormatWOFF))
	require.Len(t, m.Charmap, 2)
	assert.Equal(t, "a", m.Charmap[0].BaseName())
	assert.Equal(t, []rune{0xe002, 0x1f600}, m.Charmap[1].Unicode.Codepoints())
}

func TestUnicodeTokens(t *testing.T) {
	tests := []struct {
		json     string
		runes    []rune
		str      string
		entities string
	}{
		{`"e001"`, []rune{0xe001}, "e001", "&#xe001;"},
		{`"U+F101"`, []rune{0xf101}, "U+F101", "&#xf101;"},
		{`57345`, []rune{0xe001}, "57345", "&#xe001;"},
		{`["e001","0x41"]`, []rune{0xe001, 0x41}, "e001-0x41", "&#xe001;&#x41;"},
		{`"a"`, []rune{'a'}, "a", "&#x61;"},
		{`"home"`, []rune("home"), "home", "&#x68;&#x6f;&#x6d;&#x65;"},
	}
	for _, tt := range tests {
		var u Unicode
		require.NoError(t, u.UnmarshalJSON([]byte(tt.json)), tt.json)
		assert.Equal(t, tt.runes, u.Codepoints(), tt.json)
		assert.Equal(t, tt.str, u.String(), tt.json)
		assert.Equal(t, tt.entities, u.XMLEntities(), tt.json)
	}
}

func TestUnicodeNumbersMustBeCodepoints(t *testing.T) {
	for _, js := range []string{`57345.7`, `[57345, 0.5]`, `-1`, `1114112`} {
		var u Unicode
		assert.Error(t, u.UnmarshalJSON([]byte(js)), js)
	}
	_, err := ParseManifest([]byte(`{"id":"x","charmap":[{"file":"a.svg","unicode":57345.7}],"outputformats":["svg"]}`))
	assert.ErrorIs(t, err, ErrManifest)
}

func TestWants(t *testing.T) {
	requested := []string{"svg", "ttf"}
	assert.True(t, Wants(requested, FormatSVG))
	assert.True(t, Wants(requested, FormatTTF))
	assert.False(t, Wants(requested, FormatEOT))
	assert.False(t, Wants(requested, "TTF"), "tags are case-sensitive")
	assert.False(t, Wants(nil, FormatPNG))
}
