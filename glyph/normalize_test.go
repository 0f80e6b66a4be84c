package glyph

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/internal/fixtures"
	"github.com/npillmayer/iconfont/svgdoc"
	"github.com/npillmayer/iconfont/svgpath"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metrics(ascent, descent float64) iconfont.FontMetrics {
	m := iconfont.DefaultMetrics()
	m.Ascent, m.Descent = ascent, descent
	return m
}

func TestNormalizeExample(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	n := NewNormalizer(nil, nil)
	d, diag, err := n.Normalize(metrics(1024, 0), []byte(fixtures.GlyphSVG("0 0 512 512", fixtures.Diagonal)))
	require.NoError(t, err)
	assert.Empty(t, diag)
	assert.Equal(t, "M0 1024L1024 0", d)
}

func TestNormalizeYExtent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	n := NewNormalizer(nil, nil)
	tests := []struct {
		viewBox         string
		ascent, descent float64
		outline         string
	}{
		{"0 0 512 512", 1024, 0, fixtures.Square},
		{"0 0 512 512", 896, -128, fixtures.Triangle},
		{"0 0 24 24", 1000, -200, "M2 2h20v20H2z"},
		{"0 0 17 13", 850, -150, "M0 0L17 13L0 13Z"},
		{"0 0 512 512", 1024, 0, fixtures.Circle},
	}
	for _, tt := range tests {
		raw := []byte(fixtures.GlyphSVG(tt.viewBox, tt.outline))
		d, _, err := n.Normalize(metrics(tt.ascent, tt.descent), raw)
		require.NoError(t, err, tt.outline)
		p, err := svgpath.Parse(d)
		require.NoError(t, err, d)
		_, minY, _, maxY := p.Bounds()
		height := tt.ascent - tt.descent
		assert.GreaterOrEqual(t, minY, -1.0, "%s: min y %g below em-box", tt.outline, minY)
		assert.LessOrEqual(t, maxY, height+1, "%s: max y %g above em-box", tt.outline, maxY)
		for _, seg := range p.Segments {
			assert.False(t, seg.IsRelative(), "%s: expected absolute commands only, have %q", d, seg.Cmd)
			for _, v := range seg.Args {
				assert.Equal(t, float64(int64(v)), v, "%s: expected integer coordinates", d)
			}
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	n := NewNormalizer(nil, nil)
	raw := []byte(fixtures.GlyphSVG("0 0 512 512", fixtures.Circle, fixtures.Triangle))
	d1, _, err := n.Normalize(metrics(1024, 0), raw)
	require.NoError(t, err)
	d2, _, err := n.Normalize(metrics(1024, 0), raw)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestNormalizeMissingViewBox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	n := NewNormalizer(nil, nil)
	d, diag, err := n.Normalize(metrics(1024, 0), []byte(fixtures.GlyphSVG("", fixtures.Square)))
	require.NoError(t, err)
	assert.Empty(t, d)
	assert.Equal(t, NoBoundingBox, diag)
	//
	dir := fixtures.InputDir(t, fixtures.Manifest{ID: "x"}, map[string]string{
		"a.svg": fixtures.GlyphSVG("", fixtures.Square),
	})
	spec := iconfont.GlyphSpec{File: "a.svg", Unicode: iconfont.Unicode{"e001"}}
	g, err := n.NormalizeFile(context.Background(), metrics(1024, 0), dir, spec)
	require.NoError(t, err)
	assert.True(t, g.Degraded())
	assert.Equal(t, "No bounding box information could be found for this SVG.", g.PathData)
	assert.Equal(t, spec.Unicode, g.Unicode)
}

func TestNormalizeInvalidViewBox(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	n := NewNormalizer(nil, nil)
	for _, vb := range []string{"0 0 512 0", "0 0 512 -10", "0 0 512"} {
		_, _, err := n.Normalize(metrics(1024, 0), []byte(fixtures.GlyphSVG(vb, fixtures.Square)))
		require.Error(t, err, vb)
		assert.True(t, errors.Is(err, iconfont.ErrInvalidBoundingBox), "%s: have %v", vb, err)
	}
}

func TestNormalizeOptimizerFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	empty := svgdoc.OptimizerFunc(func([]byte) ([]byte, error) { return nil, nil })
	n := NewNormalizer(empty, nil)
	_, _, err := n.Normalize(metrics(1024, 0), []byte(fixtures.GlyphSVG("0 0 512 512", fixtures.Square)))
	require.Error(t, err)
	assert.ErrorIs(t, err, iconfont.ErrOptimizationFailed)
	//
	dir := fixtures.InputDir(t, fixtures.Manifest{ID: "x"}, map[string]string{
		"a.svg": fixtures.GlyphSVG("0 0 512 512", fixtures.Square),
	})
	_, err = n.NormalizeFile(context.Background(), metrics(1024, 0), dir, iconfont.GlyphSpec{File: "a.svg"})
	var berr *iconfont.BuildError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, iconfont.OptimizationFailed, berr.Kind)
	assert.Contains(t, berr.File, "a.svg")
}

func TestNormalizeStripsFills(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	var seen []byte
	spy := svgdoc.OptimizerFunc(func(data []byte) ([]byte, error) {
		seen = data
		return data, nil
	})
	n := NewNormalizer(spy, svgdoc.NewParser())
	_, _, err := n.Normalize(metrics(1024, 0), []byte(fixtures.GlyphSVG("0 0 512 512", fixtures.Square)))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(seen, []byte("fill=")), "expected fills to be stripped before optimization")
}

func TestNormalizeGroupsAndOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	raw := `<svg viewBox="0 0 100 100">
		<path d="M0 0L10 10"/>
		<g><path d="M20 20L30 30"/></g>
		<defs><path id="ignored" d="M50 50L60 60"/></defs>
		<path d="m40 40l10 10"/>
	</svg>`
	n := NewNormalizer(svgdoc.OptimizerFunc(func(b []byte) ([]byte, error) { return b, nil }), nil)
	d, _, err := n.Normalize(metrics(100, 0), []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "M0 100L10 90M20 80L30 70M40 60L50 50", d)
}

func TestNormalizeFileMissing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	n := NewNormalizer(nil, nil)
	_, err := n.NormalizeFile(context.Background(), metrics(1024, 0), t.TempDir(), iconfont.GlyphSpec{File: "nope.svg"})
	assert.ErrorIs(t, err, iconfont.ErrIO)
}

func TestNormalizeShapesAndTransforms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	n := NewNormalizer(nil, nil)
	glyphSVG := func(content string) []byte {
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 512 512">` + content + `</svg>`)
	}
	bounds := []struct {
		content                string
		minX, minY, maxX, maxY float64
	}{
		{`<rect x="10" y="20" width="100" height="50"/>`, 20, 884, 220, 984},
		{`<polygon points="100,100 200,100 150,200"/>`, 200, 624, 400, 824},
		{`<circle cx="256" cy="256" r="128"/>`, 256, 256, 768, 768},
		{`<g transform="translate(100 0)"><rect width="10" height="10"/></g>`, 200, 1004, 220, 1024},
	}
	for _, tt := range bounds {
		d, diag, err := n.Normalize(metrics(1024, 0), glyphSVG(tt.content))
		require.NoError(t, err, tt.content)
		require.Empty(t, diag, tt.content)
		require.NotEmpty(t, d, tt.content)
		p, err := svgpath.Parse(d)
		require.NoError(t, err, d)
		minX, minY, maxX, maxY := p.Bounds()
		assert.InDelta(t, tt.minX, minX, 1, "%s: %s", tt.content, d)
		assert.InDelta(t, tt.minY, minY, 1, "%s: %s", tt.content, d)
		assert.InDelta(t, tt.maxX, maxX, 1, "%s: %s", tt.content, d)
		assert.InDelta(t, tt.maxY, maxY, 1, "%s: %s", tt.content, d)
	}
	paths := []struct {
		content, d string
	}{
		{`<g transform="translate(100 100)"><path d="M0 0L10 10"/></g>`, "M200 824L220 804"},
		{`<path transform="translate(100,100)" d="M0 0L10 10"/>`, "M200 824L220 804"},
		{`<g transform="scale(2)"><g transform="translate(10)"><path d="M0 0L10 10"/></g></g>`, "M40 1024L80 984"},
		{`<path transform="rotate(90)" d="M0 0L10 0"/>`, "M0 1024L0 1004"},
	}
	for _, tt := range paths {
		d, _, err := n.Normalize(metrics(1024, 0), glyphSVG(tt.content))
		require.NoError(t, err, tt.content)
		assert.Equal(t, tt.d, d, tt.content)
	}
}

func TestNormalizeNothingToDraw(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.glyph")
	defer teardown()
	//
	n := NewNormalizer(svgdoc.OptimizerFunc(func(b []byte) ([]byte, error) { return b, nil }), nil)
	for _, content := range []string{"", `<rect width="0" height="10"/>`, `<defs><path d="M0 0L1 1"/></defs>`} {
		raw := `<svg viewBox="0 0 512 512">` + content + `</svg>`
		d, diag, err := n.Normalize(metrics(1024, 0), []byte(raw))
		require.NoError(t, err, content)
		assert.Empty(t, d, content)
		assert.Equal(t, NoOutline, diag, content)
	}
	_, _, err := n.Normalize(metrics(1024, 0), []byte(`<svg viewBox="0 0 512 512"><g transform="wobble(3)"><path d="M0 0L1 1"/></g></svg>`))
	assert.ErrorIs(t, err, iconfont.ErrOptimizationFailed)
}
