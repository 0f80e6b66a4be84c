package svgdoc

import (
	"testing"

	"github.com/npillmayer/iconfont/svgpath"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glyphSVG = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<!-- exported by some editor -->
<svg xmlns="http://www.w3.org/2000/svg" width="512" height="512" viewBox="0 0 512 512">
  <title>Home &amp; Garden</title>
  <g>
    <path fill="#FF0000" d="M0 0L512 512"/>
  </g>
  <path d='M10 10h100v100z' Fill="red"></path>
</svg>`

func TestParseDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.svg")
	defer teardown()
	//
	doc, err := NewParser().Parse([]byte(glyphSVG))
	require.NoError(t, err)
	root := doc.Root
	require.NotNil(t, root)
	assert.Equal(t, "svg", root.Name)
	assert.Equal(t, "512", root.AttrOr("width", ""))
	assert.Equal(t, "fallback", root.AttrOr("missing", "fallback"))
	//
	titles := root.ChildrenNamed("title")
	require.Len(t, titles, 1)
	assert.Equal(t, "Home & Garden", titles[0].Text)
	//
	assert.Len(t, root.ChildrenNamed("path"), 1, "expected one top-level path")
	paths := root.Find("path")
	require.Len(t, paths, 2, "expected two paths in total")
	d, ok := paths[0].Attr("d")
	assert.True(t, ok)
	assert.Equal(t, "M0 0L512 512", d)
	d, _ = paths[1].Attr("d")
	assert.Equal(t, "M10 10h100v100z", d)
}

func TestParseEntitiesInAttributes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.svg")
	defer teardown()
	//
	doc, err := NewParser().Parse([]byte(`<font><glyph unicode="&#xe001;&amp;" d="M0 0"/></font>`))
	require.NoError(t, err)
	glyphs := doc.Root.ChildrenNamed("glyph")
	require.Len(t, glyphs, 1)
	u, _ := glyphs[0].Attr("unicode")
	assert.Equal(t, "\ue001&", u)
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.svg")
	defer teardown()
	//
	inputs := []string{
		"",
		"<svg><path></svg>",
		"<svg>",
		"<svg/><svg/>",
	}
	for _, input := range inputs {
		_, err := NewParser().Parse([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestViewBox(t *testing.T) {
	tests := []struct {
		attr  string
		vb    ViewBox
		ok    bool
		isErr bool
	}{
		{`viewBox="0 0 512 256"`, ViewBox{0, 0, 512, 256}, true, false},
		{`viewBox="-1,-2, 24 ,24"`, ViewBox{-1, -2, 24, 24}, true, false},
		{`viewBox="0 0 24"`, ViewBox{}, true, true},
		{`viewBox="a b c d"`, ViewBox{}, true, true},
		{`width="24"`, ViewBox{}, false, false},
	}
	for _, tt := range tests {
		doc, err := NewParser().Parse([]byte(`<svg ` + tt.attr + `/>`))
		require.NoError(t, err)
		vb, ok, err := doc.Root.ViewBox()
		assert.Equal(t, tt.ok, ok, tt.attr)
		if tt.isErr {
			assert.Error(t, err, tt.attr)
			continue
		}
		assert.NoError(t, err, tt.attr)
		assert.Equal(t, tt.vb, vb, tt.attr)
	}
}

func TestLength(t *testing.T) {
	doc, err := NewParser().Parse([]byte(`<svg width="24px" height="100%"/>`))
	require.NoError(t, err)
	w, ok := doc.Root.Length("width")
	assert.True(t, ok)
	assert.Equal(t, 24.0, w)
	_, ok = doc.Root.Length("height")
	assert.False(t, ok)
}

func TestStripFills(t *testing.T) {
	in := `<path fill="#FF0000" d="M0 0"/><path FILL="none" d="M1 1"/><rect fill-rule="evenodd"/>`
	out := string(StripFills([]byte(in)))
	assert.Equal(t, `<path d="M0 0"/><path d="M1 1"/><rect fill-rule="evenodd"/>`, out)
}

func TestOptimizerKeepsGeometry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.svg")
	defer teardown()
	//
	src := `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 512 512">
  <!-- comment -->
  <path d="M 0 0 L 512 512"/>
</svg>`
	out, err := NewOptimizer().Optimize([]byte(src))
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Less(t, len(out), len(src))
	//
	doc, err := NewParser().Parse(out)
	require.NoError(t, err)
	vb, ok, err := doc.Root.ViewBox()
	require.NoError(t, err)
	require.True(t, ok, "optimizer must keep the viewBox")
	assert.Equal(t, 512.0, vb.Height)
	paths := doc.Root.Find("path")
	require.Len(t, paths, 1)
	d, _ := paths[0].Attr("d")
	p, err := svgpath.Parse(d)
	require.NoError(t, err)
	ops := p.Outline()
	require.Len(t, ops, 2)
	assert.Equal(t, svgpath.Point{X: 512, Y: 512}, ops[1].End())
}

func TestOptimizerFunc(t *testing.T) {
	var opt Optimizer = OptimizerFunc(func(data []byte) ([]byte, error) {
		return nil, nil
	})
	out, err := opt.Optimize([]byte("<svg/>"))
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestShapes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.svg")
	defer teardown()
	//
	src := `<svg viewBox="0 0 100 100">
  <title>shapes</title>
  <rect x="10" y="10" width="20" height="10"/>
  <rect x="0" y="0" width="20" height="20" rx="5"/>
  <rect width="0" height="10"/>
  <g transform="translate(50 50)">
    <circle r="10"/>
    <g transform="scale(2)"><line x1="0" y1="0" x2="5" y2="0"/></g>
  </g>
  <ellipse cx="50" cy="50" rx="20" ry="10"/>
  <polyline points="0,0 10,10 20,0 7"/>
  <polygon points="0 0 10 0 5 5"/>
  <defs><rect width="10" height="10"/></defs>
  <path d="M1 1L2 2" transform="translate(1,1)"/>
</svg>`
	doc, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)
	shapes, err := Shapes(doc.Root)
	require.NoError(t, err)
	names := make([]string, len(shapes))
	for i, sh := range shapes {
		names[i] = sh.Element.Name
	}
	assert.Equal(t, []string{"rect", "rect", "circle", "line", "ellipse", "polyline", "polygon", "path"}, names)
	//
	assert.Equal(t, "M10 10H30V20H10Z", shapes[0].Path.String())
	assert.Equal(t, "M5 0H15A5 5 0 0 1 20 5V15A5 5 0 0 1 15 20H5A5 5 0 0 1 0 15V5A5 5 0 0 1 5 0Z", shapes[1].Path.String())
	minX, minY, maxX, maxY := shapes[2].Path.Bounds()
	assert.InDeltaSlice(t, []float64{40, 40, 60, 60}, []float64{minX, minY, maxX, maxY}, 1e-9)
	assert.Equal(t, "M50 50L60 50", shapes[3].Path.String())
	assert.Equal(t, "M0 0L10 10 20 0", shapes[5].Path.String())
	assert.Equal(t, "M0 0L10 0 5 5Z", shapes[6].Path.String())
	assert.Equal(t, "M2 2L3 3", shapes[7].Path.String())
}

func TestShapesErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.svg")
	defer teardown()
	//
	for _, src := range []string{
		`<svg><path d="X"/></svg>`,
		`<svg><polygon points="0 0 a b"/></svg>`,
		`<svg><g transform="spin(1)"><path d="M0 0L1 1"/></g></svg>`,
	} {
		doc, err := NewParser().Parse([]byte(src))
		require.NoError(t, err, src)
		_, err = Shapes(doc.Root)
		assert.Error(t, err, src)
	}
}
