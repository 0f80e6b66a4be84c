package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/encode"
	"github.com/npillmayer/iconfont/eot"
	"github.com/npillmayer/iconfont/fontinfo"
	"github.com/npillmayer/iconfont/glyph"
	"github.com/npillmayer/iconfont/internal/fixtures"
	"github.com/npillmayer/iconfont/svgdoc"
	"github.com/npillmayer/iconfont/woff"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var allFormats = []string{"svg", "ttf", "eot", "woff"}

// --- Test Suite Preparation ------------------------------------------------

type PipelineTestEnviron struct {
	suite.Suite
	icons string // input directory with 4 icons, all font formats requested
}

// listen for 'go test' command --> run test methods
func TestPipelineFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.pipeline")
	defer teardown()
	suite.Run(t, new(PipelineTestEnviron))
}

// run once, before test suite methods
func (env *PipelineTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	m, glyphs := fixtures.Icons(4, allFormats...)
	env.icons = fixtures.InputDir(env.T(), m, glyphs)
}

// run once, after test suite methods
func (env *PipelineTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// files lists the regular files below dir, relative to dir.
func files(t *testing.T, dir string) []string {
	var list []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, path)
			list = append(list, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(list)
	return list
}

// --- Tests -----------------------------------------------------------------

func (env *PipelineTestEnviron) TestAllFormats() {
	out := filepath.Join(env.T().TempDir(), "fonts") // does not exist yet
	res, err := Build(context.Background(), env.icons, out)
	env.Require().NoError(err)
	env.Equal([]string{"icons.eot", "icons.svg", "icons.ttf", "icons.woff"}, files(env.T(), out))
	env.Len(res.Paths(), 4)
	env.Empty(res.PNG)
	env.Empty(res.Degraded)
	for _, path := range res.Paths() {
		env.True(filepath.IsAbs(path), "expected absolute path, have %s", path)
	}
	//
	ttf, err := os.ReadFile(res.TTF)
	env.Require().NoError(err)
	env.Require().NotEmpty(ttf)
	f, err := fontinfo.Parse(ttf)
	env.Require().NoError(err)
	missing, err := fontinfo.Coverage(f, []rune{0xe001, 0xe002, 0xe003, 0xe004})
	env.Require().NoError(err)
	env.Empty(missing)
	env.Equal(5, fontinfo.NumGlyphs(f), "expected .notdef plus 4 glyphs")
	env.Equal("icons", fontinfo.NameInfo(f)["family"])
	//
	w, err := os.ReadFile(res.WOFF)
	env.Require().NoError(err)
	decoded, err := woff.Decode(w)
	env.Require().NoError(err)
	env.True(bytes.Equal(ttf, decoded), "WOFF must decode to the TTF")
	//
	e, err := os.ReadFile(res.EOT)
	env.Require().NoError(err)
	_, fontData, err := eot.Decode(e)
	env.Require().NoError(err)
	env.True(bytes.Equal(ttf, fontData), "EOT must embed the TTF")
}

func (env *PipelineTestEnviron) TestTTFOnly() {
	m, glyphs := fixtures.Icons(2, "ttf")
	in := fixtures.InputDir(env.T(), m, glyphs)
	out := env.T().TempDir()
	res, err := Build(context.Background(), in, out)
	env.Require().NoError(err)
	env.Equal([]string{"icons.ttf"}, files(env.T(), out))
	env.Equal(map[iconfont.Format]string{"ttf": filepath.Join(out, "icons.ttf")}, res.Paths())
	env.Empty(res.SVG)
	env.Empty(res.EOT)
	env.Empty(res.WOFF)
	_, err = os.Stat(filepath.Join(out, ImagesDir))
	env.True(errors.Is(err, fs.ErrNotExist), "images directory must not be created")
}

func (env *PipelineTestEnviron) TestGlyphOrderUnderConcurrency() {
	const n = 24
	m, glyphs := fixtures.Icons(n, "svg")
	in := fixtures.InputDir(env.T(), m, glyphs)
	out := env.T().TempDir()
	var calls atomic.Int32
	slow := svgdoc.OptimizerFunc(func(data []byte) ([]byte, error) {
		// early calls finish last
		k := n - int(calls.Add(1))
		time.Sleep(time.Duration(max(k, 0)) * time.Millisecond)
		return svgdoc.NewOptimizer().Optimize(data)
	})
	res, err := Build(context.Background(), in, out, WithConcurrency(8), WithOptimizer(slow))
	env.Require().NoError(err)
	svg, err := os.ReadFile(res.SVG)
	env.Require().NoError(err)
	doc, err := svgdoc.NewParser().Parse(svg)
	env.Require().NoError(err)
	glyphEls := doc.Root.Find("glyph")
	env.Require().Len(glyphEls, n)
	for i, el := range glyphEls {
		env.Equal(fmt.Sprintf("icon%02d", i), el.AttrOr("glyph-name", ""))
		env.Equal(string(rune(0xe001+i)), el.AttrOr("unicode", ""))
	}
}

func (env *PipelineTestEnviron) TestMissingViewBoxContinues() {
	m := fixtures.Manifest{
		ID:            "icons",
		OutputFormats: allFormats,
		Charmap: []fixtures.Entry{
			{File: "ok.svg", Unicode: "e001"},
			{File: "nobox.svg", Unicode: "e002"},
		},
	}
	in := fixtures.InputDir(env.T(), m, map[string]string{
		"ok.svg":    fixtures.GlyphSVG("0 0 512 512", fixtures.Square),
		"nobox.svg": fixtures.GlyphSVG("", fixtures.Square),
	})
	out := env.T().TempDir()
	res, err := Build(context.Background(), in, out)
	env.Require().NoError(err)
	env.Len(res.Paths(), 4)
	env.Require().Len(res.Degraded, 1)
	env.Equal("nobox.svg", res.Degraded[0].File)
	svg, err := os.ReadFile(res.SVG)
	env.Require().NoError(err)
	env.Contains(string(svg), glyph.NoBoundingBox)
}

func (env *PipelineTestEnviron) TestPNGPreviews() {
	m, glyphs := fixtures.Icons(2, "png")
	m.PNGScales = []int{16, 32}
	in := fixtures.InputDir(env.T(), m, glyphs)
	out := env.T().TempDir()
	res, err := Build(context.Background(), in, out, WithConcurrency(1))
	env.Require().NoError(err)
	env.Empty(res.Paths())
	env.Equal([]string{
		"images/icon00_e001.16.png",
		"images/icon00_e001.32.png",
		"images/icon01_e002.16.png",
		"images/icon01_e002.32.png",
	}, files(env.T(), out))
	env.Require().Len(res.PNG, 4)
	img, err := imaging.Open(res.PNG[1])
	env.Require().NoError(err)
	env.Equal(32, img.Bounds().Dx())
	env.Equal(32, img.Bounds().Dy())
	// a second build into the same directory must not fail on images/
	_, err = Build(context.Background(), in, out)
	env.NoError(err)
}

func (env *PipelineTestEnviron) TestOptimizerFailureLeavesNoFiles() {
	m, glyphs := fixtures.Icons(3, "svg", "ttf", "png")
	m.PNGScales = []int{16}
	in := fixtures.InputDir(env.T(), m, glyphs)
	out := filepath.Join(env.T().TempDir(), "out")
	empty := svgdoc.OptimizerFunc(func([]byte) ([]byte, error) { return nil, nil })
	_, err := Build(context.Background(), in, out, WithOptimizer(empty))
	env.Require().Error(err)
	env.ErrorIs(err, iconfont.ErrOptimizationFailed)
	var berr *iconfont.BuildError
	env.Require().True(errors.As(err, &berr))
	env.Equal(TaskNormalizeGlyphs, berr.Task)
	env.Contains(berr.File, "icon0")
	env.Empty(files(env.T(), out))
}

func (env *PipelineTestEnviron) TestEncoderFailureRemovesWrittenFiles() {
	out := env.T().TempDir()
	keep := filepath.Join(out, "keep.txt")
	env.Require().NoError(os.WriteFile(keep, []byte("keep"), 0o644))
	svgPath := filepath.Join(out, "icons.svg")
	enc := encode.Funcs{
		WOFF: func(ttf []byte, m *iconfont.Manifest) ([]byte, error) {
			// fail only after the SVG font has been saved
			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) {
				if _, err := os.Stat(svgPath); err == nil {
					break
				}
				time.Sleep(5 * time.Millisecond)
			}
			return nil, nil
		},
	}
	_, err := Build(context.Background(), env.icons, out, WithEncoders(enc))
	env.Require().Error(err)
	env.ErrorIs(err, iconfont.ErrEncodingFailed)
	env.Contains(err.Error(), encode.MsgWOFF)
	var berr *iconfont.BuildError
	env.Require().True(errors.As(err, &berr))
	env.Equal(TaskEncodeWOFF, berr.Task)
	env.Equal([]string{"keep.txt"}, files(env.T(), out))
}

func (env *PipelineTestEnviron) TestCancelledBuild() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := filepath.Join(env.T().TempDir(), "out")
	_, err := Build(ctx, env.icons, out)
	env.Require().Error(err)
	env.ErrorIs(err, context.Canceled)
	env.Empty(files(env.T(), out))
}

func TestManifestErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.pipeline")
	defer teardown()
	//
	_, err := Build(context.Background(), t.TempDir(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, iconfont.ErrManifest)
	var berr *iconfont.BuildError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, TaskLoadManifest, berr.Task)
	assert.Contains(t, berr.File, "config.json")
	//
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "font.json"), []byte("{ not json"), 0o644))
	_, err = Build(context.Background(), in, t.TempDir(), WithManifestName("font.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, iconfont.ErrManifest)
	assert.Contains(t, err.Error(), "invalid JSON file")
}

func TestOrderedMap(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0}
	out, err := orderedMap(context.Background(), 3, items, func(_ context.Context, i int, v int) (string, error) {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return fmt.Sprintf("%d:%d", i, v), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0:5", "1:4", "2:3", "3:2", "4:1", "5:0"}, out)
	//
	boom := errors.New("boom")
	_, err = orderedMap(context.Background(), 2, items, func(_ context.Context, _ int, v int) (int, error) {
		if v == 3 {
			return 0, boom
		}
		return v, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestOutputsRollback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.pipeline")
	defer teardown()
	//
	root := t.TempDir()
	existing := filepath.Join(root, "existing.txt")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))
	o := &outputs{}
	require.NoError(t, o.ensureDir(filepath.Join(root, "a", "b")))
	require.NoError(t, o.ensureDir(filepath.Join(root, "a", "b")), "ensureDir must be idempotent")
	require.NoError(t, o.write(filepath.Join(root, "a", "b", "c.png"), []byte("png")))
	require.NoError(t, o.write(existing, []byte("y")))
	require.Error(t, o.ensureDir(existing))
	o.rollback()
	assert.Equal(t, []string{"existing.txt"}, files(t, root))
	_, err := os.Stat(filepath.Join(root, "a"))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "created directories must be removed")
}
