package fontinfo

import (
	"testing"
	"time"

	"github.com/npillmayer/iconfont/sfntw"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/sfnt"
)

const testSVGFont = `<svg xmlns="http://www.w3.org/2000/svg"><defs>
<font id="testicons" horiz-adv-x="1000">
<font-face font-family="testicons" units-per-em="1000" ascent="800" descent="-200" />
<missing-glyph horiz-adv-x="0" />
<glyph glyph-name="box" unicode="&#xe001;" d="M100 700L900 700L900 -100L100 -100Z" />
<glyph glyph-name="bar" unicode="&#xe002;" horiz-adv-x="500" d="M50 0L450 0L450 100L50 100Z" />
<glyph glyph-name="empty" unicode="&#xe003;" d="" />
</font></defs></svg>`

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	font *Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.fonts")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("iconfont.sfnt").SetTraceLevel(tracing.LevelError)
	ttf, err := sfntw.Encode([]byte(testSVGFont), sfntw.Options{
		Version:   "1.5",
		Copyright: "(c) test",
		Timestamp: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC),
	})
	env.Require().NoError(err)
	env.font, err = Parse(ttf)
	env.Require().NoError(err)
	tracing.Select("iconfont.sfnt").SetTraceLevel(tracing.LevelInfo)
}

// run once, after test suite methods
func (env *InfoTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestTableDirectory() {
	env.Equal(FlavorTrueType, env.font.Flavor)
	tags := []string{}
	for _, rec := range env.font.TableRecords() {
		tags = append(tags, rec.Tag)
	}
	env.Equal([]string{"OS/2", "cmap", "glyf", "head", "hhea", "hmtx", "loca", "maxp", "name", "post"}, tags)
	env.Empty(env.font.VerifyChecksums(), "expected all checksums to match")
	env.Nil(env.font.Table("GSUB"))
}

func (env *InfoTestEnviron) TestGeneralInfo() {
	info := NameInfo(env.font)
	env.T().Logf("info = %v", info)
	fam, ok := info["family"]
	env.Require().True(ok, "font familiy identifier not found in font info")
	env.Equal("testicons", fam, "expected font family name 'testicons'")
	env.Equal("Version 1.5", info["version"])
	env.Equal("(c) test", info["copyright"])
	env.Equal("Regular", Name(env.font, sfnt.NameIDSubfamily))
	for _, rec := range NameRecords(env.font) {
		env.Equal(PlatformWindows, rec.Platform)
		env.Equal(uint16(0x409), rec.Language)
	}
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.font)
	env.Require().True(ok, "expected to decode table 'head'")
	env.Equal(uint16(1000), h.UnitsPerEm)
	env.Equal(int16(1), h.IndexToLocFormat, "expected long loca offsets")
	env.Equal(uint32(0x5F0F3CF5), h.MagicNumber, "expected OpenType head magic number")
	env.InDelta(1.5, h.Revision(), 1e-6)
	env.Equal(time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), h.CreatedTime().UTC())
	env.Equal([4]int16{50, -100, 900, 700}, [4]int16{h.XMin, h.YMin, h.XMax, h.YMax})
}

func (env *InfoTestEnviron) TestMaxPInfo() {
	m, ok := MaxPInfo(env.font)
	env.Require().True(ok, "expected to decode table 'maxp'")
	env.Equal(uint16(4), m.NumGlyphs, "expected .notdef plus 3 glyphs")
	env.True(m.HasExtendedProfile)
	env.Equal(uint16(4), m.MaxPoints)
	env.Equal(uint16(1), m.MaxContours)
	env.Equal(4, NumGlyphs(env.font))
}

func (env *InfoTestEnviron) TestMetrics() {
	metrics := FontMetrics(env.font)
	env.Equal(sfnt.Units(1000), metrics.UnitsPerEm)
	env.Equal(sfnt.Units(800), metrics.Ascent)
	env.Equal(sfnt.Units(-200), metrics.Descent)
	env.Equal(sfnt.Units(1000), metrics.MaxAdvance)
	os2, ok := OS2Info(env.font)
	env.Require().True(ok)
	env.Equal(uint16(400), os2.WeightClass)
	env.Equal(uint16(0xe001), os2.FirstCharIndex)
	env.Equal(uint16(0xe003), os2.LastCharIndex)
	env.False(os2.Italic())
}

func (env *InfoTestEnviron) TestGlyphs() {
	env.Equal(sfnt.GlyphIndex(1), GlyphIndex(env.font, 0xe001))
	env.Equal(sfnt.GlyphIndex(0), GlyphIndex(env.font, 'A'))
	gm := GlyphMetrics(env.font, 2)
	env.Equal(sfnt.Units(500), gm.Advance)
	env.Equal(sfnt.Units(50), gm.LSB)
	env.Equal(sfnt.Units(50), gm.RSB)
	env.Equal(1, gm.Contours)
	empty := GlyphMetrics(env.font, 3)
	env.True(empty.BBox.Empty())
	env.Equal(0, empty.Contours)
	env.Equal("bar", GlyphName(env.font, 2))
	segs, err := GlyphOutline(env.font, 1)
	env.Require().NoError(err)
	env.Len(segs, 5)
}

func (env *InfoTestEnviron) TestCoverage() {
	missing, err := Coverage(env.font, []rune{0xe001, 0xe002, 'x', 0xe003, 0xf000})
	env.Require().NoError(err)
	env.Equal([]rune{'x', 0xf000}, missing)
	mapped, err := MappedCodepoints(env.font)
	env.Require().NoError(err)
	env.Equal([]rune{0xe001, 0xe002, 0xe003}, mapped)
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.fonts")
	defer teardown()
	//
	if _, err := Parse([]byte("wOFF0000000000000000")); err != ErrNotAFont {
		t.Errorf("expected ErrNotAFont, have %v", err)
	}
	if _, err := Parse([]byte{0, 1, 0, 0, 0, 5, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Errorf("expected truncated directory to fail")
	}
}
