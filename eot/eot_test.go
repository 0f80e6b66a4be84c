package eot

import (
	"testing"

	"github.com/npillmayer/iconfont/fontinfo"
	"github.com/npillmayer/iconfont/sfntw"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const svgFont = `<svg><font id="eoticons" horiz-adv-x="1024">
<font-face font-family="eoticons" units-per-em="1024" ascent="960" descent="-64"/>
<glyph glyph-name="a" unicode="&#xe001;" d="M0 0L1024 0L1024 960L0 960Z"/>
</font></svg>`

func TestEncodeDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.eot")
	defer teardown()
	//
	ttf, err := sfntw.Encode([]byte(svgFont), sfntw.Options{Version: "1.1"})
	require.NoError(t, err)
	data, err := Encode(ttf)
	require.NoError(t, err)
	require.Greater(t, len(data), len(ttf))
	//
	h, font, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ttf, font)
	assert.Equal(t, uint32(len(data)), h.EOTSize)
	assert.Equal(t, uint32(len(ttf)), h.FontDataSize)
	assert.Equal(t, Version, h.Version)
	assert.Equal(t, "eoticons", h.FamilyName)
	assert.Equal(t, "Regular", h.StyleName)
	assert.Equal(t, "Version 1.1", h.VersionName)
	assert.Equal(t, "eoticons", h.FullName)
	assert.Empty(t, h.RootString)
	assert.Equal(t, uint32(400), h.Weight)
	assert.Equal(t, byte(0), h.Italic)
	//
	f, err := fontinfo.Parse(font)
	require.NoError(t, err)
	head, ok := fontinfo.HeadInfo(f)
	require.True(t, ok)
	assert.Equal(t, head.CheckSumAdjustment, h.CheckSumAdjustment)
	os2, ok := fontinfo.OS2Info(f)
	require.True(t, ok)
	assert.Equal(t, os2.UnicodeRange, h.UnicodeRange)
	assert.NotZero(t, h.UnicodeRange[1], "private use area bit expected")
}

func TestEncodeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "iconfont.eot")
	defer teardown()
	//
	_, err := Encode([]byte("no font"))
	assert.Error(t, err)
	_, _, err = Decode(make([]byte, 100))
	assert.ErrorIs(t, err, ErrNotEOT)
}
