/*
Package eot wraps TrueType fonts into Embedded OpenType files.

EOT files are written in version 0x00020001 of the format, with the
font data uncompressed and without XOR obfuscation. Header values are taken
from the font's 'OS/2', 'head' and 'name' tables.
See https://www.w3.org/Submission/EOT/.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package eot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/npillmayer/iconfont/fontinfo"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/unicode"
)

// tracer writes to trace with key 'iconfont.eot'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.eot")
}

// Version is the EOT format version written by Encode.
const Version uint32 = 0x00020001

// MagicNumber identifies EOT headers.
const MagicNumber uint16 = 0x504C

const (
	charsetDefault = 1
	fixedSize      = 82 // header size up to and including Padding1
)

// Header holds the descriptive fields of an EOT file.
type Header struct {
	EOTSize            uint32
	FontDataSize       uint32
	Version            uint32
	Flags              uint32
	Panose             [10]byte
	Charset            byte
	Italic             byte
	Weight             uint32
	FsType             uint16
	UnicodeRange       [4]uint32
	CodePageRange      [2]uint32
	CheckSumAdjustment uint32
	FamilyName         string
	StyleName          string
	VersionName        string
	FullName           string
	RootString         string
}

var le = binary.LittleEndian

// Encode wraps a TrueType font into an EOT file.
func Encode(ttf []byte) ([]byte, error) {
	font, err := fontinfo.Parse(ttf)
	if err != nil {
		return nil, err
	}
	h := Header{
		FontDataSize: uint32(len(ttf)),
		Version:      Version,
		Charset:      charsetDefault,
		Weight:       400,
	}
	if os2, ok := fontinfo.OS2Info(font); ok {
		h.Panose = os2.Panose
		if os2.Italic() {
			h.Italic = 1
		}
		h.Weight = uint32(os2.WeightClass)
		h.FsType = os2.FsType
		h.UnicodeRange = os2.UnicodeRange
		h.CodePageRange = os2.CodePageRange
	} else {
		tracer().Infof("font has no 'OS/2' table, using defaults for EOT header")
	}
	if head, ok := fontinfo.HeadInfo(font); ok {
		h.CheckSumAdjustment = head.CheckSumAdjustment
	}
	h.FamilyName = fontinfo.Name(font, sfnt.NameIDFamily)
	h.StyleName = fontinfo.Name(font, sfnt.NameIDSubfamily)
	h.VersionName = fontinfo.Name(font, sfnt.NameIDVersion)
	h.FullName = fontinfo.Name(font, sfnt.NameIDFull)
	out, err := h.encode()
	if err != nil {
		return nil, err
	}
	out = append(out, ttf...)
	le.PutUint32(out, uint32(len(out)))
	tracer().Infof("EOT: font %q, %d bytes", h.FamilyName, len(out))
	return out, nil
}

func (h *Header) encode() ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	b := make([]byte, 0, 256)
	b = le.AppendUint32(b, 0) // EOTSize, set by Encode
	b = le.AppendUint32(b, h.FontDataSize)
	b = le.AppendUint32(b, h.Version)
	b = le.AppendUint32(b, h.Flags)
	b = append(b, h.Panose[:]...)
	b = append(b, h.Charset, h.Italic)
	b = le.AppendUint32(b, h.Weight)
	b = le.AppendUint16(b, h.FsType)
	b = le.AppendUint16(b, MagicNumber)
	for _, r := range h.UnicodeRange {
		b = le.AppendUint32(b, r)
	}
	for _, r := range h.CodePageRange {
		b = le.AppendUint32(b, r)
	}
	b = le.AppendUint32(b, h.CheckSumAdjustment)
	b = append(b, make([]byte, 16)...) // Reserved1-4
	for _, s := range []string{h.FamilyName, h.StyleName, h.VersionName, h.FullName, h.RootString} {
		u, err := enc.Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("encoding EOT name %q: %w", s, err)
		}
		b = le.AppendUint16(b, 0) // padding
		b = le.AppendUint16(b, uint16(len(u)))
		b = append(b, u...)
	}
	return b, nil
}

// ErrNotEOT is returned for data which is not an EOT file.
var ErrNotEOT = errors.New("data is not an EOT file")

// Decode reads the header of an EOT file and returns it together with the
// embedded font data. Compressed or obfuscated font data is not supported.
func Decode(data []byte) (Header, []byte, error) {
	var h Header
	if len(data) < fixedSize || le.Uint16(data[34:]) != MagicNumber {
		return h, nil, ErrNotEOT
	}
	h.EOTSize = le.Uint32(data[0:])
	h.FontDataSize = le.Uint32(data[4:])
	h.Version = le.Uint32(data[8:])
	h.Flags = le.Uint32(data[12:])
	copy(h.Panose[:], data[16:26])
	h.Charset, h.Italic = data[26], data[27]
	h.Weight = le.Uint32(data[28:])
	h.FsType = le.Uint16(data[32:])
	for i := range h.UnicodeRange {
		h.UnicodeRange[i] = le.Uint32(data[36+4*i:])
	}
	h.CodePageRange[0] = le.Uint32(data[52:])
	h.CodePageRange[1] = le.Uint32(data[56:])
	h.CheckSumAdjustment = le.Uint32(data[60:])
	if int(h.EOTSize) != len(data) {
		return h, nil, fmt.Errorf("EOT size %d does not match data length %d", h.EOTSize, len(data))
	}
	if h.Flags&0x0C != 0 { // TTEMBED_TTCOMPRESSED, TTEMBED_XORENCRYPTDATA
		return h, nil, fmt.Errorf("EOT font data is compressed or obfuscated (flags %#x)", h.Flags)
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	pos := 80 // start of Padding1
	names := []*string{&h.FamilyName, &h.StyleName, &h.VersionName, &h.FullName}
	if h.Version >= 0x00020001 {
		names = append(names, &h.RootString)
	}
	for _, name := range names {
		if pos+4 > len(data) {
			return h, nil, errors.New("EOT header truncated")
		}
		size := int(le.Uint16(data[pos+2:]))
		pos += 4
		if pos+size > len(data) {
			return h, nil, errors.New("EOT header truncated")
		}
		s, err := dec.Bytes(data[pos : pos+size])
		if err != nil {
			return h, nil, err
		}
		*name = string(s)
		pos += size
	}
	if h.Version >= 0x00020002 {
		return h, nil, fmt.Errorf("EOT version %#x not supported", h.Version)
	}
	if len(data)-pos != int(h.FontDataSize) {
		return h, nil, fmt.Errorf("EOT font data size %d does not match remaining %d bytes",
			h.FontDataSize, len(data)-pos)
	}
	return h, data[pos:], nil
}
