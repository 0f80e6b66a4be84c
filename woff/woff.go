/*
Package woff wraps TrueType fonts into WOFF 1.0 containers.

Every table of the font is compressed with zlib if this makes it smaller,
and stored as-is otherwise. An optional XML metadata block is compressed
as well. See https://www.w3.org/TR/WOFF/.

Decode reverses the wrapping, which is used to inspect generated web fonts.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package woff

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/npillmayer/iconfont/fontinfo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont.woff'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.woff")
}

// Signature is the magic number of WOFF 1.0 files, 'wOFF'.
const Signature uint32 = 0x774F4646

const (
	headerSize   = 44
	dirEntrySize = 20
)

// Options for WOFF encoding.
type Options struct {
	Metadata []byte // extended metadata, an XML document; optional
}

// ErrNotWOFF is returned by Decode for data without a WOFF signature.
var ErrNotWOFF = errors.New("data is not a WOFF font")

// Encode wraps a TrueType font into a WOFF container.
func Encode(ttf []byte, opts Options) ([]byte, error) {
	font, err := fontinfo.Parse(ttf)
	if err != nil {
		return nil, err
	}
	head, ok := fontinfo.HeadInfo(font)
	if !ok {
		return nil, errors.New("font has no valid 'head' table")
	}
	records := font.TableRecords()
	numTables := len(records)
	out := make([]byte, headerSize+dirEntrySize*numTables)
	sfntSize := 12 + 16*numTables
	for i, rec := range records {
		data := font.Table(rec.Tag)
		stored, err := compress(data)
		if err != nil {
			return nil, fmt.Errorf("compressing table '%s': %w", rec.Tag, err)
		}
		offset := len(out)
		out = append(out, stored...)
		out = pad4(out)
		entry := out[headerSize+dirEntrySize*i:]
		copy(entry, rec.Tag)
		binary.BigEndian.PutUint32(entry[4:], uint32(offset))
		binary.BigEndian.PutUint32(entry[8:], uint32(len(stored)))
		binary.BigEndian.PutUint32(entry[12:], uint32(len(data)))
		binary.BigEndian.PutUint32(entry[16:], rec.Checksum)
		sfntSize += (len(data) + 3) &^ 3
		tracer().Debugf("table '%s': %d -> %d bytes", rec.Tag, len(data), len(stored))
	}
	var metaOffset, metaLength int
	if len(opts.Metadata) > 0 {
		meta, err := deflate(opts.Metadata)
		if err != nil {
			return nil, fmt.Errorf("compressing metadata: %w", err)
		}
		metaOffset, metaLength = len(out), len(meta)
		out = append(out, meta...)
		out = pad4(out)
	}
	h := out[:headerSize]
	binary.BigEndian.PutUint32(h[0:], Signature)
	binary.BigEndian.PutUint32(h[4:], font.Flavor)
	binary.BigEndian.PutUint32(h[8:], uint32(len(out)))
	binary.BigEndian.PutUint16(h[12:], uint16(numTables))
	binary.BigEndian.PutUint32(h[16:], uint32(sfntSize))
	binary.BigEndian.PutUint16(h[20:], uint16(head.FontRevision>>16))
	binary.BigEndian.PutUint16(h[22:], uint16(head.FontRevision))
	binary.BigEndian.PutUint32(h[24:], uint32(metaOffset))
	binary.BigEndian.PutUint32(h[28:], uint32(metaLength))
	binary.BigEndian.PutUint32(h[32:], uint32(len(opts.Metadata)))
	// no private data block: privOffset and privLength stay 0
	tracer().Infof("WOFF: %d tables, %d bytes (sfnt %d bytes)", numTables, len(out), len(ttf))
	return out, nil
}

// compress returns the zlib-compressed data if it is smaller, data otherwise.
func compress(data []byte) ([]byte, error) {
	z, err := deflate(data)
	if err != nil {
		return nil, err
	}
	if len(z) < len(data) {
		return z, nil
	}
	return data, nil
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pad4(b []byte) []byte {
	for len(b)&3 != 0 {
		b = append(b, 0)
	}
	return b
}

// Header is the header of a WOFF file.
type Header struct {
	Flavor         uint32
	Length         uint32
	NumTables      uint16
	TotalSfntSize  uint32
	MajorVersion   uint16
	MinorVersion   uint16
	MetaOffset     uint32
	MetaLength     uint32
	MetaOrigLength uint32
}

// ReadHeader decodes the header of a WOFF file.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < headerSize || binary.BigEndian.Uint32(data) != Signature {
		return h, ErrNotWOFF
	}
	h.Flavor = binary.BigEndian.Uint32(data[4:])
	h.Length = binary.BigEndian.Uint32(data[8:])
	h.NumTables = binary.BigEndian.Uint16(data[12:])
	h.TotalSfntSize = binary.BigEndian.Uint32(data[16:])
	h.MajorVersion = binary.BigEndian.Uint16(data[20:])
	h.MinorVersion = binary.BigEndian.Uint16(data[22:])
	h.MetaOffset = binary.BigEndian.Uint32(data[24:])
	h.MetaLength = binary.BigEndian.Uint32(data[28:])
	h.MetaOrigLength = binary.BigEndian.Uint32(data[32:])
	if int(h.Length) != len(data) {
		return h, fmt.Errorf("WOFF length %d does not match data length %d", h.Length, len(data))
	}
	if len(data) < headerSize+dirEntrySize*int(h.NumTables) {
		return h, errors.New("WOFF table directory truncated")
	}
	return h, nil
}

// Decode unwraps a WOFF file into the sfnt font it contains.
func Decode(data []byte) ([]byte, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	n := int(h.NumTables)
	if n == 0 {
		return nil, errors.New("WOFF contains no tables")
	}
	entrySelector := uint16(math.Log2(float64(n)))
	searchRange := uint16(1 << (entrySelector + 4))
	out := make([]byte, 12+16*n, max(int(h.TotalSfntSize), 12+16*n))
	binary.BigEndian.PutUint32(out[0:], h.Flavor)
	binary.BigEndian.PutUint16(out[4:], uint16(n))
	binary.BigEndian.PutUint16(out[6:], searchRange)
	binary.BigEndian.PutUint16(out[8:], entrySelector)
	binary.BigEndian.PutUint16(out[10:], uint16(n)<<4-searchRange)
	for i := 0; i < n; i++ {
		entry := data[headerSize+dirEntrySize*i:]
		offset := binary.BigEndian.Uint32(entry[4:])
		compLength := binary.BigEndian.Uint32(entry[8:])
		origLength := binary.BigEndian.Uint32(entry[12:])
		if uint64(offset)+uint64(compLength) > uint64(len(data)) || compLength > origLength {
			return nil, fmt.Errorf("WOFF table '%s' is corrupt", entry[:4])
		}
		table := data[offset : offset+compLength]
		if compLength < origLength {
			if table, err = inflate(table, origLength); err != nil {
				return nil, fmt.Errorf("WOFF table '%s': %w", entry[:4], err)
			}
		}
		rec := out[12+16*i:]
		copy(rec, entry[:4])
		copy(rec[4:8], entry[16:20]) // checksum
		binary.BigEndian.PutUint32(rec[8:], uint32(len(out)))
		binary.BigEndian.PutUint32(rec[12:], origLength)
		out = pad4(append(out, table...))
	}
	return out, nil
}

// Metadata returns the uncompressed extended metadata of a WOFF file,
// or nil if there is none.
func Metadata(data []byte) ([]byte, error) {
	h, err := ReadHeader(data)
	if err != nil || h.MetaLength == 0 {
		return nil, err
	}
	if uint64(h.MetaOffset)+uint64(h.MetaLength) > uint64(len(data)) {
		return nil, errors.New("WOFF metadata block is corrupt")
	}
	return inflate(data[h.MetaOffset:h.MetaOffset+h.MetaLength], h.MetaOrigLength)
}

func inflate(data []byte, size uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out := make([]byte, 0, size)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, io.LimitReader(zr, int64(size)+1)); err != nil {
		return nil, err
	}
	if buf.Len() != int(size) {
		return nil, fmt.Errorf("decompressed size %d, expected %d", buf.Len(), size)
	}
	return buf.Bytes(), nil
}
