package fontinfo

import (
	"time"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
// Values are decoded directly from the raw table bytes.
type HeadTableInfo struct {
	MajorVersion       uint16
	MinorVersion       uint16
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin               int16
	YMin               int16
	XMax               int16
	YMax               int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

const headTableSize = 54

// HeadInfo decodes table 'head' from raw bytes.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(f *Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	b := f.Table("head")
	if len(b) < headTableSize {
		return info, false
	}
	info.MajorVersion = u16(b[0:2])
	info.MinorVersion = u16(b[2:4])
	info.FontRevision = u32(b[4:8])
	info.CheckSumAdjustment = u32(b[8:12])
	info.MagicNumber = u32(b[12:16])
	info.Flags = u16(b[16:18])
	info.UnitsPerEm = u16(b[18:20])
	info.Created = int64(u32(b[20:24]))<<32 | int64(u32(b[24:28]))
	info.Modified = int64(u32(b[28:32]))<<32 | int64(u32(b[32:36]))
	info.XMin = i16(b[36:38])
	info.YMin = i16(b[38:40])
	info.XMax = i16(b[40:42])
	info.YMax = i16(b[42:44])
	info.MacStyle = u16(b[44:46])
	info.LowestRecPPEM = u16(b[46:48])
	info.FontDirectionHint = i16(b[48:50])
	info.IndexToLocFormat = i16(b[50:52])
	info.GlyphDataFormat = i16(b[52:54])
	return info, true
}

// Revision returns the font revision as a floating point number.
func (h HeadTableInfo) Revision() float64 {
	return float64(h.FontRevision) / 65536
}

// CreatedTime converts the creation date to time.Time. A zero date,
// as written by reproducible builds, is returned as the zero time.
func (h HeadTableInfo) CreatedTime() time.Time {
	if h.Created == 0 {
		return time.Time{}
	}
	epoch := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	return epoch.Add(time.Duration(h.Created) * time.Second)
}
