package fontinfo

// HHeaTableInfo is a typed query view over OpenType table 'hhea'.
type HHeaTableInfo struct {
	VersionFixed     uint32
	Ascender         int16
	Descender        int16
	LineGap          int16
	AdvanceWidthMax  uint16
	MinLSB           int16
	MinRSB           int16
	XMaxExtent       int16
	NumberOfHMetrics uint16
}

const hheaTableSize = 36

// HHeaInfo decodes table 'hhea'.
func HHeaInfo(f *Font) (HHeaTableInfo, bool) {
	var info HHeaTableInfo
	b := f.Table("hhea")
	if len(b) < hheaTableSize {
		return info, false
	}
	info.VersionFixed = u32(b[0:4])
	info.Ascender = i16(b[4:6])
	info.Descender = i16(b[6:8])
	info.LineGap = i16(b[8:10])
	info.AdvanceWidthMax = u16(b[10:12])
	info.MinLSB = i16(b[12:14])
	info.MinRSB = i16(b[14:16])
	info.XMaxExtent = i16(b[16:18])
	info.NumberOfHMetrics = u16(b[34:36])
	return info, true
}
