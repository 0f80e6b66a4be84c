package fontinfo

// OS2TableInfo is a typed query view over OpenType table 'OS/2'.
// CodePageRange is decoded for table versions 1 and up.
type OS2TableInfo struct {
	Version        uint16
	XAvgCharWidth  int16
	WeightClass    uint16
	WidthClass     uint16
	FsType         uint16
	Panose         [10]byte
	UnicodeRange   [4]uint32
	VendorID       string
	FsSelection    uint16
	FirstCharIndex uint16
	LastCharIndex  uint16
	TypoAscender   int16
	TypoDescender  int16
	TypoLineGap    int16
	WinAscent      uint16
	WinDescent     uint16
	CodePageRange  [2]uint32
}

const (
	os2V0Size = 78
	os2V1Size = 86
)

// OS2Info decodes table 'OS/2'.
func OS2Info(f *Font) (OS2TableInfo, bool) {
	var info OS2TableInfo
	b := f.Table("OS/2")
	if len(b) < os2V0Size {
		return info, false
	}
	info.Version = u16(b[0:2])
	info.XAvgCharWidth = i16(b[2:4])
	info.WeightClass = u16(b[4:6])
	info.WidthClass = u16(b[6:8])
	info.FsType = u16(b[8:10])
	copy(info.Panose[:], b[32:42])
	for i := range info.UnicodeRange {
		info.UnicodeRange[i] = u32(b[42+4*i:])
	}
	info.VendorID = string(b[58:62])
	info.FsSelection = u16(b[62:64])
	info.FirstCharIndex = u16(b[64:66])
	info.LastCharIndex = u16(b[66:68])
	info.TypoAscender = i16(b[68:70])
	info.TypoDescender = i16(b[70:72])
	info.TypoLineGap = i16(b[72:74])
	info.WinAscent = u16(b[74:76])
	info.WinDescent = u16(b[76:78])
	if info.Version >= 1 && len(b) >= os2V1Size {
		info.CodePageRange[0] = u32(b[78:82])
		info.CodePageRange[1] = u32(b[82:86])
	}
	return info, true
}

// Italic reports whether the italic bit of fsSelection is set.
func (os2 OS2TableInfo) Italic() bool {
	return os2.FsSelection&0x01 != 0
}
