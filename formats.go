package iconfont

// Format is an output format tag as used in a manifest's output formats.
type Format = string

// Output formats known to the build.
const (
	FormatSVG  Format = "svg"
	FormatTTF  Format = "ttf"
	FormatEOT  Format = "eot"
	FormatWOFF Format = "woff"
	FormatPNG  Format = "png"
)

// FontFormats lists the persisted font formats in build order.
var FontFormats = []Format{FormatSVG, FormatTTF, FormatEOT, FormatWOFF}

// Wants reports whether format is among the requested formats.
// This decides, for every output format, whether it is written to disk.
func Wants(requested []string, format Format) bool {
	for _, f := range requested {
		if f == format {
			return true
		}
	}
	return false
}
