package iconfont

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ManifestFile is the name of the manifest within an input directory.
const ManifestFile = "config.json"

// Default metrics, applied for every metric missing from a manifest.
const (
	DefaultHorizAdvX  = 1024
	DefaultUnitsPerEm = 1024
	DefaultAscent     = 1024
	DefaultDescent    = 0
)

// Manifest describes an icon font: its identity, basic metrics, the output
// formats to produce and the mapping of glyph files to code-points.
//
// Metrics are optional in the manifest file; use Metrics to get them with
// defaults applied.
type Manifest struct {
	ID            string      `json:"id"`
	UnitsPerEm    *float64    `json:"unitsPerEm,omitempty"`
	Ascent        *float64    `json:"ascent,omitempty"`
	Descent       *float64    `json:"descent,omitempty"`
	HorizAdvX     *float64    `json:"horizAdvX,omitempty"`
	OutputFormats []string    `json:"outputformats"`
	PNGScales     []int       `json:"pngscales"`
	Charmap       []GlyphSpec `json:"charmap"`
	// descriptive information for the binary fonts, all optional
	Version     string `json:"version,omitempty"`     // font revision, e.g. "1.2"
	Copyright   string `json:"copyright,omitempty"`   // name table copyright notice
	Description string `json:"description,omitempty"` // name table description
	URL         string `json:"url,omitempty"`         // name table vendor URL
	Timestamp   *int64 `json:"ts,omitempty"`          // creation time in Unix seconds
	Metadata    string `json:"metadata,omitempty"`    // WOFF extended metadata (XML)
}

// GlyphSpec maps one glyph file to its code-point(s).
type GlyphSpec struct {
	File    string  `json:"file"`
	Unicode Unicode `json:"unicode"`
}

// BaseName is the file name of the glyph without directory and extension.
func (spec GlyphSpec) BaseName() string {
	base := filepath.Base(filepath.ToSlash(spec.File))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FontMetrics holds the resolved metrics of a font, in font units.
type FontMetrics struct {
	UnitsPerEm float64
	Ascent     float64
	Descent    float64
	HorizAdvX  float64
}

// Height is the distance between ascent and descent.
func (m FontMetrics) Height() float64 {
	return m.Ascent - m.Descent
}

// DefaultMetrics returns the metrics used for a manifest without any metric.
func DefaultMetrics() FontMetrics {
	return FontMetrics{
		UnitsPerEm: DefaultUnitsPerEm,
		Ascent:     DefaultAscent,
		Descent:    DefaultDescent,
		HorizAdvX:  DefaultHorizAdvX,
	}
}

// Metrics returns the manifest's metrics. Values present in the manifest
// override the defaults.
func (m *Manifest) Metrics() FontMetrics {
	metrics := DefaultMetrics()
	if m == nil {
		return metrics
	}
	if m.UnitsPerEm != nil {
		metrics.UnitsPerEm = *m.UnitsPerEm
	}
	if m.Ascent != nil {
		metrics.Ascent = *m.Ascent
	}
	if m.Descent != nil {
		metrics.Descent = *m.Descent
	}
	if m.HorizAdvX != nil {
		metrics.HorizAdvX = *m.HorizAdvX
	}
	return metrics
}

// Wants is a shortcut for Wants(m.OutputFormats, format).
func (m *Manifest) Wants(format Format) bool {
	if m == nil {
		return false
	}
	return Wants(m.OutputFormats, format)
}

// Validate checks the invariants of a manifest.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("manifest has no font id")
	}
	metrics := m.Metrics()
	if metrics.UnitsPerEm <= 0 {
		return fmt.Errorf("unitsPerEm must be positive, is %g", metrics.UnitsPerEm)
	}
	if metrics.Ascent <= metrics.Descent {
		return fmt.Errorf("ascent (%g) must be greater than descent (%g)", metrics.Ascent, metrics.Descent)
	}
	for i, scale := range m.PNGScales {
		if scale <= 0 {
			return fmt.Errorf("png scale #%d must be positive, is %d", i, scale)
		}
	}
	for i, spec := range m.Charmap {
		if strings.TrimSpace(spec.File) == "" {
			return fmt.Errorf("charmap entry #%d has no file", i)
		}
	}
	return nil
}

// LoadManifest reads and validates the manifest file `config.json` from
// directory dir.
func LoadManifest(dir string) (*Manifest, error) {
	return LoadManifestFile(filepath.Join(dir, ManifestFile))
}

// LoadManifestFile reads and validates a manifest file.
// All errors are of kind ManifestError.
func LoadManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &BuildError{Kind: ManifestError, File: path, Err: err}
	}
	m, err := ParseManifest(data)
	if err != nil {
		if berr, ok := err.(*BuildError); ok {
			berr.File = path
			return nil, berr
		}
		return nil, err
	}
	tracer().Debugf("loaded manifest %q with %d glyphs", m.ID, len(m.Charmap))
	return m, nil
}

// ParseManifest decodes and validates a manifest from JSON.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, &BuildError{
			Kind: ManifestError,
			Err:  fmt.Errorf("invalid JSON file (%w)", err),
		}
	}
	if err := m.Validate(); err != nil {
		return nil, &BuildError{Kind: ManifestError, Err: err}
	}
	return m, nil
}

// --- Unicode ---------------------------------------------------------------

// Unicode is the code-point specification of a glyph, kept verbatim as a
// sequence of tokens.
//
// In a manifest it may be given as a string, a number or an array of those.
// A token of at least two hex digits, optionally prefixed by "U+" or "0x",
// denotes a single code-point (e.g. "e001", "U+1F600"); a number denotes a
// code-point in decimal and must be integral. Any other token stands for its
// literal characters, including single characters which happen to be hex
// digits: "a" is the letter a, not U+000A.
type Unicode []string

// UnmarshalJSON accepts a string, a number or an array of strings and numbers.
func (u *Unicode) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var tokens []string
	switch v := raw.(type) {
	case nil:
	case string:
		tokens = []string{v}
	case float64:
		t, err := numberToken(v)
		if err != nil {
			return err
		}
		tokens = []string{t}
	case []any:
		for _, item := range v {
			switch t := item.(type) {
			case string:
				tokens = append(tokens, t)
			case float64:
				nt, err := numberToken(t)
				if err != nil {
					return err
				}
				tokens = append(tokens, nt)
			default:
				return fmt.Errorf("unsupported unicode entry %v", item)
			}
		}
	default:
		return fmt.Errorf("unsupported unicode value %s", string(data))
	}
	*u = tokens
	return nil
}

// numberTokens are marked with a leading '#' to keep them apart from hex.
func numberToken(f float64) (string, error) {
	if f != math.Trunc(f) || f < 0 || f > utf8.MaxRune {
		return "", fmt.Errorf("unicode number %v is not a code-point", f)
	}
	return "#" + strconv.FormatInt(int64(f), 10), nil
}

// String joins the tokens with '-', suitable for file names.
func (u Unicode) String() string {
	parts := make([]string, len(u))
	for i, t := range u {
		parts[i] = strings.TrimPrefix(t, "#")
	}
	return strings.Join(parts, "-")
}

// Codepoints returns the code-points denoted by the tokens, in order.
func (u Unicode) Codepoints() []rune {
	var runes []rune
	for _, t := range u {
		if r, ok := parseCodepointToken(t); ok {
			runes = append(runes, r)
			continue
		}
		runes = append(runes, []rune(t)...)
	}
	return runes
}

// XMLEntities renders the code-points as XML character references,
// e.g. "&#xe001;".
func (u Unicode) XMLEntities() string {
	var sb strings.Builder
	for _, r := range u.Codepoints() {
		fmt.Fprintf(&sb, "&#x%x;", r)
	}
	return sb.String()
}

func parseCodepointToken(token string) (rune, bool) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "#") {
		n, err := strconv.ParseInt(token[1:], 10, 32)
		if err != nil || !validCodepoint(rune(n)) {
			return 0, false
		}
		return rune(n), true
	}
	hex, prefixed := token, false
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"),
		strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex, prefixed = hex[2:], true
	}
	if hex == "" || len(hex) > 6 || (!prefixed && len(hex) < 2) {
		return 0, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !validCodepoint(rune(n)) {
		return 0, false
	}
	return rune(n), true
}

func validCodepoint(r rune) bool {
	return r > 0 && utf8.ValidRune(r)
}
