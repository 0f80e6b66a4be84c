// Package fixtures provides input directories and font helpers for tests.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/sfnt"
)

// Glyph outlines used throughout the tests.
const (
	Diagonal = "M0 0L512 512"
	Square   = "M64 64H448V448H64Z"
	Triangle = "M256 32L480 480H32Z"
	Circle   = "M256 32A224 224 0 1 1 255.9 32Z"
)

// GlyphSVG returns a glyph file with the given viewBox and path data.
// An empty viewBox omits the attribute.
func GlyphSVG(viewBox string, d ...string) string {
	vb := ""
	if viewBox != "" {
		vb = fmt.Sprintf(` viewBox="%s"`, viewBox)
	}
	s := `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	s += fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="512" height="512"%s>`, vb) + "\n"
	for _, path := range d {
		s += fmt.Sprintf(`  <path fill="#333333" d="%s"/>`, path) + "\n"
	}
	return s + "</svg>\n"
}

// Entry is a charmap entry of a test manifest.
type Entry struct {
	File    string `json:"file"`
	Unicode any    `json:"unicode"`
}

// Manifest is a test manifest, serialized to config.json.
type Manifest struct {
	ID            string   `json:"id"`
	OutputFormats []string `json:"outputformats"`
	PNGScales     []int    `json:"pngscales,omitempty"`
	Ascent        *float64 `json:"ascent,omitempty"`
	Descent       *float64 `json:"descent,omitempty"`
	UnitsPerEm    *float64 `json:"unitsPerEm,omitempty"`
	Charmap       []Entry  `json:"charmap"`
}

// Float is a helper for optional manifest metrics.
func Float(f float64) *float64 {
	return &f
}

// InputDir creates a temporary input directory containing config.json and
// the given glyph files (file name -> content).
func InputDir(t testing.TB, m Manifest, glyphs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	conf, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), conf, 0o644); err != nil {
		t.Fatal(err)
	}
	for name, content := range glyphs {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// Icons returns the manifest and glyphs of a small icon set with n glyphs,
// mapped to code-points U+E001 onwards.
func Icons(n int, formats ...string) (Manifest, map[string]string) {
	outlines := []string{Square, Triangle, Diagonal, Circle}
	m := Manifest{
		ID:            "icons",
		OutputFormats: formats,
		Ascent:        Float(1024),
		Descent:       Float(0),
	}
	glyphs := make(map[string]string, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("glyphs/icon%02d.svg", i)
		glyphs[name] = GlyphSVG("0 0 512 512", outlines[i%len(outlines)])
		m.Charmap = append(m.Charmap, Entry{File: name, Unicode: fmt.Sprintf("%x", 0xe001+i)})
	}
	return m, glyphs
}

// ParseFont parses binary font data (TTF), failing the test on error.
func ParseFont(t testing.TB, data []byte) *sfnt.Font {
	t.Helper()
	f, err := sfnt.Parse(data)
	if err != nil {
		t.Fatalf("cannot parse font: %v", err)
	}
	return f
}
