package fontinfo

import "unicode"

// Coverage checks which of the given code-points are mapped to a glyph
// by the font's cmap. It returns the missing code-points in input order.
func Coverage(f *Font, codepoints []rune) (missing []rune, err error) {
	_, face, err := f.parsed()
	if err != nil {
		return nil, err
	}
	for _, r := range codepoints {
		if gid, ok := face.NominalGlyph(r); !ok || gid == 0 {
			missing = append(missing, r)
		}
	}
	tracer().Debugf("coverage: %d of %d code-points missing", len(missing), len(codepoints))
	return missing, nil
}

// MappedCodepoints returns every code-point the font's cmap maps to a glyph
// other than '.notdef', in ascending order.
func MappedCodepoints(f *Font) ([]rune, error) {
	_, face, err := f.parsed()
	if err != nil {
		return nil, err
	}
	var mapped []rune
	for r := rune(1); r <= unicode.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF { // surrogates
			continue
		}
		if gid, ok := face.NominalGlyph(r); ok && gid != 0 {
			mapped = append(mapped, r)
		}
	}
	return mapped, nil
}
