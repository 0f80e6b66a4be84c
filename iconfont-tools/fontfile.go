package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/npillmayer/iconfont/eot"
	"github.com/npillmayer/iconfont/fontinfo"
	"github.com/npillmayer/iconfont/woff"
)

// Containers a font may be stored in.
const (
	containerSFNT = "TTF"
	containerWOFF = "WOFF"
	containerEOT  = "EOT"
)

// loadFontFile reads a TTF, WOFF or EOT file.
func loadFontFile(path string) (*fontinfo.Font, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	f, container, err := loadFontData(data)
	if err != nil {
		return nil, "", fmt.Errorf("cannot load font %s: %w", path, err)
	}
	tracer().Infof("loaded %s font %s (%d tables)", container, path, len(f.Tags()))
	return f, container, nil
}

// loadFontData unwraps WOFF and EOT containers and parses the sfnt font
// inside.
func loadFontData(data []byte) (*fontinfo.Font, string, error) {
	container := containerSFNT
	if len(data) >= 4 && binary.BigEndian.Uint32(data) == woff.Signature {
		sfnt, err := woff.Decode(data)
		if err != nil {
			return nil, "", err
		}
		data, container = sfnt, containerWOFF
	}
	f, err := fontinfo.Parse(data)
	if errors.Is(err, fontinfo.ErrNotAFont) && container == containerSFNT {
		_, embedded, eotErr := eot.Decode(data)
		if eotErr != nil {
			if errors.Is(eotErr, eot.ErrNotEOT) {
				return nil, "", err
			}
			return nil, "", eotErr
		}
		f, err = fontinfo.Parse(embedded)
		container = containerEOT
	}
	if err != nil {
		return nil, "", err
	}
	return f, container, nil
}
