/*
Package encode presents the binary font encoders with a uniform contract.

Encoders may signal failure with an error or with an empty result. Adapter
maps both to an *iconfont.BuildError of kind EncodingFailed and never
returns partial output.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package encode

import (
	"errors"
	"fmt"
	"time"

	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/eot"
	"github.com/npillmayer/iconfont/sfntw"
	"github.com/npillmayer/iconfont/woff"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont.encode'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.encode")
}

// Failure messages of the adapter.
const (
	MsgTTF  = "Could not create TTF file"
	MsgEOT  = "Could not create EOT file"
	MsgWOFF = "Could not create WOFF file"
)

// Encoders convert between font formats. The manifest provides descriptive
// information for the encoded fonts.
type Encoders interface {
	SVGToTTF(svg []byte, m *iconfont.Manifest) ([]byte, error)
	TTFToEOT(ttf []byte) ([]byte, error)
	TTFToWOFF(ttf []byte, m *iconfont.Manifest) ([]byte, error)
}

// Default returns the encoders of this module: packages sfntw, eot and woff.
func Default() Encoders {
	return standard{}
}

type standard struct{}

func (standard) SVGToTTF(svg []byte, m *iconfont.Manifest) ([]byte, error) {
	opts := sfntw.Options{}
	if m != nil {
		opts.Version = m.Version
		opts.Copyright = m.Copyright
		opts.Description = m.Description
		opts.URL = m.URL
		if m.Timestamp != nil {
			opts.Timestamp = time.Unix(*m.Timestamp, 0)
		}
	}
	return sfntw.Encode(svg, opts)
}

func (standard) TTFToEOT(ttf []byte) ([]byte, error) {
	return eot.Encode(ttf)
}

func (standard) TTFToWOFF(ttf []byte, m *iconfont.Manifest) ([]byte, error) {
	opts := woff.Options{}
	if m != nil && m.Metadata != "" {
		opts.Metadata = []byte(m.Metadata)
	}
	return woff.Encode(ttf, opts)
}

// Funcs adapts plain functions to Encoders. Nil functions fall back to
// the default encoders.
type Funcs struct {
	TTF  func(svg []byte, m *iconfont.Manifest) ([]byte, error)
	EOT  func(ttf []byte) ([]byte, error)
	WOFF func(ttf []byte, m *iconfont.Manifest) ([]byte, error)
}

func (f Funcs) SVGToTTF(svg []byte, m *iconfont.Manifest) ([]byte, error) {
	if f.TTF == nil {
		return standard{}.SVGToTTF(svg, m)
	}
	return f.TTF(svg, m)
}

func (f Funcs) TTFToEOT(ttf []byte) ([]byte, error) {
	if f.EOT == nil {
		return standard{}.TTFToEOT(ttf)
	}
	return f.EOT(ttf)
}

func (f Funcs) TTFToWOFF(ttf []byte, m *iconfont.Manifest) ([]byte, error) {
	if f.WOFF == nil {
		return standard{}.TTFToWOFF(ttf, m)
	}
	return f.WOFF(ttf, m)
}

// Adapter wraps Encoders with a uniform success/failure contract.
type Adapter struct {
	enc Encoders
}

// New creates an adapter. A nil enc selects Default().
func New(enc Encoders) *Adapter {
	if enc == nil {
		enc = Default()
	}
	return &Adapter{enc: enc}
}

// TTF encodes the composed SVG font document.
func (a *Adapter) TTF(svg []byte, m *iconfont.Manifest) ([]byte, error) {
	out, err := a.enc.SVGToTTF(svg, m)
	return check(out, err, MsgTTF)
}

// EOT encodes a TrueType font as Embedded OpenType.
func (a *Adapter) EOT(ttf []byte) ([]byte, error) {
	out, err := a.enc.TTFToEOT(ttf)
	return check(out, err, MsgEOT)
}

// WOFF encodes a TrueType font as WOFF.
func (a *Adapter) WOFF(ttf []byte, m *iconfont.Manifest) ([]byte, error) {
	out, err := a.enc.TTFToWOFF(ttf, m)
	return check(out, err, MsgWOFF)
}

func check(out []byte, err error, msg string) ([]byte, error) {
	if err != nil {
		tracer().Errorf("%s: %v", msg, err)
		return nil, &iconfont.BuildError{
			Kind: iconfont.EncodingFailed,
			Err:  fmt.Errorf("%s: %w", msg, err),
		}
	}
	if len(out) == 0 {
		tracer().Errorf("%s: encoder returned no data", msg)
		return nil, &iconfont.BuildError{Kind: iconfont.EncodingFailed, Err: errors.New(msg)}
	}
	return out, nil
}
