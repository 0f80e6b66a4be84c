package iconfont

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the errors of a font build.
type ErrorKind int

const (
	// ManifestError: the manifest is missing, unreadable or invalid.
	ManifestError ErrorKind = iota
	// OptimizationFailed: the shape optimizer produced no data for a glyph.
	OptimizationFailed
	// InvalidBoundingBox: a glyph's viewBox is unusable.
	InvalidBoundingBox
	// EncodingFailed: a binary font encoder produced no output.
	EncodingFailed
	// IOError: reading or writing a file failed.
	IOError
)

// String returns a human-readable representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ManifestError:
		return "ManifestError"
	case OptimizationFailed:
		return "OptimizationFailed"
	case InvalidBoundingBox:
		return "InvalidBoundingBox"
	case EncodingFailed:
		return "EncodingFailed"
	case IOError:
		return "IOError"
	default:
		return "UNKNOWN"
	}
}

// Sentinels for use with errors.Is. A *BuildError matches the sentinel of
// its kind.
var (
	ErrManifest           = errors.New("invalid manifest")
	ErrOptimizationFailed = errors.New("could not optimize SVG")
	ErrInvalidBoundingBox = errors.New("invalid bounding box")
	ErrEncodingFailed     = errors.New("encoding failed")
	ErrIO                 = errors.New("i/o error")
)

var sentinels = map[ErrorKind]error{
	ManifestError:      ErrManifest,
	OptimizationFailed: ErrOptimizationFailed,
	InvalidBoundingBox: ErrInvalidBoundingBox,
	EncodingFailed:     ErrEncodingFailed,
	IOError:            ErrIO,
}

// BuildError is a fatal error of a font build. It records which build task
// failed and, if applicable, the file involved.
type BuildError struct {
	Kind ErrorKind // classification
	Task string    // build task, e.g. "normalizeGlyphs" (empty if unknown)
	File string    // offending file (empty if unknown)
	Err  error     // underlying error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	msg := e.Kind.String()
	if e.Task != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Task)
	}
	if e.File != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.File)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *BuildError) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// Errorf creates a BuildError of a given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// AsBuildError returns err as a *BuildError, wrapping it with the fallback
// kind if it is not one already. Task and file are filled in if missing.
func AsBuildError(err error, kind ErrorKind, task, file string) *BuildError {
	if err == nil {
		return nil
	}
	var berr *BuildError
	if !errors.As(err, &berr) {
		berr = &BuildError{Kind: kind, Err: err}
	}
	if berr.Task == "" {
		berr.Task = task
	}
	if berr.File == "" {
		berr.File = file
	}
	return berr
}
