/*
Package pipeline builds an icon font bundle from an input directory.

Build runs a fixed graph of tasks (see package taskgraph):

	loadManifest
	├── convertToPng                        (png previews of the raw glyphs)
	└── normalizeGlyphs
	    └── composeSvg ──── saveSvg
	        └── encodeTtf ─ saveTtf
	            ├── encodeEot ── saveEot
	            └── encodeWoff ─ saveWoff

Glyphs are normalized concurrently, but the composed font lists them in
charmap order. Which files are written is decided by the manifest's output
formats; save tasks for formats not requested do nothing.

A build either writes every requested file or fails with a single
*iconfont.BuildError, naming the task and file involved. Files created by
a failed build are removed again.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/compose"
	"github.com/npillmayer/iconfont/encode"
	"github.com/npillmayer/iconfont/glyph"
	"github.com/npillmayer/iconfont/raster"
	"github.com/npillmayer/iconfont/taskgraph"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont.pipeline'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.pipeline")
}

// Names of the build tasks, as reported in BuildError.Task.
const (
	TaskLoadManifest    = "loadManifest"
	TaskConvertToPNG    = "convertToPng"
	TaskNormalizeGlyphs = "normalizeGlyphs"
	TaskComposeSVG      = "composeSvg"
	TaskSaveSVG         = "saveSvg"
	TaskEncodeTTF       = "encodeTtf"
	TaskSaveTTF         = "saveTtf"
	TaskEncodeEOT       = "encodeEot"
	TaskSaveEOT         = "saveEot"
	TaskEncodeWOFF      = "encodeWoff"
	TaskSaveWOFF        = "saveWoff"
)

// ImagesDir is the sub-directory of the output directory holding PNG
// previews.
const ImagesDir = "images"

// BuildResult lists the files written by a build.
type BuildResult struct {
	SVG, TTF, EOT, WOFF string                  // absolute paths, empty if not requested
	PNG                 []string                // absolute paths of PNG previews
	Degraded            []glyph.NormalizedGlyph // glyphs which could not be normalized
}

// Paths maps every font format written to its output path.
func (r *BuildResult) Paths() map[iconfont.Format]string {
	paths := make(map[iconfont.Format]string, 4)
	for format, path := range map[iconfont.Format]string{
		iconfont.FormatSVG:  r.SVG,
		iconfont.FormatTTF:  r.TTF,
		iconfont.FormatEOT:  r.EOT,
		iconfont.FormatWOFF: r.WOFF,
	} {
		if path != "" {
			paths[format] = path
		}
	}
	return paths
}

// build holds the state of a single Build invocation.
type build struct {
	inputDir, outputDir string
	opts                options
	normalizer          *glyph.Normalizer
	encoders            *encode.Adapter
	rasterizer          raster.Rasterizer
	out                 *outputs
}

// Build builds the icon font described by the manifest in inputDir and
// writes the requested formats to outputDir, which is created if missing.
//
// Errors are of type *iconfont.BuildError, except for cancellation of ctx,
// which is reported as the context's error. On error, no file written by
// this call is left behind.
func Build(ctx context.Context, inputDir, outputDir string, opts ...Option) (*BuildResult, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, &iconfont.BuildError{Kind: iconfont.IOError, File: outputDir, Err: err}
	}
	b := &build{
		inputDir:   inputDir,
		outputDir:  absOut,
		opts:       o,
		normalizer: glyph.NewNormalizer(o.optimizer, o.parser),
		encoders:   encode.New(o.encoders),
		rasterizer: o.rasterizer,
		out:        &outputs{},
	}
	if b.rasterizer == nil {
		b.rasterizer = &raster.VectorRasterizer{Parser: o.parser}
	}
	res, err := b.run(ctx)
	if err != nil {
		b.out.rollback()
		return nil, err
	}
	return res, nil
}

func (b *build) run(ctx context.Context) (*BuildResult, error) {
	g := taskgraph.New(ctx)
	manifest := taskgraph.Go(g, TaskLoadManifest, b.loadManifest)
	pngs := taskgraph.Go(g, TaskConvertToPNG, func(ctx context.Context) ([]string, error) {
		m, _ := manifest.Get()
		return b.convertToPNG(ctx, m)
	}, manifest)
	glyphs := taskgraph.Go(g, TaskNormalizeGlyphs, func(ctx context.Context) ([]glyph.NormalizedGlyph, error) {
		m, _ := manifest.Get()
		return b.normalizeGlyphs(ctx, m)
	}, manifest)
	svg := taskgraph.Go(g, TaskComposeSVG, func(ctx context.Context) ([]byte, error) {
		m, _ := manifest.Get()
		gg, _ := glyphs.Get()
		data, err := compose.Compose(m, gg)
		return data, b.fail(ctx, TaskComposeSVG, iconfont.EncodingFailed, "", err)
	}, manifest, glyphs)
	savedSVG := taskgraph.Go(g, TaskSaveSVG, func(ctx context.Context) (string, error) {
		m, _ := manifest.Get()
		return b.save(ctx, TaskSaveSVG, m, iconfont.FormatSVG, svg)
	}, manifest, svg)
	ttf := taskgraph.Go(g, TaskEncodeTTF, func(ctx context.Context) ([]byte, error) {
		m, _ := manifest.Get()
		s, _ := svg.Get()
		data, err := b.encoders.TTF(s, m)
		return data, b.fail(ctx, TaskEncodeTTF, iconfont.EncodingFailed, "", err)
	}, manifest, svg)
	savedTTF := taskgraph.Go(g, TaskSaveTTF, func(ctx context.Context) (string, error) {
		m, _ := manifest.Get()
		return b.save(ctx, TaskSaveTTF, m, iconfont.FormatTTF, ttf)
	}, manifest, ttf)
	eot := taskgraph.Go(g, TaskEncodeEOT, func(ctx context.Context) ([]byte, error) {
		m, _ := manifest.Get()
		if !m.Wants(iconfont.FormatEOT) {
			return nil, nil
		}
		t, _ := ttf.Get()
		data, err := b.encoders.EOT(t)
		return data, b.fail(ctx, TaskEncodeEOT, iconfont.EncodingFailed, "", err)
	}, manifest, svg, ttf)
	savedEOT := taskgraph.Go(g, TaskSaveEOT, func(ctx context.Context) (string, error) {
		m, _ := manifest.Get()
		return b.save(ctx, TaskSaveEOT, m, iconfont.FormatEOT, eot)
	}, manifest, svg, ttf, eot)
	woff := taskgraph.Go(g, TaskEncodeWOFF, func(ctx context.Context) ([]byte, error) {
		m, _ := manifest.Get()
		t, _ := ttf.Get()
		data, err := b.encoders.WOFF(t, m)
		return data, b.fail(ctx, TaskEncodeWOFF, iconfont.EncodingFailed, "", err)
	}, manifest, ttf)
	savedWOFF := taskgraph.Go(g, TaskSaveWOFF, func(ctx context.Context) (string, error) {
		m, _ := manifest.Get()
		return b.save(ctx, TaskSaveWOFF, m, iconfont.FormatWOFF, woff)
	}, manifest, woff)

	if err := g.Wait(); err != nil {
		tracer().Errorf("build of %s failed: %v", b.inputDir, err)
		return nil, err
	}
	res := &BuildResult{}
	res.SVG, _ = savedSVG.Get()
	res.TTF, _ = savedTTF.Get()
	res.EOT, _ = savedEOT.Get()
	res.WOFF, _ = savedWOFF.Get()
	res.PNG, _ = pngs.Get()
	gg, _ := glyphs.Get()
	for _, gl := range gg {
		if gl.Degraded() {
			res.Degraded = append(res.Degraded, gl)
		}
	}
	tracer().Infof("build of %s done: %v", b.inputDir, g.Completed())
	return res, nil
}

// fail attaches task and file to err. Cancellation is passed on unchanged.
func (b *build) fail(ctx context.Context, task string, kind iconfont.ErrorKind, file string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	return iconfont.AsBuildError(err, kind, task, file)
}

// --- Tasks -----------------------------------------------------------------

func (b *build) loadManifest(ctx context.Context) (*iconfont.Manifest, error) {
	path := filepath.Join(b.inputDir, b.opts.manifestName)
	m, err := iconfont.LoadManifestFile(path)
	if err != nil {
		return nil, b.fail(ctx, TaskLoadManifest, iconfont.ManifestError, path, err)
	}
	tracer().Infof("font %q: %d glyphs, formats %v", m.ID, len(m.Charmap), m.OutputFormats)
	return m, nil
}

func (b *build) normalizeGlyphs(ctx context.Context, m *iconfont.Manifest) ([]glyph.NormalizedGlyph, error) {
	metrics := m.Metrics()
	glyphs, err := orderedMap(ctx, b.opts.concurrency, m.Charmap,
		func(ctx context.Context, _ int, spec iconfont.GlyphSpec) (glyph.NormalizedGlyph, error) {
			return b.normalizer.NormalizeFile(ctx, metrics, b.inputDir, spec)
		})
	if err != nil {
		return nil, b.fail(ctx, TaskNormalizeGlyphs, iconfont.OptimizationFailed, "", err)
	}
	for _, g := range glyphs {
		if g.Degraded() {
			tracer().Infof("glyph %s is degraded: %s", g.File, g.Diagnostic)
		}
	}
	return glyphs, nil
}

// convertToPNG rasterizes every raw glyph file at every PNG scale.
func (b *build) convertToPNG(ctx context.Context, m *iconfont.Manifest) ([]string, error) {
	if !m.Wants(iconfont.FormatPNG) {
		return nil, nil
	}
	images := filepath.Join(b.outputDir, ImagesDir)
	if err := b.out.ensureDir(images); err != nil {
		return nil, b.fail(ctx, TaskConvertToPNG, iconfont.IOError, images, err)
	}
	perGlyph, err := orderedMap(ctx, b.opts.concurrency, m.Charmap,
		func(ctx context.Context, _ int, spec iconfont.GlyphSpec) ([]string, error) {
			return b.rasterizeGlyph(ctx, images, spec, m.PNGScales)
		})
	if err != nil {
		return nil, b.fail(ctx, TaskConvertToPNG, iconfont.IOError, "", err)
	}
	var paths []string
	for _, p := range perGlyph {
		paths = append(paths, p...)
	}
	tracer().Debugf("wrote %d PNG previews", len(paths))
	return paths, nil
}

func (b *build) rasterizeGlyph(ctx context.Context, images string, spec iconfont.GlyphSpec,
	scales []int) ([]string, error) {
	//
	src := filepath.Join(b.inputDir, spec.File)
	raw, err := os.ReadFile(src)
	if err != nil {
		return nil, &iconfont.BuildError{Kind: iconfont.IOError, File: src, Err: err}
	}
	paths := make([]string, 0, len(scales))
	for _, scale := range scales {
		png, err := b.rasterizer.Rasterize(ctx, raw, scale, scale)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			return nil, &iconfont.BuildError{
				Kind: iconfont.EncodingFailed,
				File: src,
				Err:  fmt.Errorf("rasterizing at %dpx: %w", scale, err),
			}
		}
		name := spec.BaseName() + "_" + spec.Unicode.String() + "." + strconv.Itoa(scale) + ".png"
		path := filepath.Join(images, name)
		if err := b.out.write(path, png); err != nil {
			return nil, &iconfont.BuildError{Kind: iconfont.IOError, File: path, Err: err}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// save writes the result of an encoding task, if format is requested.
func (b *build) save(ctx context.Context, task string, m *iconfont.Manifest, format iconfont.Format,
	data *taskgraph.Future[[]byte]) (string, error) {
	//
	if !m.Wants(format) {
		tracer().Debugf("%s: format %s not requested", task, format)
		return "", nil
	}
	font, err := data.Get()
	if err != nil {
		return "", err
	}
	path := filepath.Join(b.outputDir, m.ID+"."+format)
	if err := b.out.write(path, font); err != nil {
		return "", b.fail(ctx, task, iconfont.IOError, path, err)
	}
	tracer().Infof("wrote %s (%d bytes)", path, len(font))
	return path, nil
}
