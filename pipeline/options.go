package pipeline

import (
	"runtime"

	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/encode"
	"github.com/npillmayer/iconfont/raster"
	"github.com/npillmayer/iconfont/svgdoc"
)

// Option configures a build.
//
//	res, err := pipeline.Build(ctx, "icons", "out",
//		pipeline.WithConcurrency(4),
//		pipeline.WithEncoders(myEncoders))
type Option func(*options)

type options struct {
	concurrency  int
	optimizer    svgdoc.Optimizer
	parser       svgdoc.Parser
	encoders     encode.Encoders
	rasterizer   raster.Rasterizer
	manifestName string
}

func defaultOptions() options {
	return options{
		concurrency:  runtime.NumCPU(),
		manifestName: iconfont.ManifestFile,
	}
}

// WithConcurrency limits the number of glyphs normalized or rasterized at
// the same time. If n <= 0, runtime.NumCPU() is used.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		o.concurrency = n
	}
}

// WithOptimizer sets the SVG optimizer applied to every glyph.
// If nil, svgdoc.NewOptimizer() is used.
func WithOptimizer(opt svgdoc.Optimizer) Option {
	return func(o *options) {
		o.optimizer = opt
	}
}

// WithParser sets the SVG parser for glyph files and PNG previews.
func WithParser(p svgdoc.Parser) Option {
	return func(o *options) {
		o.parser = p
	}
}

// WithEncoders sets the binary font encoders. If nil, encode.Default() is
// used.
func WithEncoders(enc encode.Encoders) Option {
	return func(o *options) {
		o.encoders = enc
	}
}

// WithRasterizer sets the rasterizer for PNG previews.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(o *options) {
		o.rasterizer = r
	}
}

// WithManifestName sets the file name of the manifest within the input
// directory. The default is "config.json".
func WithManifestName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.manifestName = name
		}
	}
}
