/*
Command iconfont-tools builds icon fonts and inspects the fonts it builds.

	iconfont-tools build <input-dir> <output-dir> [--concurrency N] [--verbose]
	iconfont-tools inspect <font> [--manifest <input-dir>]
	iconfont-tools explore <font>

`inspect` and `explore` accept TrueType, WOFF and EOT files.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

// tracer traces with key 'iconfont.tools'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.tools")
}

// traceKeys are the tracers of the build, set to a common level.
var traceKeys = []string{
	"iconfont",
	"iconfont.tools",
	"iconfont.pipeline",
	"iconfont.tasks",
	"iconfont.glyph",
	"iconfont.svg",
	"iconfont.compose",
	"iconfont.encode",
	"iconfont.sfnt",
	"iconfont.woff",
	"iconfont.eot",
	"iconfont.raster",
	"iconfont.fonts",
}

func main() {
	initDisplay()
	if err := initTracing("Error"); err != nil {
		fatalf("error configuring tracing: %v", err)
	}

	commando.
		SetExecutableName("iconfont-tools").
		SetVersion("v0.1.0").
		SetDescription("Build icon fonts from SVG glyphs and inspect the results.")

	commando.
		Register("build").
		SetDescription("Build an icon font from an input directory containing config.json and glyph SVGs.").
		SetShortDescription("build an icon font").
		AddArgument("input", "input directory", "").
		AddArgument("output", "output directory", "").
		AddFlag("concurrency,c", "number of glyphs processed concurrently (0 = number of CPUs)", commando.Int, 0).
		AddFlag("verbose,V", "display tracing output", commando.Bool, nil).
		SetAction(runBuildCommand)

	commando.
		Register("inspect").
		SetDescription("Print table information for a TTF, WOFF or EOT font, and its coverage of a manifest.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "font file path", "").
		AddFlag("manifest,m", "input directory with config.json to check coverage against", commando.String, "-").
		SetAction(runInspectCommand)

	commando.
		Register("explore").
		SetDescription("Explore a font interactively.").
		SetShortDescription("interactive font explorer").
		AddArgument("font", "font file path", "").
		SetAction(runExploreCommand)

	commando.Parse(nil)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Warning.Prefix = pterm.Prefix{
		Text:  " Warn",
		Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// initTracing routes all tracers to Go's log package at the given level.
func initTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// verbose switches all tracers of the build to level Info.
func verbose() {
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(tracing.LevelInfo)
	}
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "iconfont-tools: "+format+"\n", args...)
	os.Exit(1)
}
