package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/pipeline"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runBuildCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	input := strings.TrimSpace(args["input"].Value)
	output := strings.TrimSpace(args["output"].Value)
	if input == "" || output == "" {
		fatalf("input and output directories are required")
	}
	if mustFlagBool(flags["verbose"], "verbose") {
		verbose()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := pipeline.Build(ctx, input, output,
		pipeline.WithConcurrency(mustFlagInt(flags["concurrency"], "concurrency")))
	if err != nil {
		fatalf("%v", err)
	}
	printBuildResult(res)
}

func printBuildResult(res *pipeline.BuildResult) {
	data := buildResultTable(res)
	if len(data) == 1 {
		pterm.Info.Println("no font formats requested")
	} else {
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	if len(res.PNG) > 0 {
		pterm.Info.Printf("wrote %d PNG previews\n", len(res.PNG))
	}
	for _, g := range res.Degraded {
		pterm.Warning.Printf("%s (%s): %s\n", g.File, g.Unicode.String(), g.Diagnostic)
	}
}

// buildResultTable lists the written font files in build order, with a
// header row.
func buildResultTable(res *pipeline.BuildResult) [][]string {
	data := [][]string{
		{"Format", "File", "Size"},
	}
	paths := res.Paths()
	for _, format := range iconfont.FontFormats {
		path, ok := paths[format]
		if !ok {
			continue
		}
		size := "?"
		if fi, err := os.Stat(path); err == nil {
			size = fmt.Sprintf("%d", fi.Size())
		}
		data = append(data, []string{strings.ToUpper(format), path, size})
	}
	return data
}
