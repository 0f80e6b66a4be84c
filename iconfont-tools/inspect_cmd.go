package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/fontinfo"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runInspectCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	dir, err := flags["manifest"].GetString()
	if err != nil {
		fatalf("invalid --manifest flag: %v", err)
	}
	if err := inspectFont(fontPath, manifestDir(dir)); err != nil {
		fatalf("%v", err)
	}
}

// manifestDir interprets the value of the --manifest flag, where "-" means
// "no manifest".
func manifestDir(flag string) string {
	if flag = strings.TrimSpace(flag); flag == "-" {
		return ""
	}
	return flag
}

// inspectFont prints the tables of a font file and, if dir is not empty, the
// font's coverage of the manifest in dir.
func inspectFont(fontPath, dir string) error {
	f, container, err := loadFontFile(fontPath)
	if err != nil {
		return err
	}
	pterm.Printf("Path: %s\n", fontPath)
	pterm.Printf("Container: %s\n", container)
	printFontInfo(f)
	if dir == "" {
		return nil
	}
	m, err := iconfont.LoadManifest(dir)
	if err != nil {
		return err
	}
	return printCoverage(f, m)
}

func printFontInfo(f *fontinfo.Font) {
	names := fontinfo.NameInfo(f)
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pterm.Printf("%-12s %s\n", k+":", names[k])
	}
	pterm.Printf("Tables (%d): %s\n", len(f.Tags()), strings.Join(f.Tags(), " "))
	if bad := f.VerifyChecksums(); len(bad) > 0 {
		pterm.Warning.Printf("checksum mismatch in tables %v\n", bad)
	}
	data := [][]string{{"Table", "Field", "Value"}}
	if head, ok := fontinfo.HeadInfo(f); ok {
		data = append(data,
			[]string{"head", "unitsPerEm", fmt.Sprintf("%d", head.UnitsPerEm)},
			[]string{"head", "revision", fmt.Sprintf("%.3f", head.Revision())},
			[]string{"head", "bbox", fmt.Sprintf("%d %d %d %d", head.XMin, head.YMin, head.XMax, head.YMax)},
		)
		if created := head.CreatedTime(); !created.IsZero() {
			data = append(data, []string{"head", "created", created.Format("2006-01-02 15:04:05")})
		}
	}
	if hhea, ok := fontinfo.HHeaInfo(f); ok {
		data = append(data,
			[]string{"hhea", "ascender", fmt.Sprintf("%d", hhea.Ascender)},
			[]string{"hhea", "descender", fmt.Sprintf("%d", hhea.Descender)},
			[]string{"hhea", "advanceWidthMax", fmt.Sprintf("%d", hhea.AdvanceWidthMax)},
		)
	}
	if maxp, ok := fontinfo.MaxPInfo(f); ok {
		data = append(data,
			[]string{"maxp", "numGlyphs", fmt.Sprintf("%d", maxp.NumGlyphs)},
			[]string{"maxp", "maxPoints", fmt.Sprintf("%d", maxp.MaxPoints)},
			[]string{"maxp", "maxContours", fmt.Sprintf("%d", maxp.MaxContours)},
		)
	}
	if os2, ok := fontinfo.OS2Info(f); ok {
		data = append(data,
			[]string{"OS/2", "version", fmt.Sprintf("%d", os2.Version)},
			[]string{"OS/2", "vendor", os2.VendorID},
			[]string{"OS/2", "weightClass", fmt.Sprintf("%d", os2.WeightClass)},
			[]string{"OS/2", "charIndex", fmt.Sprintf("U+%04X..U+%04X", os2.FirstCharIndex, os2.LastCharIndex)},
		)
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printCoverage checks every code-point of a manifest's charmap against the
// font's cmap.
func printCoverage(f *fontinfo.Font, m *iconfont.Manifest) error {
	var codepoints []rune
	for _, spec := range m.Charmap {
		codepoints = append(codepoints, spec.Unicode.Codepoints()...)
	}
	missing, err := fontinfo.Coverage(f, codepoints)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		pterm.Success.Printf("all %d code-points of font %q are mapped\n", len(codepoints), m.ID)
		return nil
	}
	for _, r := range missing {
		pterm.Error.Printf("code-point U+%04X is not mapped\n", r)
	}
	return nil
}
