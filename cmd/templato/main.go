package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/isaacnfairplay/template-to-json/internal/export"
	"github.com/isaacnfairplay/template-to-json/internal/geometry"
	"github.com/isaacnfairplay/template-to-json/internal/grid"
	"github.com/isaacnfairplay/template-to-json/internal/lattice"
	"github.com/isaacnfairplay/template-to-json/internal/raster"
	"github.com/isaacnfairplay/template-to-json/internal/template"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var log = logrus.New()

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("TEMPLATO_LOG_LEVEL") == "debug" {
		log.SetLevel(logrus.DebugLevel)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("templato %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		usage()
		return
	case "extract":
		if err := runExtract(os.Args[2:]); err != nil {
			log.Fatalf("extract: %v", err)
		}
	case "synthesize-circles":
		if err := runSynthesize(os.Args[2:]); err != nil {
			log.Fatalf("synthesize-circles: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("templato - label grid template extraction and synthesis")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  templato extract <image> [flags]           Infer a template from a rasterized page")
	fmt.Println("  templato synthesize-circles <layout> [flags]  Generate a circle lattice template")
	fmt.Println()
	fmt.Println("Common flags:")
	fmt.Println("  --json PATH          JSON output path")
	fmt.Println("  --csv PATH           CSV center list output path")
	fmt.Println("  --coord-space SPACE  percent_width | points | inches | mm")
	fmt.Println()
	fmt.Println("Run either command with -h for its full flag list.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  TEMPLATO_LOG_LEVEL=debug    Enable debug logging")
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	dpi := fs.Int("dpi", 300, "raster resolution of the source image in dots per inch")
	jsonPath := fs.String("json", "", "JSON output path (default: source path with .json suffix when no output flag is given)")
	csvPath := fs.String("csv", "", "optional CSV output path for the center list")
	coordSpace := fs.String("coord-space", string(template.SpacePercentWidth),
		"coordinate space for exported centers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one source image, got %d arguments", fs.NArg())
	}
	source := fs.Arg(0)

	space, err := parseCoordSpace(*coordSpace)
	if err != nil {
		return err
	}

	page, err := raster.LoadPage(source, *dpi)
	if err != nil {
		return err
	}
	log.Debugf("loaded %s: %gx%g pt at %d dpi", source, page.PageWidthPt, page.PageHeightPt, *dpi)

	observations, err := raster.Detect(page, raster.DefaultConfig())
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		return fmt.Errorf("no label candidates detected in %s", source)
	}
	log.Infof("detected %d candidate shapes", len(observations))

	tmpl, err := grid.Infer(observations, page.PageWidthPt, page.PageHeightPt, grid.DefaultConfig())
	if err != nil {
		return err
	}
	tmpl.Meta = map[string]string{
		"extraction": "raster",
		"dpi":        strconv.Itoa(*dpi),
		"source":     source,
	}
	log.Infof("inferred %dx%d %s grid, dx=%.2fpt dy=%.2fpt",
		tmpl.Rows, tmpl.Cols, tmpl.Kind, tmpl.DXPt, tmpl.DYPt)

	target := *jsonPath
	if target == "" && *csvPath == "" {
		target = defaultJSONPath(source)
	}
	return writeOutputs(tmpl, target, *csvPath, space)
}

func runSynthesize(args []string) error {
	fs := flag.NewFlagSet("synthesize-circles", flag.ExitOnError)
	pageWidth := fs.Float64("page-width", 612, "page width in points")
	pageHeight := fs.Float64("page-height", 792, "page height in points")
	diameter := fs.Float64("diameter", 0, "circle diameter in points (required)")
	margin := fs.Float64("margin", 36, "uniform page margin in points")
	gap := fs.Float64("gap", 0, "extra center-to-center clearance in points")
	maxCols := fs.Int("max-cols", 0, "cap on columns per row (0 = fill the page)")
	maxRows := fs.Int("max-rows", 0, "cap on rows (0 = fill the page)")
	jsonPath := fs.String("json", "", "JSON output path (default: circles-<layout>.json when no output flag is given)")
	csvPath := fs.String("csv", "", "optional CSV output path for the center list")
	coordSpace := fs.String("coord-space", string(template.SpacePercentWidth),
		"coordinate space for exported centers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one layout (%q or %q), got %d arguments",
			geometry.LayoutSimple, geometry.LayoutClose, fs.NArg())
	}
	layout := geometry.CircleLayout(strings.ToLower(fs.Arg(0)))
	if *diameter <= 0 {
		return fmt.Errorf("--diameter is required and must be positive")
	}

	space, err := parseCoordSpace(*coordSpace)
	if err != nil {
		return err
	}

	tmpl, err := lattice.Synthesize(lattice.Params{
		Layout:       layout,
		PageWidthPt:  *pageWidth,
		PageHeightPt: *pageHeight,
		DiameterPt:   *diameter,
		Margins:      lattice.Uniform(*margin),
		GapPt:        *gap,
		MaxCols:      *maxCols,
		MaxRows:      *maxRows,
	})
	if err != nil {
		return err
	}
	log.Infof("synthesized %dx%d %s lattice, %d circles",
		tmpl.Rows, tmpl.Cols, layout, tmpl.CenterCount())

	target := *jsonPath
	if target == "" && *csvPath == "" {
		target = fmt.Sprintf("circles-%s.json", layout)
	}
	return writeOutputs(tmpl, target, *csvPath, space)
}

// writeOutputs writes the JSON document and/or CSV list, logging each file
// it produces.
func writeOutputs(tmpl *template.Template, jsonPath, csvPath string, space template.CoordinateSpace) error {
	if jsonPath != "" {
		if err := export.WriteJSON(tmpl, jsonPath, space); err != nil {
			return err
		}
		log.Infof("wrote %s", jsonPath)
	}
	if csvPath != "" {
		if err := export.WriteCSV(tmpl, csvPath, space); err != nil {
			return err
		}
		log.Infof("wrote %s", csvPath)
	}
	return nil
}

func parseCoordSpace(s string) (template.CoordinateSpace, error) {
	space := template.CoordinateSpace(s)
	for _, known := range template.CoordinateSpaces {
		if space == known {
			return space, nil
		}
	}
	return "", fmt.Errorf("unknown coordinate space %q (expected one of %v)", s, template.CoordinateSpaces)
}

// defaultJSONPath swaps the source extension for .json.
func defaultJSONPath(source string) string {
	if i := strings.LastIndex(source, "."); i > strings.LastIndexByte(source, '/') {
		return source[:i] + ".json"
	}
	return source + ".json"
}
