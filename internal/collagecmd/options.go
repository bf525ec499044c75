package collagecmd

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/contactsheet/internal/collage"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
)

const (
	defaultInput  = "your_images"
	defaultOutput = "output_images"
)

// Options holds the flags shared by every command.
type Options struct {
	Input       string
	Output      string
	Concurrency int
	Format      string
	Verbose     bool

	cols        int
	cellWidth   int
	cellHeight  int
	border      int
	borderColor string
	padding     int
	margin      int
	noBars      bool
	threshold   float64
	quality     int
	autoOrient  bool
}

// Register adds the shared flags to cmd as persistent flags.
func (o *Options) Register(cmd *cobra.Command) {
	d := collage.DefaultLayout()
	flags := cmd.PersistentFlags()

	flags.StringVar(&o.Input, "input", "", "Input root with one subfolder per collage (defaults to $CONTACTSHEET_INPUT or "+defaultInput+")")
	flags.StringVar(&o.Output, "output", "", "Output folder for collages (defaults to $CONTACTSHEET_OUTPUT or "+defaultOutput+")")
	flags.IntVar(&o.Concurrency, "concurrency", 1, "Number of images prepared in parallel")
	flags.StringVar(&o.Format, "format", "text", "Summary format (text, yaml, json)")
	flags.BoolVar(&o.Verbose, "verbose", false, "Verbose logging")

	flags.IntVar(&o.cols, "cols", d.Columns, "Number of grid columns")
	flags.IntVar(&o.cellWidth, "cell-width", d.CellWidth, "Cell width in pixels")
	flags.IntVar(&o.cellHeight, "cell-height", d.CellHeight, "Cell height in pixels")
	flags.IntVar(&o.border, "border", d.BorderWidth, "Grid line width in pixels")
	flags.StringVar(&o.borderColor, "border-color", "#000000", "Grid line color as hex (#rgb or #rrggbb)")
	flags.IntVar(&o.padding, "padding", d.CellPadding, "White padding inside each cell")
	flags.IntVar(&o.margin, "margin", d.OuterMargin, "White margin around the grid")
	flags.BoolVar(&o.noBars, "no-bars", false, "Keep black bars at the top and bottom of images")
	flags.Float64Var(&o.threshold, "threshold", d.BarThreshold, "Row brightness at or below which a row counts as a black bar")
	flags.IntVar(&o.quality, "quality", d.Quality, "JPEG quality (1-100)")
	flags.BoolVar(&o.autoOrient, "auto-orient", false, "Apply EXIF orientation before classifying images")
}

// Setup resolves environment fallbacks and configures logging.
// It runs after .env has been loaded.
func (o *Options) Setup() {
	if o.Input == "" {
		o.Input = envOr("CONTACTSHEET_INPUT", defaultInput)
	}
	if o.Output == "" {
		o.Output = envOr("CONTACTSHEET_OUTPUT", defaultOutput)
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Layout builds the collage layout from the flags. Rows is left at the
// default and is recomputed per folder.
func (o *Options) Layout() (collage.Layout, error) {
	l := collage.DefaultLayout()

	c, err := parseHexColor(o.borderColor)
	if err != nil {
		return l, fmt.Errorf("invalid --border-color: %w", err)
	}

	l.Columns = o.cols
	l.CellWidth = o.cellWidth
	l.CellHeight = o.cellHeight
	l.BorderWidth = o.border
	l.BorderColor = c
	l.CellPadding = o.padding
	l.OuterMargin = o.margin
	l.RemoveBars = !o.noBars
	l.BarThreshold = o.threshold
	l.Quality = o.quality
	l.AutoOrient = o.autoOrient
	return l, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseHexColor accepts #rgb and #rrggbb, with or without the leading #.
func parseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("expected #rgb or #rrggbb, got %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func supportedFormats() string {
	exts := make([]string, 0, len(collage.SupportedExtensions))
	for ext := range collage.SupportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
