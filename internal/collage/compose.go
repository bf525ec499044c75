package collage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// ErrNoImages is returned when a folder has no supported image files.
var ErrNoImages = errors.New("no images found")

// Composer lays images out on a bordered grid.
type Composer struct {
	layout      Layout
	logger      *slog.Logger
	concurrency int
	decode      Decoder
	captureTime func(path string) (time.Time, error)
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger used for progress reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// WithConcurrency sets how many images are decoded and scaled at once.
// Placement order does not depend on it.
func WithConcurrency(n int) Option {
	return func(c *Composer) {
		c.concurrency = n
	}
}

// WithDecoder replaces the file decoder.
func WithDecoder(d Decoder) Option {
	return func(c *Composer) {
		c.decode = d
	}
}

// New creates a composer for the given layout
func New(layout Layout, opts ...Option) (*Composer, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	c := &Composer{
		layout:      layout,
		logger:      slog.Default(),
		concurrency: 1,
		decode:      FileDecoder(layout.AutoOrient),
		captureTime: CaptureTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// ComposeFolder builds a collage from the supported images directly inside
// dir and writes it to outputFile as a JPEG.
func (c *Composer) ComposeFolder(ctx context.Context, dir, outputFile string) (*Result, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}

	canvas, res, err := c.Compose(ctx, paths)
	if err != nil {
		return nil, err
	}

	if err := Save(outputFile, canvas, c.layout.Quality); err != nil {
		return res, err
	}

	c.logger.Info("Collage saved", "path", outputFile, "placed", res.Placed, "failed", res.Failed, "dropped", res.Dropped)
	return res, nil
}

// Compose places paths, sorted lexicographically, into the grid row by row
// and returns the finished canvas. Images that fail to decode are recorded
// and do not take a cell. Images beyond the grid capacity are dropped.
// The canvas is always CanvasSize() regardless of how many cells are filled.
func (c *Composer) Compose(ctx context.Context, paths []string) (*image.NRGBA, *Result, error) {
	l := c.layout
	sorted := slices.Clone(paths)
	slices.Sort(sorted)

	gridSize := l.GridSize()
	canvasSize := l.CanvasSize()
	grid := imaging.New(gridSize.X, gridSize.Y, l.BorderColor)

	res := &Result{
		Width:    canvasSize.X,
		Height:   canvasSize.Y,
		Capacity: l.Capacity(),
		Outcomes: make([]Outcome, 0, len(sorted)),
	}

	c.logger.Info("Creating collage",
		"images", len(sorted),
		"grid", fmt.Sprintf("%dx%d", l.Columns, l.Rows),
		"canvas_size", fmt.Sprintf("%dx%d", canvasSize.X, canvasSize.Y),
		"grid_size", fmt.Sprintf("%dx%d", gridSize.X, gridSize.Y),
		"margin", l.OuterMargin,
		"border", l.BorderWidth,
		"padding", l.CellPadding,
		"remove_bars", l.RemoveBars)

	next := 0
	for next < len(sorted) && res.Placed < res.Capacity {
		// Never prepare more images than there are free cells; failures
		// leave cells open for the next batch.
		end := min(next+res.Capacity-res.Placed, len(sorted))
		jobs, err := c.prepareBatch(ctx, sorted[next:end])
		if err != nil {
			return nil, nil, err
		}

		for i, j := range jobs {
			path := sorted[next+i]
			if j.err != nil {
				c.logger.Error("Failed to process image", "path", path, "error", j.err)
				res.record(Outcome{Path: path, Status: StatusFailed, Cell: -1, Err: j.err})
				continue
			}

			idx := res.Placed
			row, col := l.CellPosition(idx)
			cell := j.prepared.Cell
			xdraw.Copy(grid, l.CellOrigin(idx), cell, cell.Bounds(), xdraw.Src, nil)

			res.record(Outcome{
				Path:        path,
				Status:      StatusPlaced,
				Cell:        idx,
				Row:         row,
				Col:         col,
				Orientation: j.prepared.Orientation,
				Original:    j.prepared.Original,
				Trimmed:     j.prepared.Trimmed,
				Rotated:     j.prepared.Rotated,
				CapturedAt:  j.captured,
			})
			c.logger.Info("Placed image",
				"progress", fmt.Sprintf("%d/%d", res.Placed, res.Capacity),
				"file", filepath.Base(path),
				"orientation", j.prepared.Orientation.String(),
				"size", fmt.Sprintf("%dx%d", j.prepared.Original.X, j.prepared.Original.Y))
		}
		next = end
	}

	for _, path := range sorted[next:] {
		res.record(Outcome{Path: path, Status: StatusDropped, Cell: -1})
	}
	if res.Dropped > 0 {
		c.logger.Warn("Grid is full, skipped remaining images", "dropped", res.Dropped, "capacity", res.Capacity)
	}

	canvas := imaging.New(canvasSize.X, canvasSize.Y, color.White)
	xdraw.Copy(canvas, image.Pt(l.OuterMargin, l.OuterMargin), grid, grid.Bounds(), xdraw.Src, nil)

	return canvas, res, nil
}

type job struct {
	prepared Prepared
	captured time.Time
	err      error
}

// prepareBatch renders paths into cells using up to c.concurrency workers.
// Results are returned in input order.
func (c *Composer) prepareBatch(ctx context.Context, paths []string) ([]job, error) {
	jobs := make([]job, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			jobs[i] = c.prepareOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Composer) prepareOne(path string) job {
	j := c.render(path)
	if j.err == nil {
		j.captured = c.capturedAt(path)
	}
	return j
}

func (c *Composer) render(path string) (j job) {
	defer func() {
		if r := recover(); r != nil {
			j = job{err: fmt.Errorf("panic while processing image: %v", r)}
		}
	}()

	img, err := c.decode(path)
	if err != nil {
		return job{err: fmt.Errorf("failed to decode image: %w", err)}
	}

	name := filepath.Base(path)
	p := Prepare(img, c.layout)
	if p.Trimmed > 0 {
		c.logger.Info("Removed black bars", "file", name, "rows", p.Trimmed)
	}
	if p.Rotated {
		c.logger.Info("Rotated landscape image 90° clockwise", "file", name)
	}

	return job{prepared: p}
}

// capturedAt returns the EXIF capture time, or the zero time when it cannot
// be read. It never fails the image.
func (c *Composer) capturedAt(path string) (t time.Time) {
	name := filepath.Base(path)
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Failed to read EXIF capture time", "file", name, "error", r)
			t = time.Time{}
		}
	}()

	t, err := c.captureTime(path)
	if err != nil {
		c.logger.Debug("No EXIF capture time", "file", name, "error", err)
		return time.Time{}
	}
	return t
}
