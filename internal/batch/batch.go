package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/lehigh-university-libraries/contactsheet/internal/collage"
)

var (
	// ErrBootstrapped means the input root did not exist and was created
	// empty. There is nothing to process until it is populated.
	ErrBootstrapped = errors.New("input folder created")

	// ErrNoSubfolders means the input root holds no subfolders.
	ErrNoSubfolders = errors.New("no subfolders found")
)

// Runner turns every subfolder of InputRoot into <OutputRoot>/<name>.jpg.
type Runner struct {
	InputRoot   string
	OutputRoot  string
	Layout      collage.Layout // Rows is recomputed per subfolder
	Concurrency int
	Logger      *slog.Logger
}

// FolderResult is the outcome for one subfolder.
type FolderResult struct {
	Name    string
	Path    string
	Output  string
	Images  int
	Rows    int
	Skipped bool
	Result  *collage.Result
	Plan    []PlannedImage
	Err     error
}

// PlannedImage describes an image found during a dry run.
type PlannedImage struct {
	Path        string
	Width       int
	Height      int
	Format      string
	Orientation collage.Orientation // as stored, before bar removal and auto-orient
	Err         error
}

// Summary collects the results of a run.
type Summary struct {
	InputRoot  string
	OutputRoot string
	DryRun     bool
	Folders    []FolderResult
}

// Generated counts collages that were written.
func (s *Summary) Generated() int {
	n := 0
	for _, f := range s.Folders {
		if !f.Skipped && f.Err == nil && f.Result != nil {
			n++
		}
	}
	return n
}

// Failed returns the subfolders whose collage could not be produced.
func (s *Summary) Failed() []FolderResult {
	var out []FolderResult
	for _, f := range s.Folders {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run builds one collage per subfolder. A folder that fails is recorded in
// the summary and the run moves on to the next one.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	check := r.Layout
	check.Rows = 1
	if err := check.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	summary, err := r.discover()
	if err != nil {
		return summary, err
	}

	if err := os.MkdirAll(r.OutputRoot, 0755); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}

	log := r.logger()
	total := len(summary.Folders)
	for i := range summary.Folders {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		f := &summary.Folders[i]
		log.Info("Processing folder", "progress", fmt.Sprintf("%d/%d", i+1, total), "folder", f.Name)

		if f.Skipped {
			if f.Err != nil {
				log.Error("Failed to read folder", "folder", f.Name, "error", f.Err)
			} else {
				log.Warn("No images found, skipping", "folder", f.Name)
			}
			continue
		}

		log.Info("Grid layout", "folder", f.Name, "images", f.Images, "cols", r.Layout.Columns, "rows", f.Rows, "cells", r.Layout.Columns*f.Rows)

		layout := r.Layout
		layout.Rows = f.Rows
		c, err := collage.New(layout, collage.WithLogger(log.With("folder", f.Name)), collage.WithConcurrency(r.Concurrency))
		if err != nil {
			return summary, err
		}

		f.Result, f.Err = c.ComposeFolder(ctx, f.Path, f.Output)
		if errors.Is(f.Err, context.Canceled) || errors.Is(f.Err, context.DeadlineExceeded) {
			return summary, f.Err
		}
		if f.Err != nil {
			f.Err = fmt.Errorf("folder %s: %w", f.Name, f.Err)
			log.Error("Failed to create collage", "folder", f.Name, "error", f.Err)
			continue
		}
		log.Info("Saved collage", "folder", f.Name, "output", f.Output)
	}

	return summary, nil
}

// Plan discovers subfolders and reads image headers without writing anything.
func (r *Runner) Plan(ctx context.Context) (*Summary, error) {
	summary, err := r.discoverExisting()
	if err != nil {
		return summary, err
	}
	summary.DryRun = true

	for i := range summary.Folders {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		f := &summary.Folders[i]
		paths, err := collage.ListImages(f.Path)
		if err != nil {
			f.Err = fmt.Errorf("folder %s: %w", f.Name, err)
			continue
		}
		for _, p := range paths {
			pi := PlannedImage{Path: p}
			cfg, format, err := collage.DecodeConfig(p)
			if err != nil {
				pi.Err = err
			} else {
				pi.Width, pi.Height, pi.Format = cfg.Width, cfg.Height, format
				pi.Orientation = collage.Classify(cfg.Width, cfg.Height)
			}
			f.Plan = append(f.Plan, pi)
		}
	}

	return summary, nil
}

// discover creates the input root on first use, then lists subfolders.
func (r *Runner) discover() (*Summary, error) {
	if _, err := os.Stat(r.InputRoot); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(r.InputRoot, 0755); err != nil {
			return nil, fmt.Errorf("failed to create input directory: %w", err)
		}
		r.logger().Info("Created input folder", "path", r.InputRoot)
		return &Summary{InputRoot: r.InputRoot, OutputRoot: r.OutputRoot}, ErrBootstrapped
	}
	return r.discoverExisting()
}

func (r *Runner) discoverExisting() (*Summary, error) {
	summary := &Summary{InputRoot: r.InputRoot, OutputRoot: r.OutputRoot}

	entries, err := os.ReadDir(r.InputRoot)
	if err != nil {
		return summary, fmt.Errorf("failed to read input directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return summary, fmt.Errorf("%w in %s", ErrNoSubfolders, r.InputRoot)
	}
	sort.Strings(names)

	r.logger().Info("Found subfolders to process", "count", len(names))

	for _, name := range names {
		path := filepath.Join(r.InputRoot, name)
		f := FolderResult{
			Name:   name,
			Path:   path,
			Output: filepath.Join(r.OutputRoot, name+".jpg"),
		}

		images, err := collage.ListImages(path)
		if err != nil {
			f.Err = fmt.Errorf("folder %s: %w", name, err)
			f.Skipped = true
		} else if len(images) == 0 {
			f.Skipped = true
		} else {
			f.Images = len(images)
			f.Rows = collage.RowsFor(f.Images, r.Layout.Columns)
		}
		summary.Folders = append(summary.Folders, f)
	}

	return summary, nil
}
