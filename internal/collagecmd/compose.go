package collagecmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/contactsheet/internal/collage"
	"github.com/lehigh-university-libraries/contactsheet/internal/report"
	"github.com/spf13/cobra"
)

// NewComposeCmd creates the compose command for a single folder
func NewComposeCmd(o *Options) *cobra.Command {
	var rows int
	var outputFile string

	cmd := &cobra.Command{
		Use:   "compose <folder>",
		Short: "Build one collage from a single folder",
		Long: `Build a contact sheet from the images directly inside one folder.

Images are placed in filename order, row by row. Rows default to as many as
the images need for the configured number of columns.`,
		Example: `  # Collage of a single folder into output_images/trip.jpg
  contactsheet compose your_images/trip

  # Three rows of four, written to a specific file
  contactsheet compose ./scans --cols 4 --rows 3 --out scans.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeCompose(cmd.Context(), o, args[0], rows, outputFile, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "Number of grid rows (0 fits all images)")
	cmd.Flags().StringVar(&outputFile, "out", "", "Output JPEG path (defaults to <output>/<folder>.jpg)")

	return cmd
}

func executeCompose(ctx context.Context, o *Options, folder string, rows int, outputFile string, out io.Writer) error {
	layout, err := o.Layout()
	if err != nil {
		return err
	}

	paths, err := collage.ListImages(folder)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w in %s", collage.ErrNoImages, folder)
	}

	if rows > 0 {
		layout.Rows = rows
	} else {
		layout = layout.WithRowsFor(len(paths))
	}

	name := filepath.Base(filepath.Clean(folder))
	if outputFile == "" {
		outputFile = filepath.Join(o.Output, name+".jpg")
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	slog.Info("Grid layout", "folder", name, "images", len(paths), "cols", layout.Columns, "rows", layout.Rows, "cells", layout.Capacity())

	c, err := collage.New(layout, collage.WithLogger(slog.Default().With("folder", name)), collage.WithConcurrency(o.Concurrency))
	if err != nil {
		return err
	}

	res, err := c.ComposeFolder(ctx, folder, outputFile)
	if err != nil {
		return err
	}

	return report.Write(out, report.FromResult(name, outputFile, layout, res), o.Format)
}
