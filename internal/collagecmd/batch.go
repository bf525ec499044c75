package collagecmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/contactsheet/internal/batch"
	"github.com/lehigh-university-libraries/contactsheet/internal/report"
)

// ExecuteBatch builds one collage per subfolder of the input root and prints
// a summary to out. It fails when any folder could not be turned into a
// collage.
func ExecuteBatch(ctx context.Context, o *Options, out io.Writer) error {
	layout, err := o.Layout()
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		InputRoot:   o.Input,
		OutputRoot:  o.Output,
		Layout:      layout,
		Concurrency: o.Concurrency,
		Logger:      slog.Default(),
	}

	slog.Info("Starting collage run", "input", o.Input, "output", o.Output, "concurrency", o.Concurrency)

	summary, err := runner.Run(ctx)
	switch {
	case errors.Is(err, batch.ErrBootstrapped):
		printFirstRun(out, o.Input)
		return nil
	case errors.Is(err, batch.ErrNoSubfolders):
		fmt.Fprintf(out, "No subfolders found in %s\n", o.Input)
		fmt.Fprintf(out, "Create a subfolder per collage and put your images in it.\n")
		return nil
	case err != nil && summary == nil:
		return err
	}

	if werr := report.Write(out, report.FromSummary(summary, layout.Columns), o.Format); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}

	if failed := summary.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d folder(s) failed", len(failed), len(summary.Folders))
	}
	return nil
}

func printFirstRun(out io.Writer, input string) {
	fmt.Fprintf(out, "Created input folder: %s\n\n", input)
	fmt.Fprintf(out, "Put each set of images in its own subfolder, for example:\n")
	fmt.Fprintf(out, "  %s/vacation/photo1.jpg\n", input)
	fmt.Fprintf(out, "  %s/vacation/photo2.png\n\n", input)
	fmt.Fprintf(out, "Supported formats: %s\n", supportedFormats())
	fmt.Fprintf(out, "Then run contactsheet again.\n")
}
