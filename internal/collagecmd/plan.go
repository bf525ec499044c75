package collagecmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/contactsheet/internal/batch"
	"github.com/lehigh-university-libraries/contactsheet/internal/report"
	"github.com/spf13/cobra"
)

// NewPlanCmd creates the plan command
func NewPlanCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what each subfolder would produce without writing anything",
		Long: `List every subfolder of the input root with its image count, grid size and
the dimensions and orientation of each image. Only image headers are read,
and no files or folders are created.

Dimensions and orientation are those stored in the file, before black bar
removal and EXIF auto-orientation. An image listed as portrait can still be
rotated once its bars are trimmed.`,
		Example: `  contactsheet plan
  contactsheet plan --input ./shoots --cols 4 --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executePlan(cmd.Context(), o, cmd.OutOrStdout())
		},
	}
}

func executePlan(ctx context.Context, o *Options, out io.Writer) error {
	layout, err := o.Layout()
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		InputRoot:  o.Input,
		OutputRoot: o.Output,
		Layout:     layout,
		Logger:     slog.Default(),
	}

	summary, err := runner.Plan(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan: %w", err)
	}

	return report.Write(out, report.FromSummary(summary, layout.Columns), o.Format)
}
