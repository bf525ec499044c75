package cmd

import (
	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/contactsheet/internal/collagecmd"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	opts := &collagecmd.Options{}

	cmd := &cobra.Command{
		Use:   "contactsheet",
		Short: "Contact-sheet collage builder for folders of images",
		Long: `Contactsheet turns every subfolder of an input folder into one JPEG contact sheet.

Images are trimmed of black letterbox bars, landscape images are rotated to
portrait, and everything is scaled into a bordered grid of equal cells.
Run it with no arguments to process your_images/ into output_images/.`,
		Example: `  # Build one collage per subfolder of your_images/
  contactsheet

  # Four columns of larger cells, keeping black bars
  contactsheet --cols 4 --cell-width 300 --cell-height 420 --no-bars

  # Machine-readable summary
  contactsheet --format json --concurrency 4`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			opts.Setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return collagecmd.ExecuteBatch(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	opts.Register(cmd)

	// Add subcommands
	cmd.AddCommand(collagecmd.NewComposeCmd(opts))
	cmd.AddCommand(collagecmd.NewPlanCmd(opts))

	return cmd
}
