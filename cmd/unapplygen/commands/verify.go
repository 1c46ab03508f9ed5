package commands

import (
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <manifest.yaml>...",
	Short: "Verify generated units on disk are up to date",
	Long: `Regenerate the units of the given manifests in memory and compare them
with the files below the output directory. Missing or stale units are reported
as a diff.

Examples:
  unapplygen verify holders.yaml -o src/main/java`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	units, err := buildUnits(cmd.Context(), args)
	if err != nil {
		return err
	}
	if err := units.Verify(cmd.Context(), cfg.Output); err != nil {
		return err
	}
	logger.Info("units up to date", "count", units.Len(), "output", cfg.Output)
	return nil
}
