package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"martianoff/unapplygen/generr"
	"martianoff/unapplygen/internal/batch"
	"martianoff/unapplygen/internal/checker"
	"martianoff/unapplygen/internal/config"
	"martianoff/unapplygen/internal/diag"
	"martianoff/unapplygen/internal/generator"
	"martianoff/unapplygen/internal/genfs"
	"martianoff/unapplygen/internal/manifest"
)

var generateCmd = &cobra.Command{
	Use:   "generate <manifest.yaml>...",
	Short: "Generate pattern units from holder manifests",
	Long: `Generate one Java unit per holder type listed in the given manifests and
write the units below the output directory.

Holder types that fail validation are reported and skipped. The command exits
with an error if any holder failed.

Examples:
  unapplygen generate holders.yaml
  unapplygen generate holders.yaml more.yaml -o src/main/java --stage`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool(config.KeyStage, false, "Add the written units to the git index")
	if err := v.BindPFlag(config.KeyStage, generateCmd.Flags().Lookup(config.KeyStage)); err != nil {
		panic(err)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	units, err := buildUnits(ctx, args)
	if units == nil {
		return err
	}

	if werr := units.Write(ctx, cfg.Output); werr != nil {
		return werr
	}
	logger.Info("units written", "count", units.Len(), "output", cfg.Output)

	if cfg.Stage {
		if serr := units.Stage(cfg.Output); serr != nil {
			return serr
		}
		logger.Info("units staged", "count", units.Len())
	}
	return err
}

// buildUnits runs manifests through the checker and the generator. On
// holder failures it returns the units that could be built together with
// the error.
func buildUnits(ctx context.Context, manifests []string) (*genfs.FS, error) {
	holders, err := manifest.LoadAll(manifests...)
	if err != nil {
		return nil, err
	}

	diags := &diag.Collector{}
	sink := diag.Tee(diag.LogSink{Logger: logger}, diags)

	checked := checker.New(cfg.TupleWord, sink).CheckAll(holders)
	gen := generator.New(cfg.GeneratorOptions(), sink)
	units, err := batch.Run(ctx, checked, gen, batch.Options{Concurrency: cfg.Concurrency, Logger: logger})
	if err != nil {
		if ctx.Err() != nil || generr.TypeOf(err) == generr.TypeDefaultOrigin {
			return nil, err
		}
		logger.Error("generation failed", "error", err)
	}

	if n := diags.Count(diag.Error); n > 0 {
		return units, fmt.Errorf("%d error(s) reported", n)
	}
	if err != nil {
		return units, fmt.Errorf("generation failed: %w", err)
	}
	return units, nil
}
