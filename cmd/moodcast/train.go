package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soniclens/moodcast/algorithms/regress"
	"github.com/soniclens/moodcast/dataset"
	"github.com/soniclens/moodcast/predictor"
	"github.com/soniclens/moodcast/predictor/config"
)

func newTrainCmd() *cobra.Command {
	var (
		inputPath string
		outPath   string
		modelType string
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a model bundle from a tag/feature CSV corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultTrainingConfig()
			switch modelType {
			case "forest":
				cfg.ModelType = regress.ModelForest
			case "ridge":
				cfg.ModelType = regress.ModelRidge
			default:
				return fmt.Errorf("unknown model type %q (want forest or ridge)", modelType)
			}

			rows, err := dataset.LoadCSV(inputPath, cfg.Features)
			if err != nil {
				return err
			}

			bundle, err := predictor.NewTrainer(cfg).Train(rows)
			if err != nil {
				return err
			}

			if err := bundle.Save(outPath); err != nil {
				return err
			}

			fmt.Printf("Trained bundle %s (%d features, %d skipped)\n",
				bundle.ID, len(bundle.Models), len(bundle.Metadata.Skipped))
			for feature, report := range bundle.Metadata.PerFeature {
				fmt.Printf("  %-18s rows=%-6d mae=%.4f r2=%.4f\n",
					feature, report.Rows, report.MAE, report.R2)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to the training CSV (required)")
	cmd.Flags().StringVar(&outPath, "out", "bundle.json", "output path for the model bundle")
	cmd.Flags().StringVar(&modelType, "model", "forest", "regressor type: forest or ridge")
	cmd.MarkFlagRequired("input")

	return cmd
}
