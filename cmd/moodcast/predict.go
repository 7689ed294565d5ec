package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soniclens/moodcast/predictor"
)

func newPredictCmd() *cobra.Command {
	var (
		bundlePath string
		tags       string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict features and mood for a comma-delimited tag set",
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := predictor.LoadPath(bundlePath)
			if err != nil {
				return err
			}

			result := handle.PredictString(tags)

			if result.Confidence == 0 {
				fmt.Println("Insufficient tag data: no input tag is in the model vocabulary")
				return nil
			}

			for _, feature := range handle.Features() {
				fmt.Printf("  %-18s %.4f\n", feature, result.Features[feature])
			}
			fmt.Printf("  confidence         %.2f\n", result.Confidence)

			if mood, err := predictor.MoodOf(result.Features); err == nil {
				fmt.Printf("  mood               %s (%s)\n", mood, mood.Description())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "bundle.json", "path to a trained model bundle")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-delimited tags, e.g. \"rock, melancholic\" (required)")
	cmd.MarkFlagRequired("tags")

	return cmd
}
