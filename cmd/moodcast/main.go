/*
Package main is the entry point for the moodcast CLI.

moodcast trains and applies a tag-to-audio-feature predictor: a supervised
model mapping free-text social tags to continuous acoustic feature scores
(danceability, energy, valence, ...) and a categorical mood label.

Usage:

	moodcast [command]

Available Commands:
	train     Fit a model bundle from a tag/feature CSV corpus
	predict   Predict features and mood for a tag set
	inspect   Print a bundle's training metadata

Examples:

	# Train a forest bundle from a corpus
	moodcast train --input "Music Info.csv" --out bundle.json

	# Predict on a comma-delimited tag string
	moodcast predict --bundle bundle.json --tags "rock, melancholic"
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moodcast",
		Short: "Predict acoustic features and mood from free-text music tags",
		Long: `moodcast maps weighted free-text tags (Last.fm style) to continuous
acoustic feature scores with one regression model per feature, and derives a
mood quadrant from the predicted (valence, energy) point.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newTrainCmd())
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
