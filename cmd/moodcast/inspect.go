package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soniclens/moodcast/predictor"
)

func newInspectCmd() *cobra.Command {
	var bundlePath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a bundle's training metadata",
		Long: `Prints the human-readable metadata sidecar written next to the bundle.
The sidecar is loadable on its own, so inspection never deserializes the models.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(predictor.MetadataPath(bundlePath))
			if err != nil {
				return fmt.Errorf("failed to read metadata sidecar: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "bundle.json", "path to a trained model bundle")

	return cmd
}
