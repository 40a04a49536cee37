package cmd

import (
	"errors"
	"fmt"

	"artify/internal/adapters/converter"
	"artify/internal/adapters/file"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	shrinkInput  string
	shrinkOutput string
	shrinkMaxMB  float64
)

var shrinkCmd = &cobra.Command{
	Use:   "shrink",
	Short: "Compress an image until it fits a size budget",
	Long: `Re-encodes the image as JPEG, lowering quality and dimensions step by
step until its data URI is at most --max-mb megabytes.`,
	Args: cobra.NoArgs,
	RunE: runShrink,
}

func init() {
	shrinkCmd.Flags().StringVarP(&shrinkInput, "input", "i", "", "Input image")
	shrinkCmd.Flags().StringVarP(&shrinkOutput, "output", "o", "", "Output file or directory (default: current directory)")
	shrinkCmd.Flags().Float64Var(&shrinkMaxMB, "max-mb", 0, "Size budget in megabytes (default: compressor.max_mb, else 2)")
	_ = shrinkCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(shrinkCmd)
}

func runShrink(cmd *cobra.Command, _ []string) error {
	if shrinkInput == "" {
		return errors.New("missing input image")
	}

	img, err := file.ReadImage(shrinkInput)
	if err != nil {
		return err
	}

	maxMB := shrinkMaxMB
	if maxMB == 0 {
		maxMB = compressorBudget()
	}

	result, err := converter.NewCompressor().Shrink(cmd.Context(), img, maxMB)
	if err != nil {
		return fmt.Errorf("error compressing image: %w", err)
	}

	path, err := file.WriteImage(shrinkOutput, result.Image)
	if err != nil {
		return err
	}

	log.Info().
		Int("width", result.Width).
		Int("height", result.Height).
		Float64("quality", result.Quality).
		Int("passes", result.Passes).
		Int("size", result.Image.Size()).
		Msg("image compressed")

	fmt.Fprintln(cmd.OutOrStdout(), path)

	return nil
}
