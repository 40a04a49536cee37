package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"artify/internal/adapters/converter"
	"artify/internal/adapters/file"
	"artify/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	transformInput    string
	transformOutput   string
	transformStyle    string
	transformProvider string
	transformNoShrink bool
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Restyle a single image",
	Args:  cobra.NoArgs,
	RunE:  runTransform,
}

func init() {
	transformCmd.Flags().StringVarP(&transformInput, "input", "i", "", "Input image")
	transformCmd.Flags().StringVarP(&transformStyle, "style", "s", "", "Style identifier, see 'artify styles'")
	transformCmd.Flags().StringVarP(&transformOutput, "output", "o", "", "Output file or directory (default: current directory)")
	transformCmd.Flags().StringVar(&transformProvider, "provider", "", "Override model.provider (gemini, fal)")
	transformCmd.Flags().BoolVar(&transformNoShrink, "no-shrink", false, "Send the image without compressing it first")
	_ = transformCmd.MarkFlagRequired("input")
	_ = transformCmd.MarkFlagRequired("style")
	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, _ []string) error {
	if transformInput == "" || transformStyle == "" {
		return errors.New("both --input and --style are required")
	}

	svc, err := newServices(transformProvider)
	if err != nil {
		return err
	}

	if _, err := svc.styles.Lookup(transformStyle); err != nil {
		return err
	}

	img, err := file.ReadImage(transformInput)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if !transformNoShrink {
		shrunk, err := svc.compressor.Shrink(ctx, img, compressorBudget())
		if err != nil {
			return fmt.Errorf("error compressing image: %w", err)
		}
		img = shrunk.Image
	}

	result, err := svc.bridge.Transform(ctx, domain.TransformRequest{Image: img, Style: transformStyle})
	if err != nil {
		return fmt.Errorf("error transforming image: %w", err)
	}

	out, err := resultImage(ctx, result.TransformedImage)
	if err != nil {
		return err
	}

	path, err := file.WriteImage(transformOutput, out)
	if err != nil {
		return err
	}

	log.Info().Str("style", transformStyle).Str("path", path).Msg("image transformed")
	fmt.Fprintln(cmd.OutOrStdout(), path)

	return nil
}

// resultImage loads the model output, which is either inline or hosted.
func resultImage(ctx context.Context, url string) (domain.EncodedImage, error) {
	if strings.HasPrefix(url, "data:") {
		return domain.ParseEncodedImage(url)
	}

	return file.DownloadImage(ctx, url)
}

// compressorBudget is compressor.max_mb, or the compressor default when unset.
func compressorBudget() float64 {
	if mb := viper.GetFloat64("compressor.max_mb"); mb > 0 {
		return mb
	}
	return converter.DefaultMaxMB
}
