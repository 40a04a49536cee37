package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"artify/internal/adapters/converter"
	"artify/internal/adapters/generator"
	"artify/internal/core/domain/style"
	"artify/internal/core/port"
	"artify/internal/core/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// services holds the components shared by every front-end.
type services struct {
	styles     *style.Registry
	bridge     *service.Bridge
	compressor *converter.Compressor
}

func newServices(providerOverride string) (*services, error) {
	registry, err := style.FromConfig()
	if err != nil {
		return nil, fmt.Errorf("failed loading styles: %w", err)
	}

	model, err := newStyleModel(providerOverride)
	if err != nil {
		return nil, err
	}

	return &services{
		styles:     registry,
		bridge:     service.NewBridge(registry, model),
		compressor: converter.NewCompressor(),
	}, nil
}

func newStyleModel(providerOverride string) (port.StyleModel, error) {
	provider := viper.GetString("model.provider")
	if providerOverride != "" {
		provider = providerOverride
	}

	log.Info().Str("provider", provider).Msg("initializing style model")

	switch strings.ToLower(provider) {
	case "gemini":
		apiKey := viper.GetString("gemini.api_key")
		if apiKey == "" {
			return nil, errors.New("gemini.api_key is not set")
		}

		opts := []generator.GeminiOption{generator.WithHTTPClient(&http.Client{})}
		if baseURL := viper.GetString("gemini.base_url"); baseURL != "" {
			opts = append(opts, generator.WithBaseURL(baseURL))
		}

		return generator.NewGemini(apiKey, viper.GetString("gemini.model"), opts...), nil
	case "fal":
		apiKey := viper.GetString("fal.api_key")
		if apiKey == "" {
			return nil, errors.New("fal.api_key is not set")
		}

		return generator.NewFAL(viper.GetString("fal.edit_url"), apiKey), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", provider)
	}
}
