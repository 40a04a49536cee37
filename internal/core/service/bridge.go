package service

import (
	"context"
	"fmt"
	"strings"

	"artify/internal/core/domain"
	"artify/internal/core/domain/style"
	"artify/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

type StyleLookup interface {
	Lookup(id string) (style.Definition, error)
}

// instructionSuffix is appended to every style prompt.
const instructionSuffix = "The main subject of the image should stay clearly recognizable and well-defined in the chosen style. " +
	"The background should complement the style and the subject. " +
	"Respond with the transformed image only."

// Bridge mediates between callers and the hosted style model. It keeps no
// state between calls.
type Bridge struct {
	styles StyleLookup
	model  port.StyleModel
}

func NewBridge(styles StyleLookup, model port.StyleModel) *Bridge {
	return &Bridge{styles: styles, model: model}
}

// TransformDataURI parses a data URI and transforms it.
func (b *Bridge) TransformDataURI(ctx context.Context, dataURI, styleID string) (domain.TransformResult, error) {
	img, err := domain.ParseEncodedImage(dataURI)
	if err != nil {
		log.Warn().Err(err).Str("prefix", prefix(dataURI, 40)).Msg("rejected image")
		return domain.TransformResult{}, err
	}

	return b.Transform(ctx, domain.TransformRequest{Image: img, Style: styleID})
}

func (b *Bridge) Transform(ctx context.Context, request domain.TransformRequest) (domain.TransformResult, error) {
	if !strings.HasPrefix(request.Image.MediaType, "image/") {
		return domain.TransformResult{}, domain.NewInputFormatError(
			fmt.Sprintf("missing or unsupported media type %q", request.Image.MediaType), nil)
	}

	if len(request.Image.Data) == 0 {
		return domain.TransformResult{}, domain.NewInputFormatError("empty image body", nil)
	}

	definition, err := b.styles.Lookup(request.Style)
	if err != nil {
		return domain.TransformResult{}, err
	}

	session, err := uuid.NewV4()
	if err != nil {
		return domain.TransformResult{}, fmt.Errorf("failed to create session id: %w", err)
	}

	l := log.With().
		Str("session", session.String()).
		Str("style", definition.ID).
		Str("mediaType", request.Image.MediaType).
		Int("bytes", len(request.Image.Data)).
		Logger()

	l.Info().Msg("requesting style transformation")

	resp, err := b.model.Generate(ctx, domain.ModelRequest{
		Image:       request.Image,
		Instruction: BuildInstruction(definition),
		Modalities:  []string{domain.ModalityText, domain.ModalityImage},
	})
	if err != nil {
		l.Error().Err(err).Msg("style model request failed")
		return domain.TransformResult{}, fmt.Errorf("style model request failed: %w", err)
	}

	if resp.Media == nil || resp.Media.URL == "" {
		l.Error().Str("text", prefix(resp.Text, 200)).Msg("style model returned no image")
		return domain.TransformResult{}, domain.NewModelOutputError(
			"image transformation failed to produce a valid media output")
	}

	l.Info().Str("contentType", resp.Media.ContentType).Msg("style transformation finished")

	return domain.TransformResult{TransformedImage: resp.Media.URL}, nil
}

// BuildInstruction assembles the text sent alongside the image.
func BuildInstruction(definition style.Definition) string {
	return strings.TrimSpace(definition.Prompt) + " " + instructionSuffix
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
