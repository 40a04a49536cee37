package port

import (
	"context"

	"artify/internal/core/domain"
)

// StyleModel is a hosted generative model that can restyle an image.
type StyleModel interface {
	// Generate sends a single request to the model. Implementations must not carry state between calls.
	Generate(ctx context.Context, request domain.ModelRequest) (domain.ModelResponse, error)
}

// Transformer turns an image and a style identifier into a restyled image.
type Transformer interface {
	Transform(ctx context.Context, request domain.TransformRequest) (domain.TransformResult, error)
}
