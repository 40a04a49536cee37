package port

import (
	"context"

	"artify/internal/core/domain"
)

type Compressor interface {
	// Shrink re-encodes an image until its serialized size fits within maxMB megabytes.
	Shrink(ctx context.Context, image domain.EncodedImage, maxMB float64) (domain.ShrinkResult, error)
}

// ImageFetcher loads a source image from a URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (domain.EncodedImage, error)
}
