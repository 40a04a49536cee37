package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"artify/internal/core/domain"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	BytesPerMB = 1024 * 1024
	// DefaultMaxMB is the size budget used when none is given.
	DefaultMaxMB = 2.0

	initialQuality = 90
	minQuality     = 50
	qualityStep    = 10
	shrinkFactor   = 0.9
	minWidth       = 100
)

// Compressor re-encodes images as JPEG at decreasing size and quality until
// they fit a byte budget.
type Compressor struct {
	scaler draw.Scaler
}

func NewCompressor() *Compressor {
	return &Compressor{scaler: draw.CatmullRom}
}

// Shrink decodes the image once and re-encodes it, starting at quality 0.9 and
// the original dimensions. Every pass over budget scales both sides by 0.9 and
// lowers quality by 0.1 down to 0.5. It stops once the data URI fits maxMB, or
// once width <= 100px and quality <= 0.5, returning the last encoding.
func (c *Compressor) Shrink(ctx context.Context, img domain.EncodedImage, maxMB float64) (domain.ShrinkResult, error) {
	if maxMB <= 0 || math.IsNaN(maxMB) || math.IsInf(maxMB, 0) {
		return domain.ShrinkResult{}, domain.ErrInvalidBudget
	}

	src, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return domain.ShrinkResult{}, domain.NewDecodeError(err)
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return domain.ShrinkResult{}, domain.NewDecodeError(errors.New("image has no pixels"))
	}

	l := log.With().
		Str("format", format).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Int("inputBytes", len(img.Data)).
		Logger()

	target := int(maxMB * BytesPerMB)
	aspect := float64(bounds.Dx()) / float64(bounds.Dy())
	width := float64(bounds.Dx())
	quality := initialQuality

	var result domain.ShrinkResult
	for {
		if err := ctx.Err(); err != nil {
			return domain.ShrinkResult{}, err
		}

		w, h := dimensions(width, aspect)
		data, err := c.encode(src, w, h, quality)
		if err != nil {
			return domain.ShrinkResult{}, fmt.Errorf("failed to encode image: %w", err)
		}

		result = domain.ShrinkResult{
			Image:   domain.EncodedImage{MediaType: "image/jpeg", Data: data},
			Width:   w,
			Height:  h,
			Quality: float64(quality) / 100,
			Passes:  result.Passes + 1,
		}

		size := result.Image.Size()
		l.Debug().Int("pass", result.Passes).Int("w", w).Int("h", h).Int("quality", quality).
			Int("size", size).Int("target", target).Msg("encoded pass")

		if size <= target {
			break
		}

		if w <= minWidth && quality <= minQuality {
			l.Warn().Int("size", size).Int("target", target).Msg("size floor reached, returning best effort")
			break
		}

		width *= shrinkFactor
		quality = max(minQuality, quality-qualityStep)
	}

	l.Debug().Int("passes", result.Passes).Int("outputBytes", len(result.Image.Data)).Msg("image compressed")

	return result, nil
}

func (c *Compressor) encode(src image.Image, width, height, quality int) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	if width == src.Bounds().Dx() && height == src.Bounds().Dy() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	} else {
		c.scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func dimensions(width, aspect float64) (int, int) {
	w := max(1, int(math.Round(width)))
	h := max(1, int(math.Round(width/aspect)))
	return w, h
}
