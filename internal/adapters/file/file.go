package file

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"artify/internal/core/domain"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// MaxDownloadBytes caps the size of a downloaded source image.
const MaxDownloadBytes = 20 << 20

// DownloadFile returns the byte content of a file on a provided URL.
func DownloadFile(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Send()
		return nil, err
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, MaxDownloadBytes+1))
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	if len(buf) > MaxDownloadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", MaxDownloadBytes)
	}

	return buf, nil
}

// DownloadImage fetches a URL and wraps the body as an image, sniffing its media type.
func DownloadImage(ctx context.Context, url string) (domain.EncodedImage, error) {
	data, err := DownloadFile(ctx, url)
	if err != nil {
		return domain.EncodedImage{}, err
	}

	return domain.NewEncodedImage("", data)
}

// ReadImage loads an image from disk, sniffing its media type.
func ReadImage(path string) (domain.EncodedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.EncodedImage{}, fmt.Errorf("error reading image file %w", err)
	}

	return domain.NewEncodedImage("", data)
}

// WriteImage stores an image. If path is a directory or empty, a random file
// name with the matching extension is created inside it. Returns the path written.
func WriteImage(path string, img domain.EncodedImage) (string, error) {
	if path == "" {
		path = "."
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		id, err := uuid.NewV4()
		if err != nil {
			return "", err
		}
		path = filepath.Join(path, "artify-"+id.String()+img.Extension())
	}

	log.Debug().Int("bytes", len(img.Data)).Str("path", path).Msg("writing image")

	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		err = fmt.Errorf("error writing image file %w", err)
		log.Error().Err(err).Send()
		return "", err
	}

	return path, nil
}

// Fetcher downloads source images over HTTP.
type Fetcher struct{}

func (Fetcher) Fetch(ctx context.Context, url string) (domain.EncodedImage, error) {
	return DownloadImage(ctx, url)
}
