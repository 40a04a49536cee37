package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"artify/internal/core/domain"

	"github.com/rs/zerolog/log"
)

const DefaultFALEditURL = "https://fal.run/fal-ai/flux-pro/kontext"

// FAL provides a wrapper for the FAL image editing API.
type FAL struct {
	falAPIKey            string
	imageEditingEndpoint string
	httpClient           *http.Client
}

func NewFAL(imageEditingEndpoint, apiKey string) *FAL {
	return &FAL{
		falAPIKey:            apiKey,
		imageEditingEndpoint: imageEditingEndpoint,
		httpClient:           &http.Client{},
	}
}

type imageEditRequest struct {
	Prompt              string `json:"prompt"`
	InputImageURL       string `json:"image_url"`
	NumImages           int    `json:"num_images"`
	SyncMode            bool   `json:"sync_mode"`
	EnableSafetyChecker bool   `json:"enable_safety_checker"`
}

type imageResponse struct {
	Images []struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
	} `json:"images"`
	Description string `json:"description"`
}

// Generate submits the image as a data URI. Sync mode makes FAL answer with
// data URIs instead of hosted URLs.
func (f *FAL) Generate(ctx context.Context, request domain.ModelRequest) (domain.ModelResponse, error) {
	falRequest := imageEditRequest{
		Prompt:              request.Instruction,
		InputImageURL:       request.Image.String(),
		NumImages:           1,
		SyncMode:            true,
		EnableSafetyChecker: true,
	}

	payloadBuf := new(bytes.Buffer)
	err := json.NewEncoder(payloadBuf).Encode(falRequest)
	if err != nil {
		return domain.ModelResponse{}, fmt.Errorf("error encoding FAL request: %w", err)
	}

	body, err := f.postFALRequest(ctx, f.imageEditingEndpoint, payloadBuf)
	if err != nil {
		return domain.ModelResponse{}, fmt.Errorf("FAL request failed: %w", err)
	}

	var result imageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.ModelResponse{}, fmt.Errorf("error unmarshalling FAL imageResponse: %w", err)
	}

	log.Debug().Int("images", len(result.Images)).Msg("FAL imageResponse")

	resp := domain.ModelResponse{Text: result.Description}
	for _, img := range result.Images {
		if img.URL != "" {
			resp.Media = &domain.Media{URL: img.URL, ContentType: img.ContentType}
			break
		}
	}

	return resp, nil
}

func (f *FAL) postFALRequest(ctx context.Context, url string, payloadBuf *bytes.Buffer) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payloadBuf)
	if err != nil {
		log.Error().Err(err).Msg("error creating POST request for FAL")
		return nil, err
	}

	req.Header.Add("Authorization", "Key "+f.falAPIKey)
	req.Header.Add("Content-Type", "application/json")

	res, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing FAL request: %w", err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading FAL response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected FAL status %d: %s", res.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
