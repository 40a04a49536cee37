package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"artify/internal/core/domain"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash-exp"

// Gemini restyles images with Google's Gemini API. Every call builds its own
// genai client so configuration and conversation state never cross requests.
// Only the HTTP transport, which holds no per-request state, is shared.
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type GeminiOption func(*Gemini)

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) GeminiOption {
	return func(g *Gemini) {
		g.baseURL = url
	}
}

func WithHTTPClient(client *http.Client) GeminiOption {
	return func(g *Gemini) {
		g.httpClient = client
	}
}

func NewGemini(apiKey, model string, opts ...GeminiOption) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}

	g := &Gemini{apiKey: apiKey, model: model}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Gemini) newClient(ctx context.Context) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:     g.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	return genai.NewClient(ctx, cfg)
}

func (g *Gemini) Generate(ctx context.Context, request domain.ModelRequest) (domain.ModelResponse, error) {
	client, err := g.newClient(ctx)
	if err != nil {
		return domain.ModelResponse{}, fmt.Errorf("failed to create gemini client: %w", err)
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: request.Image.MediaType, Data: request.Image.Data}},
			{Text: request.Instruction},
		},
	}}

	config := &genai.GenerateContentConfig{
		ResponseModalities: request.Modalities,
	}

	log.Debug().Str("model", g.model).Strs("modalities", request.Modalities).Msg("sending gemini request")

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return domain.ModelResponse{}, fmt.Errorf("gemini API error: %w", err)
	}

	return parseGeminiResponse(resp), nil
}

// parseGeminiResponse picks the first image part of the first candidate that
// has one. Inline data becomes a data URI.
func parseGeminiResponse(resp *genai.GenerateContentResponse) domain.ModelResponse {
	var result domain.ModelResponse
	var text []string

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			switch {
			case part == nil:
			case part.InlineData != nil && len(part.InlineData.Data) > 0 && result.Media == nil:
				result.Media = &domain.Media{
					URL: "data:" + part.InlineData.MIMEType + ";base64," +
						base64.StdEncoding.EncodeToString(part.InlineData.Data),
					ContentType: part.InlineData.MIMEType,
				}
			case part.FileData != nil && part.FileData.FileURI != "" && result.Media == nil:
				result.Media = &domain.Media{
					URL:         part.FileData.FileURI,
					ContentType: part.FileData.MIMEType,
				}
			case part.Text != "":
				text = append(text, part.Text)
			}
		}
	}

	result.Text = strings.Join(text, "\n")

	return result
}
