package api

import (
	"net/http"

	"artify/internal/core/domain"
	"artify/internal/core/domain/style"
	"artify/internal/core/port"

	"github.com/rs/zerolog/hlog"
)

type TransformRequest struct {
	PhotoDataURI string `json:"photoDataUri"`
	Style        string `json:"style"`
}

type ShrinkRequest struct {
	PhotoDataURI string `json:"photoDataUri"`
	// MaxSizeMB falls back to the configured default when omitted.
	MaxSizeMB *float64 `json:"maxSizeMB"`
}

type ShrinkResponse struct {
	Image   string  `json:"image"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Quality float64 `json:"quality"`
}

type StyleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ImageHandler struct {
	transformer port.Transformer
	compressor  port.Compressor
	registry    *style.Registry
	styles      []StyleResponse
	maxBody     int64
	defaultMB   float64
	// shrinkMB, when positive, compresses images before they are sent to the model.
	shrinkMB float64
}

func NewImageHandler(transformer port.Transformer, compressor port.Compressor, styles *style.Registry,
	opts Options) *ImageHandler {
	defs := styles.Definitions()
	list := make([]StyleResponse, 0, len(defs))
	for _, def := range defs {
		list = append(list, StyleResponse{ID: def.ID, Name: def.Name})
	}

	return &ImageHandler{
		transformer: transformer,
		compressor:  compressor,
		registry:    styles,
		styles:      list,
		maxBody:     int64(opts.MaxBodyMB * bytesPerMB),
		defaultMB:   opts.DefaultShrinkMB,
		shrinkMB:    opts.ShrinkBeforeTransformMB,
	}
}

func (h *ImageHandler) transform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		WriteError(w, r, err, http.StatusBadRequest)
		return
	}

	img, err := domain.ParseEncodedImage(req.PhotoDataURI)
	if err != nil {
		WriteError(w, r, err, http.StatusBadRequest)
		return
	}

	// Unknown styles are rejected before any compression work.
	if _, err := h.registry.Lookup(req.Style); err != nil {
		WriteError(w, r, err, http.StatusBadRequest)
		return
	}

	if h.shrinkMB > 0 {
		shrunk, err := h.compressor.Shrink(r.Context(), img, h.shrinkMB)
		if err != nil {
			WriteError(w, r, err, http.StatusInternalServerError)
			return
		}
		img = shrunk.Image
	}

	hlog.FromRequest(r).Info().
		Str("style", req.Style).
		Str("mediaType", img.MediaType).
		Int("size", img.Size()).
		Msg("transform requested")

	result, err := h.transformer.Transform(r.Context(), domain.TransformRequest{Image: img, Style: req.Style})
	if err != nil {
		WriteError(w, r, err, http.StatusBadGateway)
		return
	}

	WriteSuccess(w, http.StatusOK, result)
}

func (h *ImageHandler) shrink(w http.ResponseWriter, r *http.Request) {
	var req ShrinkRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		WriteError(w, r, err, http.StatusBadRequest)
		return
	}

	img, err := domain.ParseEncodedImage(req.PhotoDataURI)
	if err != nil {
		WriteError(w, r, err, http.StatusBadRequest)
		return
	}

	maxMB := h.defaultMB
	if req.MaxSizeMB != nil {
		maxMB = *req.MaxSizeMB
	}

	result, err := h.compressor.Shrink(r.Context(), img, maxMB)
	if err != nil {
		WriteError(w, r, err, http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, http.StatusOK, ShrinkResponse{
		Image:   result.Image.String(),
		Width:   result.Width,
		Height:  result.Height,
		Quality: result.Quality,
	})
}

func (h *ImageHandler) listStyles(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, h.styles)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
