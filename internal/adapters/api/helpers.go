package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"artify/internal/core/domain"

	"github.com/rs/zerolog/hlog"
)

var (
	ErrBadRequest      = errors.New("malformed request body")
	ErrBodyTooLarge    = errors.New("request body too large")
	ErrInternalFailure = errors.New("internal server error")
	ErrUpstreamFailure = errors.New("style model request failed")
)

type ErrorResponse struct {
	Code        int      `json:"code"`
	Kind        string   `json:"kind,omitempty"`
	Message     string   `json:"message"`
	ValidStyles []string `json:"validStyles,omitempty"`
}

// ToHTTPResponse maps an error onto a status code and a client-safe body.
// Errors without a domain kind are reported with the fallback status.
func ToHTTPResponse(err error, fallback int) ErrorResponse {
	var maxBytes *http.MaxBytesError
	var de *domain.Error

	switch {
	case errors.As(err, &maxBytes):
		return ErrorResponse{Code: http.StatusRequestEntityTooLarge, Message: ErrBodyTooLarge.Error()}
	case errors.Is(err, ErrBadRequest), errors.Is(err, domain.ErrInvalidBudget):
		return ErrorResponse{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorResponse{Code: http.StatusGatewayTimeout, Kind: string(domain.KindTransport), Message: "request timed out"}
	case errors.As(err, &de):
		resp := ErrorResponse{Kind: string(de.Kind), Message: de.Error()}
		switch de.Kind {
		case domain.KindInputFormat, domain.KindDecode:
			resp.Code = http.StatusBadRequest
		case domain.KindUnknownStyle:
			resp.Code = http.StatusNotFound
			resp.Message = de.Message
			resp.ValidStyles = de.Valid
		case domain.KindModelOutput:
			resp.Code = http.StatusBadGateway
		default:
			resp.Code = http.StatusInternalServerError
		}
		return resp
	case fallback == http.StatusBadGateway:
		return ErrorResponse{Code: fallback, Kind: string(domain.KindTransport), Message: ErrUpstreamFailure.Error()}
	default:
		return ErrorResponse{Code: http.StatusInternalServerError, Message: ErrInternalFailure.Error()}
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	resp := ToHTTPResponse(err, fallback)

	l := hlog.FromRequest(r)
	if resp.Code >= http.StatusInternalServerError {
		l.Error().Err(err).Int("status", resp.Code).Msg("request failed")
	} else {
		l.Warn().Err(err).Int("status", resp.Code).Msg("request rejected")
	}

	WriteSuccess(w, resp.Code, resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a single JSON object from a size-capped body.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	return nil
}
