package api

import (
	"net/http"
	"time"

	"artify/internal/adapters/converter"
	"artify/internal/core/domain/style"
	"artify/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

const bytesPerMB = 1 << 20

// Options tune the HTTP API.
type Options struct {
	// MaxBodyMB caps request bodies.
	MaxBodyMB float64
	// DefaultShrinkMB is the budget for shrink requests that name none.
	DefaultShrinkMB float64
	// ShrinkBeforeTransformMB compresses images to this budget before they
	// reach the model. Zero sends them as received.
	ShrinkBeforeTransformMB float64
}

func NewRouter(transformer port.Transformer, compressor port.Compressor, styles *style.Registry,
	opts Options) http.Handler {
	if opts.MaxBodyMB <= 0 {
		opts.MaxBodyMB = 10
	}
	if opts.DefaultShrinkMB <= 0 {
		opts.DefaultShrinkMB = converter.DefaultMaxMB
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request handled")
	}))
	r.Use(middleware.Recoverer)

	h := NewImageHandler(transformer, compressor, styles, opts)

	r.Get("/healthz", healthz)
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Post("/transform", h.transform)
		v1.Post("/shrink", h.shrink)
		v1.Get("/styles", h.listStyles)
	})

	return r
}

// requestIDLogger tags the request logger with chi's request id.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("requestId", middleware.GetReqID(r.Context()))
		})
		next.ServeHTTP(w, r)
	})
}
