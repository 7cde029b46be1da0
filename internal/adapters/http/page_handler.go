package http

import (
	"bytes"
	"errors"
	"html"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/metrics"
	"github.com/3-lines-studio/reactssr/internal/types"
	"github.com/3-lines-studio/reactssr/internal/usecase"
)

const RequestIDHeader = "X-Request-ID"

var errorTemplate = core.ErrorTemplate

type PageHandler struct {
	service *usecase.PageService
	config  types.PageConfig
	isDev   bool
	log     zerolog.Logger
}

func NewPageHandler(service *usecase.PageService, config types.PageConfig, isDev bool, log zerolog.Logger) http.Handler {
	return &PageHandler{
		service: service,
		config:  config,
		isDev:   isDev,
		log:     log,
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	reqID := requestID(req)
	w.Header().Set(RequestIDHeader, reqID)

	log := h.log.With().
		Str("request_id", reqID).
		Str("page", h.config.PageID).
		Str("path", req.URL.Path).
		Logger()

	out, err := h.service.ServePage(req.Context(), usecase.ServePageInput{
		Config:  h.config,
		Request: req,
	})
	if err != nil {
		var redirect types.RedirectError
		if errors.As(err, &redirect) {
			status := redirect.RedirectStatusCode()
			if status == 0 {
				status = http.StatusFound
			}
			h.count(status)
			log.Debug().Str("location", redirect.RedirectURL()).Int("status", status).Msg("redirect")
			http.Redirect(w, req, redirect.RedirectURL(), status)
			return
		}

		log.Error().Err(err).Str("kind", usecase.ErrorKind(err)).Dur("duration", time.Since(start)).Msg("render failed")
		h.serveError(w, err)
		return
	}

	h.count(http.StatusOK)
	log.Info().Bool("cached", out.Cached).Dur("duration", time.Since(start)).Msg("rendered")
	h.serveHTML(w, out.HTML)
}

func (h *PageHandler) count(status int) {
	metrics.Responses.WithLabelValues(h.config.PageID, strconv.Itoa(status)).Inc()
}

func (h *PageHandler) serveHTML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (h *PageHandler) serveError(w http.ResponseWriter, err error) {
	h.count(http.StatusInternalServerError)

	data := core.ErrorData{
		Status:  http.StatusInternalServerError,
		PageID:  h.config.PageID,
		Message: err.Error(),
		IsDev:   h.isDev,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, data); err != nil {
		h.log.Error().Err(err).Msg("error template failed")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallbackErrorPage(data)))
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}

func fallbackErrorPage(data core.ErrorData) string {
	if !data.IsDev {
		return "<!doctype html><html><body><p>An error occurred while processing your request.</p></body></html>"
	}
	return "<!doctype html><html><body><pre>" + html.EscapeString(data.Message) + "</pre></body></html>"
}

// requestID prefers the id set by chi's RequestID middleware, then the
// incoming header, then a fresh uuid.
func requestID(req *http.Request) string {
	if id := middleware.GetReqID(req.Context()); id != "" {
		return id
	}
	if id := req.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
