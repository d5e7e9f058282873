package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Totarae/shortener/internal/model"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodySize ограничивает тело запроса на сокращение.
const maxBodySize = 64 << 10

const (
	msgURLRequired   = `Invalid parameters: "url" field required.`
	msgURLInvalid    = `Invalid parameters: "url" field is invalid.`
	msgMalformedBody = `Invalid parameters: malformed request body.`
	msgIDRequired    = `Invalid parameters - "id" parameter required`
	msgStoreDown     = "Internal server error - database missing or corrupt."
	msgInternal      = "Internal server error"
)

var errMalformedBody = errors.New("malformed request body")

// Shortener - ядро сервиса, которое вызывают обработчики.
type Shortener interface {
	Shorten(ctx context.Context, rawURL string) (id, shortURL string, err error)
	Resolve(ctx context.Context, id string) (string, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	Service Shortener
	Logger  *zap.Logger
}

func NewHandler(svc Shortener, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, Logger: logger}
}

// ReceiveShorten принимает JSON {"url": "..."} или форму url=... и возвращает
// сокращённый URL после того, как запись подтверждена хранилищем.
func (h *Handler) ReceiveShorten(res http.ResponseWriter, req *http.Request) {
	payload, err := decodeShortenRequest(res, req)
	if err != nil {
		h.writeError(res, http.StatusBadRequest, msgMalformedBody)
		return
	}
	if err := payload.Validate(); err != nil {
		h.writeError(res, http.StatusBadRequest, msgURLRequired)
		return
	}

	originalURL := *payload.URL
	_, shortURL, err := h.Service.Shorten(req.Context(), originalURL)
	if err != nil {
		h.writeServiceError(res, err, "")
		return
	}

	h.writeJSON(res, http.StatusOK, model.ShortenResponse{Shortened: shortURL, URL: originalURL})
}

// ReceiveURL принимает URL в теле text/plain и отвечает сокращённым URL текстом.
func (h *Handler) ReceiveURL(res http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBodySize))
	if err != nil {
		h.writeError(res, http.StatusBadRequest, msgMalformedBody)
		return
	}

	originalURL := strings.TrimSpace(string(body))
	if originalURL == "" {
		h.writeError(res, http.StatusBadRequest, msgURLRequired)
		return
	}

	_, shortURL, err := h.Service.Shorten(req.Context(), originalURL)
	if err != nil {
		h.writeServiceError(res, err, "")
		return
	}

	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res.WriteHeader(http.StatusCreated)
	res.Write([]byte(shortURL))
}

// ResponseURL перенаправляет на исходный URL с кодом 302.
func (h *Handler) ResponseURL(res http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if id == "" {
		h.writeError(res, http.StatusBadRequest, msgIDRequired)
		return
	}

	originalURL, err := h.Service.Resolve(req.Context(), id)
	if err != nil {
		h.writeServiceError(res, err, id)
		return
	}

	// Устанавливаем заголовок Location и код 302
	res.Header().Set("Location", originalURL)
	res.WriteHeader(http.StatusFound)
}

// Ping проверяет доступность хранилища.
func (h *Handler) Ping(res http.ResponseWriter, req *http.Request) {
	if err := h.Service.Ping(req.Context()); err != nil {
		h.writeServiceError(res, err, "")
		return
	}
	res.WriteHeader(http.StatusOK)
}

// decodeShortenRequest разбирает тело запроса в типизированную структуру.
// Пустое тело трактуется как отсутствие поля url.
func decodeShortenRequest(res http.ResponseWriter, req *http.Request) (model.ShortenRequest, error) {
	var payload model.ShortenRequest
	req.Body = http.MaxBytesReader(res, req.Body, maxBodySize)

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := req.ParseForm(); err != nil {
			return payload, fmt.Errorf("%w: %w", errMalformedBody, err)
		}
		if values, ok := req.PostForm["url"]; ok && len(values) > 0 {
			payload.URL = &values[0]
		}
		return payload, nil
	}

	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return payload, fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return payload, nil
}

// writeServiceError сопоставляет ошибки ядра со статусами HTTP.
func (h *Handler) writeServiceError(res http.ResponseWriter, err error, id string) {
	switch {
	case errors.Is(err, model.ErrInvalidURL):
		h.writeError(res, http.StatusBadRequest, msgURLInvalid)
	case errors.Is(err, model.ErrNotFound):
		h.writeError(res, http.StatusBadRequest,
			fmt.Sprintf("Invalid parameters - %s is not registed in our database.", id))
	case errors.Is(err, model.ErrStoreUnavailable):
		h.Logger.Error("mapping store unavailable", zap.Error(err))
		h.writeError(res, http.StatusInternalServerError, msgStoreDown)
	default:
		h.Logger.Error("request failed", zap.Error(err))
		h.writeError(res, http.StatusInternalServerError, msgInternal)
	}
}

func (h *Handler) writeError(res http.ResponseWriter, status int, message string) {
	h.writeJSON(res, status, model.ErrorResponse{Error: message})
}

func (h *Handler) writeJSON(res http.ResponseWriter, status int, v any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(v); err != nil {
		h.Logger.Warn("failed to write response", zap.Error(err))
	}
}
