package router

import (
	"github.com/Totarae/shortener/internal/handlers"
	"github.com/Totarae/shortener/internal/metrics"
	"github.com/Totarae/shortener/internal/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор. m может быть nil.
func NewRouter(handler *handlers.Handler, logger *zap.Logger, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	if m != nil {
		r.Use(middleware.MetricsMiddleware(m))
	}
	r.Use(middleware.GzipMiddleware) // Gzip-сжатие

	r.Post("/", handler.ReceiveURL)
	r.Post("/api/shorten", handler.ReceiveShorten)
	r.Get("/ping", handler.Ping)
	r.Get("/{id}", handler.ResponseURL)
	if m != nil {
		r.Method("GET", "/metrics", m.Handler())
	}
	return r
}
