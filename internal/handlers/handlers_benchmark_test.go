package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Totarae/shortener/internal/allocator"
	"github.com/Totarae/shortener/internal/handlers"
	"github.com/Totarae/shortener/internal/model"
	"github.com/Totarae/shortener/internal/repositories"
	"github.com/Totarae/shortener/internal/service"
	"github.com/Totarae/shortener/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func setupBenchHandler(b *testing.B) (*handlers.Handler, *storage.Store) {
	logger := zap.NewNop()
	repo, err := repositories.NewMemoryRepository("", logger)
	if err != nil {
		b.Fatal(err)
	}
	store := storage.New(repo, logger)
	if err := store.Open(context.Background()); err != nil {
		b.Fatal(err)
	}
	svc := service.NewShortenerService(store, allocator.New(store, logger), logger, "http://localhost:8080/")
	return handlers.NewHandler(svc, logger), store
}

func BenchmarkReceiveShorten(b *testing.B) {
	handler, _ := setupBenchHandler(b)
	body := `{"url": "https://yandex.ru/benchmark"}`

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ReceiveShorten(rec, req)
	}
}

func BenchmarkResponseURL(b *testing.B) {
	handler, store := setupBenchHandler(b)
	if err := store.Insert(context.Background(), "abc12345", "https://yandex.ru"); err != nil && err != model.ErrDuplicateID {
		b.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/abc12345", nil)
	// Добавляем chi-параметр вручную
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("id", "abc12345")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler.ResponseURL(rec, req)
	}
}
