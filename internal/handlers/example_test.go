package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/Totarae/shortener/internal/allocator"
	"github.com/Totarae/shortener/internal/handlers"
	"github.com/Totarae/shortener/internal/repositories"
	"github.com/Totarae/shortener/internal/service"
	"github.com/Totarae/shortener/internal/storage"
	"go.uber.org/zap"
)

// ExampleHandler_ReceiveShorten демонстрирует работу метода ReceiveShorten.
func ExampleHandler_ReceiveShorten() {
	logger := zap.NewNop()
	repo, _ := repositories.NewMemoryRepository("", logger)
	store := storage.New(repo, logger)
	_ = store.Open(context.Background())

	svc := service.NewShortenerService(store, allocator.New(store, logger), logger, "http://localhost/")
	h := handlers.NewHandler(svc, logger)

	body := `{"url":"https://yandex.ru"}`
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ReceiveShorten(rec, req)
	resp := rec.Result()
	defer resp.Body.Close()

	var result map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&result)

	fmt.Println(resp.StatusCode)
	fmt.Println(strings.HasPrefix(result["shortened"], "http://localhost/"))
	fmt.Println(result["url"])

	// Output:
	// 200
	// true
	// https://yandex.ru
}
