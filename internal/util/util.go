package util

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Totarae/shortener/internal/model"
)

// ValidateURL проверяет, что raw - абсолютный URL со схемой и хостом.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) != raw || raw == "" {
		return fmt.Errorf("%w: %q", model.ErrInvalidURL, raw)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q has no scheme or host", model.ErrInvalidURL, raw)
	}
	return nil
}

// BuildShortURL склеивает базовый URL и идентификатор
func BuildShortURL(baseURL, id string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + id
}
