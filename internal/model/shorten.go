package model

import "strings"

// ShortenRequest представляет структуру запроса на сокращение URL.
// Указатель позволяет отличить отсутствующее поле от пустого.
type ShortenRequest struct {
	URL *string `json:"url"`
}

// Validate проверяет наличие поля url в запросе.
func (r ShortenRequest) Validate() error {
	if r.URL == nil || strings.TrimSpace(*r.URL) == "" {
		return ErrMissingURL
	}
	return nil
}

// ShortenResponse представляет структуру ответа с сокращённым URL.
type ShortenResponse struct {
	Shortened string `json:"shortened"`
	URL       string `json:"url"`
}

// ErrorResponse - тело любого ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
