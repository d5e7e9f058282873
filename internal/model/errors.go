package model

import "errors"

// Ошибки ядра сервиса. Транспортные слои сопоставляют их со статусами через errors.Is.
var (
	// ErrInvalidURL - строка не является абсолютным URL со схемой и хостом.
	ErrInvalidURL = errors.New("invalid url")
	// ErrStoreUnavailable - хранилище не подключено или не ответило вовремя.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrDuplicateID - идентификатор уже занят, запись не перезаписывается.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrAllocationConflict - сгенерированный идентификатор столкнулся с существующим.
	ErrAllocationConflict = errors.New("allocation conflict")
	// ErrNotFound - для идентификатора нет сопоставления.
	ErrNotFound = errors.New("mapping not found")
)

// ErrMissingURL - в теле запроса нет поля url.
var ErrMissingURL = errors.New("url field required")
