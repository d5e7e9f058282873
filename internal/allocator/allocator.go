// Package allocator вычисляет длину идентификатора по размеру хранилища
// и генерирует случайные hex-идентификаторы.
package allocator

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/bits"

	"go.uber.org/zap"
)

const (
	// MinBits - нижняя граница энтропии идентификатора.
	MinBits = 32
	// DefaultByteLength используется, когда количество записей получить не удалось.
	DefaultByteLength = 4
)

// Counter сообщает текущее количество сохранённых сопоставлений.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// NextLength возвращает длину идентификатора в байтах для хранилища с count записями:
// наименьшее bits >= MinBits, при котором 2^bits >= count+1, округлённое вверх до байтов.
func NextLength(count int64) int {
	if count < 0 {
		count = 0
	}
	size := uint64(count) + 1
	// bits.Len64(size-1) - минимальное b, при котором 2^b >= size
	n := bits.Len64(size - 1)
	if n < MinBits {
		n = MinBits
	}
	return (n + 7) / 8
}

// NewIdentifier читает byteLength байт из r и кодирует их в нижний hex.
func NewIdentifier(r io.Reader, byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("invalid byte length %d", byteLength)
	}
	buf := make([]byte, byteLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Allocator выдаёт идентификаторы, длина которых растёт вместе с хранилищем.
// Состояния не хранит, безопасен для конкурентного использования.
type Allocator struct {
	counter       Counter
	random        io.Reader
	logger        *zap.Logger
	defaultLength int
}

// Option настраивает Allocator.
type Option func(*Allocator)

// WithRandom подменяет источник энтропии (по умолчанию crypto/rand).
func WithRandom(r io.Reader) Option {
	return func(a *Allocator) {
		a.random = r
	}
}

// WithDefaultLength задаёт запасную длину в байтах.
func WithDefaultLength(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.defaultLength = n
		}
	}
}

// New создаёт Allocator поверх счётчика записей.
func New(counter Counter, logger *zap.Logger, opts ...Option) *Allocator {
	a := &Allocator{
		counter:       counter,
		random:        rand.Reader,
		logger:        logger,
		defaultLength: DefaultByteLength,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Length вычисляет длину идентификатора по текущему количеству записей.
// Если количество получить не удалось, возвращает длину по умолчанию вместе с ошибкой:
// решать, фатальна ли ошибка, должен вызывающий.
func (a *Allocator) Length(ctx context.Context) (int, error) {
	count, err := a.counter.Count(ctx)
	if err != nil {
		a.logger.Warn("count unavailable, using default id length",
			zap.Int("bytes", a.defaultLength), zap.Error(err))
		return a.defaultLength, err
	}
	return NextLength(count), nil
}

// Next генерирует идентификатор заданной длины.
func (a *Allocator) Next(byteLength int) (string, error) {
	return NewIdentifier(a.random, byteLength)
}
