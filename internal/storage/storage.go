// Package storage оборачивает бэкенд сопоставлений явным состоянием подключения,
// таймаутами операций и классификацией ошибок.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Totarae/shortener/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultTimeout ограничивает одну операцию с бэкендом.
const DefaultTimeout = 3 * time.Second

// Backend определяет интерфейс постоянного хранилища сопоставлений.
// Реализации должны быть безопасны для конкурентного использования.
type Backend interface {
	// Count возвращает количество сохранённых сопоставлений.
	Count(ctx context.Context) (int64, error)
	// Insert атомарно сохраняет сопоставление, только если id ещё не занят.
	// Возвращает model.ErrDuplicateID, если id существует.
	Insert(ctx context.Context, m model.Mapping) error
	// Get возвращает URL по идентификатору или model.ErrNotFound.
	Get(ctx context.Context, id string) (string, error)
	// Ping проверяет соединение.
	Ping(ctx context.Context) error
	// Close освобождает соединение.
	Close(ctx context.Context) error
}

// State - наблюдаемое состояние хранилища.
type State int32

const (
	Unavailable State = iota
	Available
)

func (s State) String() string {
	if s == Available {
		return "available"
	}
	return "unavailable"
}

// Store - общий долгоживущий дескриптор хранилища. Создаётся один раз и
// передаётся в сервис. До успешного Open все операции сразу завершаются
// с model.ErrStoreUnavailable.
type Store struct {
	backend  Backend
	logger   *zap.Logger
	observer *prometheus.HistogramVec
	timeout  time.Duration
	state    atomic.Int32
}

// Option настраивает Store.
type Option func(*Store)

// WithTimeout задаёт таймаут одной операции.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithObserver подключает гистограмму длительности операций (метки op, result).
func WithObserver(h *prometheus.HistogramVec) Option {
	return func(s *Store) {
		s.observer = h
	}
}

// New создаёт Store в состоянии Unavailable.
func New(backend Backend, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open проверяет соединение и переводит хранилище в состояние Available.
func (s *Store) Open(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.Ping(ctx); err != nil {
		s.logger.Error("mapping store unreachable", zap.Error(err))
		return fmt.Errorf("open: %w: %w", model.ErrStoreUnavailable, err)
	}
	s.state.Store(int32(Available))
	s.logger.Info("mapping store available")
	return nil
}

// State возвращает текущее состояние.
func (s *Store) State() State {
	return State(s.state.Load())
}

// Count возвращает количество сохранённых сопоставлений.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.do(ctx, "count", func(ctx context.Context) error {
		var err error
		n, err = s.backend.Count(ctx)
		return err
	})
	return n, err
}

// Insert сохраняет {id -> url}, если id свободен.
func (s *Store) Insert(ctx context.Context, id, url string) error {
	return s.do(ctx, "insert", func(ctx context.Context) error {
		return s.backend.Insert(ctx, model.Mapping{ID: id, URL: url})
	})
}

// Get возвращает URL по идентификатору.
func (s *Store) Get(ctx context.Context, id string) (string, error) {
	var url string
	err := s.do(ctx, "get", func(ctx context.Context) error {
		var err error
		url, err = s.backend.Get(ctx, id)
		return err
	})
	return url, err
}

// Ping проверяет доступность хранилища.
func (s *Store) Ping(ctx context.Context) error {
	return s.do(ctx, "ping", s.backend.Ping)
}

// Close закрывает соединение, после чего операции недоступны.
func (s *Store) Close(ctx context.Context) error {
	if State(s.state.Swap(int32(Unavailable))) == Unavailable {
		return nil
	}
	return s.backend.Close(ctx)
}

func (s *Store) do(ctx context.Context, op string, fn func(context.Context) error) error {
	if s.State() != Available {
		s.observe(op, "unavailable", 0)
		return fmt.Errorf("%s: %w", op, model.ErrStoreUnavailable)
	}

	start := time.Now()
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(opCtx)
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		result = "not_found"
	case errors.Is(err, model.ErrDuplicateID):
		result = "duplicate"
	case ctx.Err() != nil:
		// вызывающий отменил запрос
		result = "canceled"
		err = fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		result = "unavailable"
		s.logger.Warn("mapping store operation failed", zap.String("op", op), zap.Error(err))
		err = fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
	}
	s.observe(op, result, time.Since(start))
	return err
}

func (s *Store) observe(op, result string, d time.Duration) {
	if s.observer == nil {
		return
	}
	s.observer.WithLabelValues(op, result).Observe(d.Seconds())
}
