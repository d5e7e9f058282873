package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Totarae/shortener/internal/allocator"
	"github.com/Totarae/shortener/internal/model"
	"github.com/Totarae/shortener/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:generate mockgen -source=shortener.go -destination=../mocks/mock_store.go -package=mocks

const tracerName = "github.com/Totarae/shortener/internal/service"

// Store - хранилище сопоставлений, которым пользуется сервис.
type Store interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, id, url string) error
	Get(ctx context.Context, id string) (string, error)
	Ping(ctx context.Context) error
}

type ShortenerService struct {
	Store     Store
	Allocator *allocator.Allocator
	Logger    *zap.Logger
	BaseURL   string

	tracer    trace.Tracer
	allocated *prometheus.CounterVec
}

// Option настраивает ShortenerService.
type Option func(*ShortenerService)

// WithAllocatedCounter подключает счётчик выданных идентификаторов по длине.
func WithAllocatedCounter(c *prometheus.CounterVec) Option {
	return func(s *ShortenerService) {
		s.allocated = c
	}
}

// NewShortenerService создаёт сервис. Allocator должен считать записи в том же store.
func NewShortenerService(store Store, alloc *allocator.Allocator, logger *zap.Logger, baseURL string, opts ...Option) *ShortenerService {
	s := &ShortenerService{
		Store:     store,
		Allocator: alloc,
		Logger:    logger,
		BaseURL:   baseURL,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shorten проверяет URL, выделяет идентификатор и сохраняет сопоставление.
// Ответ возвращается только после подтверждённой записи.
func (s *ShortenerService) Shorten(ctx context.Context, rawURL string) (id, shortURL string, err error) {
	ctx, span := s.tracer.Start(ctx, "ShortenerService.Shorten")
	defer func() { finishSpan(span, err) }()

	if err = util.ValidateURL(rawURL); err != nil {
		return "", "", err
	}

	length, err := s.Allocator.Length(ctx)
	if err != nil {
		// длина по умолчанию допустима, только если хранилище само по себе живо
		if errors.Is(err, model.ErrStoreUnavailable) || ctx.Err() != nil {
			return "", "", err
		}
		err = nil
	}
	span.SetAttributes(attribute.Int("shortener.id_bytes", length))

	id, err = s.Allocator.Next(length)
	if err != nil {
		return "", "", fmt.Errorf("generate id: %w", err)
	}

	if err = s.Store.Insert(ctx, id, rawURL); err != nil {
		if errors.Is(err, model.ErrDuplicateID) {
			s.Logger.Error("identifier collision", zap.String("id", id), zap.Int("bytes", length))
			return "", "", fmt.Errorf("%w: %s", model.ErrAllocationConflict, id)
		}
		return "", "", err
	}

	if s.allocated != nil {
		s.allocated.WithLabelValues(strconv.Itoa(length)).Inc()
	}
	return id, util.BuildShortURL(s.BaseURL, id), nil
}

// Resolve возвращает исходный URL. ErrNotFound и ErrStoreUnavailable передаются без изменений.
func (s *ShortenerService) Resolve(ctx context.Context, id string) (url string, err error) {
	ctx, span := s.tracer.Start(ctx, "ShortenerService.Resolve",
		trace.WithAttributes(attribute.String("shortener.id", id)))
	defer func() { finishSpan(span, err) }()

	return s.Store.Get(ctx, id)
}

func (s *ShortenerService) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}

func finishSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
