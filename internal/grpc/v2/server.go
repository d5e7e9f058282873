// Package v2 публикует ядро сервиса по gRPC. Сообщения - google.protobuf.StringValue,
// поэтому сервису не нужен сгенерированный код.
package v2

import (
	"context"
	"errors"
	"time"

	"github.com/Totarae/shortener/internal/handlers"
	"github.com/Totarae/shortener/internal/model"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName   = "shortener.v2.Shortener"
	shortenMethod = "/" + ServiceName + "/Shorten"
	resolveMethod = "/" + ServiceName + "/Resolve"
)

// ShortenerServer - обработчики методов сервиса.
type ShortenerServer interface {
	Shorten(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Resolve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// ServiceDesc описывает сервис для grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShortenerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Shorten", Handler: shortenHandler},
		{MethodName: "Resolve", Handler: resolveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shortener/v2/shortener.proto",
}

type GRPCServer struct {
	Service handlers.Shortener
	Logger  *zap.Logger
}

func NewGRPCServer(svc handlers.Shortener, logger *zap.Logger) *GRPCServer {
	return &GRPCServer{Service: svc, Logger: logger}
}

// Register создаёт grpc.Server с логирующим перехватчиком и регистрирует сервис.
func Register(s *GRPCServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(LoggingInterceptor(s.Logger)))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&ServiceDesc, s)
	return srv
}

// Shorten принимает исходный URL и возвращает сокращённый.
func (s *GRPCServer) Shorten(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "url is required")
	}

	_, short, err := s.Service.Shorten(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(err)
	}
	return wrapperspb.String(short), nil
}

// Resolve принимает идентификатор и возвращает исходный URL.
func (s *GRPCServer) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	origin, err := s.Service.Resolve(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(err)
	}
	return wrapperspb.String(origin), nil
}

func (s *GRPCServer) toStatus(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidURL):
		return status.Error(codes.InvalidArgument, "invalid url")
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrStoreUnavailable):
		s.Logger.Error("mapping store unavailable", zap.Error(err))
		return status.Error(codes.Unavailable, "store unavailable")
	case errors.Is(err, model.ErrAllocationConflict):
		return status.Error(codes.Aborted, "identifier conflict, retry")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		s.Logger.Error("grpc request failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

// LoggingInterceptor пишет в лог каждый унарный вызов.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("gRPC Request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}

func shortenHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortenerServer).Shorten(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: shortenMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ShortenerServer).Shorten(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortenerServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: resolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ShortenerServer).Resolve(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Client - клиент сервиса поверх готового соединения.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Shorten возвращает сокращённый URL.
func (c *Client) Shorten(ctx context.Context, rawURL string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.conn.Invoke(ctx, shortenMethod, wrapperspb.String(rawURL), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// Resolve возвращает исходный URL по идентификатору.
func (c *Client) Resolve(ctx context.Context, id string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.conn.Invoke(ctx, resolveMethod, wrapperspb.String(id), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}
