package v2

import (
	"context"
	"net"
	"testing"

	"github.com/Totarae/shortener/internal/allocator"
	"github.com/Totarae/shortener/internal/repositories"
	"github.com/Totarae/shortener/internal/service"
	"github.com/Totarae/shortener/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newTestClient(t *testing.T, open bool) *Client {
	t.Helper()
	logger := zap.NewNop()
	repo, err := repositories.NewMemoryRepository("", logger)
	require.NoError(t, err)
	store := storage.New(repo, logger)
	if open {
		require.NoError(t, store.Open(context.Background()))
	}
	svc := service.NewShortenerService(store, allocator.New(store, logger), logger, "http://localhost:8080/")

	lis := bufconn.Listen(1 << 20)
	srv := Register(NewGRPCServer(svc, logger))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func TestGRPC_ShortenResolve(t *testing.T) {
	client := newTestClient(t, true)
	ctx := context.Background()

	short, err := client.Shorten(ctx, "https://example.com/path?q=1")
	require.NoError(t, err)
	require.Regexp(t, "^http://localhost:8080/[0-9a-f]{8}$", short)

	id := short[len("http://localhost:8080/"):]
	origin, err := client.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path?q=1", origin)
}

func TestGRPC_Errors(t *testing.T) {
	client := newTestClient(t, true)
	ctx := context.Background()

	_, err := client.Shorten(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Shorten(ctx, "not a url")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Resolve(ctx, "doesnotexist")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_StoreUnavailable(t *testing.T) {
	client := newTestClient(t, false)

	_, err := client.Shorten(context.Background(), "https://example.com")
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
