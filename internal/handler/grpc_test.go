package handler

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/MikhailRaia/url-genie/internal/middleware"
	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/proto"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func newGRPCClient(t *testing.T, svc URLService) *proto.ShortenerServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(middleware.UnaryRecoverer, middleware.UnaryLogger))
	proto.RegisterShortenerServiceServer(srv, NewShortenerGRPCServer(svc))

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

	return proto.NewShortenerServiceClient(conn)
}

func TestShortenerGRPCServer_Shorten(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		shortenErr error
		wantCode   codes.Code
	}{
		{name: "Valid URL", input: "example.com", wantCode: codes.OK},
		{name: "Empty URL", input: "", shortenErr: service.ErrEmptyURL, wantCode: codes.InvalidArgument},
		{name: "Invalid URL", input: "https://", shortenErr: service.ErrInvalidURL, wantCode: codes.InvalidArgument},
		{name: "Store failure", input: "example.com", shortenErr: errors.New("down"), wantCode: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockURLService{}
			if tt.shortenErr != nil {
				svc.shortenFunc = func(string) (model.URLMapping, error) {
					return model.URLMapping{}, tt.shortenErr
				}
			}
			client := newGRPCClient(t, svc)

			resp, err := client.Shorten(context.Background(), wrapperspb.String(tt.input))
			assert.Equal(t, tt.wantCode, status.Code(err))

			if tt.wantCode == codes.OK {
				m, err := proto.MappingFromStruct(resp)
				require.NoError(t, err)
				assert.Equal(t, "https://example.com", m.OriginalURL)
				assert.Equal(t, "http://localhost:8080/abc123", m.ShortURL)
			}
		})
	}
}

func TestShortenerGRPCServer_ListRecent(t *testing.T) {
	tests := []struct {
		name      string
		limit     int32
		wantCode  codes.Code
		wantLimit int
	}{
		{name: "Default limit", limit: 0, wantCode: codes.OK, wantLimit: 10},
		{name: "Explicit limit", limit: 4, wantCode: codes.OK, wantLimit: 4},
		{name: "Capped limit", limit: 500, wantCode: codes.OK, wantLimit: 100},
		{name: "Negative limit", limit: -1, wantCode: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockURLService{
				listRecentFunc: func(int) ([]model.URLMapping, error) {
					return []model.URLMapping{{ID: "id-1", OriginalURL: "https://example.com"}}, nil
				},
			}
			client := newGRPCClient(t, svc)

			resp, err := client.ListRecent(context.Background(), wrapperspb.Int32(tt.limit))
			assert.Equal(t, tt.wantCode, status.Code(err))

			if tt.wantCode == codes.OK {
				assert.Equal(t, []int{tt.wantLimit}, svc.listLimits)
				items, err := proto.MappingsFromList(resp)
				require.NoError(t, err)
				require.Len(t, items, 1)
				assert.Equal(t, "id-1", items[0].ID)
			}
		})
	}
}

func TestShortenerGRPCServer_Delete(t *testing.T) {
	var deleted []string
	svc := &mockURLService{deleteFunc: func(id string) error {
		if id == "broken" {
			return errors.New("down")
		}
		deleted = append(deleted, id)
		return nil
	}}
	client := newGRPCClient(t, svc)
	ctx := context.Background()

	_, err := client.Delete(ctx, wrapperspb.String("id-1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, deleted)

	_, err = client.Delete(ctx, wrapperspb.String(""))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Delete(ctx, wrapperspb.String("broken"))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestShortenerGRPCServer_Resolve(t *testing.T) {
	svc := &mockURLService{resolveFunc: func(code string) (string, error) {
		switch code {
		case "abc123":
			return "https://example.com", nil
		case "broken":
			return "", errors.New("down")
		default:
			return "", storage.ErrNotFound
		}
	}}
	client := newGRPCClient(t, svc)
	ctx := context.Background()

	resp, err := client.Resolve(ctx, wrapperspb.String("abc123"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", resp.GetValue())

	_, err = client.Resolve(ctx, wrapperspb.String("doesnotexist"))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Resolve(ctx, wrapperspb.String(""))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Resolve(ctx, wrapperspb.String("broken"))
	assert.Equal(t, codes.Internal, status.Code(err))
}
