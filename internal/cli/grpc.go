package cli

import (
	"context"
	"fmt"

	"github.com/MikhailRaia/url-genie/internal/model"
	"github.com/MikhailRaia/url-genie/internal/proto"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// grpcBackend serves the commands from a running server.
type grpcBackend struct {
	client *proto.ShortenerServiceClient
}

// NewGRPCBackend wraps an existing connection.
func NewGRPCBackend(cc grpc.ClientConnInterface) Backend {
	return &grpcBackend{client: proto.NewShortenerServiceClient(cc)}
}

func dialGRPC(addr string) (Backend, func(), error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to %s: %w", addr, err)
	}

	release := func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close gRPC connection")
		}
	}

	return NewGRPCBackend(conn), release, nil
}

func (b *grpcBackend) Shorten(ctx context.Context, input string) (model.URLMapping, error) {
	resp, err := b.client.Shorten(ctx, wrapperspb.String(input))
	if err != nil {
		return model.URLMapping{}, err
	}
	return proto.MappingFromStruct(resp)
}

func (b *grpcBackend) ListRecent(ctx context.Context, limit int) ([]model.URLMapping, error) {
	resp, err := b.client.ListRecent(ctx, wrapperspb.Int32(int32(limit)))
	if err != nil {
		return nil, err
	}
	return proto.MappingsFromList(resp)
}

func (b *grpcBackend) Delete(ctx context.Context, id string) error {
	_, err := b.client.Delete(ctx, wrapperspb.String(id))
	return err
}

func (b *grpcBackend) Resolve(ctx context.Context, code string) (string, error) {
	resp, err := b.client.Resolve(ctx, wrapperspb.String(code))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", storage.ErrNotFound
		}
		return "", err
	}
	return resp.GetValue(), nil
}
