package handler

import (
	"context"
	"errors"

	"github.com/MikhailRaia/url-genie/internal/proto"
	"github.com/MikhailRaia/url-genie/internal/service"
	"github.com/MikhailRaia/url-genie/internal/storage"
	"github.com/MikhailRaia/url-genie/internal/web"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type ShortenerGRPCServer struct {
	proto.UnimplementedShortenerServiceServer
	urlService URLService
}

func NewShortenerGRPCServer(urlService URLService) *ShortenerGRPCServer {
	return &ShortenerGRPCServer{
		urlService: urlService,
	}
}

func (s *ShortenerGRPCServer) Shorten(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	mapping, err := s.urlService.Shorten(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, service.ErrEmptyURL) || errors.Is(err, service.ErrInvalidURL) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Errorf(codes.Internal, "failed to shorten URL: %v", err)
	}

	return proto.MappingToStruct(mapping), nil
}

func (s *ShortenerGRPCServer) ListRecent(ctx context.Context, req *wrapperspb.Int32Value) (*structpb.ListValue, error) {
	limit := int(req.GetValue())
	switch {
	case limit < 0:
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	case limit == 0:
		limit = web.DefaultRecentLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	urls, err := s.urlService.ListRecent(ctx, limit)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to list URLs: %v", err)
	}

	return proto.MappingsToList(urls), nil
}

func (s *ShortenerGRPCServer) Delete(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.urlService.Delete(ctx, req.GetValue()); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to delete URL: %v", err)
	}

	return &emptypb.Empty{}, nil
}

func (s *ShortenerGRPCServer) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	originalURL, err := s.urlService.Resolve(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "short URL not found")
		}
		return nil, status.Errorf(codes.Internal, "failed to resolve code: %v", err)
	}

	return wrapperspb.String(originalURL), nil
}

