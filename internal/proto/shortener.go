package proto

import (
	"context"
	"fmt"
	"time"

	"github.com/MikhailRaia/url-genie/internal/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "urlgenie.ShortenerService"

// ShortenerServiceServer is the server API for ShortenerService service.
type ShortenerServiceServer interface {
	Shorten(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListRecent(context.Context, *wrapperspb.Int32Value) (*structpb.ListValue, error)
	Delete(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	Resolve(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedShortenerServiceServer can be embedded to have forward compatible implementations.
type UnimplementedShortenerServiceServer struct{}

func (UnimplementedShortenerServiceServer) Shorten(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Shorten not implemented")
}
func (UnimplementedShortenerServiceServer) ListRecent(context.Context, *wrapperspb.Int32Value) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRecent not implemented")
}
func (UnimplementedShortenerServiceServer) Delete(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedShortenerServiceServer) Resolve(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Resolve not implemented")
}

func RegisterShortenerServiceServer(s grpc.ServiceRegistrar, srv ShortenerServiceServer) {
	s.RegisterService(&ShortenerService_ServiceDesc, srv)
}

func _ShortenerService_Shorten_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortenerServiceServer).Shorten(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/Shorten",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShortenerServiceServer).Shorten(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _ShortenerService_ListRecent_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortenerServiceServer).ListRecent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/ListRecent",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShortenerServiceServer).ListRecent(ctx, req.(*wrapperspb.Int32Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _ShortenerService_Delete_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortenerServiceServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/Delete",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShortenerServiceServer).Delete(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _ShortenerService_Resolve_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShortenerServiceServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/Resolve",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShortenerServiceServer).Resolve(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var ShortenerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShortenerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Shorten",
			Handler:    _ShortenerService_Shorten_Handler,
		},
		{
			MethodName: "ListRecent",
			Handler:    _ShortenerService_ListRecent_Handler,
		},
		{
			MethodName: "Delete",
			Handler:    _ShortenerService_Delete_Handler,
		},
		{
			MethodName: "Resolve",
			Handler:    _ShortenerService_Resolve_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "urlgenie.proto",
}

// ShortenerServiceClient is the client API for ShortenerService service.
type ShortenerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewShortenerServiceClient(cc grpc.ClientConnInterface) *ShortenerServiceClient {
	return &ShortenerServiceClient{cc: cc}
}

func (c *ShortenerServiceClient) Shorten(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Shorten", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShortenerServiceClient) ListRecent(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ListRecent", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShortenerServiceClient) Delete(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Delete", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShortenerServiceClient) Resolve(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Resolve", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// MappingToStruct encodes m with the same field names as the JSON API.
func MappingToStruct(m model.URLMapping) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"id":           structpb.NewStringValue(m.ID),
			"original_url": structpb.NewStringValue(m.OriginalURL),
			"short_url":    structpb.NewStringValue(m.ShortURL),
			"created_at":   structpb.NewStringValue(m.CreatedAt.UTC().Format(time.RFC3339Nano)),
		},
	}
}

// MappingFromStruct is the inverse of MappingToStruct.
func MappingFromStruct(s *structpb.Struct) (model.URLMapping, error) {
	fields := s.GetFields()

	m := model.URLMapping{
		ID:          fields["id"].GetStringValue(),
		OriginalURL: fields["original_url"].GetStringValue(),
		ShortURL:    fields["short_url"].GetStringValue(),
	}

	if raw := fields["created_at"].GetStringValue(); raw != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return model.URLMapping{}, fmt.Errorf("invalid created_at %q: %w", raw, err)
		}
		m.CreatedAt = createdAt
	}

	return m, nil
}

// MappingsToList encodes items as a list of structs, preserving order.
func MappingsToList(items []model.URLMapping) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(items))
	for _, m := range items {
		values = append(values, structpb.NewStructValue(MappingToStruct(m)))
	}
	return &structpb.ListValue{Values: values}
}

// MappingsFromList is the inverse of MappingsToList.
func MappingsFromList(l *structpb.ListValue) ([]model.URLMapping, error) {
	items := make([]model.URLMapping, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		m, err := MappingFromStruct(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, m)
	}
	return items, nil
}
