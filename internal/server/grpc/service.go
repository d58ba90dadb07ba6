package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// TokenServiceName is the fully qualified gRPC service name.
const TokenServiceName = "eliteglam.auth.v1.TokenService"

const (
	verifyMethod = "/" + TokenServiceName + "/Verify"
	pingMethod   = "/" + TokenServiceName + "/Ping"
	whoAmIMethod = "/" + TokenServiceName + "/WhoAmI"
)

// TokenServiceServer is the server API of the token service. Messages are
// protobuf well-known types, so no generated code is required.
type TokenServiceServer interface {
	// Verify checks the presented token and returns its claims.
	Verify(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	// WhoAmI returns the claims of the bearer token in the call metadata.
	WhoAmI(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterTokenServiceServer(s grpc.ServiceRegistrar, srv TokenServiceServer) {
	s.RegisterService(&TokenServiceDesc, srv)
}

func verifyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).Verify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: verifyMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).Verify(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: pingMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).Ping(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func whoAmIHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).WhoAmI(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: whoAmIMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).WhoAmI(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var TokenServiceDesc = grpc.ServiceDesc{
	ServiceName: TokenServiceName,
	HandlerType: (*TokenServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Verify", Handler: verifyHandler},
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "WhoAmI", Handler: whoAmIHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eliteglam/auth/v1/token.proto",
}

// TokenServiceClient calls the token service over an existing connection.
type TokenServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTokenServiceClient(cc grpc.ClientConnInterface) *TokenServiceClient {
	return &TokenServiceClient{cc: cc}
}

func (c *TokenServiceClient) Verify(ctx context.Context, token string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, verifyMethod, wrapperspb.String(token), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TokenServiceClient) Ping(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, pingMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *TokenServiceClient) WhoAmI(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, whoAmIMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
