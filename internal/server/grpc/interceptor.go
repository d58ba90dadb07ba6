package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const verificationKey ctxKey = "verification"

// protectedMethods need a bearer token in the call metadata.
var protectedMethods = map[string]bool{
	whoAmIMethod: true,
}

func (s *GRPCServer) bearerInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(strings.ToLower(common.AuthorizationHeaderName))
		if len(values) > 0 {
			token = values[0]
		}
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	v, err := s.verify(ctx, token)
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, verificationKey, v)
	return handler(ctx, req)
}

func verificationFrom(ctx context.Context) (services.Verification, bool) {
	v, ok := ctx.Value(verificationKey).(services.Verification)
	return v, ok
}
