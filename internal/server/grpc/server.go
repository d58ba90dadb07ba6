// Package grpc serves the internal token verification API used by other
// backends to check eliteglam session tokens.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// TokenVerifier is the part of the auth gateway the server needs.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, presented string) (services.Verification, error)
}

type GRPCServer struct {
	address       string
	verifier      TokenVerifier
	allowDegraded bool
	logger        logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, v TokenVerifier, allowDegraded bool) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		verifier:      v,
		allowDegraded: allowDegraded,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.bearerInterceptor))
	RegisterTokenServiceServer(srv, s)
	return srv
}

// Run listens on the configured address until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

// verify runs the gateway check and applies the degraded-trust policy.
func (s *GRPCServer) verify(ctx context.Context, token string) (services.Verification, error) {
	v, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return services.Verification{}, status.Error(codes.Unauthenticated, "invalid token")
	}
	if v.Trust == services.DegradedTrust {
		if !s.allowDegraded {
			s.logger.Info(ctx, "degraded-trust token rejected", "uid", v.Claims.UID)
			return services.Verification{}, status.Error(codes.Unauthenticated, "invalid token")
		}
		s.logger.Warn(ctx, "degraded-trust token accepted", "uid", v.Claims.UID)
	}
	return v, nil
}

func (s *GRPCServer) Verify(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}

	v, err := s.verify(ctx, req.GetValue())
	if err != nil {
		return nil, err
	}
	return claimsStruct(v)
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	v, ok := verificationFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	return claimsStruct(v)
}

func claimsStruct(v services.Verification) (*structpb.Struct, error) {
	c := v.Claims
	fields := map[string]any{
		"uid":   c.UID,
		"email": c.Email,
		"iss":   c.Issuer,
		"aud":   c.Audience,
		"sub":   c.Subject,
		"trust": v.Trust.String(),
	}
	if !c.IssuedAt.IsZero() {
		fields["iat"] = c.IssuedAt.Unix()
	}
	if !c.ExpiresAt.IsZero() {
		fields["exp"] = c.ExpiresAt.Unix()
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}
