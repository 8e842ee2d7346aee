package grpcserver

import (
	"context"

	"mesto-restful/apperr"
	"mesto-restful/auth"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	SessionServiceName = "mesto.session.v1.SessionService"
	VerifyMethod       = "/" + SessionServiceName + "/Verify"
)

// SessionServiceServer lets sibling services check a session token without
// sharing the signing secret.
type SessionServiceServer interface {
	Verify(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// SessionServiceDesc is registered with grpc.Server.RegisterService. The
// messages are well-known wrapper types, so no generated code is involved.
var SessionServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Verify", Handler: verifyHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mesto/session/v1/session.proto",
}

func verifyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServiceServer).Verify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: VerifyMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServiceServer).Verify(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type sessionServiceServer struct {
	tokens *auth.TokenService
}

func NewSessionServiceServer(tokens *auth.TokenService) SessionServiceServer {
	return &sessionServiceServer{tokens: tokens}
}

// Verify returns the user id carried by a valid token.
func (s *sessionServiceServer) Verify(_ context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req.GetValue() == "" {
		return nil, apperr.GRPCStatus(apperr.Unauthenticated(auth.UnauthorizedMessage))
	}
	userID, err := s.tokens.Verify(req.GetValue())
	if err != nil {
		return nil, apperr.GRPCStatus(err)
	}
	return wrapperspb.String(userID.String()), nil
}
