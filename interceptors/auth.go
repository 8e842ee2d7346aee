package interceptors

import (
	"context"
	"strings"

	"mesto-restful/apperr"
	"mesto-restful/auth"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// PublicMethods bypass the bearer check.
var PublicMethods = map[string]bool{
	"/mesto.session.v1.SessionService/Verify": true,
	"/grpc.health.v1.Health/Check":            true,
	"/grpc.health.v1.Health/Watch":            true,
}

// AuthInterceptor returns a unary server interceptor that accepts the same
// session token as the HTTP cookie, passed as "authorization: Bearer <token>".
func AuthInterceptor(tokens *auth.TokenService) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if PublicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		token, ok := bearerToken(ctx)
		if !ok {
			return nil, apperr.GRPCStatus(apperr.Unauthenticated(auth.UnauthorizedMessage))
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			return nil, apperr.GRPCStatus(err)
		}

		return handler(auth.WithIdentity(ctx, userID), req)
	}
}

func bearerToken(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", false
	}
	scheme, token, found := strings.Cut(values[0], " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}
