// Package grpcserver is the internal gRPC surface used by sibling services.
package grpcserver

import (
	"mesto-restful/auth"
	"mesto-restful/interceptors"
	"mesto-restful/services"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// New builds a server with session introspection, user lookup and the
// standard health service. The returned health server lets the caller flip
// status to NOT_SERVING during shutdown.
func New(tokens *auth.TokenService, userService services.UserService, logger *zap.Logger) (*grpc.Server, *health.Server) {
	logger = logger.Named("grpc")
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(logger),
			interceptors.ZapLoggingInterceptor(logger),
			interceptors.AuthInterceptor(tokens),
		),
	)

	server.RegisterService(&SessionServiceDesc, NewSessionServiceServer(tokens))
	server.RegisterService(&UserServiceDesc, NewUserServiceServer(userService))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(SessionServiceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(UserServiceName, healthpb.HealthCheckResponse_SERVING)

	return server, healthServer
}
