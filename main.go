package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mesto-restful/auth"
	"mesto-restful/config"
	"mesto-restful/database"
	"mesto-restful/filters"
	grpcserver "mesto-restful/grpc_server"
	"mesto-restful/metrics"
	"mesto-restful/registry"
	"mesto-restful/repositories"
	"mesto-restful/router"
	"mesto-restful/services"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func newLogger(level string) (*zap.Logger, error) {
	switch level {
	case "debug":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() // Make sure the buffer is flushed before the program exits

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.UsesDefaultSecret() {
		logger.Warn("Using the built-in JWT secret; set MESTO_JWT_SECRET in production")
	}

	clientIPs, err := filters.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	tokens := auth.NewTokenService([]byte(cfg.JwtSecret), cfg.TokenTTL)
	userService := services.NewUserService(repositories.NewUserRepository(db), auth.NewPasswordHasher(), tokens)
	cardService := services.NewCardService(repositories.NewCardRepository(db), m)

	limiter := filters.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, clientIPs, logger)
	stopSweep := make(chan struct{})
	defer close(stopSweep)
	go limiter.Run(stopSweep)

	container := router.New(router.Options{
		UserService:    userService,
		CardService:    cardService,
		Tokens:         tokens,
		CookieName:     cfg.CookieName,
		CookieSecure:   cfg.CookieSecure,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ClientIPs:      clientIPs,
		RateLimiter:    limiter,
		Metrics:        m,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      container,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	grpcServer, healthServer := grpcserver.New(tokens, userService, logger)
	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	var (
		reg           registry.ServiceRegistry
		registeredIDs []string
	)
	if cfg.ConsulAddress != "" {
		reg, err = registry.NewConsulRegistry(cfg.ConsulAddress, logger)
		if err != nil {
			_ = grpcListener.Close()
			return err
		}
		registeredIDs, err = registry.RegisterAll(reg, instances(cfg))
		if err != nil {
			_ = registry.DeregisterAll(reg, registeredIDs)
			_ = grpcListener.Close()
			return err
		}
	}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", grpcListener.Addr().String()))
		if err := grpcServer.Serve(grpcListener); err != nil {
			serveErr <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-serveErr:
	}

	if reg != nil {
		if err := registry.DeregisterAll(reg, registeredIDs); err != nil {
			logger.Warn("Consul deregistration incomplete", zap.Error(err))
		}
	}
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server exited")
	return runErr
}

// instances describes the HTTP and gRPC listeners announced to Consul.
func instances(cfg *config.Config) []registry.Instance {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	httpID := fmt.Sprintf("%s-http-%s-%d", cfg.ServiceName, host, cfg.HTTPPort)
	grpcID := fmt.Sprintf("%s-grpc-%s-%d", cfg.ServiceName, host, cfg.GRPCPort)

	return []registry.Instance{
		{
			ID:      httpID,
			Name:    cfg.ServiceName + "-http",
			Address: host,
			Port:    cfg.HTTPPort,
			Tags:    []string{"http", "rest"},
			Check:   registry.HTTPCheck(httpID, fmt.Sprintf("http://%s:%d/healthz", host, cfg.HTTPPort), registry.DefaultCheckTiming),
		},
		{
			ID:      grpcID,
			Name:    cfg.ServiceName + "-grpc",
			Address: host,
			Port:    cfg.GRPCPort,
			Tags:    []string{"grpc"},
			Check:   registry.GRPCCheck(grpcID, fmt.Sprintf("%s:%d", host, cfg.GRPCPort), false, registry.DefaultCheckTiming),
		},
	}
}
