package grpcapi

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Components reported through the health service in addition to the
// overall "" entry.
const (
	ComponentMarketplace = "marketplace"
	ComponentChainSync   = "chain-sync"
)

type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

func NewServer() *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, loggingInterceptor, errorInterceptor),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	for _, component := range []string{"", ComponentMarketplace, ComponentChainSync} {
		healthServer.SetServingStatus(component, healthpb.HealthCheckResponse_SERVING)
	}
	return &Server{grpc: grpcServer, health: healthServer}
}

// Register exposes the underlying server so generated services can be attached.
func (s *Server) Register(desc *grpc.ServiceDesc, impl any) {
	s.grpc.RegisterService(desc, impl)
}

func (s *Server) SetServing(component string, serving bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(component, status)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop flips every component to NOT_SERVING, then drains in-flight calls.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "grpc call",
		"method", info.FullMethod,
		"duration", time.Since(start),
		"error", err,
	)
	return resp, err
}
