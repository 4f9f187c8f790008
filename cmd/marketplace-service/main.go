package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LavaJover/trust-marketplace-service/internal/app/background"
	"github.com/LavaJover/trust-marketplace-service/internal/app/setup"
	"github.com/LavaJover/trust-marketplace-service/internal/config"
	"github.com/LavaJover/trust-marketplace-service/internal/delivery/grpcapi"
	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/middleware"
	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/router"
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	_, logCloser := logger.Setup(cfg.LogConfig)
	defer logCloser.Close()

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg)
	if err != nil {
		slog.Error("failed to init dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	useCases, err := setup.InitializeUseCases(deps)
	if err != nil {
		slog.Error("failed to init usecases", "error", err)
		os.Exit(1)
	}

	// gRPC health
	grpcServer := grpcapi.NewServer()
	lis, err := net.Listen("tcp", cfg.GRPCServer.Addr())
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.GRPCServer.Addr(), "error", err)
		os.Exit(1)
	}
	go func() {
		slog.Info("gRPC server started", "addr", cfg.GRPCServer.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err)
		}
	}()

	tasks, err := background.NewBackgroundTasks(
		useCases.EscrowUsecase,
		deps.Subscriber,
		deps.Audit,
		grpcServer.SetServing,
		background.Config{
			SyncInterval:    cfg.Chain.SyncInterval,
			HealthComponent: grpcapi.ComponentChainSync,
			AuditGroupID:    cfg.KafkaService.GroupID,
			AuditTopics:     []string{domain.TopicInvestmentEvents, domain.TopicEscrowEvents, domain.TopicOrderEvents},
		},
	)
	if err != nil {
		slog.Error("failed to init background tasks", "error", err)
		os.Exit(1)
	}
	if err := tasks.StartAll(ctx); err != nil {
		slog.Error("failed to start background tasks", "error", err)
		os.Exit(1)
	}

	engine := router.Setup(router.Deps{
		Investments: useCases.InvestmentUsecase,
		Escrows:     useCases.EscrowUsecase,
		Carts:       useCases.CartUsecase,
		Governance:  useCases.GovernanceUsecase,
		Ledger:      deps.Ledger,
		Metrics:     deps.Metrics,
		Gatherer:    deps.Registry,
		Hooks:       middleware.NewHooks(),
	})
	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr, "env", cfg.Env, "chain_mode", cfg.Chain.Mode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	tasks.Stop()
}
