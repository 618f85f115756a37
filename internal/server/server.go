package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/till/config"
	"github.com/shashiranjanraj/till/internal/kernel"
	"github.com/shashiranjanraj/till/pkg/event"
	"github.com/shashiranjanraj/till/pkg/grpc"
	"github.com/shashiranjanraj/till/pkg/logger"
	"github.com/shashiranjanraj/till/pkg/schedule"
	"github.com/shashiranjanraj/till/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// Start serves HTTP and gRPC until SIGINT or SIGTERM, then shuts both down
// and flushes the terminal.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Error("shutdown: close terminal", "error", err)
		}
	}()

	httpKernel, err := kernel.NewHTTPKernel(rt.Terminal)
	if err != nil {
		return fmt.Errorf("kernel: %w", err)
	}

	grpcSrv := grpc.New()
	grpcSrv.SetSyncServing(rt.Terminal.CloudActive())
	rt.Bus.Listen(event.SettingsSaved, func(interface{}) {
		grpcSrv.SetSyncServing(rt.Terminal.CloudActive())
	})

	lis, err := grpc.Listen(config.GRPCPort())
	if err != nil {
		return err
	}

	sched := schedule.New()
	if expr := config.ExportSchedule(); expr != "" {
		if err := sched.Add("ledger.export", expr, func() { scheduledExport(ctx, rt) }); err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
	}
	sched.Start()

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server starting", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// SSE streams never finish on their own; Shutdown waits for them until
	// the deadline, Close then cuts them.
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
		_ = httpSrv.Close()
	}
	grpcSrv.Stop()
	sched.Stop(shutdownCtx)

	return runErr
}

func scheduledExport(ctx context.Context, rt *Runtime) {
	disk, err := storage.Use(config.ExportDisk())
	if err != nil {
		logger.Error("export: disk unavailable", "disk", config.ExportDisk(), "error", err)
		return
	}
	path, err := rt.Terminal.Ledger().ExportTo(ctx, disk, time.Now())
	if err != nil {
		logger.Error("export: failed", "error", err)
		return
	}
	logger.Info("export: written", "disk", config.ExportDisk(), "path", path)
}
