package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/dreamware/countries/internal/api"
	"github.com/dreamware/countries/internal/loader"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "127.0.0.1:4123", "listen address")
	cmd.Flags().Float64("rate-limit", 0, "requests per second across all clients (0 disables)")
	cmd.Flags().Int("rate-burst", 20, "burst size for --rate-limit")
	cmd.Flags().Duration("shutdown-timeout", 5*time.Second, "grace period for in-flight requests on shutdown")
	cmd.Flags().Duration("read-header-timeout", 5*time.Second, "http.Server ReadHeaderTimeout")

	for _, key := range []string{"addr", "rate-limit", "rate-burst", "shutdown-timeout", "read-header-timeout"} {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(key))
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger, err := cfg.logger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The dataset is fully built before the listener exists, so no request
	// can observe it half-loaded.
	ds, err := loader.Load(ctx, cfg.Data, loader.WithLogger(logger), loader.WithStrictIDs(cfg.StrictIDs))
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	srv := api.NewServer(ds, api.WithLogger(logger), api.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	logger.Info("countries listening", "addr", ln.Addr().String(), "countries", ds.Len())

	return serve(ctx, httpSrv, ln, cfg.ShutdownTimeout, logger)
}

// serve runs httpSrv on ln until ctx is done or the server fails, then
// shuts it down within timeout.
func serve(ctx context.Context, httpSrv *http.Server, ln net.Listener, timeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
			return err
		}
		logger.Info("countries stopped")
		return nil
	})

	return g.Wait()
}
