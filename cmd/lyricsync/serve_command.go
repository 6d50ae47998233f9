package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"lyricsync/internal/logging"
	"lyricsync/internal/services/forcedalign"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the forced-alignment service",
		Long: "Run the forced-alignment HTTP service. The alignment model is " +
			"loaded once at startup; if the load fails the service stays up in " +
			"a degraded state and reports it on /healthz.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}

			lockPath := filepath.Join(cfg.Paths.LogDir, "lyricsync-serve.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another lyricsync serve instance is already running (lock %s)", lockPath)
			}
			defer lock.Unlock() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			engine := forcedalign.NewWhisperXEngine(
				filepath.Join(cfg.Paths.WorkDir, "forcedalign"),
				cfg.Transcriber.CUDAEnabled,
			)
			service := forcedalign.NewService(
				engine,
				float64(cfg.ForcedAlign.MaxDurationSeconds),
				cfg.ForcedAlign.MaxInFlight,
				logger,
			)
			service.Start(ctx)

			addr := bind
			if addr == "" {
				addr = cfg.ForcedAlign.Bind
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           forcedalign.NewHandler(service, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()
			logger.Info("forced-alignment service listening",
				logging.String("bind", addr),
			)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				logger.Info("forced-alignment service stopped")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			}
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides forced_align.bind)")
	return cmd
}
