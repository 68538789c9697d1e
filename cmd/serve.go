package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/litguess/internal/cloud"
	"github.com/abhisek/litguess/internal/config"
	"github.com/abhisek/litguess/internal/progress"
	"github.com/abhisek/litguess/internal/store"
)

// playerNamespace prefixes each player's keys in the server database.
const playerNamespace = "player:"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cloud-save server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ServeAddr = addr
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
		slog.SetDefault(logger)

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("Failed to close store", "error", closeErr)
			}
		}()

		srv := cloud.NewServer(func(playerID string) progress.Backend {
			return st.KV(playerNamespace + playerID)
		}, logger)

		httpSrv := &http.Server{
			Addr:        cfg.ServeAddr,
			Handler:     srv.Routes(),
			ReadTimeout: 30 * time.Second,
			// Websocket connections stay open; no WriteTimeout.
			IdleTimeout: 120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server listening", "addr", cfg.ServeAddr, "db", dbPath)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LITGUESS_ADDR)")
}
