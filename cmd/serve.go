package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aegis-locate/aegis-seed/internal/config"
	"github.com/aegis-locate/aegis-seed/internal/locate"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the locate-request ingest server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Ingest.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Ingest.Port),
			Handler:           newIngestHandler(cfg.Ingest),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Ingest.ShutdownSecs)*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Ingest.Port), zap.String("route", locate.Route))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newIngestHandler(c config.IngestConfig) http.Handler {
	return locate.NewHandler(locate.HandlerConfig{
		Secret:         c.WebhookSecret,
		BodyLimit:      int64(c.BodyLimitKB) << 10,
		RateLimit:      c.RateLimit,
		TrustProxy:     c.TrustProxy,
		AllowedOrigins: c.AllowedOrigins,
		Accept: func(_ context.Context, p locate.Payload) error {
			zap.L().Info("locate request accepted",
				zap.String("ticket", p.TicketNumber),
				zap.String("address", p.Address),
				zap.String("received_at", p.ReceivedAt),
			)
			return nil
		},
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
