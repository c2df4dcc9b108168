package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sentiview/internal/classifier"
	"sentiview/internal/config"
	"sentiview/internal/httpapi"
	"sentiview/internal/lifecycle"
	"sentiview/internal/session"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the web playground",
		Example: "  sentiview serve --addr :8080 --endpoint http://localhost:5000/predict",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, newLogger(cfg.LogLevel, os.Stderr))
		},
	}
	cmd.Flags().String("addr", "", "HTTP listen address, e.g. :8080 (defaults SENTIVIEW_ADDR or :8080)")
	return cmd
}

// controllerFactory builds controllers sharing one transport.
func controllerFactory(cfg config.Config, log zerolog.Logger, pub lifecycle.EventPublisher) func() *lifecycle.Controller {
	client := classifier.New(cfg.Endpoint,
		classifier.WithLogger(log.With().Str("component", "classifier").Logger()),
	)
	labels := lifecycle.DefaultLabels().With(cfg.Labels)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	ctrlLog := log.With().Str("component", "lifecycle").Logger()
	return func() *lifecycle.Controller {
		return lifecycle.New(client,
			lifecycle.WithLabels(labels),
			lifecycle.WithTimeout(timeout),
			lifecycle.WithPublisher(pub),
			lifecycle.WithLogger(ctrlLog),
		)
	}
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(httpLogLevel(cfg.LogLevel))
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, cfg.CORSMethods, cfg.CORSHeaders)
	httpapi.SetSecureCookies(cfg.SecureCookies)
	httpapi.SetBaseContext(ctx)

	ttl := time.Duration(cfg.SessionTTLSeconds) * time.Second
	store := session.NewStore(controllerFactory(cfg, log, httpapi.MetricsPublisher{}), cfg.MaxSessions, ttl)
	httpapi.RegisterSessionsGauge(store.Len)
	go sweepSessions(ctx, store, ttl, log)

	mux := httpapi.NewMux(&httpapi.StoreService{Store: store, Endpoint: cfg.Endpoint})
	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("endpoint", cfg.Endpoint).Msg("sentiview listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	// Graceful shutdown (Ctrl+C / SIGTERM)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	log.Info().Msg("sentiview stopped")
	return nil
}

func sweepSessions(ctx context.Context, store *session.Store, ttl time.Duration, log zerolog.Logger) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := store.Sweep(); n > 0 {
				log.Debug().Int("expired", n).Int("live", store.Len()).Msg("sessions swept")
			}
		}
	}
}

// httpLogLevel maps the process log level to the access log level.
func httpLogLevel(level string) string {
	switch level {
	case "debug", "trace":
		return "debug"
	case "warn", "error", "fatal", "panic":
		return "error"
	case "disabled":
		return "off"
	default:
		return "info"
	}
}
