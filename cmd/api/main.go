// cmd/api/main.go
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

	"wecastmint/internal/infra/config"
	"wecastmint/internal/infra/logging"
	"wecastmint/internal/platform/di"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		l := logging.New("info", "json", os.Stderr)
		l.Fatal().Err(err).Msg("config load failed")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout).With().Str("component", "boot").Logger()

	// ─────────────────────────────────────────────────────────────
	// Lightweight healthz first so PORT is LISTENed quickly
	// ─────────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// ─────────────────────────────────────────────────────────────
	// DI container; keep /healthz even on failure
	// ─────────────────────────────────────────────────────────────
	cont, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("di init failed (serving /healthz only)")
	} else {
		defer func() {
			if err := cont.Close(); err != nil {
				log.Warn().Err(err).Msg("container close")
			}
		}()

		router, err := cont.Router()
		if err != nil {
			log.Warn().Err(err).Msg("router init failed (serving /healthz only)")
		} else {
			mux.Handle("/", router)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown for Cloud Run
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		log.Info().Str("signal", sig.String()).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("port", cfg.Port).Str("app_url", cfg.AppURL).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithLevel(zerolog.FatalLevel).Err(err).Msg("server error")
		os.Exit(1)
	}

	<-idleConnsClosed
	log.Info().Msg("server stopped")
}
