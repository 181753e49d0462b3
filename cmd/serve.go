package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lehigh-university-libraries/anatomymentor/internal/config"
	"github.com/lehigh-university-libraries/anatomymentor/internal/handlers"
	"github.com/lehigh-university-libraries/anatomymentor/internal/logging"
	"github.com/lehigh-university-libraries/anatomymentor/internal/middleware"
	"github.com/lehigh-university-libraries/anatomymentor/internal/stream"
	"github.com/lehigh-university-libraries/anatomymentor/internal/tutoring"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the AnatomyMentor web interface",
		Long: `Starts the AnatomyMentor web interface on the specified port.

The page explains anatomy topics, generates multiple-choice questions and
describes uploaded images using the configured model provider (Gemini by
default, or OpenAI / Ollama via TUTOR_PROVIDER).`,
		Example: `  # Start server on default port 8501
  anatomymentor serve

  # Start server on custom port
  anatomymentor serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if err := logging.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
				return err
			}

			provider, closeProvider, err := newProvider(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to create %s provider: %w", cfg.Provider, err)
			}
			defer func() {
				if err := closeProvider(); err != nil {
					slog.Error("Unable to close provider", "err", err)
				}
			}()

			tutor := tutoring.NewService(provider, tutoring.WithImageAttached(cfg.AttachImage))
			handler, err := handlers.New(tutor, stream.New(cfg.StreamDelay))
			if err != nil {
				return err
			}

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           newRouter(handler),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("AnatomyMentor interface available", "addr", addr, "url", "http://localhost"+addr,
					"provider", cfg.Provider, "model", cfg.Model)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8501", "Port to listen on")

	return cmd
}

func newRouter(h *handlers.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/", h.HandlePage)
	r.Post("/", h.HandlePage)
	r.Get("/static/*", h.HandleStatic)
	r.Get("/healthcheck", h.HandleHealthcheck)

	return r
}
