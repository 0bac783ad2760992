package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tordrt/askdb/internal/cache"
	"github.com/tordrt/askdb/internal/logging"
	"github.com/tordrt/askdb/internal/server"
	"github.com/tordrt/askdb/internal/session"
	"github.com/tordrt/askdb/internal/translator"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schema and question API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Addr
			}

			logger := logging.New(a.cfg.LogLevel, cmd.ErrOrStderr())
			if cmd.Flags().Changed("log-level") {
				logger = logging.New(a.logLevel, cmd.ErrOrStderr())
			}
			gin.SetMode(gin.ReleaseMode)

			parseCache, err := cache.New(a.cfg.CacheEntries, logger)
			if err != nil {
				return err
			}
			defer parseCache.Close()

			tr := translator.NewOpenAI(translator.Config{
				APIKey: a.cfg.OpenAIAPIKey,
				Model:  a.cfg.Model,
			}, logger)
			if a.cfg.OpenAIAPIKey == "" {
				logger.Warn().Msg("OPENAI_API_KEY is not set, questions will not be answered")
			}

			srv := server.New(parseCache, session.NewStore(parseCache, tr), a.cfg.ParseMode, logger).HTTPServer(addr)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down server gracefully")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			logger.Info().Msg("server exiting")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (default from ASKDB_ADDR)")
	return cmd
}
