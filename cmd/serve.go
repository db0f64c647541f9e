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

	"github.com/nova-labs/influencer-cli/internal/finder"
	"github.com/nova-labs/influencer-cli/pkg/llm"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation JSON API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		var client llm.Client
		if cfg.Assistant.Key != "" {
			client = llm.NewClient(cfg.Assistant.Key)
		} else {
			zap.L().Warn("no assistant key configured, recommendations will use the fallback catalog")
		}

		api := &apiServer{
			finder:   finder.New(client, cfg.Assistant.Model),
			enricher: buildEnricher(),
			policy:   filterPolicy(),
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.routes(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
