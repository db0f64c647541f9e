package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "influencer-cli",
	Short: "Influencer contact aggregation pipeline",
	Long:  "Aggregates influencer and media contacts from discovery providers, web scraping, and assistant search; deduplicates, qualifies, scores, and exports them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
