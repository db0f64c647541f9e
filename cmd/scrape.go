package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/model"
	"github.com/nova-labs/influencer-cli/internal/pipeline"
	"github.com/nova-labs/influencer-cli/internal/scrape"
)

var scrapeDomains []string

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract contacts by scraping public pages",
	Long:  "Fetches contact, about, team, and author pages for each domain and extracts personal email addresses and names. No API keys required.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("scrape"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := []scrape.Option{scrape.WithMaxPages(cfg.Scrape.MaxPages)}
		if cfg.Scrape.UserAgent != "" {
			opts = append(opts, scrape.WithUserAgent(cfg.Scrape.UserAgent))
		}
		scraper := scrape.New(opts...)

		var payloads []pipeline.RawPayload
		for _, domain := range scrapeDomains {
			batch, err := scraper.ScrapeDomain(ctx, domain)
			if err != nil {
				zap.L().Warn("scrape failed",
					zap.String("domain", domain), zap.Error(err))
				continue
			}
			payloads = append(payloads, batch...)
		}

		result, err := runThroughPipeline(ctx, st, "scrape", payloads, model.FilterSet{})
		if err != nil {
			return eris.Wrap(err, "scrape")
		}

		zap.L().Info("scrape complete",
			zap.Int("domains", len(scrapeDomains)),
			zap.Int("discovered", result.Discovered),
			zap.Int("exported", result.Exported),
		)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeDomains, "domain", nil, "target domain (repeatable)")
	_ = scrapeCmd.MarkFlagRequired("domain")
	rootCmd.AddCommand(scrapeCmd)
}
