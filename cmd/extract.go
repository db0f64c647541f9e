package main

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nova-labs/influencer-cli/internal/model"
	"github.com/nova-labs/influencer-cli/internal/pipeline"
	"github.com/nova-labs/influencer-cli/pkg/hunter"
)

var (
	extractDomains     []string
	extractConcurrency int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract contacts for domains via the discovery provider",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("extract"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		client := hunter.NewClient(cfg.Hunter.Key,
			hunter.WithBaseURL(cfg.Hunter.BaseURL),
			hunter.WithRateLimit(cfg.Hunter.RatePerSec),
		)

		payloads := searchDomains(ctx, client, extractDomains, cfg.Hunter.EmailLimit, extractConcurrency)
		if len(payloads) == 0 {
			zap.L().Warn("no contacts discovered", zap.Strings("domains", extractDomains))
		}

		result, err := runThroughPipeline(ctx, st, "extract", payloads, model.FilterSet{})
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		zap.L().Info("extraction complete",
			zap.Int("domains", len(extractDomains)),
			zap.Int("discovered", result.Discovered),
			zap.Int("exported", result.Exported),
		)
		return nil
	},
}

// searchDomains queries the provider for every domain concurrently.
// Per-domain failures are logged and yield nothing; one unreachable domain
// never aborts the batch.
func searchDomains(ctx context.Context, client hunter.Client, domains []string, limit, concurrency int) []pipeline.RawPayload {
	if concurrency < 1 {
		concurrency = 1
	}

	var mu sync.Mutex
	var payloads []pipeline.RawPayload

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, domain := range domains {
		g.Go(func() error {
			res, err := client.DomainSearch(gctx, domain, limit)
			if err != nil {
				zap.L().Warn("domain search failed",
					zap.String("domain", domain), zap.Error(err))
				return nil
			}

			batch := make([]pipeline.RawPayload, 0, len(res.Emails))
			for _, e := range res.Emails {
				batch = append(batch, pipeline.RawPayload{
					Provider: "hunter",
					Domain:   res.Domain,
					Source:   res.Domain,
					Fields: map[string]any{
						"value":      e.Value,
						"first_name": e.FirstName,
						"last_name":  e.LastName,
						"position":   e.Position,
						"linkedin":   e.LinkedIn,
						"twitter":    e.Twitter,
					},
				})
			}

			mu.Lock()
			payloads = append(payloads, batch...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return payloads
}

func init() {
	extractCmd.Flags().StringSliceVar(&extractDomains, "domain", nil, "target domain (repeatable)")
	extractCmd.Flags().IntVar(&extractConcurrency, "concurrency", 3, "concurrent domain searches")
	_ = extractCmd.MarkFlagRequired("domain")
	rootCmd.AddCommand(extractCmd)
}
