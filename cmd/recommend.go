package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/finder"
	"github.com/nova-labs/influencer-cli/internal/model"
	"github.com/nova-labs/influencer-cli/internal/pipeline"
	"github.com/nova-labs/influencer-cli/pkg/llm"
)

var (
	recIndustry     string
	recLocation     string
	recContentTypes []string
	recAudience     string
	recProduct      string
	recMinFollowers string
	recPlatforms    []string
	recLimit        int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Find influencers matching campaign criteria",
	Long:  "Queries the assistant for influencers matching the given filters, enriches them with live platform stats when enabled, and prints a scored, tier-grouped recommendation.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("recommend"); err != nil {
			return err
		}

		filters := model.FilterSet{
			Industry:       recIndustry,
			Location:       recLocation,
			ContentType:    recContentTypes,
			TargetAudience: recAudience,
			ProductType:    recProduct,
			MinFollowers:   model.FollowerThreshold(model.ParseFollowerCount(recMinFollowers)),
			Platforms:      recPlatforms,
		}

		limit := recLimit
		if limit <= 0 {
			limit = cfg.Recommend.Limit
		}

		rec, err := buildRecommendation(ctx, filters, limit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

// buildRecommendation runs the assistant query, optional enrichment, and
// the filtering/scoring stages shared with the serve API.
func buildRecommendation(ctx context.Context, filters model.FilterSet, limit int) (*pipeline.Recommendation, error) {
	var client llm.Client
	if cfg.Assistant.Key != "" {
		client = llm.NewClient(cfg.Assistant.Key)
	}

	candidates, err := finder.New(client, cfg.Assistant.Model).Find(ctx, filters, limit)
	if err != nil {
		return nil, eris.Wrap(err, "assistant search")
	}

	if enricher := buildEnricher(); enricher != nil {
		candidates = enricher.Enrich(ctx, candidates)
	}

	rec := pipeline.BuildRecommendation(candidates, filters, filterPolicy(), limit)
	zap.L().Info("recommendation built",
		zap.Int("candidates", len(candidates)),
		zap.Int("recommended", len(rec.Records)),
	)
	return rec, nil
}

func filterPolicy() pipeline.FilterPolicy {
	if cfg.Recommend.Policy == string(pipeline.PolicyStrict) {
		return pipeline.PolicyStrict
	}
	return pipeline.PolicyBestEffort
}

func init() {
	recommendCmd.Flags().StringVar(&recIndustry, "industry", "", "industry or niche (e.g. fitness, beauty)")
	recommendCmd.Flags().StringVar(&recLocation, "location", "", "audience location")
	recommendCmd.Flags().StringSliceVar(&recContentTypes, "content-type", nil, "content type (repeatable)")
	recommendCmd.Flags().StringVar(&recAudience, "audience", "", "target audience")
	recommendCmd.Flags().StringVar(&recProduct, "product", "", "product type being promoted")
	recommendCmd.Flags().StringVar(&recMinFollowers, "min-followers", "", "minimum follower count (accepts 25K, 1.2M)")
	recommendCmd.Flags().StringSliceVar(&recPlatforms, "platform", nil, "platform (repeatable)")
	recommendCmd.Flags().IntVar(&recLimit, "limit", 0, "max recommendations (default from config)")
	rootCmd.AddCommand(recommendCmd)
}
