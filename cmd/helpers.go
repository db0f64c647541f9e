package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/config"
	"github.com/nova-labs/influencer-cli/internal/export"
	"github.com/nova-labs/influencer-cli/internal/model"
	"github.com/nova-labs/influencer-cli/internal/pipeline"
	"github.com/nova-labs/influencer-cli/internal/store"
	"github.com/nova-labs/influencer-cli/pkg/notion"
	"github.com/nova-labs/influencer-cli/pkg/social"
)

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// buildSink constructs the configured export destination.
func buildSink(ctx context.Context, c config.ExportConfig) (export.Sink, error) {
	switch c.Format {
	case "", "csv":
		return export.NewCSVSink(c.CSVPath), nil
	case "xlsx":
		return export.NewXLSXSink(c.XLSXPath, c.Sheet), nil
	case "sheets":
		return export.NewSheetsSink(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.Worksheet)
	case "notion":
		return &export.NotionSink{
			Client:     notion.NewClient(cfg.Notion.Token),
			DatabaseID: cfg.Notion.ContactDB,
		}, nil
	default:
		return nil, eris.Errorf("unsupported export format: %s", c.Format)
	}
}

// buildQualifier loads the role vocabulary when one is configured.
func buildQualifier() (*pipeline.Qualifier, error) {
	var vocab []string
	if cfg.Qualify.VocabFile != "" {
		v, err := pipeline.LoadVocabulary(cfg.Qualify.VocabFile)
		if err != nil {
			return nil, eris.Wrap(err, "load qualifier vocabulary")
		}
		vocab = v
	}
	return pipeline.NewQualifier(vocab, cfg.Qualify.Disabled), nil
}

// buildEnricher returns nil when live platform lookups are disabled.
func buildEnricher() *pipeline.Enricher {
	if !cfg.Social.Enabled || cfg.Social.Key == "" {
		return nil
	}
	opts := []social.Option{}
	if cfg.Social.BaseURL != "" {
		opts = append(opts, social.WithBaseURL(cfg.Social.BaseURL))
	}
	timeout := time.Duration(cfg.Enrich.TimeoutSecs) * time.Second
	return pipeline.NewEnricher(social.NewClient(cfg.Social.Key, opts...), timeout)
}

// runThroughPipeline processes payloads, persists the run, and returns the
// outcome. The run record is written even when the pipeline fails.
func runThroughPipeline(ctx context.Context, st store.Store, source string, payloads []pipeline.RawPayload, filters model.FilterSet) (*pipeline.Result, error) {
	qualifier, err := buildQualifier()
	if err != nil {
		return nil, err
	}
	sink, err := buildSink(ctx, cfg.Export)
	if err != nil {
		return nil, err
	}

	seen, err := st.SeenKeys(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load stored identity keys")
	}

	run, err := st.CreateRun(ctx, source)
	if err != nil {
		return nil, eris.Wrap(err, "create run")
	}

	p := pipeline.New(qualifier, buildEnricher(), sink, filters).WithSeenKeys(seen)
	result, err := p.Run(ctx, payloads)
	if err != nil {
		if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
			zap.L().Warn("failed to record run failure", zap.Error(ferr))
		}
		return nil, err
	}

	if _, err := st.SaveContacts(ctx, run.ID, result.Records); err != nil {
		zap.L().Warn("failed to persist contacts", zap.Error(err))
	}
	if err := st.CompleteRun(ctx, run.ID, &model.RunResult{
		Discovered:   result.Discovered,
		Deduplicated: result.Deduplicated,
		Qualified:    result.Qualified,
		Exported:     result.Exported,
	}); err != nil {
		zap.L().Warn("failed to record run completion", zap.Error(err))
	}

	return result, nil
}
