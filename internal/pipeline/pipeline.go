package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/export"
	"github.com/nova-labs/influencer-cli/internal/model"
)

// Pipeline runs the staged transform from raw provider payloads to exported
// contact rows: normalize, deduplicate, qualify, classify and score, export.
// Each stage fully consumes its input before the next begins.
type Pipeline struct {
	qualifier *Qualifier
	enricher  *Enricher
	sink      export.Sink
	filters   model.FilterSet
	seedKeys  []string
}

// New creates a Pipeline. The enricher may be nil to skip live platform
// lookups; the sink may be nil to skip the export stage.
func New(qualifier *Qualifier, enricher *Enricher, sink export.Sink, filters model.FilterSet) *Pipeline {
	if qualifier == nil {
		qualifier = NewQualifier(nil, false)
	}
	return &Pipeline{
		qualifier: qualifier,
		enricher:  enricher,
		sink:      sink,
		filters:   filters,
	}
}

// WithSeenKeys seeds the deduplicator with identity keys beyond what the
// export destination already holds, typically the run store's saved
// contacts. Returns the pipeline for chaining.
func (p *Pipeline) WithSeenKeys(keys []string) *Pipeline {
	p.seedKeys = keys
	return p
}

// Result holds the stage counters and the surviving records of one run.
type Result struct {
	Discovered   int
	Deduplicated int
	Qualified    int
	Exported     int
	Records      []model.ContactRecord
}

// Run processes one batch of raw payloads. Malformed payloads are skipped
// and logged, never fatal. The deduplicator's seen set is the union of any
// seeded keys and the sink's existing rows, so re-running against the same
// destination only adds new identity keys. Export errors surface to the
// caller unwrapped; every
// other failure degrades to a smaller result.
func (p *Pipeline) Run(ctx context.Context, payloads []RawPayload) (*Result, error) {
	result := &Result{Discovered: len(payloads)}

	records := make([]model.ContactRecord, 0, len(payloads))
	for _, payload := range payloads {
		r, err := Normalize(payload)
		if err != nil {
			zap.L().Warn("pipeline: skipping malformed payload",
				zap.String("provider", payload.Provider),
				zap.String("domain", payload.Domain),
				zap.Error(err))
			continue
		}
		if r.IdentityKey == "" {
			// Name-only records cannot be deduplicated or contacted.
			zap.L().Debug("pipeline: dropping record without identity key",
				zap.String("full_name", r.FullName))
			continue
		}
		records = append(records, r)
	}

	seenKeys := append([]string(nil), p.seedKeys...)
	if p.sink != nil {
		keys, err := p.sink.ExistingKeys(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: load destination keys")
		}
		seenKeys = append(seenKeys, keys...)
	}
	records = NewDeduplicator(seenKeys).Filter(records)
	result.Deduplicated = len(records)

	records = p.qualifier.Filter(records)
	result.Qualified = len(records)

	if p.enricher != nil {
		records = p.enricher.Enrich(ctx, records)
	}

	Classify(records, p.filters)
	result.Records = records

	if p.sink != nil && len(records) > 0 {
		n, err := p.sink.Append(ctx, records)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: export")
		}
		result.Exported = n
	}

	zap.L().Info("pipeline: run complete",
		zap.Int("discovered", result.Discovered),
		zap.Int("deduplicated", result.Deduplicated),
		zap.Int("qualified", result.Qualified),
		zap.Int("exported", result.Exported),
	)
	return result, nil
}
