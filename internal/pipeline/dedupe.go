package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// Deduplicator filters records whose identity key has already been seen,
// either in destination history loaded at construction or earlier in the
// same run. First occurrence wins; acceptance is monotonic across a run.
//
// The pipeline runs single-threaded, so no locking is needed. Two
// concurrent runs against the same destination may both accept a key; the
// export sink's append is idempotent-by-key so downstream consumers
// re-deduplicate on read if that matters to them.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates a Deduplicator pre-seeded with identity keys
// already present in the destination.
func NewDeduplicator(seenKeys []string) *Deduplicator {
	seen := make(map[string]struct{}, len(seenKeys))
	for _, k := range seenKeys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			seen[k] = struct{}{}
		}
	}
	return &Deduplicator{seen: seen}
}

// Filter returns the subsequence of records with unseen identity keys, in
// input order, marking each accepted key as seen so duplicates within the
// batch collapse to their first occurrence. Records with an empty identity
// key are dropped; the normalizer guarantees they never get this far on the
// main path.
func (d *Deduplicator) Filter(records []model.ContactRecord) []model.ContactRecord {
	out := make([]model.ContactRecord, 0, len(records))
	for _, r := range records {
		key := strings.ToLower(r.IdentityKey)
		if key == "" {
			zap.L().Debug("dedupe: dropping record without identity key",
				zap.String("full_name", r.FullName))
			continue
		}
		if _, dup := d.seen[key]; dup {
			continue
		}
		d.seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Seen reports whether a key has been accepted or pre-seeded.
func (d *Deduplicator) Seen(key string) bool {
	_, ok := d.seen[strings.ToLower(strings.TrimSpace(key))]
	return ok
}
