// Package export serializes scored contact records to tabular
// destinations. Every sink appends monotonically: existing rows are never
// truncated or rewritten, and rows whose identity key already exists in the
// destination are suppressed.
package export

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// ErrDestinationUnavailable signals that the destination store cannot be
// reached (service down, credentials missing, file unwritable). Sinks
// perform no retries; the caller decides whether to retry, buffer, or
// abort.
var ErrDestinationUnavailable = eris.New("export: destination unavailable")

// Sink is a tabular destination for contact records.
type Sink interface {
	// ExistingKeys re-derives the identity keys already present in the
	// destination from its stored email/handle columns.
	ExistingKeys(ctx context.Context) ([]string, error)

	// Append writes the records whose identity key is not already present,
	// writing a header row first when the destination is empty. Returns the
	// number of rows written.
	Append(ctx context.Context, records []model.ContactRecord) (int, error)
}

// Header returns the canonical export column list.
func Header() []string {
	return []string{
		"platform", "domain", "email", "full_name", "first_name", "last_name",
		"job_title", "linkedin_handle", "linkedin_url", "twitter_handle",
		"twitter_url", "source",
	}
}

// Row flattens a record into the canonical column order. Profile URLs are
// derived deterministically from handles.
func Row(r model.ContactRecord) []string {
	return []string{
		r.Platform,
		r.Domain,
		r.Email,
		r.FullName,
		r.FirstName,
		r.LastName,
		r.JobTitle,
		r.Handle("linkedin"),
		r.ProfileURL("linkedin"),
		r.Handle("twitter"),
		r.ProfileURL("twitter"),
		r.Source,
	}
}

// KeyFromRow re-derives the identity key from a stored row, pairing values
// with the given header. Rows shorter than the header are padded with
// empty strings.
func KeyFromRow(header, row []string) string {
	cell := func(name string) string {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}
	r := model.ContactRecord{Email: cell("email")}
	r.SetHandle("linkedin", cell("linkedin_handle"))
	r.SetHandle("twitter", cell("twitter_handle"))
	return r.DeriveIdentityKey()
}

// filterNew returns records whose keys are absent from seen, updating seen
// as it goes so duplicates within the batch collapse.
func filterNew(records []model.ContactRecord, seen map[string]struct{}) []model.ContactRecord {
	out := make([]model.ContactRecord, 0, len(records))
	for _, r := range records {
		key := strings.ToLower(r.IdentityKey)
		if key == "" {
			key = r.DeriveIdentityKey()
		}
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
