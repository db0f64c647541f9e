package pipeline

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// DefaultVocabulary returns the built-in qualifying-role terms. A record
// whose job title or niche contains any of these (case-insensitive
// substring) counts as an influencer-type contact.
func DefaultVocabulary() []string {
	return []string{
		"influencer", "content creator", "creator", "blogger", "vlogger",
		"youtuber", "social media", "social media manager", "community manager",
		"marketing", "brand ambassador", "ambassador", "public relations", "pr",
		"journalist", "reporter", "editor", "writer", "author", "columnist",
		"podcaster", "host", "presenter", "correspondent", "analyst",
	}
}

// Qualifier decides whether a record counts as a qualifying influencer
// contact. It is a cheap high-recall filter, not a classifier: false
// positives are accepted by design.
type Qualifier struct {
	vocab    []string
	disabled bool
}

// NewQualifier builds a Qualifier over the given role vocabulary. A nil
// vocabulary uses the defaults. When disabled, every record passes.
func NewQualifier(vocab []string, disabled bool) *Qualifier {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	lowered := make([]string, len(vocab))
	for i, term := range vocab {
		lowered[i] = strings.ToLower(term)
	}
	return &Qualifier{vocab: lowered, disabled: disabled}
}

// LoadVocabulary reads a YAML file containing a list of role terms.
func LoadVocabulary(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "qualify: read vocabulary file")
	}
	var vocab []string
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, eris.Wrap(err, "qualify: parse vocabulary file")
	}
	return vocab, nil
}

// Qualifies reports whether the record passes: a vocabulary term appears in
// its job title or niche text, or it has at least one social handle.
func (q *Qualifier) Qualifies(r model.ContactRecord) bool {
	if q.disabled {
		return true
	}
	text := strings.ToLower(r.JobTitle + " " + r.DomainNiche)
	for _, term := range q.vocab {
		if strings.Contains(text, term) {
			return true
		}
	}
	return r.HasAnyHandle()
}

// Filter returns the qualifying subsequence in input order.
func (q *Qualifier) Filter(records []model.ContactRecord) []model.ContactRecord {
	if q.disabled {
		return records
	}
	out := make([]model.ContactRecord, 0, len(records))
	for _, r := range records {
		if q.Qualifies(r) {
			out = append(out, r)
		}
	}
	return out
}
