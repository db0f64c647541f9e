package export

import (
	"context"
	"encoding/csv"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// CSVSink appends contact rows to a CSV file, creating it with a header row
// when absent.
type CSVSink struct {
	Path string
}

// NewCSVSink creates a CSV sink for the given path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{Path: path}
}

// ExistingKeys reads the destination file and re-derives identity keys from
// its email/handle columns. A missing file means an empty destination.
func (s *CSVSink) ExistingKeys(ctx context.Context) ([]string, error) {
	rows, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}
	header := rows[0]
	keys := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if key := KeyFromRow(header, row); key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Append writes unseen records to the file. The write is append-only: a
// pre-existing file is never truncated, and the header row is written only
// when the file is new or empty.
func (s *CSVSink) Append(ctx context.Context, records []model.ContactRecord) (int, error) {
	existing, err := s.ExistingKeys(ctx)
	if err != nil {
		return 0, err
	}
	fresh := filterNew(records, keySet(existing))
	if len(fresh) == 0 {
		return 0, nil
	}

	info, statErr := os.Stat(s.Path)
	empty := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if empty {
		if err := w.Write(Header()); err != nil {
			return 0, eris.Wrap(err, "csv: write header")
		}
	}
	for _, r := range fresh {
		if err := w.Write(Row(r)); err != nil {
			return 0, eris.Wrap(err, "csv: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, eris.Wrap(err, "csv: flush")
	}
	return len(fresh), nil
}

func (s *CSVSink) readAll() ([][]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read existing rows")
	}
	return rows, nil
}
