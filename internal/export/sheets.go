package export

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/nova-labs/influencer-cli/internal/model"
)

// valuesClient is the slice of the Sheets API the sink needs; narrowed for
// testability.
type valuesClient interface {
	Get(ctx context.Context, readRange string) ([][]any, error)
	Append(ctx context.Context, writeRange string, rows [][]any) error
}

// SheetsSink appends contact rows to a Google Sheets worksheet.
type SheetsSink struct {
	svc           valuesClient
	spreadsheetID string
	worksheet     string
}

// NewSheetsSink authenticates with a service-account credentials file and
// targets one worksheet of one spreadsheet. Returns
// ErrDestinationUnavailable when the credentials cannot be loaded.
func NewSheetsSink(ctx context.Context, credentialsFile, spreadsheetID, worksheet string) (*SheetsSink, error) {
	if worksheet == "" {
		worksheet = defaultSheetName
	}
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}
	return &SheetsSink{
		svc:           &googleValues{values: srv.Spreadsheets.Values, spreadsheetID: spreadsheetID},
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

// ExistingKeys reads the worksheet and re-derives identity keys from its
// stored rows.
func (s *SheetsSink) ExistingKeys(ctx context.Context) ([]string, error) {
	rows, err := s.svc.Get(ctx, s.readRange())
	if err != nil {
		return nil, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}
	if len(rows) < 2 {
		return nil, nil
	}
	header := cellStrings(rows[0])
	keys := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if key := KeyFromRow(header, cellStrings(row)); key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Append appends unseen records, writing the header row first when the
// worksheet is empty. Pre-existing rows are never touched.
func (s *SheetsSink) Append(ctx context.Context, records []model.ContactRecord) (int, error) {
	rows, err := s.svc.Get(ctx, s.readRange())
	if err != nil {
		return 0, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}

	seen := make(map[string]struct{})
	if len(rows) > 1 {
		header := cellStrings(rows[0])
		for _, row := range rows[1:] {
			if key := KeyFromRow(header, cellStrings(row)); key != "" {
				seen[key] = struct{}{}
			}
		}
	}
	fresh := filterNew(records, seen)
	if len(fresh) == 0 {
		return 0, nil
	}

	var out [][]any
	if len(rows) == 0 {
		out = append(out, toCells(Header()))
	}
	for _, r := range fresh {
		out = append(out, toCells(Row(r)))
	}
	if err := s.svc.Append(ctx, s.readRange(), out); err != nil {
		return 0, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}
	return len(fresh), nil
}

func (s *SheetsSink) readRange() string {
	return fmt.Sprintf("%s!A:L", s.worksheet)
}

// googleValues adapts the generated Sheets client to valuesClient.
type googleValues struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

func (g *googleValues) Get(ctx context.Context, readRange string) ([][]any, error) {
	resp, err := g.values.Get(g.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g *googleValues) Append(ctx context.Context, writeRange string, rows [][]any) error {
	_, err := g.values.Append(g.spreadsheetID, writeRange, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func cellStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func toCells(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
