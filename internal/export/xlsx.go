package export

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/nova-labs/influencer-cli/internal/model"
)

const defaultSheetName = "Influencers"

// XLSXSink appends contact rows to a worksheet inside an XLSX workbook.
type XLSXSink struct {
	Path  string
	Sheet string
}

// NewXLSXSink creates an XLSX sink. An empty sheet name defaults to
// "Influencers".
func NewXLSXSink(path, sheet string) *XLSXSink {
	if sheet == "" {
		sheet = defaultSheetName
	}
	return &XLSXSink{Path: path, Sheet: sheet}
}

// ExistingKeys reads the worksheet and re-derives identity keys from its
// stored rows. A missing workbook means an empty destination.
func (s *XLSXSink) ExistingKeys(ctx context.Context) ([]string, error) {
	f, sheet, err := s.open()
	if err != nil {
		return nil, err
	}
	if f == nil || sheet == nil || len(sheet.Rows) < 2 {
		return nil, nil
	}
	header := rowStrings(sheet.Rows[0])
	keys := make([]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if key := KeyFromRow(header, rowStrings(row)); key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Append adds unseen records as new rows, creating the workbook and header
// row when absent. Existing rows are left untouched.
func (s *XLSXSink) Append(ctx context.Context, records []model.ContactRecord) (int, error) {
	existing, err := s.ExistingKeys(ctx)
	if err != nil {
		return 0, err
	}
	fresh := filterNew(records, keySet(existing))
	if len(fresh) == 0 {
		return 0, nil
	}

	f, sheet, err := s.open()
	if err != nil {
		return 0, err
	}
	if f == nil {
		f = xlsx.NewFile()
	}
	if sheet == nil {
		sheet, err = f.AddSheet(s.Sheet)
		if err != nil {
			return 0, eris.Wrap(err, "xlsx: add sheet")
		}
	}
	if len(sheet.Rows) == 0 {
		writeRow(sheet, Header())
	}
	for _, r := range fresh {
		writeRow(sheet, Row(r))
	}
	if err := f.Save(s.Path); err != nil {
		return 0, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}
	return len(fresh), nil
}

// open loads the workbook and target sheet, returning nils when the file
// does not exist yet.
func (s *XLSXSink) open() (*xlsx.File, *xlsx.Sheet, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil, nil, nil
	}
	f, err := xlsx.OpenFile(s.Path)
	if err != nil {
		return nil, nil, eris.Wrap(ErrDestinationUnavailable, err.Error())
	}
	return f, f.Sheet[s.Sheet], nil
}

func writeRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func rowStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}
