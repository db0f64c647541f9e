package main

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/model"
)

var importCSVPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import previously exported contacts into the run store",
	Long:  "Reads a CSV export and loads its rows into the contact store, so later runs deduplicate against them. Rows whose identity key already exists are skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := readContactCSV(importCSVPath)
		if err != nil {
			return err
		}

		run, err := st.CreateRun(ctx, "import")
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		saved, err := st.SaveContacts(ctx, run.ID, records)
		if err != nil {
			if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
				zap.L().Warn("failed to record run failure", zap.Error(ferr))
			}
			return eris.Wrap(err, "import contacts")
		}

		if err := st.CompleteRun(ctx, run.ID, &model.RunResult{
			Discovered:   len(records),
			Deduplicated: saved,
			Qualified:    saved,
			Exported:     saved,
		}); err != nil {
			zap.L().Warn("failed to record run completion", zap.Error(err))
		}

		zap.L().Info("import complete",
			zap.String("csv", importCSVPath),
			zap.Int("rows", len(records)),
			zap.Int("imported", saved),
		)
		return nil
	},
}

// readContactCSV parses an export-format CSV back into contact records.
// Rows without an identity key are dropped.
func readContactCSV(path string) ([]model.ContactRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open csv %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read csv header")
	}

	var records []model.ContactRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read csv row")
		}
		r := recordFromRow(header, row)
		if r.IdentityKey == "" {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// recordFromRow rebuilds a contact record from the canonical export
// columns. Unknown columns are ignored; missing ones read as empty.
func recordFromRow(header, row []string) model.ContactRecord {
	cell := func(name string) string {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	r := model.ContactRecord{
		Platform:  cell("platform"),
		Domain:    cell("domain"),
		Email:     strings.ToLower(cell("email")),
		FullName:  cell("full_name"),
		FirstName: cell("first_name"),
		LastName:  cell("last_name"),
		JobTitle:  cell("job_title"),
		Source:    cell("source"),
	}
	r.SetHandle("linkedin", cell("linkedin_handle"))
	r.SetHandle("twitter", cell("twitter_handle"))
	r.IdentityKey = r.DeriveIdentityKey()
	return r
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
