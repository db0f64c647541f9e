package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nova-labs/influencer-cli/internal/export"
	"github.com/nova-labs/influencer-cli/internal/store"
)

var exportLimit int

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored contacts to the configured export destination",
	Long:  "Reads contacts saved by earlier runs out of the store and appends them to the configured destination. Rows whose identity key already exists in the destination are skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		sink, err := buildSink(ctx, cfg.Export)
		if err != nil {
			return err
		}

		n, err := exportStored(ctx, st, sink, exportLimit)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contacts.\n", n)
		return nil
	},
}

// exportStored appends stored contacts to the sink. The sink's own key
// check suppresses rows the destination already holds.
func exportStored(ctx context.Context, st store.Store, sink export.Sink, limit int) (int, error) {
	records, err := st.Contacts(ctx, limit)
	if err != nil {
		return 0, eris.Wrap(err, "load stored contacts")
	}
	if len(records) == 0 {
		return 0, nil
	}
	return sink.Append(ctx, records)
}

func init() {
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum contacts to export (0 = all)")
	rootCmd.AddCommand(exportCmd)
}
