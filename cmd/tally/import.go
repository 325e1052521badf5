package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/csvio"
	"tally/internal/model"
)

func importCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import expenses from a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer func() { _ = f.Close() }()

			imported, err := csvio.Import(f)
			if err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(store)

			expenses, err := store.GetExpenses(ctx)
			if err != nil {
				return err
			}
			if err := store.SaveExpenses(ctx, append(expenses, imported...)); err != nil {
				return err
			}
			if err := store.AppendAuditEvent(ctx, model.AuditEvent{
				Type:         model.EventExpensesImported,
				Timestamp:    time.Now().UTC(),
				ChangedCount: len(imported),
			}); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("imported %d expenses from %s", len(imported), file))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func exportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all expenses to a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(store)

			expenses, err := store.GetExpenses(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", file, err)
			}
			defer func() { _ = f.Close() }()

			if err := csvio.Export(f, expenses); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("exported %d expenses to %s", len(expenses), file))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "destination CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
