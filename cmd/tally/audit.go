package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
)

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(store)

			log, err := store.GetAuditLog(cmd.Context())
			if err != nil {
				return err
			}
			if len(log) == 0 {
				fmt.Println(cli.SubtleStyle.Render("audit log is empty")) //nolint:forbidigo // User-facing output
				return nil
			}

			for _, e := range log {
				line := fmt.Sprintf("%s  %-26s  %d records", e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.ChangedCount)
				if e.Mode != "" {
					line += fmt.Sprintf("  (mode=%s scope=%s", e.Mode, e.Scope)
					if e.NewSubcategoryCount > 0 {
						line += fmt.Sprintf(" new-subcategories=%d", e.NewSubcategoryCount)
					}
					line += ")"
				}
				fmt.Println(line) //nolint:forbidigo // User-facing output
			}
			return nil
		},
	}
}
