package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/reclassify"
)

func listCmd() *cobra.Command {
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Example: `  tally list
  tally list --scope 30`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := reclassify.ParseScope(scopeFlag)
			if err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(store)

			expenses, err := store.GetExpenses(cmd.Context())
			if err != nil {
				return err
			}
			scoped := reclassify.ScopedExpenses(expenses, scope)
			if len(scoped) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no expenses in scope")) //nolint:forbidigo // User-facing output
				return nil
			}

			fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-10s  %9s  %-13s  %-12s  %s", "DATE", "AMOUNT", "CATEGORY", "SUBCATEGORY", "DETAILS"))) //nolint:forbidigo // User-facing output
			var total float64
			for _, e := range scoped {
				total += e.Amount
				fmt.Printf("%-10s  %9.2f  %-13s  %-12s  %s\n", e.Date, e.Amount, e.Category, e.Subcategory, e.Details) //nolint:forbidigo // User-facing output
			}
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d expenses, %.2f total", len(scoped), total))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeFlag, "scope", "all", `date scope: "all" or a number of days`)
	return cmd
}
