package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/model"
)

func addCmd() *cobra.Command {
	var (
		date        string
		amount      float64
		category    string
		subcategory string
		details     string
		paidBy      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a single expense",
		Example: `  tally add --amount 12.50 --category Food --details "lunch at the corner cafe"
  tally add --date 2025-06-01 --amount 80 --category Utilities --details "power bill"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if date == "" {
				date = time.Now().Format(model.DateLayout)
			}
			if paidBy == "" {
				paidBy = model.DefaultOwner
			}

			expense := model.Expense{
				ID:          uuid.NewString(),
				Date:        date,
				Amount:      amount,
				Category:    category,
				Subcategory: subcategory,
				Details:     details,
				PaidBy:      paidBy,
				CreatedAt:   time.Now().UTC(),
			}
			if err := expense.Validate(); err != nil {
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
			if err := store.SaveExpenses(ctx, append(expenses, expense)); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("recorded %.2f in %s (%s)", amount, category, expense.ID))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "expense date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "expense amount")
	cmd.Flags().StringVar(&category, "category", "Other", "expense category")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "expense subcategory")
	cmd.Flags().StringVar(&details, "details", "", "free-text description")
	cmd.Flags().StringVar(&paidBy, "paid-by", "", "who paid (default: owner)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
