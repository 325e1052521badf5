package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/extract"
	"tally/internal/model"
)

func extractCmd() *cobra.Command {
	var modelFlag string

	cmd := &cobra.Command{
		Use:     "extract <text>",
		Short:   "Record an expense from a natural-language description",
		Example: `  tally extract "paid 23.40 for groceries at the co-op yesterday"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text := strings.Join(args, " ")

			client, err := newGeminiClient()
			if err != nil {
				return err
			}
			extractor := extract.NewExtractor(client, configuredModel(modelFlag), nil)

			result, err := extractor.Extract(ctx, text)
			if err != nil {
				return err
			}

			expense := model.Expense{
				ID:             uuid.NewString(),
				Date:           result.Date,
				Amount:         result.Amount,
				Category:       result.Category,
				Details:        result.Details,
				PaidBy:         result.PaidBy,
				CreatedAt:      time.Now().UTC(),
				OriginalPrompt: text,
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

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("recorded %.2f in %s on %s: %s", //nolint:forbidigo // User-facing output
				expense.Amount, expense.Category, expense.Date, expense.Details)))
			return nil
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "classifier model to use")
	return cmd
}
