package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tally/internal/cli"
	"tally/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the category taxonomy and approved subcategories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(store)

			subcategories, err := store.GetSubcategories(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Categories")) //nolint:forbidigo // User-facing output
			for _, cat := range model.Categories {
				line := "  " + cat
				if subs := subcategories[cat]; len(subs) > 0 {
					line += cli.SubtleStyle.Render("  (" + strings.Join(subs, ", ") + ")")
				}
				fmt.Println(line) //nolint:forbidigo // User-facing output
			}
			return nil
		},
	}

	cmd.AddCommand(categoriesApproveCmd())
	return cmd
}

func categoriesApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <category> <subcategory>",
		Short: "Approve a new subcategory under a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(store)

			subcategories, err := store.GetSubcategories(ctx)
			if err != nil {
				return err
			}
			if err := subcategories.Approve(args[0], args[1]); err != nil {
				return err
			}
			if err := store.SaveSubcategories(ctx, subcategories); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("approved %s under %s", args[1], args[0]))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
