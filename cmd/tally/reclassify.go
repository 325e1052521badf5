package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tally/internal/cli"
	"tally/internal/model"
	"tally/internal/reclassify"
	"tally/internal/storage"
)

// undoWindow is how long the snapshot is held for an interactive undo after
// an apply. This is a CLI policy; the engine itself does not expire
// snapshots.
const undoWindow = 30 * time.Second

func reclassifyCmd() *cobra.Command {
	var (
		scopeFlag  string
		modeFlag   string
		modelFlag  string
		windowDays int
		dryRun     bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reclassify",
		Short: "Re-categorize historical expenses with the classifier",
		Long: `Reclassify partitions the in-scope expenses into date-bounded batches,
asks the classifier for improvements batch by batch, and presents the
surviving proposals for review before anything is written. Applied runs can
be undone within a short window.

Examples:
  # Review the last 90 days conservatively
  tally reclassify --scope 90

  # Let the classifier propose new subcategories over everything
  tally reclassify --scope all --mode deep

  # See proposals without applying
  tally reclassify --scope 30 --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			scope, err := reclassify.ParseScope(scopeFlag)
			if err != nil {
				return err
			}
			mode, err := reclassify.ParseMode(modeFlag)
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
			scoped := reclassify.ScopedExpenses(expenses, scope)
			if len(scoped) == 0 {
				return fmt.Errorf("no expenses in scope %s", scope)
			}
			subcategories, err := store.GetSubcategories(ctx)
			if err != nil {
				return err
			}

			client, err := newGeminiClient()
			if err != nil {
				return err
			}
			primary := configuredModel(modelFlag)
			runner := reclassify.NewRunner(client, reclassify.Config{
				Model:         primary,
				FallbackModel: viper.GetString("gemini.fallback_model"),
				Credentials:   classifierKey(),
				WindowDays:    windowDays,
			}, nil)

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Reclassifying %d expenses (%s, %s mode)", len(scoped), scope, mode))) //nolint:forbidigo // User-facing output

			bar := progressbar.NewOptions(1,
				progressbar.OptionSetDescription("classifying"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			result, err := runner.Run(ctx, scoped, mode, subcategories, func(p reclassify.Progress) {
				bar.ChangeMax(p.Total)
				if p.Retrying {
					bar.Describe(fmt.Sprintf("batch %d/%d (retrying on fallback)", p.Current, p.Total))
					return
				}
				bar.Describe(fmt.Sprintf("batch %d/%d", p.Current, p.Total))
				_ = bar.Set(p.Current - 1)
			})
			if err != nil {
				return err
			}
			_ = bar.Finish()

			if result.SkippedBatches > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%d of %d batches failed and were skipped", result.SkippedBatches, result.TotalBatches))) //nolint:forbidigo // User-facing output
			}
			if len(result.Changes) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no confident improvements proposed")) //nolint:forbidigo // User-facing output
				return nil
			}

			byID := make(map[string]model.Expense, len(expenses))
			for _, e := range expenses {
				byID[e.ID] = e
			}
			renderProposals(result.Changes, byID)

			if dryRun {
				fmt.Println(cli.SubtleStyle.Render("dry run - nothing applied")) //nolint:forbidigo // User-facing output
				return nil
			}

			reader := bufio.NewReader(os.Stdin)
			approved := result.Changes
			if !yes {
				approved = selectProposals(reader, result.Changes, byID)
				if len(approved) == 0 {
					fmt.Println("nothing approved, aborting") //nolint:forbidigo // User-facing output
					return nil
				}
			}

			approvedSubcategories := 0
			if mode == reclassify.ModeDeep && len(result.NewSubcategories) > 0 {
				approvedSubcategories, err = approveSubcategories(ctx, store, reader, subcategories, result.Changes, result.NewSubcategories, yes)
				if err != nil {
					return err
				}
			}

			applier := reclassify.NewApplier(store, nil)
			snapshot, updated, err := applier.Apply(ctx, approved, reclassify.ApplyMetadata{
				Mode:                mode,
				Scope:               scope,
				NewSubcategoryCount: approvedSubcategories,
			})
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("applied %d changes", updated))) //nolint:forbidigo // User-facing output

			return offerUndo(cmd, applier, snapshot)
		},
	}

	cmd.Flags().StringVar(&scopeFlag, "scope", "all", `date scope: "all" or a number of days`)
	cmd.Flags().StringVar(&modeFlag, "mode", "conservative", "reclassification mode (conservative, deep)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "primary classifier model")
	cmd.Flags().IntVar(&windowDays, "window", reclassify.DefaultWindowDays, "max days per batch")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show proposals without applying them")
	cmd.Flags().BoolVar(&yes, "yes", false, "apply all proposals without review")

	return cmd
}

func renderProposals(changes []model.Change, byID map[string]model.Expense) {
	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-10s  %-30s  %-24s  %-24s  %s", "DATE", "DETAILS", "CURRENT", "PROPOSED", "CONF"))) //nolint:forbidigo // User-facing output
	for _, ch := range changes {
		e := byID[ch.TransactionID]
		current := e.Category
		if e.Subcategory != "" {
			current += "/" + e.Subcategory
		}
		proposed := ch.NewCategory
		if ch.NewSubcategory != nil && *ch.NewSubcategory != "" {
			proposed += "/" + *ch.NewSubcategory
		}
		details := e.Details
		if ch.NewDescription != nil {
			details += cli.SubtleStyle.Render(" → " + *ch.NewDescription)
		}
		fmt.Printf("%-10s  %-30.30s  %-24s  %-24s  %.2f\n", e.Date, details, current, proposed, ch.Confidence) //nolint:forbidigo // User-facing output
	}
}

func selectProposals(reader *bufio.Reader, changes []model.Change, byID map[string]model.Expense) []model.Change {
	kept := make([]model.Change, 0, len(changes))
	for _, ch := range changes {
		e := byID[ch.TransactionID]
		fmt.Printf("%s %s %s → %s (%.2f) keep? [Y/n]: ", //nolint:forbidigo // User prompt
			cli.FormatPrompt("apply"), e.Date, e.Category, ch.NewCategory, ch.Confidence)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) == "n" {
			continue
		}
		kept = append(kept, ch)
	}
	return kept
}

// approveSubcategories asks the user about each subcategory name a deep run
// proposed and persists the approved ones. The parent category is inferred
// from the first change that uses the name; names with no using change are
// offered under whichever category the user confirms is implied, so they are
// skipped instead.
func approveSubcategories(ctx context.Context, store *storage.BoltStore, reader *bufio.Reader, subcategories model.SubcategoryMap, changes []model.Change, proposed []string, yes bool) (int, error) {
	parentFor := make(map[string]string)
	for _, ch := range changes {
		if ch.NewSubcategory == nil {
			continue
		}
		if _, ok := parentFor[*ch.NewSubcategory]; !ok {
			parentFor[*ch.NewSubcategory] = ch.NewCategory
		}
	}

	approved := 0
	for _, name := range proposed {
		parent, ok := parentFor[name]
		if !ok || subcategories.Contains(parent, name) {
			continue
		}
		if !yes {
			fmt.Printf("%s new subcategory %q under %s? [y/N]: ", cli.FormatPrompt("approve"), name, parent) //nolint:forbidigo // User prompt
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				continue
			}
		}
		if err := subcategories.Approve(parent, name); err != nil {
			fmt.Println(cli.FormatWarning(err.Error())) //nolint:forbidigo // User-facing output
			continue
		}
		approved++
	}
	if approved > 0 {
		if err := store.SaveSubcategories(ctx, subcategories); err != nil {
			return 0, err
		}
	}
	return approved, nil
}

func offerUndo(cmd *cobra.Command, applier *reclassify.Applier, snapshot *reclassify.Snapshot) error {
	if snapshot.Len() == 0 {
		return nil
	}
	fmt.Printf("press u then Enter within %s to undo: ", undoWindow) //nolint:forbidigo // User prompt

	answerCh := make(chan string, 1)
	go func() {
		// The read blocks until the user types a line and cannot be
		// interrupted; if the window elapses first the goroutine lingers
		// until process exit. The buffered channel keeps the late send
		// from blocking it forever.
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		answerCh <- strings.ToLower(strings.TrimSpace(line))
	}()

	select {
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	case <-time.After(undoWindow):
		fmt.Println("\nundo window elapsed, snapshot discarded") //nolint:forbidigo // User-facing output
		return nil
	case answer := <-answerCh:
		if answer != "u" {
			return nil
		}
		if err := applier.Undo(cmd.Context(), snapshot); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("reclassification undone")) //nolint:forbidigo // User-facing output
		return nil
	}
}
