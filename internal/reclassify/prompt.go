package reclassify

import (
	"fmt"
	"strings"

	"tally/internal/model"
)

// Mode controls how much latitude the classifier gets.
type Mode string

// Reclassification modes.
const (
	// ModeConservative restricts the classifier to the supplied category and
	// subcategory lists.
	ModeConservative Mode = "conservative"
	// ModeDeep additionally lets the classifier propose subcategory names
	// not present in the supplied lists.
	ModeDeep Mode = "deep"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeConservative, ModeDeep:
		return Mode(s), nil
	case "":
		return ModeConservative, nil
	default:
		return "", fmt.Errorf("invalid mode %q (use %q or %q)", s, ModeConservative, ModeDeep)
	}
}

// buildPrompt renders the request body for one batch. The rendering is
// deterministic: categories in taxonomy order, subcategories and merchants
// in their given order, expenses in batch order. Only id, date, amount,
// category, subcategory and details are exposed per expense; paidBy and
// the original prompt never leave the process.
func buildPrompt(batch []model.Expense, subcategories model.SubcategoryMap, merchants []MerchantCount, mode Mode) string {
	var b strings.Builder

	b.WriteString("You are reviewing personal expense records to improve their categorization.\n\n")

	switch mode {
	case ModeDeep:
		b.WriteString("Mode: deep. You may propose new subcategory names when none of the supplied subcategories fits; list every proposed name in new_subcategories.\n\n")
	default:
		b.WriteString("Mode: conservative. Choose only from the supplied category and subcategory lists. new_subcategories must be an empty list.\n\n")
	}

	b.WriteString("Allowed categories:\n")
	for _, cat := range model.Categories {
		b.WriteString("- " + cat)
		if subs := subcategories[cat]; len(subs) > 0 {
			b.WriteString(" (subcategories: " + strings.Join(subs, ", ") + ")")
		}
		b.WriteString("\n")
	}

	if len(merchants) > 0 {
		b.WriteString("\nFrequent merchants across the full set (merchant: occurrences):\n")
		for _, m := range merchants {
			fmt.Fprintf(&b, "- %s: %d\n", m.Merchant, m.Count)
		}
	}

	b.WriteString("\nExpenses to review (id | date | amount | category | subcategory | details):\n")
	for _, e := range batch {
		fmt.Fprintf(&b, "%s | %s | %.2f | %s | %s | %s\n",
			e.ID, e.Date, e.Amount, e.Category, e.Subcategory, e.Details)
	}

	b.WriteString(`
Respond with JSON only, in exactly this shape:
{
  "changes": [
    {
      "transaction_id": "<id>",
      "new_category": "<allowed category>",
      "new_subcategory": "<subcategory or null>",
      "new_description": "<improved description or null>",
      "confidence": <0.0-1.0>
    }
  ],
  "new_subcategories": ["<proposed name>"]
}

Rules:
- Omit an expense from changes entirely if you have no confident improvement for it.
- Only emit a change when your confidence is 0.75 or higher.
- Set new_description only when it is materially better than the current details.
- new_subcategories must always be present, even when empty.`)

	return b.String()
}
