// Package extract turns a natural-language expense description into a
// structured expense via a single classifier call. Unlike the batch engine
// it is strictly one-object-per-request.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tally/internal/model"
)

// ErrNoAmount marks input from which no usable amount could be extracted.
// It is a user error, not a service failure.
var ErrNoAmount = errors.New("no amount found in text")

// Generator is the single-call classifier dependency.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Extraction is the structured result of one extraction call.
type Extraction struct {
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Details  string  `json:"details"`
	PaidBy   string  `json:"paidBy"`
	Amount   float64 `json:"amount"`
}

// Extractor performs NL expense extraction.
type Extractor struct {
	client Generator
	logger *slog.Logger
	model  string
}

// NewExtractor creates an extractor bound to one model.
func NewExtractor(client Generator, modelName string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, model: modelName, logger: logger}
}

func buildPrompt(text, today string) string {
	var b strings.Builder
	b.WriteString("Extract a single expense record from the text below.\n\n")
	b.WriteString("Allowed categories: " + strings.Join(model.Categories, ", ") + "\n")
	b.WriteString("Today is " + today + "; resolve relative dates against it.\n\n")
	b.WriteString("Text: " + text + "\n\n")
	b.WriteString(`Respond with JSON only:
{"date": "YYYY-MM-DD", "amount": <number>, "category": "<allowed category>", "details": "<short description>", "paidBy": "<payer or empty string>"}

If the text contains no amount, use 0 for amount.`)
	return b.String()
}

// Extract runs one extraction call and validates the result.
func (e *Extractor) Extract(ctx context.Context, text string) (*Extraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	raw, err := e.client.Generate(ctx, e.model, buildPrompt(text, time.Now().Format(model.DateLayout)))
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	var out Extraction
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("unparseable extraction response: %w", err)
	}
	if out.Amount <= 0 {
		return nil, ErrNoAmount
	}
	if _, err := time.Parse(model.DateLayout, out.Date); err != nil {
		out.Date = time.Now().Format(model.DateLayout)
	}
	if !model.IsAllowedCategory(out.Category) {
		out.Category = "Other"
	}
	if out.PaidBy == "" {
		out.PaidBy = model.DefaultOwner
	}

	e.logger.Debug("extracted expense",
		"amount", out.Amount,
		"category", out.Category,
		"date", out.Date)

	return &out, nil
}
