package reclassify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/model"
)

// Configuration errors, surfaced before any network activity.
var (
	ErrNoCredentials = errors.New("classifier credentials are required")
	ErrEmptyScope    = errors.New("no expenses in scope")
)

// DefaultConfidenceThreshold is the minimum classifier confidence a proposal
// needs to survive the final filter. The same floor is communicated in the
// prompt; the filter re-checks it because the classifier is untrusted.
const DefaultConfidenceThreshold = 0.75

const (
	defaultBatchPause    = 1500 * time.Millisecond
	defaultFallbackDelay = time.Second
)

// DefaultModel is the primary classifier model.
const DefaultModel = "gemini-2.0-flash"

// fallbackModels maps each primary model to the statically configured
// fallback within its family.
var fallbackModels = map[string]string{
	"gemini-2.0-flash": "gemini-1.5-flash",
	"gemini-2.0-pro":   "gemini-2.0-flash",
	"gemini-1.5-pro":   "gemini-1.5-flash",
}

// FallbackFor returns the fallback model for a primary model.
func FallbackFor(primary string) string {
	if fb, ok := fallbackModels[primary]; ok {
		return fb
	}
	return "gemini-1.5-flash"
}

// Config holds a run's explicit configuration. Nothing is read from ambient
// state; credentials and model choice are always injected.
type Config struct {
	Model               string
	FallbackModel       string
	Credentials         string
	WindowDays          int
	BatchPause          time.Duration
	FallbackDelay       time.Duration
	ConfidenceThreshold float64
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.FallbackModel == "" {
		c.FallbackModel = FallbackFor(c.Model)
	}
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.BatchPause <= 0 {
		c.BatchPause = defaultBatchPause
	}
	if c.FallbackDelay <= 0 {
		c.FallbackDelay = defaultFallbackDelay
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
}

// Result aggregates the surviving proposals of a run.
type Result struct {
	Changes          []model.Change
	NewSubcategories []string
	TotalBatches     int
	SkippedBatches   int
}

// Runner drives the batch reclassification loop.
type Runner struct {
	client Generator
	logger *slog.Logger
	cfg    Config
}

// NewRunner creates a runner. The client is typically a gemini.Client; tests
// inject fakes.
func NewRunner(client Generator, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()
	return &Runner{client: client, cfg: cfg, logger: logger}
}

// Run reclassifies the given in-scope expenses. Batches are processed
// strictly sequentially with a fixed pause between them, respecting the
// external service's rate limits. Each batch walks an explicit state
// machine: attempt primary, on any failure wait briefly and attempt the
// fallback model once, and on a second failure skip the batch. A single bad
// batch never aborts the run. Validated proposals are aggregated across
// batches and pass a final confidence and taxonomy gate.
func (r *Runner) Run(ctx context.Context, expenses []model.Expense, mode Mode, subcategories model.SubcategoryMap, onProgress ProgressFunc) (*Result, error) {
	if r.cfg.Credentials == "" {
		return nil, ErrNoCredentials
	}
	if len(expenses) == 0 {
		return nil, ErrEmptyScope
	}
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	merchants := merchantFrequency(expenses)
	batches := splitBatches(expenses, r.cfg.WindowDays)

	r.logger.Info("starting reclassification run",
		"expenses", len(expenses),
		"batches", len(batches),
		"mode", mode,
		"model", r.cfg.Model)

	result := &Result{TotalBatches: len(batches)}
	seenSubcategories := make(map[string]bool)

	for i, batch := range batches {
		if i > 0 {
			if err := pause(ctx, r.cfg.BatchPause); err != nil {
				return nil, err
			}
		}
		onProgress(Progress{Current: i + 1, Total: len(batches)})

		prompt := buildPrompt(batch, subcategories, merchants, mode)

		resp, err := r.attempt(ctx, r.cfg.Model, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("primary model attempt failed",
				"batch", i+1,
				"model", r.cfg.Model,
				"error", err)

			if perr := pause(ctx, r.cfg.FallbackDelay); perr != nil {
				return nil, perr
			}
			onProgress(Progress{Current: i + 1, Total: len(batches), Retrying: true})

			resp, err = r.attempt(ctx, r.cfg.FallbackModel, prompt)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				r.logger.Warn("batch skipped after fallback failure",
					"batch", i+1,
					"fallback_model", r.cfg.FallbackModel,
					"error", err)
				result.SkippedBatches++
				continue
			}
		}

		result.Changes = append(result.Changes, resp.Changes...)
		for _, sub := range resp.NewSubcategories {
			if sub == "" || seenSubcategories[sub] {
				continue
			}
			seenSubcategories[sub] = true
			result.NewSubcategories = append(result.NewSubcategories, sub)
		}
	}

	result.Changes = r.filterChanges(result.Changes)
	if mode == ModeConservative {
		// The prompt demands an empty list in conservative mode; a
		// classifier that ignores that gets the same treatment as any other
		// instruction violation.
		result.NewSubcategories = nil
	}

	r.logger.Info("reclassification run complete",
		"proposals", len(result.Changes),
		"new_subcategories", len(result.NewSubcategories),
		"skipped_batches", result.SkippedBatches)

	return result, nil
}

// attempt performs one network call and validates its payload. Validation
// failures count the same as transport failures for retry purposes.
func (r *Runner) attempt(ctx context.Context, modelName, prompt string) (*batchResponse, error) {
	text, err := r.client.Generate(ctx, modelName, prompt)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", modelName, err)
	}
	resp, err := parseBatchResponse(text)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", modelName, err)
	}
	return resp, nil
}

// filterChanges applies the confidence floor and the category allow-list.
// This is a second, independent check: the classifier was told the rules but
// is not trusted to have followed them.
func (r *Runner) filterChanges(changes []model.Change) []model.Change {
	kept := make([]model.Change, 0, len(changes))
	for _, ch := range changes {
		if ch.Confidence < r.cfg.ConfidenceThreshold {
			r.logger.Debug("dropping low-confidence proposal",
				"transaction_id", ch.TransactionID,
				"confidence", ch.Confidence)
			continue
		}
		if !model.IsAllowedCategory(ch.NewCategory) {
			r.logger.Debug("dropping proposal with unknown category",
				"transaction_id", ch.TransactionID,
				"category", ch.NewCategory)
			continue
		}
		kept = append(kept, ch)
	}
	return kept
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
