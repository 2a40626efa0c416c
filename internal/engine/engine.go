package engine

import (
	"errors"

	"go.uber.org/zap"

	"wintriage/internal/domain"
)

// ErrInvalidSnapshot is returned when the engine is handed no usable
// snapshot at all. Per-record anomalies never produce this; they are
// recovered with documented defaults.
var ErrInvalidSnapshot = errors.New("invalid snapshot: nothing to process")

// Engine turns a raw event batch into a compact, bounded report.
// Aggregation, summarization, and formatting are pure functions over
// immutable inputs; the only side channel is the diagnostic logger.
type Engine struct {
	log *zap.Logger
}

// New creates an Engine with the given diagnostic sink. Pass nil to
// discard diagnostics.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{log: logger}
}

// FormatOptions configures report rendering
type FormatOptions struct {
	// BudgetChars is the hard ceiling on the rendered report length.
	// Zero or negative means unlimited.
	BudgetChars int

	// IncludeNetworkInfo toggles the optional network section.
	IncludeNetworkInfo bool
}

// BuildReport runs the full pipeline: aggregate, summarize, format.
// This is the single validating entry point; the individual stages are
// not separately defensive.
func (e *Engine) BuildReport(snap *domain.Snapshot, opts FormatOptions) (string, error) {
	if snap == nil {
		return "", ErrInvalidSnapshot
	}

	groups := e.Aggregate(snap.Events)
	summary := e.Summarize(snap.Events)

	e.log.Debug("built report inputs",
		zap.Int("events", len(snap.Events)),
		zap.Int("groups", len(groups)))

	return e.Format(snap, summary, groups, opts), nil
}
