package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes coordination events to an slog.Logger.
// Useful for development when you want to see scheduling events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.SchedulerID != "" {
		attrs = append(attrs, slog.String("scheduler_id", event.SchedulerID))
	}
	if event.BarID != "" {
		attrs = append(attrs, slog.String("bar_id", event.BarID))
	}

	// Add type-specific attributes
	switch {
	case event.State != nil:
		attrs = append(attrs,
			slog.String("old_state", event.State.OldState),
			slog.String("new_state", event.State.NewState),
		)
		if event.State.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.State.Reason))
		}
	case event.Show != nil:
		attrs = append(attrs,
			slog.Duration("duration", event.Show.Duration),
			slog.String("outcome", event.Show.Outcome.String()),
		)
	case event.Dismiss != nil:
		attrs = append(attrs,
			slog.String("reason", event.Dismiss.Reason),
			slog.String("target", event.Dismiss.Target.String()),
		)
	case event.Timer != nil:
		attrs = append(attrs, slog.String("action", event.Timer.Action.String()))
		if event.Timer.Duration != 0 {
			attrs = append(attrs, slog.Duration("timer_duration", event.Timer.Duration))
		}
		if event.Timer.Remaining != 0 {
			attrs = append(attrs, slog.Duration("remaining", event.Timer.Remaining))
		}
	case event.Promotion != nil:
		if event.Promotion.PromotedBarID != "" {
			attrs = append(attrs, slog.String("promoted_bar_id", event.Promotion.PromotedBarID))
		} else {
			attrs = append(attrs, slog.Bool("idle", true))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_op", event.Error.Op),
			slog.String("error_msg", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "transientbar", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
