// Package log provides structured event logging for transient bar
// coordination.
//
// This package defines the Logger interface and Event types for capturing
// scheduling decisions (show arbitration, dismissals, timer activity, bar
// state transitions). It is separate from operational logging (slog) -
// event capture provides a complete machine-readable trace for debugging
// and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	sched.SetLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/app/bars.blog")
//	sched.SetLogger(fl)
//
//	// Both: use MultiLogger
//	sched.SetLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	))
//
// # Event Types
//
// Each event carries exactly one category-specific payload:
//   - STATE: a bar state transition (StateChangeEvent)
//   - SHOW: a show request and its arbitration outcome (ShowEvent)
//   - DISMISS: a dismiss request and which slot it hit (DismissEvent)
//   - TIMER: auto-dismiss timer activity (TimerEvent)
//   - PROMOTION: a pending bar promoted to active (PromotionEvent)
//   - ERROR: an absorbed contract violation (ErrorEventData)
//
// # File Format
//
// Log files use CBOR encoding with .blog extension. The transientbar-log
// CLI tool provides viewing, export, and statistics.
package log
