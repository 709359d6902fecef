// Package bar implements the per-instance state machine for a transient
// notification bar.
//
// A Controller owns the show/hide lifecycle of exactly one bar and the
// classification of why it stopped being shown. It cycles through four
// states:
//
//	HIDDEN → SHOWING → SHOWN → HIDING → HIDDEN
//
// Transitions into SHOWING and HIDING invoke asynchronous animation hooks;
// the state machine advances only when a hook reports completion. Completion
// is consumed exactly once: duplicate or late completion calls from a
// misbehaving animation subsystem are absorbed.
//
// # Collaborators
//
// The controller consumes two narrow interfaces supplied by the host
// application:
//   - AnimationHook runs the in/out animations and reports completion.
//   - HostView receives write-only "begin showing"/"begin hiding" signals.
//
// It exposes owner notifications via OnShown and OnDismissed, and reports
// animation milestones to whatever scheduled it through SchedulerCallbacks.
// The controller never reaches into scheduler state.
//
// # Single Use
//
// A controller runs one show cycle. After it returns to HIDDEN the owner
// must call Reset before showing it again. Reset is rejected mid-flight.
//
// # Stuck Hooks
//
// An animation hook that never reports completion leaves the controller
// permanently in SHOWING or HIDING. The controller does not retry or time
// out; apply a watchdog at the hook boundary (see package watchdog) if the
// animation subsystem cannot be trusted to complete.
package bar
