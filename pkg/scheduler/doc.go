// Package scheduler arbitrates which transient bar is visible.
//
// A Scheduler tracks at most one active bar (the one currently eligible to
// be SHOWING or SHOWN) and at most one pending replacement. Show and dismiss
// requests may arrive from arbitrary goroutines; the scheduler serializes
// them, together with animation milestones and timer fires, onto a single
// processing goroutine so that the active/pending invariant can never be
// observed partially applied.
//
// # Arbitration
//
// Show promotes the request immediately when the scheduler is idle.
// Otherwise the request takes the pending slot - replacing and cancelling
// any previous pending bar with reason CONSECUTIVE - and the active bar is
// asked to hide with reason CONSECUTIVE. When the active bar finishes its
// hide animation the pending bar, if any, is promoted. Promotion through
// the active slot is the only way a pending bar ever starts showing.
//
// A show of the already active bar is a debounced re-show: the duration is
// refreshed and the auto-dismiss timer re-armed, nothing stacks.
//
// # Auto-Dismiss Timer
//
// A single-shot timer is armed when the active bar reaches SHOWN, unless
// the duration is DurationIndefinite. Each arm or cancel bumps a generation
// counter, so a fire racing an explicit dismiss resolves to a no-op for
// whichever loses. PauseTimer records the exact unexpired remainder;
// ResumeTimer re-arms with exactly that remainder.
//
// # Lifecycle
//
// A Scheduler is an explicitly constructed instance - there is no package
// singleton. Construct with New, inject it where bars are shown, and bound
// its processing goroutine with Start/Stop:
//
//	sched := scheduler.New()
//	sched.Start()
//	defer sched.Stop()
//
// Operations enqueued before Start are processed at Start; operations after
// Stop are dropped.
//
// # Failure Containment
//
// Contract violations (showing a bar that is not HIDDEN, dismissing an
// unknown bar) are absorbed and surfaced as ERROR log events; they never
// propagate to other callers. A bar whose animation hook never completes
// wedges only itself - the scheduler keeps serving other bars - but a
// wedged active bar does block promotion of the pending slot. Guard the
// hook boundary with package watchdog where that matters.
package scheduler
