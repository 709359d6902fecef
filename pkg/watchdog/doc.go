// Package watchdog guards the animation hook boundary.
//
// A bar controller whose animation hook never reports completion is wedged
// permanently, and a wedged active bar blocks promotion of the pending
// slot. The coordination core deliberately does not recover from this; the
// safeguard belongs at the collaborator boundary, which is what this
// package provides.
//
// Wrap the untrusted hook before handing it to a controller:
//
//	hook, _ := watchdog.Wrap(animations, watchdog.Config{
//	    Timeout:       5 * time.Second,
//	    ForceComplete: true,
//	    OnStuck:       func(p watchdog.Phase) { slog.Warn("animation stuck", "phase", p) },
//	})
//	c := bar.New(hook, view)
//
// With ForceComplete set, the watchdog synthesizes the missing completion
// when the timeout fires, so a dead animation subsystem degrades to an
// unanimated bar instead of a stalled scheduler. The controller's
// exactly-once contract still holds if the real completion arrives late.
package watchdog
