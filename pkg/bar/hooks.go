package bar

// AnimationHook runs the show/hide animations for a bar.
//
// Both methods are asynchronous: they must return promptly and invoke
// onComplete exactly once when the animation finishes. The controller
// tolerates duplicate completions, but a completion that never arrives
// wedges the controller permanently.
type AnimationHook interface {
	// AnimateIn runs the entrance animation.
	AnimateIn(onComplete func())

	// AnimateOut runs the exit animation for the given dismissal reason.
	AnimateOut(reason DismissReason, onComplete func())
}

// HostView receives presentation signals from the controller. The controller
// only writes to the host; it never queries layout or visual state.
type HostView interface {
	// BeginShowing signals that the bar is about to animate in.
	BeginShowing()

	// BeginHiding signals that the bar is about to animate out.
	BeginHiding(reason DismissReason)
}

// SchedulerCallbacks is the narrow contract through which a controller
// reports animation milestones back to whatever scheduled it. The scheduler
// implements this interface; the controller never depends on anything else
// from the scheduler.
type SchedulerCallbacks interface {
	// OnShowAnimationComplete is called once the bar has reached SHOWN.
	// Not called when a dismissal was requested during the show animation.
	OnShowAnimationComplete(c *Controller)

	// OnHideAnimationComplete is called once the bar has reached HIDDEN
	// after a hide animation. This is the scheduler's promotion point.
	OnHideAnimationComplete(c *Controller)
}

// InstantAnimation is an AnimationHook that completes synchronously with no
// visual effect. Useful for hosts without an animation subsystem and in
// tests.
type InstantAnimation struct{}

// AnimateIn completes immediately.
func (InstantAnimation) AnimateIn(onComplete func()) { onComplete() }

// AnimateOut completes immediately.
func (InstantAnimation) AnimateOut(_ DismissReason, onComplete func()) { onComplete() }

// Compile-time interface satisfaction check.
var _ AnimationHook = InstantAnimation{}
