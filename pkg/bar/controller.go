package bar

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/transientbar/transientbar-go/pkg/log"
)

// Controller errors.
var (
	ErrNotHidden = errors.New("bar is not hidden")
	ErrConsumed  = errors.New("bar already completed a show cycle")
	ErrMidFlight = errors.New("bar is mid show cycle")
)

// Show duration sentinels and defaults.
const (
	// DurationIndefinite disables the auto-dismiss timer. The bar stays
	// shown until explicitly dismissed.
	DurationIndefinite time.Duration = -1

	// DurationShort is the conventional short display duration.
	DurationShort = 1500 * time.Millisecond

	// DurationLong is the conventional long display duration.
	DurationLong = 2750 * time.Millisecond
)

// State represents the bar lifecycle state.
type State uint8

const (
	// StateHidden indicates the bar is not displayed. Initial and terminal.
	StateHidden State = iota

	// StateShowing indicates the entrance animation is running.
	StateShowing

	// StateShown indicates the bar is fully visible.
	StateShown

	// StateHiding indicates the exit animation is running.
	StateHiding
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateHidden:
		return "HIDDEN"
	case StateShowing:
		return "SHOWING"
	case StateShown:
		return "SHOWN"
	case StateHiding:
		return "HIDING"
	default:
		return "UNKNOWN"
	}
}

// Controller owns the show/hide state machine for one transient bar.
//
// The owner that created the bar's content owns the Controller. A scheduler
// holds a non-owning reference while the controller is active or pending and
// drops it once the controller returns to HIDDEN.
type Controller struct {
	mu sync.Mutex

	// id is stable for the controller's lifetime.
	id string

	// Current lifecycle state.
	state State

	// Requested visible duration (DurationIndefinite disables the timer).
	duration time.Duration

	// Collaborators.
	hook AnimationHook
	host HostView

	// Milestone sink installed by the scheduler at show time.
	sched SchedulerCallbacks

	// Hide requested while the show animation was still running. Executed
	// as soon as the entrance animation completes; first request wins.
	hideDeferred    bool
	hideDeferredWhy DismissReason

	// Set once a show cycle completes. Cleared by Reset.
	consumed bool

	// Owner notifications.
	onShown     func()
	onDismissed func(DismissReason)

	// Event logging (optional).
	logger log.Logger
}

// New creates a controller for one bar instance. hook must be non-nil; host
// may be nil when the presentation layer needs no signals.
func New(hook AnimationHook, host HostView) *Controller {
	return &Controller{
		id:       uuid.NewString(),
		state:    StateHidden,
		duration: DurationShort,
		hook:     hook,
		host:     host,
	}
}

// ID returns the controller's stable opaque identity.
func (c *Controller) ID() string {
	return c.id
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Duration returns the requested visible duration.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// SetDuration records the requested visible duration. The scheduler calls
// this on every show request, including a debounced re-show.
func (c *Controller) SetDuration(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = d
}

// OnShown sets the owner callback invoked when the bar reaches SHOWN.
func (c *Controller) OnShown(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onShown = fn
}

// OnDismissed sets the owner callback invoked when the bar is dismissed.
// For a bar cancelled while queued, this fires without the bar ever having
// been shown.
func (c *Controller) OnDismissed(fn func(DismissReason)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDismissed = fn
}

// SetLogger sets the event logger. Pass nil to disable logging.
func (c *Controller) SetLogger(logger log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// Reset prepares a controller that completed a show cycle for reuse.
// It is only legal while the controller is HIDDEN.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateHidden {
		return ErrMidFlight
	}
	c.consumed = false
	c.hideDeferred = false
	c.sched = nil
	return nil
}

// BeginShow starts the entrance animation. Called by the scheduler when the
// controller is promoted to the active slot.
//
// Precondition: the controller is HIDDEN and has not already consumed its
// show cycle.
func (c *Controller) BeginShow(sched SchedulerCallbacks) error {
	c.mu.Lock()

	if c.state != StateHidden {
		c.mu.Unlock()
		return ErrNotHidden
	}
	if c.consumed {
		c.mu.Unlock()
		return ErrConsumed
	}

	c.state = StateShowing
	c.sched = sched
	host := c.host
	hook := c.hook
	logger := c.logger

	c.mu.Unlock()

	c.logStateChange(logger, StateHidden, StateShowing, "")

	if host != nil {
		host.BeginShowing()
	}

	var once sync.Once
	hook.AnimateIn(func() {
		once.Do(c.finishShow)
	})
	return nil
}

// BeginHide starts the exit animation with the given reason. Called by the
// scheduler for timeout, replacement, and explicit dismissals.
//
// If the entrance animation is still running, the request is recorded and
// executed as soon as the entrance completes; the first recorded reason
// wins. Calls while already HIDING or HIDDEN are no-ops.
func (c *Controller) BeginHide(reason DismissReason) {
	c.mu.Lock()

	switch c.state {
	case StateHidden, StateHiding:
		c.mu.Unlock()
		return

	case StateShowing:
		if !c.hideDeferred {
			c.hideDeferred = true
			c.hideDeferredWhy = reason
		}
		c.mu.Unlock()
		return
	}

	// StateShown
	c.hideLocked(reason)
}

// hideLocked transitions SHOWN → HIDING and fires the exit animation.
// The caller must hold c.mu; it is released before collaborators run.
func (c *Controller) hideLocked(reason DismissReason) {
	c.state = StateHiding
	host := c.host
	hook := c.hook
	logger := c.logger

	c.mu.Unlock()

	c.logStateChange(logger, StateShown, StateHiding, reason.String())

	if host != nil {
		host.BeginHiding(reason)
	}

	var once sync.Once
	hook.AnimateOut(reason, func() {
		once.Do(func() { c.finishHide(reason) })
	})
}

// CancelQueued dismisses a controller that never left HIDDEN (it was waiting
// in a scheduler's pending slot). No animation hooks run; the owner is
// notified with the given reason.
func (c *Controller) CancelQueued(reason DismissReason) {
	c.mu.Lock()

	if c.state != StateHidden {
		c.mu.Unlock()
		return
	}
	dismissed := c.onDismissed
	logger := c.logger

	c.mu.Unlock()

	c.logStateChange(logger, StateHidden, StateHidden, reason.String())

	if dismissed != nil {
		dismissed(reason)
	}
}

// finishShow advances SHOWING → SHOWN once the entrance animation reports
// completion. A hide deferred during the entrance is executed immediately;
// in that case the scheduler's shown milestone is suppressed so no
// auto-dismiss timer is armed for a bar already on its way out.
func (c *Controller) finishShow() {
	c.mu.Lock()

	if c.state != StateShowing {
		c.mu.Unlock()
		return
	}
	c.state = StateShown

	shown := c.onShown
	sched := c.sched
	logger := c.logger
	deferred := c.hideDeferred
	deferredWhy := c.hideDeferredWhy
	c.hideDeferred = false

	c.mu.Unlock()

	c.logStateChange(logger, StateShowing, StateShown, "")

	if shown != nil {
		shown()
	}

	if deferred {
		c.mu.Lock()
		if c.state == StateShown {
			c.hideLocked(deferredWhy)
		} else {
			c.mu.Unlock()
		}
		return
	}

	if sched != nil {
		sched.OnShowAnimationComplete(c)
	}
}

// finishHide advances HIDING → HIDDEN once the exit animation reports
// completion, notifies the owner, and reports the milestone to the
// scheduler so it can promote a pending bar.
func (c *Controller) finishHide(reason DismissReason) {
	c.mu.Lock()

	if c.state != StateHiding {
		c.mu.Unlock()
		return
	}
	c.state = StateHidden
	c.consumed = true

	dismissed := c.onDismissed
	sched := c.sched
	logger := c.logger
	c.sched = nil

	c.mu.Unlock()

	c.logStateChange(logger, StateHiding, StateHidden, reason.String())

	if dismissed != nil {
		dismissed(reason)
	}
	if sched != nil {
		sched.OnHideAnimationComplete(c)
	}
}

// logStateChange emits a STATE event. Safe with a nil logger.
func (c *Controller) logStateChange(logger log.Logger, old, new State, reason string) {
	if logger == nil {
		return
	}
	logger.Log(log.Event{
		Timestamp: time.Now(),
		BarID:     c.id,
		Category:  log.CategoryState,
		State: &log.StateChangeEvent{
			OldState: old.String(),
			NewState: new.String(),
			Reason:   reason,
		},
	})
}
