package scheduler

import (
	"time"

	"github.com/transientbar/transientbar-go/pkg/bar"
	"github.com/transientbar/transientbar-go/pkg/log"
)

// The run* methods below execute exclusively on the processing goroutine.
// Each takes stateMu for its mutations, then releases it before invoking
// controller methods or loggers: controller callbacks may synchronously
// re-enter the scheduler, which only ever enqueues.

// runShow applies a show request. Any negative duration is normalized to
// the indefinite sentinel so it can never reach a timer arm.
func (s *Scheduler) runShow(c *bar.Controller, d time.Duration) {
	if d < 0 {
		d = bar.DurationIndefinite
	}

	var (
		actions []func()
		events  []log.Event
	)

	s.stateMu.Lock()
	logger := s.logger

	switch {
	case c == nil:
		events = append(events, s.errorEvent("show", "nil controller"))

	case s.active != nil && s.active.ID() == c.ID():
		// Debounced re-show of the active bar: refresh duration and
		// timer, never stack.
		events = append(events, s.refreshActiveLocked(c, d)...)

	case s.pending != nil && s.pending.ID() == c.ID():
		// Re-show of the pending bar: refresh its duration in place.
		c.SetDuration(d)
		events = append(events, s.showEvent(c.ID(), d, log.ShowRefreshed))

	case c.State() != bar.StateHidden:
		// Programming error: the controller is mid-flight elsewhere.
		// Absorbed; never propagated to the caller.
		events = append(events,
			s.showEvent(c.ID(), d, log.ShowRejected),
			s.errorEvent("show", "controller is not hidden: "+c.State().String()))

	case s.active == nil:
		c.SetDuration(d)
		s.active = c
		events = append(events, s.showEvent(c.ID(), d, log.ShowActivated))
		actions = append(actions, func() { s.beginShow(c) })

	default:
		// Something else is active: this bar takes the pending slot and
		// the active bar is asked to make way.
		c.SetDuration(d)
		if s.pending != nil {
			prev := s.pending
			events = append(events, s.dismissEvent(prev.ID(), bar.ReasonConsecutive, log.TargetPending))
			actions = append(actions, func() { prev.CancelQueued(bar.ReasonConsecutive) })
		}
		s.pending = c
		s.cancelTimerLocked()
		active := s.active
		events = append(events, s.showEvent(c.ID(), d, log.ShowQueued))
		actions = append(actions, func() { active.BeginHide(bar.ReasonConsecutive) })
	}

	s.stateMu.Unlock()

	s.emit(logger, events)
	for _, fn := range actions {
		fn()
	}
}

// refreshActiveLocked refreshes the duration and timer of the already
// active bar. Caller holds stateMu.
func (s *Scheduler) refreshActiveLocked(c *bar.Controller, d time.Duration) []log.Event {
	c.SetDuration(d)
	events := []log.Event{s.showEvent(c.ID(), d, log.ShowRefreshed)}

	switch {
	case s.timerPaused:
		if d == bar.DurationIndefinite {
			s.cancelTimerLocked()
			events = append(events, s.timerEvent(c.ID(), log.TimerCancelled, 0, 0))
		} else {
			// Stay paused; the new full duration becomes the remainder
			// applied at resume.
			s.pausedRemaining = d
			events = append(events, s.timerEvent(c.ID(), log.TimerPaused, 0, d))
		}

	case c.State() == bar.StateShown:
		s.cancelTimerLocked()
		if d != bar.DurationIndefinite {
			s.armTimerLocked(c, d)
			events = append(events, s.timerEvent(c.ID(), log.TimerArmed, d, 0))
		}

	default:
		// Still SHOWING (or already HIDING): the refreshed duration is
		// picked up at the shown milestone, or not at all.
	}
	return events
}

// runDismiss applies a dismiss request.
func (s *Scheduler) runDismiss(c *bar.Controller, reason bar.DismissReason) {
	var (
		actions []func()
		events  []log.Event
	)

	s.stateMu.Lock()
	logger := s.logger

	switch {
	case c == nil:
		events = append(events, s.errorEvent("dismiss", "nil controller"))

	case s.pending != nil && s.pending.ID() == c.ID():
		p := s.pending
		s.pending = nil
		events = append(events, s.dismissEvent(p.ID(), reason, log.TargetPending))
		actions = append(actions, func() { p.CancelQueued(reason) })

	case s.active != nil && s.active.ID() == c.ID():
		s.cancelTimerLocked()
		active := s.active
		events = append(events, s.dismissEvent(active.ID(), reason, log.TargetActive))
		actions = append(actions, func() { active.BeginHide(reason) })

	default:
		// Already hidden or unknown id: normal no-op, not an error.
		events = append(events, s.dismissEvent(c.ID(), reason, log.TargetUnknown))
	}

	s.stateMu.Unlock()

	s.emit(logger, events)
	for _, fn := range actions {
		fn()
	}
}

// runShowComplete arms the auto-dismiss timer once the active bar reports
// SHOWN.
func (s *Scheduler) runShowComplete(c *bar.Controller) {
	var events []log.Event

	s.stateMu.Lock()
	logger := s.logger

	if c != nil && s.active != nil && s.active.ID() == c.ID() {
		if d := c.Duration(); d >= 0 {
			s.armTimerLocked(c, d)
			events = append(events, s.timerEvent(c.ID(), log.TimerArmed, d, 0))
		}
	}

	s.stateMu.Unlock()
	s.emit(logger, events)
}

// runHideComplete clears the active slot and promotes the pending bar, if
// any. This is the sole promotion path.
func (s *Scheduler) runHideComplete(c *bar.Controller) {
	var (
		actions []func()
		events  []log.Event
	)

	s.stateMu.Lock()
	logger := s.logger

	if c != nil && s.active != nil && s.active.ID() == c.ID() {
		s.active = nil
		s.cancelTimerLocked()

		if s.pending != nil {
			promoted := s.pending
			s.pending = nil
			s.active = promoted
			events = append(events, s.promotionEvent(promoted.ID()))
			actions = append(actions, func() { s.beginShow(promoted) })
		} else {
			events = append(events, s.promotionEvent(""))
		}
	}

	s.stateMu.Unlock()

	s.emit(logger, events)
	for _, fn := range actions {
		fn()
	}
}

// beginShow starts a promoted controller's entrance animation. A failure
// (the owner reused a consumed controller without Reset) is absorbed: the
// slot is released and any pending bar gets its turn.
func (s *Scheduler) beginShow(c *bar.Controller) {
	if err := c.BeginShow(s); err != nil {
		s.stateMu.RLock()
		logger := s.logger
		s.stateMu.RUnlock()
		if logger != nil {
			logger.Log(s.errorEvent("show", "begin show "+c.ID()+": "+err.Error()))
		}
		s.enqueue(func() { s.runShowFailed(c) })
	}
}

// runShowFailed releases the slot of a controller whose BeginShow was
// rejected and promotes the pending bar, if any.
func (s *Scheduler) runShowFailed(c *bar.Controller) {
	var (
		actions []func()
		events  []log.Event
	)

	s.stateMu.Lock()
	logger := s.logger

	if s.active != nil && s.active.ID() == c.ID() {
		s.active = nil
		s.cancelTimerLocked()
		if s.pending != nil {
			promoted := s.pending
			s.pending = nil
			s.active = promoted
			events = append(events, s.promotionEvent(promoted.ID()))
			actions = append(actions, func() { s.beginShow(promoted) })
		}
	}

	s.stateMu.Unlock()

	s.emit(logger, events)
	for _, fn := range actions {
		fn()
	}
}

// emit sends events to the logger outside any lock. Safe with nil logger.
func (s *Scheduler) emit(logger log.Logger, events []log.Event) {
	if logger == nil {
		return
	}
	for _, e := range events {
		logger.Log(e)
	}
}

func (s *Scheduler) showEvent(barID string, d time.Duration, outcome log.ShowOutcome) log.Event {
	return log.Event{
		Timestamp:   time.Now(),
		SchedulerID: s.id,
		BarID:       barID,
		Category:    log.CategoryShow,
		Show:        &log.ShowEvent{Duration: d, Outcome: outcome},
	}
}

func (s *Scheduler) dismissEvent(barID string, reason bar.DismissReason, target log.DismissTarget) log.Event {
	return log.Event{
		Timestamp:   time.Now(),
		SchedulerID: s.id,
		BarID:       barID,
		Category:    log.CategoryDismiss,
		Dismiss:     &log.DismissEvent{Reason: reason.String(), Target: target},
	}
}

func (s *Scheduler) timerEvent(barID string, action log.TimerAction, d, remaining time.Duration) log.Event {
	return log.Event{
		Timestamp:   time.Now(),
		SchedulerID: s.id,
		BarID:       barID,
		Category:    log.CategoryTimer,
		Timer:       &log.TimerEvent{Action: action, Duration: d, Remaining: remaining},
	}
}

func (s *Scheduler) promotionEvent(promotedID string) log.Event {
	return log.Event{
		Timestamp:   time.Now(),
		SchedulerID: s.id,
		BarID:       promotedID,
		Category:    log.CategoryPromotion,
		Promotion:   &log.PromotionEvent{PromotedBarID: promotedID},
	}
}

func (s *Scheduler) errorEvent(op, msg string) log.Event {
	return log.Event{
		Timestamp:   time.Now(),
		SchedulerID: s.id,
		Category:    log.CategoryError,
		Error:       &log.ErrorEventData{Op: op, Message: msg},
	}
}
