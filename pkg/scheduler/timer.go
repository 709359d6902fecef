package scheduler

import (
	"time"

	"github.com/transientbar/transientbar-go/pkg/bar"
	"github.com/transientbar/transientbar-go/pkg/log"
)

// armTimerLocked arms the single-shot auto-dismiss timer for the active
// bar. Caller holds stateMu. A duration of zero fires as soon as the fire
// operation reaches the front of the mailbox.
func (s *Scheduler) armTimerLocked(c *bar.Controller, d time.Duration) {
	s.timerGen++
	gen := s.timerGen
	id := c.ID()

	s.timerArmedAt = time.Now()
	s.timerDuration = d
	s.timerPaused = false
	s.pausedRemaining = 0

	s.timer = time.AfterFunc(d, func() {
		s.enqueue(func() { s.runTimerFire(gen, id) })
	})
}

// cancelTimerLocked stops any armed timer and invalidates in-flight fires.
// Clears pause bookkeeping so pausedRemaining never outlives the show
// cycle it was recorded in. Caller holds stateMu.
func (s *Scheduler) cancelTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerPaused = false
	s.pausedRemaining = 0
}

// runTimerFire handles timer expiry. A fire that lost a race against an
// explicit dismiss, a pause, or a replacement carries a stale generation
// and is a no-op.
func (s *Scheduler) runTimerFire(gen uint64, barID string) {
	var (
		actions []func()
		events  []log.Event
	)

	s.stateMu.Lock()
	logger := s.logger

	if gen == s.timerGen && s.active != nil && s.active.ID() == barID {
		s.timer = nil
		s.timerGen++ // this show cycle's timer never fires twice
		active := s.active
		events = append(events,
			s.timerEvent(barID, log.TimerFired, s.timerDuration, 0),
			s.dismissEvent(barID, bar.ReasonTimeout, log.TargetActive))
		actions = append(actions, func() { active.BeginHide(bar.ReasonTimeout) })
	}

	s.stateMu.Unlock()

	s.emit(logger, events)
	for _, fn := range actions {
		fn()
	}
}

// runPause suspends the armed timer and records the unexpired remainder.
func (s *Scheduler) runPause() {
	var events []log.Event

	s.stateMu.Lock()
	logger := s.logger

	if s.timer != nil && !s.timerPaused {
		s.timer.Stop()
		s.timer = nil
		s.timerGen++ // a fire already in the mailbox is now stale

		remaining := s.timerDuration - time.Since(s.timerArmedAt)
		if remaining < 0 {
			remaining = 0
		}
		s.timerPaused = true
		s.pausedRemaining = remaining

		barID := ""
		if s.active != nil {
			barID = s.active.ID()
		}
		events = append(events, s.timerEvent(barID, log.TimerPaused, 0, remaining))
	}

	s.stateMu.Unlock()
	s.emit(logger, events)
}

// runResume re-arms the timer with exactly the remainder recorded at pause
// time. Pause bookkeeping is cleared on every dismissal and replacement, so
// a paused timer here always belongs to the still-shown active bar.
func (s *Scheduler) runResume() {
	var events []log.Event

	s.stateMu.Lock()
	logger := s.logger

	if s.timerPaused && s.active != nil {
		remaining := s.pausedRemaining
		s.armTimerLocked(s.active, remaining)
		events = append(events, s.timerEvent(s.active.ID(), log.TimerResumed, remaining, 0))
	}

	s.stateMu.Unlock()
	s.emit(logger, events)
}
