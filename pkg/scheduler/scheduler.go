package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/transientbar/transientbar-go/pkg/bar"
	"github.com/transientbar/transientbar-go/pkg/log"
)

// Scheduler arbitrates the single visible transient bar and its single
// pending replacement. All operations are fire-and-forget: they enqueue
// onto the scheduler's mailbox and are applied in order by one processing
// goroutine.
type Scheduler struct {
	// id identifies this scheduler instance in log events.
	id string

	// Mailbox. mu guards ops and closed only.
	mu     sync.Mutex
	ops    []func()
	closed bool
	wake   chan struct{}

	// Processing goroutine lifecycle.
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// Arbitration state. Mutated only by ops on the processing goroutine;
	// stateMu makes the read-only inspection methods safe.
	stateMu sync.RWMutex
	active  *bar.Controller
	pending *bar.Controller

	// Auto-dismiss timer for the active bar. timerGen is bumped on every
	// arm and cancel so a stale fire is provably a no-op.
	timer           *time.Timer
	timerGen        uint64
	timerArmedAt    time.Time
	timerDuration   time.Duration
	timerPaused     bool
	pausedRemaining time.Duration

	// Event logging (optional).
	logger log.Logger
}

// New creates a scheduler. Call Start before use.
func New() *Scheduler {
	return &Scheduler{
		id:   uuid.NewString(),
		wake: make(chan struct{}, 1),
	}
}

// ID returns the scheduler's stable identity, as used in log events.
func (s *Scheduler) ID() string {
	return s.id
}

// SetLogger sets the event logger. Pass nil to disable logging.
func (s *Scheduler) SetLogger(logger log.Logger) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.logger = logger
}

// Start begins processing operations. Operations enqueued before the first
// Start are applied first, in order. A stopped scheduler may be started
// again; operations enqueued while stopped are dropped.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return // Already running
	}

	s.mu.Lock()
	s.closed = false
	s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.wg.Add(1)
	go s.processLoop()
	s.signal()
}

// Stop stops the processing goroutine and cancels any outstanding
// auto-dismiss timer. Operations enqueued after Stop are dropped until the
// scheduler is started again.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return // Not running
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.stateMu.Lock()
	s.cancelTimerLocked()
	s.stateMu.Unlock()
}

// Show requests that the bar be shown for the given duration. Any negative
// duration, bar.DurationIndefinite included, disables auto-dismiss.
//
// Fire-and-forget: there is no return value, and contract violations are
// absorbed and reported as ERROR log events rather than surfaced to the
// caller. If another bar is active, this bar takes the pending slot and the
// active bar is asked to hide with reason CONSECUTIVE. Showing the already
// active bar refreshes its duration and timer instead of stacking.
func (s *Scheduler) Show(c *bar.Controller, d time.Duration) {
	s.enqueue(func() { s.runShow(c, d) })
}

// Dismiss requests dismissal of the bar with the given reason. A pending
// bar is cancelled synchronously without animation; an active bar begins
// its hide animation. Dismissing a bar that is neither active nor pending
// is a no-op.
func (s *Scheduler) Dismiss(c *bar.Controller, reason bar.DismissReason) {
	s.enqueue(func() { s.runDismiss(c, reason) })
}

// PauseTimer suspends the active bar's auto-dismiss timer, recording the
// unexpired remainder. No-op when no timer is armed (indefinite duration,
// bar still SHOWING, already paused, or nothing active).
func (s *Scheduler) PauseTimer() {
	s.enqueue(s.runPause)
}

// ResumeTimer re-arms a paused auto-dismiss timer with exactly the
// remainder recorded at pause time. No-op when the timer is not paused.
func (s *Scheduler) ResumeTimer() {
	s.enqueue(s.runResume)
}

// OnShowAnimationComplete implements bar.SchedulerCallbacks. Controllers
// call it when their entrance animation finishes; the scheduler arms the
// auto-dismiss timer here.
func (s *Scheduler) OnShowAnimationComplete(c *bar.Controller) {
	s.enqueue(func() { s.runShowComplete(c) })
}

// OnHideAnimationComplete implements bar.SchedulerCallbacks. Controllers
// call it when their exit animation finishes; this is the sole promotion
// path for the pending slot.
func (s *Scheduler) OnHideAnimationComplete(c *bar.Controller) {
	s.enqueue(func() { s.runHideComplete(c) })
}

// ActiveID returns the id of the active bar, or "" when idle.
func (s *Scheduler) ActiveID() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.active == nil {
		return ""
	}
	return s.active.ID()
}

// PendingID returns the id of the pending bar, or "" when none.
func (s *Scheduler) PendingID() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.pending == nil {
		return ""
	}
	return s.pending.ID()
}

// IsIdle reports whether neither slot is occupied.
func (s *Scheduler) IsIdle() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.active == nil && s.pending == nil
}

// TimerArmed reports whether an auto-dismiss timer is currently armed.
func (s *Scheduler) TimerArmed() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.timer != nil
}

// TimerPaused reports whether the auto-dismiss timer is paused.
func (s *Scheduler) TimerPaused() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.timerPaused
}

// PausedRemaining returns the remainder recorded by PauseTimer. The second
// return is false when the timer is not paused.
func (s *Scheduler) PausedRemaining() (time.Duration, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if !s.timerPaused {
		return 0, false
	}
	return s.pausedRemaining, true
}

// enqueue appends an operation to the mailbox. Never blocks, so operations
// may be enqueued from controller callbacks running on the processing
// goroutine itself.
func (s *Scheduler) enqueue(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.ops = append(s.ops, fn)
	s.mu.Unlock()
	s.signal()
}

// signal wakes the processing goroutine. Coalesces with a pending wakeup.
func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// processLoop drains the mailbox until Stop.
func (s *Scheduler) processLoop() {
	defer s.wg.Done()

	for {
		s.drain()
		select {
		case <-s.ctx.Done():
			return
		case <-s.wake:
		}
	}
}

// drain applies queued operations in order until the mailbox is empty.
func (s *Scheduler) drain() {
	for {
		s.mu.Lock()
		if len(s.ops) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.ops[0]
		s.ops = s.ops[1:]
		s.mu.Unlock()

		fn()
	}
}

// Compile-time interface satisfaction check.
var _ bar.SchedulerCallbacks = (*Scheduler)(nil)
