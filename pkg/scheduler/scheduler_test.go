package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/transientbar/transientbar-go/pkg/bar"
	"github.com/transientbar/transientbar-go/pkg/log"
)

const (
	waitTimeout  = 2 * time.Second
	pollInterval = 5 * time.Millisecond
)

// instantHook completes animations synchronously and counts invocations.
type instantHook struct {
	mu  sync.Mutex
	in  int
	out int
}

func (h *instantHook) AnimateIn(onComplete func()) {
	h.mu.Lock()
	h.in++
	h.mu.Unlock()
	onComplete()
}

func (h *instantHook) AnimateOut(_ bar.DismissReason, onComplete func()) {
	h.mu.Lock()
	h.out++
	h.mu.Unlock()
	onComplete()
}

func (h *instantHook) calls() (in, out int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.in, h.out
}

// manualHook defers animation completion until the test triggers it.
type manualHook struct {
	mu          sync.Mutex
	inComplete  func()
	outComplete func()
}

func (h *manualHook) AnimateIn(onComplete func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inComplete = onComplete
}

func (h *manualHook) AnimateOut(_ bar.DismissReason, onComplete func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outComplete = onComplete
}

func (h *manualHook) completeIn() {
	deadline := time.Now().Add(waitTimeout)
	for {
		h.mu.Lock()
		fn := h.inComplete
		h.mu.Unlock()
		if fn != nil {
			fn()
			return
		}
		if time.Now().After(deadline) {
			return
		}
		time.Sleep(pollInterval)
	}
}

func (h *manualHook) completeOut() {
	h.mu.Lock()
	fn := h.outComplete
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (h *manualHook) hideStarted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outComplete != nil
}

// stuckHook never reports completion.
type stuckHook struct{}

func (stuckHook) AnimateIn(func()) {}

func (stuckHook) AnimateOut(bar.DismissReason, func()) {}

// obsBar bundles a controller with observable owner callbacks.
type obsBar struct {
	c         *bar.Controller
	shown     chan struct{}
	dismissed chan bar.DismissReason
}

func newObsBar(hook bar.AnimationHook) *obsBar {
	b := &obsBar{
		c:         bar.New(hook, nil),
		shown:     make(chan struct{}, 4),
		dismissed: make(chan bar.DismissReason, 4),
	}
	b.c.OnShown(func() { b.shown <- struct{}{} })
	b.c.OnDismissed(func(r bar.DismissReason) { b.dismissed <- r })
	return b
}

func (b *obsBar) waitShown(t *testing.T) {
	t.Helper()
	select {
	case <-b.shown:
	case <-time.After(waitTimeout):
		t.Fatalf("bar %s never reported shown", b.c.ID())
	}
}

func (b *obsBar) waitDismissed(t *testing.T) bar.DismissReason {
	t.Helper()
	select {
	case r := <-b.dismissed:
		return r
	case <-time.After(waitTimeout):
		t.Fatalf("bar %s never reported dismissed", b.c.ID())
		return 0
	}
}

func (b *obsBar) noDismissFor(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case r := <-b.dismissed:
		t.Fatalf("bar %s dismissed unexpectedly with %v", b.c.ID(), r)
	case <-time.After(d):
	}
}

// capturingLogger records events for assertions.
type capturingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *capturingLogger) Log(e log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *capturingLogger) countCategory(c log.Category) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Category == c {
			n++
		}
	}
	return n
}

func startScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New()
	s.Start()
	t.Cleanup(s.Stop)
	return s
}

func TestShowWhileIdle(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, 150*time.Millisecond)

	a.waitShown(t)
	require.Equal(t, a.c.ID(), s.ActiveID())
	require.Empty(t, s.PendingID())
	require.True(t, s.TimerArmed())

	require.Equal(t, bar.ReasonTimeout, a.waitDismissed(t))
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)
	require.False(t, s.TimerArmed())
}

func TestShowReplacesActive(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})
	b := newObsBar(&instantHook{})

	s.Show(a.c, bar.DurationIndefinite)
	a.waitShown(t)
	require.False(t, s.TimerArmed())

	s.Show(b.c, 100*time.Millisecond)

	require.Equal(t, bar.ReasonConsecutive, a.waitDismissed(t))
	b.waitShown(t)
	require.Equal(t, b.c.ID(), s.ActiveID())
	require.Empty(t, s.PendingID())

	// B runs its own timer.
	require.Equal(t, bar.ReasonTimeout, b.waitDismissed(t))
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)
}

func TestThirdShowReplacesPending(t *testing.T) {
	s := startScheduler(t)
	hookA := &manualHook{}
	a := newObsBar(hookA)
	hookB := &instantHook{}
	b := newObsBar(hookB)
	c := newObsBar(&instantHook{})

	s.Show(a.c, bar.DurationIndefinite)
	hookA.completeIn()
	a.waitShown(t)

	// B queues behind A; A is asked to make way but its exit animation is
	// held open by the test.
	s.Show(b.c, bar.DurationIndefinite)
	require.Eventually(t, func() bool { return s.PendingID() == b.c.ID() }, waitTimeout, pollInterval)
	require.Eventually(t, hookA.hideStarted, waitTimeout, pollInterval)

	// C replaces B in the pending slot; B is cancelled without ever showing.
	s.Show(c.c, bar.DurationIndefinite)
	require.Equal(t, bar.ReasonConsecutive, b.waitDismissed(t))
	require.Eventually(t, func() bool { return s.PendingID() == c.c.ID() }, waitTimeout, pollInterval)

	if in, _ := hookB.calls(); in != 0 {
		t.Fatalf("pending bar B ran its entrance animation %d times, want 0", in)
	}

	// A finishes hiding; C is promoted through the active slot.
	hookA.completeOut()
	require.Equal(t, bar.ReasonConsecutive, a.waitDismissed(t))
	c.waitShown(t)
	require.Equal(t, c.c.ID(), s.ActiveID())
	require.Empty(t, s.PendingID())
}

func TestTimeoutLeavesSchedulerIdle(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, 80*time.Millisecond)
	a.waitShown(t)

	require.Equal(t, bar.ReasonTimeout, a.waitDismissed(t))
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)

	// Exactly one dismissal for the cycle.
	a.noDismissFor(t, 200*time.Millisecond)
}

func TestPauseResume(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, 600*time.Millisecond)
	a.waitShown(t)
	require.True(t, s.TimerArmed())

	time.Sleep(300 * time.Millisecond)
	s.PauseTimer()
	require.Eventually(t, s.TimerPaused, waitTimeout, pollInterval)
	require.False(t, s.TimerArmed())

	remaining, ok := s.PausedRemaining()
	require.True(t, ok)
	require.Greater(t, remaining, time.Duration(0))
	require.LessOrEqual(t, remaining, 300*time.Millisecond)

	// Well past the original deadline: the paused timer must not fire.
	a.noDismissFor(t, 500*time.Millisecond)

	// After resume the timer fires the recorded remainder later - not
	// immediately, and not the original full duration.
	resumedAt := time.Now()
	s.ResumeTimer()
	require.Equal(t, bar.ReasonTimeout, a.waitDismissed(t))
	elapsed := time.Since(resumedAt)
	require.GreaterOrEqual(t, elapsed, remaining)
	require.Less(t, elapsed, remaining+500*time.Millisecond)
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)
}

func TestReshowWhilePausedReplacesRemainder(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, 10*time.Second)
	a.waitShown(t)

	s.PauseTimer()
	require.Eventually(t, s.TimerPaused, waitTimeout, pollInterval)
	remaining, ok := s.PausedRemaining()
	require.True(t, ok)
	require.Greater(t, remaining, 5*time.Second)

	// Re-showing the paused bar swaps the big remainder for the new full
	// duration; the timer stays paused.
	s.Show(a.c, 100*time.Millisecond)
	require.Eventually(t, func() bool {
		r, ok := s.PausedRemaining()
		return ok && r == 100*time.Millisecond
	}, waitTimeout, pollInterval)
	require.True(t, s.TimerPaused())
	require.False(t, s.TimerArmed())

	resumedAt := time.Now()
	s.ResumeTimer()
	require.Equal(t, bar.ReasonTimeout, a.waitDismissed(t))
	elapsed := time.Since(resumedAt)
	require.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	require.Less(t, elapsed, time.Second)
}

func TestReshowWhilePausedIndefiniteClearsPause(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, 10*time.Second)
	a.waitShown(t)

	s.PauseTimer()
	require.Eventually(t, s.TimerPaused, waitTimeout, pollInterval)

	s.Show(a.c, bar.DurationIndefinite)
	require.Eventually(t, func() bool { return !s.TimerPaused() }, waitTimeout, pollInterval)
	require.False(t, s.TimerArmed())
	if _, ok := s.PausedRemaining(); ok {
		t.Fatal("paused remainder survived an indefinite re-show")
	}

	// Resume has nothing to re-arm; the bar stays until dismissed.
	s.ResumeTimer()
	a.noDismissFor(t, 300*time.Millisecond)
	require.False(t, s.TimerArmed())

	s.Dismiss(a.c, bar.ReasonManual)
	require.Equal(t, bar.ReasonManual, a.waitDismissed(t))
}

func TestNegativeDurationNeverArms(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, -5*time.Second)
	a.waitShown(t)

	require.False(t, s.TimerArmed())
	a.noDismissFor(t, 200*time.Millisecond)

	s.Dismiss(a.c, bar.ReasonManual)
	require.Equal(t, bar.ReasonManual, a.waitDismissed(t))
}

func TestPauseNoopWithoutTimer(t *testing.T) {
	s := startScheduler(t)

	// Idle: nothing to pause.
	s.PauseTimer()
	s.ResumeTimer()
	require.Eventually(t, func() bool { return !s.TimerPaused() }, waitTimeout, pollInterval)

	// Indefinite duration: no timer armed, pause stays a no-op.
	a := newObsBar(&instantHook{})
	s.Show(a.c, bar.DurationIndefinite)
	a.waitShown(t)
	s.PauseTimer()

	a.noDismissFor(t, 100*time.Millisecond)
	require.False(t, s.TimerPaused())
	require.False(t, s.TimerArmed())
}

func TestDismissPendingSkipsAnimation(t *testing.T) {
	s := startScheduler(t)
	hookA := &manualHook{}
	a := newObsBar(hookA)
	hookB := &instantHook{}
	b := newObsBar(hookB)

	s.Show(a.c, bar.DurationIndefinite)
	hookA.completeIn()
	a.waitShown(t)

	s.Show(b.c, bar.DurationIndefinite)
	require.Eventually(t, func() bool { return s.PendingID() == b.c.ID() }, waitTimeout, pollInterval)

	s.Dismiss(b.c, bar.ReasonManual)
	require.Equal(t, bar.ReasonManual, b.waitDismissed(t))
	require.Eventually(t, func() bool { return s.PendingID() == "" }, waitTimeout, pollInterval)

	if in, out := hookB.calls(); in != 0 || out != 0 {
		t.Fatalf("cancelled pending bar ran animations: in=%d out=%d", in, out)
	}

	// A never went anywhere; finish its deferred hide and the scheduler
	// goes idle with nothing to promote.
	hookA.completeOut()
	require.Equal(t, bar.ReasonConsecutive, a.waitDismissed(t))
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)
}

func TestReshowRefreshesTimer(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, 250*time.Millisecond)
	a.waitShown(t)

	time.Sleep(150 * time.Millisecond)
	s.Show(a.c, 250*time.Millisecond)

	// The original deadline passes without a dismissal: the re-show reset
	// the timer instead of stacking a second bar.
	a.noDismissFor(t, 150*time.Millisecond)
	require.Equal(t, a.c.ID(), s.ActiveID())
	require.Empty(t, s.PendingID())

	require.Equal(t, bar.ReasonTimeout, a.waitDismissed(t))
}

func TestIndefiniteNeverArms(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, bar.DurationIndefinite)
	a.waitShown(t)

	require.False(t, s.TimerArmed())
	a.noDismissFor(t, 200*time.Millisecond)

	s.Dismiss(a.c, bar.ReasonManual)
	require.Equal(t, bar.ReasonManual, a.waitDismissed(t))
}

func TestZeroDurationFiresExactlyOnce(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, 0)
	require.Equal(t, bar.ReasonTimeout, a.waitDismissed(t))
	a.noDismissFor(t, 200*time.Millisecond)
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)
}

func TestDismissUnknownIsNoop(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})
	b := newObsBar(&instantHook{})

	s.Show(a.c, bar.DurationIndefinite)
	a.waitShown(t)

	// B is neither active nor pending.
	s.Dismiss(b.c, bar.ReasonManual)
	b.noDismissFor(t, 100*time.Millisecond)

	// The scheduler keeps serving the active bar.
	require.Equal(t, a.c.ID(), s.ActiveID())
	s.Dismiss(a.c, bar.ReasonSwipe)
	require.Equal(t, bar.ReasonSwipe, a.waitDismissed(t))
}

func TestExplicitDismissBeatsTimer(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(&instantHook{})

	s.Show(a.c, 150*time.Millisecond)
	a.waitShown(t)

	s.Dismiss(a.c, bar.ReasonAction)
	require.Equal(t, bar.ReasonAction, a.waitDismissed(t))

	// The cancelled timer must not produce a second, TIMEOUT dismissal.
	a.noDismissFor(t, 400*time.Millisecond)
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)
}

func TestWedgedActiveDoesNotBlockOtherIDs(t *testing.T) {
	s := startScheduler(t)
	a := newObsBar(stuckHook{}) // entrance animation never completes
	b := newObsBar(&instantHook{})

	s.Show(a.c, 100*time.Millisecond)
	require.Eventually(t, func() bool { return s.ActiveID() == a.c.ID() }, waitTimeout, pollInterval)
	require.Equal(t, bar.StateShowing, a.c.State())

	// B queues behind the wedged bar; promotion is blocked by design.
	s.Show(b.c, 100*time.Millisecond)
	require.Eventually(t, func() bool { return s.PendingID() == b.c.ID() }, waitTimeout, pollInterval)

	// The scheduler still processes requests for other ids.
	s.Dismiss(b.c, bar.ReasonManual)
	require.Equal(t, bar.ReasonManual, b.waitDismissed(t))
	require.Eventually(t, func() bool { return s.PendingID() == "" }, waitTimeout, pollInterval)

	// The wedged bar stays active, wedged.
	require.Equal(t, a.c.ID(), s.ActiveID())
	require.Equal(t, bar.StateShowing, a.c.State())
}

func TestShowConsumedControllerAbsorbed(t *testing.T) {
	s := startScheduler(t)
	logger := &capturingLogger{}
	s.SetLogger(logger)

	a := newObsBar(&instantHook{})
	s.Show(a.c, bar.DurationIndefinite)
	a.waitShown(t)
	s.Dismiss(a.c, bar.ReasonManual)
	require.Equal(t, bar.ReasonManual, a.waitDismissed(t))
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)

	// Re-show without Reset: the cycle is consumed. The violation is
	// absorbed and surfaced as an ERROR event, and the scheduler stays
	// usable.
	s.Show(a.c, bar.DurationIndefinite)
	require.Eventually(t, func() bool {
		return s.IsIdle() && logger.countCategory(log.CategoryError) > 0
	}, waitTimeout, pollInterval)

	b := newObsBar(&instantHook{})
	s.Show(b.c, bar.DurationIndefinite)
	b.waitShown(t)
	require.Equal(t, b.c.ID(), s.ActiveID())
}

func TestOpsBeforeStartAppliedAtStart(t *testing.T) {
	s := New()
	a := newObsBar(&instantHook{})

	s.Show(a.c, bar.DurationIndefinite)
	require.Empty(t, s.ActiveID())

	s.Start()
	t.Cleanup(s.Stop)

	a.waitShown(t)
	require.Equal(t, a.c.ID(), s.ActiveID())
}

func TestStopDropsLaterOps(t *testing.T) {
	s := New()
	s.Start()
	s.Stop()
	s.Stop() // idempotent

	a := newObsBar(&instantHook{})
	s.Show(a.c, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, bar.StateHidden, a.c.State())
	require.True(t, s.IsIdle())
}

func TestRestartAfterStop(t *testing.T) {
	s := New()
	s.Start()

	a := newObsBar(&instantHook{})
	s.Show(a.c, bar.DurationIndefinite)
	a.waitShown(t)
	s.Dismiss(a.c, bar.ReasonManual)
	require.Equal(t, bar.ReasonManual, a.waitDismissed(t))
	require.Eventually(t, s.IsIdle, waitTimeout, pollInterval)

	s.Stop()

	// A restarted scheduler accepts and processes operations again.
	s.Start()
	t.Cleanup(s.Stop)

	b := newObsBar(&instantHook{})
	s.Show(b.c, bar.DurationIndefinite)
	b.waitShown(t)
	require.Equal(t, b.c.ID(), s.ActiveID())
}
