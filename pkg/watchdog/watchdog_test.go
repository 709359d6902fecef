package watchdog

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/transientbar/transientbar-go/pkg/bar"
)

// controlledHook hands the completion callbacks to the test.
type controlledHook struct {
	mu          sync.Mutex
	inComplete  func()
	outComplete func()
	lastReason  bar.DismissReason
}

func (h *controlledHook) AnimateIn(onComplete func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inComplete = onComplete
}

func (h *controlledHook) AnimateOut(reason bar.DismissReason, onComplete func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastReason = reason
	h.outComplete = onComplete
}

func (h *controlledHook) completeIn() {
	h.mu.Lock()
	fn := h.inComplete
	h.mu.Unlock()
	fn()
}

func (h *controlledHook) completeOut() {
	h.mu.Lock()
	fn := h.outComplete
	h.mu.Unlock()
	fn()
}

func TestWrapRejectsBadTimeout(t *testing.T) {
	if _, err := Wrap(bar.InstantAnimation{}, Config{Timeout: 0}); err != ErrInvalidTimeout {
		t.Errorf("Timeout 0: got %v, want ErrInvalidTimeout", err)
	}
	if _, err := Wrap(bar.InstantAnimation{}, Config{Timeout: -time.Second}); err != ErrInvalidTimeout {
		t.Errorf("negative timeout: got %v, want ErrInvalidTimeout", err)
	}
}

func TestNormalCompletionPassesThrough(t *testing.T) {
	inner := &controlledHook{}
	hook, err := Wrap(inner, Config{
		Timeout: time.Second,
		OnStuck: func(Phase) { t.Error("OnStuck fired for a timely completion") },
	})
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	var completions atomic.Int32
	hook.AnimateIn(func() { completions.Add(1) })
	inner.completeIn()
	if completions.Load() != 1 {
		t.Fatalf("entrance completions = %d, want 1", completions.Load())
	}

	hook.AnimateOut(bar.ReasonSwipe, func() { completions.Add(1) })
	if inner.lastReason != bar.ReasonSwipe {
		t.Errorf("reason not forwarded: got %v", inner.lastReason)
	}
	inner.completeOut()
	if completions.Load() != 2 {
		t.Fatalf("total completions = %d, want 2", completions.Load())
	}

	// Give a silent stray timer the chance to misfire.
	time.Sleep(50 * time.Millisecond)
}

func TestStuckPhaseReported(t *testing.T) {
	inner := &controlledHook{}
	stuck := make(chan Phase, 1)
	hook, err := Wrap(inner, Config{
		Timeout: 20 * time.Millisecond,
		OnStuck: func(p Phase) { stuck <- p },
	})
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	completed := make(chan struct{}, 1)
	hook.AnimateIn(func() { completed <- struct{}{} })

	select {
	case p := <-stuck:
		if p != PhaseIn {
			t.Errorf("stuck phase = %v, want %v", p, PhaseIn)
		}
	case <-time.After(time.Second):
		t.Fatal("OnStuck never fired")
	}

	// Without ForceComplete the completion is not synthesized.
	select {
	case <-completed:
		t.Error("completion synthesized despite ForceComplete=false")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestForceComplete(t *testing.T) {
	inner := &controlledHook{}
	hook, err := Wrap(inner, Config{
		Timeout:       20 * time.Millisecond,
		ForceComplete: true,
	})
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	completed := make(chan struct{}, 2)
	hook.AnimateOut(bar.ReasonManual, func() { completed <- struct{}{} })

	select {
	case <-completed:
	case <-time.After(time.Second):
		t.Fatal("forced completion never delivered")
	}

	// The real completion arriving late must not deliver a second one.
	inner.completeOut()
	select {
	case <-completed:
		t.Error("completion delivered twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestForceCompleteUnwedgesController(t *testing.T) {
	inner := &controlledHook{} // never completes on its own
	hook, err := Wrap(inner, Config{
		Timeout:       20 * time.Millisecond,
		ForceComplete: true,
	})
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}

	c := bar.New(hook, nil)
	shown := make(chan struct{}, 1)
	c.OnShown(func() { shown <- struct{}{} })

	if err := c.BeginShow(nil); err != nil {
		t.Fatalf("BeginShow failed: %v", err)
	}

	select {
	case <-shown:
	case <-time.After(time.Second):
		t.Fatal("controller stayed wedged in SHOWING")
	}
	if got := c.State(); got != bar.StateShown {
		t.Errorf("state = %v, want %v", got, bar.StateShown)
	}
}

func TestPhaseString(t *testing.T) {
	if got := PhaseIn.String(); got != "ANIMATE_IN" {
		t.Errorf("PhaseIn.String() = %q", got)
	}
	if got := PhaseOut.String(); got != "ANIMATE_OUT" {
		t.Errorf("PhaseOut.String() = %q", got)
	}
	if got := Phase(9).String(); got != "UNKNOWN" {
		t.Errorf("Phase(9).String() = %q", got)
	}
}
