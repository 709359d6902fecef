package watchdog

import (
	"errors"
	"sync"
	"time"

	"github.com/transientbar/transientbar-go/pkg/bar"
)

// Watchdog errors.
var ErrInvalidTimeout = errors.New("watchdog timeout must be positive")

// Phase identifies which animation the watchdog was waiting on.
type Phase uint8

const (
	// PhaseIn is the entrance animation.
	PhaseIn Phase = iota

	// PhaseOut is the exit animation.
	PhaseOut
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIn:
		return "ANIMATE_IN"
	case PhaseOut:
		return "ANIMATE_OUT"
	default:
		return "UNKNOWN"
	}
}

// Config holds watchdog settings.
type Config struct {
	// Timeout is how long to wait for a hook completion before declaring
	// the phase stuck.
	Timeout time.Duration

	// ForceComplete synthesizes the missing completion when the timeout
	// fires, unwedging the controller at the cost of a cut animation.
	ForceComplete bool

	// OnStuck is called when a phase times out. Optional.
	OnStuck func(Phase)
}

// Hook wraps an AnimationHook with a per-phase completion deadline.
type Hook struct {
	inner bar.AnimationHook
	cfg   Config
}

// Wrap creates a watchdog around the given hook.
func Wrap(inner bar.AnimationHook, cfg Config) (*Hook, error) {
	if cfg.Timeout <= 0 {
		return nil, ErrInvalidTimeout
	}
	return &Hook{inner: inner, cfg: cfg}, nil
}

// AnimateIn runs the entrance animation under a completion deadline.
func (h *Hook) AnimateIn(onComplete func()) {
	forward, timer := h.guard(PhaseIn, onComplete)
	h.inner.AnimateIn(func() {
		timer.Stop()
		forward()
	})
}

// AnimateOut runs the exit animation under a completion deadline.
func (h *Hook) AnimateOut(reason bar.DismissReason, onComplete func()) {
	forward, timer := h.guard(PhaseOut, onComplete)
	h.inner.AnimateOut(reason, func() {
		timer.Stop()
		forward()
	})
}

// guard arms the deadline for one phase and returns a forwarder that
// delivers onComplete at most once, whether it comes from the inner hook or
// from a forced completion.
func (h *Hook) guard(phase Phase, onComplete func()) (func(), *time.Timer) {
	var once sync.Once
	forward := func() {
		once.Do(onComplete)
	}

	timer := time.AfterFunc(h.cfg.Timeout, func() {
		if h.cfg.OnStuck != nil {
			h.cfg.OnStuck(phase)
		}
		if h.cfg.ForceComplete {
			forward()
		}
	})
	return forward, timer
}

// Compile-time interface satisfaction check.
var _ bar.AnimationHook = (*Hook)(nil)
