package envsignal

import (
	"context"
	"sync"
)

// Source delivers an external boolean condition. The channel carries the
// current value promptly after Watch, then every change, until ctx ends or
// the source closes the channel.
type Source interface {
	Watch(ctx context.Context) (<-chan bool, error)
}

// Target receives pause/resume requests. *scheduler.Scheduler satisfies it.
type Target interface {
	PauseTimer()
	ResumeTimer()
}

// Bind subscribes to the source and forwards condition edges to the target:
// PauseTimer on false→true, ResumeTimer on true→false. If the binding ends
// while the condition holds, the target is resumed so a timer is never left
// paused by a vanished signal.
func Bind(ctx context.Context, src Source, target Target) error {
	ch, err := src.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		paused := false
		defer func() {
			if paused {
				target.ResumeTimer()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				switch {
				case v && !paused:
					paused = true
					target.PauseTimer()
				case !v && paused:
					paused = false
					target.ResumeTimer()
				}
			}
		}
	}()
	return nil
}

// ManualSource is a Source driven programmatically via Set. It supports a
// single Watch.
type ManualSource struct {
	mu      sync.Mutex
	ch      chan bool
	last    bool
	watched bool
}

// NewManualSource creates a manual source with the given initial condition.
func NewManualSource(initial bool) *ManualSource {
	return &ManualSource{
		ch:   make(chan bool, 16),
		last: initial,
	}
}

// Watch returns the condition channel, primed with the current value.
func (m *ManualSource) Watch(ctx context.Context) (<-chan bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.watched {
		m.watched = true
		m.ch <- m.last
	}
	return m.ch, nil
}

// Set updates the condition. Unchanged values are not re-delivered.
func (m *ManualSource) Set(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v == m.last {
		return
	}
	m.last = v
	if m.watched {
		m.ch <- v
	}
}

// Compile-time interface satisfaction check.
var _ Source = (*ManualSource)(nil)
