package envsignal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	waitTimeout  = 2 * time.Second
	pollInterval = 5 * time.Millisecond
)

// fakeTarget counts pause/resume calls.
type fakeTarget struct {
	mu      sync.Mutex
	pauses  int
	resumes int
}

func (f *fakeTarget) PauseTimer() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
}

func (f *fakeTarget) ResumeTimer() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
}

func (f *fakeTarget) counts() (pauses, resumes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pauses, f.resumes
}

// failingSource always fails to watch.
type failingSource struct{ err error }

func (s failingSource) Watch(context.Context) (<-chan bool, error) {
	return nil, s.err
}

func TestBindForwardsEdges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewManualSource(false)
	target := &fakeTarget{}
	require.NoError(t, Bind(ctx, src, target))

	src.Set(true)
	require.Eventually(t, func() bool {
		p, _ := target.counts()
		return p == 1
	}, waitTimeout, pollInterval)

	src.Set(false)
	require.Eventually(t, func() bool {
		_, r := target.counts()
		return r == 1
	}, waitTimeout, pollInterval)

	// Repeated values are not edges.
	src.Set(false)
	time.Sleep(50 * time.Millisecond)
	p, r := target.counts()
	require.Equal(t, 1, p)
	require.Equal(t, 1, r)
}

func TestBindInitialConditionTrue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewManualSource(true)
	target := &fakeTarget{}
	require.NoError(t, Bind(ctx, src, target))

	// The primed initial value counts as a rising edge.
	require.Eventually(t, func() bool {
		p, _ := target.counts()
		return p == 1
	}, waitTimeout, pollInterval)
}

func TestBindResumesOnUnbindWhilePaused(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := NewManualSource(true)
	target := &fakeTarget{}
	require.NoError(t, Bind(ctx, src, target))

	require.Eventually(t, func() bool {
		p, _ := target.counts()
		return p == 1
	}, waitTimeout, pollInterval)

	cancel()
	require.Eventually(t, func() bool {
		_, r := target.counts()
		return r == 1
	}, waitTimeout, pollInterval)
}

func TestBindNoResumeOnUnbindWhenNotPaused(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := NewManualSource(false)
	target := &fakeTarget{}
	require.NoError(t, Bind(ctx, src, target))

	cancel()
	time.Sleep(50 * time.Millisecond)
	p, r := target.counts()
	require.Zero(t, p)
	require.Zero(t, r)
}

func TestBindSourceError(t *testing.T) {
	wantErr := errors.New("no session bus")
	err := Bind(context.Background(), failingSource{err: wantErr}, &fakeTarget{})
	require.ErrorIs(t, err, wantErr)
}

func TestManualSourcePrimesCurrentValue(t *testing.T) {
	src := NewManualSource(false)
	src.Set(true) // before anyone watches

	ch, err := src.Watch(context.Background())
	require.NoError(t, err)

	select {
	case v := <-ch:
		require.True(t, v)
	case <-time.After(waitTimeout):
		t.Fatal("watch channel never primed")
	}
}
