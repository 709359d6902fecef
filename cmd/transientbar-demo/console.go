package main

import (
	"fmt"
	"io"
	"time"

	"github.com/transientbar/transientbar-go/pkg/bar"
)

// consoleView prints presentation signals for one bar. It stands in for the
// host view a real embedding would supply.
type consoleView struct {
	out  io.Writer
	text string
}

// BeginShowing prints the entrance signal.
func (v *consoleView) BeginShowing() {
	fmt.Fprintf(v.out, "  [bar] showing: %s\n", v.text)
}

// BeginHiding prints the exit signal with the dismissal reason.
func (v *consoleView) BeginHiding(reason bar.DismissReason) {
	fmt.Fprintf(v.out, "  [bar] hiding (%s): %s\n", reason, v.text)
}

// timedAnimation simulates an animation subsystem: each phase completes
// after a fixed delay on a timer goroutine.
type timedAnimation struct {
	d time.Duration
}

// AnimateIn reports completion after the configured delay.
func (a timedAnimation) AnimateIn(onComplete func()) {
	time.AfterFunc(a.d, onComplete)
}

// AnimateOut reports completion after the configured delay.
func (a timedAnimation) AnimateOut(_ bar.DismissReason, onComplete func()) {
	time.AfterFunc(a.d, onComplete)
}

// Compile-time interface satisfaction checks.
var (
	_ bar.HostView      = (*consoleView)(nil)
	_ bar.AnimationHook = timedAnimation{}
)
