// Package envsignal connects external environment conditions to a
// scheduler's timer pause/resume.
//
// The scheduler never detects environmental conditions itself; something
// outside decides when premature auto-dismissal would be harmful (for
// example, a screen reader being active means the user needs more time).
// This package keeps that boundary pluggable: a Source delivers a boolean
// condition, Bind translates its edges into PauseTimer/ResumeTimer calls on
// a Target.
//
//	src, _ := atspi.New()
//	_ = envsignal.Bind(ctx, src, sched)
//
// ManualSource drives the condition programmatically, for tests and hosts
// with their own detection.
package envsignal
