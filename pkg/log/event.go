package log

import (
	"time"
)

// Event represents a coordination log event captured by the scheduler or a
// bar controller. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SchedulerID identifies the scheduler instance (UUID).
	SchedulerID string `cbor:"2,keyasint,omitempty"`

	// BarID identifies the bar controller the event relates to.
	BarID string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (exactly one of these will be set).
	State     *StateChangeEvent `cbor:"5,keyasint,omitempty"`
	Show      *ShowEvent        `cbor:"6,keyasint,omitempty"`
	Dismiss   *DismissEvent     `cbor:"7,keyasint,omitempty"`
	Timer     *TimerEvent       `cbor:"8,keyasint,omitempty"`
	Promotion *PromotionEvent   `cbor:"9,keyasint,omitempty"`
	Error     *ErrorEventData   `cbor:"10,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState is a bar state transition.
	CategoryState Category = 0
	// CategoryShow is a show request and its arbitration outcome.
	CategoryShow Category = 1
	// CategoryDismiss is a dismiss request.
	CategoryDismiss Category = 2
	// CategoryTimer is auto-dismiss timer activity.
	CategoryTimer Category = 3
	// CategoryPromotion is a pending bar promoted to active.
	CategoryPromotion Category = 4
	// CategoryError is an absorbed contract violation.
	CategoryError Category = 5
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryShow:
		return "SHOW"
	case CategoryDismiss:
		return "DISMISS"
	case CategoryTimer:
		return "TIMER"
	case CategoryPromotion:
		return "PROMOTION"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent records a bar lifecycle transition.
type StateChangeEvent struct {
	// OldState is the state before the transition.
	OldState string `cbor:"1,keyasint"`

	// NewState is the state after the transition.
	NewState string `cbor:"2,keyasint"`

	// Reason is the dismiss reason driving the transition, if any.
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ShowOutcome classifies how the scheduler arbitrated a show request.
type ShowOutcome uint8

const (
	// ShowActivated means the bar was promoted to the active slot.
	ShowActivated ShowOutcome = 0
	// ShowQueued means the bar was placed in the pending slot.
	ShowQueued ShowOutcome = 1
	// ShowRefreshed means a debounced re-show of an already tracked bar.
	ShowRefreshed ShowOutcome = 2
	// ShowRejected means the request violated the show precondition.
	ShowRejected ShowOutcome = 3
)

// String returns the outcome name.
func (o ShowOutcome) String() string {
	switch o {
	case ShowActivated:
		return "ACTIVATED"
	case ShowQueued:
		return "QUEUED"
	case ShowRefreshed:
		return "REFRESHED"
	case ShowRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// ShowEvent records a show request.
type ShowEvent struct {
	// Duration is the requested visible duration (negative = indefinite).
	Duration time.Duration `cbor:"1,keyasint"`

	// Outcome is the arbitration result.
	Outcome ShowOutcome `cbor:"2,keyasint"`
}

// DismissTarget identifies which scheduler slot a dismiss request hit.
type DismissTarget uint8

const (
	// TargetActive means the active bar was asked to hide.
	TargetActive DismissTarget = 0
	// TargetPending means the pending bar was cancelled without animation.
	TargetPending DismissTarget = 1
	// TargetUnknown means the bar was neither active nor pending (no-op).
	TargetUnknown DismissTarget = 2
)

// String returns the target name.
func (t DismissTarget) String() string {
	switch t {
	case TargetActive:
		return "ACTIVE"
	case TargetPending:
		return "PENDING"
	case TargetUnknown:
		return "UNKNOWN"
	default:
		return "INVALID"
	}
}

// DismissEvent records a dismiss request.
type DismissEvent struct {
	// Reason is the dismissal classification.
	Reason string `cbor:"1,keyasint"`

	// Target is the slot the request resolved to.
	Target DismissTarget `cbor:"2,keyasint"`
}

// TimerAction classifies auto-dismiss timer activity.
type TimerAction uint8

const (
	// TimerArmed means a single-shot timer was armed.
	TimerArmed TimerAction = 0
	// TimerCancelled means the timer was cancelled before firing.
	TimerCancelled TimerAction = 1
	// TimerFired means the timer fired and a TIMEOUT dismissal began.
	TimerFired TimerAction = 2
	// TimerPaused means the timer was paused with time remaining.
	TimerPaused TimerAction = 3
	// TimerResumed means the timer was re-armed with the paused remainder.
	TimerResumed TimerAction = 4
)

// String returns the action name.
func (a TimerAction) String() string {
	switch a {
	case TimerArmed:
		return "ARMED"
	case TimerCancelled:
		return "CANCELLED"
	case TimerFired:
		return "FIRED"
	case TimerPaused:
		return "PAUSED"
	case TimerResumed:
		return "RESUMED"
	default:
		return "UNKNOWN"
	}
}

// TimerEvent records auto-dismiss timer activity.
type TimerEvent struct {
	// Action is what happened to the timer.
	Action TimerAction `cbor:"1,keyasint"`

	// Duration is the armed duration, for ARMED/RESUMED.
	Duration time.Duration `cbor:"2,keyasint,omitempty"`

	// Remaining is the unexpired remainder, for PAUSED.
	Remaining time.Duration `cbor:"3,keyasint,omitempty"`
}

// PromotionEvent records the resolution of a hide completion: either a
// pending bar took over the active slot or the scheduler went idle.
type PromotionEvent struct {
	// PromotedBarID is the bar promoted to active; empty when the
	// scheduler went idle.
	PromotedBarID string `cbor:"1,keyasint,omitempty"`
}

// ErrorEventData records an absorbed contract violation. Errors inside the
// scheduler never propagate to callers; they surface here instead.
type ErrorEventData struct {
	// Op is the operation that detected the violation.
	Op string `cbor:"1,keyasint"`

	// Message describes the violation.
	Message string `cbor:"2,keyasint"`
}
