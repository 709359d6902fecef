package bar

// DismissReason classifies why a bar stopped being shown (or was never
// shown, in the case of a cancelled queued bar).
type DismissReason uint8

const (
	// ReasonSwipe indicates the user swiped the bar away.
	ReasonSwipe DismissReason = iota

	// ReasonAction indicates the user invoked the bar's action affordance.
	ReasonAction

	// ReasonTimeout indicates the auto-dismiss timer fired.
	ReasonTimeout

	// ReasonManual indicates an explicit programmatic dismissal.
	ReasonManual

	// ReasonConsecutive indicates the bar was superseded by a newer bar
	// before or during display.
	ReasonConsecutive
)

// String returns a human-readable reason name.
func (r DismissReason) String() string {
	switch r {
	case ReasonSwipe:
		return "SWIPE"
	case ReasonAction:
		return "ACTION"
	case ReasonTimeout:
		return "TIMEOUT"
	case ReasonManual:
		return "MANUAL"
	case ReasonConsecutive:
		return "CONSECUTIVE"
	default:
		return "UNKNOWN"
	}
}
