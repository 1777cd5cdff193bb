package eyelink

// Position is a gaze position in screen pixel coordinates.
type Position struct {
	X float64
	Y float64
}

// Sample is the newest raw gaze sample read from the link.
//
// A sample carries data for whichever eyes the tracker resolved on that
// poll; the per-eye validity flags indicate which positions are meaningful.
type Sample struct {
	// Time is the tracker timestamp in milliseconds.
	Time float64

	Left       Position
	Right      Position
	LeftValid  bool
	RightValid bool
}

// Eye identifies which eye's data stream is used.
// The numeric values match the EyeLink device encoding.
type Eye int

const (
	LeftEye   Eye = 0
	RightEye  Eye = 1
	Binocular Eye = 2
)

// String returns string representation of the eye selection.
func (e Eye) String() string {
	switch e {
	case LeftEye:
		return "left"
	case RightEye:
		return "right"
	case Binocular:
		return "binocular"
	default:
		return "unknown"
	}
}

// EventKind identifies a gaze event parsed by the tracker and reported over
// the link. The numeric values match the EyeLink link data codes.
type EventKind int

const (
	BlinkStart    EventKind = 3
	BlinkEnd      EventKind = 4
	SaccadeStart  EventKind = 5
	SaccadeEnd    EventKind = 6
	FixationStart EventKind = 7
	FixationEnd   EventKind = 8
)

// String returns string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case BlinkStart:
		return "blink-start"
	case BlinkEnd:
		return "blink-end"
	case SaccadeStart:
		return "saccade-start"
	case SaccadeEnd:
		return "saccade-end"
	case FixationStart:
		return "fixation-start"
	case FixationEnd:
		return "fixation-end"
	default:
		return "unknown"
	}
}

// GazeEvent is a single gaze event reported by the tracker.
//
// Saccade, fixation and blink detection is performed by the device itself;
// this type only carries the parsed result.
type GazeEvent struct {
	Kind EventKind

	// Time is the tracker timestamp of the event in milliseconds.
	Time float64

	// Start is the gaze position at the start of the event.
	Start Position

	// End is the gaze position at the end of the event.
	// It is meaningful for the *End kinds only.
	End Position
}
