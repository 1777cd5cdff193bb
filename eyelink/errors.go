package eyelink

import "errors"

var (
	// ErrLinkNil indicates that a nil Link was provided.
	ErrLinkNil = errors.New("eyelink: link is nil")

	// ErrConfigNil indicates that a nil Config was provided.
	ErrConfigNil = errors.New("eyelink: config is nil")

	// ErrSessionActive indicates that another session is already active.
	// At most one session may exist per process; close it before
	// constructing a new one.
	ErrSessionActive = errors.New("eyelink: another session is already active")
)

var (
	// ErrDataFileName indicates that the data file name violates the
	// device's legacy 8.3 constraint: at most 8 characters before the
	// extension and at most 4 characters of extension (dot included).
	ErrDataFileName = errors.New("eyelink: data file name exceeds the 8-character stem or 4-character extension limit")

	// ErrConnectionFailed indicates that the tracker could not be reached
	// or did not complete the configuration handshake.
	ErrConnectionFailed = errors.New("eyelink: failed to connect to the tracker")

	// ErrNotConnected indicates that an operation requiring an established
	// connection was attempted while disconnected.
	ErrNotConnected = errors.New("eyelink: not connected to the tracker")
)

var (
	// ErrAlreadyRecording indicates that calibration or drift correction
	// was attempted after recording has started.
	ErrAlreadyRecording = errors.New("eyelink: operation not allowed after recording has started")

	// ErrNotRecording indicates that gaze data was requested before
	// recording has started.
	ErrNotRecording = errors.New("eyelink: start recording before collecting gaze data")

	// ErrRecordingStart indicates that recording could not be started:
	// either the start command kept failing until the retry budget was
	// exhausted, or the device never signalled block start.
	ErrRecordingStart = errors.New("eyelink: failed to start recording")

	// ErrEyeUnavailable indicates that the device reported neither eye as
	// reliably tracked.
	ErrEyeUnavailable = errors.New("eyelink: failed to determine which eye is being recorded")
)

var (
	// ErrSetupEscaped is returned by Link.DriftCorrect when the operator
	// aborted the procedure into the setup screen.
	ErrSetupEscaped = errors.New("eyelink: drift correction escaped to setup")

	// ErrBackdropFormat indicates a malformed backdrop image payload.
	ErrBackdropFormat = errors.New("eyelink: backdrop image has invalid format")

	// ErrInvalidTransition is returned when an attempt is made to
	// transition the session state to an invalid state.
	ErrInvalidTransition = errors.New("eyelink: invalid state transition")
)
