package eyelink

import (
	"context"
	"image"
)

// Tracker is the capability contract shared by the real tracker session and
// the hardware-less dummy.
//
// An experiment written against Tracker runs unmodified with either
// implementation; the dummy preserves signatures and timing but never
// fails. Select the implementation at construction time.
type Tracker interface {
	// Connect establishes and configures the tracker connection.
	Connect(ctx context.Context) error

	// Close stops any active recording, retrieves the data file and
	// closes the connection.
	Close() error

	// Connected reports whether the tracker connection is established.
	Connected() bool

	// SendCommand sends a text command to the tracker.
	SendCommand(cmd string) error

	// Log writes a message to the tracker data file.
	Log(msg string) error

	// LogVariable writes a variable to the tracker data file.
	LogVariable(name string, value any) error

	// StatusMessage sets the status message shown on the experimenter PC.
	StatusMessage(text string) error

	// Calibrate puts the tracker into camera-setup/calibration mode.
	Calibrate() error

	// DriftCorrection performs operator-triggered drift correction at pos
	// (nil for the display center). It returns true on success and false
	// if the operator escaped or the attempt failed softly.
	DriftCorrection(ctx context.Context, pos *Position) (bool, error)

	// FixTriggeredDriftCorrection performs fixation-triggered drift
	// correction at pos (nil for the display center).
	FixTriggeredDriftCorrection(ctx context.Context, pos *Position, opts DriftOptions) (bool, error)

	// StartRecording starts recording of gaze samples and events.
	StartRecording(ctx context.Context) error

	// StopRecording stops recording. It is idempotent.
	StopRecording()

	// Sample returns the most recent gaze position for the selected eye.
	Sample() (Position, bool, error)

	// WaitForEvent blocks until the tracker reports an event of the given
	// kind.
	WaitForEvent(ctx context.Context, kind EventKind) (GazeEvent, error)

	WaitForSaccadeStart(ctx context.Context) (float64, Position, error)
	WaitForSaccadeEnd(ctx context.Context) (float64, Position, Position, error)
	WaitForFixationStart(ctx context.Context) (float64, Position, error)
	WaitForFixationEnd(ctx context.Context) (float64, Position, Position, error)
	WaitForBlinkStart(ctx context.Context) (float64, error)
	WaitForBlinkEnd(ctx context.Context) (float64, error)

	// SetBackdrop uploads a backdrop image to the experimenter PC.
	SetBackdrop(img image.Image) error
}
