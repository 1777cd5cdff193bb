package eyelink

import "time"

// Device keycodes understood by the tracker's setup screen. Key presses
// from the operator are translated to these codes and forwarded over the
// link during camera setup, calibration and validation.
const (
	EnterKey  = 13
	EscKey    = 27
	SpaceKey  = 32
	CursUp    = 0x4800
	CursDown  = 0x5000
	CursLeft  = 0x4B00
	CursRight = 0x4D00
)

// BackdropMode hints how the device should render an uploaded backdrop
// image on the experimenter PC.
type BackdropMode int

const (
	BackdropAverage BackdropMode = iota
	BackdropMaxContrast
)

// Keyboard polls operator key presses without blocking.
//
// Implementations decide which keys they report; the fixation-triggered
// drift-correction loop treats any reported press as a cancel request, so
// the keyboard handed to it should be restricted to the cancel keys
// (typically escape and 'q').
type Keyboard interface {
	// Press returns the pending keypress, if any. It never blocks.
	Press() (key int, ok bool)
}

// Link is the command/data channel to the eye-tracking device.
//
// The wire protocol behind it is owned by the device vendor and is not
// modeled here; Link is the narrow capability surface the session
// needs. Implementations are expected to be used from a single goroutine.
type Link interface {
	// Open establishes the connection to the tracker.
	Open() error

	// Close closes the connection to the tracker.
	Close() error

	// Connected reports whether the tracker connection is established.
	Connected() bool

	// SendCommand sends a text command to the tracker.
	SendCommand(cmd string) error

	// SendMessage writes a message to the tracker's data file.
	SendMessage(msg string) error

	// OpenDataFile opens the named data file on the tracker host.
	OpenDataFile(name string) error

	// CloseDataFile closes the data file on the tracker host.
	CloseDataFile() error

	// ReceiveDataFile transfers the named data file from the tracker host
	// to the local path dst.
	ReceiveDataFile(src, dst string) error

	// TrackerVersion returns the tracker's major hardware version and its
	// full version string.
	TrackerVersion() (int, string)

	// SetOfflineMode places the tracker in idle/offline mode.
	SetOfflineMode()

	// StartRecording starts data recording. The flags select whether
	// samples and events are written to the data file and streamed over
	// the link.
	StartRecording(fileSamples, fileEvents, linkSamples, linkEvents bool) error

	// BeginRealTimeMode raises the host's scheduling priority for the
	// recording period, settling for the given delay.
	BeginRealTimeMode(delay time.Duration)

	// EndRealTimeMode leaves real-time mode.
	EndRealTimeMode()

	// WaitForBlockStart blocks until sample/event data starts flowing
	// after a start command, or the timeout elapses. It reports whether
	// the block start was seen.
	WaitForBlockStart(timeout time.Duration) bool

	// NewestSample returns the most recent gaze sample, if any.
	NewestSample() (Sample, bool)

	// NextEvent pops the next queued gaze event from the link, if any.
	NextEvent() (GazeEvent, bool)

	// EyeAvailable reports which eye the tracker is recording. Values
	// outside LeftEye, RightEye and Binocular mean the tracker could not
	// tell.
	EyeAvailable() Eye

	// DriftCorrect runs the device-driven drift correction at the given
	// target. draw selects whether the device draws the target itself,
	// allowSetup whether the operator may enter the setup screen.
	// It returns nil on success, ErrSetupEscaped if the operator escaped,
	// or another error on device failure.
	DriftCorrect(x, y int, draw, allowSetup bool) error

	// ApplyDriftCorrect applies the outcome of a drift correction.
	ApplyDriftCorrect() error

	// CalibrationResult queries the device for the result of the last
	// calibration or drift-correction attempt. It returns nil on success.
	CalibrationResult() error

	// AcceptTrigger emulates the operator confirmation press (spacebar)
	// on the device.
	AcceptTrigger() error

	// StartSetup puts the tracker into its camera-setup/calibration mode.
	StartSetup() error

	// BitmapBackdrop uploads a backdrop image to the experimenter PC.
	// pixels is the row-major packed 0x00RRGGBB image of size width x
	// height; the crop rectangle and destination offset select the region
	// shown.
	BitmapBackdrop(width, height int, pixels []uint32, cropX, cropY, cropW, cropH, x, y int, mode BackdropMode) error
}
