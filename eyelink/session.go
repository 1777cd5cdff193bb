package eyelink

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cogbench/go-eyelink/internal/pool"
	"github.com/cogbench/go-eyelink/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

// sessionActive guards the process-wide single-session invariant.
// The device supports one control connection; a second Session would fight
// the first over it.
var sessionActive atomic.Bool

// Session is the device-control core for a connected tracker.
//
// A Session owns the connection lifecycle, the configuration handshake,
// recording start/stop with bounded retry, eye selection, gaze sampling,
// the blocking event-wait primitives and the drift-correction procedures.
//
// At most one Session may be active per process; NewSession fails with
// ErrSessionActive until the previous one is closed. A Session is meant to
// be driven from a single goroutine.
type Session struct {
	cfg    *Config
	link   Link
	logger logger.Logger
	state  *stateMgr

	// trackerVersion is the major hardware version reported by the device,
	// softwareVersion the host software version parsed from the version
	// string. Both gate which filter/threshold commands are sent.
	trackerVersion  int
	softwareVersion int

	// eye is the selected eye stream, resolved lazily on first sample or
	// event access and cached for the session's lifetime.
	eye         Eye
	eyeResolved bool

	// vars mirrors the variables recorded with LogVariable so that tools
	// and tests can read them while a poll loop holds the session.
	vars *xsync.MapOf[string, string]
}

var _ Tracker = (*Session)(nil)

// NewSession creates a tracker session over the given link.
//
// It enforces the single-session invariant: if another session is active,
// it returns ErrSessionActive. The returned session starts disconnected;
// call Connect to establish and configure the link.
func NewSession(link Link, cfg *Config) (*Session, error) {
	if link == nil {
		return nil, ErrLinkNil
	}
	if cfg == nil {
		return nil, ErrConfigNil
	}

	if !sessionActive.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}

	s := &Session{
		cfg:    cfg,
		link:   link,
		logger: cfg.logger,
		vars:   xsync.NewMapOf[string, string](),
	}
	s.state = newStateMgr(s.logger)

	return s, nil
}

// State returns the current session state.
func (s *Session) State() SessionState {
	return s.state.State()
}

// WaitState waits for the session state to reach the specified state or
// until the context is done.
func (s *Session) WaitState(ctx context.Context, state SessionState) error {
	return s.state.WaitState(ctx, state)
}

// AddStateChangeHandler adds one or more StateChangeHandler functions to be
// invoked when the session state changes.
func (s *Session) AddStateChangeHandler(handlers ...StateChangeHandler) {
	s.state.AddHandler(handlers...)
}

// Connect opens the link and runs the configuration handshake: it opens the
// data file, pushes the screen geometry, selects parser/threshold settings
// based on the detected tracker version, and installs the file and link
// data filters.
//
// It fails with ErrDataFileName if the configured data file violates the
// device's 8.3 constraint and with ErrConnectionFailed if the tracker is
// unreachable.
func (s *Session) Connect(ctx context.Context) error {
	if !s.state.IsDisconnected() {
		return ErrInvalidTransition
	}
	if err := validateDataFileName(s.cfg.dataFile); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.link.Open(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if err := s.link.OpenDataFile(s.cfg.dataFile); err != nil {
		return fmt.Errorf("open data file %q: %w", s.cfg.dataFile, err)
	}
	s.link.SetOfflineMode()

	if err := s.configure(); err != nil {
		return err
	}

	if !s.link.Connected() {
		return ErrConnectionFailed
	}

	if err := s.state.ToConnected(); err != nil {
		return err
	}

	s.logger.Info("connected to tracker",
		"data_file", s.cfg.dataFile,
		"tracker_version", s.trackerVersion,
		"software_version", s.softwareVersion,
	)

	return nil
}

// configure pushes the configuration handshake commands. The exact command
// strings and filter-field sets are required for device compatibility.
func (s *Session) configure() error {
	w, h := s.cfg.width, s.cfg.height
	if err := s.link.SendCommand(fmt.Sprintf("screen_pixel_coords =  0 0 %d %d", w, h)); err != nil {
		return err
	}

	s.trackerVersion, s.softwareVersion = detectVersions(s.link)

	cmds := make([]string, 0, 8)
	if s.trackerVersion >= 2 {
		cmds = append(cmds, "select_parser_configuration 0")
		if s.trackerVersion == 2 {
			// Turn off scenelink camera mapping, which EyeLink II enables
			// by default.
			cmds = append(cmds, "scene_camera_gazemap = NO")
		}
	} else {
		cmds = append(cmds,
			fmt.Sprintf("saccade_velocity_threshold = %d", s.cfg.saccadeVelocityThreshold),
			fmt.Sprintf("saccade_acceleration_threshold = %d", s.cfg.saccadeAccelThreshold),
		)
	}

	// Data file contents: which events and sample fields are written to
	// the data file on the tracker host.
	cmds = append(cmds, "file_event_filter = LEFT,RIGHT,FIXATION,SACCADE,BLINK,MESSAGE,BUTTON")
	if s.softwareVersion >= 4 {
		cmds = append(cmds, "file_sample_data  = LEFT,RIGHT,GAZE,AREA,GAZERES,STATUS,HTARGET")
	} else {
		cmds = append(cmds, "file_sample_data  = LEFT,RIGHT,GAZE,AREA,GAZERES,STATUS")
	}

	// Link data: which events and sample fields are streamed over the
	// link, available to gaze-contingent displays.
	cmds = append(cmds, "link_event_filter = LEFT,RIGHT,FIXATION,SACCADE,BLINK,BUTTON")
	if s.softwareVersion >= 4 {
		cmds = append(cmds, "link_sample_data  = LEFT,RIGHT,GAZE,GAZERES,AREA,STATUS,HTARGET")
	} else {
		cmds = append(cmds, "link_sample_data  = LEFT,RIGHT,GAZE,GAZERES,AREA,STATUS")
	}

	// Button 5 on the tracker host accepts the current fixation during
	// drift correction.
	cmds = append(cmds, "button_function 5 'accept_target_fixation'")

	for _, cmd := range cmds {
		if err := s.link.SendCommand(cmd); err != nil {
			return err
		}
	}

	return nil
}

// detectVersions queries the link for the tracker's major hardware version
// and, for EyeLink 1000 class devices, parses the host software version
// from the version string ("EYELINK CL <n>").
func detectVersions(link Link) (tracker, software int) {
	tracker, versionStr := link.TrackerVersion()
	if tracker != 3 {
		return tracker, 0
	}

	const marker = "EYELINK CL"
	idx := strings.Index(versionStr, marker)
	if idx < 0 {
		return tracker, 0
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(versionStr[idx+len(marker):]), 64)
	if err != nil {
		return tracker, 0
	}

	return tracker, int(v)
}

// StartRecording starts recording of gaze samples and events.
//
// The start command is retried with a fixed delay up to the configured
// attempt count (100 attempts, 100ms apart by default); exhausting the
// budget fails with ErrRecordingStart. After a successful start the session
// waits (bounded) for the device to report block start; failing that wait
// is also a fatal ErrRecordingStart.
func (s *Session) StartRecording(ctx context.Context) error {
	if s.state.IsRecording() {
		return nil // Already recording, no-op
	}
	if !s.state.IsConnected() {
		return ErrNotConnected
	}

	for attempt := 1; ; attempt++ {
		// Record samples and events both to the data file and over the link.
		err := s.link.StartRecording(true, true, true, true)
		if err == nil {
			break
		}

		if attempt >= s.cfg.startRetryCount {
			return fmt.Errorf("%w: start command failed after %d attempts: %w", ErrRecordingStart, attempt, err)
		}

		s.logger.Warn("failed to start recording",
			"attempt", attempt,
			"max_attempts", s.cfg.startRetryCount,
			"error", err,
		)

		if err := sleepCtx(ctx, s.cfg.startRetryInterval); err != nil {
			return err
		}
	}

	s.link.BeginRealTimeMode(s.cfg.realtimeDelay)

	if !s.link.WaitForBlockStart(s.cfg.blockStartTimeout) {
		return fmt.Errorf("%w: no block start signal", ErrRecordingStart)
	}

	return s.state.ToRecording()
}

// StopRecording stops recording of gaze samples. It is idempotent.
func (s *Session) StopRecording() {
	if !s.state.IsRecording() {
		return
	}

	// Flip the state first; the stop commands below must not be seen as
	// part of the recording.
	_ = s.state.ToConnected()

	s.link.EndRealTimeMode()
	s.link.SetOfflineMode()
	s.sleep(s.cfg.stopSettleDelay)
}

// Close closes the connection with the tracker.
//
// If recording is active it is stopped first. The data file is then closed,
// transferred to the experiment PC, and the link is closed; this ordering
// is fixed. The single-session slot is released even if a teardown step
// fails.
func (s *Session) Close() error {
	defer sessionActive.Store(false)

	if s.state.IsDisconnected() {
		return nil
	}

	if s.state.IsRecording() {
		s.StopRecording()
	}

	var errs error

	s.logger.Info("closing data file")
	errs = errors.Join(errs, s.link.CloseDataFile())
	s.sleep(s.cfg.closeSettleDelay)

	s.logger.Info("transferring data file", "file", s.cfg.dataFile)
	errs = errors.Join(errs, s.link.ReceiveDataFile(s.cfg.dataFile, s.cfg.dataFile))
	s.sleep(s.cfg.closeSettleDelay)

	s.logger.Info("closing tracker link")
	errs = errors.Join(errs, s.link.Close())
	s.sleep(s.cfg.closeSettleDelay)

	s.state.ToDisconnected()

	return errs
}

// Connected returns the status of the tracker connection.
func (s *Session) Connected() bool {
	return !s.state.IsDisconnected() && s.link.Connected()
}

// SendCommand sends a command to the tracker.
func (s *Session) SendCommand(cmd string) error {
	if s.state.IsDisconnected() {
		return ErrNotConnected
	}

	return s.link.SendCommand(cmd)
}

// Log writes a message to the tracker data file.
func (s *Session) Log(msg string) error {
	if s.state.IsDisconnected() {
		return ErrNotConnected
	}

	return s.link.SendMessage(msg)
}

// LogVariable writes a variable to the tracker data file. This is a
// shortcut for Log("var <name> <value>").
func (s *Session) LogVariable(name string, value any) error {
	if s.state.IsDisconnected() {
		return ErrNotConnected
	}

	val := fmt.Sprint(value)
	s.vars.Store(name, val)

	return s.link.SendMessage(fmt.Sprintf("var %s %s", name, val))
}

// Variable returns the last value recorded for name with LogVariable.
func (s *Session) Variable(name string) (string, bool) {
	return s.vars.Load(name)
}

// StatusMessage sets the tracker status message, which is displayed on the
// experimenter PC.
func (s *Session) StatusMessage(text string) error {
	if s.state.IsDisconnected() {
		return ErrNotConnected
	}

	return s.link.SendCommand(fmt.Sprintf("record_status_message '%s'", text))
}

// Calibrate puts the tracker into its camera-setup/calibration mode.
//
// Calibration is forbidden once recording has started and fails with
// ErrAlreadyRecording.
func (s *Session) Calibrate() error {
	if s.state.IsRecording() {
		return ErrAlreadyRecording
	}
	if !s.state.IsConnected() {
		return ErrNotConnected
	}

	return s.link.StartSetup()
}

// sleep pauses the calling goroutine for the given settle delay.
func (s *Session) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// sleepCtx pauses for d or until the context is done, whichever comes
// first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := pool.GetTimer(d)
	defer pool.PutTimer(t)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
