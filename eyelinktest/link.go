// Package eyelinktest provides a scripted, in-memory implementation of
// eyelink.Link for tests and hardware-less development.
//
// The link journals every command, message and variable it receives and
// replays scripted samples, events and result sequences. Journals are safe
// to read from another goroutine while a session's poll loop is blocked on
// the link.
package eyelinktest

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cogbench/go-eyelink/eyelink"
	"github.com/cogbench/go-eyelink/internal/queue"
	"github.com/cogbench/go-eyelink/internal/util"
	"github.com/puzpuzpuz/xsync/v3"
)

// ErrScriptedFailure is the default error injected by the failure hooks.
var ErrScriptedFailure = errors.New("eyelinktest: scripted failure")

// Link is a scripted eyelink.Link.
//
// The zero value is not usable; create instances with NewLink. By default
// the link opens successfully, reports tracker version 3 ("EYELINK CL 4"),
// records the left eye, signals block start, and succeeds at every
// recording and drift-correction step.
type Link struct {
	mu sync.Mutex

	open      bool
	dataFile  string
	fileOpen  bool
	offline   bool
	recording bool

	commands []string
	messages []string
	received [][2]string // src, dst pairs passed to ReceiveDataFile

	// Vars holds the variables parsed from "var <name> <value>" messages.
	// It may be read concurrently with a blocked waiter.
	vars *xsync.MapOf[string, string]

	samples   []eyelink.Sample
	sampleIdx int
	events    *queue.FIFO[eyelink.GazeEvent]

	eye            eyelink.Eye
	version        int
	versionString  string
	openErr        error
	startFailures  int
	startCalls     atomic.Int32
	denyBlockStart bool

	driftResults []error
	driftCalls   int
	calResults   []error
	calCalls     int

	acceptCount  int
	applyCount   int
	setupCount   int
	backdropPix  []uint32
	backdropSize [2]int
}

var _ eyelink.Link = (*Link)(nil)

// NewLink creates a scripted link with permissive defaults.
func NewLink() *Link {
	return &Link{
		vars:          xsync.NewMapOf[string, string](),
		events:        queue.NewFIFO[eyelink.GazeEvent](),
		eye:           eyelink.LeftEye,
		version:       3,
		versionString: "EYELINK CL 4",
	}
}

// --- scripting hooks ---

// FailOpen makes Open fail with the given error (ErrScriptedFailure if
// nil).
func (l *Link) FailOpen(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		err = ErrScriptedFailure
	}
	l.openErr = err
}

// FailStartRecording makes the first n StartRecording calls fail.
func (l *Link) FailStartRecording(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.startFailures = n
}

// DenyBlockStart makes WaitForBlockStart report false.
func (l *Link) DenyBlockStart() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.denyBlockStart = true
}

// SetEye scripts the tracker's eye-availability report.
func (l *Link) SetEye(eye eyelink.Eye) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.eye = eye
}

// SetVersion scripts the tracker version report.
func (l *Link) SetVersion(version int, versionString string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.version = version
	l.versionString = versionString
}

// QueueSamples appends gaze samples to the scripted sample sequence. Each
// NewestSample call consumes one sample; when the sequence is exhausted,
// NewestSample reports no sample.
func (l *Link) QueueSamples(samples ...eyelink.Sample) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.samples = append(l.samples, samples...)
}

// QueueEvents appends gaze events to the scripted event queue.
func (l *Link) QueueEvents(events ...eyelink.GazeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range events {
		l.events.Enqueue(ev)
	}
}

// ScriptDriftCorrect scripts the outcomes of successive DriftCorrect
// calls. Calls beyond the script succeed.
func (l *Link) ScriptDriftCorrect(results ...error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.driftResults = append(l.driftResults, results...)
}

// ScriptCalibrationResult scripts the outcomes of successive
// CalibrationResult calls. Calls beyond the script succeed.
func (l *Link) ScriptCalibrationResult(results ...error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calResults = append(l.calResults, results...)
}

// --- journals ---

// Commands returns a snapshot of the commands received so far.
func (l *Link) Commands() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return util.CloneSlice(l.commands, 0)
}

// Messages returns a snapshot of the data-file messages received so far.
func (l *Link) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return util.CloneSlice(l.messages, 0)
}

// Received returns the (src, dst) pairs passed to ReceiveDataFile.
func (l *Link) Received() [][2]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return util.CloneSlice(l.received, 0)
}

// Variable returns the last value seen for a "var <name> <value>" message.
func (l *Link) Variable(name string) (string, bool) {
	return l.vars.Load(name)
}

// StartRecordingCalls returns the number of StartRecording calls seen.
func (l *Link) StartRecordingCalls() int {
	return int(l.startCalls.Load())
}

// AcceptCount returns the number of AcceptTrigger calls seen.
func (l *Link) AcceptCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acceptCount
}

// ApplyCount returns the number of ApplyDriftCorrect calls seen.
func (l *Link) ApplyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.applyCount
}

// SetupCount returns the number of StartSetup calls seen.
func (l *Link) SetupCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.setupCount
}

// Backdrop returns the last uploaded backdrop pixels and size.
func (l *Link) Backdrop() (pixels []uint32, width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return util.CloneSlice(l.backdropPix, 0), l.backdropSize[0], l.backdropSize[1]
}

// SamplesConsumed returns how many scripted samples have been polled.
func (l *Link) SamplesConsumed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sampleIdx
}

// --- eyelink.Link implementation ---

func (l *Link) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.openErr != nil {
		return l.openErr
	}
	l.open = true
	return nil
}

func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
	return nil
}

func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

func (l *Link) SendCommand(cmd string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.commands = append(l.commands, cmd)
	return nil
}

func (l *Link) SendMessage(msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)

	// Mirror "var <name> <value>" messages into the variable journal.
	if name, value, ok := parseVarMessage(msg); ok {
		l.vars.Store(name, value)
	}
	return nil
}

// parseVarMessage splits a "var <name> <value>" data-file message.
func parseVarMessage(msg string) (name, value string, ok bool) {
	rest, found := strings.CutPrefix(msg, "var ")
	if !found {
		return "", "", false
	}

	name, value, found = strings.Cut(rest, " ")
	if !found || name == "" {
		return "", "", false
	}

	return name, value, true
}

func (l *Link) OpenDataFile(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dataFile = name
	l.fileOpen = true
	return nil
}

func (l *Link) CloseDataFile() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fileOpen = false
	l.commands = append(l.commands, "close_data_file")
	return nil
}

func (l *Link) ReceiveDataFile(src, dst string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.received = append(l.received, [2]string{src, dst})
	l.commands = append(l.commands, "receive_data_file")
	return nil
}

func (l *Link) TrackerVersion() (int, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version, l.versionString
}

func (l *Link) SetOfflineMode() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.offline = true
	l.recording = false
}

func (l *Link) StartRecording(fileSamples, fileEvents, linkSamples, linkEvents bool) error {
	l.startCalls.Add(1)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.startFailures > 0 {
		l.startFailures--
		return ErrScriptedFailure
	}
	l.recording = true
	l.offline = false
	return nil
}

func (l *Link) BeginRealTimeMode(delay time.Duration) {}

func (l *Link) EndRealTimeMode() {}

func (l *Link) WaitForBlockStart(timeout time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.denyBlockStart
}

func (l *Link) NewestSample() (eyelink.Sample, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sampleIdx >= len(l.samples) {
		return eyelink.Sample{}, false
	}

	s := l.samples[l.sampleIdx]
	l.sampleIdx++
	return s, true
}

func (l *Link) NextEvent() (eyelink.GazeEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events.Dequeue()
}

func (l *Link) EyeAvailable() eyelink.Eye {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eye
}

func (l *Link) DriftCorrect(x, y int, draw, allowSetup bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.driftCalls < len(l.driftResults) {
		err := l.driftResults[l.driftCalls]
		l.driftCalls++
		return err
	}
	l.driftCalls++
	return nil
}

func (l *Link) ApplyDriftCorrect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.applyCount++
	return nil
}

func (l *Link) CalibrationResult() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.calCalls < len(l.calResults) {
		err := l.calResults[l.calCalls]
		l.calCalls++
		return err
	}
	l.calCalls++
	return nil
}

func (l *Link) AcceptTrigger() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acceptCount++
	return nil
}

func (l *Link) StartSetup() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setupCount++
	return nil
}

func (l *Link) BitmapBackdrop(width, height int, pixels []uint32, cropX, cropY, cropW, cropH, x, y int, mode eyelink.BackdropMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backdropPix = util.CloneSlice(pixels, 0)
	l.backdropSize = [2]int{width, height}
	return nil
}
