package eyelink

import (
	"context"
	"image"
	"time"

	"github.com/cogbench/go-eyelink/logger"
)

// Dummy timing defaults. The dummy preserves the real implementation's
// pacing so that an experiment's timing stays representative without
// hardware attached.
const (
	defaultDummyEventDelay = 100 * time.Millisecond
	defaultDummyDriftDelay = 200 * time.Millisecond
)

// Dummy implements the Tracker contract with no device attached.
//
// It lets an experiment run unmodified without hardware: configuration and
// logging calls are no-ops, Sample returns the origin, every event wait
// returns after a short simulated delay with origin coordinates, and drift
// correction always succeeds. The only errors it ever returns are context
// cancellations.
type Dummy struct {
	logger     logger.Logger
	start      time.Time
	eventDelay time.Duration
	driftDelay time.Duration
}

var _ Tracker = (*Dummy)(nil)

// DummyOption represents a functional option for configuring a Dummy.
type DummyOption func(*Dummy)

// WithDummyDelays overrides the simulated event-wait and drift-correction
// delays. Tests shorten them to keep runs fast.
func WithDummyDelays(event, drift time.Duration) DummyOption {
	return func(d *Dummy) {
		d.eventDelay = event
		d.driftDelay = drift
	}
}

// WithDummyLogger sets the logger for the dummy tracker.
func WithDummyLogger(l logger.Logger) DummyOption {
	return func(d *Dummy) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDummy creates a hardware-less tracker.
func NewDummy(opts ...DummyOption) *Dummy {
	d := &Dummy{
		logger:     logger.GetLogger(),
		start:      time.Now(),
		eventDelay: defaultDummyEventDelay,
		driftDelay: defaultDummyDriftDelay,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// ticks returns the simulated tracker timestamp: milliseconds since the
// dummy was constructed.
func (d *Dummy) ticks() float64 {
	return float64(time.Since(d.start).Milliseconds())
}

func (d *Dummy) Connect(ctx context.Context) error { return ctx.Err() }

func (d *Dummy) Close() error { return nil }

func (d *Dummy) Connected() bool { return true }

func (d *Dummy) SendCommand(cmd string) error { return nil }

// Log writes the message to the process log instead of a data file.
func (d *Dummy) Log(msg string) error {
	d.logger.Info("tracker log", "msg", msg)
	return nil
}

func (d *Dummy) LogVariable(name string, value any) error { return nil }

func (d *Dummy) StatusMessage(text string) error { return nil }

func (d *Dummy) Calibrate() error { return nil }

// DriftCorrection always succeeds after a short simulated delay.
func (d *Dummy) DriftCorrection(ctx context.Context, pos *Position) (bool, error) {
	if err := sleepCtx(ctx, d.driftDelay); err != nil {
		return false, err
	}

	return true, nil
}

// FixTriggeredDriftCorrection always succeeds after a short simulated
// delay.
func (d *Dummy) FixTriggeredDriftCorrection(ctx context.Context, pos *Position, opts DriftOptions) (bool, error) {
	if err := sleepCtx(ctx, d.driftDelay); err != nil {
		return false, err
	}

	return true, nil
}

func (d *Dummy) StartRecording(ctx context.Context) error { return ctx.Err() }

func (d *Dummy) StopRecording() {}

// Sample returns a fixed origin coordinate.
func (d *Dummy) Sample() (Position, bool, error) {
	return Position{}, true, nil
}

// WaitForEvent returns an event of the requested kind after a short
// simulated delay, stamped with the simulated tracker time.
func (d *Dummy) WaitForEvent(ctx context.Context, kind EventKind) (GazeEvent, error) {
	if err := sleepCtx(ctx, d.eventDelay); err != nil {
		return GazeEvent{}, err
	}

	return GazeEvent{Kind: kind, Time: d.ticks()}, nil
}

func (d *Dummy) WaitForSaccadeStart(ctx context.Context) (float64, Position, error) {
	ev, err := d.WaitForEvent(ctx, SaccadeStart)
	return ev.Time, ev.Start, err
}

func (d *Dummy) WaitForSaccadeEnd(ctx context.Context) (float64, Position, Position, error) {
	ev, err := d.WaitForEvent(ctx, SaccadeEnd)
	return ev.Time, ev.Start, ev.End, err
}

func (d *Dummy) WaitForFixationStart(ctx context.Context) (float64, Position, error) {
	ev, err := d.WaitForEvent(ctx, FixationStart)
	return ev.Time, ev.Start, err
}

func (d *Dummy) WaitForFixationEnd(ctx context.Context) (float64, Position, Position, error) {
	ev, err := d.WaitForEvent(ctx, FixationEnd)
	return ev.Time, ev.Start, ev.End, err
}

func (d *Dummy) WaitForBlinkStart(ctx context.Context) (float64, error) {
	ev, err := d.WaitForEvent(ctx, BlinkStart)
	return ev.Time, err
}

func (d *Dummy) WaitForBlinkEnd(ctx context.Context) (float64, error) {
	ev, err := d.WaitForEvent(ctx, BlinkEnd)
	return ev.Time, err
}

func (d *Dummy) SetBackdrop(img image.Image) error { return nil }
