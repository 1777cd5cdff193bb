package eyelink

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Drift-correction defaults, matching the tracker host's recommended
// fixation-trigger parameters.
const (
	// DefaultMinSamples is the number of stable samples required before a
	// fixation is accepted.
	DefaultMinSamples = 30
	// DefaultMaxDev is the maximum allowed deviation of the mean fixation
	// position from the target, in pixels. The deviation is computed as a
	// diagnostic; the pass/fail decision is made by the device (see
	// FixTriggeredDriftCorrection).
	DefaultMaxDev = 60
	// DefaultResetThreshold is the maximum allowed sample-to-sample
	// deviation in either axis, in pixels. A larger jump restarts the
	// sample collection.
	DefaultResetThreshold = 10
)

// DriftOptions configures fixation-triggered drift correction.
// Zero fields take the package defaults.
type DriftOptions struct {
	// MinSamples is the minimum number of stable samples that must be
	// acquired before the fixation is offered to the device.
	MinSamples int

	// MaxDev is the maximum allowed deviation from the target in pixels.
	// Diagnostic only; the device's calibration-result query is
	// authoritative.
	MaxDev float64

	// ResetThreshold is the maximum allowed deviation from one sample to
	// the next, in pixels. Exceeding it in either axis discards all
	// collected samples and restarts the fixation.
	ResetThreshold float64
}

func (o DriftOptions) withDefaults() DriftOptions {
	if o.MinSamples <= 0 {
		o.MinSamples = DefaultMinSamples
	}
	if o.MaxDev <= 0 {
		o.MaxDev = DefaultMaxDev
	}
	if o.ResetThreshold <= 0 {
		o.ResetThreshold = DefaultResetThreshold
	}
	return o
}

// fixationBuffer accumulates candidate fixation samples for drift
// correction.
//
// Consecutive duplicates are ignored. A sample that deviates from the last
// accepted one by more than the reset threshold in either axis discards
// the whole buffer; this restarts the fixation rather than rejecting the
// single sample.
type fixationBuffer struct {
	xs             []float64
	ys             []float64
	resetThreshold float64
}

func newFixationBuffer(capacity int, resetThreshold float64) *fixationBuffer {
	return &fixationBuffer{
		xs:             make([]float64, 0, capacity),
		ys:             make([]float64, 0, capacity),
		resetThreshold: resetThreshold,
	}
}

// Push offers a sample to the buffer and returns the resulting length.
func (b *fixationBuffer) Push(p Position) int {
	n := len(b.xs)
	if n > 0 && p.X == b.xs[n-1] && p.Y == b.ys[n-1] {
		return n // consecutive duplicate, ignore
	}

	if n > 0 && (math.Abs(p.X-b.xs[n-1]) > b.resetThreshold || math.Abs(p.Y-b.ys[n-1]) > b.resetThreshold) {
		b.Reset()
		return 0
	}

	b.xs = append(b.xs, p.X)
	b.ys = append(b.ys, p.Y)

	return len(b.xs)
}

// Len returns the number of accepted samples.
func (b *fixationBuffer) Len() int {
	return len(b.xs)
}

// Reset discards all accepted samples.
func (b *fixationBuffer) Reset() {
	b.xs = b.xs[:0]
	b.ys = b.ys[:0]
}

// Mean returns the arithmetic mean position of the accepted samples.
func (b *fixationBuffer) Mean() Position {
	if len(b.xs) == 0 {
		return Position{}
	}

	var sumX, sumY float64
	for i := range b.xs {
		sumX += b.xs[i]
		sumY += b.ys[i]
	}

	n := float64(len(b.xs))

	return Position{X: sumX / n, Y: sumY / n}
}

// DriftCorrection performs operator-triggered drift correction and falls
// back to the calibration screen if necessary.
//
// pos is the drift-correction target, or nil for the display center. It
// returns true on success and false if the operator escaped the procedure.
// A device failure during the attempt is logged and reported as false
// rather than an error, so the experiment falls back to the calibration
// menu instead of aborting.
//
// Drift correction is forbidden once recording has started and fails with
// ErrAlreadyRecording; a lost link connection fails with ErrNotConnected.
func (s *Session) DriftCorrection(ctx context.Context, pos *Position) (bool, error) {
	if s.state.IsRecording() {
		return false, ErrAlreadyRecording
	}
	if s.state.IsDisconnected() {
		return false, ErrNotConnected
	}

	p := s.driftTarget(pos)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if !s.link.Connected() {
			return false, ErrNotConnected
		}

		// Let the device drive the interaction: it draws nothing itself
		// (the calibration display owns the target) and may enter setup.
		err := s.link.DriftCorrect(int(p.X), int(p.Y), false, true)
		switch {
		case err == nil:
			s.logger.Debug("drift correction succeeded", "x", p.X, "y", p.Y)
			return true, nil
		case errors.Is(err, ErrSetupEscaped):
			s.logger.Debug("drift correction escaped by operator")
			return false, nil
		default:
			s.logger.Warn("drift correction failed, falling back to setup", "error", err)
			return false, nil
		}
	}
}

// FixTriggeredDriftCorrection performs fixation-triggered drift correction
// and falls back to the calibration screen if necessary.
//
// pos is the drift-correction target, or nil for the display center. The
// routine collects samples until opts.MinSamples consecutive stable ones
// are seen (a jump beyond opts.ResetThreshold restarts the collection),
// then offers the fixation to the device and queries its calibration
// result. A rejected result restarts the collection; only the device's
// verdict gates success. The deviation of the mean position from the
// target is computed against opts.MaxDev as a diagnostic only.
//
// The session is placed in the recording state for the duration of the
// routine and restored on every exit path. The configured keyboard is
// polled each iteration; any reported press cancels the procedure, which
// returns false.
func (s *Session) FixTriggeredDriftCorrection(ctx context.Context, pos *Position, opts DriftOptions) (bool, error) {
	if s.state.IsRecording() {
		return false, ErrAlreadyRecording
	}
	if !s.state.IsConnected() {
		return false, ErrNotConnected
	}

	opts = opts.withDefaults()
	p := s.driftTarget(pos)

	if err := s.prepareDriftCorrection(p); err != nil {
		return false, err
	}

	if err := s.state.ToRecording(); err != nil {
		return false, err
	}
	// The recording flag must never leak: restore it on success, cancel
	// and failure alike.
	defer func() { _ = s.state.ToConnected() }()

	buf := newFixationBuffer(opts.MinSamples, opts.ResetThreshold)

	for buf.Len() < opts.MinSamples {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		if s.cancelRequested() {
			s.logger.Debug("fixation-triggered drift correction cancelled by operator")
			return false, nil
		}

		sample, ok, err := s.Sample()
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}

		if buf.Push(sample) < opts.MinSamples {
			continue
		}

		mean := buf.Mean()
		deviation := math.Hypot(mean.X-p.X, mean.Y-p.Y)
		// The deviation is diagnostic only: the device's calibration
		// result below is authoritative for pass/fail.
		s.logger.Debug("fixation settled",
			"mean_x", mean.X,
			"mean_y", mean.Y,
			"deviation", deviation,
			"max_dev", opts.MaxDev,
		)

		if err := s.link.AcceptTrigger(); err != nil {
			buf.Reset()
			s.logger.Warn("accept trigger failed, retrying fixation", "error", err)

			continue
		}

		if err := s.link.CalibrationResult(); err != nil {
			buf.Reset()
			s.logger.Debug("calibration result rejected, retrying fixation", "error", err)

			continue
		}
	}

	if err := s.link.ApplyDriftCorrect(); err != nil {
		return false, err
	}

	s.logger.Debug("fixation-triggered drift correction succeeded", "x", p.X, "y", p.Y)

	return true, nil
}

// prepareDriftCorrection puts the tracker in drift-correction mode and
// waits for samples to start flowing.
func (s *Session) prepareDriftCorrection(p Position) error {
	cmds := []string{
		"heuristic_filter = ON",
		fmt.Sprintf("drift_correction_targets = %d %d", int(p.X), int(p.Y)),
		"start_drift_correction data = 0 0 1 0",
	}
	for _, cmd := range cmds {
		if err := s.link.SendCommand(cmd); err != nil {
			return err
		}
	}

	s.sleep(s.cfg.driftSettleDelay)

	if !s.link.WaitForBlockStart(s.cfg.blockStartTimeout) {
		return fmt.Errorf("%w: no block start signal for drift correction", ErrRecordingStart)
	}

	return nil
}

// driftTarget resolves the drift-correction target, defaulting to the
// display center.
func (s *Session) driftTarget(pos *Position) Position {
	if pos == nil {
		return s.cfg.center()
	}

	return *pos
}

// cancelRequested polls the configured keyboard for an operator cancel
// request.
func (s *Session) cancelRequested() bool {
	if s.cfg.keyboard == nil {
		return false
	}

	_, ok := s.cfg.keyboard.Press()

	return ok
}
