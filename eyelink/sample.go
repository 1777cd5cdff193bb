package eyelink

import "context"

// Sample returns the most recent gaze position for the selected eye.
//
// It requires an active recording (ErrNotRecording otherwise) and resolves
// the eye selection lazily on first use. If the link's newest sample does
// not carry data for the selected eye, ok is false and the caller should
// poll again; a sample for the wrong eye is never returned.
func (s *Session) Sample() (pos Position, ok bool, err error) {
	if !s.state.IsRecording() {
		return Position{}, false, ErrNotRecording
	}

	if err := s.resolveEye(); err != nil {
		return Position{}, false, err
	}

	raw, ok := s.link.NewestSample()
	if !ok {
		return Position{}, false, nil
	}

	switch s.eye {
	case RightEye:
		if raw.RightValid {
			return raw.Right, true, nil
		}
	case LeftEye:
		if raw.LeftValid {
			return raw.Left, true, nil
		}
	}

	return Position{}, false, nil
}

// WaitForEvent blocks until the tracker reports a gaze event of the given
// kind, discarding non-matching events.
//
// It requires an active recording and a resolved eye selection. The wait is
// a busy-poll on the link's event queue with no internal timeout; callers
// that need a bound attach a deadline or cancellation to ctx, which is
// checked on every iteration.
func (s *Session) WaitForEvent(ctx context.Context, kind EventKind) (GazeEvent, error) {
	if !s.state.IsRecording() {
		return GazeEvent{}, ErrNotRecording
	}

	if err := s.resolveEye(); err != nil {
		return GazeEvent{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return GazeEvent{}, err
		}

		ev, ok := s.link.NextEvent()
		if ok && ev.Kind == kind {
			return ev, nil
		}
	}
}

// WaitForSaccadeStart waits for a saccade start and returns the event
// timestamp and start position.
func (s *Session) WaitForSaccadeStart(ctx context.Context) (float64, Position, error) {
	ev, err := s.WaitForEvent(ctx, SaccadeStart)
	return ev.Time, ev.Start, err
}

// WaitForSaccadeEnd waits for a saccade end and returns the event
// timestamp, start position and end position.
func (s *Session) WaitForSaccadeEnd(ctx context.Context) (float64, Position, Position, error) {
	ev, err := s.WaitForEvent(ctx, SaccadeEnd)
	return ev.Time, ev.Start, ev.End, err
}

// WaitForFixationStart waits for a fixation start and returns the event
// timestamp and start position.
func (s *Session) WaitForFixationStart(ctx context.Context) (float64, Position, error) {
	ev, err := s.WaitForEvent(ctx, FixationStart)
	return ev.Time, ev.Start, err
}

// WaitForFixationEnd waits for a fixation end and returns the event
// timestamp, start position and end position.
func (s *Session) WaitForFixationEnd(ctx context.Context) (float64, Position, Position, error) {
	ev, err := s.WaitForEvent(ctx, FixationEnd)
	return ev.Time, ev.Start, ev.End, err
}

// WaitForBlinkStart waits for a blink start and returns the event
// timestamp.
func (s *Session) WaitForBlinkStart(ctx context.Context) (float64, error) {
	ev, err := s.WaitForEvent(ctx, BlinkStart)
	return ev.Time, err
}

// WaitForBlinkEnd waits for a blink end and returns the event timestamp.
func (s *Session) WaitForBlinkEnd(ctx context.Context) (float64, error) {
	ev, err := s.WaitForEvent(ctx, BlinkEnd)
	return ev.Time, err
}
