package eyelink_test

import (
	"context"
	"testing"
	"time"

	"github.com/cogbench/go-eyelink/eyelink"
	"github.com/cogbench/go-eyelink/eyelinktest"
	"github.com/stretchr/testify/require"
)

func leftSample(t float64, x, y float64) eyelink.Sample {
	return eyelink.Sample{
		Time:      t,
		Left:      eyelink.Position{X: x, Y: y},
		LeftValid: true,
	}
}

func rightSample(t float64, x, y float64) eyelink.Sample {
	return eyelink.Sample{
		Time:       t,
		Right:      eyelink.Position{X: x, Y: y},
		RightValid: true,
	}
}

func TestEyeResolution(t *testing.T) {
	tests := []struct {
		name      string
		available eyelink.Eye
		want      eyelink.Eye
		wantErr   error
	}{
		{"right stays right", eyelink.RightEye, eyelink.RightEye, nil},
		{"left stays left", eyelink.LeftEye, eyelink.LeftEye, nil},
		{"binocular resolves to left", eyelink.Binocular, eyelink.LeftEye, nil},
		{"unknown report", eyelink.Eye(3), 0, eyelink.ErrEyeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			link := eyelinktest.NewLink()
			link.SetEye(tt.available)
			s := newTestSession(t, link)
			connect(t, s)
			startRecording(t, s)

			_, _, err := s.Sample()
			if tt.wantErr != nil {
				require.ErrorIs(err, tt.wantErr)
				_, resolved := s.Eye()
				require.False(resolved)

				return
			}
			require.NoError(err)

			eye, resolved := s.Eye()
			require.True(resolved)
			require.Equal(tt.want, eye)

			// The selection is written to the data file.
			val, ok := link.Variable("eye_used")
			require.True(ok)
			require.Equal(tt.want.String(), val)
		})
	}
}

func TestSample(t *testing.T) {
	t.Run("requires recording", func(t *testing.T) {
		require := require.New(t)

		s := newTestSession(t, eyelinktest.NewLink())
		_, _, err := s.Sample()
		require.ErrorIs(err, eyelink.ErrNotRecording)

		connect(t, s)
		_, _, err = s.Sample()
		require.ErrorIs(err, eyelink.ErrNotRecording)
	})

	t.Run("newest position for the selected eye", func(t *testing.T) {
		require := require.New(t)

		link := eyelinktest.NewLink()
		link.QueueSamples(leftSample(1000, 312, 228))
		s := newTestSession(t, link)
		connect(t, s)
		startRecording(t, s)

		pos, ok, err := s.Sample()
		require.NoError(err)
		require.True(ok)
		require.Equal(eyelink.Position{X: 312, Y: 228}, pos)
	})

	t.Run("no sample available", func(t *testing.T) {
		require := require.New(t)

		s := newTestSession(t, eyelinktest.NewLink())
		connect(t, s)
		startRecording(t, s)

		_, ok, err := s.Sample()
		require.NoError(err)
		require.False(ok)
	})

	t.Run("wrong-eye sample is not returned", func(t *testing.T) {
		require := require.New(t)

		link := eyelinktest.NewLink() // resolves to the left eye
		link.QueueSamples(rightSample(1000, 312, 228), leftSample(1004, 310, 230))
		s := newTestSession(t, link)
		connect(t, s)
		startRecording(t, s)

		_, ok, err := s.Sample()
		require.NoError(err)
		require.False(ok)

		pos, ok, err := s.Sample()
		require.NoError(err)
		require.True(ok)
		require.Equal(eyelink.Position{X: 310, Y: 230}, pos)
	})

	t.Run("right eye selected", func(t *testing.T) {
		require := require.New(t)

		link := eyelinktest.NewLink()
		link.SetEye(eyelink.RightEye)
		link.QueueSamples(rightSample(1000, 512, 384))
		s := newTestSession(t, link)
		connect(t, s)
		startRecording(t, s)

		pos, ok, err := s.Sample()
		require.NoError(err)
		require.True(ok)
		require.Equal(eyelink.Position{X: 512, Y: 384}, pos)
	})
}

func TestWaitForEvent(t *testing.T) {
	t.Run("requires recording", func(t *testing.T) {
		require := require.New(t)

		s := newTestSession(t, eyelinktest.NewLink())
		_, err := s.WaitForEvent(context.Background(), eyelink.FixationStart)
		require.ErrorIs(err, eyelink.ErrNotRecording)
	})

	t.Run("discards non-matching events", func(t *testing.T) {
		require := require.New(t)

		link := eyelinktest.NewLink()
		link.QueueEvents(
			eyelink.GazeEvent{Kind: eyelink.BlinkStart, Time: 900},
			eyelink.GazeEvent{Kind: eyelink.BlinkEnd, Time: 950},
			eyelink.GazeEvent{
				Kind:  eyelink.SaccadeEnd,
				Time:  1000,
				Start: eyelink.Position{X: 100, Y: 100},
				End:   eyelink.Position{X: 300, Y: 220},
			},
		)
		s := newTestSession(t, link)
		connect(t, s)
		startRecording(t, s)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		tm, start, end, err := s.WaitForSaccadeEnd(ctx)
		require.NoError(err)
		require.Equal(1000.0, tm)
		require.Equal(eyelink.Position{X: 100, Y: 100}, start)
		require.Equal(eyelink.Position{X: 300, Y: 220}, end)
	})

	t.Run("context bounds the wait", func(t *testing.T) {
		require := require.New(t)

		s := newTestSession(t, eyelinktest.NewLink())
		connect(t, s)
		startRecording(t, s)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := s.WaitForEvent(ctx, eyelink.FixationStart)
		require.ErrorIs(err, context.DeadlineExceeded)
	})

	t.Run("projections", func(t *testing.T) {
		require := require.New(t)

		link := eyelinktest.NewLink()
		link.QueueEvents(
			eyelink.GazeEvent{Kind: eyelink.SaccadeStart, Time: 100, Start: eyelink.Position{X: 10, Y: 20}},
			eyelink.GazeEvent{Kind: eyelink.FixationStart, Time: 200, Start: eyelink.Position{X: 30, Y: 40}},
			eyelink.GazeEvent{
				Kind:  eyelink.FixationEnd,
				Time:  300,
				Start: eyelink.Position{X: 30, Y: 40},
				End:   eyelink.Position{X: 32, Y: 41},
			},
			eyelink.GazeEvent{Kind: eyelink.BlinkStart, Time: 400},
			eyelink.GazeEvent{Kind: eyelink.BlinkEnd, Time: 500},
		)
		s := newTestSession(t, link)
		connect(t, s)
		startRecording(t, s)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		tm, start, err := s.WaitForSaccadeStart(ctx)
		require.NoError(err)
		require.Equal(100.0, tm)
		require.Equal(eyelink.Position{X: 10, Y: 20}, start)

		tm, start, err = s.WaitForFixationStart(ctx)
		require.NoError(err)
		require.Equal(200.0, tm)
		require.Equal(eyelink.Position{X: 30, Y: 40}, start)

		tm, start, end, err := s.WaitForFixationEnd(ctx)
		require.NoError(err)
		require.Equal(300.0, tm)
		require.Equal(eyelink.Position{X: 30, Y: 40}, start)
		require.Equal(eyelink.Position{X: 32, Y: 41}, end)

		tm, err = s.WaitForBlinkStart(ctx)
		require.NoError(err)
		require.Equal(400.0, tm)

		tm, err = s.WaitForBlinkEnd(ctx)
		require.NoError(err)
		require.Equal(500.0, tm)
	})
}
