package eyelink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixationBufferPush(t *testing.T) {
	require := require.New(t)

	buf := newFixationBuffer(30, 10)
	require.Equal(0, buf.Len())

	require.Equal(1, buf.Push(Position{X: 100, Y: 100}))

	// A consecutive duplicate is ignored, not accepted twice.
	require.Equal(1, buf.Push(Position{X: 100, Y: 100}))
	require.Equal(1, buf.Len())

	require.Equal(2, buf.Push(Position{X: 104, Y: 98}))
	require.Equal(3, buf.Push(Position{X: 106, Y: 103}))
}

func TestFixationBufferResetOnDeviation(t *testing.T) {
	require := require.New(t)

	buf := newFixationBuffer(30, 10)
	buf.Push(Position{X: 100, Y: 100})
	buf.Push(Position{X: 105, Y: 100})
	buf.Push(Position{X: 108, Y: 104})
	require.Equal(3, buf.Len())

	// A jump beyond the reset threshold discards the whole buffer; the
	// deviating sample itself is not kept.
	require.Equal(0, buf.Push(Position{X: 200, Y: 100}))
	require.Equal(0, buf.Len())

	// The next sample starts a fresh fixation.
	require.Equal(1, buf.Push(Position{X: 200, Y: 100}))
}

func TestFixationBufferResetOnSingleAxis(t *testing.T) {
	require := require.New(t)

	buf := newFixationBuffer(30, 10)
	buf.Push(Position{X: 100, Y: 100})

	// Deviation on the y axis alone triggers the reset.
	require.Equal(0, buf.Push(Position{X: 100, Y: 120}))
	require.Equal(0, buf.Len())
}

func TestFixationBufferMean(t *testing.T) {
	require := require.New(t)

	buf := newFixationBuffer(30, 10)
	require.Equal(Position{}, buf.Mean())

	buf.Push(Position{X: 100, Y: 200})
	buf.Push(Position{X: 102, Y: 202})
	buf.Push(Position{X: 104, Y: 198})

	mean := buf.Mean()
	require.InDelta(102, mean.X, 1e-9)
	require.InDelta(200, mean.Y, 1e-9)
}
