package eyelinktest

import (
	"testing"

	"github.com/cogbench/go-eyelink/eyelink"
	"github.com/stretchr/testify/require"
)

func TestParseVarMessage(t *testing.T) {
	tests := []struct {
		msg       string
		wantName  string
		wantValue string
		wantOK    bool
	}{
		{"var block 2", "block", "2", true},
		{"var eye_used left", "eye_used", "left", true},
		{"var note a b c", "note", "a b c", true},
		{"trial 1", "", "", false},
		{"var onlyname", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			name, value, ok := parseVarMessage(tt.msg)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantName, name)
			require.Equal(t, tt.wantValue, value)
		})
	}
}

func TestLinkJournaling(t *testing.T) {
	require := require.New(t)

	l := NewLink()
	require.NoError(l.Open())
	require.True(l.Connected())

	require.NoError(l.SendCommand("clear_screen 0"))
	require.NoError(l.SendMessage("var trial 7"))
	require.Equal([]string{"clear_screen 0"}, l.Commands())
	require.Equal([]string{"var trial 7"}, l.Messages())

	val, ok := l.Variable("trial")
	require.True(ok)
	require.Equal("7", val)

	// Journals are snapshots, not live views.
	cmds := l.Commands()
	require.NoError(l.SendCommand("clear_screen 1"))
	require.Len(cmds, 1)
}

func TestLinkSampleScript(t *testing.T) {
	require := require.New(t)

	l := NewLink()
	l.QueueSamples(
		eyelink.Sample{Time: 1, Left: eyelink.Position{X: 10}, LeftValid: true},
		eyelink.Sample{Time: 2, Left: eyelink.Position{X: 20}, LeftValid: true},
	)

	s, ok := l.NewestSample()
	require.True(ok)
	require.Equal(10.0, s.Left.X)

	s, ok = l.NewestSample()
	require.True(ok)
	require.Equal(20.0, s.Left.X)

	// Exhausted script reports no sample.
	_, ok = l.NewestSample()
	require.False(ok)
	require.Equal(2, l.SamplesConsumed())
}

func TestLinkFailureHooks(t *testing.T) {
	require := require.New(t)

	l := NewLink()
	l.FailOpen(nil)
	require.ErrorIs(l.Open(), ErrScriptedFailure)

	l = NewLink()
	l.FailStartRecording(2)
	require.Error(l.StartRecording(true, true, true, true))
	require.Error(l.StartRecording(true, true, true, true))
	require.NoError(l.StartRecording(true, true, true, true))
	require.Equal(3, l.StartRecordingCalls())

	l = NewLink()
	l.DenyBlockStart()
	require.False(l.WaitForBlockStart(0))
}
