package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerPool(t *testing.T) {
	require := require.New(t)

	timer := GetTimer(time.Millisecond)
	select {
	case <-timer.C:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	PutTimer(timer)

	// A reused timer must fire again for its new duration.
	timer = GetTimer(time.Millisecond)
	select {
	case <-timer.C:
	case <-time.After(time.Second):
		t.Fatal("reused timer did not fire")
	}
	PutTimer(timer)

	require.NotNil(timer)
}
