package eyelink

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cogbench/go-eyelink/logger"
)

// SessionState represents the stages of a tracker session.
type SessionState uint32

// Tracker session states.
const (
	// DisconnectedState indicates that the link to the tracker is not
	// established.
	DisconnectedState SessionState = iota
	// ConnectedState indicates that the link is established and the
	// configuration handshake has completed.
	ConnectedState
	// RecordingState indicates that gaze samples and events are being
	// recorded and streamed over the link.
	RecordingState
)

// IsDisconnected returns if the current state is disconnected.
func (s SessionState) IsDisconnected() bool { return s == DisconnectedState }

// IsConnected returns if the current state is connected.
func (s SessionState) IsConnected() bool { return s == ConnectedState }

// IsRecording returns if the current state is recording.
func (s SessionState) IsRecording() bool { return s == RecordingState }

// String returns string representation of the current state.
func (s SessionState) String() string {
	switch s {
	case DisconnectedState:
		return "disconnected"
	case ConnectedState:
		return "connected"
	case RecordingState:
		return "recording"
	default:
		return "unknown"
	}
}

// StateChangeHandler is a function type that represents a handler for
// session state changes.
//
// Note: the handler is invoked in a blocking mode. Take care with
// long-running implementations.
type StateChangeHandler func(prevState SessionState, newState SessionState)

// stateMgr manages the state of a tracker session.
//
// It provides methods for managing state transitions and notifying
// listeners of state changes. The session core is single-threaded, but
// observers may block on WaitState from other goroutines, so transitions
// are guarded.
type stateMgr struct {
	mu       sync.Mutex
	cond     *sync.Cond
	state    atomic.Uint32
	logger   logger.Logger
	handlers []StateChangeHandler
}

// newStateMgr creates a new stateMgr instance, initializing it to the
// DisconnectedState.
func newStateMgr(log logger.Logger, handlers ...StateChangeHandler) *stateMgr {
	sm := &stateMgr{
		logger:   log,
		handlers: append([]StateChangeHandler(nil), handlers...),
	}

	if sm.logger == nil {
		sm.logger = logger.GetLogger()
	}

	sm.state.Store(uint32(DisconnectedState))
	sm.cond = sync.NewCond(&sm.mu)

	return sm
}

// State returns the current session state.
func (sm *stateMgr) State() SessionState {
	return SessionState(sm.state.Load())
}

// AddHandler adds one or more StateChangeHandler functions to be invoked on
// state changes.
func (sm *stateMgr) AddHandler(handlers ...StateChangeHandler) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.handlers = append(sm.handlers, handlers...)
}

// WaitState waits for the session state to reach the specified state or
// until the context is done. It returns nil if the desired state is
// reached, or an error if the context is canceled or times out.
func (sm *stateMgr) WaitState(ctx context.Context, state SessionState) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.State() == state {
		return nil
	}

	stopFunc := context.AfterFunc(ctx, func() {
		sm.cond.Broadcast()
	})
	defer stopFunc()

	for sm.State() != state {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			sm.cond.Wait()
		}
	}

	return nil
}

// ToConnected transitions the session state to ConnectedState.
//
// This transition is allowed from the DisconnectedState (connect handshake
// finished) and the RecordingState (recording stopped). If the state is
// already ConnectedState, the function is a no-op.
//
// Returns nil on success, or ErrInvalidTransition otherwise.
func (sm *stateMgr) ToConnected() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	curState := sm.State()

	if curState.IsConnected() {
		return nil // Already in ConnectedState, no-op
	}

	if !curState.IsDisconnected() && !curState.IsRecording() {
		return ErrInvalidTransition
	}

	sm.invokeHandlers(curState, ConnectedState)
	// change state after all handlers finished
	sm.setState(ConnectedState)

	return nil
}

// ToRecording transitions the session state to RecordingState.
//
// This transition is only allowed from the ConnectedState.
// If the state is already RecordingState, the function is a no-op.
//
// Returns nil on success, or ErrInvalidTransition otherwise.
func (sm *stateMgr) ToRecording() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	curState := sm.State()

	if curState.IsRecording() {
		return nil // Already in RecordingState, no-op
	}

	if !curState.IsConnected() {
		return ErrInvalidTransition
	}

	sm.invokeHandlers(curState, RecordingState)
	// change state after all handlers finished
	sm.setState(RecordingState)

	return nil
}

// ToDisconnected transitions the session state to DisconnectedState.
// This transition is allowed from any state and represents a disconnection
// or a teardown of the session.
func (sm *stateMgr) ToDisconnected() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	curState := sm.State()

	if curState.IsDisconnected() {
		return // Already in DisconnectedState, no need to transition
	}

	// change state to disconnected BEFORE all handlers finished
	sm.setState(DisconnectedState)

	sm.invokeHandlers(curState, DisconnectedState)
}

// IsDisconnected returns if the current state is disconnected.
func (sm *stateMgr) IsDisconnected() bool {
	return sm.State().IsDisconnected()
}

// IsConnected returns if the current state is connected.
func (sm *stateMgr) IsConnected() bool {
	return sm.State().IsConnected()
}

// IsRecording returns if the current state is recording.
func (sm *stateMgr) IsRecording() bool {
	return sm.State().IsRecording()
}

// setState atomically sets current state to the newState. It also
// broadcasts a signal to any waiting goroutines.
func (sm *stateMgr) setState(newState SessionState) {
	sm.state.Store(uint32(newState))
	sm.cond.Broadcast()
}

// invokeHandlers invokes all registered StateChangeHandler functions with
// the previous and new states.
func (sm *stateMgr) invokeHandlers(prevState SessionState, newState SessionState) {
	for _, handler := range sm.handlers {
		if handler != nil {
			handler(prevState, newState)
		}
	}
}
