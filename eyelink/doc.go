// Package eyelink mediates between a psychophysics experiment runtime and a
// remote EyeLink eye-tracking device.
//
// The package is organized around a small set of cooperating components:
//
//   - Link: the command/data channel to the tracker. The wire protocol is
//     owned by the device vendor; this package only consumes the narrow
//     capability interface defined here.
//   - Session: the device-control core. It owns the connection lifecycle,
//     the configuration handshake, recording start/stop with bounded retry,
//     eye selection, gaze sampling, the blocking event-wait primitives, and
//     the drift-correction procedures.
//   - Dummy: a side-effect-free implementation of the same Tracker contract,
//     so an experiment can run unmodified with no hardware attached.
//
// All blocking operations take a context.Context. The wait primitives poll
// the link in a tight loop and block indefinitely by design; callers that
// need a time bound attach a deadline or cancellation to the context, which
// is checked on every iteration.
//
// At most one Session may be active per process. A second construction
// before Close fails with ErrSessionActive.
package eyelink
