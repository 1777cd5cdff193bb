package calib

import (
	"image/color"

	"github.com/cogbench/go-eyelink/eyelink"
	"github.com/cogbench/go-eyelink/logger"
)

// State represents the stage of the calibration procedure the operator is
// in. It determines which feedback variant is rendered when the device
// reports a result.
type State int

const (
	// Idle is the setup menu; also the terminal state.
	Idle State = iota
	// CameraSetup is the camera view and threshold adjustment stage.
	CameraSetup
	// Calibration is an in-progress calibration.
	Calibration
	// Validation is an in-progress validation.
	Validation
)

// String returns string representation of the current state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CameraSetup:
		return "camera-setup"
	case Calibration:
		return "calibration"
	case Validation:
		return "validation"
	default:
		return "unknown"
	}
}

// Key is an operator key name as reported by the experiment runtime's
// keyboard backend.
type Key string

// Operator keys recognized during tracker setup.
const (
	KeyEnter  Key = "return"
	KeyEscape Key = "escape"
	KeySpace  Key = "space"
	KeyQ      Key = "q"
	KeyC      Key = "c"
	KeyV      Key = "v"
	KeyA      Key = "a"
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
)

// Controller is the operator-facing calibration state machine.
//
// It tracks which stage of setup the operator is in, translates operator
// keys to device keycodes, and renders the menu, calibration targets and
// result feedback through its Display and Sound collaborators.
type Controller struct {
	display Display
	sound   Sound
	logger  logger.Logger

	state State

	targetSize float64
	beep       bool
	foreground color.Color
	background color.Color
}

// ControllerOption represents a functional option for configuring a
// Controller.
type ControllerOption func(*Controller)

// WithTargetSize sets the calibration target radius in pixels.
func WithTargetSize(size float64) ControllerOption {
	return func(c *Controller) {
		if size > 0 {
			c.targetSize = size
		}
	}
}

// WithBeep selects whether calibration targets are announced with a tone.
func WithBeep(beep bool) ControllerOption {
	return func(c *Controller) { c.beep = beep }
}

// WithColors sets the target foreground and background colors.
func WithColors(foreground, background color.Color) ControllerOption {
	return func(c *Controller) {
		c.foreground = foreground
		c.background = background
	}
}

// WithLogger sets the logger for the controller.
func WithLogger(l logger.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a calibration controller in the Idle state.
func NewController(display Display, sound Sound, opts ...ControllerOption) *Controller {
	c := &Controller{
		display:    display,
		sound:      sound,
		logger:     logger.GetLogger(),
		state:      Idle,
		targetSize: 16,
		beep:       true,
		foreground: color.White,
		background: color.Black,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the current calibration state.
func (c *Controller) State() State {
	return c.state
}

// HandleKey translates an operator key press into a device keycode and
// advances the calibration state machine.
//
// Enter opens camera setup, 'c' starts a calibration, 'v' a validation,
// and 'q' or escape exits back to the menu. The remaining recognized keys
// (space, 'a' and the arrows) are passed through to the device without a
// state change. Unrecognized keys translate to code 0.
func (c *Controller) HandleKey(key Key) (code int) {
	switch key {
	case KeyEnter:
		c.setState(CameraSetup)
		return eyelink.EnterKey
	case KeyQ, KeyEscape:
		c.setState(Idle)
		return eyelink.EscKey
	case KeyC:
		c.setState(Calibration)
		return 'c'
	case KeyV:
		c.setState(Validation)
		return 'v'
	case KeySpace:
		return eyelink.SpaceKey
	case KeyA:
		return 'a'
	case KeyUp:
		return eyelink.CursUp
	case KeyDown:
		return eyelink.CursDown
	case KeyLeft:
		return eyelink.CursLeft
	case KeyRight:
		return eyelink.CursRight
	default:
		return 0
	}
}

func (c *Controller) setState(state State) {
	if state == c.state {
		return
	}

	c.logger.Debug("calibration state change", "prev", c.state.String(), "new", state.String())
	c.state = state
}

// ShowMenu renders the setup menu with the key bindings.
func (c *Controller) ShowMenu() {
	_, h := c.display.Size()
	yc := float64(h) / 2
	const ld = 40 // line distance

	c.display.Clear()
	c.display.DrawText("Eyelink set-up", eyelink.Position{Y: yc - 5*ld})
	c.display.DrawText("Enter: Enter camera set-up", eyelink.Position{Y: yc - 3*ld})
	c.display.DrawText("C: Calibration", eyelink.Position{Y: yc - 2*ld})
	c.display.DrawText("V: Validation", eyelink.Position{Y: yc - 1*ld})
	c.display.DrawText("Q: Exit set-up", eyelink.Position{Y: yc})
	c.display.DrawText("A: Automatically adjust threshold", eyelink.Position{Y: yc + 1*ld})
	c.display.DrawText("Up/ Down: Adjust threshold", eyelink.Position{Y: yc + 2*ld})
	c.display.DrawText("Left/ Right: Switch camera view", eyelink.Position{Y: yc + 3*ld})
	c.display.Show()
}

// Clear clears the display.
func (c *Controller) Clear() {
	c.display.Clear()
	c.display.Show()
}

// DrawTarget renders a calibration target at the given position: a filled
// disc with a small background-colored core, announced with the target
// tone when enabled.
func (c *Controller) DrawTarget(pos eyelink.Position) {
	c.display.Clear()
	c.display.DrawCircle(pos, c.targetSize, c.foreground, true)
	c.display.DrawCircle(pos, 2, c.background, true)
	c.display.Show()

	if c.beep {
		c.sound.Beep(ToneTarget)
	}
}

// OnResult renders the device's calibration/validation verdict.
//
// The success message depends on the current state: after a calibration the
// operator is invited to validate, after a validation (or from the menu) to
// return to the menu. A failure always renders the retry prompt.
func (c *Controller) OnResult(success bool) {
	_, h := c.display.Size()
	yc := float64(h) / 2

	c.display.Clear()

	if !success {
		c.display.DrawText("Calibration unsuccessful", eyelink.Position{Y: yc - 20})
		c.display.DrawText("Press 'Enter' to return to menu", eyelink.Position{Y: yc + 20})
		c.display.Show()
		c.sound.Beep(ToneFailure)

		return
	}

	switch c.state {
	case Calibration:
		c.display.DrawText("Success!", eyelink.Position{Y: yc - 20})
		c.display.DrawText("Press 'v' to validate", eyelink.Position{Y: yc + 20})
	case Validation:
		c.display.DrawText("Success!", eyelink.Position{Y: yc - 20})
		c.display.DrawText("Press 'Enter' to return to menu", eyelink.Position{Y: yc + 20})
	default:
		c.display.DrawText("Press 'Enter' to return to menu", eyelink.Position{Y: yc})
	}
	c.display.Show()
	c.sound.Beep(ToneSuccess)
}
