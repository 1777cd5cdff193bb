// Package calib drives the operator-facing side of tracker setup: the
// calibration menu state machine, operator key translation, success and
// failure feedback, and assembly of the camera-setup video frames.
//
// Rendering, key input and audio are delegated to the Display, Keyboard and
// Sound collaborators supplied by the experiment runtime; this package owns
// no device logic and only tracks which feedback variant the collaborators
// should render.
package calib

import (
	"image"
	"image/color"

	"github.com/cogbench/go-eyelink/eyelink"
)

// Display renders the calibration screen. Implementations are provided by
// the experiment runtime's graphics backend.
//
// Drawing calls accumulate on a back buffer; Show presents it.
type Display interface {
	// Size returns the display size in pixels.
	Size() (width, height int)

	// Clear clears the back buffer.
	Clear()

	// DrawText draws a line of text centered at the given position.
	DrawText(text string, pos eyelink.Position)

	// DrawCircle draws a circle at the given center. fill selects between
	// an outline and a filled disc.
	DrawCircle(center eyelink.Position, radius float64, c color.Color, fill bool)

	// DrawImage draws an image centered on the display.
	DrawImage(img image.Image)

	// Show presents the back buffer.
	Show()
}

// Tone identifies the audio feedback variants used during calibration.
type Tone int

const (
	// ToneTarget announces a newly shown calibration target.
	ToneTarget Tone = iota
	// ToneSuccess announces a successful calibration or validation.
	ToneSuccess
	// ToneFailure announces a failed calibration or drift correction.
	ToneFailure
)

// Sound plays short feedback tones. Implementations are provided by the
// experiment runtime's audio backend.
type Sound interface {
	Beep(tone Tone)
}
