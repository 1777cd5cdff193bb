package calib_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/cogbench/go-eyelink/calib"
	"github.com/cogbench/go-eyelink/eyelink"
	"github.com/stretchr/testify/require"
)

// fakeDisplay records drawing calls for assertions.
type fakeDisplay struct {
	width, height int

	texts   []string
	circles []fakeCircle
	images  []image.Image
	clears  int
	shows   int
}

type fakeCircle struct {
	center eyelink.Position
	radius float64
	color  color.Color
	fill   bool
}

func newFakeDisplay(width, height int) *fakeDisplay {
	return &fakeDisplay{width: width, height: height}
}

func (d *fakeDisplay) Size() (int, int) { return d.width, d.height }
func (d *fakeDisplay) Clear()           { d.clears++ }
func (d *fakeDisplay) Show()            { d.shows++ }

func (d *fakeDisplay) DrawText(text string, pos eyelink.Position) {
	d.texts = append(d.texts, text)
}

func (d *fakeDisplay) DrawCircle(center eyelink.Position, radius float64, c color.Color, fill bool) {
	d.circles = append(d.circles, fakeCircle{center: center, radius: radius, color: c, fill: fill})
}

func (d *fakeDisplay) DrawImage(img image.Image) {
	d.images = append(d.images, img)
}

// fakeSound records the tones played.
type fakeSound struct {
	tones []calib.Tone
}

func (s *fakeSound) Beep(tone calib.Tone) {
	s.tones = append(s.tones, tone)
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		key       calib.Key
		wantCode  int
		wantState calib.State
	}{
		{calib.KeyEnter, eyelink.EnterKey, calib.CameraSetup},
		{calib.KeyC, 'c', calib.Calibration},
		{calib.KeyV, 'v', calib.Validation},
		{calib.KeyQ, eyelink.EscKey, calib.Idle},
		{calib.KeyEscape, eyelink.EscKey, calib.Idle},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			require := require.New(t)

			c := calib.NewController(newFakeDisplay(1024, 768), &fakeSound{})
			require.Equal(calib.Idle, c.State())

			require.Equal(tt.wantCode, c.HandleKey(tt.key))
			require.Equal(tt.wantState, c.State())
		})
	}
}

func TestHandleKeyPassThrough(t *testing.T) {
	tests := []struct {
		key      calib.Key
		wantCode int
	}{
		{calib.KeySpace, eyelink.SpaceKey},
		{calib.KeyA, 'a'},
		{calib.KeyUp, eyelink.CursUp},
		{calib.KeyDown, eyelink.CursDown},
		{calib.KeyLeft, eyelink.CursLeft},
		{calib.KeyRight, eyelink.CursRight},
		{calib.Key("f13"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			require := require.New(t)

			c := calib.NewController(newFakeDisplay(1024, 768), &fakeSound{})
			c.HandleKey(calib.KeyEnter)

			require.Equal(tt.wantCode, c.HandleKey(tt.key))
			// Pass-through keys do not change the state.
			require.Equal(calib.CameraSetup, c.State())
		})
	}
}

func TestShowMenu(t *testing.T) {
	require := require.New(t)

	display := newFakeDisplay(1024, 768)
	c := calib.NewController(display, &fakeSound{})
	c.ShowMenu()

	require.Equal(1, display.clears)
	require.Equal(1, display.shows)
	require.Len(display.texts, 8)
	require.Equal("Eyelink set-up", display.texts[0])
	require.Contains(display.texts, "C: Calibration")
	require.Contains(display.texts, "V: Validation")
	require.Contains(display.texts, "Q: Exit set-up")
}

func TestDrawTarget(t *testing.T) {
	require := require.New(t)

	display := newFakeDisplay(1024, 768)
	sound := &fakeSound{}
	c := calib.NewController(display, sound, calib.WithTargetSize(24))

	pos := eyelink.Position{X: 512, Y: 384}
	c.DrawTarget(pos)

	require.Len(display.circles, 2)
	require.Equal(fakeCircle{center: pos, radius: 24, color: color.White, fill: true}, display.circles[0])
	require.Equal(fakeCircle{center: pos, radius: 2, color: color.Black, fill: true}, display.circles[1])
	require.Equal([]calib.Tone{calib.ToneTarget}, sound.tones)
}

func TestDrawTargetNoBeep(t *testing.T) {
	require := require.New(t)

	sound := &fakeSound{}
	c := calib.NewController(newFakeDisplay(1024, 768), sound, calib.WithBeep(false))

	c.DrawTarget(eyelink.Position{X: 100, Y: 100})
	require.Empty(sound.tones)
}

func TestOnResult(t *testing.T) {
	t.Run("failure", func(t *testing.T) {
		require := require.New(t)

		display := newFakeDisplay(1024, 768)
		sound := &fakeSound{}
		c := calib.NewController(display, sound)
		c.HandleKey(calib.KeyC)

		c.OnResult(false)
		require.Equal([]string{
			"Calibration unsuccessful",
			"Press 'Enter' to return to menu",
		}, display.texts)
		require.Equal([]calib.Tone{calib.ToneFailure}, sound.tones)
	})

	t.Run("calibration success invites validation", func(t *testing.T) {
		require := require.New(t)

		display := newFakeDisplay(1024, 768)
		sound := &fakeSound{}
		c := calib.NewController(display, sound)
		c.HandleKey(calib.KeyC)

		c.OnResult(true)
		require.Equal([]string{"Success!", "Press 'v' to validate"}, display.texts)
		require.Equal([]calib.Tone{calib.ToneSuccess}, sound.tones)
	})

	t.Run("validation success returns to menu", func(t *testing.T) {
		require := require.New(t)

		display := newFakeDisplay(1024, 768)
		c := calib.NewController(display, &fakeSound{})
		c.HandleKey(calib.KeyV)

		c.OnResult(true)
		require.Equal([]string{"Success!", "Press 'Enter' to return to menu"}, display.texts)
	})

	t.Run("success from the menu", func(t *testing.T) {
		require := require.New(t)

		display := newFakeDisplay(1024, 768)
		c := calib.NewController(display, &fakeSound{})

		c.OnResult(true)
		require.Equal([]string{"Press 'Enter' to return to menu"}, display.texts)
	})
}
