package calib_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/cogbench/go-eyelink/calib"
	"github.com/stretchr/testify/require"
)

func newTestCamera(display *fakeDisplay) *calib.CameraImage {
	cam := calib.NewCameraImage(display)
	cam.Setup(2, 2)
	return cam
}

func grayPalette() (r, g, b []byte) {
	r = []byte{0x00, 0x80, 0xff}
	g = []byte{0x00, 0x80, 0xff}
	b = []byte{0x00, 0x80, 0xff}
	return r, g, b
}

func TestCameraPaletteMismatch(t *testing.T) {
	cam := calib.NewCameraImage(newFakeDisplay(640, 480))
	err := cam.SetPalette([]byte{1, 2}, []byte{1}, []byte{1, 2})
	require.ErrorIs(t, err, calib.ErrPaletteMismatch)
}

func TestCameraLineBeforeSetup(t *testing.T) {
	require := require.New(t)

	// No frame size announced yet.
	cam := calib.NewCameraImage(newFakeDisplay(640, 480))
	require.NoError(cam.SetPalette(grayPalette()))
	require.ErrorIs(cam.DrawLine(2, 1, 2, []byte{0, 1}), calib.ErrNoCameraFrame)

	// No palette announced yet.
	cam = calib.NewCameraImage(newFakeDisplay(640, 480))
	cam.Setup(2, 2)
	require.ErrorIs(cam.DrawLine(2, 1, 2, []byte{0, 1}), calib.ErrNoCameraFrame)
}

func TestCameraFrameAssembly(t *testing.T) {
	require := require.New(t)

	display := newFakeDisplay(640, 480)
	cam := newTestCamera(display)
	require.NoError(cam.SetPalette(grayPalette()))

	require.NoError(cam.DrawLine(2, 1, 2, []byte{0, 1}))
	// The frame is not shown until the final line arrives.
	require.Empty(display.images)

	require.NoError(cam.DrawLine(2, 2, 2, []byte{2, 0}))
	require.Len(display.images, 1)
	require.Equal(1, display.shows)

	// The frame is magnified before display.
	img, ok := display.images[0].(*image.RGBA)
	require.True(ok)
	require.Equal(image.Rect(0, 0, 4, 4), img.Bounds())

	// Nearest-neighbor scaling: each source pixel covers a 2x2 block.
	require.Equal(color.RGBA{A: 0xff}, img.RGBAAt(0, 0))
	require.Equal(color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, img.RGBAAt(2, 0))
	require.Equal(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(0, 2))
	require.Equal(color.RGBA{A: 0xff}, img.RGBAAt(3, 3))
}

func TestCameraOutOfRangePaletteIndex(t *testing.T) {
	require := require.New(t)

	display := newFakeDisplay(640, 480)
	cam := newTestCamera(display)
	require.NoError(cam.SetPalette(grayPalette()))

	// Index 9 has no palette entry and is skipped; the pixel stays at the
	// frame's zero value.
	require.NoError(cam.DrawLine(2, 1, 2, []byte{9, 1}))
	require.NoError(cam.DrawLine(2, 2, 2, []byte{0, 0}))

	img := display.images[0].(*image.RGBA)
	require.Equal(color.RGBA{}, img.RGBAAt(0, 0))
	require.Equal(color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, img.RGBAAt(2, 0))
}

func TestCameraRowOutsideFrame(t *testing.T) {
	require := require.New(t)

	display := newFakeDisplay(640, 480)
	cam := newTestCamera(display)
	require.NoError(cam.SetPalette(grayPalette()))

	// Rows outside the announced frame are dropped without error.
	require.NoError(cam.DrawLine(2, 0, 2, []byte{0, 0}))
	require.NoError(cam.DrawLine(2, 3, 2, []byte{0, 0}))
	require.Empty(display.images)
}

func TestCameraConsecutiveFrames(t *testing.T) {
	require := require.New(t)

	display := newFakeDisplay(640, 480)
	cam := newTestCamera(display)
	require.NoError(cam.SetPalette(grayPalette()))

	require.NoError(cam.DrawLine(2, 1, 2, []byte{0, 0}))
	require.NoError(cam.DrawLine(2, 2, 2, []byte{0, 0}))
	require.NoError(cam.DrawLine(2, 1, 2, []byte{1, 1}))
	require.NoError(cam.DrawLine(2, 2, 2, []byte{1, 1}))

	require.Len(display.images, 2)
}
