package calib

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// cameraScale is the magnification applied to camera frames before
// display. The tracker streams the eye camera at its native (small)
// resolution.
const cameraScale = 2

var (
	// ErrPaletteMismatch indicates that the palette channels have
	// different lengths.
	ErrPaletteMismatch = errors.New("calib: palette channels have different lengths")

	// ErrNoCameraFrame indicates that frame data arrived before the frame
	// size or palette was set.
	ErrNoCameraFrame = errors.New("calib: camera frame not set up")
)

// CameraImage assembles the eye-camera video frames streamed line by line
// over the link during camera setup, and hands each complete frame to the
// display magnified by cameraScale.
//
// The tracker sends each frame as rows of palette indexes after announcing
// the palette; out-of-range indexes are skipped.
type CameraImage struct {
	display Display

	palette []color.RGBA
	frame   *image.RGBA
	width   int
	height  int
	row     int
}

// NewCameraImage creates a camera frame assembler drawing to the given
// display.
func NewCameraImage(display Display) *CameraImage {
	return &CameraImage{display: display}
}

// Setup announces the camera frame size and resets any partial frame.
func (c *CameraImage) Setup(width, height int) {
	c.width = width
	c.height = height
	c.reset()
}

// SetPalette installs the frame palette from its separate color channels.
func (c *CameraImage) SetPalette(r, g, b []byte) error {
	if len(r) != len(g) || len(g) != len(b) {
		return ErrPaletteMismatch
	}

	c.palette = make([]color.RGBA, len(r))
	for i := range r {
		c.palette[i] = color.RGBA{R: r[i], G: g[i], B: b[i], A: 0xff}
	}
	c.reset()

	return nil
}

// DrawLine adds one row of palette indexes to the current frame. line is
// 1-based; when the final row (line == totalLines) arrives, the completed
// frame is scaled and shown on the display.
func (c *CameraImage) DrawLine(width, line, totalLines int, buf []byte) error {
	if c.palette == nil || c.frame == nil {
		return ErrNoCameraFrame
	}
	if line < 1 || line > c.height {
		return nil // row outside the announced frame, drop it
	}

	y := line - 1
	if width > c.width {
		width = c.width
	}
	if width > len(buf) {
		width = len(buf)
	}

	for x := 0; x < width; x++ {
		idx := int(buf[x])
		if idx >= len(c.palette) {
			continue
		}
		c.frame.SetRGBA(x, y, c.palette[idx])
	}
	c.row = line

	if line == totalLines {
		c.show()
		c.reset()
	}

	return nil
}

// show magnifies the completed frame and presents it.
func (c *CameraImage) show() {
	dst := image.NewRGBA(image.Rect(0, 0, c.width*cameraScale, c.height*cameraScale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), c.frame, c.frame.Bounds(), draw.Src, nil)

	c.display.Clear()
	c.display.DrawImage(dst)
	c.display.Show()
}

func (c *CameraImage) reset() {
	c.row = 0
	if c.width > 0 && c.height > 0 {
		c.frame = image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	} else {
		c.frame = nil
	}
}
