package eyelink

import "image"

// PrepareBackdrop converts an image to the packed 0x00RRGGBB row-major
// pixel format required by the tracker's backdrop upload.
//
// For performance it can be useful to run the conversion during an
// experiment's prepare phase and hand the result to SetPreparedBackdrop
// later. A nil or zero-sized image fails with ErrBackdropFormat.
func PrepareBackdrop(img image.Image) (pixels []uint32, width, height int, err error) {
	if img == nil {
		return nil, 0, 0, ErrBackdropFormat
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, 0, 0, ErrBackdropFormat
	}

	pixels = make([]uint32, 0, width*height)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels = append(pixels, uint32(r>>8)<<16|uint32(g>>8)<<8|uint32(b>>8))
		}
	}

	return pixels, width, height, nil
}

// SetBackdrop uploads a backdrop image to the experimenter PC, shown behind
// the real-time gaze cursor during recording.
//
// The image is converted with PrepareBackdrop and uploaded uncropped at the
// display origin with the max-contrast rendering hint.
func (s *Session) SetBackdrop(img image.Image) error {
	if s.state.IsDisconnected() {
		return ErrNotConnected
	}

	pixels, width, height, err := PrepareBackdrop(img)
	if err != nil {
		return err
	}

	return s.SetPreparedBackdrop(pixels, width, height)
}

// SetPreparedBackdrop uploads a backdrop already converted with
// PrepareBackdrop. The pixel slice must hold width*height entries.
func (s *Session) SetPreparedBackdrop(pixels []uint32, width, height int) error {
	if s.state.IsDisconnected() {
		return ErrNotConnected
	}
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		return ErrBackdropFormat
	}

	return s.link.BitmapBackdrop(width, height, pixels, 0, 0, width, height, 0, 0, BackdropMaxContrast)
}
