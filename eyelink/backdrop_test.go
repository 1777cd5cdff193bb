package eyelink_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/cogbench/go-eyelink/eyelink"
	"github.com/cogbench/go-eyelink/eyelinktest"
	"github.com/stretchr/testify/require"
)

func TestPrepareBackdrop(t *testing.T) {
	require := require.New(t)

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF})
	img.SetRGBA(1, 0, color.RGBA{R: 0xFF, G: 0x00, B: 0x80, A: 0xFF})

	pixels, w, h, err := eyelink.PrepareBackdrop(img)
	require.NoError(err)
	require.Equal(2, w)
	require.Equal(1, h)
	require.Equal([]uint32{0x123456, 0xFF0080}, pixels)
}

func TestPrepareBackdropInvalid(t *testing.T) {
	_, _, _, err := eyelink.PrepareBackdrop(nil)
	require.ErrorIs(t, err, eyelink.ErrBackdropFormat)

	_, _, _, err = eyelink.PrepareBackdrop(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.ErrorIs(t, err, eyelink.ErrBackdropFormat)
}

func TestSetBackdrop(t *testing.T) {
	require := require.New(t)

	link := eyelinktest.NewLink()
	s := newTestSession(t, link)

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.ErrorIs(s.SetBackdrop(img), eyelink.ErrNotConnected)

	connect(t, s)
	require.NoError(s.SetBackdrop(img))

	pixels, w, h := link.Backdrop()
	require.Equal(2, w)
	require.Equal(2, h)
	require.Len(pixels, 4)
}

func TestSetPreparedBackdrop(t *testing.T) {
	require := require.New(t)

	link := eyelinktest.NewLink()
	s := newTestSession(t, link)
	connect(t, s)

	// Pixel count must match the declared size.
	err := s.SetPreparedBackdrop([]uint32{0, 0, 0}, 2, 2)
	require.ErrorIs(err, eyelink.ErrBackdropFormat)

	require.NoError(s.SetPreparedBackdrop([]uint32{1, 2, 3, 4}, 2, 2))
	pixels, w, h := link.Backdrop()
	require.Equal([]uint32{1, 2, 3, 4}, pixels)
	require.Equal(2, w)
	require.Equal(2, h)
}
