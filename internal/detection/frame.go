package detection

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidInput is returned when a frame or configuration cannot be
// processed: empty buffer, non-positive dimensions, a buffer whose length
// does not match width×height×4, or inconsistent configuration bounds.
//
// Errors returned by this package wrap ErrInvalidInput; test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Channels is the number of bytes per pixel in a Frame buffer.
const Channels = 4

// Frame is a borrowed, read-only RGBA pixel buffer.
//
// Pixels are stored row-major with 4 bytes each in R, G, B, A order, with no
// row padding. The alpha channel is ignored by the pipeline.
type Frame struct {
	// Width is the frame width in pixels.
	Width int

	// Height is the frame height in pixels.
	Height int

	// Pix holds Width×Height×4 bytes.
	Pix []byte
}

// NewFrame wraps an existing pixel buffer without copying it.
//
// Returns an error wrapping ErrInvalidInput if the dimensions are
// non-positive or the buffer length is not width×height×4.
func NewFrame(pix []byte, width, height int) (Frame, error) {
	f := Frame{Width: width, Height: height, Pix: pix}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Validate checks the frame's dimensions against its buffer.
func (f Frame) Validate() error {
	if len(f.Pix) == 0 {
		return fmt.Errorf("%w: empty pixel buffer", ErrInvalidInput)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: non-positive frame size %dx%d", ErrInvalidInput, f.Width, f.Height)
	}
	if want := f.Width * f.Height * Channels; len(f.Pix) != want {
		return fmt.Errorf("%w: buffer has %d bytes, want %d for %dx%d RGBA",
			ErrInvalidInput, len(f.Pix), want, f.Width, f.Height)
	}
	return nil
}

// FrameFromImage converts any image.Image into a Frame.
//
// *image.NRGBA images with a tight stride and origin at (0, 0) are wrapped
// without copying, including top slices of a taller image; every other
// image is copied into a fresh NRGBA buffer.
// The returned frame's coordinates are relative to the image's Min point.
func FrameFromImage(img image.Image) (Frame, error) {
	if img == nil {
		return Frame{}, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != nrgba.Rect.Dx()*Channels {
		nrgba = imaging.Clone(img)
	}
	b := nrgba.Bounds()
	n := b.Dx() * b.Dy() * Channels
	if len(nrgba.Pix) < n {
		return Frame{}, fmt.Errorf("%w: buffer has %d bytes, want %d for %dx%d RGBA",
			ErrInvalidInput, len(nrgba.Pix), n, b.Dx(), b.Dy())
	}
	// A SubImage keeps the parent's remaining rows in Pix.
	return NewFrame(nrgba.Pix[:n], b.Dx(), b.Dy())
}

// Image returns the frame as an *image.NRGBA sharing the same buffer.
func (f Frame) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * Channels,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
