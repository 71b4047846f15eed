package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// PrepareOptions controls the optional steps between decoding a frame and
// handing it to the detector. The zero value passes the frame through
// unchanged.
type PrepareOptions struct {
	// Region crops the frame before anything else. Box coordinates reported
	// by a detection on the prepared frame are relative to the crop.
	Region *Region `json:"region,omitempty"`

	// MaxWidth and MaxHeight downscale the frame, preserving aspect ratio,
	// until it fits. Zero leaves that axis unbounded. Frames already small
	// enough are never upscaled.
	MaxWidth  int `json:"max_width,omitempty"`
	MaxHeight int `json:"max_height,omitempty"`

	// BlurSigma applies a Gaussian blur of this radius to suppress sensor
	// noise. Zero disables it.
	BlurSigma float64 `json:"blur_sigma,omitempty"`
}

// Prepare applies opts to img and returns a tightly packed NRGBA frame with
// its origin at (0,0), ready for detection.FrameFromImage.
//
// Steps run in a fixed order: crop, downscale, blur.
//
// # Errors
//
//   - nil image
//   - crop region outside the image bounds or empty
//   - negative size limits or blur radius
func Prepare(img image.Image, opts PrepareOptions) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if opts.MaxWidth < 0 || opts.MaxHeight < 0 {
		return nil, fmt.Errorf("invalid size limit %dx%d", opts.MaxWidth, opts.MaxHeight)
	}
	if opts.BlurSigma < 0 {
		return nil, fmt.Errorf("invalid blur sigma %v", opts.BlurSigma)
	}

	out := imaging.Clone(img)

	if r := opts.Region; r != nil {
		bounds := img.Bounds()
		if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
			return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
		}
		// The clone is rebased to (0,0), so shift the region with it.
		out = imaging.Crop(out, r.Rect().Sub(bounds.Min))
	}

	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	switch {
	case opts.MaxWidth > 0 && opts.MaxHeight > 0:
		if w > opts.MaxWidth || h > opts.MaxHeight {
			out = imaging.Fit(out, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
		}
	case opts.MaxWidth > 0 && w > opts.MaxWidth:
		out = imaging.Resize(out, opts.MaxWidth, 0, imaging.Lanczos)
	case opts.MaxHeight > 0 && h > opts.MaxHeight:
		out = imaging.Resize(out, 0, opts.MaxHeight, imaging.Lanczos)
	}

	if opts.BlurSigma > 0 {
		out = imaging.Clone(blur.Gaussian(out, opts.BlurSigma))
	}

	return out, nil
}
