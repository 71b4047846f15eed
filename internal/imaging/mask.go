package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/ironsheep/yellow-detect/internal/detection"
)

// MaskResult contains a binary detection mask encoded as base64 PNG.
//
// Foreground pixels are white (255) and background pixels black (0).
type MaskResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// ForegroundPixels is the number of white pixels.
	ForegroundPixels int `json:"foreground_pixels"`

	// Coverage is ForegroundPixels as a percentage of the frame.
	Coverage float64 `json:"coverage"`

	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// MaskImage converts a mask to a grayscale image.
func MaskImage(mask *detection.Mask) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))
	for i, on := range mask.Pix {
		if on {
			out.Pix[(i/mask.Width)*out.Stride+i%mask.Width] = 255
		}
	}
	return out
}

// RenderMask encodes mask as a PNG so the band can be inspected visually.
func RenderMask(mask *detection.Mask) (*MaskResult, error) {
	if mask == nil || mask.Width <= 0 || mask.Height <= 0 {
		return nil, errors.New("empty mask")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, MaskImage(mask)); err != nil {
		return nil, fmt.Errorf("failed to encode mask image: %w", err)
	}

	fg := mask.Count()
	return &MaskResult{
		Width:            mask.Width,
		Height:           mask.Height,
		ForegroundPixels: fg,
		Coverage:         float64(fg) * 100 / float64(mask.Width*mask.Height),
		ImageBase64:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:         "image/png",
	}, nil
}
