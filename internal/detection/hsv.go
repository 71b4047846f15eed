package detection

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HueMax is the exclusive upper bound of the 8-bit hue encoding.
const HueMax = 180

// HSV is an 8-bit hue/saturation/value triple.
//
//   - H: hue in half-degrees, 0-179 (0=red, 30=yellow, 60=green, 120=blue)
//   - S: saturation, 0-255 (0=gray, 255=fully saturated)
//   - V: value, 0-255 (0=black, 255=full brightness)
type HSV struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// HSVFrame holds the HSV conversion of a Frame.
//
// Pix is row-major with one HSV per pixel; its length is Width×Height.
type HSVFrame struct {
	Width  int
	Height int
	Pix    []HSV
}

// At returns the HSV value at (x, y). No bounds checking is performed.
func (f *HSVFrame) At(x, y int) HSV {
	return f.Pix[y*f.Width+x]
}

// Convert turns an RGBA frame into its 8-bit HSV representation.
//
// The conversion is the standard RGB to HSV transform, quantized to bytes:
//
//	V = max(R, G, B)
//	S = round(255 × (max − min) / max)     (0 when max is 0)
//	H = round(hue° / 2) mod 180            (0 for achromatic pixels)
//
// Alpha is ignored. Every pixel is converted independently.
//
// Returns an error wrapping ErrInvalidInput if the frame fails Validate.
func Convert(frame Frame) (*HSVFrame, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	out := &HSVFrame{
		Width:  frame.Width,
		Height: frame.Height,
		Pix:    make([]HSV, frame.Width*frame.Height),
	}
	for i := range out.Pix {
		p := frame.Pix[i*Channels : i*Channels+3 : i*Channels+3]
		out.Pix[i] = RGBToHSV(p[0], p[1], p[2])
	}
	return out, nil
}

// RGBToHSV converts one 8-bit RGB colour to the 8-bit HSV encoding used by
// Convert.
func RGBToHSV(r, g, b uint8) HSV {
	if r == g && g == b {
		// Achromatic: hue and saturation are both zero.
		return HSV{V: r}
	}
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, v := c.Hsv()

	hue := int(math.Round(h/2)) % HueMax
	return HSV{
		H: uint8(hue),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}
