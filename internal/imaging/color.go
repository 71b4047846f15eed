package imaging

import (
	"fmt"
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/yellow-detect/internal/detection"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSVDegrees is the conventional HSV reading of a colour.
type HSVDegrees struct {
	H float64 `json:"h"` // Hue: 0-360 degrees (0=red, 60=yellow, 120=green)
	S float64 `json:"s"` // Saturation: 0-100 percent
	V float64 `json:"v"` // Value: 0-100 percent
}

// HSVSample describes one pixel the way the detector sees it.
//
// It exists to tune a detection band: sample a pixel on the target and one on
// the background, then pick bounds that separate them.
type HSVSample struct {
	Label string `json:"label,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`

	Hex string   `json:"hex"` // "#RRGGBB", alpha excluded
	RGB RGBColor `json:"rgb"`

	// HSV is the 8-bit encoding compared against the band (hue 0-179).
	HSV detection.HSV `json:"hsv"`

	// Degrees is the same colour on the conventional scale.
	Degrees HSVDegrees `json:"degrees"`

	// InBand reports whether this pixel would be foreground under the
	// configuration passed to SampleHSV.
	InBand bool `json:"in_band"`
}

// SampleHSV reads the pixel at (x, y) and reports its HSV encoding and
// whether it falls inside the band of cfg.
//
// Coordinates are 0-based relative to the image bounds' minimum, so they
// match the box coordinates reported by a detection on the same image.
//
// Returns an error if the coordinates are outside the image or cfg is
// invalid.
func SampleHSV(img image.Image, x, y int, cfg detection.Config) (*HSVSample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lower, upper := cfg.Band()
	return sampleHSV(img, x, y, lower, upper)
}

func sampleHSV(img image.Image, x, y int, lower, upper detection.HSV) (*HSVSample, error) {
	bounds := img.Bounds()
	if x < 0 || y < 0 || x >= bounds.Dx() || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

	hsv := detection.RGBToHSV(r8, g8, b8)
	h, s, v := colorful.Color{
		R: float64(r8) / 255,
		G: float64(g8) / 255,
		B: float64(b8) / 255,
	}.Hsv()

	return &HSVSample{
		X:   x,
		Y:   y,
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSV: hsv,
		Degrees: HSVDegrees{
			H: round1(h),
			S: round1(s * 100),
			V: round1(v * 100),
		},
		InBand: detection.InBand(hsv, lower, upper),
	}, nil
}

// LabeledPoint is a pixel coordinate with an optional descriptive label,
// such as "target" or "background".
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// SampleHSVMulti samples several points in one call. Results are returned in
// input order; any out-of-bounds point fails the whole call.
func SampleHSVMulti(img image.Image, points []LabeledPoint, cfg detection.Config) ([]HSVSample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lower, upper := cfg.Band()

	samples := make([]HSVSample, 0, len(points))
	for _, p := range points {
		s, err := sampleHSV(img, p.X, p.Y, lower, upper)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		s.Label = p.Label
		samples = append(samples, *s)
	}
	return samples, nil
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
