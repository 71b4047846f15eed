package detection

import "fmt"

// HueUnits selects how the hue bounds of a Config are expressed.
type HueUnits string

const (
	// HueHalfDegrees is the 8-bit encoding used internally: 0-179.
	HueHalfDegrees HueUnits = "half-degrees"

	// HueDegrees expresses hue on the conventional colour wheel: 0-359.
	// Bounds are halved (rounding to nearest) before thresholding.
	HueDegrees HueUnits = "degrees"
)

// Config holds the thresholding band and noise floor of a detection.
//
// The zero value is not useful; start from DefaultConfig and override the
// fields that need tuning.
type Config struct {
	// LowerHue and UpperHue bound the hue channel (inclusive), expressed in
	// HueUnits.
	LowerHue int `json:"lower_hue"`
	UpperHue int `json:"upper_hue"`

	// LowerSat and UpperSat bound the saturation channel (0-255, inclusive).
	LowerSat int `json:"lower_sat"`
	UpperSat int `json:"upper_sat"`

	// LowerVal and UpperVal bound the value channel (0-255, inclusive).
	LowerVal int `json:"lower_val"`
	UpperVal int `json:"upper_val"`

	// MinArea is the noise floor: the largest region must have a contour
	// area strictly greater than this to count as a detection.
	MinArea float64 `json:"min_area"`

	// HueUnits states the unit of LowerHue/UpperHue. Empty means
	// HueHalfDegrees.
	HueUnits HueUnits `json:"hue_units,omitempty"`
}

// DefaultConfig returns the band tuned for a yellow target: hue 20-35
// (half-degrees), saturation 100-255, value 100-255, and a noise floor of
// 500 square pixels.
func DefaultConfig() Config {
	return Config{
		LowerHue: 20,
		UpperHue: 35,
		LowerSat: 100,
		UpperSat: 255,
		LowerVal: 100,
		UpperVal: 255,
		MinArea:  DefaultMinArea,
		HueUnits: HueHalfDegrees,
	}
}

// Validate checks that every bound is in range and ordered.
//
// Returns an error wrapping ErrInvalidInput describing the first problem
// found.
func (c Config) Validate() error {
	hueMax := HueMax - 1
	switch c.HueUnits {
	case "", HueHalfDegrees:
	case HueDegrees:
		hueMax = 2*HueMax - 1
	default:
		return fmt.Errorf("%w: unknown hue units %q", ErrInvalidInput, c.HueUnits)
	}

	channels := []struct {
		name         string
		lower, upper int
		max          int
	}{
		{"hue", c.LowerHue, c.UpperHue, hueMax},
		{"saturation", c.LowerSat, c.UpperSat, 255},
		{"value", c.LowerVal, c.UpperVal, 255},
	}
	for _, ch := range channels {
		if ch.lower < 0 || ch.upper > ch.max {
			return fmt.Errorf("%w: %s bounds [%d,%d] outside [0,%d]",
				ErrInvalidInput, ch.name, ch.lower, ch.upper, ch.max)
		}
		if ch.lower > ch.upper {
			return fmt.Errorf("%w: %s lower bound %d exceeds upper bound %d",
				ErrInvalidInput, ch.name, ch.lower, ch.upper)
		}
	}
	if c.MinArea < 0 {
		return fmt.Errorf("%w: negative min area %g", ErrInvalidInput, c.MinArea)
	}
	return nil
}

// Band returns the thresholding bounds in the 8-bit encoding, converting
// hue from degrees when HueUnits is HueDegrees. Call Validate first; Band
// does not range-check.
func (c Config) Band() (lower, upper HSV) {
	lh, uh := c.LowerHue, c.UpperHue
	if c.HueUnits == HueDegrees {
		lh, uh = (lh+1)/2, (uh+1)/2
		if lh >= HueMax {
			lh = HueMax - 1
		}
		if uh >= HueMax {
			uh = HueMax - 1
		}
	}
	lower = HSV{H: uint8(lh), S: uint8(c.LowerSat), V: uint8(c.LowerVal)}
	upper = HSV{H: uint8(uh), S: uint8(c.UpperSat), V: uint8(c.UpperVal)}
	return lower, upper
}
