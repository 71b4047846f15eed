package detection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBToHSV_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    HSV
	}{
		{"black", 0, 0, 0, HSV{0, 0, 0}},
		{"white", 255, 255, 255, HSV{0, 0, 255}},
		{"gray", 128, 128, 128, HSV{0, 0, 128}},
		{"red", 255, 0, 0, HSV{0, 255, 255}},
		{"yellow", 255, 255, 0, HSV{30, 255, 255}},
		{"green", 0, 255, 0, HSV{60, 255, 255}},
		{"cyan", 0, 255, 255, HSV{90, 255, 255}},
		{"blue", 0, 0, 255, HSV{120, 255, 255}},
		{"magenta", 255, 0, 255, HSV{150, 255, 255}},
		{"warm yellow", 255, 220, 0, HSV{26, 255, 255}},
		{"orange", 255, 128, 0, HSV{15, 255, 255}},
		{"half saturated", 200, 200, 100, HSV{30, 128, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RGBToHSV(tt.r, tt.g, tt.b))
		})
	}
}

func TestRGBToHSV_HueRange(t *testing.T) {
	// Hue must stay below 180 for every colour, including reds just short
	// of wrapping around.
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				got := RGBToHSV(uint8(r), uint8(g), uint8(b))
				require.Less(t, got.H, uint8(HueMax), "RGBToHSV(%d,%d,%d)", r, g, b)
			}
		}
	}
	assert.Equal(t, uint8(0), RGBToHSV(255, 0, 1).H, "near-red wrap")
}

func TestConvert(t *testing.T) {
	pix := []byte{
		255, 0, 0, 255, // red
		255, 255, 0, 0, // yellow, transparent alpha ignored
		0, 0, 255, 255, // blue
		0, 0, 0, 255, // black
	}
	frame, err := NewFrame(pix, 2, 2)
	require.NoError(t, err)

	hsv, err := Convert(frame)
	require.NoError(t, err)
	require.Equal(t, 2, hsv.Width)
	require.Equal(t, 2, hsv.Height)
	require.Len(t, hsv.Pix, 4)

	want := []HSV{{0, 255, 255}, {30, 255, 255}, {120, 255, 255}, {0, 0, 0}}
	for i, w := range want {
		x, y := i%2, i/2
		assert.Equal(t, w, hsv.At(x, y), "pixel (%d,%d)", x, y)
	}
}

func TestConvert_InvalidFrame(t *testing.T) {
	frames := []Frame{
		{},
		{Width: 2, Height: 2, Pix: make([]byte, 15)},
		{Width: 0, Height: 4, Pix: make([]byte, 16)},
	}
	for i, f := range frames {
		t.Run(fmt.Sprintf("frame %d", i), func(t *testing.T) {
			_, err := Convert(f)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestThreshold(t *testing.T) {
	hsv := &HSVFrame{
		Width:  3,
		Height: 2,
		Pix: []HSV{
			{20, 100, 100}, // lower corner
			{35, 255, 255}, // upper corner
			{19, 200, 200}, // hue too low
			{36, 200, 200}, // hue too high
			{27, 99, 200},  // saturation too low
			{27, 200, 99},  // value too low
		},
	}
	lo, hi := DefaultConfig().Band()

	mask := Threshold(hsv, lo, hi)
	require.Equal(t, 3, mask.Width)
	require.Equal(t, 2, mask.Height)
	assert.Equal(t, []bool{true, true, false, false, false, false}, mask.Pix)
	assert.Equal(t, 2, mask.Count())
}

func TestThreshold_InvertedBandSelectsNothing(t *testing.T) {
	hsv := &HSVFrame{Width: 1, Height: 1, Pix: []HSV{{30, 200, 200}}}
	mask := Threshold(hsv, HSV{40, 0, 0}, HSV{20, 255, 255})
	assert.Zero(t, mask.Count())
}

func TestMask_OutOfRange(t *testing.T) {
	m := NewMask(4, 4)
	m.Set(-1, 0, true)
	m.Set(4, 4, true)
	assert.Zero(t, m.Count(), "out-of-range Set changed the mask")
	assert.False(t, m.At(-1, -1))
	assert.False(t, m.At(10, 0))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty hue units", func(c *Config) { c.HueUnits = "" }, false},
		{"hue above range", func(c *Config) { c.UpperHue = 180 }, true},
		{"degree hue in range", func(c *Config) { c.HueUnits = HueDegrees; c.UpperHue = 300 }, false},
		{"degree hue above range", func(c *Config) { c.HueUnits = HueDegrees; c.UpperHue = 360 }, true},
		{"unknown units", func(c *Config) { c.HueUnits = "radians" }, true},
		{"negative saturation", func(c *Config) { c.LowerSat = -1 }, true},
		{"value above 255", func(c *Config) { c.UpperVal = 256 }, true},
		{"inverted value", func(c *Config) { c.LowerVal = 200; c.UpperVal = 100 }, true},
		{"negative min area", func(c *Config) { c.MinArea = -1 }, true},
		{"zero min area", func(c *Config) { c.MinArea = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Band(t *testing.T) {
	lo, hi := DefaultConfig().Band()
	assert.Equal(t, HSV{20, 100, 100}, lo)
	assert.Equal(t, HSV{35, 255, 255}, hi)

	cfg := DefaultConfig()
	cfg.HueUnits = HueDegrees
	cfg.LowerHue, cfg.UpperHue = 40, 70
	lo, hi = cfg.Band()
	assert.Equal(t, uint8(20), lo.H)
	assert.Equal(t, uint8(35), hi.H)

	cfg.LowerHue, cfg.UpperHue = 0, 359
	lo, hi = cfg.Band()
	assert.Equal(t, uint8(0), lo.H)
	assert.Equal(t, uint8(179), hi.H)
}

func TestConfig_BandDegreeTopEdge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HueUnits = HueDegrees
	cfg.LowerSat, cfg.LowerVal = 0, 0
	cfg.LowerHue, cfg.UpperHue = 359, 359
	require.NoError(t, cfg.Validate())

	lo, hi := cfg.Band()
	assert.Equal(t, uint8(179), lo.H)
	assert.Equal(t, uint8(179), hi.H)

	// About 358 degrees, encoded as 179: the band must still select it.
	red := RGBToHSV(255, 0, 9)
	require.Equal(t, uint8(179), red.H)
	assert.True(t, InBand(red, lo, hi))
}
