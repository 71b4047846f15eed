package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/yellow-detect/internal/detection"
)

func found(l, t, r, b int) detection.Result {
	return detection.Result{Found: true, Box: detection.Box{Left: l, Top: t, Right: r, Bottom: b}}
}

func TestOrientation_Orient(t *testing.T) {
	box := detection.Box{Left: 10, Top: 20, Right: 50, Bottom: 60}

	tests := []struct {
		name string
		o    Orientation
		want detection.Box
	}{
		{"identity", Orientation{}, box},
		{"90", Orientation{Rotation: 90}, detection.Box{Left: 180, Top: 10, Right: 220, Bottom: 50}},
		{"180", Orientation{Rotation: 180}, detection.Box{Left: 270, Top: 180, Right: 310, Bottom: 220}},
		{"270", Orientation{Rotation: 270}, detection.Box{Left: 20, Top: 270, Right: 60, Bottom: 310}},
		{"mirrored", Orientation{Mirrored: true}, detection.Box{Left: 270, Top: 20, Right: 310, Bottom: 60}},
		{"90 mirrored", Orientation{Rotation: 90, Mirrored: true}, detection.Box{Left: 20, Top: 10, Right: 60, Bottom: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.o.Orient(box, 320, 240)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			w, h := tt.o.Size(320, 240)
			assert.Equal(t, box.Area(), got.Area(), "orientation must preserve area")
			assert.GreaterOrEqual(t, got.Left, 0)
			assert.GreaterOrEqual(t, got.Top, 0)
			assert.LessOrEqual(t, got.Right, w)
			assert.LessOrEqual(t, got.Bottom, h)
		})
	}
}

func TestOrientation_Size(t *testing.T) {
	for _, rot := range []int{0, 180} {
		w, h := Orientation{Rotation: rot}.Size(320, 240)
		assert.Equal(t, []int{320, 240}, []int{w, h}, "rotation %d", rot)
	}
	for _, rot := range []int{90, 270} {
		w, h := Orientation{Rotation: rot}.Size(320, 240)
		assert.Equal(t, []int{240, 320}, []int{w, h}, "rotation %d", rot)
	}
}

func TestOrientation_InvalidRotation(t *testing.T) {
	for _, rot := range []int{45, -90, 360} {
		_, err := Orientation{Rotation: rot}.Orient(detection.Box{}, 10, 10)
		assert.ErrorIs(t, err, ErrInvalidRotation, "rotation %d", rot)
	}
}

func TestCompute(t *testing.T) {
	// 320x240 frame: centre (160,120), dead zone threshold 30, area band
	// 4608-7680 pixels.
	tests := []struct {
		name   string
		result detection.Result
		x, y   float64
		depth  Depth
		locked bool
		status string
		line   string
	}{
		{"centred in band", found(125, 85, 195, 155), 0, 0, DepthHold, true, StatusLocked, "0,0,0"},
		{"too small", found(150, 110, 170, 130), 0, 0, DepthForward, false, "X:0 Y:0 Z:FWD", "0,0,1"},
		{"too large", found(110, 70, 210, 170), 0, 0, DepthBackward, false, "X:0 Y:0 Z:BCK", "0,0,-1"},
		{"right of centre", found(200, 85, 270, 155), 75, 0, DepthHold, false, "X:75 Y:0 Z:OK", "75,0,0"},
		{"left of centre", found(60, 85, 130, 155), -65, 0, DepthHold, false, "X:-65 Y:0 Z:OK", "-65,0,0"},
		{"below centre", found(125, 150, 195, 220), 0, 65, DepthHold, false, "X:0 Y:65 Z:OK", "0,65,0"},
		{"inside dead zone", found(154, 85, 224, 155), 0, 0, DepthHold, true, StatusLocked, "0,0,0"},
		{"on dead zone edge", found(155, 85, 225, 155), 30, 0, DepthHold, false, "X:30 Y:0 Z:OK", "30,0,0"},
		{"half pixel truncates", found(200, 85, 271, 155), 75.5, 0, DepthHold, false, "X:75 Y:0 Z:OK", "75,0,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Compute(tt.result, 320, 240, DefaultConfig())
			require.NoError(t, err)

			assert.True(t, cmd.Found)
			assert.Equal(t, tt.x, cmd.X)
			assert.Equal(t, tt.y, cmd.Y)
			assert.Equal(t, tt.depth, cmd.Depth)
			assert.Equal(t, tt.locked, cmd.Locked)
			assert.Equal(t, tt.status, cmd.Status)
			assert.Equal(t, tt.line, cmd.Line())
			assert.Equal(t, 320, cmd.Width)
			assert.Equal(t, 240, cmd.Height)
		})
	}
}

func TestCompute_NotFound(t *testing.T) {
	cmd, err := Compute(detection.Result{}, 320, 240, DefaultConfig())
	require.NoError(t, err)

	assert.False(t, cmd.Found)
	assert.False(t, cmd.Locked)
	assert.Equal(t, StatusScanning, cmd.Status)
	assert.Equal(t, "0,0,0", cmd.Line())
	assert.Zero(t, cmd.AreaPercent)
}

func TestCompute_AreaPercent(t *testing.T) {
	cmd, err := Compute(found(0, 0, 32, 24), 320, 240, DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cmd.AreaPercent, 1e-9)
	assert.Equal(t, -144.0, cmd.ErrX)
	assert.Equal(t, -108.0, cmd.ErrY)
}

func TestCompute_Rotated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orientation = Orientation{Rotation: 90}

	// Sensor box at the top-left lands at the top-right of the 240x320
	// display.
	cmd, err := Compute(found(0, 0, 40, 40), 320, 240, cfg)
	require.NoError(t, err)

	assert.Equal(t, 240, cmd.Width)
	assert.Equal(t, 320, cmd.Height)
	assert.Equal(t, detection.Box{Left: 200, Top: 0, Right: 240, Bottom: 40}, cmd.Box)
	assert.Equal(t, 100.0, cmd.X)
	assert.Equal(t, -140.0, cmd.Y)
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(found(0, 0, 1, 1), 0, 240, DefaultConfig())
	assert.ErrorIs(t, err, detection.ErrInvalidInput)

	cfg := DefaultConfig()
	cfg.Orientation.Rotation = 45
	_, err = Compute(found(0, 0, 1, 1), 320, 240, cfg)
	assert.ErrorIs(t, err, ErrInvalidRotation)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero dead zone", func(c *Config) { c.DeadZone = 0 }, false},
		{"negative dead zone", func(c *Config) { c.DeadZone = -1 }, true},
		{"inverted band", func(c *Config) { c.AreaMin, c.AreaMax = 10, 6 }, true},
		{"band above 100", func(c *Config) { c.AreaMax = 150 }, true},
		{"bad rotation", func(c *Config) { c.Orientation.Rotation = 30 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestDepth_String(t *testing.T) {
	assert.Equal(t, "FWD", DepthForward.String())
	assert.Equal(t, "BCK", DepthBackward.String())
	assert.Equal(t, "OK", DepthHold.String())
}
