package guidance

import (
	"fmt"
	"math"

	"github.com/ironsheep/yellow-detect/internal/detection"
)

// Depth is the forward/backward axis of a Command.
type Depth int

const (
	DepthHold     Depth = 0
	DepthForward  Depth = 1
	DepthBackward Depth = -1
)

// String returns the short status label used in Command.Status.
func (d Depth) String() string {
	switch d {
	case DepthForward:
		return "FWD"
	case DepthBackward:
		return "BCK"
	default:
		return "OK"
	}
}

// StatusScanning is reported while nothing is detected.
const StatusScanning = "Scanning..."

// StatusLocked is reported when all three axes are zero.
const StatusLocked = "LOCKED (All Axes)"

// Config holds the tracking tolerances.
type Config struct {
	// DeadZone is the side of the square around the display centre, in
	// pixels, inside which X and Y errors are reported as zero.
	DeadZone float64 `json:"dead_zone"`

	// AreaMin and AreaMax bound the target coverage of the frame, in
	// percent. Outside the band Depth asks the rig to move.
	AreaMin float64 `json:"area_min"`
	AreaMax float64 `json:"area_max"`

	Orientation Orientation `json:"orientation"`
}

// DefaultConfig returns a 60 pixel dead zone and a 6-10 percent area band
// with no rotation.
func DefaultConfig() Config {
	return Config{
		DeadZone: 60,
		AreaMin:  6,
		AreaMax:  10,
	}
}

// Validate checks the tolerances and the orientation.
func (c Config) Validate() error {
	if c.DeadZone < 0 {
		return fmt.Errorf("%w: negative dead zone %v", detection.ErrInvalidInput, c.DeadZone)
	}
	if c.AreaMin < 0 || c.AreaMax > 100 || c.AreaMin > c.AreaMax {
		return fmt.Errorf("%w: area band %v-%v outside 0-100 or inverted", detection.ErrInvalidInput, c.AreaMin, c.AreaMax)
	}
	return c.Orientation.Validate()
}

// Command is the steering output for one frame.
type Command struct {
	// X and Y are the centre offsets after the dead zone is applied.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	Depth Depth `json:"depth"`

	// Found mirrors the detection; when false every axis is zero.
	Found bool `json:"found"`

	// Locked is true when X, Y and Depth are all zero on a detection.
	Locked bool `json:"locked"`

	// ErrX and ErrY are the raw centre offsets before the dead zone.
	ErrX float64 `json:"err_x"`
	ErrY float64 `json:"err_y"`

	// AreaPercent is the box area as a percentage of the display frame.
	AreaPercent float64 `json:"area_percent"`

	// Box is the detection in display coordinates.
	Box detection.Box `json:"box"`

	// Width and Height are the display frame dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	Status string `json:"status"`
}

// Line renders the command as the integer text line sent to the rig:
// "x,y,depth". Offsets are truncated toward zero.
func (c Command) Line() string {
	return fmt.Sprintf("%d,%d,%d", int(c.X), int(c.Y), int(c.Depth))
}

// Compute derives the steering command for result, detected in a
// width x height sensor frame.
func Compute(result detection.Result, width, height int, cfg Config) (Command, error) {
	if width <= 0 || height <= 0 {
		return Command{}, fmt.Errorf("%w: frame %dx%d", detection.ErrInvalidInput, width, height)
	}
	if err := cfg.Validate(); err != nil {
		return Command{}, err
	}

	dispW, dispH := cfg.Orientation.Size(width, height)
	cmd := Command{Width: dispW, Height: dispH, Status: StatusScanning}
	if !result.Found {
		return cmd, nil
	}

	box, err := cfg.Orientation.Orient(result.Box, width, height)
	if err != nil {
		return Command{}, err
	}
	cmd.Found = true
	cmd.Box = box

	cx, cy := box.Center()
	cmd.ErrX = cx - float64(dispW)/2
	cmd.ErrY = cy - float64(dispH)/2

	cmd.AreaPercent = float64(box.Area()) / float64(dispW*dispH) * 100
	switch {
	case cmd.AreaPercent < cfg.AreaMin:
		cmd.Depth = DepthForward
	case cmd.AreaPercent > cfg.AreaMax:
		cmd.Depth = DepthBackward
	}

	threshold := cfg.DeadZone / 2
	if math.Abs(cmd.ErrX) >= threshold {
		cmd.X = cmd.ErrX
	}
	if math.Abs(cmd.ErrY) >= threshold {
		cmd.Y = cmd.ErrY
	}

	if cmd.X == 0 && cmd.Y == 0 && cmd.Depth == DepthHold {
		cmd.Locked = true
		cmd.Status = StatusLocked
	} else {
		cmd.Status = fmt.Sprintf("X:%d Y:%d Z:%s", int(cmd.X), int(cmd.Y), cmd.Depth)
	}
	return cmd, nil
}
