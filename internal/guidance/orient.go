package guidance

import (
	"errors"
	"fmt"

	"github.com/ironsheep/yellow-detect/internal/detection"
)

// ErrInvalidRotation is returned for rotations other than 0, 90, 180 and 270.
var ErrInvalidRotation = errors.New("invalid rotation")

// Orientation describes how sensor frames map onto the display.
type Orientation struct {
	// Rotation is the clockwise sensor rotation in degrees.
	Rotation int `json:"rotation"`

	// Mirrored flips the rotated frame horizontally.
	Mirrored bool `json:"mirrored"`
}

// Validate reports whether Rotation is one of the supported quarter turns.
func (o Orientation) Validate() error {
	switch o.Rotation {
	case 0, 90, 180, 270:
		return nil
	}
	return fmt.Errorf("%w: %d degrees", ErrInvalidRotation, o.Rotation)
}

// Size returns the display dimensions of a width x height sensor frame.
func (o Orientation) Size(width, height int) (int, int) {
	if o.Rotation == 90 || o.Rotation == 270 {
		return height, width
	}
	return width, height
}

// Orient maps a box from a width x height sensor frame into display space.
func (o Orientation) Orient(box detection.Box, width, height int) (detection.Box, error) {
	if err := o.Validate(); err != nil {
		return detection.Box{}, err
	}

	var out detection.Box
	switch o.Rotation {
	case 90:
		out = detection.Box{
			Left:   height - box.Bottom,
			Top:    box.Left,
			Right:  height - box.Top,
			Bottom: box.Right,
		}
	case 270:
		out = detection.Box{
			Left:   box.Top,
			Top:    width - box.Right,
			Right:  box.Bottom,
			Bottom: width - box.Left,
		}
	case 180:
		out = detection.Box{
			Left:   width - box.Right,
			Top:    height - box.Bottom,
			Right:  width - box.Left,
			Bottom: height - box.Top,
		}
	default:
		out = box
	}

	if o.Mirrored {
		displayW, _ := o.Size(width, height)
		out.Left, out.Right = displayW-out.Right, displayW-out.Left
	}
	return out, nil
}
