package detection

import "fmt"

// WireLen is the number of slots in the wire encoding of a Result.
const WireLen = 5

// Box is an axis-aligned bounding box in pixel coordinates.
//
// Left and Top are inclusive; Right and Bottom are exclusive (one past the
// last included pixel), so Width is Right-Left and Height is Bottom-Top.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns Right - Left.
func (b Box) Width() int { return b.Right - b.Left }

// Height returns Bottom - Top.
func (b Box) Height() int { return b.Bottom - b.Top }

// Area returns Width × Height.
func (b Box) Area() int { return b.Width() * b.Height() }

// Center returns the box centre, which may fall between pixels.
func (b Box) Center() (x, y float64) {
	return float64(b.Left+b.Right) / 2, float64(b.Top+b.Bottom) / 2
}

// Result is the outcome of one detection. When Found is false Box is the
// zero value.
type Result struct {
	Found bool `json:"found"`
	Box   Box  `json:"box"`
}

// Encode computes the bounding box of the selected contour.
//
// A nil contour encodes as "not found" with a zero box. Otherwise:
//
//	Left = min(x)    Right  = max(x) + 1
//	Top  = min(y)    Bottom = max(y) + 1
func Encode(selected *Contour) Result {
	if selected == nil || len(*selected) == 0 {
		return Result{}
	}

	pts := *selected
	box := Box{Left: pts[0].X, Top: pts[0].Y, Right: pts[0].X, Bottom: pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < box.Left {
			box.Left = p.X
		}
		if p.X > box.Right {
			box.Right = p.X
		}
		if p.Y < box.Top {
			box.Top = p.Y
		}
		if p.Y > box.Bottom {
			box.Bottom = p.Y
		}
	}
	box.Right++
	box.Bottom++

	return Result{Found: true, Box: box}
}

// Wire returns the fixed five-slot encoding expected by downstream control
// code: [found (0 or 1), left, top, right, bottom].
func (r Result) Wire() [WireLen]float32 {
	if !r.Found {
		return [WireLen]float32{}
	}
	return [WireLen]float32{
		1,
		float32(r.Box.Left),
		float32(r.Box.Top),
		float32(r.Box.Right),
		float32(r.Box.Bottom),
	}
}

// ParseWire decodes the five-slot encoding. A found flag above 0.5 marks a
// detection; coordinates are truncated to integers.
func ParseWire(w []float32) (Result, error) {
	if len(w) != WireLen {
		return Result{}, fmt.Errorf("%w: wire result has %d values, want %d", ErrInvalidInput, len(w), WireLen)
	}
	if w[0] <= 0.5 {
		return Result{}, nil
	}
	return Result{
		Found: true,
		Box: Box{
			Left:   int(w[1]),
			Top:    int(w[2]),
			Right:  int(w[3]),
			Bottom: int(w[4]),
		},
	}, nil
}
