package detection

// Mask is a binary image with the same dimensions as the frame it was
// computed from. Pix is row-major; true marks a foreground pixel.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask allocates an all-background mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]bool, width*height)}
}

// At reports whether (x, y) is foreground. Coordinates outside the mask are
// background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background. Out-of-range coordinates
// are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// InBand reports whether every channel of c lies within the inclusive
// [lower, upper] range.
func InBand(c, lower, upper HSV) bool {
	return c.H >= lower.H && c.H <= upper.H &&
		c.S >= lower.S && c.S <= upper.S &&
		c.V >= lower.V && c.V <= upper.V
}

// Threshold builds the foreground mask of all pixels whose HSV triple lies
// inside the inclusive band [lower, upper], component-wise.
//
// A band whose lower bound exceeds its upper bound on any channel selects
// nothing. The default yellow band is hue 20-35, saturation 100-255, value
// 100-255 (see DefaultConfig).
func Threshold(hsv *HSVFrame, lower, upper HSV) *Mask {
	mask := NewMask(hsv.Width, hsv.Height)
	for i, c := range hsv.Pix {
		mask.Pix[i] = InBand(c, lower, upper)
	}
	return mask
}
