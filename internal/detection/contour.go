package detection

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Contour is the closed outer border of one connected foreground region.
//
// Points are pixel coordinates of border pixels in traversal order; the last
// point connects back to the first. Runs of points along the same
// horizontal, vertical or diagonal step are compressed to their endpoints,
// which keeps the enclosed polygon and its bounding extent unchanged.
type Contour []Point

// neighbours lists the 8-connected offsets counter-clockwise (as seen on
// screen) starting from east. Index arithmetic mod 8 walks around a pixel.
var neighbours = [8]Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: -1},  // NE
	{X: 0, Y: -1},  // N
	{X: -1, Y: -1}, // NW
	{X: -1, Y: 0},  // W
	{X: -1, Y: 1},  // SW
	{X: 0, Y: 1},   // S
	{X: 1, Y: 1},   // SE
}

const (
	dirEast = 0
	dirWest = 4

	// frameBorder is the label of the virtual border around the image.
	frameBorder = 1
)

// border records the type and parent of one traced border.
type border struct {
	hole   bool
	parent int32
}

// FindContours traces the outer borders of all connected foreground regions
// in a mask.
//
// Only outermost borders are returned: regions lying inside a hole of
// another region, and the borders of holes themselves, are traced to keep
// the labelling consistent but are not reported.
//
// # Algorithm
//
// The implementation is Suzuki-Abe topological border following with
// 8-connectivity:
//
//  1. The mask is copied into a label grid with a one-pixel zero frame, so
//     regions touching the image edge are traced like any other
//  2. The grid is raster scanned. A foreground pixel with background to its
//     left starts an outer border; a foreground pixel with background to its
//     right starts a hole border
//  3. Each new border is followed around its region, relabelling border
//     pixels with the border's number so it is never started twice
//  4. The last border met on the current row decides the new border's
//     parent, which builds the region hierarchy in the same pass
//  5. Outer borders whose parent is the image frame are kept and compressed
//
// # Ordering
//
// Contours appear in raster order of their topmost-leftmost pixel, so the
// result is identical for identical masks.
//
// # Performance
//
// Every pixel is visited by the scan plus a bounded number of times by
// border following: O(width × height) overall.
func FindContours(mask *Mask) []Contour {
	if mask == nil || mask.Width <= 0 || mask.Height <= 0 {
		return nil
	}

	width, height := mask.Width, mask.Height
	stride := width + 2
	grid := make([]int32, stride*(height+2))
	for y := 0; y < height; y++ {
		row := mask.Pix[y*width : (y+1)*width]
		for x, fg := range row {
			if fg {
				grid[(y+1)*stride+x+1] = 1
			}
		}
	}

	t := &tracer{grid: grid, stride: stride}
	for d, n := range neighbours {
		t.offsets[d] = n.Y*stride + n.X
	}

	// Index 0 is unused so border numbers index the slice directly.
	borders := []border{{}, {hole: true}}
	contours := make([]Contour, 0)

	for y := 1; y <= height; y++ {
		lnbd := int32(frameBorder)
		for x := 1; x <= width; x++ {
			idx := y*stride + x
			v := grid[idx]
			if v == 0 {
				continue
			}

			start, hole := -1, false
			switch {
			case v == 1 && grid[idx-1] == 0:
				start = dirWest
			case v >= 1 && grid[idx+1] == 0:
				start, hole = dirEast, true
				if v > 1 {
					lnbd = v
				}
			}

			if start >= 0 {
				nbd := int32(len(borders))
				parent := parentOf(borders, lnbd, hole)
				borders = append(borders, border{hole: hole, parent: parent})

				keep := !hole && parent == frameBorder
				points := t.follow(idx, start, nbd, keep)
				if keep {
					contours = append(contours, compress(points))
				}
			}

			if a := grid[idx]; a != 1 {
				if a < 0 {
					a = -a
				}
				lnbd = a
			}
		}
	}

	return contours
}

// parentOf decides the parent of a new border from the last border met on
// the scan row. Two borders of the same type are siblings; otherwise the
// last border encloses the new one.
func parentOf(borders []border, lnbd int32, hole bool) int32 {
	last := borders[lnbd]
	if last.hole == hole {
		return last.parent
	}
	return lnbd
}

// tracer follows borders over a zero-framed label grid.
type tracer struct {
	grid    []int32
	stride  int
	offsets [8]int
}

// follow traces the border starting at grid index i0, labelling it nbd.
//
// start is the direction of the background pixel that triggered the border
// (west for outer borders, east for holes). When collect is false the
// labels are still written but no points are returned.
func (t *tracer) follow(i0, start int, nbd int32, collect bool) []Point {
	grid := t.grid

	// Look clockwise around the start pixel for the first foreground
	// neighbour.
	s := start
	found := false
	for k := 0; k < 8; k++ {
		s = (s - 1) & 7
		if grid[i0+t.offsets[s]] != 0 {
			found = true
			break
		}
	}
	if !found {
		// Isolated pixel.
		grid[i0] = -nbd
		if collect {
			return []Point{t.point(i0)}
		}
		return nil
	}

	var points []Point
	i1 := i0 + t.offsets[s]
	i3 := i0
	for {
		// s points from i3 back to the previous pixel; search
		// counter-clockwise from just past it.
		eastZero := false
		i4 := i3
		for k := 1; k <= 8; k++ {
			d := (s + k) & 7
			n := i3 + t.offsets[d]
			if grid[n] != 0 {
				s, i4 = d, n
				break
			}
			if d == dirEast {
				eastZero = true
			}
		}

		if eastZero {
			grid[i3] = -nbd
		} else if grid[i3] == 1 {
			grid[i3] = nbd
		}

		if collect {
			points = append(points, t.point(i3))
		}

		if i4 == i0 && i3 == i1 {
			break
		}
		i3 = i4
		s = (s + 4) & 7
	}
	return points
}

// point converts a grid index back to mask coordinates.
func (t *tracer) point(idx int) Point {
	return Point{X: idx%t.stride - 1, Y: idx/t.stride - 1}
}

// compress drops every point whose incoming and outgoing steps are equal,
// leaving only the corners of the closed polygon.
func compress(points []Point) Contour {
	n := len(points)
	if n < 3 {
		return Contour(points)
	}

	out := make(Contour, 0, n/2+1)
	for k, cur := range points {
		prev := points[(k+n-1)%n]
		next := points[(k+1)%n]
		if cur.X-prev.X == next.X-cur.X && cur.Y-prev.Y == next.Y-cur.Y {
			continue
		}
		out = append(out, cur)
	}
	return out
}
