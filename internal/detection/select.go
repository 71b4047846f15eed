package detection

import "math"

// DefaultMinArea is the default noise floor in square pixels. Regions whose
// contour area does not exceed it are treated as thresholding noise.
const DefaultMinArea = 500.0

// Area returns the area enclosed by a contour using the shoelace formula.
//
// The absolute value is taken, so the result does not depend on traversal
// direction or on which point the sequence starts from. Contours with fewer
// than three points enclose nothing and return 0.
//
// Area is measured between border pixel centres, so a filled w×h rectangle
// of pixels has area (w-1)×(h-1).
func Area(c Contour) float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum int64
	for i, p := range c {
		q := c[(i+1)%n]
		sum += int64(p.X)*int64(q.Y) - int64(q.X)*int64(p.Y)
	}
	return math.Abs(float64(sum)) / 2
}

// SelectLargest returns the contour with the greatest Area.
//
// Ties keep the contour that appears first. Returns nil if contours is empty
// or if the largest area is less than or equal to minArea.
func SelectLargest(contours []Contour, minArea float64) *Contour {
	best, _ := selectLargest(contours, minArea)
	return best
}

// selectLargest also reports the largest area seen, whether or not it
// cleared the noise floor.
func selectLargest(contours []Contour, minArea float64) (*Contour, float64) {
	bestIdx := -1
	bestArea := 0.0
	for i := range contours {
		if a := Area(contours[i]); a > bestArea {
			bestIdx, bestArea = i, a
		}
	}
	if bestIdx < 0 || bestArea <= minArea {
		return nil, bestArea
	}
	return &contours[bestIdx], bestArea
}
