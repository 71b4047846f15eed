//go:build gocv

package detection

import (
	"fmt"

	"gocv.io/x/gocv"
)

// OpenCVDetector runs the pipeline through OpenCV via gocv.
//
// It mirrors the native implementation step for step: RGBA is reduced to
// RGB, converted to 8-bit HSV, thresholded with InRange, and external
// contours are found with simple chain approximation. Results match the
// pure Go Detector for the same frame and configuration.
type OpenCVDetector struct {
	cfg   Config
	lower gocv.Scalar
	upper gocv.Scalar
}

// NewOpenCVDetector validates cfg and returns an OpenCV backed Backend.
func NewOpenCVDetector(cfg Config) (*OpenCVDetector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lo, hi := cfg.Band()
	return &OpenCVDetector{
		cfg:   cfg,
		lower: gocv.NewScalar(float64(lo.H), float64(lo.S), float64(lo.V), 0),
		upper: gocv.NewScalar(float64(hi.H), float64(hi.S), float64(hi.V), 0),
	}, nil
}

// Detect runs the OpenCV pipeline on frame.
func (d *OpenCVDetector) Detect(frame Frame) (Result, error) {
	if err := frame.Validate(); err != nil {
		return Result{}, err
	}

	img, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC4, frame.Pix)
	if err != nil {
		return Result{}, fmt.Errorf("failed to wrap frame: %w", err)
	}
	defer img.Close()

	rgb := gocv.NewMat()
	defer rgb.Close()
	// BGRA->BGR only drops the fourth channel, so it serves RGBA->RGB too.
	gocv.CvtColor(img, &rgb, gocv.ColorBGRAToBGR)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(rgb, &hsv, gocv.ColorRGBToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, d.lower, d.upper, &mask)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	maxArea := 0.0
	maxIdx := -1
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > maxArea {
			maxArea, maxIdx = area, i
		}
	}
	if maxIdx < 0 || maxArea <= d.cfg.MinArea {
		return Result{}, nil
	}

	rect := gocv.BoundingRect(contours.At(maxIdx))
	return Result{
		Found: true,
		Box: Box{
			Left:   rect.Min.X,
			Top:    rect.Min.Y,
			Right:  rect.Max.X,
			Bottom: rect.Max.Y,
		},
	}, nil
}
