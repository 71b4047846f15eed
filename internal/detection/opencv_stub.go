//go:build !gocv

package detection

import "fmt"

// OpenCVDetector is unavailable without the gocv build tag.
type OpenCVDetector struct{}

// NewOpenCVDetector returns ErrBackendUnavailable; rebuild with -tags gocv
// and OpenCV installed to enable it.
func NewOpenCVDetector(_ Config) (*OpenCVDetector, error) {
	return nil, fmt.Errorf("%w: built without gocv tag", ErrBackendUnavailable)
}

// Detect always returns ErrBackendUnavailable.
func (d *OpenCVDetector) Detect(_ Frame) (Result, error) {
	return Result{}, ErrBackendUnavailable
}
