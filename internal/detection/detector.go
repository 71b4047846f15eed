package detection

import (
	"errors"
	"image"
)

// ErrBackendUnavailable is returned by backend constructors that were not
// compiled into the binary (for example the OpenCV backend without the gocv
// build tag).
var ErrBackendUnavailable = errors.New("detection backend unavailable")

// Logger receives diagnostic messages. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// Backend is any implementation of the per-frame detection pipeline.
type Backend interface {
	// Detect runs the full pipeline on one frame.
	Detect(frame Frame) (Result, error)
}

var (
	_ Backend = (*Detector)(nil)
	_ Backend = (*OpenCVDetector)(nil)
)

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sends per-frame diagnostics to l. A nil logger disables them.
func WithLogger(l Logger) Option {
	return func(d *Detector) {
		if l == nil {
			l = discardLogger{}
		}
		d.logger = l
	}
}

// Detector runs the pure Go pipeline with a fixed configuration.
//
// A Detector is immutable after New and safe for concurrent use.
type Detector struct {
	cfg    Config
	lower  HSV
	upper  HSV
	logger Logger
}

// New validates cfg and returns a Detector using it.
//
// Returns an error wrapping ErrInvalidInput if cfg fails Validate.
func New(cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{cfg: cfg, logger: discardLogger{}}
	d.lower, d.upper = cfg.Band()
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the configuration the detector was built with.
func (d *Detector) Config() Config {
	return d.cfg
}

// Analysis is the detailed outcome of one pipeline run.
type Analysis struct {
	// Result is the detection outcome.
	Result Result `json:"result"`

	// Width and Height are the dimensions of the analysed frame.
	Width  int `json:"width"`
	Height int `json:"height"`

	// ForegroundPixels is the number of pixels inside the colour band.
	ForegroundPixels int `json:"foreground_pixels"`

	// Contours is the number of outer regions found in the mask.
	Contours int `json:"contours"`

	// LargestArea is the contour area of the largest region, reported even
	// when it did not clear the noise floor.
	LargestArea float64 `json:"largest_area"`

	// Mask is the thresholded frame. It is not serialized.
	Mask *Mask `json:"-"`
}

// Analyze runs the pipeline on frame and returns the result together with
// intermediate statistics and the mask.
func (d *Detector) Analyze(frame Frame) (*Analysis, error) {
	hsv, err := Convert(frame)
	if err != nil {
		return nil, err
	}
	mask := Threshold(hsv, d.lower, d.upper)
	contours := FindContours(mask)
	selected, largest := selectLargest(contours, d.cfg.MinArea)
	result := Encode(selected)

	a := &Analysis{
		Result:           result,
		Width:            frame.Width,
		Height:           frame.Height,
		ForegroundPixels: mask.Count(),
		Contours:         len(contours),
		LargestArea:      largest,
		Mask:             mask,
	}
	if result.Found {
		d.logger.Printf("detection: found box L:%d T:%d R:%d B:%d (area %.0f, %d regions)",
			result.Box.Left, result.Box.Top, result.Box.Right, result.Box.Bottom, largest, len(contours))
	} else if len(contours) > 0 {
		d.logger.Printf("detection: largest of %d regions has area %.0f, not above floor %.0f",
			len(contours), largest, d.cfg.MinArea)
	}
	return a, nil
}

// Detect runs the pipeline on frame.
func (d *Detector) Detect(frame Frame) (Result, error) {
	a, err := d.Analyze(frame)
	if err != nil {
		return Result{}, err
	}
	return a.Result, nil
}

// DetectImage converts img to a Frame and runs the pipeline on it.
// Box coordinates are relative to img.Bounds().Min.
func (d *Detector) DetectImage(img image.Image) (Result, error) {
	frame, err := FrameFromImage(img)
	if err != nil {
		return Result{}, err
	}
	return d.Detect(frame)
}

// DetectYellowRegion is the primary entry point: it runs the full pipeline
// on a raw RGBA buffer of width×height pixels.
//
// Returns an error wrapping ErrInvalidInput for an empty or mis-sized
// buffer, non-positive dimensions or an invalid cfg. Finding nothing is not
// an error; it yields a Result with Found set to false.
func DetectYellowRegion(pixels []byte, width, height int, cfg Config) (Result, error) {
	frame, err := NewFrame(pixels, width, height)
	if err != nil {
		return Result{}, err
	}
	d, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	return d.Detect(frame)
}
