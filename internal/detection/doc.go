// Package detection locates the largest yellow region in a camera frame.
//
// The package implements a single-pass, stateless colour detection pipeline
// intended as the perception input of a robot-arm control loop. Each call
// takes one RGBA frame and returns one bounding box (or nothing).
//
// # Pipeline
//
// Every frame runs through five stages, strictly in order:
//
//  1. Colour conversion: RGBA pixels are converted to 8-bit HSV with hue
//     quantized to [0,180) (see [Convert])
//  2. Thresholding: pixels inside the inclusive HSV band become foreground
//     (see [Threshold])
//  3. Contour extraction: outer borders of connected foreground regions are
//     traced with Suzuki-Abe border following (see [FindContours])
//  4. Selection: the contour with the largest shoelace area wins, unless it
//     does not exceed the noise floor (see [SelectLargest])
//  5. Encoding: the winner's axis-aligned bounding box is packed into a
//     [Result] (see [Encode])
//
// [DetectYellowRegion] chains all five stages for a raw pixel buffer.
// [Detector] does the same for [Frame] and image.Image values and can report
// diagnostics through an injected [Logger].
//
// # Coordinate System
//
// Coordinates follow the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Hue Units
//
// Hue is stored in half-degrees (0-179) to fit a byte, the same encoding
// used by OpenCV's 8-bit HSV conversion. Configurations written in degrees
// (0-359) set [Config.HueUnits] to [HueDegrees] and their hue bounds are
// halved before thresholding.
//
// # Thread Safety
//
// No stage keeps state between calls. A [Detector] is immutable after
// construction and may be shared by goroutines processing independent
// frames. A single [Frame] buffer must not be mutated while a call that
// borrows it is in progress.
//
// # Backends
//
// The pure Go pipeline is always available. Building with the gocv tag adds
// an OpenCV implementation of [Backend] (see NewOpenCVDetector) that runs
// the same steps through gocv, which is useful for parity checks against
// the original native implementation.
package detection
