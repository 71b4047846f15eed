// Package imaging provides the image plumbing around colour-region
// detection: loading and caching frames, preparing them for the detector,
// sampling pixels in HSV to tune a band, and rendering masks and annotated
// frames for inspection.
//
// Detection itself lives in package detection; this package converts between
// files, image.Image values and the detector's inputs and outputs.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. For regions, (x1,y1) is inclusive and
// (x2,y2) exclusive. Coordinates passed to SampleHSV are relative to the
// image bounds' minimum, matching detection boxes.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless
// and never modify their input image.
//
// # Colour Representation
//
// Samples report each pixel as hex, 8-bit RGB, the detector's 8-bit HSV
// encoding (hue 0-179, saturation and value 0-255) and conventional HSV
// (hue in degrees, saturation and value in percent).
//
// # Encoded Output
//
// RenderMask and Annotate return PNG images as base64 strings so they can
// be embedded directly in MCP tool results.
package imaging
