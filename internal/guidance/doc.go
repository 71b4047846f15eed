// Package guidance turns a detection result into a steering command for a
// tracking rig.
//
// A detection is reported in sensor coordinates. Before any error is
// computed the box is carried into display space: rotated clockwise by the
// sensor rotation (0, 90, 180 or 270 degrees) and then optionally mirrored
// horizontally, as for a front-facing camera. For 90 and 270 degree
// rotations the display frame is the sensor frame with width and height
// swapped.
//
// The command then has three axes:
//
//   - X and Y: the offset of the box centre from the display centre, in
//     pixels, zeroed while it stays inside the dead zone.
//   - Depth: +1 (move forward) while the box covers less than AreaMin
//     percent of the frame, -1 (move backward) above AreaMax, 0 otherwise.
//
// Commands are computed per frame with no memory of previous frames.
package guidance
