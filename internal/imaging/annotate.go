package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/yellow-detect/internal/detection"
	"github.com/ironsheep/yellow-detect/internal/guidance"
)

// Overlay colours, keyed to the depth command of the box.
var (
	deadZoneColor = color.RGBA{255, 255, 255, 255}
	vectorColor   = color.RGBA{255, 0, 255, 255}
	forwardColor  = color.RGBA{0, 0, 255, 255}
	backwardColor = color.RGBA{255, 0, 0, 255}
	holdColor     = color.RGBA{0, 255, 0, 255}
	labelFg       = color.RGBA{255, 255, 255, 255}
	labelBg       = color.RGBA{0, 0, 0, 180}
)

const strokeWidth = 2

// Overlay controls what Annotate draws.
type Overlay struct {
	// Guidance supplies the dead zone, area band and orientation. The frame
	// is rotated and mirrored into display space before drawing.
	Guidance guidance.Config `json:"guidance"`

	// BoxColor overrides the depth-coded box colour ("#RRGGBB" or
	// "#RRGGBBAA"). Unparseable values fall back to the depth colour.
	BoxColor string `json:"box_color,omitempty"`

	// ShowLabel prints the raw centre error next to the box.
	ShowLabel bool `json:"show_label"`
}

// AnnotateResult contains the annotated display frame and the command it
// illustrates.
type AnnotateResult struct {
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	ImageBase64 string           `json:"image_base64"`
	MimeType    string           `json:"mime_type"`
	Command     guidance.Command `json:"command"`
}

// Annotate draws a detection over its frame the way a tracking display
// shows it: the dead zone square around the frame centre, the bounding box
// coloured by depth command (blue forward, red backward, green hold) and a
// vector from the centre to the box centre.
//
// result must come from a detection on img; its box is in img's sensor
// coordinates.
func Annotate(img image.Image, result detection.Result, ov Overlay) (*AnnotateResult, error) {
	bounds := img.Bounds()
	cmd, err := guidance.Compute(result, bounds.Dx(), bounds.Dy(), ov.Guidance)
	if err != nil {
		return nil, err
	}

	oriented := orientImage(img, ov.Guidance.Orientation)
	out := image.NewRGBA(oriented.Bounds())
	draw.Draw(out, out.Bounds(), oriented, image.Point{}, draw.Src)

	cx, cy := cmd.Width/2, cmd.Height/2
	half := int(ov.Guidance.DeadZone / 2)
	if half > 0 {
		drawRect(out, image.Rect(cx-half, cy-half, cx+half, cy+half), deadZoneColor)
	}

	if cmd.Found {
		box := cmd.Box
		boxColor := depthColor(cmd.Depth)
		if ov.BoxColor != "" {
			if c, err := parseHexColor(ov.BoxColor); err == nil {
				boxColor = c
			}
		}
		drawRect(out, image.Rect(box.Left, box.Top, box.Right, box.Bottom), boxColor)

		tx, ty := cx+int(cmd.ErrX), cy+int(cmd.ErrY)
		drawLine(out, cx, cy, tx, ty, vectorColor)
		fillCircle(out, tx, ty, 3, vectorColor)

		if ov.ShowLabel {
			label := fmt.Sprintf("%d,%d", int(cmd.ErrX), int(cmd.ErrY))
			drawLabel(out, box.Left, box.Bottom+2, label, labelFg, labelBg)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &AnnotateResult{
		Width:       cmd.Width,
		Height:      cmd.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Command:     cmd,
	}, nil
}

// orientImage rotates img clockwise by o.Rotation and mirrors it if asked,
// matching guidance.Orientation.Orient for boxes. imaging rotates
// counter-clockwise, hence the swapped quarter turns.
func orientImage(img image.Image, o guidance.Orientation) *image.NRGBA {
	var out *image.NRGBA
	switch o.Rotation {
	case 90:
		out = imaging.Rotate270(img)
	case 180:
		out = imaging.Rotate180(img)
	case 270:
		out = imaging.Rotate90(img)
	default:
		out = imaging.Clone(img)
	}
	if o.Mirrored {
		out = imaging.FlipH(out)
	}
	return out
}

func depthColor(d guidance.Depth) color.RGBA {
	switch d {
	case guidance.DepthForward:
		return forwardColor
	case guidance.DepthBackward:
		return backwardColor
	default:
		return holdColor
	}
}

// drawRect outlines r (half-open) with a strokeWidth border drawn inwards.
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if x < r.Min.X+strokeWidth || x >= r.Max.X-strokeWidth ||
				y < r.Min.Y+strokeWidth || y >= r.Max.Y-strokeWidth {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawLine plots a Bresenham line between two points, both inclusive.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(cx+dx, cy+dy, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// labelGlyphs is a 3x5 bitmap font covering signed coordinate pairs.
var labelGlyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'-': {"000", "000", "111", "000", "000"},
}

// drawLabel draws text at (x, y) over a filled background, clipped to the
// image. Runes without a glyph leave a blank cell.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := labelGlyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if image.Pt(px, py).In(bounds) {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
