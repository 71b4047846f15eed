package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/yellow-detect/internal/detection"
	"github.com/ironsheep/yellow-detect/internal/guidance"
)

func decodeResult(t *testing.T, result *AnnotateResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	require.NoError(t, err, "invalid base64")
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "invalid PNG")
	return img
}

func rgbAt(img image.Image, x, y int) [3]uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func boxResult(l, t, r, b int) detection.Result {
	return detection.Result{Found: true, Box: detection.Box{Left: l, Top: t, Right: r, Bottom: b}}
}

var (
	rgbWhite   = [3]uint8{255, 255, 255}
	rgbBlack   = [3]uint8{0, 0, 0}
	rgbRed     = [3]uint8{255, 0, 0}
	rgbGreen   = [3]uint8{0, 255, 0}
	rgbBlue    = [3]uint8{0, 0, 255}
	rgbMagenta = [3]uint8{255, 0, 255}
)

func TestAnnotate_FarTarget(t *testing.T) {
	src := createInMemoryImage(100, 80, testBlack)

	result, err := Annotate(src, boxResult(10, 10, 30, 30), Overlay{Guidance: guidance.DefaultConfig()})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Width)
	assert.Equal(t, 80, result.Height)
	assert.Equal(t, "image/png", result.MimeType)
	assert.Equal(t, guidance.DepthForward, result.Command.Depth)

	img := decodeResult(t, result)
	tests := []struct {
		name string
		x, y int
		want [3]uint8
	}{
		{"dead zone edge", 20, 40, rgbWhite},
		{"box edge coded forward", 10, 20, rgbBlue},
		{"vector start", 50, 40, rgbMagenta},
		{"vector target", 20, 20, rgbMagenta},
		{"background", 90, 5, rgbBlack},
		{"box interior", 14, 14, rgbBlack},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rgbAt(img, tt.x, tt.y), "%s (%d,%d)", tt.name, tt.x, tt.y)
	}
}

func TestAnnotate_LockedIsGreen(t *testing.T) {
	src := createInMemoryImage(100, 80, testBlack)

	result, err := Annotate(src, boxResult(38, 28, 63, 53), Overlay{Guidance: guidance.DefaultConfig()})
	require.NoError(t, err)
	require.True(t, result.Command.Locked, "command: %+v", result.Command)
	assert.Equal(t, rgbGreen, rgbAt(decodeResult(t, result), 38, 40), "box edge")
}

func TestAnnotate_BoxColorOverride(t *testing.T) {
	src := createInMemoryImage(100, 80, testBlack)

	ov := Overlay{Guidance: guidance.DefaultConfig(), BoxColor: "#FF8800"}
	result, err := Annotate(src, boxResult(38, 28, 63, 53), ov)
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{255, 136, 0}, rgbAt(decodeResult(t, result), 38, 40))

	// An unparsable override falls back to the depth colour.
	ov.BoxColor = "not-a-color"
	result, err = Annotate(src, boxResult(38, 28, 63, 53), ov)
	require.NoError(t, err)
	assert.Equal(t, rgbGreen, rgbAt(decodeResult(t, result), 38, 40))
}

func TestAnnotate_Label(t *testing.T) {
	src := createInMemoryImage(100, 80, testBlack)
	box := boxResult(10, 10, 30, 30)

	// The label "-30,-20" starts below the box; the minus sign's bar is on
	// glyph row 2.
	plain, err := Annotate(src, box, Overlay{Guidance: guidance.DefaultConfig()})
	require.NoError(t, err)
	assert.Equal(t, rgbBlack, rgbAt(decodeResult(t, plain), 10, 34), "without label")

	labelled, err := Annotate(src, box, Overlay{Guidance: guidance.DefaultConfig(), ShowLabel: true})
	require.NoError(t, err)
	assert.Equal(t, rgbWhite, rgbAt(decodeResult(t, labelled), 10, 34), "with label")
}

func TestAnnotate_NotFound(t *testing.T) {
	src := createInMemoryImage(100, 80, testBlack)

	result, err := Annotate(src, detection.Result{}, Overlay{Guidance: guidance.DefaultConfig()})
	require.NoError(t, err)
	assert.False(t, result.Command.Found)
	assert.Equal(t, guidance.StatusScanning, result.Command.Status)

	img := decodeResult(t, result)
	assert.Equal(t, rgbWhite, rgbAt(img, 20, 40), "dead zone still drawn")
	assert.Equal(t, rgbBlack, rgbAt(img, 50, 40), "no vector without a detection")
}

func TestAnnotate_Rotated(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 80))
	fillRGBA(src, src.Bounds(), testBlack)
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})

	cfg := guidance.DefaultConfig()
	cfg.Orientation.Rotation = 90
	result, err := Annotate(src, detection.Result{}, Overlay{Guidance: cfg})
	require.NoError(t, err)
	require.Equal(t, 80, result.Width)
	require.Equal(t, 100, result.Height)
	// A clockwise quarter turn carries the top-left pixel to the top-right.
	assert.Equal(t, rgbRed, rgbAt(decodeResult(t, result), 79, 0))
}

func TestAnnotate_Mirrored(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 80))
	fillRGBA(src, src.Bounds(), testBlack)
	src.Set(0, 79, color.RGBA{255, 0, 0, 255})

	cfg := guidance.DefaultConfig()
	cfg.Orientation.Mirrored = true
	result, err := Annotate(src, detection.Result{}, Overlay{Guidance: cfg})
	require.NoError(t, err)
	assert.Equal(t, rgbRed, rgbAt(decodeResult(t, result), 99, 79))
}

func TestAnnotate_InvalidRotation(t *testing.T) {
	cfg := guidance.DefaultConfig()
	cfg.Orientation.Rotation = 45
	_, err := Annotate(createInMemoryImage(10, 10, testBlack), detection.Result{}, Overlay{Guidance: cfg})
	assert.ErrorIs(t, err, guidance.ErrInvalidRotation)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDrawLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := color.RGBA{255, 0, 255, 255}
	drawLine(img, 1, 1, 8, 8, c)
	for i := 1; i <= 8; i++ {
		assert.Equal(t, c, img.RGBAAt(i, i), "diagonal pixel (%d,%d)", i, i)
	}
	assert.NotEqual(t, c, img.RGBAAt(1, 2), "line drew outside the diagonal")

	// Lines running off the image are clipped by SetRGBA.
	assert.NotPanics(t, func() { drawLine(img, 5, 5, 20, -10, c) })
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	fg, bg := color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255}
	assert.NotPanics(t, func() {
		drawLabel(img, 8, 8, "-123", fg, bg)
		drawLabel(img, -5, -5, "12", fg, bg)
	})
}
