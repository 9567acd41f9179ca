package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// ramp returns a height x width buffer where pixel (y, x) = y*width + x.
func ramp(height, width int) *raster.Buffer {
	b := raster.New(height, width)
	for i := range b.Pix() {
		b.Pix()[i] = uint8(i)
	}
	return b
}

func decodePNG(t *testing.T, enc *EncodedImage) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func TestExtract(t *testing.T) {
	b := ramp(4, 4)

	out, err := Extract(b, Region{X1: 1, Y1: 1, X2: 3, Y2: 3})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := []uint8{5, 6, 9, 10}
	for i, w := range want {
		if out.Pix()[i] != w {
			t.Errorf("pix[%d]: got %d, want %d", i, out.Pix()[i], w)
		}
	}
}

func TestExtract_Reflected(t *testing.T) {
	b := ramp(4, 4)

	// Column -1 reflects to column 1.
	out, err := Extract(b, Region{X1: -1, Y1: 0, X2: 1, Y2: 1})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if out.At(0, 0) != 1 || out.At(0, 1) != 0 {
		t.Errorf("got %v, want [1 0]", out.Pix())
	}
}

func TestExtract_ReflectionLimit(t *testing.T) {
	b := ramp(4, 4)

	out, err := Extract(b, Region{X1: -4, Y1: -4, X2: 8, Y2: 8})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if out.Width() != 12 || out.Height() != 12 {
		t.Errorf("got %dx%d, want 12x12", out.Width(), out.Height())
	}
}

func TestExtract_InvalidRegion(t *testing.T) {
	b := ramp(4, 4)
	tests := []struct {
		name string
		r    Region
	}{
		{"x inverted", Region{X1: 3, Y1: 0, X2: 1, Y2: 2}},
		{"y inverted", Region{X1: 0, Y1: 3, X2: 2, Y2: 1}},
		{"zero width", Region{X1: 2, Y1: 0, X2: 2, Y2: 2}},
		{"huge", Region{X1: 0, Y1: 0, X2: 1 << 31, Y2: 1 << 31}},
		{"too far right", Region{X1: 0, Y1: 0, X2: 9, Y2: 2}},
		{"too far up", Region{X1: 0, Y1: -5, X2: 2, Y2: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Extract(b, tt.r); err == nil {
				t.Error("Extract should fail for an invalid region")
			}
		})
	}

	if _, err := Extract(raster.Empty(), Region{X2: 1, Y2: 1}); !errors.Is(err, raster.ErrEmptyBuffer) {
		t.Errorf("got %v, want ErrEmptyBuffer", err)
	}
}

func TestNamedRegion(t *testing.T) {
	tests := []struct {
		name string
		want Region
	}{
		{"top-left", Region{0, 0, 50, 40}},
		{"top-right", Region{50, 0, 100, 40}},
		{"bottom-left", Region{0, 40, 50, 80}},
		{"bottom-right", Region{50, 40, 100, 80}},
		{"top-half", Region{0, 0, 100, 40}},
		{"bottom-half", Region{0, 40, 100, 80}},
		{"left-half", Region{0, 0, 50, 80}},
		{"right-half", Region{50, 0, 100, 80}},
		{"center", Region{25, 20, 75, 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamedRegion(tt.name, 100, 80)
			if err != nil {
				t.Fatalf("NamedRegion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := NamedRegion("middle", 100, 80); err == nil {
		t.Error("NamedRegion should fail for an unknown name")
	}
}

func TestCrop(t *testing.T) {
	b := ramp(10, 10)

	result, err := Crop(b, Region{X1: 2, Y1: 3, X2: 7, Y2: 5}, 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Width != 5 || result.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 5x2", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	img := decodePNG(t, result)
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("decoded %T, want *image.Gray", img)
	}
	if gray.GrayAt(0, 0).Y != 32 {
		t.Errorf("first pixel: got %d, want 32", gray.GrayAt(0, 0).Y)
	}
}

func TestCrop_WithScale(t *testing.T) {
	b := ramp(10, 10)

	up, err := Crop(b, Region{X1: 0, Y1: 0, X2: 5, Y2: 5}, 2.0)
	if err != nil {
		t.Fatalf("Crop with scale failed: %v", err)
	}
	if up.Width != 10 || up.Height != 10 {
		t.Errorf("scaled dimensions: got %dx%d, want 10x10", up.Width, up.Height)
	}

	down, err := Crop(b, Region{X1: 0, Y1: 0, X2: 10, Y2: 10}, 0.5)
	if err != nil {
		t.Fatalf("Crop with scale down failed: %v", err)
	}
	if down.Width != 5 || down.Height != 5 {
		t.Errorf("scaled dimensions: got %dx%d, want 5x5", down.Width, down.Height)
	}

	if _, err := Crop(b, Region{X2: 5, Y2: 5}, -1); err == nil {
		t.Error("Crop should fail for a negative scale")
	}
}

func TestEncode_Empty(t *testing.T) {
	if _, err := Encode(raster.Empty()); !errors.Is(err, raster.ErrEmptyBuffer) {
		t.Errorf("got %v, want ErrEmptyBuffer", err)
	}
}
