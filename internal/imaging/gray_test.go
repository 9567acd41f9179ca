package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAverage, false},
		{"average", ModeAverage, false},
		{"Luminance", ModeLuminance, false},
		{"lightness", ModeAverage, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q): got %v, %v", tt.in, got, err)
		}
	}
}

func TestToBuffer_Average(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{R: 255, G: 0, B: 0, A: 255})

	b, err := ToBuffer(img, ModeAverage)
	if err != nil {
		t.Fatalf("ToBuffer failed: %v", err)
	}
	if b.Height() != 2 || b.Width() != 3 {
		t.Fatalf("dimensions: got %dx%d, want 2x3", b.Height(), b.Width())
	}
	if b.At(0, 0) != 255 || b.At(0, 1) != 20 || b.At(1, 2) != 85 || b.At(1, 0) != 0 {
		t.Errorf("unexpected pixels: %v", b.Pix())
	}
}

func TestToBuffer_OffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(5, 7, 9, 10))
	img.SetGray(5, 7, color.Gray{Y: 42})

	b, err := ToBuffer(img, ModeAverage)
	if err != nil {
		t.Fatalf("ToBuffer failed: %v", err)
	}
	if b.Width() != 4 || b.Height() != 3 {
		t.Errorf("dimensions: got %dx%d, want 3x4", b.Height(), b.Width())
	}
	if b.At(0, 0) != 42 {
		t.Errorf("origin pixel: got %d, want 42", b.At(0, 0))
	}
}

func TestToBuffer_Luminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.Black)
	img.Set(1, 0, color.White)
	img.Set(2, 0, color.RGBA{0, 255, 0, 255})
	img.Set(3, 0, color.RGBA{0, 0, 255, 255})

	b, err := ToBuffer(img, ModeLuminance)
	if err != nil {
		t.Fatalf("ToBuffer failed: %v", err)
	}
	if b.At(0, 0) != 0 {
		t.Errorf("black: got %d, want 0", b.At(0, 0))
	}
	if b.At(0, 1) != 255 {
		t.Errorf("white: got %d, want 255", b.At(0, 1))
	}
	// Pure green is perceived much brighter than pure blue.
	if b.At(0, 2) <= b.At(0, 3) {
		t.Errorf("green %d should be lighter than blue %d", b.At(0, 2), b.At(0, 3))
	}
}

func TestToBuffer_Empty(t *testing.T) {
	_, err := ToBuffer(image.NewGray(image.Rect(0, 0, 0, 0)), ModeAverage)
	if !errors.Is(err, raster.ErrEmptyBuffer) {
		t.Errorf("got %v, want ErrEmptyBuffer", err)
	}
}

func TestToImage_RoundTrip(t *testing.T) {
	b := raster.New(3, 5)
	for i := range b.Pix() {
		b.Pix()[i] = uint8(i * 10)
	}

	img := ToImage(b)
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 3 {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	if img.GrayAt(4, 2).Y != b.At(2, 4) {
		t.Errorf("pixel (4,2): got %d, want %d", img.GrayAt(4, 2).Y, b.At(2, 4))
	}

	back, err := ToBuffer(img, ModeAverage)
	if err != nil {
		t.Fatalf("ToBuffer failed: %v", err)
	}
	for i, v := range back.Pix() {
		if v != b.Pix()[i] {
			t.Fatalf("pix[%d]: got %d, want %d", i, v, b.Pix()[i])
		}
	}
}

func TestResize(t *testing.T) {
	b := raster.New(4, 4)
	for i := range b.Pix() {
		b.Pix()[i] = 100
	}

	out, err := Resize(b, 8, 6)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if out.Width() != 8 || out.Height() != 6 {
		t.Fatalf("dimensions: got %dx%d, want 6x8", out.Height(), out.Width())
	}
	for i, v := range out.Pix() {
		if v != 100 {
			t.Fatalf("pix[%d]: got %d, want 100", i, v)
		}
	}

	same, err := Resize(b, 4, 4)
	if err != nil || same == b {
		t.Error("same-size resize should return a copy")
	}
	if _, err := Resize(b, 0, 4); !errors.Is(err, raster.ErrInvalidDimensions) {
		t.Errorf("got %v, want ErrInvalidDimensions", err)
	}
}
