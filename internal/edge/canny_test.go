package edge

import (
	"errors"
	"testing"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// createStepBuffer creates a buffer that is black left of col and white from col on.
func createStepBuffer(height, width, col int) *raster.Buffer {
	b := raster.New(height, width)
	for y := 0; y < height; y++ {
		for x := col; x < width; x++ {
			b.Set(y, x, 255)
		}
	}
	return b
}

// createRectBuffer creates a white rectangle in the center of a black buffer.
func createRectBuffer(height, width int) *raster.Buffer {
	b := raster.New(height, width)
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			b.Set(y, x, 255)
		}
	}
	return b
}

func assertBinary(t *testing.T, b *raster.Buffer) {
	t.Helper()
	for i, v := range b.Pix() {
		if v != 0 && v != 255 {
			t.Fatalf("pix[%d] = %d, want 0 or 255", i, v)
		}
	}
}

func TestCanny_AllZero(t *testing.T) {
	out, err := Canny(raster.New(30, 40), DefaultThresholds)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	for i, v := range out.Pix() {
		if v != 0 {
			t.Fatalf("pix[%d] = %d, want 0", i, v)
		}
	}
}

func TestCanny_StrongEdge(t *testing.T) {
	b := createStepBuffer(20, 20, 10)

	out, err := Canny(b, DefaultThresholds)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	assertBinary(t, out)

	edgeFound := false
	for x := 8; x <= 12; x++ {
		if out.At(10, x) == 255 {
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		t.Error("strong vertical edge was not detected")
	}

	if out.At(10, 2) != 0 || out.At(10, 17) != 0 {
		t.Error("flat areas should not contain edges")
	}
}

func TestCanny_BinaryOutput(t *testing.T) {
	thresholds := []struct {
		name string
		th   Thresholds
	}{
		{"default", DefaultThresholds},
		{"low thresholds", Thresholds{Min: 5, Max: 30}},
		{"high thresholds", Thresholds{Min: 100, Max: 200}},
	}

	b := createRectBuffer(40, 40)
	// Soft gradient inside the rectangle leaves ambiguous magnitudes to resolve.
	for y := 15; y < 25; y++ {
		for x := 15; x < 25; x++ {
			b.Set(y, x, uint8(150+4*(x-15)))
		}
	}

	for _, tt := range thresholds {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Canny(b, tt.th)
			if err != nil {
				t.Fatalf("Canny failed: %v", err)
			}
			assertBinary(t, out)
		})
	}
}

func TestCanny_SmallImage(t *testing.T) {
	b := raster.New(2, 3)
	b.Set(0, 0, 200)

	out, err := Canny(b, DefaultThresholds)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if out.Height() != 2 || out.Width() != 3 {
		t.Errorf("dimensions: got %dx%d, want 2x3", out.Height(), out.Width())
	}
	assertBinary(t, out)
}

func TestCanny_Empty(t *testing.T) {
	_, err := Canny(raster.Empty(), DefaultThresholds)
	if !errors.Is(err, raster.ErrEmptyBuffer) {
		t.Errorf("got %v, want ErrEmptyBuffer", err)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name string
		h, v int
		want Angle
	}{
		{"horizontal", 10, 1, Angle0},
		{"vertical", 1, 10, Angle90},
		{"zero h", 0, 0, Angle90},
		{"diagonal same sign", 5, 5, Angle45},
		{"diagonal negative", -5, -6, Angle45},
		{"anti-diagonal", 5, -5, Angle135},
		{"anti-diagonal flipped", -4, 6, Angle135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantize(tt.h, tt.v); got != tt.want {
				t.Errorf("quantize(%d, %d): got %d, want %d", tt.h, tt.v, got, tt.want)
			}
		})
	}
}

func TestNonMaxSuppression(t *testing.T) {
	mags := []uint8{10, 40, 90, 40, 10, 90}
	grads := make([]Gradient, len(mags))
	for i, m := range mags {
		grads[i] = Gradient{Magnitude: m, Direction: Angle0}
	}

	out, err := nonMaxSuppression(grads, 1, len(mags))
	if err != nil {
		t.Fatalf("nonMaxSuppression failed: %v", err)
	}
	// Column 2 ties with column 5 but that is three steps away.
	want := []uint8{0, 0, 90, 0, 0, 90}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("out[%d]: got %d, want %d", i, out[i], w)
		}
	}
}

func TestNonMaxSuppression_BadDirection(t *testing.T) {
	grads := []Gradient{{Magnitude: 1, Direction: Angle(30)}}
	if _, err := nonMaxSuppression(grads, 1, 1); !errors.Is(err, ErrDirection) {
		t.Errorf("got %v, want ErrDirection", err)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	t.Run("promoted next to edge", func(t *testing.T) {
		b, _ := raster.FromGray([]uint8{255, 50, 50, 0, 0}, 1, 5)
		resolveAmbiguous(b)
		want := []uint8{255, 255, 255, 0, 0}
		for i, w := range want {
			if b.Pix()[i] != w {
				t.Errorf("pix[%d]: got %d, want %d", i, b.Pix()[i], w)
			}
		}
	})

	t.Run("isolated group discarded", func(t *testing.T) {
		b, _ := raster.FromGray([]uint8{0, 50, 60, 0, 255}, 1, 5)
		resolveAmbiguous(b)
		if b.At(0, 1) != 0 || b.At(0, 2) != 0 {
			t.Errorf("got %v, want ambiguous pixels cleared", b.Pix())
		}
		if b.At(0, 4) != 255 {
			t.Error("confirmed edge must stay")
		}
	})

	t.Run("too many contacts", func(t *testing.T) {
		b := raster.New(2, 30)
		for x := 0; x < 30; x++ {
			b.Set(0, x, 255)
			b.Set(1, x, 50)
		}
		resolveAmbiguous(b)
		for x := 0; x < 30; x++ {
			if b.At(1, x) != 0 {
				t.Fatalf("col %d: got %d, want 0", x, b.At(1, x))
			}
		}
	})
}

func TestMagnitude(t *testing.T) {
	h, _ := raster.FromGray([]uint8{3, 255, 0}, 1, 3)
	v, _ := raster.FromGray([]uint8{4, 255, 0}, 1, 3)

	m, err := Magnitude(h, v)
	if err != nil {
		t.Fatalf("Magnitude failed: %v", err)
	}
	want := []uint8{5, 255, 0}
	for i, w := range want {
		if m.Pix()[i] != w {
			t.Errorf("pix[%d]: got %d, want %d", i, m.Pix()[i], w)
		}
	}
}

func TestStrength(t *testing.T) {
	for _, op := range []Operator{Sobel, Scharr} {
		t.Run(op.String(), func(t *testing.T) {
			out, err := Strength(createStepBuffer(10, 10, 5), op)
			if err != nil {
				t.Fatalf("Strength failed: %v", err)
			}
			if out.At(5, 5) == 0 {
				t.Error("expected a response at the step")
			}
			if out.At(5, 1) != 0 || out.At(5, 8) != 0 {
				t.Error("expected no response in flat areas")
			}
		})
	}
}

func TestOperatorConvolution_Direction(t *testing.T) {
	b := createStepBuffer(8, 8, 4)

	h, err := OperatorConvolution(b, Sobel, Horizontal)
	if err != nil {
		t.Fatalf("horizontal failed: %v", err)
	}
	v, err := OperatorConvolution(b, Sobel, Vertical)
	if err != nil {
		t.Fatalf("vertical failed: %v", err)
	}
	if h.At(4, 4) != 255 {
		t.Errorf("horizontal response: got %d, want 255", h.At(4, 4))
	}
	if v.At(4, 4) != 0 {
		t.Errorf("vertical response: got %d, want 0", v.At(4, 4))
	}
}

func TestParseOperator(t *testing.T) {
	if op, err := ParseOperator("scharr"); err != nil || op != Scharr {
		t.Errorf("scharr: got %v, %v", op, err)
	}
	if op, err := ParseOperator("Sobel"); err != nil || op != Sobel {
		t.Errorf("Sobel: got %v, %v", op, err)
	}
	if op, err := ParseOperator("SCHARR"); err != nil || op != Scharr {
		t.Errorf("SCHARR: got %v, %v", op, err)
	}
	if _, err := ParseOperator("prewitt"); err == nil {
		t.Error("expected error for unknown operator")
	}
}
