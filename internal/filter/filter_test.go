package filter

import (
	"errors"
	"testing"

	"github.com/ironsheep/gray-fusion-mcp/internal/convolution"
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

func uniformBuffer(height, width int, v uint8) *raster.Buffer {
	b := raster.New(height, width)
	for i := range b.Pix() {
		b.Pix()[i] = v
	}
	return b
}

// rampBuffer creates a horizontal ramp: pixel value = 10 + 3*col.
func rampBuffer(height, width int) *raster.Buffer {
	b := raster.New(height, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.Set(y, x, uint8(10+3*x))
		}
	}
	return b
}

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Result
	}{
		{"nil", nil, Success},
		{"size", IncorrectFilterSize, IncorrectFilterSize},
		{"too small", FilterSizeTooSmall, FilterSizeTooSmall},
		{"foreign", errors.New("boom"), InternalError},
		{"empty buffer", raster.ErrEmptyBuffer, InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultOf(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMedian_RemovesSpeckle(t *testing.T) {
	b := uniformBuffer(7, 7, 50)
	b.Set(3, 3, 255)

	out, err := Median(b, 3)
	if err != nil {
		t.Fatalf("Median failed: %v", err)
	}
	if out.At(3, 3) != 50 {
		t.Errorf("speckle: got %d, want 50", out.At(3, 3))
	}
}

func TestMedian_OrderStatistic(t *testing.T) {
	data := []uint8{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	b, _ := raster.FromGray(data, 3, 3)
	out, err := Median(b, 3)
	if err != nil {
		t.Fatalf("Median failed: %v", err)
	}
	if out.At(1, 1) != 5 {
		t.Errorf("center: got %d, want 5", out.At(1, 1))
	}
}

func TestMedian_EvenSize(t *testing.T) {
	_, err := Median(uniformBuffer(4, 4, 1), 4)
	if ResultOf(err) != IncorrectFilterSize {
		t.Errorf("got %v, want IncorrectFilterSize", err)
	}
}

func TestSigma(t *testing.T) {
	tests := []struct {
		size int
		want float64
	}{
		{3, 0.8},
		{5, 1.1},
		{7, 1.4},
	}
	for _, tt := range tests {
		if got := Sigma(tt.size); got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("Sigma(%d): got %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestGaussianKernel(t *testing.T) {
	k, err := GaussianKernel(5)
	if err != nil {
		t.Fatalf("GaussianKernel failed: %v", err)
	}
	if k.At(0, 0) != 1 {
		t.Errorf("corner tap: got %d, want 1", k.At(0, 0))
	}
	if k.Sum() != k.Divisor() {
		t.Errorf("divisor %d does not match tap sum %d", k.Divisor(), k.Sum())
	}
	// Symmetry
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if k.At(r, c) != k.At(c, r) || k.At(r, c) != k.At(4-r, 4-c) {
				t.Fatalf("kernel not symmetric at (%d,%d)", r, c)
			}
		}
	}
	if k.At(2, 2) <= k.At(2, 1) {
		t.Error("center tap should dominate")
	}
}

func TestGaussian_EvenSize(t *testing.T) {
	_, err := Gaussian(uniformBuffer(4, 4, 1), 6)
	if ResultOf(err) != IncorrectFilterSize {
		t.Errorf("got %v, want IncorrectFilterSize", err)
	}
	_, err = SeparableGaussian(uniformBuffer(4, 4, 1), 2)
	if ResultOf(err) != IncorrectFilterSize {
		t.Errorf("separable: got %v, want IncorrectFilterSize", err)
	}
}

func TestGaussian_MatchesConvolutionEngine(t *testing.T) {
	b := rampBuffer(9, 12)
	k, _ := GaussianKernel(3)
	want, _ := convolution.Convolve(b, k)

	got, err := Gaussian(b, 3)
	if err != nil {
		t.Fatalf("Gaussian failed: %v", err)
	}
	for i := range want.Pix() {
		if got.Pix()[i] != want.Pix()[i] {
			t.Fatalf("pix[%d]: got %d, want %d", i, got.Pix()[i], want.Pix()[i])
		}
	}
}

func TestSeparableGaussian_MatchesDirect(t *testing.T) {
	for _, size := range []int{3, 5, 7} {
		b := rampBuffer(15, 40)
		direct, err := Gaussian(b, size)
		if err != nil {
			t.Fatalf("Gaussian(%d) failed: %v", size, err)
		}
		sep, err := SeparableGaussian(b, size)
		if err != nil {
			t.Fatalf("SeparableGaussian(%d) failed: %v", size, err)
		}

		a := size / 2
		for y := 0; y < 15; y++ {
			for x := a; x < 40-a; x++ {
				d := int(direct.At(y, x)) - int(sep.At(y, x))
				if d < -1 || d > 1 {
					t.Fatalf("size %d at (%d,%d): direct=%d separable=%d", size, y, x, direct.At(y, x), sep.At(y, x))
				}
			}
		}
	}
}

func TestRecursiveGaussian_Uniform(t *testing.T) {
	b := uniformBuffer(20, 30, 123)
	out, err := RecursiveGaussian(b, 2.0)
	if err != nil {
		t.Fatalf("RecursiveGaussian failed: %v", err)
	}
	for i, v := range out.Pix() {
		if v != 123 {
			t.Fatalf("pix[%d]: got %d, want 123", i, v)
		}
	}
}

func TestRecursiveGaussian_Spreads(t *testing.T) {
	b := raster.New(21, 21)
	b.Set(10, 10, 255)

	out, err := RecursiveGaussian(b, 3.0)
	if err != nil {
		t.Fatalf("RecursiveGaussian failed: %v", err)
	}
	if out.At(10, 10) >= 255 {
		t.Error("peak should be attenuated")
	}
	if out.At(10, 10) < out.At(10, 14) {
		t.Error("center should stay brighter than its surroundings")
	}
	if out.At(10, 11) != out.At(11, 10) {
		t.Errorf("blur should be isotropic near the peak: %d vs %d", out.At(10, 11), out.At(11, 10))
	}
}

func TestRecursiveGaussian_SigmaTooSmall(t *testing.T) {
	_, err := RecursiveGaussian(uniformBuffer(5, 5, 1), 0.5)
	if ResultOf(err) != FilterSizeTooSmall {
		t.Errorf("got %v, want FilterSizeTooSmall", err)
	}
}

func TestSharpen(t *testing.T) {
	b := uniformBuffer(5, 5, 100)
	out, err := Sharpen(b)
	if err != nil {
		t.Fatalf("Sharpen failed: %v", err)
	}
	if out.At(2, 2) != 100 {
		t.Errorf("uniform region: got %d, want 100", out.At(2, 2))
	}

	b.Set(2, 2, 120)
	out, _ = Sharpen(b)
	if out.At(2, 2) <= 120 {
		t.Errorf("bright spot should be amplified, got %d", out.At(2, 2))
	}
}

func TestAdaptiveThreshold_Policies(t *testing.T) {
	b := rampBuffer(6, 20)
	b.Set(3, 10, 250)

	bin, err := AdaptiveThreshold(b, 3, 5, ThresholdBinary)
	if err != nil {
		t.Fatalf("binary failed: %v", err)
	}
	inv, err := AdaptiveThreshold(b, 3, 5, ThresholdBinaryInverted)
	if err != nil {
		t.Fatalf("inverted failed: %v", err)
	}

	if bin.At(3, 10) != 255 {
		t.Errorf("bright pixel: got %d, want 255", bin.At(3, 10))
	}
	for i := range bin.Pix() {
		v := bin.Pix()[i]
		if v != 0 && v != 255 {
			t.Fatalf("non-binary value %d", v)
		}
		if inv.Pix()[i] != 255-v {
			t.Fatalf("pix[%d]: policies are not complementary", i)
		}
	}
}

func TestAdaptiveThreshold_Errors(t *testing.T) {
	b := uniformBuffer(4, 4, 9)
	if _, err := AdaptiveThreshold(b, 4, 0, ThresholdBinary); ResultOf(err) != IncorrectFilterSize {
		t.Errorf("even size: got %v", err)
	}
	if _, err := AdaptiveThreshold(b, 3, 0, Policy(7)); ResultOf(err) != IncorrectFilterType {
		t.Errorf("bad policy: got %v", err)
	}
}

func TestApply(t *testing.T) {
	b := uniformBuffer(8, 8, 60)

	tests := []struct {
		name string
		typ  Type
		p    Params
		want Result
	}{
		{"median", TypeMedian, Params{Size: 3}, Success},
		{"gaussian", TypeGaussian, Params{Size: 5}, Success},
		{"separable", TypeSeparableGaussian, Params{Size: 5}, Success},
		{"recursive", TypeRecursiveGaussian, Params{Sigma: 1.5}, Success},
		{"recursive small", TypeRecursiveGaussian, Params{Sigma: 0.2}, FilterSizeTooSmall},
		{"sharpen", TypeSharpen, Params{}, Success},
		{"threshold", TypeAdaptiveThreshold, Params{Size: 3, Threshold: 2}, Success},
		{"even median", TypeMedian, Params{Size: 2}, IncorrectFilterSize},
		{"unknown", Type(99), Params{}, IncorrectFilterType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(b, tt.typ, tt.p)
			if got := ResultOf(err); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if tt.want == Success && (out.Height() != 8 || out.Width() != 8) {
				t.Errorf("dimensions: got %dx%d", out.Height(), out.Width())
			}
		})
	}
}

func TestApply_EmptyBuffer(t *testing.T) {
	_, err := Apply(raster.Empty(), TypeMedian, Params{Size: 3})
	if !errors.Is(err, raster.ErrEmptyBuffer) {
		t.Errorf("got %v, want ErrEmptyBuffer", err)
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("Recursive_Gaussian")
	if err != nil || typ != TypeRecursiveGaussian {
		t.Errorf("got %v, %v", typ, err)
	}
	if _, err := ParseType("blur"); ResultOf(err) != IncorrectFilterType {
		t.Errorf("unknown: got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != ThresholdBinary {
		t.Errorf("empty: got %v, %v", p, err)
	}
	if p, err := ParsePolicy("BINARY_INVERTED"); err != nil || p != ThresholdBinaryInverted {
		t.Errorf("inverted: got %v, %v", p, err)
	}
	if _, err := ParsePolicy("otsu"); ResultOf(err) != IncorrectFilterType {
		t.Errorf("unknown: got %v", err)
	}
}
