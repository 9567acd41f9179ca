package filter

import (
	"math"

	"github.com/ironsheep/gray-fusion-mcp/internal/convolution"
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Sigma returns the standard deviation used for a Gaussian window of the
// given odd size: (size/2 - 1)*0.3 + 0.8.
func Sigma(size int) float64 {
	return float64(size/2-1)*0.3 + 0.8
}

// GaussianKernel samples the 2-D Gaussian density for an odd window size and
// integerizes it: every tap is divided by the smallest tap (the corner) and
// rounded, and the integer taps sum to the kernel divisor.
func GaussianKernel(size int) (*convolution.Kernel[int], error) {
	if size <= 0 || size%2 == 0 {
		return nil, IncorrectFilterSize
	}
	sigma := Sigma(size)
	a := size / 2
	density := func(x, y int) float64 {
		return math.Exp(-float64(x*x+y*y)/(2*sigma*sigma)) / (2 * math.Pi * sigma * sigma)
	}

	minTap := density(a, a)
	weights := make([]int, 0, size*size)
	divisor := 0
	for y := -a; y <= a; y++ {
		for x := -a; x <= a; x++ {
			tap := int(math.Round(density(x, y) / minTap))
			weights = append(weights, tap)
			divisor += tap
		}
	}
	return convolution.NewKernel(size, weights, divisor)
}

// Gaussian blurs src with the integerized size x size Gaussian kernel.
func Gaussian(src *raster.Buffer, size int) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	k, err := GaussianKernel(size)
	if err != nil {
		return raster.Empty(), err
	}
	return convolution.ConvolveSliding(src, k)
}

// gaussian1D returns normalized 1-D Gaussian weights for an odd window size.
func gaussian1D(size int) []float64 {
	sigma := Sigma(size)
	a := size / 2
	weights := make([]float64, size)
	var sum float64
	for i := -a; i <= a; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		weights[i+a] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// SeparableGaussian blurs src with two 1-D passes, rows first, then columns.
// The intermediate result keeps full precision and is only rounded once.
func SeparableGaussian(src *raster.Buffer, size int) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	if size <= 0 || size%2 == 0 {
		return raster.Empty(), IncorrectFilterSize
	}

	h, w := src.Height(), src.Width()
	a := size / 2
	weights := gaussian1D(size)

	tmp := make([]float64, h*w)
	for y := 0; y < h; y++ {
		row := src.Row(y)
		for x := 0; x < w; x++ {
			var sum float64
			for j, wt := range weights {
				sum += wt * float64(row[raster.Reflect(x+j-a, w)])
			}
			tmp[y*w+x] = sum
		}
	}

	out := raster.New(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, wt := range weights {
				sum += wt * tmp[raster.Reflect(y+i-a, h)*w+x]
			}
			out.Set(y, x, raster.Clamp(math.Round(sum)))
		}
	}
	return out, nil
}
