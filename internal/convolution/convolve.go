package convolution

import (
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Convolve applies k to src one pixel at a time, reflecting out-of-range taps.
func Convolve[T raster.Number](src *raster.Buffer, k *Kernel[T]) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	h, w := src.Height(), src.Width()
	a := k.Half()
	out := raster.New(h, w)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum T
			for i := 0; i < k.size; i++ {
				for j := 0; j < k.size; j++ {
					sum += k.At(i, j) * T(src.AtReflected(y+i-a, x+j-a))
				}
			}
			out.Set(y, x, raster.Clamp(sum/k.divisor))
		}
	}
	return out, nil
}

// ConvolveSliding applies k using a pre-expanded copy of src. For each output
// row it keeps one slice per kernel row and advances them together across the
// row, so no tap needs a reflection lookup.
func ConvolveSliding[T raster.Number](src *raster.Buffer, k *Kernel[T]) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	h, w := src.Height(), src.Width()
	a := k.Half()
	ex, err := src.Expand(a)
	if err != nil {
		return raster.Empty(), err
	}
	out := raster.New(h, w)

	stride := ex.Width()
	pix := ex.Pix()
	rows := make([][]uint8, k.size)
	for y := 0; y < h; y++ {
		for i := range rows {
			off := (y + i) * stride
			rows[i] = pix[off : off+stride]
		}
		dst := out.Row(y)
		for x := 0; x < w; x++ {
			var sum T
			for i, row := range rows {
				window := row[x : x+k.size]
				weights := k.weights[i*k.size : (i+1)*k.size]
				for j, v := range window {
					sum += weights[j] * T(v)
				}
			}
			dst[x] = raster.Clamp(sum / k.divisor)
		}
	}
	return out, nil
}

// ConvolveRaw returns the unscaled weighted sums for every pixel in row-major
// order. Gradient operators need the signed sums before any clamping.
func ConvolveRaw[T raster.Number](src *raster.Buffer, k *Kernel[T]) ([]T, error) {
	if src.IsEmpty() {
		return nil, raster.ErrEmptyBuffer
	}
	h, w := src.Height(), src.Width()
	a := k.Half()
	out := make([]T, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum T
			for i := 0; i < k.size; i++ {
				for j := 0; j < k.size; j++ {
					sum += k.At(i, j) * T(src.AtReflected(y+i-a, x+j-a))
				}
			}
			out[y*w+x] = sum
		}
	}
	return out, nil
}
