package edge

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/gray-fusion-mcp/internal/convolution"
	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// ErrDirection is returned if a gradient direction falls outside the four
// quantized angles. It indicates a bug in quantization.
var ErrDirection = errors.New("edge: gradient direction out of range")

// maxCloser caps the number of confirmed-edge contacts an ambiguous group may
// have and still be promoted.
const maxCloser = 50

// Angle is a gradient direction quantized to 0, 45, 90 or 135 degrees.
type Angle int

const (
	Angle0   Angle = 0
	Angle45  Angle = 45
	Angle90  Angle = 90
	Angle135 Angle = 135
)

// Gradient is the per-pixel edge strength and quantized direction.
type Gradient struct {
	Magnitude uint8
	Direction Angle
}

// Thresholds are the double-threshold bounds used by Canny.
//
// Suppressed magnitudes above Max are confirmed edges, below Min are
// discarded, and anything in between is ambiguous until resolved by
// connectivity.
type Thresholds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultThresholds are the thresholds used when the caller has no preference.
var DefaultThresholds = Thresholds{Min: 20, Max: 90}

var cannyBlur = convolution.MustKernel(5, []int{
	2, 4, 5, 4, 2,
	4, 9, 12, 9, 4,
	5, 12, 15, 12, 5,
	4, 9, 12, 9, 4,
	2, 4, 5, 4, 2,
}, 159)

// Canny performs Canny edge detection on a grayscale buffer.
//
// Parameters:
//   - src: Source buffer. Must not be empty.
//   - th: Double-threshold bounds. Use DefaultThresholds for {20, 90}.
//
// Returns:
//   - *raster.Buffer: Binary edge map, 255 on edges and 0 elsewhere.
//   - error: raster.ErrEmptyBuffer for empty input, ErrDirection if
//     quantization produced an unknown angle.
//
// # Algorithm
//
//  1. Gaussian blur: fixed 5x5 kernel, divisor 159
//
//  2. Gradient computation: Sobel operators for horizontal (h) and vertical
//     (v) components, magnitude = round(hypot(h, v)) clamped to a byte
//
//  3. Direction quantization with b = |v/h| (b = 10 when h = 0):
//     b < 0.414 -> 0, b > 2.414 -> 90, otherwise 45 when h and v share a
//     sign and 135 when they don't
//
//  4. Non-maximum suppression: a pixel is zeroed when any of the two
//     neighbors at distance 1 or the two at distance 2 along its gradient
//     direction is stronger. Neighbors outside the image are skipped.
//
//  5. Double threshold: > Max -> 255, < Min -> 0, otherwise unchanged
//
//  6. Ambiguity resolution in raster order. Each ambiguous pixel seeds an
//     8-connected flood fill that absorbs (and zeroes) ambiguous neighbors
//     and counts every confirmed neighbor it touches. Groups touching between
//     1 and 49 confirmed pixels are promoted to 255.
func Canny(src *raster.Buffer, th Thresholds) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	h, w := src.Height(), src.Width()

	blurred, err := convolution.ConvolveSliding(src, cannyBlur)
	if err != nil {
		return raster.Empty(), fmt.Errorf("canny blur: %w", err)
	}

	grads, err := gradients(blurred)
	if err != nil {
		return raster.Empty(), err
	}

	suppressed, err := nonMaxSuppression(grads, h, w)
	if err != nil {
		return raster.Empty(), err
	}

	out := raster.New(h, w)
	pix := out.Pix()
	for i, m := range suppressed {
		switch {
		case int(m) > th.Max:
			pix[i] = 255
		case int(m) < th.Min:
			pix[i] = 0
		default:
			pix[i] = m
		}
	}

	resolveAmbiguous(out)
	return out, nil
}

// gradients computes magnitude and quantized direction for every pixel.
func gradients(b *raster.Buffer) ([]Gradient, error) {
	gx, err := convolution.ConvolveRaw(b, sobelH)
	if err != nil {
		return nil, err
	}
	gy, err := convolution.ConvolveRaw(b, sobelV)
	if err != nil {
		return nil, err
	}

	grads := make([]Gradient, len(gx))
	for i := range gx {
		h, v := gx[i], gy[i]
		grads[i] = Gradient{
			Magnitude: raster.Clamp(math.Round(math.Hypot(float64(h), float64(v)))),
			Direction: quantize(h, v),
		}
	}
	return grads, nil
}

// quantize maps gradient components onto one of the four angles.
func quantize(h, v int) Angle {
	b := 10.0
	if h != 0 {
		b = math.Abs(float64(v) / float64(h))
	}
	switch {
	case b < 0.414:
		return Angle0
	case b > 2.414:
		return Angle90
	case (h > 0) == (v > 0):
		return Angle45
	default:
		return Angle135
	}
}

// neighborOffsets returns the (row, col) step along the gradient for each
// quantized direction. Rows grow downward, matching the vertical kernel.
func neighborOffsets(a Angle) (dr, dc int, err error) {
	switch a {
	case Angle0:
		return 0, 1, nil
	case Angle45:
		return 1, 1, nil
	case Angle90:
		return 1, 0, nil
	case Angle135:
		return 1, -1, nil
	}
	return 0, 0, fmt.Errorf("%w: %d", ErrDirection, a)
}

// nonMaxSuppression zeroes every pixel that is weaker than any of the four
// neighbors at distance 1 and 2 along its gradient. Comparisons use the
// original magnitudes, and neighbors beyond the border are not considered.
func nonMaxSuppression(grads []Gradient, h, w int) ([]uint8, error) {
	out := make([]uint8, len(grads))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := grads[y*w+x]
			dr, dc, err := neighborOffsets(g.Direction)
			if err != nil {
				return nil, err
			}

			keep := true
			for _, k := range [4]int{-2, -1, 1, 2} {
				ny, nx := y+k*dr, x+k*dc
				if ny < 0 || ny >= h || nx < 0 || nx >= w {
					continue
				}
				if g.Magnitude < grads[ny*w+nx].Magnitude {
					keep = false
					break
				}
			}
			if keep {
				out[y*w+x] = g.Magnitude
			}
		}
	}
	return out, nil
}

type point struct{ row, col int }

// resolveAmbiguous promotes or discards every pixel strictly between 0 and
// 255 in place.
func resolveAmbiguous(b *raster.Buffer) {
	h, w := b.Height(), b.Width()
	pix := b.Pix()

	var group, stack []point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := pix[y*w+x]
			if v == 0 || v == 255 {
				continue
			}

			group = group[:0]
			stack = append(stack[:0], point{y, x})
			pix[y*w+x] = 0
			closer := 0

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				group = append(group, p)

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dy == 0 && dx == 0 {
							continue
						}
						ny, nx := p.row+dy, p.col+dx
						if ny < 0 || ny >= h || nx < 0 || nx >= w {
							continue
						}
						switch nv := pix[ny*w+nx]; {
						case nv == 255:
							closer++
						case nv > 0:
							pix[ny*w+nx] = 0
							stack = append(stack, point{ny, nx})
						}
					}
				}
			}

			if closer > 0 && closer < maxCloser {
				for _, p := range group {
					pix[p.row*w+p.col] = 255
				}
			}
		}
	}
}
