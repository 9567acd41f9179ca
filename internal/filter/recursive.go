package filter

import (
	"math"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// MinRecursiveSigma is the smallest sigma the recursive filter accepts.
const MinRecursiveSigma = 1.0

// recursiveCoefficients holds the third-order recursive filter derived from
// sigma with the Young & van Vliet polynomial fit.
type recursiveCoefficients struct {
	b0, b1, b2, b3 float64
	gain           float64
}

func newRecursiveCoefficients(sigma float64) recursiveCoefficients {
	var q float64
	if sigma >= 2.5 {
		q = 0.98711*sigma - 0.96330
	} else {
		q = 3.97156 - 4.14554*math.Sqrt(1-0.26891*sigma)
	}
	q2 := q * q
	q3 := q2 * q

	c := recursiveCoefficients{
		b0: 1.57825 + 2.44413*q + 1.4281*q2 + 0.422205*q3,
		b1: 2.44413*q + 2.85619*q2 + 1.26661*q3,
		b2: -(1.4281*q2 + 1.26661*q3),
		b3: 0.422205 * q3,
	}
	c.gain = 1 - (c.b1+c.b2+c.b3)/c.b0
	return c
}

// sweep runs the causal pass followed by the anti-causal pass over line in
// place. Each pass starts with its state primed by the first sample it sees.
func (c recursiveCoefficients) sweep(line []float64) {
	n := len(line)
	if n == 0 {
		return
	}

	p1, p2, p3 := line[0], line[0], line[0]
	for i := 0; i < n; i++ {
		v := c.gain*line[i] + (c.b1*p1+c.b2*p2+c.b3*p3)/c.b0
		p3, p2, p1 = p2, p1, v
		line[i] = v
	}

	p1, p2, p3 = line[n-1], line[n-1], line[n-1]
	for i := n - 1; i >= 0; i-- {
		v := c.gain*line[i] + (c.b1*p1+c.b2*p2+c.b3*p3)/c.b0
		p3, p2, p1 = p2, p1, v
		line[i] = v
	}
}

// RecursiveGaussian approximates a Gaussian blur of the given sigma with a
// cascaded IIR filter: forward and backward along each row, then forward and
// backward along each column. Sigmas below MinRecursiveSigma are rejected
// with FilterSizeTooSmall.
func RecursiveGaussian(src *raster.Buffer, sigma float64) (*raster.Buffer, error) {
	if src.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	if sigma < MinRecursiveSigma || math.IsNaN(sigma) {
		return raster.Empty(), FilterSizeTooSmall
	}

	h, w := src.Height(), src.Width()
	c := newRecursiveCoefficients(sigma)

	data := make([]float64, h*w)
	for i, v := range src.Pix() {
		data[i] = float64(v)
	}

	for y := 0; y < h; y++ {
		c.sweep(data[y*w : (y+1)*w])
	}

	column := make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			column[y] = data[y*w+x]
		}
		c.sweep(column)
		for y := 0; y < h; y++ {
			data[y*w+x] = column[y]
		}
	}

	out := raster.New(h, w)
	for i, v := range data {
		out.Pix()[i] = raster.Clamp(math.Round(v))
	}
	return out, nil
}
