// Package moments computes image moments and the seven Hu invariants over a
// rectangular sub-region of a grayscale buffer.
//
// Moments are binary: every pixel brighter than 0 contributes kx^p * ky^q,
// where kx and ky are offsets from the region origin. Only pixels with
// kx > 0 and ky > 0 are counted, so the first row and column of the region
// never contribute. Central moments use the same pixel set, measured from
// the centroid.
package moments

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// ErrRegion is returned for inverted or out-of-bounds regions.
var ErrRegion = errors.New("moments: invalid region")

// HuMoments holds the seven invariants in slots 1-7. Slot 0 is always 0.
type HuMoments [8]float64

// Calculator evaluates moments over [xStart,xEnd] x [yStart,yEnd] (inclusive,
// x = column, y = row).
type Calculator struct {
	buf            *raster.Buffer
	xStart, xEnd   int
	yStart, yEnd   int
	centroidX      float64
	centroidY      float64
	centroidLoaded bool
}

// New validates the region and returns a calculator for it.
func New(b *raster.Buffer, xStart, xEnd, yStart, yEnd int) (*Calculator, error) {
	if b.IsEmpty() {
		return nil, raster.ErrEmptyBuffer
	}
	if xStart > xEnd || yStart > yEnd {
		return nil, fmt.Errorf("%w: inverted (%d..%d, %d..%d)", ErrRegion, xStart, xEnd, yStart, yEnd)
	}
	if xStart < 0 || yStart < 0 || xEnd >= b.Width() || yEnd >= b.Height() {
		return nil, fmt.Errorf("%w: (%d..%d, %d..%d) outside %dx%d", ErrRegion, xStart, xEnd, yStart, yEnd, b.Width(), b.Height())
	}
	return &Calculator{buf: b, xStart: xStart, xEnd: xEnd, yStart: yStart, yEnd: yEnd}, nil
}

// each calls fn with the origin-relative offsets of every counted pixel.
func (c *Calculator) each(fn func(kx, ky float64)) {
	for y := c.yStart; y <= c.yEnd; y++ {
		ky := y - c.yStart
		if ky <= 0 {
			continue
		}
		row := c.buf.Row(y)
		for x := c.xStart; x <= c.xEnd; x++ {
			kx := x - c.xStart
			if kx <= 0 || row[x] == 0 {
				continue
			}
			fn(float64(kx), float64(ky))
		}
	}
}

// Moment returns the regular moment M(p,q).
func (c *Calculator) Moment(p, q int) float64 {
	var m float64
	c.each(func(kx, ky float64) {
		m += math.Pow(kx, float64(p)) * math.Pow(ky, float64(q))
	})
	return m
}

// Centroid returns (M10/M00, M01/M00), or (0,0) when M00 is 0.
func (c *Calculator) Centroid() (float64, float64) {
	if !c.centroidLoaded {
		m00 := c.Moment(0, 0)
		if m00 != 0 {
			c.centroidX = c.Moment(1, 0) / m00
			c.centroidY = c.Moment(0, 1) / m00
		}
		c.centroidLoaded = true
	}
	return c.centroidX, c.centroidY
}

// Central returns the central moment Mu(p,q).
func (c *Calculator) Central(p, q int) float64 {
	cx, cy := c.Centroid()
	var mu float64
	c.each(func(kx, ky float64) {
		mu += math.Pow(kx-cx, float64(p)) * math.Pow(ky-cy, float64(q))
	})
	return mu
}

// Normalized returns Nu(p,q) = Mu(p,q) / Mu00^((p+q+2)/2), or 0 when Mu00 is 0.
func (c *Calculator) Normalized(p, q int) float64 {
	mu00 := c.Central(0, 0)
	if mu00 == 0 {
		return 0
	}
	return c.Central(p, q) / math.Pow(mu00, float64(p+q+2)/2)
}

// Hu returns the seven invariant moments.
func (c *Calculator) Hu() HuMoments {
	n20 := c.Normalized(2, 0)
	n02 := c.Normalized(0, 2)
	n11 := c.Normalized(1, 1)
	n30 := c.Normalized(3, 0)
	n03 := c.Normalized(0, 3)
	n12 := c.Normalized(1, 2)
	n21 := c.Normalized(2, 1)

	a := n30 + n12
	b := n21 + n03

	var h HuMoments
	h[1] = n20 + n02
	h[2] = (n20-n02)*(n20-n02) + 4*n11*n11
	h[3] = (n30-3*n12)*(n30-3*n12) + (3*n21-n03)*(3*n21-n03)
	h[4] = a*a + b*b
	h[5] = (n30-3*n12)*a*(a*a-3*b*b) + (3*n21-n03)*b*(3*a*a-b*b)
	h[6] = (n20-n02)*(a*a-b*b) + 4*n11*a*b
	h[7] = (3*n21-n03)*a*(a*a-3*b*b) - (n30-3*n12)*b*(3*a*a-b*b)
	return h
}

// Compute is a convenience wrapper returning the invariants of a region.
// Invalid regions yield zeroed moments together with the error.
func Compute(b *raster.Buffer, xStart, xEnd, yStart, yEnd int) (HuMoments, error) {
	c, err := New(b, xStart, xEnd, yStart, yEnd)
	if err != nil {
		return HuMoments{}, err
	}
	return c.Hu(), nil
}
