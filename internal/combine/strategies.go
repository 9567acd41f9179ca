package combine

import (
	"math"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
	"github.com/ironsheep/gray-fusion-mcp/internal/statistics"
)

// localEntropyAperture is the half-width of the local entropy window.
const localEntropyAperture = 2

// InformativePriority copies the base image and, for every other image,
// adds that image's deviation from its own integer mean A. The residual dA,
// the mean of (pixel - A), is non-zero because A is truncated and is
// subtracted as well:
//
//	acc = clamp(acc + (proj - A) - dA)
func (c *Combiner) InformativePriority(opts Options) (*raster.Buffer, error) {
	images, err := c.prepare(opts)
	if err != nil {
		return raster.Empty(), err
	}

	acc := images[0].Clone()
	n := acc.Len()
	for _, proj := range images[1:] {
		sum := 0
		for _, v := range proj.Pix() {
			sum += int(v)
		}
		a := sum / n
		dA := float64(sum-a*n) / float64(n)

		accPix := acc.Pix()
		for i, v := range proj.Pix() {
			shifted := float64(accPix[i]) + float64(int(v)-a) - dA
			accPix[i] = raster.Clamp(math.Round(shifted))
		}
	}
	return acc, nil
}

// LocalEntropy picks every output pixel from the source image whose
// neighborhood has the strictly largest local entropy. Ties keep the
// earliest image in fusion order.
func (c *Combiner) LocalEntropy(opts Options) (*raster.Buffer, error) {
	images, err := c.prepare(opts)
	if err != nil {
		return raster.Empty(), err
	}

	h, w := images[0].Height(), images[0].Width()
	out := raster.New(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := 0
			bestEntropy := -1.0
			for i, img := range images {
				e, err := statistics.LocalEntropy(img, y, x, localEntropyAperture)
				if err != nil {
					return raster.Empty(), err
				}
				if e > bestEntropy {
					best, bestEntropy = i, e
				}
			}
			out.Set(y, x, images[best].At(y, x))
		}
	}
	return out, nil
}

// DifferencesAdding blends exactly two images by their absolute difference D.
// With k1 = (Dmax+3Dmin)/1020 and k2 = (3Dmax+Dmin)/1020, the band
// [b1, b2] = Dmin + [k1, k2]*(Dmax-Dmin) separates pixels taken from the
// first image (D <= b1), from the second image (D >= b2) and a linear blend
// in between.
func (c *Combiner) DifferencesAdding(opts Options) (*raster.Buffer, error) {
	images, err := c.preparePair(opts)
	if err != nil {
		return raster.Empty(), err
	}
	first, second := images[0], images[1]

	diff, err := raster.AbsDiff(first, second)
	if err != nil {
		return raster.Empty(), err
	}
	dMin, dMax, err := statistics.MinMax(diff)
	if err != nil {
		return raster.Empty(), err
	}

	lo, hi := float64(dMin), float64(dMax)
	k1 := (hi + 3*lo) / 1020
	k2 := (3*hi + lo) / 1020
	b1 := lo + k1*(hi-lo)
	b2 := lo + k2*(hi-lo)
	db := b2 - b1

	out := raster.New(first.Height(), first.Width())
	p1, p2, pd := first.Pix(), second.Pix(), diff.Pix()
	for i := range out.Pix() {
		d := float64(pd[i])
		switch {
		case d <= b1:
			out.Pix()[i] = p1[i]
		case d >= b2:
			out.Pix()[i] = p2[i]
		default:
			v1, v2 := float64(p1[i]), float64(p2[i])
			out.Pix()[i] = raster.Clamp(math.Round(v1 + (b1-d)*(v1-v2)/db))
		}
	}
	return out, nil
}

// Difference returns the per-pixel absolute difference of exactly two images.
func (c *Combiner) Difference(opts Options) (*raster.Buffer, error) {
	images, err := c.preparePair(opts)
	if err != nil {
		return raster.Empty(), err
	}
	return raster.AbsDiff(images[0], images[1])
}
