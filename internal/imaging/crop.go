package imaging

import (
	"fmt"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Region is a rectangle with (X1,Y1) inclusive and (X2,Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns X2 - X1.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns Y2 - Y1.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Validate rejects empty or inverted regions. Regions may extend past the
// image; those pixels are synthesized by reflection.
func (r Region) Validate() error {
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region (%d,%d)-(%d,%d): x1 must be < x2, y1 must be < y2",
			r.X1, r.Y1, r.X2, r.Y2)
	}
	return nil
}

// NamedRegion resolves a quadrant or half name against a width x height image.
//
// Supported names: top-left, top-right, bottom-left, bottom-right, top-half,
// bottom-half, left-half, right-half and center (the middle 50%).
func NamedRegion(name string, width, height int) (Region, error) {
	midX, midY := width/2, height/2
	switch name {
	case "top-left":
		return Region{0, 0, midX, midY}, nil
	case "top-right":
		return Region{midX, 0, width, midY}, nil
	case "bottom-left":
		return Region{0, midY, midX, height}, nil
	case "bottom-right":
		return Region{midX, midY, width, height}, nil
	case "top-half":
		return Region{0, 0, width, midY}, nil
	case "bottom-half":
		return Region{0, midY, width, height}, nil
	case "left-half":
		return Region{0, 0, midX, height}, nil
	case "right-half":
		return Region{midX, 0, width, height}, nil
	case "center":
		qW, qH := width/4, height/4
		return Region{qW, qH, width - qW, height - qH}, nil
	default:
		return Region{}, fmt.Errorf("unknown region: %s", name)
	}
}

// Reachable reports whether every pixel of r lies within one reflection of a
// width x height image, that is inside [-width, 2*width) x [-height, 2*height).
func (r Region) Reachable(width, height int) bool {
	return r.X1 >= -width && r.Y1 >= -height && r.X2 <= 2*width && r.Y2 <= 2*height
}

// Extract returns the pixels of r as a new buffer.
func Extract(b *raster.Buffer, r Region) (*raster.Buffer, error) {
	if err := r.Validate(); err != nil {
		return raster.Empty(), err
	}
	if b.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	if !r.Reachable(b.Width(), b.Height()) {
		return raster.Empty(), fmt.Errorf("region (%d,%d)-(%d,%d) extends more than one image size past a %dx%d image",
			r.X1, r.Y1, r.X2, r.Y2, b.Width(), b.Height())
	}
	return b.Sub(r.Y1, r.X1, r.Height(), r.Width())
}

// Crop extracts r from b, optionally rescales it, and encodes the result.
// A scale of 0 or 1 keeps the native size.
func Crop(b *raster.Buffer, r Region, scale float64) (*EncodedImage, error) {
	cropped, err := Extract(b, r)
	if err != nil {
		return nil, err
	}

	if scale < 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", scale)
	}
	if scale != 0 && scale != 1.0 {
		w := max(1, int(float64(cropped.Width())*scale))
		h := max(1, int(float64(cropped.Height())*scale))
		if cropped, err = Resize(cropped, w, h); err != nil {
			return nil, err
		}
	}
	return Encode(cropped)
}
