package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Mode selects how color pixels are reduced to a single 8-bit channel.
type Mode int

const (
	// ModeAverage takes the truncated mean (r+g+b)/3 of the 8-bit channels.
	ModeAverage Mode = iota
	// ModeLuminance takes the CIE L* lightness scaled to 0..255.
	ModeLuminance
)

// ParseMode maps a mode name to a Mode. The empty string selects ModeAverage.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "average":
		return ModeAverage, nil
	case "luminance":
		return ModeLuminance, nil
	default:
		return ModeAverage, fmt.Errorf("unknown grayscale mode: %s", s)
	}
}

func (m Mode) String() string {
	if m == ModeLuminance {
		return "luminance"
	}
	return "average"
}

// ToBuffer converts a decoded image of any color model into a grayscale
// buffer. The image is first normalized to non-premultiplied 8-bit RGBA; alpha
// is dropped.
func ToBuffer(img image.Image, mode Mode) (*raster.Buffer, error) {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return raster.Empty(), raster.ErrEmptyBuffer
	}

	if mode == ModeLuminance {
		out := raster.New(h, w)
		for y := 0; y < h; y++ {
			row := out.Row(y)
			for x := 0; x < w; x++ {
				c := src.NRGBAAt(x, y)
				c.A = 0xff
				cf, _ := colorful.MakeColor(c)
				l, _, _ := cf.Lab()
				row[x] = raster.Clamp(math.Round(l * 255))
			}
		}
		return out, nil
	}

	rgb := make([]uint8, 0, w*h*3)
	for y := 0; y < h; y++ {
		line := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < len(line); x += 4 {
			rgb = append(rgb, line[x], line[x+1], line[x+2])
		}
	}
	return raster.FromRGB(rgb, h, w)
}

// ToImage wraps a copy of the buffer's pixels in an *image.Gray.
func ToImage(b *raster.Buffer) *image.Gray {
	if b.IsEmpty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	img := image.NewGray(image.Rect(0, 0, b.Width(), b.Height()))
	for y := 0; y < b.Height(); y++ {
		copy(img.Pix[y*img.Stride:], b.Row(y))
	}
	return img
}

// Resize scales a buffer to width x height with Lanczos resampling.
func Resize(b *raster.Buffer, width, height int) (*raster.Buffer, error) {
	if b.IsEmpty() {
		return raster.Empty(), raster.ErrEmptyBuffer
	}
	if width <= 0 || height <= 0 {
		return raster.Empty(), fmt.Errorf("%w: %dx%d", raster.ErrInvalidDimensions, width, height)
	}
	if width == b.Width() && height == b.Height() {
		return b.Clone(), nil
	}
	resized := imaging.Resize(ToImage(b), width, height, imaging.Lanczos)
	// Resampling gray input keeps r == g == b, so average mode is exact.
	return ToBuffer(resized, ModeAverage)
}
