package combine

import (
	"image"

	"github.com/ironsheep/gray-fusion-mcp/internal/raster"
)

// Form is a connected set of pixels of one brightness band, stored as
// (x = column, y = row) points in discovery order.
type Form struct {
	points []image.Point
}

// Append adds a pixel to the form.
func (f *Form) Append(p image.Point) {
	f.points = append(f.points, p)
}

// Merge absorbs every pixel of other. other is left untouched.
func (f *Form) Merge(other *Form) {
	f.points = append(f.points, other.points...)
}

// Clear empties the form in place.
func (f *Form) Clear() {
	f.points = nil
}

// Len returns the number of pixels.
func (f *Form) Len() int { return len(f.points) }

// Points returns the pixels of the form.
func (f *Form) Points() []image.Point { return f.points }

// formArena owns the forms of one segmentation pass. Forms are addressed by
// index; a merged form is cleared and stays in place as a tombstone so that
// indices held by runs remain valid.
type formArena struct {
	forms []Form
}

func (a *formArena) add() int {
	a.forms = append(a.forms, Form{})
	return len(a.forms) - 1
}

// merge moves the pixels of src into dst and tombstones src.
func (a *formArena) merge(dst, src int) {
	a.forms[dst].Merge(&a.forms[src])
	a.forms[src].Clear()
}

// compact returns the non-empty forms.
func (a *formArena) compact() []Form {
	out := make([]Form, 0, len(a.forms))
	for _, f := range a.forms {
		if f.Len() > 0 {
			out = append(out, f)
		}
	}
	return out
}

// run is a maximal horizontal stretch of one band within a row.
type run struct {
	start, end int // inclusive columns
	form       int
}

func (r run) overlaps(o run) bool {
	return r.start <= o.end && o.start <= r.end
}

// bandStep returns the smallest step d for which 256/d < modes.
func bandStep(modes int) int {
	d := 1
	for 256/d >= modes {
		d++
	}
	return d
}

// segment extracts the connected regions of every brightness band of b.
func segment(b *raster.Buffer, modes int) []Form {
	step := bandStep(modes)
	bands := 255/step + 1
	h, w := b.Height(), b.Width()

	var all []Form
	for band := 0; band < bands; band++ {
		arena := &formArena{}
		var prev, cur []run

		for y := 0; y < h; y++ {
			cur = cur[:0]
			row := b.Row(y)
			for x := 0; x < w; {
				if int(row[x])/step != band {
					x++
					continue
				}
				start := x
				for x < w && int(row[x])/step == band {
					x++
				}
				r := run{start: start, end: x - 1, form: -1}

				for _, p := range prev {
					if !p.overlaps(r) {
						continue
					}
					switch {
					case r.form < 0:
						r.form = p.form
					case p.form != r.form:
						absorbed := p.form
						arena.merge(r.form, absorbed)
						relink(prev, absorbed, r.form)
						relink(cur, absorbed, r.form)
					}
				}
				if r.form < 0 {
					r.form = arena.add()
				}
				for cx := r.start; cx <= r.end; cx++ {
					arena.forms[r.form].Append(image.Point{X: cx, Y: y})
				}
				cur = append(cur, r)
			}
			prev, cur = cur, prev
		}
		all = append(all, arena.compact()...)
	}
	return all
}

// relink points every run referencing form from at form to instead.
func relink(runs []run, from, to int) {
	for i := range runs {
		if runs[i].form == from {
			runs[i].form = to
		}
	}
}

// project replaces every pixel of every form with the form's mean brightness
// on img.
func project(img *raster.Buffer, forms []Form) *raster.Buffer {
	out := raster.New(img.Height(), img.Width())
	for i := range forms {
		pts := forms[i].Points()
		sum := 0
		for _, p := range pts {
			sum += int(img.At(p.Y, p.X))
		}
		mean := uint8(sum / len(pts))
		for _, p := range pts {
			out.Set(p.Y, p.X, mean)
		}
	}
	return out
}

// Morphological segments the base image into Options.Modes brightness bands,
// projects every other image onto the resulting regions and fuses:
//
//	out = (base + sum_k |base - projection_k|) / numImages
func (c *Combiner) Morphological(opts Options) (*raster.Buffer, error) {
	images, err := c.prepare(opts)
	if err != nil {
		return raster.Empty(), err
	}
	modes := opts.Modes
	if modes <= 0 {
		modes = DefaultModes
	}

	base := images[0]
	forms := segment(base, modes)

	acc := make([]int, base.Len())
	for i, v := range base.Pix() {
		acc[i] = int(v)
	}
	for _, img := range images[1:] {
		proj := project(img, forms)
		pp := proj.Pix()
		for i, v := range base.Pix() {
			d := int(v) - int(pp[i])
			if d < 0 {
				d = -d
			}
			acc[i] += d
		}
	}

	out := raster.New(base.Height(), base.Width())
	for i, v := range acc {
		out.Pix()[i] = raster.Clamp(v / len(images))
	}
	return out, nil
}
