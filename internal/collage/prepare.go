package collage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lehigh-university-libraries/contactsheet/internal/bars"
)

// Prepared is one source image rendered into a finished cell.
type Prepared struct {
	Cell        *image.NRGBA
	Original    image.Point // source size before any cropping
	Orientation Orientation // classified after bar removal
	Trimmed     int         // rows removed by bar removal
	Rotated     bool
	Scaled      image.Point // image size inside the cell
}

// Prepare runs the per-image pipeline: optional bar removal, upright
// rotation of landscapes, a Lanczos fit into the padded cell area, and
// centring on a white cell of exactly the layout's cell size.
func Prepare(img image.Image, l Layout) Prepared {
	p := Prepared{Original: img.Bounds().Size()}

	if l.RemoveBars {
		res := bars.Remove(img, l.BarThreshold)
		if res.Cropped(p.Original.Y) {
			img = res.Image
			p.Trimmed = res.Trimmed(p.Original.Y)
		}
	}

	img, p.Orientation = Orient(img)
	p.Rotated = p.Orientation == Landscape

	avail := l.Available()
	scaled := imaging.Fit(img, avail.X, avail.Y, imaging.Lanczos)
	p.Scaled = scaled.Bounds().Size()

	cell := imaging.New(l.CellWidth, l.CellHeight, color.White)
	offset := image.Pt((l.CellWidth-p.Scaled.X)/2, (l.CellHeight-p.Scaled.Y)/2)
	p.Cell = imaging.Overlay(cell, scaled, offset, 1.0)

	return p
}
