package collage

import (
	"image"

	"github.com/disintegration/imaging"
)

// Orientation classifies an image by comparing its width and height.
type Orientation int

const (
	Square Orientation = iota
	Portrait
	Landscape
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	default:
		return "square"
	}
}

// Classify returns the orientation of a w×h image.
func Classify(w, h int) Orientation {
	switch {
	case h > w:
		return Portrait
	case w > h:
		return Landscape
	default:
		return Square
	}
}

// Orient turns landscape images upright by rotating them 90° clockwise; the
// result is sized to the rotated content. Portrait and square images are
// returned as is.
func Orient(img image.Image) (image.Image, Orientation) {
	size := img.Bounds().Size()
	o := Classify(size.X, size.Y)
	if o == Landscape {
		return imaging.Rotate270(img), o
	}
	return img, o
}
