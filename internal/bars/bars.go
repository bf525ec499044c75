package bars

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultThreshold is the mean row brightness (0-255) a row must exceed to
// count as picture content rather than letterbox.
const DefaultThreshold = 30.0

// Result holds a bar-removal outcome. TopRow and BottomRow are inclusive row
// indexes into the source image.
type Result struct {
	Image     image.Image
	TopRow    int
	BottomRow int
}

// Trimmed returns how many rows were removed from a source of the given height.
func (r Result) Trimmed(height int) int {
	return r.TopRow + (height - 1 - r.BottomRow)
}

// Cropped reports whether the bounds differ from the full image.
func (r Result) Cropped(height int) bool {
	return r.TopRow > 0 || r.BottomRow < height-1
}

// Remove trims uniform near-black rows from the top and bottom of img.
// The image is cropped only when the last bright row lies strictly below the
// first one and some rows are actually removed; otherwise img is returned
// untouched with full-height bounds.
func Remove(img image.Image, threshold float64) Result {
	b := img.Bounds()
	height := b.Dy()
	if height == 0 {
		return Result{Image: img}
	}

	profile := RowBrightness(img)

	top := 0
	for i, v := range profile {
		if v > threshold {
			top = i
			break
		}
	}

	bottom := height - 1
	for i := height - 1; i >= 0; i-- {
		if profile[i] > threshold {
			bottom = i
			break
		}
	}

	if bottom > top && (top > 0 || bottom < height-1) {
		rect := image.Rect(b.Min.X, b.Min.Y+top, b.Max.X, b.Min.Y+bottom+1)
		return Result{
			Image:     imaging.Crop(img, rect),
			TopRow:    top,
			BottomRow: bottom,
		}
	}

	return Result{Image: img, TopRow: 0, BottomRow: height - 1}
}

// RowBrightness returns the mean intensity of every row on a 0-255 scale.
// Colour images average R, G and B across the row; grayscale images average
// the single channel.
func RowBrightness(img image.Image) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	profile := make([]float64, h)
	if w == 0 {
		return profile
	}

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			var sum uint64
			for _, p := range src.Pix[off : off+w] {
				sum += uint64(p)
			}
			profile[y] = float64(sum) / float64(w)
		}
	case *image.Gray16:
		for y := 0; y < h; y++ {
			var sum uint64
			for x := 0; x < w; x++ {
				sum += uint64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
			profile[y] = float64(sum) / float64(w)
		}
	default:
		nrgba := imaging.Clone(img)
		for y := 0; y < h; y++ {
			row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
			var sum uint64
			for i := 0; i < len(row); i += 4 {
				sum += uint64(row[i]) + uint64(row[i+1]) + uint64(row[i+2])
			}
			profile[y] = float64(sum) / float64(w*3)
		}
	}

	return profile
}
