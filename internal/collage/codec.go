package collage

import (
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decoder loads one image file.
type Decoder func(path string) (image.Image, error)

// FileDecoder decodes jpg, png, gif, bmp and webp files, optionally applying
// the EXIF orientation tag.
func FileDecoder(autoOrient bool) Decoder {
	return func(path string) (image.Image, error) {
		img, err := imaging.Open(path, imaging.AutoOrientation(autoOrient))
		if err != nil {
			return nil, err
		}
		return img, nil
	}
}

// DecodeConfig reads only the header of an image file.
func DecodeConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()

	return image.DecodeConfig(f)
}

// CaptureTime returns the EXIF DateTimeOriginal of a photo, if it has one.
func CaptureTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}

// Encode writes img as a JPEG.
func Encode(w io.Writer, img image.Image, quality int) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

// Save writes img as a JPEG file at path.
func Save(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Encode(f, img, quality); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode collage: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
