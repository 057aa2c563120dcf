package imageio

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

var ErrInvalidSize = errors.New("invalid size")

// Size is either a percentage of the source or a fixed resolution.
// Percent is used when it is non-zero.
type Size struct {
	Percent int
	Width   int
	Height  int
}

// ParseSize turns the numbers given on the command line into a Size: one
// value is a percentage, two are a width and height.
func ParseSize(values []int) (Size, error) {
	switch len(values) {
	case 1:
		if values[0] <= 0 {
			return Size{}, fmt.Errorf("%w: percentage must be positive, got %d", ErrInvalidSize, values[0])
		}
		return Size{Percent: values[0]}, nil
	case 2:
		if values[0] <= 0 || values[1] <= 0 {
			return Size{}, fmt.Errorf("%w: resolution must be positive, got %dx%d", ErrInvalidSize, values[0], values[1])
		}
		return Size{Width: values[0], Height: values[1]}, nil
	default:
		return Size{}, fmt.Errorf("%w: expected a percentage or a width and height, got %d values", ErrInvalidSize, len(values))
	}
}

func (s Size) String() string {
	if s.Percent != 0 {
		return fmt.Sprintf("%d%%", s.Percent)
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Apply returns the target dimensions for a width x height source.
// Percentages truncate toward zero.
func (s Size) Apply(width, height int) (int, int, error) {
	w, h := s.Width, s.Height
	if s.Percent != 0 {
		w = width * s.Percent / 100
		h = height * s.Percent / 100
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("%w: %v of %dx%d is %dx%d", ErrInvalidSize, s, width, height, w, h)
	}
	return w, h, nil
}

// Scale resizes img to size.
func Scale(img image.Image, size Size, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h, err := size.Apply(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, w, h, filter), nil
}

// Crop keeps the size-sized rectangle anchored at the top left corner of img.
// A rectangle larger than the image is clipped to it.
func Crop(img image.Image, size Size) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h, err := size.Apply(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Min.Y+h)), nil
}
