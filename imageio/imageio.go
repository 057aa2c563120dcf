// Package imageio opens, transforms and saves the images the pager works on.
// Decoding applies EXIF orientation before dimensions are reported.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

var ErrUnknownFilter = errors.New("unknown resample filter")

// Image is a decoded, correctly oriented image.
type Image struct {
	Path   string
	Format imaging.Format
	Width  int
	Height int
	// Orientation is the stored EXIF orientation, 1 when there is none.
	// Anything else means Pixels differ from the raw file.
	Orientation int
	Pixels      image.Image
}

// Rotated reports whether the pixels were changed by EXIF orientation.
func (i *Image) Rotated() bool {
	return i.Orientation > 1
}

type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Decoder opens images. FileDecoder is the real implementation.
type Decoder interface {
	Open(path string) (*Image, error)
}

type FileDecoder struct{}

func (FileDecoder) Open(path string) (*Image, error) {
	return Open(path)
}

// Open decodes path and applies its EXIF orientation.
func Open(path string) (*Image, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	pixels, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	bounds := pixels.Bounds()
	return &Image{
		Path:        path,
		Format:      format,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Orientation: orientation(path),
		Pixels:      pixels,
	}, nil
}

// orientation returns the EXIF orientation tag of path, 1 if it has none or
// it cannot be read.
func orientation(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 1
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// SaveOptions control how Save encodes.
type SaveOptions struct {
	JPEGQuality int
}

// Save writes img to path, picking the format from the extension. Parent
// directories are created. JPEG output is made fully opaque first.
func Save(img image.Image, path string, opts SaveOptions) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	var encodeOpts []imaging.EncodeOption
	if format == imaging.JPEG {
		img = Opaque(img)
		if opts.JPEGQuality > 0 {
			encodeOpts = append(encodeOpts, imaging.JPEGQuality(opts.JPEGQuality))
		}
	}
	if err = imaging.Save(img, path, encodeOpts...); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

// Opaque returns a copy of img with every alpha value set to 255. Color
// channels are kept as stored, so transparent areas show their underlying
// color instead of turning black.
func Opaque(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

var filters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"bicubic":    imaging.CatmullRom,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

// Filter looks up a resample filter by name.
func Filter(name string) (imaging.ResampleFilter, error) {
	if f, ok := filters[strings.ToLower(name)]; ok {
		return f, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}
