package imageio

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeImage(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	if err := Save(imaging.New(w, h, c), path, SaveOptions{}); err != nil {
		t.Fatal(err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.jpg", "c.JPEG"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			writeImage(t, path, 30, 20, color.NRGBA{R: 200, A: 255})
			img, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if img.Width != 30 || img.Height != 20 {
				t.Errorf("size = %dx%d, want 30x20", img.Width, img.Height)
			}
			if img.Rotated() {
				t.Errorf("image without EXIF reported as rotated")
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(broken, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		path string
	}{
		{"corrupt", broken},
		{"missing", filepath.Join(dir, "missing.png")},
		{"unsupported", filepath.Join(dir, "x.txt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Open = %v, want DecodeError", err)
			}
			if decodeErr.Path != tt.path {
				t.Errorf("Path = %s, want %s", decodeErr.Path, tt.path)
			}
		})
	}
}

func TestSave_JPEGIsOpaque(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jpg")
	src := imaging.New(8, 8, color.NRGBA{R: 10, G: 250, B: 10, A: 0})
	if err := Save(src, path, SaveOptions{JPEGQuality: 95}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	img, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := img.Pixels.At(4, 4).RGBA()
	if a != 0xffff {
		t.Errorf("alpha = %#x, want opaque", a)
	}
	// transparent pixels keep their color rather than going black
	if g>>8 < 200 || r>>8 > 60 || b>>8 > 60 {
		t.Errorf("color = %d,%d,%d, want green", r>>8, g>>8, b>>8)
	}
}

func TestSave_UnknownExtension(t *testing.T) {
	err := Save(imaging.New(1, 1, color.Black), filepath.Join(t.TempDir(), "out.xyz"), SaveOptions{})
	var encodeErr *EncodeError
	if !errors.As(err, &encodeErr) {
		t.Errorf("Save = %v, want EncodeError", err)
	}
}

func TestOpaque(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Pix = []uint8{1, 2, 3, 0, 4, 5, 6, 128}
	got := Opaque(src)
	want := []uint8{1, 2, 3, 255, 4, 5, 6, 255}
	for i := range want {
		if got.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", got.Pix, want)
		}
	}
	if src.Pix[3] != 0 {
		t.Error("Opaque modified its input")
	}
}

func TestFilter(t *testing.T) {
	if _, err := Filter("Lanczos"); err != nil {
		t.Errorf("Filter(Lanczos): %v", err)
	}
	if _, err := Filter("sharp"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("Filter(sharp) = %v, want ErrUnknownFilter", err)
	}
}
