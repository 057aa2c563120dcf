package imageio

import (
	"errors"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/kr/pretty"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		values  []int
		want    Size
		wantErr bool
	}{
		{[]int{50}, Size{Percent: 50}, false},
		{[]int{1920, 1080}, Size{Width: 1920, Height: 1080}, false},
		{[]int{150}, Size{Percent: 150}, false},
		{nil, Size{}, true},
		{[]int{0}, Size{}, true},
		{[]int{-5}, Size{}, true},
		{[]int{100, 0}, Size{}, true},
		{[]int{1, 2, 3}, Size{}, true},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.values)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("ParseSize(%v) = %v, want ErrInvalidSize", tt.values, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%v): %v", tt.values, err)
			continue
		}
		if diff := pretty.Diff(got, tt.want); len(diff) > 0 {
			t.Errorf("ParseSize(%v): %v", tt.values, diff)
		}
	}
}

func TestSizeApply(t *testing.T) {
	tests := []struct {
		size    Size
		w, h    int
		wantW   int
		wantH   int
		wantErr bool
	}{
		{Size{Percent: 50}, 1000, 1501, 500, 750, false},
		{Size{Percent: 33}, 100, 10, 33, 3, false},
		{Size{Width: 300, Height: 400}, 1000, 1000, 300, 400, false},
		{Size{Percent: 1}, 50, 50, 0, 0, true},
	}
	for _, tt := range tests {
		w, h, err := tt.size.Apply(tt.w, tt.h)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("%v.Apply(%d, %d) = %v, want ErrInvalidSize", tt.size, tt.w, tt.h, err)
			}
			continue
		}
		if err != nil || w != tt.wantW || h != tt.wantH {
			t.Errorf("%v.Apply(%d, %d) = %d, %d, %v, want %d, %d", tt.size, tt.w, tt.h, w, h, err, tt.wantW, tt.wantH)
		}
	}
}

func TestSizeString(t *testing.T) {
	if s := (Size{Percent: 50}).String(); s != "50%" {
		t.Errorf("String() = %s", s)
	}
	if s := (Size{Width: 2, Height: 3}).String(); s != "2x3" {
		t.Errorf("String() = %s", s)
	}
}

func TestScale(t *testing.T) {
	src := imaging.New(200, 100, color.White)
	out, err := Scale(src, Size{Percent: 50}, imaging.CatmullRom)
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("Scale = %v, want 100x50", b)
	}
	out, err = Scale(src, Size{Width: 40, Height: 40}, imaging.Lanczos)
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("Scale = %v, want 40x40", b)
	}
}

func TestCrop(t *testing.T) {
	src := imaging.New(200, 100, color.White)
	src.Set(0, 0, color.Black)

	out, err := Crop(src, Size{Width: 50, Height: 30})
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 50 || b.Dy() != 30 {
		t.Errorf("Crop = %v, want 50x30", b)
	}
	if r, _, _, _ := out.At(0, 0).RGBA(); r != 0 {
		t.Error("crop is not anchored at the top left corner")
	}

	out, err = Crop(src, Size{Width: 500, Height: 500})
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("oversized crop = %v, want clipped to 200x100", b)
	}
}
