// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package raster

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckRange(t *testing.T) {
	if err := CheckRange("contrast", 63, 0, 63); err != nil {
		t.Fatalf("CheckRange() = %v", err)
	}
	err := CheckRange("contrast", 64, 0, 63)
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("CheckRange() = %v, want *RangeError", err)
	}
	if diff := cmp.Diff(*re, RangeError{Param: "contrast", Value: 64, Min: 0, Max: 63}); diff != "" {
		t.Errorf("RangeError difference (-got +want):\n%s", diff)
	}
	if got, want := err.Error(), "raster: contrast 64 out of range [0, 63]"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWindow(t *testing.T) {
	src := make([]color.Color, 10*4)
	for _, tc := range []struct {
		name    string
		stride  int
		p, c    Area
		want    int
		wantErr bool
	}{
		{"aligned", 10, Area{0, 0, 9, 3}, Area{0, 0, 9, 3}, 0, false},
		{"left clipped", 10, Area{-3, 0, 6, 3}, Area{0, 0, 6, 3}, 3, false},
		{"top clipped", 10, Area{0, -2, 9, 3}, Area{0, 0, 9, 1}, 20, false},
		{"narrow stride", 4, Area{0, 0, 9, 3}, Area{0, 0, 9, 3}, 0, true},
		{"too many rows", 10, Area{0, 0, 9, 4}, Area{0, 0, 9, 4}, 0, true},
		{"far top", 4, Area{0, math.MinInt / 4, 3, 0}, Area{0, 0, 3, 0}, 0, true},
		{"far left", 10, Area{math.MinInt, 0, 3, 0}, Area{0, 0, 3, 0}, 0, true},
		{"huge stride", math.MaxInt / 2, Area{0, 0, 3, 2}, Area{0, 0, 3, 2}, 0, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Window(src, tc.stride, tc.p, tc.c)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Window() error = %v, wantErr %t", err, tc.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrShortSource) {
					t.Errorf("Window() error = %v, want ErrShortSource", err)
				}
				return
			}
			if got != tc.want {
				t.Errorf("Window() = %d, want %d", got, tc.want)
			}
		})
	}
}

// fakeDisplay records the calls it receives.
type fakeDisplay struct {
	area   Area
	fills  []color.Color
	src    []color.Color
	stride int
}

func (f *fakeDisplay) Init() error                { return nil }
func (f *fakeDisplay) SetArea(x1, y1, x2, y2 int) { f.area = Area{x1, y1, x2, y2} }
func (f *fakeDisplay) Fill(c color.Color) error   { f.fills = append(f.fills, c); return nil }
func (f *fakeDisplay) Map(src []color.Color, stride int) error {
	f.src, f.stride = src, stride
	return nil
}
func (f *fakeDisplay) Bounds() image.Rectangle { return image.Rect(0, 0, 16, 8) }

func TestDraw(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	f := &fakeDisplay{}
	if err := Draw(f, image.Rect(14, -1, 18, 3), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(f.area, Area{14, 0, 15, 2}); diff != "" {
		t.Errorf("SetArea() difference (-got +want):\n%s", diff)
	}
	if f.stride != 2 {
		t.Errorf("stride = %d, want 2", f.stride)
	}
	want := []color.Color{
		color.Gray{4}, color.Gray{5},
		color.Gray{8}, color.Gray{9},
		color.Gray{12}, color.Gray{13},
	}
	if diff := cmp.Diff(f.src, want); diff != "" {
		t.Errorf("Map() source difference (-got +want):\n%s", diff)
	}

	f = &fakeDisplay{}
	if err := Draw(f, image.Rect(20, 20, 30, 30), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if f.src != nil || f.fills != nil {
		t.Error("Draw() outside the device must not paint")
	}

	if err := Draw(f, image.Rect(0, 0, 16, 8), image.NewUniform(color.White), image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(f.fills) != 1 || f.src != nil {
		t.Errorf("Draw() of a uniform image should Fill, got %d fills", len(f.fills))
	}
}

// fakeDrawer keeps the last image it was given.
type fakeDrawer struct {
	r   image.Rectangle
	img image.Image
}

func (f *fakeDrawer) String() string          { return "fake" }
func (f *fakeDrawer) Halt() error             { return nil }
func (f *fakeDrawer) ColorModel() color.Model { return color.RGBAModel }
func (f *fakeDrawer) Bounds() image.Rectangle { return image.Rect(0, 0, 128, 64) }
func (f *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	f.r, f.img = r, src
	return nil
}

func TestDrawText(t *testing.T) {
	f := &fakeDrawer{}
	if err := DrawText(f, image.Pt(3, 4), "Hi", color.White, color.Black); err != nil {
		t.Fatal(err)
	}
	// basicfont.Face7x13 is 7 pixels wide and 13 pixels high.
	if want := image.Rect(3, 4, 17, 17); f.r != want {
		t.Errorf("DrawText() rectangle = %v, want %v", f.r, want)
	}
	var fg, bg int
	b := f.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			switch r, _, _, _ := f.img.At(x, y).RGBA(); r {
			case 0xFFFF:
				fg++
			case 0:
				bg++
			}
		}
	}
	if fg == 0 || bg == 0 {
		t.Errorf("DrawText() rendered %d foreground and %d background pixels", fg, bg)
	}
}
