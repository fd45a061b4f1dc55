// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package raster

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClip(t *testing.T) {
	size := image.Pt(128, 64)
	for _, tc := range []struct {
		name   string
		in     Area
		want   Area
		wantOK bool
	}{
		{"inside", Area{1, 2, 3, 4}, Area{1, 2, 3, 4}, true},
		{"full", Area{0, 0, 127, 63}, Area{0, 0, 127, 63}, true},
		{"left overhang", Area{-5, 0, 20, 7}, Area{0, 0, 20, 7}, true},
		{"all overhang", Area{-10, -10, 500, 500}, Area{0, 0, 127, 63}, true},
		{"left of device", Area{-10, 0, -1, 7}, Area{}, false},
		{"above device", Area{0, -10, 10, -1}, Area{}, false},
		{"right of device", Area{128, 0, 200, 7}, Area{}, false},
		{"below device", Area{0, 64, 10, 70}, Area{}, false},
		{"far right", Area{1000, 0, 1010, 7}, Area{}, false},
		{"single pixel corner", Area{127, 63, 127, 63}, Area{127, 63, 127, 63}, true},
		{"inverted", Area{20, 5, 10, 8}, Area{}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.in.Clip(size)
			if ok != tc.wantOK {
				t.Fatalf("Clip(%s) ok = %t, want %t", tc.in, ok, tc.wantOK)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Clip(%s) difference (-got +want):\n%s", tc.in, diff)
			}
		})
	}
}

func TestClipIdempotent(t *testing.T) {
	size := image.Pt(480, 320)
	for x1 := -600; x1 <= 600; x1 += 97 {
		for y1 := -400; y1 <= 400; y1 += 83 {
			for _, d := range []image.Point{{0, 0}, {5, 3}, {300, 300}, {-7, 2}, {1000, 1000}} {
				a := Area{x1, y1, x1 + d.X, y1 + d.Y}
				once, ok := a.Clip(size)
				if !ok {
					continue
				}
				twice, ok := once.Clip(size)
				if !ok {
					t.Fatalf("Clip(Clip(%s)) became empty", a)
				}
				if once != twice {
					t.Fatalf("Clip(Clip(%s)) = %s, want %s", a, twice, once)
				}
				if once.X1 < 0 || once.Y1 < 0 || once.X2 > size.X-1 || once.Y2 > size.Y-1 || once.X1 > once.X2 || once.Y1 > once.Y2 {
					t.Fatalf("Clip(%s) = %s is not within the device", a, once)
				}
			}
		}
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker(image.Pt(128, 64))
	if _, ok := tr.Clip(); ok {
		t.Fatal("new tracker should have nothing to draw")
	}
	tr.Set(-5, 0, 20, 7)
	tr.Set(3, 4, 5, 6)
	if diff := cmp.Diff(tr.Pending(), Area{3, 4, 5, 6}); diff != "" {
		t.Fatalf("Set() must overwrite (-got +want):\n%s", diff)
	}
	tr.Set(-5, 0, 20, 7)
	got, ok := tr.Clip()
	if !ok {
		t.Fatal("Clip() returned empty")
	}
	if diff := cmp.Diff(got, Area{0, 0, 20, 7}); diff != "" {
		t.Errorf("Clip() difference (-got +want):\n%s", diff)
	}
	if tr.Pending().X1 != -5 {
		t.Error("Clip() must not modify the pending area")
	}
	tr.Reset()
	if _, ok := tr.Clip(); ok {
		t.Error("Reset() should discard the pending area")
	}
}

func TestAreaRect(t *testing.T) {
	a := Area{2, 3, 9, 10}
	if got, want := a.Rect(), image.Rect(2, 3, 10, 11); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}
	if got := AreaOf(a.Rect()); got != a {
		t.Errorf("AreaOf(Rect()) = %s, want %s", got, a)
	}
	if a.Dx() != 8 || a.Dy() != 8 {
		t.Errorf("Dx(), Dy() = %d, %d, want 8, 8", a.Dx(), a.Dy())
	}
}
