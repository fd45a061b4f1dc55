// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"

	"github.com/GermanBionicSystems/displays/pagebuf"
	"github.com/GermanBionicSystems/displays/raster"
)

var red = color.NRGBA{0xFF, 0, 0, 0xFF}

func newDev(t *testing.T, w, h int) (*Dev, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	d, err := New(&Opts{W: w, H: h, Out: out})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	return d, out
}

// frame is the expected output for rows of colors.
func frame(rows ...[]color.Color) string {
	var b strings.Builder
	b.WriteString("\033[H")
	for _, row := range rows {
		b.WriteString("\033[0m")
		for _, c := range row {
			b.WriteString(ansi256.Default.Block(color.NRGBAModel.Convert(c).(color.NRGBA)))
		}
		b.WriteString("\033[0m\n")
	}
	return b.String()
}

func TestNew(t *testing.T) {
	if _, err := New(&Opts{W: 0, H: 2}); err == nil {
		t.Error("New() with no width should fail")
	}
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should fail")
	}
	d, _ := newDev(t, 4, 2)
	if d.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("Bounds() = %v", d.Bounds())
	}
	if d.String() != "termview.Dev{(4,2)}" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestFill(t *testing.T) {
	d, out := newDev(t, 3, 2)
	d.SetArea(1, -4, 7, 0)
	if err := d.Fill(red); err != nil {
		t.Fatal(err)
	}
	k := color.NRGBA{0, 0, 0, 0xFF}
	want := frame([]color.Color{k, red, red}, []color.Color{k, k, k})
	if got := out.String(); got != want {
		t.Errorf("Fill() output = %q, want %q", got, want)
	}
}

func TestFillOutOfRange(t *testing.T) {
	d, out := newDev(t, 3, 2)
	d.SetArea(3, 0, 5, 1)
	if err := d.Fill(red); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("out of range Fill() wrote %q", out.String())
	}
}

func TestMap(t *testing.T) {
	d, _ := newDev(t, 3, 3)
	src := []color.Color{
		color.White, red, color.White, color.White,
		red, color.White, red, red,
	}
	d.SetArea(-1, 1, 1, 2)
	if err := d.Map(src, 4); err != nil {
		t.Fatal(err)
	}
	img := d.Image()
	for _, tc := range []struct {
		p    image.Point
		want color.Color
	}{
		{image.Pt(0, 0), color.NRGBA{0, 0, 0, 0xFF}},
		{image.Pt(0, 1), red},
		{image.Pt(1, 1), color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{image.Pt(0, 2), color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{image.Pt(1, 2), red},
		{image.Pt(2, 2), color.NRGBA{0, 0, 0, 0xFF}},
	} {
		if got := img.At(tc.p.X, tc.p.Y); got != tc.want {
			t.Errorf("At(%s) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if err := d.Map(src[:5], 4); !errors.Is(err, raster.ErrShortSource) {
		t.Errorf("Map() = %v, want ErrShortSource", err)
	}
}

func TestRender(t *testing.T) {
	d, out := newDev(t, 1, 1)
	buf, err := pagebuf.New(2, 8)
	if err != nil {
		t.Fatal(err)
	}
	buf.SetBit(1, 0, true)
	if err := d.Render(buf); err != nil {
		t.Fatal(err)
	}
	var rows [][]color.Color
	for y := 0; y < 8; y++ {
		rows = append(rows, []color.Color{buf.At(0, y), buf.At(1, y)})
	}
	want := frame(rows...)
	if got := out.String(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if err := d.Render(nil); err == nil {
		t.Error("Render(nil) should fail")
	}
}

func TestHalt(t *testing.T) {
	d, out := newDev(t, 1, 1)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\033[0m\n" {
		t.Errorf("Halt() = %q", out.String())
	}
}
