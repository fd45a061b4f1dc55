// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a raster display that outputs to a terminal
// using ANSI color codes.
//
// Useful to try drawing code before the panel is wired, or to look at the
// memory copy of a monochrome display.
package termview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/displays/raster"
)

// Opts represents the options available for this display.
type Opts struct {
	W, H    int
	Palette *ansi256.Palette
	// Out defaults to stdout.
	Out io.Writer

	_ struct{}
}

// Dev is a raster display emulator that outputs to the console.
//
// Dev is not safe for concurrent use.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	area    raster.Tracker

	img *image.NRGBA
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts == nil {
		return nil, errors.New("termview: opts is required")
	}
	if opts.W < 1 || opts.H < 1 {
		return nil, fmt.Errorf("termview: invalid size %dx%d", opts.W, opts.H)
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{
		w:       w,
		palette: *p,
		area:    raster.NewTracker(image.Pt(opts.W, opts.H)),
		img:     image.NewNRGBA(image.Rect(0, 0, opts.W, opts.H)),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("termview.Dev{%s}", d.img.Rect.Max)
}

// Init implements raster.Display. It clears the emulated screen.
func (d *Dev) Init() error {
	draw.Draw(d.img, d.img.Rect, image.Black, image.Point{}, draw.Src)
	d.area.Reset()
	return d.refresh()
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: d.area.Size()}
}

// Image returns the emulated screen.
func (d *Dev) Image() image.Image {
	return d.img
}

// SetArea implements raster.Display.
func (d *Dev) SetArea(x1, y1, x2, y2 int) {
	d.area.Set(x1, y1, x2, y2)
}

// Fill implements raster.Display.
func (d *Dev) Fill(c color.Color) error {
	a, ok := d.area.Clip()
	if !ok {
		return nil
	}
	draw.Draw(d.img, a.Rect(), &image.Uniform{c}, image.Point{}, draw.Src)
	return d.refresh()
}

// Map implements raster.Display.
func (d *Dev) Map(src []color.Color, stride int) error {
	a, ok := d.area.Clip()
	if !ok {
		return nil
	}
	start, err := raster.Window(src, stride, d.area.Pending(), a)
	if err != nil {
		return fmt.Errorf("termview: %w", err)
	}
	for y := 0; y < a.Dy(); y++ {
		row := src[start+y*stride:]
		for x := 0; x < a.Dx(); x++ {
			d.img.Set(a.X1+x, a.Y1+y, row[x])
		}
	}
	return d.refresh()
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	return raster.Draw(d, r, src, sp)
}

// Render writes img to w, one character cell per pixel, without changing
// the emulated screen.
func (d *Dev) Render(img image.Image) error {
	if img == nil {
		return errors.New("termview: nil image")
	}
	d.render(img)
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) refresh() error {
	return d.Render(d.img)
}

func (d *Dev) render(img image.Image) {
	// Home the cursor so successive frames overwrite each other.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H")
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		_, _ = d.buf.WriteString("\033[0m")
		for x := r.Min.X; x < r.Max.X; x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
}

var _ raster.Display = &Dev{}
var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
