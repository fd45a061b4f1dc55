// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package raster

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/display"
)

// Pixels reads the pixels of src that land in r when src's sp is aligned with
// r.Min. The result is row-major with a stride of r.Dx().
func Pixels(r image.Rectangle, src image.Image, sp image.Point) []color.Color {
	out := make([]color.Color, 0, r.Dx()*r.Dy())
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			out = append(out, src.At(sp.X+x, sp.Y+y))
		}
	}
	return out
}

// Draw implements display.Drawer's Draw on top of a Display.
//
// The destination is clipped to the device; what remains of r is painted
// from src in a single SetArea/Map pair.
func Draw(d Display, r image.Rectangle, src image.Image, sp image.Point) error {
	clipped := r.Intersect(d.Bounds())
	if clipped.Empty() {
		return nil
	}
	sp = sp.Add(clipped.Min.Sub(r.Min))
	if u, ok := src.(*image.Uniform); ok {
		d.SetArea(clipped.Min.X, clipped.Min.Y, clipped.Max.X-1, clipped.Max.Y-1)
		return d.Fill(u.C)
	}
	d.SetArea(clipped.Min.X, clipped.Min.Y, clipped.Max.X-1, clipped.Max.Y-1)
	return d.Map(Pixels(clipped, src, sp), clipped.Dx())
}

// DrawText renders s with the 7x13 basic font at pt, the top left corner of
// the text box, onto dst.
func DrawText(dst display.Drawer, pt image.Point, s string, fg, bg color.Color) error {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Metrics().Height.Ceil()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{fg},
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(s)
	return dst.Draw(img.Bounds().Add(pt), img, image.Point{})
}
