// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pagebuf implements a 1 bit per pixel bitmap laid out the way page
// addressed LCD controllers store it.
//
// The bitmap is cut in horizontal bands of 8 rows called pages. Each page is
// one byte per column. Pixel (x, y) is bit 7-(y%8) of byte x+(y/8)*width, so
// the top row of a page is the most significant bit.
package pagebuf

import (
	"fmt"
	"image"
	"image/color"

	"github.com/GermanBionicSystems/displays/pixfmt"
	"github.com/GermanBionicSystems/displays/raster"
)

// Buffer is a page organized monochrome bitmap. It implements draw.Image.
type Buffer struct {
	// Pix holds the pixels, one page after the other.
	Pix []byte
	// W and H are the size in pixels. H is a multiple of 8.
	W, H int
}

// New returns a cleared Buffer. h must be a multiple of 8.
func New(w, h int) (*Buffer, error) {
	if w <= 0 || h <= 0 || h&7 != 0 {
		return nil, fmt.Errorf("pagebuf: invalid size %dx%d", w, h)
	}
	return &Buffer{Pix: make([]byte, w*h/8), W: w, H: h}, nil
}

// Pages returns the number of pages.
func (b *Buffer) Pages() int {
	return b.H / 8
}

// Page returns the bytes of page p, one per column. The slice aliases Pix.
func (b *Buffer) Page(p int) []byte {
	return b.Pix[p*b.W : (p+1)*b.W]
}

// Offset returns the byte index and the mask of pixel (x, y).
func (b *Buffer) Offset(x, y int) (int, byte) {
	return x + (y/8)*b.W, byte(1) << (7 - uint(y&7))
}

// BitAt returns the state of pixel (x, y). It returns false outside of the
// bitmap.
func (b *Buffer) BitAt(x, y int) bool {
	if !image.Pt(x, y).In(b.Bounds()) {
		return false
	}
	i, m := b.Offset(x, y)
	return b.Pix[i]&m != 0
}

// SetBit sets or clears pixel (x, y). It is ignored outside of the bitmap.
func (b *Buffer) SetBit(x, y int, on bool) {
	if !image.Pt(x, y).In(b.Bounds()) {
		return
	}
	i, m := b.Offset(x, y)
	if on {
		b.Pix[i] |= m
	} else {
		b.Pix[i] &^= m
	}
}

// FillArea sets or clears every pixel of a, which must already be clipped to
// the buffer.
func (b *Buffer) FillArea(a raster.Area, on bool) {
	for y := a.Y1; y <= a.Y2; y++ {
		row := (y / 8) * b.W
		m := byte(1) << (7 - uint(y&7))
		for x := a.X1; x <= a.X2; x++ {
			if on {
				b.Pix[row+x] |= m
			} else {
				b.Pix[row+x] &^= m
			}
		}
	}
}

// Clear clears all pixels.
func (b *Buffer) Clear() {
	for i := range b.Pix {
		b.Pix[i] = 0
	}
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return pixfmt.BitModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.W, b.H)
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	return pixfmt.Bit(b.BitAt(x, y))
}

// Set implements draw.Image.
func (b *Buffer) Set(x, y int, c color.Color) {
	b.SetBit(x, y, pixfmt.ToMono(c))
}
