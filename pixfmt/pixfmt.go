// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pixfmt converts colors to the native encodings of the supported
// controllers: 16-bit packed RGB565 and a single monochrome bit.
//
// Both conversions are pure; the same input always yields the same output.
package pixfmt

import (
	"image/color"
)

// ToColor16 packs c as RGB565: red in the top 5 bits, green in the middle 6,
// blue in the low 5.
func ToColor16(c color.Color) uint16 {
	if v, ok := c.(RGB565); ok {
		return uint16(v)
	}
	r, g, b, _ := c.RGBA()
	return uint16((r>>11)<<11 | (g>>10)<<5 | b>>11)
}

// ToMono returns true when c is closer to white than to black.
//
// The threshold is applied to the BT.601 luma of the color. True means the
// bit is set, which is the foreground.
func ToMono(c color.Color) bool {
	switch v := c.(type) {
	case Bit:
		return bool(v)
	case color.Gray:
		return v.Y >= 0x80
	}
	r, g, b, _ := c.RGBA()
	// Same weights as color.GrayModel, kept in 16 bits.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	return y >= 0x8000
}

// RGB565 is a 16-bit packed color.
type RGB565 uint16

// RGBA implements color.Color.
func (c RGB565) RGBA() (uint32, uint32, uint32, uint32) {
	r := uint32(c>>11) & 0x1F
	g := uint32(c>>5) & 0x3F
	b := uint32(c) & 0x1F
	// Replicate the high bits into the low bits so full scale maps to 0xFFFF.
	r = (r<<11 | r<<6 | r<<1 | r>>4)
	g = (g<<10 | g<<4 | g>>2)
	b = (b<<11 | b<<6 | b<<1 | b>>4)
	return r, g, b, 0xFFFF
}

// RGB565Model converts any color to RGB565.
var RGB565Model = color.ModelFunc(func(c color.Color) color.Color {
	return RGB565(ToColor16(c))
})

// Bit is a monochrome pixel.
type Bit bool

const (
	// On is a set pixel, the foreground.
	On = Bit(true)
	// Off is a cleared pixel.
	Off = Bit(false)
)

// RGBA implements color.Color.
func (b Bit) RGBA() (uint32, uint32, uint32, uint32) {
	if b {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// BitModel converts any color to Bit.
var BitModel = color.ModelFunc(func(c color.Color) color.Color {
	return Bit(ToMono(c))
})
