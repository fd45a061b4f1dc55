// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7565

import (
	"fmt"
	"image"
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/displays/pixfmt"
	"github.com/GermanBionicSystems/displays/raster"
)

// Size implements drivers.Displayer.
func (d *Dev) Size() (x, y int16) {
	return int16(d.buffer.W), int16(d.buffer.H)
}

// SetPixel implements drivers.Displayer. The pixel is only sent by the next
// Display.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	p := image.Pt(int(x), int(y))
	if !p.In(d.buffer.Bounds()) {
		return
	}
	d.buffer.SetBit(p.X, p.Y, pixfmt.ToMono(c))
	d.dirty = d.dirty.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
}

// Display implements drivers.Displayer. It sends the smallest area covering
// the pixels changed by SetPixel.
func (d *Dev) Display() error {
	if d.dirty.Empty() {
		return nil
	}
	a := raster.AreaOf(d.dirty)
	d.dirty = image.Rectangle{}
	return d.flush(a)
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() drivers.Rotation {
	return d.rotation
}

// SetRotation flips the display. Only drivers.Rotation0 and
// drivers.Rotation180 are supported by the controller.
//
// The whole memory copy is sent again.
func (d *Dev) SetRotation(r drivers.Rotation) error {
	adc, com, off := byte(_SETADCNORMAL), byte(_SETCOMNORMAL), 0
	switch r {
	case drivers.Rotation0:
	case drivers.Rotation180:
		adc, com = _SETADCREVERSE, _SETCOMREVERSE
		// A reversed segment driver starts at the end of the RAM.
		off = ramColumns - d.buffer.W
	default:
		return fmt.Errorf("st7565: unsupported rotation %d", r)
	}
	if err := d.bus.Command(adc, com); err != nil {
		return fmt.Errorf("st7565: %w", err)
	}
	d.rotation = r
	d.colOffset = off
	return d.Refresh()
}

var _ drivers.Displayer = &Dev{}
