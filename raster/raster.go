// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Display is an addressable raster display.
//
// Implementations are expected to be used from a single goroutine at a time.
type Display interface {
	// Init runs the power-up sequence and leaves the device displaying and
	// addressable. No other method may be called before Init returns.
	Init() error
	// SetArea records the rectangle, inclusive on both ends, that the next
	// Fill or Map paints. It performs no validation.
	SetArea(x1, y1, x2, y2 int)
	// Fill paints the recorded rectangle with a single color.
	Fill(c color.Color) error
	// Map paints the recorded rectangle from src, where each row of the
	// rectangle starts stride pixels after the previous one.
	Map(src []color.Color, stride int) error
	// Bounds returns the device bounds. Min is always {0, 0}.
	Bounds() image.Rectangle
}

// ErrShortSource is returned by Map when the source cannot cover the
// rectangle at the given stride.
var ErrShortSource = errors.New("raster: pixel source too short for area")

// RangeError is returned when a parameter cannot be represented in the
// controller's programmable range.
type RangeError struct {
	Param    string
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("raster: %s %d out of range [%d, %d]", e.Param, e.Value, e.Min, e.Max)
}

// CheckRange returns a *RangeError when v is outside [min, max].
func CheckRange(param string, v, min, max int) error {
	if v < min || v > max {
		return &RangeError{Param: param, Value: v, Min: min, Max: max}
	}
	return nil
}

// Window locates the pixel of src at (x, y) for a clipped area c that was
// derived from the pending area p. Row y of p starts at (y-p.Y1)*stride.
//
// It returns ErrShortSource when src cannot hold the last pixel of c.
func Window(src []color.Color, stride int, p, c Area) (int, error) {
	if stride < c.Dx() {
		return 0, fmt.Errorf("raster: stride %d smaller than area width %d: %w", stride, c.Dx(), ErrShortSource)
	}
	dy, dx := c.Y1-p.Y1, c.X1-p.X1
	if dy < 0 || dx < 0 || dx > len(src) {
		return 0, ErrShortSource
	}
	// Compared by division so that far away pending corners can't wrap.
	room := len(src) - dx - c.Dx()
	if room < 0 || dy > room/stride || c.Dy()-1 > room/stride-dy {
		return 0, ErrShortSource
	}
	return dy*stride + dx, nil
}
