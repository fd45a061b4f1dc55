// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package raster

import (
	"fmt"
	"image"
)

// Area is a rectangle whose corners are both inclusive.
//
// Unlike image.Rectangle, an Area may be inverted or lie partially or fully
// outside of a device until it is clipped.
type Area struct {
	X1, Y1, X2, Y2 int
}

// Rect returns the area as a half-open image.Rectangle.
func (a Area) Rect() image.Rectangle {
	return image.Rect(a.X1, a.Y1, a.X2+1, a.Y2+1)
}

// AreaOf converts a half-open rectangle to an inclusive Area.
func AreaOf(r image.Rectangle) Area {
	return Area{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X - 1, Y2: r.Max.Y - 1}
}

// Dx returns the number of columns covered by the area.
func (a Area) Dx() int {
	return a.X2 - a.X1 + 1
}

// Dy returns the number of rows covered by the area.
func (a Area) Dy() int {
	return a.Y2 - a.Y1 + 1
}

func (a Area) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", a.X1, a.Y1, a.X2, a.Y2)
}

// Clip constrains the area to a device of the given size.
//
// It returns false when no pixel of the area is on the device. Otherwise each
// coordinate is clamped independently into [0, size-1]. Clipping a clipped
// area returns it unchanged.
func (a Area) Clip(size image.Point) (Area, bool) {
	if a.X2 < 0 || a.Y2 < 0 || a.X1 > size.X-1 || a.Y1 > size.Y-1 {
		return Area{}, false
	}
	c := Area{
		X1: clamp(a.X1, size.X-1),
		Y1: clamp(a.Y1, size.Y-1),
		X2: clamp(a.X2, size.X-1),
		Y2: clamp(a.Y2, size.Y-1),
	}
	// An inverted area covers no pixel.
	if c.X1 > c.X2 || c.Y1 > c.Y2 {
		return Area{}, false
	}
	return c, true
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Tracker remembers the last rectangle requested with Set and clips it to a
// fixed device size.
type Tracker struct {
	pending Area
	size    image.Point
}

// NewTracker returns a Tracker for a device of the given size with nothing
// pending.
func NewTracker(size image.Point) Tracker {
	t := Tracker{size: size}
	t.Reset()
	return t
}

// Set overwrites the pending rectangle. It is not validated.
func (t *Tracker) Set(x1, y1, x2, y2 int) {
	t.pending = Area{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Reset discards the pending rectangle.
func (t *Tracker) Reset() {
	t.pending = Area{X1: 0, Y1: 0, X2: -1, Y2: -1}
}

// Pending returns the rectangle as it was given to Set.
func (t *Tracker) Pending() Area {
	return t.pending
}

// Size returns the device size the tracker clips to.
func (t *Tracker) Size() image.Point {
	return t.size
}

// Clip returns the pending rectangle clipped to the device.
func (t *Tracker) Clip() (Area, bool) {
	return t.pending.Clip(t.size)
}
