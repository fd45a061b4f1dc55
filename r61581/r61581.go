// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package r61581

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/displays/dcbus"
	"github.com/GermanBionicSystems/displays/parbus"
	"github.com/GermanBionicSystems/displays/pixfmt"
	"github.com/GermanBionicSystems/displays/raster"
)

const (
	_SWRESET = 0x01
	_SLPOUT  = 0x11
	_NORON   = 0x13
	_DISPOFF = 0x28
	_DISPON  = 0x29
	_CASET   = 0x2A
	_PASET   = 0x2B
	_RAMWR   = 0x2C
	_MADCTL  = 0x36
	_IDMOFF  = 0x38
	_COLMOD  = 0x3A
)

// maxRes is the longest side supported by the controller.
const maxRes = 480

// DefaultOpts is the configuration of the common 3.5" 480x320 modules.
var DefaultOpts = Opts{
	W:        480,
	H:        320,
	InitWait: parbus.SlowWait,
}

// Opts defines the options for the device.
type Opts struct {
	W int
	H int
	// Flip rotates the image by 180°.
	Flip bool
	// InitWait is the bus wait used until the controller PLL runs. It is
	// only used when the connection has a SetWait method.
	InitWait time.Duration
	// RST, CS and BL are the optional reset, chip select and backlight pins.
	RST gpio.PinOut
	CS  gpio.PinOut
	BL  gpio.PinOut
}

// waiter is implemented by buses with a programmable speed, like
// parbus.Bus.
type waiter interface {
	SetWait(d time.Duration) error
}

// Dev is an open handle to the display controller.
//
// Dev is not safe for concurrent use.
type Dev struct {
	c    conn.Conn
	bus  *dcbus.Bus
	opts Opts
	area raster.Tracker
	// words is reused by Map.
	words  []uint16
	halted bool
}

// New returns a Dev on a 16-bit connection. dc is the RS pin.
//
// Init must be called before drawing.
func New(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		return nil, errors.New("r61581: opts is required")
	}
	if err := raster.CheckRange("width", opts.W, 1, maxRes); err != nil {
		return nil, err
	}
	if err := raster.CheckRange("height", opts.H, 1, maxRes); err != nil {
		return nil, err
	}
	b, err := dcbus.NewWide(c, dc)
	if err != nil {
		return nil, fmt.Errorf("r61581: %w", err)
	}
	return &Dev{
		c:    c,
		bus:  b,
		opts: *opts,
		area: raster.NewTracker(image.Pt(opts.W, opts.H)),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("r61581.Dev{%s, %s}", d.bus, d.Bounds().Max)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return pixfmt.RGB565Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: d.area.Size()}
}

// Init resets the controller, programs the panel and turns it on. The
// backlight is left off.
//
// It blocks for about 300ms.
func (d *Dev) Init() error {
	if err := d.out(d.opts.RST, gpio.High, "RST"); err != nil {
		return err
	}
	if err := d.out(d.opts.BL, gpio.Low, "BL"); err != nil {
		return err
	}
	w, slow := d.c.(waiter)
	if slow {
		if err := w.SetWait(d.opts.InitWait); err != nil {
			return fmt.Errorf("r61581: %w", err)
		}
	}
	if err := d.reset(); err != nil {
		return err
	}
	if err := d.bus.Play(initSteps(&d.opts)); err != nil {
		return fmt.Errorf("r61581: %w", err)
	}
	if slow {
		if err := w.SetWait(0); err != nil {
			return fmt.Errorf("r61581: %w", err)
		}
	}
	d.area.Reset()
	d.halted = false
	return nil
}

// reset pulses RST, selects the chip and sends the software reset.
func (d *Dev) reset() error {
	if d.opts.RST != nil {
		for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
			if err := d.out(d.opts.RST, l, "RST"); err != nil {
				return err
			}
			d.bus.Sleep(50 * time.Millisecond)
		}
	}
	if d.opts.CS != nil {
		if err := d.out(d.opts.CS, gpio.High, "CS"); err != nil {
			return err
		}
		d.bus.Sleep(10 * time.Millisecond)
		if err := d.out(d.opts.CS, gpio.Low, "CS"); err != nil {
			return err
		}
		d.bus.Sleep(5 * time.Millisecond)
	}
	if err := d.bus.Play(resetSteps); err != nil {
		return fmt.Errorf("r61581: %w", err)
	}
	return nil
}

func (d *Dev) out(p gpio.PinOut, l gpio.Level, name string) error {
	if p == nil {
		return nil
	}
	if err := p.Out(l); err != nil {
		return fmt.Errorf("r61581: failed to drive %s: %w", name, err)
	}
	return nil
}

var resetSteps = []dcbus.Step{
	{Cmd: _SWRESET, Delay: 20 * time.Millisecond},
	{Cmd: _SWRESET, Delay: 20 * time.Millisecond},
	{Cmd: _SWRESET, Delay: 20 * time.Millisecond},
}

// initSteps is the panel programming sequence recommended by the module
// vendors.
func initSteps(opts *Opts) []dcbus.Step {
	madctl := byte(0xE0)
	if opts.Flip {
		madctl = 0x20
	}
	x2, y2 := opts.W-1, opts.H-1
	return []dcbus.Step{
		{Cmd: 0xB0, Data: []byte{0x00}},                   // Manufacturer command access
		{Cmd: 0xB3, Data: []byte{0x02, 0x00, 0x00, 0x10}}, // Frame memory access
		{Cmd: 0xB4, Data: []byte{0x00}},                   // Display mode
		{Cmd: 0xB9, Data: []byte{0x01, 0xFF, 0xFF, 0x18}}, // Backlight PWM
		{Cmd: 0xC0, Data: []byte{0x02, 0x3B, 0x00, 0x00, 0x00, 0x01, 0x00, 0x43}}, // Panel driving
		{Cmd: 0xC1, Data: []byte{0x08, 0x15, 0x08, 0x08}},                         // Display timing
		{Cmd: 0xC4, Data: []byte{0x15, 0x03, 0x03, 0x01}},
		{Cmd: 0xC6, Data: []byte{0x02}},
		{Cmd: 0xC8, Data: []byte{0x0C, 0x05, 0x0A, 0x6B, 0x04, 0x06, 0x15, 0x10, 0x00, 0x31}}, // Gamma
		{Cmd: _MADCTL, Data: []byte{madctl}},
		{Cmd: 0x0C, Data: []byte{0x55}},
		{Cmd: _COLMOD, Data: []byte{0x55}}, // 16 bits per pixel
		{Cmd: _IDMOFF},
		{Cmd: 0xD0, Data: []byte{0x07, 0x07, 0x14, 0xA2}}, // Power setting
		{Cmd: 0xD1, Data: []byte{0x03, 0x5A, 0x10}},
		{Cmd: 0xD2, Data: []byte{0x03, 0x04, 0x04}},
		{Cmd: _SLPOUT, Delay: 10 * time.Millisecond},
		{Cmd: _CASET, Data: []byte{0, 0, byte(x2 >> 8), byte(x2)}},
		{Cmd: _PASET, Data: []byte{0, 0, byte(y2 >> 8), byte(y2)}, Delay: 10 * time.Millisecond},
		{Cmd: _DISPON, Delay: 5 * time.Millisecond},
		{Cmd: _RAMWR, Delay: 5 * time.Millisecond},
		{Cmd: _NORON},
		{Cmd: _DISPON, Delay: 30 * time.Millisecond},
	}
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
	if err := d.address(a); err != nil {
		return err
	}
	if err := d.bus.RepeatWord(pixfmt.ToColor16(c), a.Dx()*a.Dy()); err != nil {
		return fmt.Errorf("r61581: %w", err)
	}
	return nil
}

// Map implements raster.Display.
//
// src[0] is the pixel at the top left corner of the area given to SetArea,
// even when that corner is clipped away.
func (d *Dev) Map(src []color.Color, stride int) error {
	a, ok := d.area.Clip()
	if !ok {
		return nil
	}
	start, err := raster.Window(src, stride, d.area.Pending(), a)
	if err != nil {
		return fmt.Errorf("r61581: %w", err)
	}
	n := a.Dx() * a.Dy()
	if cap(d.words) < n {
		d.words = make([]uint16, n)
	}
	words := d.words[:n]
	for y := 0; y < a.Dy(); y++ {
		row := src[start+y*stride:]
		for x := 0; x < a.Dx(); x++ {
			words[y*a.Dx()+x] = pixfmt.ToColor16(row[x])
		}
	}
	if err := d.address(a); err != nil {
		return err
	}
	if err := d.bus.DataWords(words); err != nil {
		return fmt.Errorf("r61581: %w", err)
	}
	return nil
}

// address opens the RAM window a for writing.
func (d *Dev) address(a raster.Area) error {
	seq := d.bus.Seq()
	if d.halted {
		// Transparently enable the display.
		seq.Command(_DISPON)
	}
	seq.Command(_CASET)
	seq.Data(byte(a.X1>>8), byte(a.X1), byte(a.X2>>8), byte(a.X2))
	seq.Command(_PASET)
	seq.Data(byte(a.Y1>>8), byte(a.Y1), byte(a.Y2>>8), byte(a.Y2))
	seq.Command(_RAMWR)
	if err := seq.Err(); err != nil {
		return fmt.Errorf("r61581: %w", err)
	}
	d.halted = false
	return nil
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	return raster.Draw(d, r, src, sp)
}

// SetBacklight turns the backlight on or off. It fails when no BL pin was
// given.
func (d *Dev) SetBacklight(on bool) error {
	if d.opts.BL == nil {
		return errors.New("r61581: no backlight pin")
	}
	return d.out(d.opts.BL, gpio.Level(on), "BL")
}

// Halt turns off the display.
//
// The next draw turns it back on.
func (d *Dev) Halt() error {
	if err := d.bus.Command(_DISPOFF); err != nil {
		return fmt.Errorf("r61581: %w", err)
	}
	d.halted = true
	return nil
}

var _ raster.Display = &Dev{}
var _ display.Drawer = &Dev{}
