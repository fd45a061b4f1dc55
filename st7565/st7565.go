// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7565

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/displays/dcbus"
	"github.com/GermanBionicSystems/displays/pagebuf"
	"github.com/GermanBionicSystems/displays/pixfmt"
	"github.com/GermanBionicSystems/displays/raster"
)

const (
	_DISPLAYOFF       = 0xAE
	_DISPLAYON        = 0xAF
	_SETSTARTLINE     = 0x40
	_SETPAGE          = 0xB0
	_SETCOLUMNUPPER   = 0x10
	_SETCOLUMNLOWER   = 0x00
	_SETADCNORMAL     = 0xA0
	_SETADCREVERSE    = 0xA1
	_SETDISPNORMAL    = 0xA6
	_SETDISPREVERSE   = 0xA7
	_SETALLPTSNORMAL  = 0xA4
	_SETBIAS9         = 0xA2
	_SETBIAS7         = 0xA3
	_RMW              = 0xE0
	_SETCOMNORMAL     = 0xC0
	_SETCOMREVERSE    = 0xC8
	_SETPOWERCONTROL  = 0x28
	_SETRESISTORRATIO = 0x20
	_SETVOLUME        = 0x81
)

// ramColumns is the width of the controller RAM.
const ramColumns = 132

// DefaultOpts is the configuration of the common 128x64 modules.
var DefaultOpts = Opts{
	W:             128,
	H:             64,
	Contrast:      0x18,
	ResistorRatio: 6,
	Freq:          2 * physic.MegaHertz,
}

// Opts defines the options for the device.
type Opts struct {
	W int
	H int
	// Contrast is the electronic volume, between 0 and 63.
	Contrast int
	// ResistorRatio selects the V0 voltage regulator internal resistor ratio,
	// between 0 and 7.
	ResistorRatio int
	// Bias9 selects a 1/9 LCD bias instead of 1/7.
	Bias9 bool
	// Freq is the SPI clock. The controller supports up to 20MHz but long
	// wires may need less.
	Freq physic.Frequency
	// RST is the optional reset pin.
	RST gpio.PinOut
}

// Dev is an open handle to the display controller.
//
// Dev is not safe for concurrent use.
type Dev struct {
	bus  *dcbus.Bus
	rst  gpio.PinOut
	opts Opts

	area raster.Tracker
	// buffer mirrors the display RAM. Page p of the buffer is RAM page
	// pageMap[p].
	buffer  *pagebuf.Buffer
	pageMap []byte
	// colOffset is the RAM column of x=0.
	colOffset int
	rotation  drivers.Rotation
	// dirty is the area touched by SetPixel since the last Display.
	dirty  image.Rectangle
	halted bool
}

// NewSPI returns a Dev object that communicates over SPI to an ST7565
// display controller. dc is the A0 pin.
//
// Init must be called before drawing.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	f := opts.Freq
	if f == 0 {
		f = DefaultOpts.Freq
	}
	c, err := p.Connect(f, spi.Mode3, 8)
	if err != nil {
		return nil, fmt.Errorf("st7565: %w", err)
	}
	return New(c, dc, opts)
}

// New returns a Dev on an already configured connection. dc is the A0 pin.
func New(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	b, err := dcbus.New(c, dc)
	if err != nil {
		return nil, fmt.Errorf("st7565: %w", err)
	}
	buf, err := pagebuf.New(opts.W, opts.H)
	if err != nil {
		return nil, fmt.Errorf("st7565: %w", err)
	}
	d := &Dev{
		bus:     b,
		rst:     opts.RST,
		opts:    *opts,
		area:    raster.NewTracker(image.Pt(opts.W, opts.H)),
		buffer:  buf,
		pageMap: make([]byte, buf.Pages()),
	}
	// The page order of the panel is reversed.
	for p := range d.pageMap {
		d.pageMap[p] = byte(len(d.pageMap) - 1 - p)
	}
	return d, nil
}

func validate(opts *Opts) error {
	if opts == nil {
		return fmt.Errorf("st7565: opts is required")
	}
	if opts.W < 1 || opts.W > ramColumns {
		return fmt.Errorf("st7565: invalid width %d", opts.W)
	}
	if opts.H < 8 || opts.H > 64 || opts.H&7 != 0 {
		return fmt.Errorf("st7565: invalid height %d", opts.H)
	}
	if err := raster.CheckRange("contrast", opts.Contrast, 0, 63); err != nil {
		return err
	}
	return raster.CheckRange("resistor ratio", opts.ResistorRatio, 0, 7)
}

func (d *Dev) String() string {
	return fmt.Sprintf("st7565.Dev{%s, %s}", d.bus, d.buffer.Bounds().Max)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return pixfmt.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Buffer returns the memory copy of the display. Changes made to it are sent
// by the next Refresh.
func (d *Dev) Buffer() *pagebuf.Buffer {
	return d.buffer
}

// Init resets the controller, powers the LCD up and clears the memory copy.
//
// It blocks for about 150ms.
func (d *Dev) Init() error {
	if d.rst != nil {
		for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
			if err := d.rst.Out(l); err != nil {
				return fmt.Errorf("st7565: failed to drive RST: %w", err)
			}
			d.bus.Sleep(10 * time.Millisecond)
		}
	}
	if err := d.bus.Play(initSteps(&d.opts)); err != nil {
		return fmt.Errorf("st7565: %w", err)
	}
	d.buffer.Clear()
	d.area.Reset()
	d.dirty = image.Rectangle{}
	d.halted = false
	d.rotation = drivers.Rotation0
	d.colOffset = 0
	return nil
}

// initSteps is the power up sequence of page 51 of the datasheet.
func initSteps(opts *Opts) []dcbus.Step {
	bias := byte(_SETBIAS7)
	if opts.Bias9 {
		bias = _SETBIAS9
	}
	// Every parameter of this controller is sent in command mode.
	return []dcbus.Step{
		{Cmd: bias},
		{Cmd: _SETADCNORMAL},
		{Cmd: _SETCOMNORMAL},
		{Cmd: _SETSTARTLINE},
		{Cmd: _SETPOWERCONTROL | 0x4, Delay: 50 * time.Millisecond}, // Booster on
		{Cmd: _SETPOWERCONTROL | 0x6, Delay: 50 * time.Millisecond}, // Regulator on
		{Cmd: _SETPOWERCONTROL | 0x7, Delay: 10 * time.Millisecond}, // Follower on
		{Cmd: _SETRESISTORRATIO | byte(opts.ResistorRatio)},
		{Cmd: _DISPLAYON},
		{Cmd: _SETALLPTSNORMAL},
		{Cmd: _SETVOLUME},
		{Cmd: byte(opts.Contrast) & 0x3F},
	}
}

// SetArea implements raster.Display.
func (d *Dev) SetArea(x1, y1, x2, y2 int) {
	d.area.Set(x1, y1, x2, y2)
}

// Fill implements raster.Display.
//
// The memory copy is updated and the touched pages are sent.
func (d *Dev) Fill(c color.Color) error {
	a, ok := d.area.Clip()
	if !ok {
		return nil
	}
	d.buffer.FillArea(a, pixfmt.ToMono(c))
	return d.flush(a)
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
		return fmt.Errorf("st7565: %w", err)
	}
	for y := a.Y1; y <= a.Y2; y++ {
		row := src[start+(y-a.Y1)*stride:]
		for x := a.X1; x <= a.X2; x++ {
			d.buffer.SetBit(x, y, pixfmt.ToMono(row[x-a.X1]))
		}
	}
	return d.flush(a)
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	return raster.Draw(d, r, src, sp)
}

// Refresh sends the whole memory copy.
func (d *Dev) Refresh() error {
	d.dirty = image.Rectangle{}
	return d.flush(raster.AreaOf(d.buffer.Bounds()))
}

// flush sends the pages covering a, from column a.X1 to a.X2.
func (d *Dev) flush(a raster.Area) error {
	seq := d.bus.Seq()
	if d.halted {
		// Transparently enable the display.
		seq.Command(_DISPLAYON)
	}
	col := a.X1 + d.colOffset
	for p := a.Y1 / 8; p <= a.Y2/8; p++ {
		seq.Command(
			_SETPAGE|d.pageMap[p],
			_SETCOLUMNLOWER|byte(col&0x0F),
			_SETCOLUMNUPPER|byte((col>>4)&0x0F),
			_RMW,
		)
		seq.Data(d.buffer.Page(p)[a.X1 : a.X2+1]...)
	}
	if err := seq.Err(); err != nil {
		return fmt.Errorf("st7565: %w", err)
	}
	d.halted = false
	return nil
}

// SetContrast changes the electronic volume, between 0 and 63.
func (d *Dev) SetContrast(level int) error {
	if err := raster.CheckRange("contrast", level, 0, 63); err != nil {
		return err
	}
	if err := d.bus.Command(_SETVOLUME, byte(level)); err != nil {
		return fmt.Errorf("st7565: %w", err)
	}
	d.opts.Contrast = level
	return nil
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) error {
	b := byte(_SETDISPNORMAL)
	if blackOnWhite {
		b = _SETDISPREVERSE
	}
	if err := d.bus.Command(b); err != nil {
		return fmt.Errorf("st7565: %w", err)
	}
	return nil
}

// Halt turns off the display.
//
// The next draw turns it back on.
func (d *Dev) Halt() error {
	if err := d.bus.Command(_DISPLAYOFF); err != nil {
		return fmt.Errorf("st7565: %w", err)
	}
	d.halted = true
	return nil
}

var _ raster.Display = &Dev{}
var _ display.Drawer = &Dev{}
