// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package parbus drives a write-only 16-bit 8080 style parallel bus by bit
// banging GPIO pins.
//
// Each pair of bytes passed to Tx is one bus word, high byte first. A word is
// latched by the controller on the rising edge of WR. The D/C (RS) line is not
// part of the bus; use dcbus.NewWide on top of it.
//
// Only the data lines that differ from the previous word are written, so
// streaming the same color costs two WR transitions per pixel.
package parbus

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/displays/raster"
)

const (
	// Width is the number of data lines.
	Width = 16
	// MaxWait is the longest strobe wait accepted by SetWait.
	MaxWait = 10 * time.Millisecond
	// SlowWait is a wait slow enough for controllers whose PLL isn't running
	// yet.
	SlowWait = 20 * time.Microsecond
)

// Bus is a parallel bus made of Width data pins and a WR strobe.
//
// Bus is not safe for concurrent use.
type Bus struct {
	data  [Width]gpio.PinOut
	wr    gpio.PinOut
	wait  time.Duration
	sleep func(time.Duration)
	// last is the word currently on the data lines, valid when known is set.
	last  uint16
	known bool
}

// New returns a Bus. data[0] is the least significant line.
//
// WR is driven High, its idle level. WR is expected to already idle High,
// through a pull-up or an earlier user: a Low to High edge here latches
// whatever the data lines hold when the controller is selected. The
// controller reset done by the driver's Init discards such a word.
func New(data []gpio.PinOut, wr gpio.PinOut) (*Bus, error) {
	if len(data) != Width {
		return nil, fmt.Errorf("parbus: need %d data pins, got %d", Width, len(data))
	}
	b := &Bus{wr: wr, sleep: time.Sleep}
	for i, p := range data {
		if p == nil || p == gpio.INVALID {
			return nil, fmt.Errorf("parbus: data pin %d is missing", i)
		}
		b.data[i] = p
	}
	if wr == nil || wr == gpio.INVALID {
		return nil, errors.New("parbus: a WR pin is required")
	}
	if err := wr.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("parbus: failed to drive WR: %w", err)
	}
	return b, nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("parbus.Bus{%s, %s}", b.data[0], b.wr)
}

// Halt implements conn.Resource. It is a no-op.
func (b *Bus) Halt() error {
	return nil
}

// Duplex implements conn.Conn.
func (b *Bus) Duplex() conn.Duplex {
	return conn.Half
}

// Wait returns the time each WR level is held.
func (b *Bus) Wait() time.Duration {
	return b.wait
}

// SetWait sets the time each WR level is held, between 0 and MaxWait. 0 runs
// the bus as fast as the GPIO driver allows.
func (b *Bus) SetWait(d time.Duration) error {
	if err := raster.CheckRange("wait (ns)", int(d), 0, int(MaxWait)); err != nil {
		return err
	}
	b.wait = d
	return nil
}

// SetSleep replaces the function used for the strobe wait. It is meant for
// tests.
func (b *Bus) SetSleep(f func(time.Duration)) {
	b.sleep = f
}

// Tx implements conn.Conn. r must be empty, the bus is write only.
func (b *Bus) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("parbus: reading is not supported")
	}
	if len(w)&1 != 0 {
		return fmt.Errorf("parbus: odd transfer length %d", len(w))
	}
	for i := 0; i < len(w); i += 2 {
		if err := b.write(uint16(w[i])<<8 | uint16(w[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// write puts v on the data lines and strobes WR.
func (b *Bus) write(v uint16) error {
	for i, p := range b.data {
		bit := uint16(1) << uint(i)
		if b.known && (b.last^v)&bit == 0 {
			continue
		}
		if err := p.Out(v&bit != 0); err != nil {
			b.known = false
			return fmt.Errorf("parbus: D%d: %w", i, err)
		}
	}
	b.last = v
	b.known = true
	if err := b.wr.Out(gpio.Low); err != nil {
		return fmt.Errorf("parbus: WR: %w", err)
	}
	b.hold()
	if err := b.wr.Out(gpio.High); err != nil {
		return fmt.Errorf("parbus: WR: %w", err)
	}
	b.hold()
	return nil
}

func (b *Bus) hold() {
	if b.wait > 0 {
		b.sleep(b.wait)
	}
}

var _ conn.Conn = &Bus{}
