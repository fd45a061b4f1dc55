// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dcbus multiplexes command and data transfers on a bus that uses a
// separate D/C (also called RS or A0) line to tell the controller how to
// interpret the next transfer.
//
// The line is only driven when the mode changes. A run of data writes costs a
// single line transition, no matter how many writes it contains.
//
// The bus is either 8 bits wide (SPI) or 16 bits wide (parallel). On a wide
// bus every command or data byte is sent as a word with a zero high byte, and
// pixel words are sent big endian.
package dcbus

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Mode is the meaning the controller gives to the next transfer.
type Mode int

const (
	// Command is asserted with the D/C line Low.
	Command Mode = iota
	// Data is asserted with the D/C line High.
	Data
)

func (m Mode) String() string {
	if m == Command {
		return "Command"
	}
	return "Data"
}

// level returns the D/C line level asserting m.
func (m Mode) level() gpio.Level {
	return m == Data
}

// defaultChunk bounds the size of a single transfer when the connection
// doesn't report a limit.
const defaultChunk = 4096

// Bus is a connection plus its D/C line.
//
// Bus is not safe for concurrent use.
type Bus struct {
	c     conn.Conn
	dc    gpio.PinOut
	wide  bool
	mode  Mode
	chunk int
	sleep func(time.Duration)
	// toggles counts D/C line transitions.
	toggles int
	buf     []byte
}

// New returns a Bus for an 8 bits wide connection.
//
// The D/C line is driven Low so the bus starts in Command mode.
func New(c conn.Conn, dc gpio.PinOut) (*Bus, error) {
	return newBus(c, dc, false)
}

// NewWide returns a Bus for a 16 bits wide connection, where each pair of
// bytes given to c.Tx is one bus word, high byte first.
func NewWide(c conn.Conn, dc gpio.PinOut) (*Bus, error) {
	return newBus(c, dc, true)
}

func newBus(c conn.Conn, dc gpio.PinOut, wide bool) (*Bus, error) {
	if c == nil {
		return nil, errors.New("dcbus: nil connection")
	}
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("dcbus: a D/C pin is required")
	}
	if err := dc.Out(Command.level()); err != nil {
		return nil, fmt.Errorf("dcbus: failed to drive D/C: %w", err)
	}
	b := &Bus{
		c:     c,
		dc:    dc,
		wide:  wide,
		mode:  Command,
		chunk: defaultChunk,
		sleep: time.Sleep,
	}
	if l, ok := c.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 {
			b.chunk = n
		}
	}
	if wide {
		// Never split a word.
		b.chunk &^= 1
		if b.chunk == 0 {
			b.chunk = 2
		}
	}
	return b, nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("dcbus.Bus{%s, %s}", b.c, b.dc)
}

// Mode returns the mode asserted on the D/C line.
func (b *Bus) Mode() Mode {
	return b.mode
}

// Toggles returns the number of D/C line transitions since New.
func (b *Bus) Toggles() int {
	return b.toggles
}

// SetSleep replaces the function used for blocking delays. It is meant for
// tests.
func (b *Bus) SetSleep(f func(time.Duration)) {
	b.sleep = f
}

// Sleep blocks for d.
func (b *Bus) Sleep(d time.Duration) {
	if d > 0 {
		b.sleep(d)
	}
}

// AssertCommand puts the bus in Command mode. It is a no-op when the bus is
// already in Command mode.
func (b *Bus) AssertCommand() error {
	return b.assert(Command)
}

// AssertData puts the bus in Data mode. It is a no-op when the bus is already
// in Data mode.
func (b *Bus) AssertData() error {
	return b.assert(Data)
}

func (b *Bus) assert(m Mode) error {
	if b.mode == m {
		return nil
	}
	if err := b.dc.Out(m.level()); err != nil {
		return fmt.Errorf("dcbus: failed to assert %s: %w", m, err)
	}
	b.mode = m
	b.toggles++
	return nil
}

// Command sends command bytes.
func (b *Bus) Command(cmd ...byte) error {
	if err := b.AssertCommand(); err != nil {
		return err
	}
	return b.tx(cmd)
}

// Data sends data bytes.
func (b *Bus) Data(data ...byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := b.AssertData(); err != nil {
		return err
	}
	return b.tx(data)
}

// DataWords sends 16-bit data words, high byte first.
func (b *Bus) DataWords(words []uint16) error {
	if len(words) == 0 {
		return nil
	}
	if err := b.AssertData(); err != nil {
		return err
	}
	per := b.perTx()
	for len(words) != 0 {
		n := min(len(words), per)
		buf := b.buffer(2 * n)
		for i, w := range words[:n] {
			buf[2*i] = byte(w >> 8)
			buf[2*i+1] = byte(w)
		}
		if err := b.send(buf); err != nil {
			return err
		}
		words = words[n:]
	}
	return nil
}

// RepeatWord sends the data word w n times.
func (b *Bus) RepeatWord(w uint16, n int) error {
	if n <= 0 {
		return nil
	}
	if err := b.AssertData(); err != nil {
		return err
	}
	per := min(n, b.perTx())
	buf := b.buffer(2 * per)
	for i := 0; i < per; i++ {
		buf[2*i] = byte(w >> 8)
		buf[2*i+1] = byte(w)
	}
	for n != 0 {
		k := min(n, per)
		if err := b.send(buf[:2*k]); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

// tx sends bytes in the current mode, widening them to words on a 16-bit
// bus.
func (b *Bus) tx(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if !b.wide {
		return b.send(p)
	}
	per := b.perTx()
	for len(p) != 0 {
		n := min(len(p), per)
		buf := b.buffer(2 * n)
		for i, v := range p[:n] {
			buf[2*i] = 0
			buf[2*i+1] = v
		}
		if err := b.c.Tx(buf, nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// perTx returns the number of words encoded per pass. It is at least 1.
func (b *Bus) perTx() int {
	return max(1, b.chunk/2)
}

// send writes p in transfers of at most chunk bytes. A chunk smaller than a
// word only happens on an 8 bits wide bus, where splitting a word is fine.
func (b *Bus) send(p []byte) error {
	for len(p) > b.chunk {
		if err := b.c.Tx(p[:b.chunk], nil); err != nil {
			return err
		}
		p = p[b.chunk:]
	}
	return b.c.Tx(p, nil)
}

func (b *Bus) buffer(n int) []byte {
	if cap(b.buf) < n {
		b.buf = make([]byte, n)
	}
	return b.buf[:n]
}
