// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dcbustest records the traffic of a D/C multiplexed bus: every
// transfer tagged with the D/C line level it was sent with, and every write
// to the D/C line.
package dcbustest

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Op is one transfer.
type Op struct {
	// Cmd is true when the D/C line was Low during the transfer.
	Cmd bool
	W   []byte
}

// Log records a bus. Use Conn and Pin to get the two ends to hand to the
// driver under test.
type Log struct {
	// Ops lists the transfers in order.
	Ops []Op
	// PinWrites counts calls to Out on the D/C pin.
	PinWrites int
	// Toggles counts calls to Out that changed the D/C level.
	Toggles int
	// Fail, when set, is returned by every transfer. Failed transfers are not
	// recorded.
	Fail error
	// MaxTx, when positive, is reported through conn.Limits. Transfers that
	// are empty or longer fail. Set it before handing Conn to the driver.
	MaxTx int

	pin *pin
}

// New returns an empty Log.
func New() *Log {
	l := &Log{}
	l.pin = &pin{Pin: gpiotest.Pin{N: "DC", Num: -1}, l: l}
	return l
}

// Conn returns the connection end of the bus.
func (l *Log) Conn() conn.Conn {
	return &logConn{l: l}
}

// Pin returns the D/C line of the bus.
func (l *Log) Pin() gpio.PinOut {
	return l.pin
}

// Reset forgets all the recorded traffic but keeps the D/C level.
func (l *Log) Reset() {
	l.Ops = nil
	l.PinWrites = 0
	l.Toggles = 0
}

// Merged returns the transfers with consecutive transfers of the same kind
// joined together.
func (l *Log) Merged() []Op {
	var out []Op
	for _, op := range l.Ops {
		if n := len(out); n != 0 && out[n-1].Cmd == op.Cmd {
			out[n-1].W = append(out[n-1].W, op.W...)
			continue
		}
		out = append(out, Op{Cmd: op.Cmd, W: append([]byte(nil), op.W...)})
	}
	return out
}

// Commands returns all the bytes sent in command mode.
func (l *Log) Commands() []byte {
	return l.collect(true)
}

// Data returns all the bytes sent in data mode.
func (l *Log) Data() []byte {
	return l.collect(false)
}

func (l *Log) collect(cmd bool) []byte {
	var out []byte
	for _, op := range l.Ops {
		if op.Cmd == cmd {
			out = append(out, op.W...)
		}
	}
	return out
}

type pin struct {
	gpiotest.Pin
	l *Log
}

func (p *pin) Out(level gpio.Level) error {
	p.l.PinWrites++
	if level != p.Read() {
		p.l.Toggles++
	}
	return p.Pin.Out(level)
}

type logConn struct {
	l *Log
}

func (c *logConn) String() string {
	return "dcbustest"
}

func (c *logConn) Halt() error {
	return nil
}

func (c *logConn) Duplex() conn.Duplex {
	return conn.Half
}

// MaxTxSize implements conn.Limits.
func (c *logConn) MaxTxSize() int {
	return c.l.MaxTx
}

func (c *logConn) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("dcbustest: reads are not supported")
	}
	if c.l.Fail != nil {
		return c.l.Fail
	}
	if c.l.MaxTx > 0 && (len(w) == 0 || len(w) > c.l.MaxTx) {
		return fmt.Errorf("dcbustest: transfer of %d bytes, limit is %d", len(w), c.l.MaxTx)
	}
	c.l.Ops = append(c.l.Ops, Op{
		Cmd: c.l.pin.Read() == gpio.Low,
		W:   append([]byte(nil), w...),
	})
	return nil
}

var _ conn.Conn = &logConn{}
var _ conn.Limits = &logConn{}
var _ gpio.PinOut = &pin{}
