// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcbus

import (
	"fmt"
	"time"
)

// Step is one entry of a controller programming table: a command, its
// parameters and how long to wait once they are sent.
type Step struct {
	Cmd   byte
	Data  []byte
	Delay time.Duration
}

func (s Step) String() string {
	return fmt.Sprintf("%#02x % x +%s", s.Cmd, s.Data, s.Delay)
}

// Play sends the steps in order. It stops at the first error.
func (b *Bus) Play(steps []Step) error {
	for i, s := range steps {
		if err := b.Command(s.Cmd); err != nil {
			return fmt.Errorf("dcbus: step %d (%s): %w", i, s, err)
		}
		if err := b.Data(s.Data...); err != nil {
			return fmt.Errorf("dcbus: step %d (%s): %w", i, s, err)
		}
		b.Sleep(s.Delay)
	}
	return nil
}

// Seq chains bus writes and keeps the first error. Once an error occurred,
// further writes are skipped.
type Seq struct {
	b   *Bus
	err error
}

// Seq returns a new write sequence on b.
func (b *Bus) Seq() *Seq {
	return &Seq{b: b}
}

// Command sends command bytes.
func (s *Seq) Command(cmd ...byte) {
	if s.err != nil {
		return
	}
	s.err = s.b.Command(cmd...)
}

// Data sends data bytes.
func (s *Seq) Data(data ...byte) {
	if s.err != nil {
		return
	}
	s.err = s.b.Data(data...)
}

// Err returns the first error of the sequence.
func (s *Seq) Err() error {
	return s.err
}
