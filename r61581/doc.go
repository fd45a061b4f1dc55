// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package r61581 controls a 480x320 TFT driven by a Renesas R61581
// controller over a 16-bit 8080 parallel bus.
//
// Pixels are streamed as RGB565 words straight into the controller RAM
// window; nothing is cached on the host.
//
// The bus is any conn.Conn where each pair of bytes is one bus word, usually
// a parbus.Bus. When the connection has a SetWait method, Init runs the bus
// slowly until the controller PLL is up and switches to full speed
// afterwards.
package r61581
