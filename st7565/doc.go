// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7565 controls a monochrome LCD driven by a Sitronix ST7565
// controller over 4-wire SPI.
//
// The driver keeps a copy of the display RAM in memory. Fill and Map update
// that copy for the clipped area and then send the pages the area touches,
// starting at the first column of the area. Nothing else is sent, so small
// updates are cheap even on a slow bus.
//
// The panels this driver targets have their page order wired upside down
// relative to the controller RAM, so page 0 of the memory copy goes to the
// last RAM page.
//
// The A0 pin (RS on some boards) is the D/C line. The RST pin is
// optional; when present it is pulsed by Init.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/ST7565.pdf
package st7565
