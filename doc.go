// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package displays is a container for raster display drivers.
//
// Every driver implements raster.Display: select a rectangle with SetArea,
// then paint it with Fill or Map. See st7565 for a monochrome SPI LCD and
// r61581 for a color TFT on a 16-bit parallel bus.
package displays
