// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package raster defines the contract shared by the addressable raster display
// drivers of this module.
//
// A draw is always two steps: SetArea records the target rectangle, then Fill
// or Map paints it. The rectangle is not validated when it is recorded; it is
// clipped to the device bounds when the draw happens. A rectangle that lies
// entirely outside the device is silently skipped and causes no bus traffic.
// This lets scrolling or partial-update code pass coordinates that extend
// past the screen edges.
//
// The drivers are synchronous and not safe for concurrent use. Hold a mutex
// around the SetArea and Fill/Map pair when a display is shared.
package raster
