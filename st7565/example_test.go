// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7565_test

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/displays/raster"
	"github.com/GermanBionicSystems/displays/st7565"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	// Use spireg SPI port registry to find the first available SPI port.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()
	a0 := gpioreg.ByName("GPIO25")
	if a0 == nil {
		log.Fatal("no A0 pin")
	}
	opts := st7565.DefaultOpts
	opts.RST = gpioreg.ByName("GPIO24")
	dev, err := st7565.NewSPI(p, a0, &opts)
	if err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("device=%s\n", dev)

	// Two-step drawing: select the area, then paint it.
	dev.SetArea(0, 0, 127, 7)
	if err := dev.Fill(color.White); err != nil {
		log.Fatal(err)
	}
	if err := raster.DrawText(dev, image.Pt(2, 20), "Hello from periph!", color.White, color.Black); err != nil {
		log.Fatal(err)
	}
}
