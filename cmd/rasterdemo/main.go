// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// rasterdemo draws a test pattern on an ST7565 or R61581 display, or on the
// terminal when no panel is wired.
//
// Hardware Setup:
//
// ST7565 over SPI:
//
//	Display    Raspberry Pi
//	SCL        GPIO11 (SPI0 CLK)
//	SI         GPIO10 (SPI0 MOSI)
//	CS         GPIO8 (SPI0 CE0)
//	A0         GPIO25 (-dc)
//	RST        GPIO24 (-rst)
//
// R61581 over the 16-bit parallel bus: D0 to D15 on the pins listed by
// -data, WR on -wr, RS on -dc.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/GermanBionicSystems/displays/parbus"
	"github.com/GermanBionicSystems/displays/r61581"
	"github.com/GermanBionicSystems/displays/raster"
	"github.com/GermanBionicSystems/displays/st7565"
	"github.com/GermanBionicSystems/displays/termview"
)

var (
	driver   = flag.String("driver", "term", "Display: st7565, r61581 or term")
	width    = flag.Int("width", 0, "Display width in pixels, 0 for the driver default")
	height   = flag.Int("height", 0, "Display height in pixels, 0 for the driver default")
	spiBus   = flag.String("spi", "", "SPI bus name (empty for default)")
	dcPin    = flag.String("dc", "GPIO25", "Data/Command (A0, RS) pin name")
	rstPin   = flag.String("rst", "GPIO24", "Reset pin name, empty if not wired")
	blPin    = flag.String("bl", "", "R61581 backlight pin name")
	wrPin    = flag.String("wr", "GPIO26", "R61581 WR pin name")
	dataPins = flag.String("data", "GPIO0,GPIO1,GPIO2,GPIO3,GPIO4,GPIO5,GPIO6,GPIO7,GPIO12,GPIO13,GPIO14,GPIO15,GPIO16,GPIO17,GPIO18,GPIO19", "R61581 D0 to D15 pin names")
	contrast = flag.Int("contrast", st7565.DefaultOpts.Contrast, "ST7565 contrast, 0 to 63")
	flip     = flag.Bool("flip", false, "Rotate the image by 180°")
	preview  = flag.Bool("preview", false, "Also print the frame on the terminal")
)

// screen is what the demo needs from a driver.
type screen interface {
	raster.Display
	display.Drawer
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	var dev screen
	var err error
	switch *driver {
	case "st7565":
		dev, err = openST7565()
	case "r61581":
		dev, err = openR61581()
	case "term":
		dev, err = openTerm()
	default:
		log.Fatalf("unknown driver %q", *driver)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()
	if err := dev.Init(); err != nil {
		log.Fatalf("failed to initialize %s: %v", *driver, err)
	}
	fmt.Printf("Display initialized: %s\n", dev)
	switch d := dev.(type) {
	case *st7565.Dev:
		if *flip {
			if err := d.SetRotation(drivers.Rotation180); err != nil {
				log.Fatal(err)
			}
		}
	case *r61581.Dev:
		if *blPin != "" {
			if err := d.SetBacklight(true); err != nil {
				log.Fatal(err)
			}
		}
	}

	canvas, err := pattern(dev.Bounds())
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Draw(dev.Bounds(), canvas, image.Point{}); err != nil {
		log.Fatal(err)
	}
	if err := raster.DrawText(dev, image.Pt(2, 2), time.Now().Format("15:04:05"), color.White, color.Black); err != nil {
		log.Fatal(err)
	}

	// Corner markers through the two-step interface.
	b := dev.Bounds()
	for _, p := range []image.Point{image.Pt(0, b.Dy()-4), image.Pt(b.Dx()-4, b.Dy()-4)} {
		dev.SetArea(p.X, p.Y, p.X+3, p.Y+3)
		if err := dev.Fill(color.White); err != nil {
			log.Fatal(err)
		}
	}

	if d, ok := dev.(*st7565.Dev); ok {
		if err := d.SetContrast(*contrast); err != nil {
			log.Fatal(err)
		}
		tinyfont.WriteLine(d, &tinyfont.Picopixel, 6, int16(b.Dy()-8), "tinyfont", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
		if err := d.Display(); err != nil {
			log.Fatal(err)
		}
	}

	if *preview && *driver != "term" {
		tv, err := termview.New(&termview.Opts{W: b.Dx(), H: b.Dy()})
		if err != nil {
			log.Fatal(err)
		}
		var img image.Image = canvas
		if d, ok := dev.(*st7565.Dev); ok {
			img = d.Buffer()
		}
		if err := tv.Render(img); err != nil {
			log.Fatal(err)
		}
		_ = tv.Halt()
	}
}

// pattern renders the test pattern for a display of bounds r.
func pattern(r image.Rectangle) (image.Image, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	w, h := float64(r.Dx()), float64(r.Dy())
	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, w-1, h-1)
	dc.Stroke()
	dc.DrawCircle(w*3/4, h/2, h/4)
	dc.SetRGB(1, 0.2, 0.2)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: h / 5}))
	dc.DrawStringAnchored("periph", w/3, h/2, 0.5, 0.5)
	return dc.Image(), nil
}

func openST7565() (screen, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(*spiBus)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI bus: %w", err)
	}
	dc, err := pin(*dcPin)
	if err != nil {
		return nil, err
	}
	opts := st7565.DefaultOpts
	opts.Contrast = *contrast
	if *width != 0 {
		opts.W = *width
	}
	if *height != 0 {
		opts.H = *height
	}
	if *rstPin != "" {
		if opts.RST, err = pin(*rstPin); err != nil {
			return nil, err
		}
	}
	dev, err := st7565.NewSPI(p, dc, &opts)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

func openR61581() (screen, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	names := strings.Split(*dataPins, ",")
	if len(names) != parbus.Width {
		return nil, fmt.Errorf("-data needs %d pins, got %d", parbus.Width, len(names))
	}
	data := make([]gpio.PinOut, len(names))
	for i, n := range names {
		p, err := pin(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		data[i] = p
	}
	wr, err := pin(*wrPin)
	if err != nil {
		return nil, err
	}
	bus, err := parbus.New(data, wr)
	if err != nil {
		return nil, err
	}
	dc, err := pin(*dcPin)
	if err != nil {
		return nil, err
	}
	opts := r61581.DefaultOpts
	opts.Flip = *flip
	if *width != 0 {
		opts.W = *width
	}
	if *height != 0 {
		opts.H = *height
	}
	if *rstPin != "" {
		if opts.RST, err = pin(*rstPin); err != nil {
			return nil, err
		}
	}
	if *blPin != "" {
		if opts.BL, err = pin(*blPin); err != nil {
			return nil, err
		}
	}
	return r61581.New(bus, dc, &opts)
}

func openTerm() (screen, error) {
	opts := termview.Opts{W: 64, H: 32}
	if *width != 0 {
		opts.W = *width
	}
	if *height != 0 {
		opts.H = *height
	}
	return termview.New(&opts)
}

func pin(name string) (gpio.PinOut, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("GPIO pin %s not found", name)
	}
	return p, nil
}
