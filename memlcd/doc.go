// Package memlcd controls a Sharp memory LCD via SPI.
//
// Memory LCDs (LS013B7DH01 144×168, LS027B7DH01 400×240, ...) are 1-bit
// reflective panels with an SRAM cell behind each pixel. They hold their
// image without refresh, so this driver only sends the lines that changed.
//
// # Display Characteristics
//
// - 1-bit monochrome, set bits are white
// - Line-addressed writes: any subset of lines can be updated in one transfer
// - VCOM polarity must be toggled periodically (about 1Hz) with ToggleVCOM
// - Chip select is active high
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VIN         → 3.3V or 5V (breakout dependent)
//	CLK         → SPI Clock (SCLK)
//	DI          → SPI Data (MOSI)
//	CS          → GPIO (active high, pass as Opts.CS)
//	DISP        → Optional: GPIO for display on/off
//	EXTCOMIN    → GND (VCOM toggled in software)
//
// # Basic Usage
//
//	spiBus, _ := spireg.Open("")
//	dev, _ := memlcd.NewSPI(spiBus, &memlcd.Opts{
//		CS:   gpioreg.ByName("GPIO8"),
//		DISP: gpioreg.ByName("GPIO24"),
//	})
//	defer dev.Halt()
//
//	bm := image1bit.NewBitmap(image.Rect(0, 0, 144, 144))
//	dev.Install(bm)
//	dev.SetPlacement(image.Rect(0, 12, 144, 156))
//	dev.MarkDirty()
//
// # Frame Placement
//
// Install and SetPlacement take a bitmap and the frame it is centered in.
// MarkDirty composes the bitmap over a black screen, clipped to the panel,
// and transmits only the lines that differ from what the panel shows. Draw
// and Write are available for drawing arbitrary images and raw frames.
package memlcd
