// Package flipbook plays a numbered sequence of images as a short animation
// on a 1-bit display, once per gesture.
//
// Images are read from a resource.Store, decoded to a packed raster by
// package imgdec, converted to the display's bit order by package image1bit
// and handed to a Surface such as memlcd.Dev.
//
// # Playback
//
// - The sequence starts at id DefaultFirst and runs while ids resolve
// - A Tap shows the next image every DefaultDelay until the sequence wraps
// - The cycle ends on the first image with the Indicator switched off
// - Taps during a cycle are ignored
// - A frame that fails to load, decode or allocate is skipped
//
// # Memory
//
// Only one converted frame is resident. FrameStore builds the replacement
// before releasing the old buffer, so a failed conversion leaves the
// previous frame on screen. An image1bit.Budget bounds what the frames may
// use.
//
// # Basic Usage
//
// Example of wiring an Animator to a memory LCD:
//
//	dev, _ := memlcd.NewSPI(spiBus, &memlcd.Opts{CS: cs})
//	catalog, _ := resource.NewCatalog(os.DirFS("frames"), ".", flipbook.DefaultFirst)
//
//	l := loop.New(16)
//	a, err := flipbook.New(catalog, dev, l, &flipbook.Opts{
//		Light: flipbook.Backlight{Pin: backlight},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go flipbook.WatchPin(ctx, button, a.Tap)
//	l.Post(a.Start)
//	l.Run(ctx)
//
// # Threading
//
// Animator is driven from a single event loop (package loop). Only Tap is
// safe to call from other goroutines; it schedules the cycle on the loop
// instead of running it.
package flipbook
