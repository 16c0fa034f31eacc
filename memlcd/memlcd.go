// Package memlcd controls a Sharp memory LCD via SPI.
//
// Pixels are 1-bit, white when set, in the image1bit.Bitmap layout.
package memlcd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/flavioheleno/flipbook/image1bit"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Command bits of the first byte, MSB first on the wire.
const (
	cmdWrite = 0x80
	cmdVCOM  = 0x40
	cmdClear = 0x20
)

// Opts is the configuration for the memory LCD.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 144, must be a multiple of 8 and ≤400)
	H int // Height (default: 168, must be ≤255)

	// Optional pins
	DISP gpio.PinOut // Display on/off (nil if tied high)
	CS   gpio.PinOut // Active-high chip select (nil if handled by the bus)
}

// Dev is the device handle for the memory LCD.
type Dev struct {
	// Communication
	c    conn.Conn
	cs   gpio.PinOut
	disp gpio.PinOut

	// Display geometry
	rect image.Rectangle

	// Pixel buffers
	fb   *image1bit.Bitmap // Frame being composed
	last *image1bit.Bitmap // Frame on the panel

	// Installed frame
	bm    *image1bit.Bitmap
	place image.Rectangle

	// State
	vcom   bool
	halted bool
}

// NewSPI creates a new memory LCD connected via SPI.
//
// The SPI port is configured for 2MHz, Mode0, 8-bit transfers.
//
// opts can be nil to use defaults (144x168 display).
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	c, err := p.Connect(2*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return New(c, opts)
}

// New creates a memory LCD on an established connection.
func New(c conn.Conn, opts *Opts) (*Dev, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Opts{}
	}
	w, h := opts.W, opts.H
	if w == 0 && h == 0 {
		w, h = 144, 168
	}

	rect := image.Rect(0, 0, w, h)
	d := &Dev{
		c:    c,
		cs:   opts.CS,
		disp: opts.DISP,
		rect: rect,
		fb:   image1bit.NewBitmap(rect),
		last: image1bit.NewBitmap(rect),
	}

	if d.cs != nil {
		if err := d.cs.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("memlcd: failed to pull CS low: %w", err)
		}
	}
	if err := d.Clear(); err != nil {
		return nil, err
	}
	if d.disp != nil {
		if err := d.disp.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("memlcd: failed to pull DISP high: %w", err)
		}
	}
	return d, nil
}

func validate(opts *Opts) error {
	if opts == nil || (opts.W == 0 && opts.H == 0) {
		return nil
	}
	if opts.W <= 0 || opts.W%8 != 0 || opts.W > 400 {
		return errors.New("memlcd: width must be a multiple of 8 between 8 and 400")
	}
	if opts.H <= 0 || opts.H > 255 {
		return errors.New("memlcd: height must be between 1 and 255")
	}
	return nil
}

// tx sends one command frame with chip select asserted.
func (d *Dev) tx(w []byte) error {
	if d.cs != nil {
		if err := d.cs.Out(gpio.High); err != nil {
			return err
		}
	}
	err := d.c.Tx(w, nil)
	if d.cs != nil {
		if csErr := d.cs.Out(gpio.Low); err == nil {
			err = csErr
		}
	}
	return err
}

func (d *Dev) mode(cmd byte) byte {
	if d.vcom {
		cmd |= cmdVCOM
	}
	return cmd
}

// Clear blanks the panel.
func (d *Dev) Clear() error {
	if d.halted {
		return errors.New("memlcd: halted")
	}
	if err := d.tx([]byte{d.mode(cmdClear), 0x00}); err != nil {
		return err
	}
	clear(d.last.Pix)
	return nil
}

// ToggleVCOM flips the common electrode polarity. The panel needs this about
// once a second to avoid image retention.
func (d *Dev) ToggleVCOM() error {
	if d.halted {
		return errors.New("memlcd: halted")
	}
	d.vcom = !d.vcom
	return d.tx([]byte{d.mode(0), 0x00})
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Install sets the bitmap shown by the next MarkDirty. The bitmap is read,
// not copied, when the frame is composed.
func (d *Dev) Install(bm *image1bit.Bitmap) error {
	if d.halted {
		return errors.New("memlcd: halted")
	}
	d.bm = bm
	return nil
}

// SetPlacement sets the frame the installed bitmap is centered in.
func (d *Dev) SetPlacement(r image.Rectangle) {
	d.place = r
}

// MarkDirty composes the installed bitmap over a black screen and sends the
// lines that changed.
func (d *Dev) MarkDirty() error {
	if d.halted {
		return errors.New("memlcd: halted")
	}
	clear(d.fb.Pix)
	if d.bm != nil && d.bm.Pix != nil {
		size := d.bm.Rect.Size()
		origin := d.place.Min.Add(d.place.Size().Sub(size).Div(2))
		draw.Draw(d.fb, image.Rectangle{Min: origin, Max: origin.Add(size)}, d.bm, d.bm.Rect.Min, draw.Src)
	}
	return d.flush()
}

// Draw draws src onto the display and sends the lines that changed.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errors.New("memlcd: halted")
	}
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}
	copy(d.fb.Pix, d.last.Pix)
	draw.Draw(d.fb, dst, src, sp, draw.Src)
	return d.flush()
}

// Write writes a full frame in image1bit layout (Stride*H bytes).
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errors.New("memlcd: halted")
	}
	if len(pixels) != len(d.fb.Pix) {
		return 0, errors.New("memlcd: invalid buffer size")
	}
	copy(d.fb.Pix, pixels)
	if err := d.flush(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// flush sends every line of fb that differs from the panel.
func (d *Dev) flush() error {
	lines := d.changedLines()
	if len(lines) == 0 {
		return nil
	}
	if err := d.tx(d.encodeLines(lines)); err != nil {
		return err
	}
	for _, y := range lines {
		copy(d.last.Row(y), d.fb.Row(y))
	}
	return nil
}

// changedLines returns the rows of fb that differ from last.
func (d *Dev) changedLines() []int {
	var lines []int
	for y := 0; y < d.rect.Dy(); y++ {
		if !bytes.Equal(d.fb.Row(y), d.last.Row(y)) {
			lines = append(lines, y)
		}
	}
	return lines
}

// encodeLines builds a multi-line write: mode byte, then per line its
// 1-based address (LSB first), the pixel bytes and a dummy byte, then a final
// dummy byte.
func (d *Dev) encodeLines(lines []int) []byte {
	lineBytes := d.rect.Dx() / 8
	buf := make([]byte, 0, 2+len(lines)*(lineBytes+2))
	buf = append(buf, d.mode(cmdWrite))
	for _, y := range lines {
		buf = append(buf, image1bit.ReverseBits(byte(y+1)))
		buf = append(buf, d.fb.Row(y)[:lineBytes]...)
		buf = append(buf, 0x00)
	}
	return append(buf, 0x00)
}

// Halt blanks the panel and switches the display off.
func (d *Dev) Halt() error {
	if err := d.Clear(); err != nil {
		return err
	}
	d.halted = true
	if d.disp != nil {
		return d.disp.Out(gpio.Low)
	}
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("memlcd.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
