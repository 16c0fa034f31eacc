package image1bit

import (
	"bytes"
	"image"
	"image/color"
	"math/bits"
	"strings"

	"github.com/32bitkid/bitreader"
)

// Bit represents a monochrome pixel. true is white.
type Bit bool

// RGBA converts the Bit to standard RGBA.
func (c Bit) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// toBit converts any color.Color to Bit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// Same weights as the 4-bit model, threshold at mid-scale
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// Bitmap is a 1-bit image in the device-native layout.
type Bitmap struct {
	Pix    []byte          // Pixel data, Stride*Dy() bytes, MSB first
	Stride int             // Bytes per row, multiple of 4
	Rect   image.Rectangle // Image bounds
}

// RowStride returns the word-aligned number of bytes needed for a row of
// width pixels.
func RowStride(width int) int {
	return ((width + 31) / 32) * 4
}

// ReverseBits returns b with its bit order reversed. Applying it twice
// returns the original byte.
func ReverseBits(b byte) byte {
	return bits.Reverse8(b)
}

// NewBitmap creates a zeroed (black) bitmap with the specified bounds.
// The backing array carries one guard byte past Pix.
func NewBitmap(r image.Rectangle) *Bitmap {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Bitmap{Rect: r}
	}
	stride := RowStride(w)
	n := stride * h
	return &Bitmap{
		Pix:    make([]byte, n+1)[:n],
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Bitmap) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *Bitmap) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
func (p *Bitmap) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit at (x, y). Pixels outside the bounds are black.
func (p *Bitmap) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return false
	}
	offset, mask := p.pixOffset(x, y)
	return p.Pix[offset]&mask != 0
}

// Set sets the color of the pixel at (x, y).
func (p *Bitmap) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the Bit at (x, y) without color conversion.
func (p *Bitmap) SetBit(x, y int, c Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if c {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// Row returns the packed bytes of row y, including stride padding.
func (p *Bitmap) Row(y int) []byte {
	start := (y - p.Rect.Min.Y) * p.Stride
	return p.Pix[start : start+p.Stride]
}

// Equal reports whether both bitmaps have the same geometry and pixels.
func (p *Bitmap) Equal(o *Bitmap) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Rect == o.Rect && p.Stride == o.Stride && bytes.Equal(p.Pix, o.Pix)
}

// String renders the bitmap as text, one line per row: '█' for white,
// '░' for black.
func (p *Bitmap) String() string {
	var sb strings.Builder
	w, h := p.Rect.Dx(), p.Rect.Dy()
	for y := 0; y < h; y++ {
		br := bitreader.NewReader(bytes.NewReader(p.Pix[y*p.Stride : (y+1)*p.Stride]))
		for x := 0; x < w; x++ {
			v, err := br.Read8(1)
			if err != nil {
				break
			}
			if v == 1 {
				sb.WriteString("█")
			} else {
				sb.WriteString("░")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// pixOffset returns the byte offset and bit mask for the pixel at (x, y).
// x=0 is the most significant bit of the first byte of the row.
func (p *Bitmap) pixOffset(x, y int) (offset int, mask byte) {
	dx := x - p.Rect.Min.X
	offset = (y-p.Rect.Min.Y)*p.Stride + dx/8
	mask = 0x80 >> uint(dx&7)
	return
}
