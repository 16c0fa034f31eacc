package image1bit

import (
	"errors"
	"image"
)

// ErrShortBuffer is returned when a Raster holds fewer bytes than its
// dimensions require.
var ErrShortBuffer = errors.New("image1bit: raster buffer too short")

// Raster is a decoded 1-bit image as produced by a decoder: rows of
// ceil(W/8) bytes, least-significant-bit first, and a placement offset
// relative to the reference origin.
type Raster struct {
	W, H             int
	Pix              []byte
	XOffset, YOffset int
}

// Stride returns the number of bytes per source row.
func (r *Raster) Stride() int {
	return (r.W + 7) / 8
}

// Converter turns Rasters into device Bitmaps.
type Converter struct {
	// Display area; larger images are cropped
	MaxW, MaxH int

	// Fixed alignment frame the bitmap is placed in
	FrameW, FrameH int
	Origin         image.Point

	// Allocator for pixel buffers (default: Go heap)
	Alloc Allocator
}

// Pebble is the geometry of a 144x168 watch display with its 144x144
// image frame.
var Pebble = Converter{
	MaxW:   144,
	MaxH:   168,
	FrameW: 144,
	FrameH: 144,
	Origin: image.Point{X: -74, Y: -74},
}

func (c *Converter) allocator() Allocator {
	if c.Alloc == nil {
		return heap{}
	}
	return c.Alloc
}

// Convert builds a Bitmap from src and returns it with the rectangle it
// should be placed at. On error no buffer is retained.
func (c *Converter) Convert(src *Raster) (*Bitmap, image.Rectangle, error) {
	w, h := min(src.W, c.MaxW), min(src.H, c.MaxH)
	if w < 0 || h < 0 {
		return nil, image.Rectangle{}, errors.New("image1bit: negative raster size")
	}
	srcStride := src.Stride()
	if len(src.Pix) < srcStride*src.H {
		return nil, image.Rectangle{}, ErrShortBuffer
	}

	stride := RowStride(w)
	n := stride * h
	buf, err := c.allocator().Alloc(n + 1) // guard byte
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	dst := &Bitmap{
		Pix:    buf[:n],
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
	}

	rowBytes := (w + 7) / 8
	for y := 0; y < h; y++ {
		row := dst.Pix[y*stride : y*stride+rowBytes]
		copy(row, src.Pix[y*srcStride:y*srcStride+rowBytes])
		// Drop cropped pixels sharing the last byte
		if rem := w & 7; rem != 0 {
			row[rowBytes-1] &= byte(1<<uint(rem)) - 1
		}
	}

	// Source rows are LSB first; the device wants MSB first
	for i := range dst.Pix {
		dst.Pix[i] = ReverseBits(dst.Pix[i])
	}

	return dst, c.Placement(w, h, src.XOffset, src.YOffset), nil
}

// Placement returns the alignment frame for a w x h bitmap carrying the
// given offsets.
func (c *Converter) Placement(w, h, xOffset, yOffset int) image.Rectangle {
	x := c.Origin.X + (w+2)/2 + xOffset
	y := c.Origin.Y + (h+2)/2 + yOffset
	return image.Rect(x, y, x+c.FrameW, y+c.FrameH)
}

// Release returns the bitmap's buffer to a and clears Pix, so a second
// Release is a no-op.
func (p *Bitmap) Release(a Allocator) {
	if p == nil || p.Pix == nil {
		return
	}
	if a == nil {
		a = heap{}
	}
	a.Free(p.Pix[:cap(p.Pix)])
	p.Pix = nil
}
