// Package image1bit provides the packed 1-bit bitmap used by 144x168
// monochrome memory-LCD displays, and the conversion from decoder output.
//
// Decoders emit a Raster: rows of ceil(W/8) bytes with the leftmost pixel in
// the least significant bit. The display wants a Bitmap: rows padded to a
// multiple of 4 bytes with the leftmost pixel in the most significant bit.
//
// Memory layout example for an 8-pixel row (white, black, black, ...):
//
//	Raster byte:  0x01  (bit 0 = x0)
//	Bitmap row:   0x80 0x00 0x00 0x00  (bit 7 = x0, padded to 4 bytes)
//
// This package provides:
//
// - Bit: A color type, true is white
// - BitModel: A color model converting standard Go colors to Bit
// - Bitmap: An image.Image / draw.Image implementation in device layout
// - Converter: Raster to Bitmap conversion with cropping and placement
// - Budget: An Allocator with a fixed byte limit
//
// Example usage:
//
//	conv := image1bit.Pebble
//	bm, frame, err := conv.Convert(raster)
//	if err != nil {
//		// image1bit.ErrResourceExhausted when the buffer can't be allocated
//	}
//	fmt.Print(bm) // text preview
package image1bit
