// Package imgdec decodes PNG and BMP images into 1-bit rasters.
//
// Pixels are thresholded on CIE L*: anything at or above half lightness is
// white. Fully transparent pixels are black. Rows are packed least
// significant bit first, as image1bit.Converter expects.
//
// PNG files may carry an oFFs chunk; its pixel offsets become the raster's
// placement offsets.
package imgdec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG
	"io"

	colorful "github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp" // register BMP

	"github.com/flavioheleno/flipbook/image1bit"
)

// Code classifies a decode failure.
type Code int

const (
	CodeFormat    Code = iota + 1 // Not a recognised image format
	CodeMalformed                 // Truncated or corrupt image data
	CodeTooLarge                  // Dimensions exceed MaxDim
)

func (c Code) String() string {
	switch c {
	case CodeFormat:
		return "Code(Format)"
	case CodeMalformed:
		return "Code(Malformed)"
	case CodeTooLarge:
		return "Code(TooLarge)"
	}
	return "Code(UNKNOWN)"
}

// DecodeError reports why and where decoding failed.
type DecodeError struct {
	Code Code
	Pos  int64 // Bytes consumed by the codec when the error occurred
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("imgdec: %v at byte %d: %v", e.Code, e.Pos, e.Err)
	}
	return fmt.Sprintf("imgdec: %v at byte %d", e.Code, e.Pos)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MaxDim bounds the width and height accepted by Decode.
const MaxDim = 4096

// countingReader tracks how many bytes were read from the source.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Decode decodes a PNG or BMP image.
func Decode(data []byte) (*image1bit.Raster, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == image.ErrFormat {
		return nil, &DecodeError{Code: CodeFormat, Err: err}
	}
	if err != nil {
		return nil, &DecodeError{Code: CodeMalformed, Err: err}
	}
	if cfg.Width > MaxDim || cfg.Height > MaxDim {
		return nil, &DecodeError{Code: CodeTooLarge}
	}

	// image.Decode keeps a reader that can Peek as is, so read-ahead stays
	// in br and can be subtracted from what cr counted.
	cr := &countingReader{r: bytes.NewReader(data)}
	br := bufio.NewReader(cr)
	img, _, err := image.Decode(br)
	if err != nil {
		pos := cr.n - int64(br.Buffered())
		return nil, &DecodeError{Code: CodeMalformed, Pos: pos, Err: err}
	}

	r := Pack(img)
	if format == "png" {
		r.XOffset, r.YOffset = pngOffset(data)
	}
	return r, nil
}

// Pack thresholds img into an LSB-first Raster with zero offsets.
func Pack(img image.Image) *image1bit.Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := (w + 7) / 8
	r := &image1bit.Raster{W: w, H: h, Pix: make([]byte, stride*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if white(img.At(b.Min.X+x, b.Min.Y+y)) {
				r.Pix[y*stride+x/8] |= 1 << uint(x&7)
			}
		}
	}
	return r
}

func white(c color.Color) bool {
	col, ok := colorful.MakeColor(c)
	if !ok {
		// Fully transparent
		return false
	}
	l, _, _ := col.Lab()
	return l >= 0.5
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngOffset walks the PNG chunks and returns the oFFs offsets in pixels.
// Offsets in other units, or a missing chunk, give zero.
func pngOffset(data []byte) (x, y int) {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, 0
	}
	p := data[len(pngSignature):]
	for len(p) >= 12 {
		n := binary.BigEndian.Uint32(p[:4])
		typ := string(p[4:8])
		if uint64(n)+12 > uint64(len(p)) {
			return 0, 0
		}
		body := p[8 : 8+n]
		switch typ {
		case "oFFs":
			if n != 9 || body[8] != 0 {
				return 0, 0
			}
			return int(int32(binary.BigEndian.Uint32(body[0:4]))),
				int(int32(binary.BigEndian.Uint32(body[4:8])))
		case "IDAT", "IEND":
			// oFFs must precede the image data
			return 0, 0
		}
		p = p[12+n:]
	}
	return 0, 0
}
