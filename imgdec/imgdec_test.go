package imgdec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"testing"

	"golang.org/x/image/bmp"
)

// checker returns a w x h gray image with white at even x+y.
func checker(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// withOffset inserts an oFFs chunk right after IHDR.
func withOffset(data []byte, x, y int32, unit byte) []byte {
	body := make([]byte, 9)
	binary.BigEndian.PutUint32(body[0:4], uint32(x))
	binary.BigEndian.PutUint32(body[4:8], uint32(y))
	body[8] = unit

	chunk := make([]byte, 0, 21)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(body)))
	chunk = append(chunk, "oFFs"...)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	const ihdrEnd = 8 + 8 + 13 + 4
	out := append([]byte{}, data[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, data[ihdrEnd:]...)
}

func TestDecodePNG(t *testing.T) {
	r, err := Decode(encodePNG(t, checker(10, 2)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if r.W != 10 || r.H != 2 {
		t.Fatalf("size = %dx%d, want 10x2", r.W, r.H)
	}
	// LSB first: row 0 white at x=0,2,4,6,8; row 1 at x=1,3,5,7,9
	want := []byte{0x55, 0x01, 0xAA, 0x02}
	if !bytes.Equal(r.Pix, want) {
		t.Errorf("Pix = % x, want % x", r.Pix, want)
	}
	if r.XOffset != 0 || r.YOffset != 0 {
		t.Errorf("offset = (%d, %d), want (0, 0)", r.XOffset, r.YOffset)
	}
}

func TestDecodePNGOffset(t *testing.T) {
	tests := []struct {
		name         string
		unit         byte
		x, y         int32
		wantX, wantY int
	}{
		{"pixel unit", 0, 3, -2, 3, -2},
		{"micrometre unit ignored", 1, 3, -2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := withOffset(encodePNG(t, checker(4, 4)), tt.x, tt.y, tt.unit)
			r, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if r.XOffset != tt.wantX || r.YOffset != tt.wantY {
				t.Errorf("offset = (%d, %d), want (%d, %d)", r.XOffset, r.YOffset, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, checker(9, 1)); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}
	r, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []byte{0x55, 0x01}
	if !bytes.Equal(r.Pix, want) {
		t.Errorf("Pix = % x, want % x", r.Pix, want)
	}
}

func TestDecodeTransparentIsBlack(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x00})

	r, err := Decode(encodePNG(t, img))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if r.Pix[0] != 0x01 {
		t.Errorf("Pix[0] = 0x%02X, want 0x01", r.Pix[0])
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := encodePNG(t, checker(16, 16))

	tests := []struct {
		name     string
		data     []byte
		wantCode Code
	}{
		{"not an image", []byte("definitely not a png"), CodeFormat},
		{"empty", nil, CodeFormat},
		{"truncated", valid[:40], CodeMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode() error = %v, want *DecodeError", err)
			}
			if de.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", de.Code, tt.wantCode)
			}
		})
	}
}

func TestDecodeTruncatedPosition(t *testing.T) {
	valid := encodePNG(t, checker(16, 16))
	_, err := Decode(valid[:40])
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Decode() error = %v, want *DecodeError", err)
	}
	if de.Pos <= 0 || de.Pos > 40 {
		t.Errorf("Pos = %d, want within (0, 40]", de.Pos)
	}
}

// firstIDATEnd returns the offset just past the CRC of the first IDAT chunk.
func firstIDATEnd(t *testing.T, data []byte) int {
	t.Helper()
	for off := 8; off+12 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[off : off+4]))
		end := off + 12 + n
		if string(data[off+4:off+8]) == "IDAT" {
			return end
		}
		off = end
	}
	t.Fatal("no IDAT chunk")
	return 0
}

func TestDecodeChecksumPosition(t *testing.T) {
	// Noise does not compress, so the image data spans several IDAT chunks
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewGray(image.Rect(0, 0, 256, 256))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.UintN(256))
	}
	data := encodePNG(t, img)
	end := firstIDATEnd(t, data)
	if end >= len(data)-4096 {
		t.Fatalf("first IDAT ends at %d of %d, want several chunks", end, len(data))
	}
	data[end-1] ^= 0xFF

	_, err := Decode(data)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Decode() error = %v, want *DecodeError", err)
	}
	if de.Code != CodeMalformed {
		t.Errorf("Code = %v, want %v", de.Code, CodeMalformed)
	}
	if de.Pos != int64(end) {
		t.Errorf("Pos = %d, want %d (end of the corrupt chunk)", de.Pos, end)
	}
}
