package image1bit

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"
)

func TestBitRGBA(t *testing.T) {
	tests := []struct {
		name string
		bit  Bit
		want uint32
	}{
		{"black", false, 0x0000},
		{"white", true, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.bit.RGBA()
			if r != tt.want || g != tt.want || b != tt.want || a != 0xFFFF {
				t.Errorf("RGBA() = (%x, %x, %x, %x), want (%x, %x, %x, %x)",
					r, g, b, a, tt.want, tt.want, tt.want, uint32(0xFFFF))
			}
		})
	}
}

func TestBitModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Bit
	}{
		{"bit passthrough", Bit(true), true},
		{"black", color.Black, false},
		{"white", color.White, true},
		{"dark gray", color.Gray{Y: 0x40}, false},
		{"light gray", color.Gray{Y: 0xC0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BitModel.Convert(tt.input).(Bit)
			if got != tt.want {
				t.Errorf("BitModel.Convert(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRowStride(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{1, 4},
		{8, 4},
		{31, 4},
		{32, 4},
		{33, 8},
		{64, 8},
		{65, 12},
		{144, 20},
	}

	for _, tt := range tests {
		if got := RowStride(tt.width); got != tt.want {
			t.Errorf("RowStride(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}

	for w := 1; w <= 144; w++ {
		want := 4 * ((w + 31) / 32)
		if got := RowStride(w); got != want || got%4 != 0 || got*8 < w {
			t.Errorf("RowStride(%d) = %d, want %d", w, got, want)
		}
	}
}

func TestReverseBits(t *testing.T) {
	tests := []struct {
		in, want byte
	}{
		{0x00, 0x00},
		{0x01, 0x80},
		{0x80, 0x01},
		{0x0F, 0xF0},
		{0xA0, 0x05},
		{0xFF, 0xFF},
	}
	for _, tt := range tests {
		if got := ReverseBits(tt.in); got != tt.want {
			t.Errorf("ReverseBits(0x%02X) = 0x%02X, want 0x%02X", tt.in, got, tt.want)
		}
	}
}

func TestReverseBitsInvolution(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		if got := ReverseBits(ReverseBits(b)); got != b {
			t.Errorf("ReverseBits(ReverseBits(0x%02X)) = 0x%02X", b, got)
		}
	}
}

func TestNewBitmap(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		wantStride int
		wantPixLen int
	}{
		{"144x168", image.Rect(0, 0, 144, 168), 20, 20 * 168},
		{"1x1", image.Rect(0, 0, 1, 1), 4, 4},
		{"33x2", image.Rect(0, 0, 33, 2), 8, 16},
		{"offset rect", image.Rect(10, 20, 18, 22), 4, 8},
		{"empty", image.Rect(0, 0, 0, 0), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewBitmap(tt.rect)
			if img.Rect != tt.rect {
				t.Errorf("Rect = %v, want %v", img.Rect, tt.rect)
			}
			if img.Stride != tt.wantStride {
				t.Errorf("Stride = %d, want %d", img.Stride, tt.wantStride)
			}
			if len(img.Pix) != tt.wantPixLen {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
			}
			if cap(img.Pix) != tt.wantPixLen+1 {
				t.Errorf("cap(Pix) = %d, want guard byte (%d)", cap(img.Pix), tt.wantPixLen+1)
			}
		})
	}
}

func TestBitmapBitPacking(t *testing.T) {
	img := NewBitmap(image.Rect(0, 0, 16, 1))

	img.SetBit(0, 0, true)
	img.SetBit(7, 0, true)
	img.SetBit(9, 0, true)

	// x=0 is the MSB
	if img.Pix[0] != 0x81 {
		t.Errorf("Pix[0] = 0x%02X, want 0x81", img.Pix[0])
	}
	if img.Pix[1] != 0x40 {
		t.Errorf("Pix[1] = 0x%02X, want 0x40", img.Pix[1])
	}

	img.SetBit(0, 0, false)
	if img.Pix[0] != 0x01 {
		t.Errorf("Pix[0] after clear = 0x%02X, want 0x01", img.Pix[0])
	}
	if !img.BitAt(7, 0) || img.BitAt(8, 0) || !img.BitAt(9, 0) {
		t.Error("BitAt does not match SetBit")
	}
}

func TestBitmapOutOfBounds(t *testing.T) {
	img := NewBitmap(image.Rect(0, 0, 8, 2))

	// Must not panic or write anything
	img.SetBit(-1, 0, true)
	img.SetBit(8, 0, true)
	img.SetBit(0, 2, true)

	for i, b := range img.Pix {
		if b != 0 {
			t.Errorf("Pix[%d] = 0x%02X, want 0", i, b)
		}
	}
	if img.BitAt(100, 100) {
		t.Error("BitAt out of bounds should be black")
	}
}

func TestBitmapDraw(t *testing.T) {
	img := NewBitmap(image.Rect(0, 0, 8, 2))
	draw.Draw(img, image.Rect(0, 1, 8, 2), image.NewUniform(color.White), image.Point{}, draw.Src)

	if img.Pix[0] != 0x00 {
		t.Errorf("row 0 = 0x%02X, want 0x00", img.Pix[0])
	}
	if img.Pix[4] != 0xFF {
		t.Errorf("row 1 = 0x%02X, want 0xFF", img.Pix[4])
	}
	if got := img.Row(1); len(got) != 4 || got[0] != 0xFF {
		t.Errorf("Row(1) = %x, want ff000000", got)
	}
}

func TestBitmapEqual(t *testing.T) {
	a := NewBitmap(image.Rect(0, 0, 8, 1))
	b := NewBitmap(image.Rect(0, 0, 8, 1))
	if !a.Equal(b) {
		t.Error("zero bitmaps should be equal")
	}
	b.SetBit(3, 0, true)
	if a.Equal(b) {
		t.Error("bitmaps differing in one pixel should not be equal")
	}
	if a.Equal(nil) {
		t.Error("bitmap should not equal nil")
	}
}

func TestBitmapString(t *testing.T) {
	img := NewBitmap(image.Rect(0, 0, 4, 3))
	s := img.String()
	if n := strings.Count(s, "\n"); n != 3 {
		t.Errorf("String() has %d lines, want 3", n)
	}
}
