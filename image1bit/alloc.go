package image1bit

import "errors"

// ErrResourceExhausted is returned when a pixel buffer cannot be allocated.
var ErrResourceExhausted = errors.New("image1bit: resource exhausted")

// Allocator hands out zeroed pixel buffers and takes them back.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte)
}

// heap allocates from the Go heap without limit.
type heap struct{}

func (heap) Alloc(n int) ([]byte, error) { return make([]byte, n), nil }
func (heap) Free([]byte)                 {}

// Budget is an Allocator with a fixed number of bytes available, modelling
// the small application heap of a watch.
//
// Budget is not safe for concurrent use.
type Budget struct {
	Limit int // Bytes available; 0 means unlimited

	inUse int
	live  int
}

// NewBudget returns a Budget holding limit bytes.
func NewBudget(limit int) *Budget {
	return &Budget{Limit: limit}
}

// Alloc returns a zeroed buffer of n bytes or ErrResourceExhausted.
func (b *Budget) Alloc(n int) ([]byte, error) {
	if n < 0 || (b.Limit > 0 && b.inUse+n > b.Limit) {
		return nil, ErrResourceExhausted
	}
	b.inUse += n
	b.live++
	return make([]byte, n), nil
}

// Free returns buf to the budget. buf must have come from Alloc and still
// have its original length.
func (b *Budget) Free(buf []byte) {
	if buf == nil {
		return
	}
	b.inUse -= len(buf)
	b.live--
}

// InUse returns the number of bytes currently allocated.
func (b *Budget) InUse() int { return b.inUse }

// Live returns the number of buffers currently allocated.
func (b *Budget) Live() int { return b.live }
