package flipbook

import (
	"image"

	"github.com/flavioheleno/flipbook/image1bit"
)

// FrameStore holds the single resident bitmap and its placement.
//
// The store owns the bitmap's buffer: callers may read Current but must not
// keep it across a Replace or Release.
type FrameStore struct {
	alloc image1bit.Allocator
	cur   *image1bit.Bitmap
	place image.Rectangle
}

// NewFrameStore returns an empty store returning buffers to alloc.
// A nil alloc leaves freed buffers to the garbage collector.
func NewFrameStore(alloc image1bit.Allocator) *FrameStore {
	return &FrameStore{alloc: alloc}
}

// Replace builds a new frame and swaps it in. If build fails the current
// frame is left untouched and the error returned.
func (s *FrameStore) Replace(build func() (*image1bit.Bitmap, image.Rectangle, error)) error {
	bm, place, err := build()
	if err != nil {
		return err
	}
	old := s.cur
	s.cur, s.place = bm, place
	old.Release(s.alloc)
	return nil
}

// Release frees the resident frame. Releasing an empty store does nothing.
func (s *FrameStore) Release() {
	old := s.cur
	s.cur, s.place = nil, image.Rectangle{}
	old.Release(s.alloc)
}

// Current returns the resident frame, or nil if the store is empty.
func (s *FrameStore) Current() (*image1bit.Bitmap, image.Rectangle) {
	return s.cur, s.place
}
