// Package resource provides numbered, read-only image resources.
//
// Resources are identified by sequential IDs starting at a fixed base. The
// first ID that fails to resolve marks the end of the sequence.
package resource

import (
	"errors"
	"fmt"
)

// ID identifies a resource.
type ID int

// Handle is a resolved resource.
type Handle struct {
	ID   ID
	Name string
	size int
}

// ErrNotFound is returned by Resolve for an unknown ID.
var ErrNotFound = errors.New("resource: not found")

// Store is a source of resources.
type Store interface {
	// Resolve returns the handle for id, or ErrNotFound.
	Resolve(id ID) (Handle, error)
	// Size returns the number of bytes in the resource.
	Size(h Handle) int
	// Load fills buf with the resource contents. buf must hold Size(h) bytes.
	Load(h Handle, buf []byte) error
}

// Discover counts the resources resolving consecutively from first.
func Discover(s Store, first ID) int {
	n := 0
	for {
		if _, err := s.Resolve(first + ID(n)); err != nil {
			return n
		}
		n++
	}
}

// Read resolves id and returns its contents.
func Read(s Store, id ID) ([]byte, error) {
	h, err := s.Resolve(id)
	if err != nil {
		return nil, fmt.Errorf("resource %d: %w", id, err)
	}
	buf := make([]byte, s.Size(h))
	if err := s.Load(h, buf); err != nil {
		return nil, fmt.Errorf("resource %d: %w", id, err)
	}
	return buf, nil
}

// Mem is an in-memory Store.
type Mem map[ID][]byte

// Resolve implements Store.
func (m Mem) Resolve(id ID) (Handle, error) {
	b, ok := m[id]
	if !ok {
		return Handle{}, ErrNotFound
	}
	return Handle{ID: id, Name: fmt.Sprintf("mem:%d", id), size: len(b)}, nil
}

// Size implements Store.
func (m Mem) Size(h Handle) int { return h.size }

// Load implements Store.
func (m Mem) Load(h Handle, buf []byte) error {
	b, ok := m[h.ID]
	if !ok {
		return ErrNotFound
	}
	if len(buf) < len(b) {
		return errors.New("resource: buffer too small")
	}
	copy(buf, b)
	return nil
}
