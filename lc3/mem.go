// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import "fmt"

const (
	MemSize       = 1 << 16 // words of memory
	DefaultOrigin = 0x3000  // start of user programs
)

// A Memory represents an LC-3 memory.
// Addresses are words, and every 16-bit address is valid.
type Memory interface {
	Read(addr uint16) uint16
	Write(addr, val uint16)
}

// An ArrayMem is a Memory implementation backed by a 64K-word array.
type ArrayMem struct {
	words  [MemSize]uint16
	origin uint16
}

// NewArrayMem returns a zeroed memory whose origin is origin
// until the first LoadDense.
func NewArrayMem(origin uint16) *ArrayMem {
	return &ArrayMem{origin: origin}
}

func (m *ArrayMem) Read(addr uint16) uint16 {
	return m.words[addr]
}

func (m *ArrayMem) Write(addr, val uint16) {
	m.words[addr] = val
}

// LoadDense copies data into memory starting at start
// and makes start the memory's origin.
// The data must fit between start and the top of memory;
// if it does not, LoadDense writes nothing and returns ErrMemoryBounds.
func (m *ArrayMem) LoadDense(data []uint16, start uint16) error {
	if avail := MemSize - int(start); len(data) > avail {
		return fmt.Errorf("%w: %s", ErrMemoryBounds,
			f("%d words at x%04X, %d available", len(data), start, avail))
	}
	copy(m.words[start:], data)
	m.origin = start
	return nil
}

// Origin returns the start address of the most recent LoadDense.
func (m *ArrayMem) Origin() uint16 {
	return m.origin
}
