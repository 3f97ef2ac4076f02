// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import (
	"bufio"
	"io"
)

// A Console is the character device behind the trap routines.
// ReadByte blocks until a character is available.
// Output may be buffered until Flush.
type Console interface {
	io.ByteReader
	io.ByteWriter
	Flush() error
}

// A StreamConsole is a Console reading from and writing to streams.
type StreamConsole struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewStreamConsole returns a Console reading r and writing w.
func NewStreamConsole(r io.Reader, w io.Writer) *StreamConsole {
	return &StreamConsole{r: bufio.NewReader(r), w: bufio.NewWriter(w)}
}

func (c *StreamConsole) ReadByte() (byte, error) { return c.r.ReadByte() }

func (c *StreamConsole) WriteByte(b byte) error { return c.w.WriteByte(b) }

func (c *StreamConsole) Flush() error { return c.w.Flush() }

// WriteString writes the string stored one character per word
// starting at addr, stopping at (and not writing) the first
// word whose low byte is zero.
func WriteString(con Console, mem Memory, addr uint16) error {
	for n := 0; n < MemSize; n++ {
		c := byte(mem.Read(addr))
		if c == 0 {
			return nil
		}
		if err := con.WriteByte(c); err != nil {
			return err
		}
		addr++
	}
	return nil
}
