// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// An Object is a loadable program image.
//
// On disk an object file is a big-endian origin word followed by
// big-endian words to be loaded contiguously from the origin.
// A file holding only the origin is an empty program.
type Object struct {
	Origin uint16
	Words  []uint16
}

// StartAddress returns the address execution starts at.
func (o *Object) StartAddress() uint16 {
	return o.Origin
}

// ReadObject parses an object file from r.
func ReadObject(r io.Reader) (*Object, error) {
	o := &Object{}
	if err := binary.Read(r, binary.BigEndian, &o.Origin); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrObjectFormat, f("missing origin"))
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: %s", ErrObjectFormat, f("odd length %d", len(data)+2))
	}
	o.Words = make([]uint16, len(data)/2)
	for i := range o.Words {
		o.Words[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return o, nil
}

// WriteTo writes o to w in object file format.
func (o *Object) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 2+2*len(o.Words))
	binary.BigEndian.PutUint16(buf, o.Origin)
	for i, word := range o.Words {
		binary.BigEndian.PutUint16(buf[2+2*i:], word)
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadObjectFile reads the object file named by path.
func ReadObjectFile(path string) (*Object, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer fd.Close()
	o, err := ReadObject(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// LoadProgram reads the object file named by path
// and loads it into mem at its origin.
func LoadProgram(path string, mem *ArrayMem) (*Object, error) {
	o, err := ReadObjectFile(path)
	if err != nil {
		return nil, err
	}
	if err := mem.LoadDense(o.Words, o.Origin); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}
