// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseListing parses the text form of an object: hexadecimal
// words separated by white space, with comments running from ';'
// to the end of the line. Words may carry an x or 0x prefix.
// The first word is the origin.
func ParseListing(data []byte) (*Object, error) {
	var words []uint16
	for i, line := range strings.Split(string(data), "\n") {
		line, _, _ = strings.Cut(line, ";")
		for _, tok := range strings.Fields(line) {
			s := strings.ToLower(tok)
			s = strings.TrimPrefix(s, "0x")
			s = strings.TrimPrefix(s, "x")
			n, err := strconv.ParseUint(s, 16, 16)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrObjectFormat, f("line %d: bad word %q", i+1, tok))
			}
			words = append(words, uint16(n))
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrObjectFormat, f("missing origin"))
	}
	return &Object{Origin: words[0], Words: words[1:]}, nil
}

// Listing returns the text form of o, one word per line,
// each commented with its address and disassembly.
func (o *Object) Listing() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "x%04X\t\t; origin\n", o.Origin)
	for i, w := range o.Words {
		pc := o.Origin + uint16(i)
		fmt.Fprintf(&b, "x%04X\t\t; x%04X  %s\n", w, pc, Disasm(w, pc))
	}
	return b.Bytes()
}
