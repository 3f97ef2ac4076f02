// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import "fmt"

// ALU computes the operate instructions.
// NOT complements lhs and ignores rhs.
// ALU panics for any other opcode.
func ALU(op Opcode, lhs, rhs uint16) uint16 {
	switch op {
	case ADD:
		return lhs + rhs
	case AND:
		return lhs & rhs
	case NOT:
		return ^lhs
	}
	panic(fmt.Sprintf("lc3: ALU cannot execute %v", op))
}
