// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import (
	"errors"

	"rsc.io/lc3/translate"
)

var f = translate.From

var (
	ErrFileOpen      = errors.New(f("cannot open object file"))
	ErrObjectFormat  = errors.New(f("malformed object file"))
	ErrMemoryBounds  = errors.New(f("program does not fit in memory"))
	ErrInvalidOpcode = errors.New(f("invalid opcode"))
	ErrTrapVector    = errors.New(f("unsupported trap vector"))
	ErrConsole       = errors.New(f("console"))
)

// An ExecError reports the instruction that stopped the CPU.
type ExecError struct {
	PC   uint16 // address of the instruction
	Inst uint16 // the instruction bits
	Err  error
}

func (e *ExecError) Error() string {
	return f("x%04X: x%04X (%s): %v", e.PC, e.Inst, Disasm(e.Inst, e.PC), e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
