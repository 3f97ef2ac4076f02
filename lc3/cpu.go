// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lc3 simulates the LC-3, a 16-bit educational CPU with
// eight general registers, a 64K-word memory and a handful of trap
// routines for console I/O.
package lc3

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// A CPU represents a single LC-3 CPU, connected to a memory and a console.
type CPU struct {
	PC    PC        // program counter
	Reg   Registers // general registers and condition flag
	State State     // Running or Halted
	Inst  uint16    // instruction being executed
	Mem   Memory    // attached memory
	Trap  TrapHandler

	// Log, if non-nil, receives a debug entry for every
	// instruction executed and every trap taken.
	Log logrus.FieldLogger
}

// NewCPU returns a halted CPU attached to mem and con.
// The program counter starts at the memory's origin if it reports one,
// and at DefaultOrigin otherwise.
func NewCPU(mem Memory, con Console) *CPU {
	cpu := &CPU{
		Mem:  mem,
		Trap: TrapHandler{Console: con, Prompt: DefaultPrompt},
	}
	cpu.Reg.Reset()
	cpu.PC.Set(DefaultOrigin)
	if o, ok := mem.(interface{ Origin() uint16 }); ok {
		cpu.PC.Set(o.Origin())
	}
	return cpu
}

// A State is the run state of a CPU.
type State uint8

const (
	Halted State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "halted"
}

// A PC is the program counter.
// All arithmetic on it wraps around the 16-bit address space.
type PC uint16

// Get returns the address of the next instruction.
func (pc PC) Get() uint16 { return uint16(pc) }

// Set jumps to addr.
func (pc *PC) Set(addr uint16) { *pc = PC(addr) }

// Add moves the program counter by a sign-extended offset.
func (pc *PC) Add(off uint16) { *pc += PC(off) }

// A RegNum is a register number: R0..R7, or RCond for the flag register.
type RegNum uint8

const (
	R0 RegNum = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7    // return address of JSR and JSRR
	RCond // condition flags, read-only to instructions
)

// String returns the register name for r: R0..R7 or COND.
func (r RegNum) String() string {
	if r == RCond {
		return "COND"
	}
	return fmt.Sprintf("R%d", r)
}

// A Flag is the condition code. Exactly one of
// FlagP, FlagZ and FlagN is set at any time.
// The bit values match the n, z and p bits of BR.
type Flag uint16

const (
	FlagP Flag = 1 << 0 // last result was positive
	FlagZ Flag = 1 << 1 // last result was zero
	FlagN Flag = 1 << 2 // last result was negative
)

func (f Flag) String() string {
	var b []byte
	if f&FlagN != 0 {
		b = append(b, 'n')
	}
	if f&FlagZ != 0 {
		b = append(b, 'z')
	}
	if f&FlagP != 0 {
		b = append(b, 'p')
	}
	if len(b) == 0 {
		return "-"
	}
	return string(b)
}

// flagOf returns the condition code for v read as a signed value.
func flagOf(v uint16) Flag {
	switch {
	case v == 0:
		return FlagZ
	case v>>15 != 0:
		return FlagN
	}
	return FlagP
}

// Registers holds the general registers and the condition flag
// derived from the last flag-affecting write.
// The zero Registers has no flag set; use Reset.
type Registers struct {
	r    [8]uint16
	cond Flag
}

// Reset clears every register and sets the zero flag.
func (rs *Registers) Reset() {
	*rs = Registers{cond: FlagZ}
}

// Read returns the value of r.
func (rs *Registers) Read(r RegNum) uint16 {
	if r == RCond {
		return uint16(rs.cond)
	}
	return rs.r[r&07]
}

// Write stores val in r. If updateFlags is set and r is a general
// register, the condition flag is recomputed from val.
// Writing RCond stores the flag bits verbatim.
func (rs *Registers) Write(r RegNum, val uint16, updateFlags bool) {
	if r == RCond {
		rs.cond = Flag(val)
		return
	}
	rs.r[r&07] = val
	if updateFlags {
		rs.cond = flagOf(val)
	}
}

// Cond returns the current condition flag.
func (rs *Registers) Cond() Flag { return rs.cond }

func (rs *Registers) String() string {
	var b strings.Builder
	for i, v := range rs.r {
		fmt.Fprintf(&b, "%v=%04X ", RegNum(i), v)
	}
	fmt.Fprintf(&b, "%v=%v", RCond, rs.cond)
	return b.String()
}
