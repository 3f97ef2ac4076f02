// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import "fmt"

// An Opcode is the operation field of an instruction (bits 15-12).
type Opcode uint8

const (
	BR   Opcode = iota // branch
	ADD                // add
	LD                 // load
	ST                 // store
	JSR                // jump to subroutine; JSRR when bit 11 is clear
	AND                // bitwise and
	LDR                // load base+offset
	STR                // store base+offset
	RTI                // return from interrupt (untested)
	NOT                // bitwise complement
	LDI                // load indirect
	STI                // store indirect
	JMP                // jump; RET is JMP R7
	RES                // reserved
	LEA                // load effective address
	TRAP               // system call
)

var opnames = [...]string{
	BR:   "BR",
	ADD:  "ADD",
	LD:   "LD",
	ST:   "ST",
	JSR:  "JSR",
	AND:  "AND",
	LDR:  "LDR",
	STR:  "STR",
	RTI:  "RTI",
	NOT:  "NOT",
	LDI:  "LDI",
	STI:  "STI",
	JMP:  "JMP",
	RES:  "RES",
	LEA:  "LEA",
	TRAP: "TRAP",
}

func (op Opcode) String() string {
	if int(op) < len(opnames) {
		return opnames[op]
	}
	return fmt.Sprintf("op%d", uint8(op))
}

// A Category groups opcodes by the kind of effect they have.
type Category uint8

const (
	NoCategory   Category = iota
	Operate               // ALU operations: ADD, AND, NOT
	DataMovement          // loads, stores and LEA
	Control               // branches, jumps and subroutine calls
	Trap                  // service routines
)

func (c Category) String() string {
	switch c {
	case Operate:
		return "operate"
	case DataMovement:
		return "data movement"
	case Control:
		return "control"
	case Trap:
		return "trap"
	}
	return "none"
}

// categories maps every opcode to its category.
// RES has none and is therefore always an invalid instruction.
var categories = [16]Category{
	BR:   Control,
	ADD:  Operate,
	LD:   DataMovement,
	ST:   DataMovement,
	JSR:  Control,
	AND:  Operate,
	LDR:  DataMovement,
	STR:  DataMovement,
	RTI:  Control,
	NOT:  Operate,
	LDI:  DataMovement,
	STI:  DataMovement,
	JMP:  Control,
	RES:  NoCategory,
	LEA:  DataMovement,
	TRAP: Trap,
}

// Category returns the category of op.
func (op Opcode) Category() Category {
	return categories[op&0xF]
}

// Instruction fields. None of these functions look at the opcode:
// decoding a field the instruction does not have simply yields junk
// the caller ignores.

// Op returns the opcode of inst.
func Op(inst uint16) Opcode { return Opcode(inst >> 12) }

// DR returns the destination register (bits 11-9).
func DR(inst uint16) RegNum { return RegNum((inst >> 9) & 07) }

// SR returns the source register of a store, which shares the DR field.
func SR(inst uint16) RegNum { return DR(inst) }

// SR1 returns the first source register (bits 8-6).
func SR1(inst uint16) RegNum { return RegNum((inst >> 6) & 07) }

// BaseR returns the base register of LDR, STR, JMP and JSRR (bits 8-6).
func BaseR(inst uint16) RegNum { return SR1(inst) }

// SR2 returns the second source register (bits 2-0).
func SR2(inst uint16) RegNum { return RegNum(inst & 07) }

// IsImm reports whether an ADD or AND uses its immediate operand (bit 5).
func IsImm(inst uint16) bool { return (inst>>5)&1 != 0 }

// Imm5 returns the sign-extended 5-bit immediate.
func Imm5(inst uint16) uint16 { return SignExtend(inst, 5) }

// Offset6 returns the sign-extended 6-bit base offset.
func Offset6(inst uint16) uint16 { return SignExtend(inst, 6) }

// PCOffset9 returns the sign-extended 9-bit PC offset.
func PCOffset9(inst uint16) uint16 { return SignExtend(inst, 9) }

// PCOffset11 returns the sign-extended 11-bit PC offset of JSR.
func PCOffset11(inst uint16) uint16 { return SignExtend(inst, 11) }

// TrapVect8 returns the trap vector of a TRAP instruction.
func TrapVect8(inst uint16) TrapVector { return TrapVector(inst & 0xFF) }

// CondN reports whether a branch tests the negative flag (bit 11).
func CondN(inst uint16) bool { return (inst>>11)&1 != 0 }

// CondZ reports whether a branch tests the zero flag (bit 10).
func CondZ(inst uint16) bool { return (inst>>10)&1 != 0 }

// CondP reports whether a branch tests the positive flag (bit 9).
func CondP(inst uint16) bool { return (inst>>9)&1 != 0 }

// IsJSR reports whether a JSR-opcode instruction is the PC-relative
// JSR (bit 11 set) rather than the register-indirect JSRR.
func IsJSR(inst uint16) bool { return (inst>>11)&1 != 0 }

// SignExtend returns the low width bits of v widened to 16 bits
// as a two's complement value.
func SignExtend(v uint16, width uint) uint16 {
	sign := uint16(1) << (width - 1)
	v &= sign<<1 - 1
	return (v ^ sign) - sign
}
