// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Run executes instructions until a HALT trap stops the CPU
// or an instruction fails.
func (cpu *CPU) Run() error {
	cpu.State = Running
	for cpu.State == Running {
		if err := cpu.Step(1); err != nil {
			return err
		}
	}
	return nil
}

// Step puts the CPU in the Running state and executes up to n
// instructions, stopping early if one of them halts the CPU.
// If an instruction fails, Step restores the registers and
// program counter to their values before that instruction,
// halts the CPU and returns an *ExecError.
func (cpu *CPU) Step(n int) (err error) {
	var (
		oldPC  PC
		oldReg Registers
	)
	defer func() {
		if e := recover(); e != nil {
			cpu.PC, cpu.Reg = oldPC, oldReg
			cpu.State = Halted
			if _, ok := e.(runtime.Error); ok {
				panic(e)
			}
			e1, ok := e.(error)
			if !ok {
				e1 = fmt.Errorf("%v", e)
			}
			err = &ExecError{PC: oldPC.Get(), Inst: cpu.Inst, Err: e1}
		}
	}()

	cpu.State = Running
	for ; n > 0; n-- {
		oldPC, oldReg = cpu.PC, cpu.Reg
		pc := cpu.PC.Get()
		inst := cpu.Mem.Read(pc)
		cpu.Inst = inst
		cpu.PC.Add(1)
		x, err := Dispatch(inst)
		if err != nil {
			panic(err)
		}
		if cpu.Log != nil {
			cpu.Log.WithFields(logrus.Fields{
				"pc":   fmt.Sprintf("x%04X", pc),
				"inst": fmt.Sprintf("x%04X", inst),
				"asm":  Disasm(inst, pc),
			}).Debug("step")
		}
		x(cpu, inst)
		if cpu.State == Halted {
			break
		}
	}
	return nil
}

// An Exec carries out one instruction against the CPU state.
// It reports failure by panicking with an error; Step recovers it.
type Exec func(cpu *CPU, inst uint16)

// Dispatch returns the Exec for inst. It returns ErrInvalidOpcode
// if the opcode has no category (RES) or its category does not
// implement it (RTI).
func Dispatch(inst uint16) (Exec, error) {
	op := Op(inst)
	var x Exec
	switch op.Category() {
	default:
		return nil, fmt.Errorf("%w %v", ErrInvalidOpcode, op)
	case Operate:
		x = operate(op)
	case DataMovement:
		x = dataMovement(op)
	case Control:
		x = control(op)
	case Trap:
		x = xtrap
	}
	if x == nil {
		return nil, fmt.Errorf("%w %v: %s", ErrInvalidOpcode, op, f("no %v handler", op.Category()))
	}
	return x, nil
}

func operate(op Opcode) Exec {
	switch op {
	case ADD, AND:
		return xaluop
	case NOT:
		return xnot
	}
	return nil
}

func dataMovement(op Opcode) Exec {
	switch op {
	case LD:
		return xld
	case LDI:
		return xldi
	case LDR:
		return xldr
	case LEA:
		return xlea
	case ST:
		return xst
	case STI:
		return xsti
	case STR:
		return xstr
	}
	return nil
}

func control(op Opcode) Exec {
	switch op {
	case BR:
		return xbr
	case JMP:
		return xjmp
	case JSR:
		return xjsr
	}
	return nil
}

// operate instructions

func xaluop(cpu *CPU, inst uint16) {
	rhs := cpu.Reg.Read(SR2(inst))
	if IsImm(inst) {
		rhs = Imm5(inst)
	}
	cpu.Reg.Write(DR(inst), ALU(Op(inst), cpu.Reg.Read(SR1(inst)), rhs), true)
}

func xnot(cpu *CPU, inst uint16) {
	cpu.Reg.Write(DR(inst), ALU(NOT, cpu.Reg.Read(SR1(inst)), 0), true)
}

// data movement
//
// PC-relative addresses are computed from the incremented PC,
// the address of the next instruction.

func (cpu *CPU) pcrel(inst uint16) uint16 {
	return cpu.PC.Get() + PCOffset9(inst)
}

func (cpu *CPU) baserel(inst uint16) uint16 {
	return cpu.Reg.Read(BaseR(inst)) + Offset6(inst)
}

func xld(cpu *CPU, inst uint16) {
	cpu.Reg.Write(DR(inst), cpu.Mem.Read(cpu.pcrel(inst)), true)
}

func xldi(cpu *CPU, inst uint16) {
	cpu.Reg.Write(DR(inst), cpu.Mem.Read(cpu.Mem.Read(cpu.pcrel(inst))), true)
}

func xldr(cpu *CPU, inst uint16) {
	cpu.Reg.Write(DR(inst), cpu.Mem.Read(cpu.baserel(inst)), true)
}

func xlea(cpu *CPU, inst uint16) {
	cpu.Reg.Write(DR(inst), cpu.pcrel(inst), true)
}

func xst(cpu *CPU, inst uint16) {
	cpu.Mem.Write(cpu.pcrel(inst), cpu.Reg.Read(SR(inst)))
}

func xsti(cpu *CPU, inst uint16) {
	cpu.Mem.Write(cpu.Mem.Read(cpu.pcrel(inst)), cpu.Reg.Read(SR(inst)))
}

func xstr(cpu *CPU, inst uint16) {
	cpu.Mem.Write(cpu.baserel(inst), cpu.Reg.Read(SR(inst)))
}

// control

func xbr(cpu *CPU, inst uint16) {
	c := cpu.Reg.Cond()
	if CondN(inst) && c == FlagN || CondZ(inst) && c == FlagZ || CondP(inst) && c == FlagP {
		cpu.PC.Add(PCOffset9(inst))
	}
}

func xjmp(cpu *CPU, inst uint16) {
	cpu.PC.Set(cpu.Reg.Read(BaseR(inst)))
}

func xjsr(cpu *CPU, inst uint16) {
	ret := cpu.PC.Get()
	if IsJSR(inst) {
		cpu.PC.Add(PCOffset11(inst))
	} else {
		// Read BaseR before R7 changes: JSRR R7 jumps to the old R7.
		cpu.PC.Set(cpu.Reg.Read(BaseR(inst)))
	}
	cpu.Reg.Write(R7, ret, false)
}

func xtrap(cpu *CPU, inst uint16) {
	if err := cpu.Trap.Do(cpu, TrapVect8(inst)); err != nil {
		panic(err)
	}
}
