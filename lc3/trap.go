// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// A TrapVector selects the service routine run by a TRAP instruction.
type TrapVector uint8

const (
	GETC TrapVector = 0x20 // read a character into R0, no echo
	OUT  TrapVector = 0x21 // write the character in R0
	PUTS TrapVector = 0x22 // write the string at R0
	IN   TrapVector = 0x23 // prompt, then read and echo a character into R0
	HALT TrapVector = 0x25 // stop the CPU
)

func (v TrapVector) String() string {
	switch v {
	case GETC:
		return "GETC"
	case OUT:
		return "OUT"
	case PUTS:
		return "PUTS"
	case IN:
		return "IN"
	case HALT:
		return "HALT"
	}
	return fmt.Sprintf("TRAP x%02X", uint8(v))
}

// DefaultPrompt is printed by the IN trap.
const DefaultPrompt = "Enter a character: "

// A TrapHandler runs the service routines on behalf of TRAP instructions.
type TrapHandler struct {
	Console Console
	Prompt  string // printed by IN
}

// Do runs the service routine for vec against cpu.
// It returns ErrTrapVector for vectors other than
// GETC, OUT, PUTS, IN and HALT, and an error wrapping
// ErrConsole if the console fails.
func (t *TrapHandler) Do(cpu *CPU, vec TrapVector) error {
	if cpu.Log != nil {
		cpu.Log.WithFields(logrus.Fields{
			"vector": vec.String(),
			"r0":     fmt.Sprintf("x%04X", cpu.Reg.Read(R0)),
		}).Debug("trap")
	}
	var err error
	switch vec {
	default:
		return fmt.Errorf("%w x%02X", ErrTrapVector, uint8(vec))
	case GETC:
		var c byte
		if c, err = t.Console.ReadByte(); err == nil {
			cpu.Reg.Write(R0, uint16(c), false)
		}
	case OUT:
		if err = t.Console.WriteByte(byte(cpu.Reg.Read(R0))); err == nil {
			err = t.Console.Flush()
		}
	case PUTS:
		if err = WriteString(t.Console, cpu.Mem, cpu.Reg.Read(R0)); err == nil {
			err = t.Console.Flush()
		}
	case IN:
		err = t.in(cpu)
	case HALT:
		cpu.State = Halted
	}
	if err != nil {
		return fmt.Errorf("%w: %v: %w", ErrConsole, vec, err)
	}
	return nil
}

func (t *TrapHandler) in(cpu *CPU) error {
	for i := 0; i < len(t.Prompt); i++ {
		if err := t.Console.WriteByte(t.Prompt[i]); err != nil {
			return err
		}
	}
	if err := t.Console.Flush(); err != nil {
		return err
	}
	c, err := t.Console.ReadByte()
	if err != nil {
		return err
	}
	if err := t.Console.WriteByte(c); err != nil {
		return err
	}
	cpu.Reg.Write(R0, uint16(c), true)
	return t.Console.Flush()
}
