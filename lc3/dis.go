// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3

import "fmt"

// Disasm returns the assembly text for inst located at pc.
// PC-relative operands are shown as absolute addresses.
// Words that are not instructions disassemble as .FILL.
func Disasm(inst, pc uint16) string {
	next := pc + 1
	var out []byte
	switch op := Op(inst); op {
	case ADD, AND:
		out = fmt.Appendf(out, "%v %v, %v, ", op, DR(inst), SR1(inst))
		if IsImm(inst) {
			out = fmt.Appendf(out, "#%d", int16(Imm5(inst)))
		} else {
			out = fmt.Appendf(out, "%v", SR2(inst))
		}
	case NOT:
		out = fmt.Appendf(out, "NOT %v, %v", DR(inst), SR1(inst))
	case BR:
		if !CondN(inst) && !CondZ(inst) && !CondP(inst) {
			return "NOP"
		}
		out = append(out, "BR"...)
		if !CondN(inst) || !CondZ(inst) || !CondP(inst) {
			if CondN(inst) {
				out = append(out, 'n')
			}
			if CondZ(inst) {
				out = append(out, 'z')
			}
			if CondP(inst) {
				out = append(out, 'p')
			}
		}
		out = fmt.Appendf(out, " x%04X", next+PCOffset9(inst))
	case LD, LDI, LEA, ST, STI:
		out = fmt.Appendf(out, "%v %v, x%04X", op, DR(inst), next+PCOffset9(inst))
	case LDR, STR:
		out = fmt.Appendf(out, "%v %v, %v, #%d", op, DR(inst), BaseR(inst), int16(Offset6(inst)))
	case JMP:
		if BaseR(inst) == R7 {
			return "RET"
		}
		out = fmt.Appendf(out, "JMP %v", BaseR(inst))
	case JSR:
		if IsJSR(inst) {
			out = fmt.Appendf(out, "JSR x%04X", next+PCOffset11(inst))
		} else {
			out = fmt.Appendf(out, "JSRR %v", BaseR(inst))
		}
	case TRAP:
		return TrapVect8(inst).String()
	case RTI:
		return "RTI"
	default:
		out = fmt.Appendf(out, ".FILL x%04X", inst)
	}
	return string(out)
}
