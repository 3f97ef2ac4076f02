// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lc3_test

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rsc.io/lc3/lc3"
)

var _ = Describe("TrapHandler", func() {
	var (
		mockCtrl *gomock.Controller
		con      *MockConsole
		mem      *lc3.ArrayMem
		cpu      *lc3.CPU
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		con = NewMockConsole(mockCtrl)
		mem = lc3.NewArrayMem(lc3.DefaultOrigin)
		cpu = lc3.NewCPU(mem, con)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should read a character with GETC and leave the flags alone", func() {
		con.EXPECT().ReadByte().Return(byte('A'), nil)

		Expect(cpu.Trap.Do(cpu, lc3.GETC)).To(Succeed())
		Expect(cpu.Reg.Read(lc3.R0)).To(Equal(uint16('A')))
		Expect(cpu.Reg.Cond()).To(Equal(lc3.FlagZ))
	})

	It("should write the low byte of R0 with OUT", func() {
		cpu.Reg.Write(lc3.R0, 0x1241, false)
		gomock.InOrder(
			con.EXPECT().WriteByte(byte('A')).Return(nil),
			con.EXPECT().Flush().Return(nil),
		)

		Expect(cpu.Trap.Do(cpu, lc3.OUT)).To(Succeed())
	})

	It("should write a string with PUTS", func() {
		Expect(mem.LoadDense([]uint16{'h', 'i', 0x0100, '!'}, 0x4000)).To(Succeed())
		cpu.Reg.Write(lc3.R0, 0x4000, false)
		gomock.InOrder(
			con.EXPECT().WriteByte(byte('h')).Return(nil),
			con.EXPECT().WriteByte(byte('i')).Return(nil),
			con.EXPECT().Flush().Return(nil),
		)

		Expect(cpu.Trap.Do(cpu, lc3.PUTS)).To(Succeed())
	})

	It("should prompt, read and echo with IN", func() {
		cpu.Trap.Prompt = "? "
		gomock.InOrder(
			con.EXPECT().WriteByte(byte('?')).Return(nil),
			con.EXPECT().WriteByte(byte(' ')).Return(nil),
			con.EXPECT().Flush().Return(nil),
			con.EXPECT().ReadByte().Return(byte('k'), nil),
			con.EXPECT().WriteByte(byte('k')).Return(nil),
			con.EXPECT().Flush().Return(nil),
		)

		Expect(cpu.Trap.Do(cpu, lc3.IN)).To(Succeed())
		Expect(cpu.Reg.Read(lc3.R0)).To(Equal(uint16('k')))
		Expect(cpu.Reg.Cond()).To(Equal(lc3.FlagP))
	})

	It("should halt the CPU with HALT", func() {
		cpu.State = lc3.Running

		Expect(cpu.Trap.Do(cpu, lc3.HALT)).To(Succeed())
		Expect(cpu.State).To(Equal(lc3.Halted))
	})

	It("should reject an unsupported vector", func() {
		err := cpu.Trap.Do(cpu, lc3.TrapVector(0x24))

		Expect(err).To(MatchError(lc3.ErrTrapVector))
		Expect(err.Error()).To(ContainSubstring("x24"))
	})

	It("should report console failures", func() {
		con.EXPECT().ReadByte().Return(byte(0), io.EOF)

		err := cpu.Trap.Do(cpu, lc3.GETC)
		Expect(err).To(MatchError(lc3.ErrConsole))
		Expect(errors.Is(err, io.EOF)).To(BeTrue())
	})

	It("should undo a failed OUT when run by Step", func() {
		Expect(mem.LoadDense([]uint16{0x1027, 0xF021}, lc3.DefaultOrigin)).To(Succeed())
		con.EXPECT().WriteByte(byte(7)).Return(io.ErrClosedPipe)

		Expect(cpu.Step(1)).To(Succeed())
		err := cpu.Step(1)

		var xe *lc3.ExecError
		Expect(errors.As(err, &xe)).To(BeTrue())
		Expect(xe.PC).To(Equal(uint16(0x3001)))
		Expect(xe.Inst).To(Equal(uint16(0xF021)))
		Expect(err).To(MatchError(lc3.ErrConsole))
		Expect(cpu.PC.Get()).To(Equal(uint16(0x3001)))
		Expect(cpu.State).To(Equal(lc3.Halted))
	})
})

var _ = Describe("CPU", func() {
	var (
		mem *lc3.ArrayMem
		out bytes.Buffer
	)

	load := func(input string, code ...uint16) *lc3.CPU {
		mem = lc3.NewArrayMem(0)
		Expect(mem.LoadDense(code, lc3.DefaultOrigin)).To(Succeed())
		out.Reset()
		return lc3.NewCPU(mem, lc3.NewStreamConsole(strings.NewReader(input), &out))
	}

	Context("when created", func() {
		It("should be halted at the program origin with Z set", func() {
			cpu := load("", 0xF025)

			Expect(cpu.State).To(Equal(lc3.Halted))
			Expect(cpu.PC.Get()).To(Equal(uint16(lc3.DefaultOrigin)))
			Expect(cpu.Reg.Cond()).To(Equal(lc3.FlagZ))
			for r := lc3.R0; r <= lc3.R7; r++ {
				Expect(cpu.Reg.Read(r)).To(BeZero())
			}
		})
	})

	Context("when running", func() {
		It("should echo a character and halt", func() {
			cpu := load("x", 0xF020, 0xF021, 0xF025)

			Expect(cpu.Run()).To(Succeed())
			Expect(cpu.State).To(Equal(lc3.Halted))
			Expect(out.String()).To(Equal("x"))
			Expect(cpu.PC.Get()).To(Equal(uint16(0x3003)))
		})

		It("should stay running between steps until HALT", func() {
			cpu := load("", 0x1021, 0x1021, 0xF025)

			Expect(cpu.Step(1)).To(Succeed())
			Expect(cpu.State).To(Equal(lc3.Running))
			Expect(cpu.Step(5)).To(Succeed())
			Expect(cpu.State).To(Equal(lc3.Halted))
			Expect(cpu.Reg.Read(lc3.R0)).To(Equal(uint16(2)))
		})

		DescribeTable("should stop on an invalid opcode",
			func(inst uint16) {
				cpu := load("", inst)

				err := cpu.Run()
				Expect(err).To(MatchError(lc3.ErrInvalidOpcode))
				var xe *lc3.ExecError
				Expect(errors.As(err, &xe)).To(BeTrue())
				Expect(xe.PC).To(Equal(uint16(lc3.DefaultOrigin)))
				Expect(cpu.State).To(Equal(lc3.Halted))
				Expect(cpu.PC.Get()).To(Equal(uint16(lc3.DefaultOrigin)))
			},
			Entry("RTI", uint16(0x8000)),
			Entry("reserved", uint16(0xD000)),
		)
	})
})
