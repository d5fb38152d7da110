package cpu

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
)

func FuzzExecute(f *testing.F) {
	for op := range opcodeName {
		f.Add(uint8(op), uint8(0), uint8(1), uint8(0x40))
		f.Add(uint8(op), uint8(7), uint8(8), uint8(0xff))
	}
	f.Add(uint8(0xff), uint8(0), uint8(0), uint8(0))

	f.Fuzz(func(t *testing.T, opcode uint8, a uint8, b uint8, pc uint8) {
		assert := assert.New(t)

		cpu := NewCpu()
		out := &io.Temporary{Capacity: 1}
		cpu.SetChannel(out)

		cpu.Memory[pc] = opcode
		cpu.Memory[(int(pc)+1)%MEMORY_SIZE] = a
		cpu.Memory[(int(pc)+2)%MEMORY_SIZE] = b
		cpu.Pc = int(pc)
		for n := range REG_IM {
			cpu.Register[n] = uint8(0x10 * (n + 1))
		}
		cpu.Flags = 0x80

		before := *cpu

		err := cpu.Tick()

		op := Opcode(opcode)
		if !op.Valid() {
			assert.ErrorIs(err, ErrIllegalInstruction)
		}

		if err != nil {
			var ei *ErrInstruction
			assert.True(errors.As(err, &ei))
			assert.Equal(int(pc), ei.Pc)
			assert.True(cpu.Halted)
			assert.Equal(before.Pc, cpu.Pc)
			assert.Equal(before.Register, cpu.Register)
			assert.Equal(before.Flags, cpu.Flags)
			assert.ErrorIs(cpu.Tick(), ErrHalted)
			return
		}

		// Reserved registers are only written when named by an operand.
		if a != REG_IM && a != REG_IS {
			assert.Equal(before.Register[REG_IM], cpu.Register[REG_IM])
			assert.Equal(before.Register[REG_IS], cpu.Register[REG_IS])
		}

		if op == CMP {
			assert.Equal(1, bits.OnesCount8(cpu.Flags))
		} else {
			assert.Equal(before.Flags, cpu.Flags)
		}

		switch {
		case op == HLT:
			assert.True(cpu.Halted)
			assert.Equal(before.Pc, cpu.Pc)
		case op.SetsPc():
			assert.False(cpu.Halted)
		default:
			assert.False(cpu.Halted)
			assert.Equal(before.Pc+1+op.Operands(), cpu.Pc)
		}

		if op == PRN {
			assert.Equal([]uint8{before.Register[a]}, out.Data)
		} else {
			assert.Empty(out.Data)
		}
	})
}
