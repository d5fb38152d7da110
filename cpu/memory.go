package cpu

const (
	MEMORY_SIZE    = 256  // Bytes of addressable memory.
	REGISTER_COUNT = 8    // Number of registers.
	REG_IM         = 5    // Interrupt mask, reserved.
	REG_IS         = 6    // Interrupt status, reserved.
	REG_SP         = 7    // Stack pointer.
	SP_INIT        = 0xf4 // Stack pointer at reset.
)

// Memory is the flat, byte addressed memory of the cpu.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value uint8, err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrOutOfBounds
		return
	}

	value = mem[addr]
	return
}

// Write sets the byte at addr.
func (mem *Memory) Write(addr int, value uint8) (err error) {
	if addr < 0 || addr >= len(mem) {
		err = ErrOutOfBounds
		return
	}

	mem[addr] = value
	return
}

// peek reads for diagnostics, returning 0 outside of memory.
func (mem *Memory) peek(addr int) uint8 {
	value, _ := mem.Read(addr)
	return value
}

// Decode decodes the instruction at pc.
func (mem *Memory) Decode(pc int) (code Code, err error) {
	opcode, err := mem.Read(pc)
	if err != nil {
		return
	}

	code.Opcode = Opcode(opcode)
	if !code.Opcode.Valid() {
		err = ErrIllegalInstruction
		return
	}

	code.Operands = make([]uint8, code.Opcode.Operands())
	for n := range code.Operands {
		code.Operands[n], err = mem.Read(pc + 1 + n)
		if err != nil {
			return
		}
	}

	return
}
