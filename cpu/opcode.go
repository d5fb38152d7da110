package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an LS-8 instruction byte.
//
// The bits of an opcode are laid out as AABCDDDD:
//   - AA: number of operand bytes following the opcode.
//   - B: set if the instruction is handled by the ALU.
//   - C: set if the instruction sets the program counter itself.
//   - DDDD: instruction identifier.
type Opcode uint8

const (
	HLT  = Opcode(0b00000001) // Halt the cpu.
	LDI  = Opcode(0b10000010) // Load an immediate into a register.
	ST   = Opcode(0b10000100) // Store a register into the memory addressed by a register.
	PUSH = Opcode(0b01000101) // Push a register onto the stack.
	POP  = Opcode(0b01000110) // Pop the stack into a register.
	PRN  = Opcode(0b01000111) // Print the decimal value of a register.
	CALL = Opcode(0b01010000) // Call the subroutine addressed by a register.
	RET  = Opcode(0b00010001) // Return from a subroutine.
	ADD  = Opcode(0b10100000) // Add two registers.
	MUL  = Opcode(0b10100010) // Multiply two registers.
	CMP  = Opcode(0b10100111) // Compare two registers.
)

const (
	OPCODE_ALU    = Opcode(0b0010_0000) // ALU instruction bit.
	OPCODE_SET_PC = Opcode(0b0001_0000) // Sets-PC instruction bit.
)

// opcodeName maps the known opcodes to their mnemonics.
var opcodeName = map[Opcode]string{
	HLT:  "HLT",
	LDI:  "LDI",
	ST:   "ST",
	PUSH: "PUSH",
	POP:  "POP",
	PRN:  "PRN",
	CALL: "CALL",
	RET:  "RET",
	ADD:  "ADD",
	MUL:  "MUL",
	CMP:  "CMP",
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	name, ok := opcodeName[op]
	if !ok {
		return fmt.Sprintf("Opcode(0x%02x)", uint8(op))
	}
	return name
}

// Valid returns true if the opcode has a handler.
func (op Opcode) Valid() bool {
	_, ok := opcodeName[op]
	return ok
}

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// Alu returns true if the opcode is an ALU instruction.
func (op Opcode) Alu() bool {
	return op&OPCODE_ALU != 0
}

// SetsPc returns true if the instruction sets the program counter itself,
// instead of advancing past its operands.
func (op Opcode) SetsPc() bool {
	return op&OPCODE_SET_PC != 0
}

// Code is a decoded instruction: the opcode and its operand bytes.
type Code struct {
	Opcode   Opcode
	Operands []uint8
}

// Size returns the number of bytes the instruction occupies in memory.
func (code Code) Size() int {
	return 1 + code.Opcode.Operands()
}

// String disassembles the instruction, ie 'LDI R0,8'.
func (code Code) String() string {
	args := make([]string, len(code.Operands))
	for n, operand := range code.Operands {
		if code.Opcode == LDI && n == 1 {
			args[n] = fmt.Sprintf("%d", operand)
		} else {
			args[n] = fmt.Sprintf("R%d", operand)
		}
	}

	if len(args) == 0 {
		return code.Opcode.String()
	}

	return code.Opcode.String() + " " + strings.Join(args, ",")
}
