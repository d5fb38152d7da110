// Package cpu implements the LS-8 microprocessor and its assembler.
//
// The CPU consists of 256 bytes of memory, eight 8-bit registers (r0-r7,
// with r7 reserved as the stack pointer), a flags register holding the
// result of the last comparison, and a program counter. Each instruction
// is an opcode byte followed by up to three operand bytes; the number of
// operands is encoded in the top two bits of the opcode.
//
// Programs are read from a binary text image (one 8-bit binary string per
// line) or assembled from LS-8 mnemonics by the Assembler.
package cpu
