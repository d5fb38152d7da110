package cpu

// AluOp is an ALU operation type.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_ADD = AluOp(0) // add
	ALU_OP_MUL = AluOp(1) // mul
	ALU_OP_CMP = AluOp(2) // cmp
)

// Flags register bits, laid out as `00000LGE`.
const (
	FLAG_EQ = uint8(0b001) // R[a] == R[b]
	FLAG_GT = uint8(0b010) // R[a] > R[b]
	FLAG_LT = uint8(0b100) // R[a] < R[b]
)

// aluMap maps ALU opcodes to their operation.
var aluMap = map[Opcode]AluOp{
	ADD: ALU_OP_ADD,
	MUL: ALU_OP_MUL,
	CMP: ALU_OP_CMP,
}

// AluOp returns the ALU operation of an ALU opcode.
func (op Opcode) AluOp() (alu AluOp, ok bool) {
	alu, ok = aluMap[op]
	return
}

// doAlu performs the requested ALU action on registers a and b.
// Add and multiply replace R[a], wrapping at 8 bits. Compare sets exactly
// one of the flags. R[b] is never modified.
func (cpu *Cpu) doAlu(op AluOp, a, b uint8) (err error) {
	reg_a, err := cpu.register(a)
	if err != nil {
		return
	}
	reg_b, err := cpu.register(b)
	if err != nil {
		return
	}

	switch op {
	case ALU_OP_ADD: // add
		*reg_a += *reg_b
	case ALU_OP_MUL: // mul
		*reg_a *= *reg_b
	case ALU_OP_CMP: // cmp
		switch {
		case *reg_a == *reg_b:
			cpu.Flags = FLAG_EQ
		case *reg_a < *reg_b:
			cpu.Flags = FLAG_LT
		default:
			cpu.Flags = FLAG_GT
		}
	default:
		err = ErrAluOperation
	}

	return
}
