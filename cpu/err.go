package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted             = errors.New(f("halted"))
	ErrIllegalInstruction = errors.New(f("illegal instruction"))
	ErrProgramTooLarge    = errors.New(f("program too large"))
	ErrOutOfBounds        = errors.New(f("out of bounds"))
	ErrAluOperation       = errors.New(f("unsupported alu operation"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrStackOverflow      = errors.New(f("stack overflow"))
	ErrStackUnderflow     = errors.New(f("stack underflow"))
	ErrChannelFailed      = errors.New(f("output channel failed"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrInstruction locates a fatal cpu error at the instruction that raised it.
type ErrInstruction struct {
	Pc     int
	Opcode Opcode
	Err    error
}

func (err *ErrInstruction) Error() string {
	return f("pc 0x%02x opcode 0x%02x %v: %v", err.Pc, uint8(err.Opcode), err.Opcode.String(), err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
