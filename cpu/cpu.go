package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Channel is an output channel interface.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
	"SP_INIT":     fmt.Sprintf("0x%x", SP_INIT),
	"REG_IM":      fmt.Sprintf("%v", REG_IM),
	"REG_IS":      fmt.Sprintf("%v", REG_IS),
	"REG_SP":      fmt.Sprintf("%v", REG_SP),
	"FLAG_EQ":     fmt.Sprintf("%v", FLAG_EQ),
	"FLAG_GT":     fmt.Sprintf("%v", FLAG_GT),
	"FLAG_LT":     fmt.Sprintf("%v", FLAG_LT),
}

// Cpu is the simulation context for the LS-8 cpu.
// A Cpu is not safe for concurrent use.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   Memory                // Program and stack memory.
	Register [REGISTER_COUNT]uint8 // Register bank, r7 is the stack pointer.
	Flags    uint8                 // Flags of the last comparison, `00000LGE`.
	Pc       int                   // Address of the next instruction.
	Halted   bool                  // Set once HLT executed, or on a fatal error.

	Ticks int // CPU ticks counter.

	channel Channel // Print-Register output.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers and flags.
// - Sets the stack pointer to SP_INIT.
// - Sets the program counter to 0.
// - Rewinds the output channel.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Stack().Reset()
	cpu.Flags = 0
	cpu.Pc = 0
	cpu.Halted = false
	cpu.Ticks = 0

	if cpu.channel != nil {
		cpu.channel.Rewind()
	}
}

// SetChannel sets the output channel for Print-Register.
func (cpu *Cpu) SetChannel(channel Channel) {
	cpu.channel = channel
}

// Load writes a program image into memory, starting at address 0.
func (cpu *Cpu) Load(image []uint8) (err error) {
	if len(image) > len(cpu.Memory) {
		err = ErrProgramTooLarge
		return
	}

	copy(cpu.Memory[:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// Stack returns the stack addressed by the stack pointer register.
func (cpu *Cpu) Stack() Stack {
	return Stack{Memory: &cpu.Memory, Sp: &cpu.Register[REG_SP]}
}

// register returns the register addressed by an operand.
func (cpu *Cpu) register(index uint8) (reg *uint8, err error) {
	if int(index) >= len(cpu.Register) {
		err = errors.Join(ErrOutOfBounds, ErrRegisterInvalid)
		return
	}

	reg = &cpu.Register[index]
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"fl",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"stack",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
			if cpu.Halted {
				strval += " (halted)"
			}
		case "fl":
			strval = fmt.Sprintf("%08b", cpu.Flags)
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7":
			strval = fmt.Sprintf("%02X", cpu.Register[byte(reg[1]-'0')])
		case "stack":
			val, ok := cpu.Stack().Peek()
			if ok {
				strval = fmt.Sprintf("%02X", val)
			} else {
				strval = "--"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Trace returns a single line summary of the cpu state:
// the program counter, the three bytes at the program counter, and the registers.
func (cpu *Cpu) Trace() (text string) {
	mem := &cpu.Memory
	text = fmt.Sprintf("TRACE: %02X | %02X %02X %02X |",
		cpu.Pc, mem.peek(cpu.Pc), mem.peek(cpu.Pc+1), mem.peek(cpu.Pc+2))

	for _, reg := range cpu.Register {
		text += fmt.Sprintf(" %02X", reg)
	}

	return
}

// FetchCode fetches and decodes the instruction at the program counter.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	defer func() {
		if err != nil {
			cpu.Halted = true
			err = &ErrInstruction{Pc: cpu.Pc, Opcode: code.Opcode, Err: err}
		}
	}()

	code, err = cpu.Memory.Decode(cpu.Pc)

	return
}

// Tick executes a single CPU instruction cycle.
// Returns ErrHalted once the cpu has halted.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)

	return
}

// Run ticks the cpu until it halts.
// Returns nil if the program executed HLT.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
// Any error is fatal: the cpu halts, and the error is wrapped in an ErrInstruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			cpu.Halted = true
			err = &ErrInstruction{Pc: cpu.Pc, Opcode: code.Opcode, Err: err}
		}
	}()

	if cpu.Verbose {
		log.Printf("%v | %v", cpu.Trace(), code)
	}

	if len(code.Operands) < code.Opcode.Operands() {
		err = ErrOperandMissing
		return
	}

	next_pc := cpu.Pc
	if !code.Opcode.SetsPc() {
		next_pc += code.Size()
	}

	var reg *uint8
	switch code.Opcode {
	case HLT:
		cpu.Halted = true
		next_pc = cpu.Pc
	case LDI:
		reg, err = cpu.register(code.Operands[0])
		if err != nil {
			return
		}
		*reg = code.Operands[1]
	case PRN:
		reg, err = cpu.register(code.Operands[0])
		if err != nil {
			return
		}
		if cpu.channel == nil {
			fmt.Println(*reg)
			break
		}
		err = cpu.channel.Send(*reg)
		if err != nil {
			err = errors.Join(ErrChannelFailed, err)
			return
		}
	case ADD, MUL, CMP:
		alu, _ := code.Opcode.AluOp()
		err = cpu.doAlu(alu, code.Operands[0], code.Operands[1])
		if err != nil {
			return
		}
	case PUSH:
		reg, err = cpu.register(code.Operands[0])
		if err != nil {
			return
		}
		err = cpu.Stack().PushFrom(reg)
		if err != nil {
			return
		}
	case POP:
		reg, err = cpu.register(code.Operands[0])
		if err != nil {
			return
		}
		var value uint8
		value, err = cpu.Stack().Pop()
		if err != nil {
			return
		}
		*reg = value
	case ST:
		var addr *uint8
		addr, err = cpu.register(code.Operands[0])
		if err != nil {
			return
		}
		reg, err = cpu.register(code.Operands[1])
		if err != nil {
			return
		}
		err = cpu.Memory.Write(int(*addr), *reg)
		if err != nil {
			return
		}
	case CALL:
		reg, err = cpu.register(code.Operands[0])
		if err != nil {
			return
		}
		// Return to the instruction following the 2 byte CALL.
		ret := cpu.Pc + 2
		if ret >= MEMORY_SIZE {
			err = ErrOutOfBounds
			return
		}
		err = cpu.Stack().Push(uint8(ret))
		if err != nil {
			return
		}
		next_pc = int(*reg)
	case RET:
		var value uint8
		value, err = cpu.Stack().Pop()
		if err != nil {
			return
		}
		next_pc = int(value)
	default:
		err = ErrIllegalInstruction
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}
