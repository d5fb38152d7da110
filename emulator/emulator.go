// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"io"
	"iter"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	lsio "github.com/ezrec/ls8/io"
)

// Emulator state. CPU + program + output tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program.

	Tape lsio.Tape // Print-Register output.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.SetChannel(&emu.Tape)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Tape.Defines(),
	)
}

// Compile assembles LS-8 mnemonics into the emulator program.
func (emu *Emulator) Compile(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadImage reads a binary text image into the emulator program.
func (emu *Emulator) LoadImage(input io.Reader) (err error) {
	prog, err := cpu.ParseImage(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Reset the cpu, and load the program into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Cpu.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	code, err := emu.Cpu.Memory.Decode(emu.Cpu.Pc)
	if err != nil {
		return cpu.Code{}
	}

	return code
}

// LineNo returns the source line number for the instruction at the program counter.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks the emulator until the program halts.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}
