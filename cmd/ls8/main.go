// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/ls8/emulator"
)

func main() {
	var compile string
	var program string
	var save bool
	var output string
	var verbose bool
	var limit int

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&program, "p", "", ".ls8 program image to run ('-' for stdin)")
	flag.BoolVar(&save, "s", false, "Save compiled image to output, do not execute")
	flag.StringVar(&output, "o", "-", "Output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&limit, "l", 0, "Maximum lines printed per run (0 for no limit)")

	flag.Parse()

	// Allow 'ls8 program.ls8'
	if len(program) == 0 && len(compile) == 0 && flag.NArg() == 1 {
		program = flag.Arg(0)
	} else if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(program) != 0 && len(compile) != 0 {
		log.Fatalf("%v: -c and -p are exclusive", os.Args[0])
	}

	if len(program) == 0 && len(compile) == 0 {
		log.Fatalf("%v: no program, use -c or -p", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Tape.Limit = limit

	var ouf io.Writer = os.Stdout
	if output != "-" {
		file, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer file.Close()
		ouf = file
	}

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Compile(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load a program image.
	if len(program) != 0 {
		var inf io.Reader
		if program == "-" {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				log.Fatalf("%v: refusing to read a program image from a terminal", os.Args[0])
			}
			inf = os.Stdin
		} else {
			file, err := os.Open(program)
			if err != nil {
				log.Fatalf("%v: %v", program, err)
			}
			defer file.Close()
			inf = file
		}

		err := emu.LoadImage(inf)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	}

	if save {
		err := emu.Program.WriteImage(ouf)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	emu.Tape.Output = ouf

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if err != nil {
		if verbose {
			log.Print(emu.Cpu.String())
		}
		log.Fatal(err)
	}
}
