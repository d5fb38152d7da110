package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Line is a line of program source with the bytes it generated.
type Line struct {
	LineNo    int      // Source line number.
	Pc        int      // Address of the first byte.
	Words     []string // Source words.
	Bytes     []uint8  // Generated bytes.
	LinkLabel string   // Label linked into the last byte.
}

type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line that generated the byte at pc.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, line := range prog.Lines {
		if pc >= line.Pc && pc < line.Pc+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: pc - line.Pc,
			}
			break
		}
	}

	return
}

// Bytes iterates over every generated byte and its address.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(pc int, value uint8) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Pc+n, value) {
					return
				}
			}
		}
	}
}

// Binary returns the memory image of the program.
// Gaps between lines are zero filled.
func (prog *Program) Binary() (bins []uint8) {
	for pc, value := range prog.Bytes() {
		for len(bins) < pc {
			bins = append(bins, 0)
		}
		if pc < len(bins) {
			bins[pc] = value
		} else {
			bins = append(bins, value)
		}
	}

	return
}

// WriteImage writes the program as a binary text image, one byte per line.
// The first byte of each source line is annotated with its source words.
func (prog *Program) WriteImage(output io.Writer) (err error) {
	out := bufio.NewWriter(output)

	pc := 0
	for _, line := range prog.Lines {
		for ; pc < line.Pc; pc++ {
			fmt.Fprintf(out, "%08b\n", 0)
		}
		for n, value := range line.Bytes {
			if n == 0 && len(line.Words) > 0 {
				fmt.Fprintf(out, "%08b # %v\n", value, strings.Join(line.Words, " "))
			} else {
				fmt.Fprintf(out, "%08b\n", value)
			}
			pc++
		}
	}

	err = out.Flush()
	return
}

// ParseImage reads a binary text program image.
//
// Each line is scanned up to the first '#'. Only the '0' and '1'
// characters are collected; a line yields one byte if exactly eight were
// collected, most significant bit first. All other lines are skipped.
func ParseImage(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	prog = &Program{}

	var lineno int
	var pc int
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		code, comment, _ := strings.Cut(text, "#")

		var value uint8
		var digits int
		for _, c := range code {
			switch c {
			case '0', '1':
				value = (value << 1) | uint8(c-'0')
				digits++
			}
		}
		if digits != 8 {
			continue
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo: lineno,
			Pc:     pc,
			Words:  strings.Fields(comment),
			Bytes:  []uint8{value},
		})
		pc++
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
		return
	}

	return
}
