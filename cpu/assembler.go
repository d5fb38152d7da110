// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for LS-8 mnemonics.
//
//	; comment          # also a comment
//	.equ COUNT 10      ; equate, substituted word for word
//	.db 1 2 3          ; raw bytes
//	loop:              ; label, usable as an LDI immediate
//	    LDI R0,$(COUNT * 2)
//	    LDI R1,'A'
//	    CALL R2
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indexes.
var regMap = map[string]uint8{
	"R0": 0,
	"R1": 1,
	"R2": 2,
	"R3": 3,
	"R4": 4,
	"R5": 5,
	"R6": 6,
	"R7": 7,
	"IM": REG_IM,
	"IS": REG_IS,
	"SP": REG_SP,
}

// mnemonicMap is a map of mnemonics to opcodes.
var mnemonicMap = map[string]Opcode{}

func init() {
	for op, name := range opcodeName {
		mnemonicMap[name] = op
	}
}

var (
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reChar  = regexp.MustCompile(`'\\?[^']'`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// valueOf returns the value of a simple word.
// Negative values are stored as two's complement.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil || v64 < -0x80 || v64 > 0xff {
		err = ErrParseNumber(word)
		return
	}

	value = uint8(v64 & 0xff)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint8, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeInt(pc)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < -0x80 || st_int64 > 0xff {
		err = ErrParseExpression(expr)
		return
	}
	value = uint8(st_int64 & 0xff)
	return
}

// isSeparator splits words on blanks and commas.
func isSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == ','
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, isSeparator)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentPc gets the address of the next generated byte.
func (asm *Assembler) currentPc() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Pc + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		if index := strings.IndexAny(text, ";#"); index >= 0 {
			text = text[:index]
		}
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.currentPc() > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		op := &asm.Lines[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")
		label := op.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if pc >= MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}
		op.Bytes[len(op.Bytes)-1] = uint8(pc)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// immediateOf returns the value of an immediate operand, or
// the label to link into it later.
func (asm *Assembler) immediateOf(word string) (value uint8, label string, err error) {
	value, err = asm.valueOf(word)
	if err != nil && reLabel.MatchString(word) {
		err = nil
		label = word
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []uint8
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(bytes) == 0 {
			return
		}
		line := Line{LineNo: lineno, Pc: asm.currentPc(), Words: initial_words, Bytes: bytes, LinkLabel: label}
		asm.Lines = append(asm.Lines, line)
	}()

	name := strings.ToUpper(words[0])
	args := words[1:]

	// .db VALUE...
	if name == ".DB" {
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		for n, arg := range args {
			var value uint8
			var link string
			value, link, err = asm.immediateOf(arg)
			if err != nil {
				return
			}
			if len(link) != 0 && n != len(args)-1 {
				// Only the last byte can be linked.
				err = ErrParseNumber(arg)
				return
			}
			label = link
			bytes = append(bytes, value)
		}
		return
	}

	op, ok := mnemonicMap[name]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if len(args) > op.Operands() {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(args) < op.Operands() {
		err = ErrOpcodeValueMissing
		return
	}

	bytes = append(bytes, uint8(op))
	for n, arg := range args {
		if op == LDI && n == 1 {
			var value uint8
			value, label, err = asm.immediateOf(arg)
			if err != nil {
				return
			}
			bytes = append(bytes, value)
			continue
		}
		reg, ok := regMap[strings.ToUpper(arg)]
		if !ok {
			err = ErrParseRegister(arg)
			return
		}
		bytes = append(bytes, reg)
	}

	return
}
