// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package disasm decodes Intcode tape cells into readable instructions.
//
// Operands print as [n] for position mode, #n for immediate mode and
// [rb+n] for relative mode:
//
//	0000: add [9], #3, [rb+4]
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/intcode/pkg/machine"
)

type Instruction struct {
	Addr   int
	Word   int64
	Opcode int64
	Modes  []int64
	Params []int64
}

// Size is the number of cells the instruction occupies.
func (ins Instruction) Size() int {
	return 1 + len(ins.Params)
}

func (ins Instruction) Name() string {
	return machine.OpNames[ins.Opcode]
}

func FormatOperand(mode, value int64) string {
	switch mode {
	case machine.MODE_IMMEDIATE:
		return fmt.Sprintf("#%d", value)
	case machine.MODE_RELATIVE:
		if value < 0 {
			return fmt.Sprintf("[rb%d]", value)
		}
		return fmt.Sprintf("[rb+%d]", value)
	default:
		return fmt.Sprintf("[%d]", value)
	}
}

func (ins Instruction) String() string {
	operands := make([]string, len(ins.Params))

	for i, param := range ins.Params {
		operands[i] = FormatOperand(ins.Modes[i], param)
	}

	if len(operands) == 0 {
		return ins.Name()
	}

	return ins.Name() + " " + strings.Join(operands, ", ")
}

type InvalidOpcodeError struct {
	Addr int
	Word int64
}

func (err *InvalidOpcodeError) Error() string {
	return fmt.Sprintf(
		"%04d: Invalid opcode %d (%d)", err.Addr, machine.Opcode(err.Word), err.Word,
	)
}

type InvalidModeError struct {
	Addr  int
	Word  int64
	Param int
	Mode  int64
}

func (err *InvalidModeError) Error() string {
	return fmt.Sprintf(
		"%04d: Invalid mode %d for parameter %d (%d)",
		err.Addr,
		err.Mode,
		err.Param,
		err.Word,
	)
}

type TruncatedError struct {
	Addr     int
	Required int
	Received int
}

func (err *TruncatedError) Error() string {
	return fmt.Sprintf(
		"%04d: Truncated instruction\n\twant:%d parameters\n\thave:%d",
		err.Addr,
		err.Required,
		err.Received,
	)
}

// Decode reads the instruction starting at addr.
func Decode(tape []int64, addr int) (Instruction, error) {
	if addr < 0 || addr >= len(tape) {
		return Instruction{}, &TruncatedError{Addr: addr, Required: 1}
	}

	word := tape[addr]
	opcode := machine.Opcode(word)
	count, exists := machine.OpParams[opcode]

	if !exists {
		return Instruction{}, &InvalidOpcodeError{Addr: addr, Word: word}
	}

	if available := len(tape) - addr - 1; available < count {
		return Instruction{}, &TruncatedError{
			Addr:     addr,
			Required: count,
			Received: available,
		}
	}

	ins := Instruction{
		Addr:   addr,
		Word:   word,
		Opcode: opcode,
		Modes:  make([]int64, count),
		Params: make([]int64, count),
	}

	for i := 0; i < count; i++ {
		mode := machine.Mode(word, i+1)

		invalid := mode > machine.MODE_RELATIVE || mode < machine.MODE_POSITION

		if mode == machine.MODE_IMMEDIATE && machine.IsDestination(opcode, i+1) {
			invalid = true
		}

		if invalid {
			return Instruction{}, &InvalidModeError{
				Addr:  addr,
				Word:  word,
				Param: i + 1,
				Mode:  mode,
			}
		}

		ins.Modes[i] = mode
		ins.Params[i] = tape[addr+i+1]
	}

	// Mode digits past the last parameter would not survive reassembly
	limit := int64(100)

	for i := 0; i < count; i++ {
		limit *= 10
	}

	if word/limit != 0 {
		return Instruction{}, &InvalidModeError{
			Addr:  addr,
			Word:  word,
			Param: count + 1,
			Mode:  machine.Mode(word, count+1),
		}
	}

	return ins, nil
}

// Listing writes count lines of disassembly starting at from. Cells which
// do not decode are written as data and skipped one at a time.
func Listing(w io.Writer, tape []int64, from, count int) error {
	addr := from
	if addr < 0 {
		addr = 0
	}

	for line := 0; line < count && addr < len(tape); line++ {
		var err error

		if ins, decodeErr := Decode(tape, addr); decodeErr == nil {
			_, err = fmt.Fprintf(w, "%04d: %s\n", addr, ins)
			addr += ins.Size()
		} else {
			_, err = fmt.Fprintf(w, "%04d: .data %d\n", addr, tape[addr])
			addr++
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// Trim returns tape without its trailing zero cells, keeping at least one.
func Trim(tape []int64) []int64 {
	end := len(tape)

	for end > 1 && tape[end-1] == 0 {
		end--
	}

	return tape[:end]
}
