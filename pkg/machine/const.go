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

package machine

// Number of cells a freshly loaded tape is padded to
const DefaultTapeSize = 10000

const (
	OP_ADD  int64 = 1
	OP_MUL  int64 = 2
	OP_IN   int64 = 3
	OP_OUT  int64 = 4
	OP_JT   int64 = 5
	OP_JF   int64 = 6
	OP_LT   int64 = 7
	OP_EQ   int64 = 8
	OP_ARB  int64 = 9
	OP_HALT int64 = 99
)

const (
	MODE_POSITION  int64 = 0
	MODE_IMMEDIATE int64 = 1
	MODE_RELATIVE  int64 = 2
)

// Number of parameters each opcode takes, not counting the instruction word
var OpParams = map[int64]int{
	OP_ADD:  3,
	OP_MUL:  3,
	OP_IN:   1,
	OP_OUT:  1,
	OP_JT:   2,
	OP_JF:   2,
	OP_LT:   3,
	OP_EQ:   3,
	OP_ARB:  1,
	OP_HALT: 0,
}

// Mnemonic used by the disassembler and traces
var OpNames = map[int64]string{
	OP_ADD:  "add",
	OP_MUL:  "mul",
	OP_IN:   "in",
	OP_OUT:  "out",
	OP_JT:   "jt",
	OP_JF:   "jf",
	OP_LT:   "lt",
	OP_EQ:   "eq",
	OP_ARB:  "arb",
	OP_HALT: "halt",
}

// Opcode extracts the operation selector from an instruction word
func Opcode(instruction int64) int64 {
	return instruction % 100
}

// Mode extracts the addressing mode digit of the 1-based parameter index
func Mode(instruction int64, param int) int64 {
	divisor := int64(100)

	for i := 1; i < param; i++ {
		divisor *= 10
	}

	return (instruction / divisor) % 10
}

// IsDestination reports whether the 1-based parameter of opcode is written to
func IsDestination(opcode int64, param int) bool {
	switch opcode {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		return param == 3
	case OP_IN:
		return param == 1
	}

	return false
}
