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

package disasm_test

import (
	"bytes"
	"testing"

	"github.com/lassandro/intcode/pkg/disasm"
	"github.com/lassandro/intcode/pkg/encoding"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		Name string
		Code string
		Addr int
		Want string
		Size int
	}{
		{"ADD Position", "1,9,10,3", 0, "add [9], [10], [3]", 4},
		{"MUL Mixed", "1002,4,3,4", 0, "mul [4], #3, [4]", 4},
		{"IN Relative", "203,50", 0, "in [rb+50]", 2},
		{"OUT Negative Relative", "204,-1", 0, "out [rb-1]", 2},
		{"JT Immediate", "1105,1,9", 0, "jt #1, #9", 3},
		{"JF Position", "6,12,15", 0, "jf [12], [15]", 3},
		{"LT Relative Destination", "21107,-1,8,3", 0, "lt #-1, #8, [rb+3]", 4},
		{"EQ", "8,9,10,9", 0, "eq [9], [10], [9]", 4},
		{"ARB", "109,19", 0, "arb #19", 2},
		{"HALT", "1,0,0,0,99", 4, "halt", 1},
	}

	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			tape, err := encoding.DecodeList(test.Code)
			if err != nil {
				t.Fatal(err)
			}

			ins, err := disasm.Decode(tape, test.Addr)

			if err != nil {
				t.Fatalf("Unexpected decode error\nhave:%v", err)
			}

			if have := ins.String(); have != test.Want {
				t.Errorf("Disassembly mismatch\nwant:%s\nhave:%s", test.Want, have)
			}

			if have := ins.Size(); have != test.Size {
				t.Errorf("Size mismatch\nwant:%d\nhave:%d", test.Size, have)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := disasm.Decode([]int64{98}, 0); err == nil {
		t.Error("Expected invalid opcode")
	} else if _, ok := err.(*disasm.InvalidOpcodeError); !ok {
		t.Errorf("Error type mismatch\nhave:%T", err)
	}

	if _, err := disasm.Decode([]int64{301, 0, 0, 0}, 0); err == nil {
		t.Error("Expected invalid mode")
	} else if modeErr, ok := err.(*disasm.InvalidModeError); !ok || modeErr.Param != 1 {
		t.Errorf("Error mismatch\nhave:%v", err)
	}

	if _, err := disasm.Decode([]int64{11101, 1, 1, 5}, 0); err == nil {
		t.Error("Expected immediate destination to be rejected")
	} else if modeErr, ok := err.(*disasm.InvalidModeError); !ok || modeErr.Param != 3 {
		t.Errorf("Error mismatch\nhave:%v", err)
	}

	if _, err := disasm.Decode([]int64{10099}, 0); err == nil {
		t.Error("Expected stray mode digits to be rejected")
	} else if modeErr, ok := err.(*disasm.InvalidModeError); !ok || modeErr.Param != 1 {
		t.Errorf("Error mismatch\nhave:%v", err)
	}

	if _, err := disasm.Decode([]int64{1, 0}, 0); err == nil {
		t.Error("Expected truncated instruction")
	} else if truncErr, ok := err.(*disasm.TruncatedError); !ok || truncErr.Received != 1 {
		t.Errorf("Error mismatch\nhave:%v", err)
	}

	if _, err := disasm.Decode([]int64{99}, 3); err == nil {
		t.Error("Expected out of range address")
	}
}

func TestListing(t *testing.T) {
	tape, _ := encoding.DecodeList("1,9,10,3,2,3,11,0,99,30,40,50")

	var buf bytes.Buffer

	if err := disasm.Listing(&buf, tape, 0, 5); err != nil {
		t.Fatal(err)
	}

	want := "0000: add [9], [10], [3]\n" +
		"0004: mul [3], [11], [0]\n" +
		"0008: halt\n" +
		"0009: .data 30\n" +
		"0010: .data 40\n"

	if have := buf.String(); have != want {
		t.Errorf("Listing mismatch\nwant:\n%s\nhave:\n%s", want, have)
	}
}

func TestTrim(t *testing.T) {
	if have := disasm.Trim([]int64{1, 2, 0, 0}); len(have) != 2 {
		t.Errorf("Trim mismatch\nwant:[1 2]\nhave:%v", have)
	}

	if have := disasm.Trim([]int64{0, 0}); len(have) != 1 {
		t.Errorf("Trim mismatch\nwant:[0]\nhave:%v", have)
	}
}
