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

package assembler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lassandro/intcode/pkg/assembler"
	"github.com/lassandro/intcode/pkg/disasm"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

type testCase struct {
	Name   string
	Source string
	Output string
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	result, errs := assembler.Assemble(strings.NewReader(test.Source), nil)

	for _, err := range errs {
		t.Errorf("Unexpected error\nhave:%v", err)
	}

	if have := encoding.EncodeList(result); have != test.Output {
		t.Errorf(
			"Assembly mismatch\nwant:%s (test.Output)\nhave:%s",
			test.Output,
			have,
		)
	}
}

func TestAssemble(t *testing.T) {
	tests := []testCase{
		{
			Name:   "ADD Position",
			Source: "add [0], [0], [0]\nhalt",
			Output: "1,0,0,0,99",
		},
		{
			Name:   "MUL Immediate",
			Source: "mul [4], #3, [4]",
			Output: "1002,4,3,4",
		},
		{
			Name:   "IN Relative",
			Source: "in [rb+50]\nHALT",
			Output: "203,50,99",
		},
		{
			Name:   "OUT Negative Relative",
			Source: "out [rb-1]\nout [rb]",
			Output: "204,-1,204,0",
		},
		{
			Name:   "LT Relative Destination",
			Source: "lt #-1, #8, [rb+3]",
			Output: "21107,-1,8,3",
		},
		{
			Name:   "Hex Literal",
			Source: "arb #0x10",
			Output: "109,16",
		},
		{
			Name: "Labels",
			Source: `
; counts down from three
start:  add   [count], #-1, [count]
        out   [count]
        jt    [count], #start     ; loop while nonzero
        halt
count:  .data 3`,
			Output: "1001,10,-1,10,4,10,1005,10,0,99,3",
		},
		{
			Name:   "Data Labels",
			Source: "a: b: .data a, #-2, end\nend: halt",
			Output: "0,-2,3,99",
		},
		{
			Name:   "Relative Label",
			Source: "arb #x\nout [rb-x]\nx: halt",
			Output: "109,4,204,-4,99",
		},
		{
			Name:   "Listing Prefix",
			Source: "0000: add [9], [10], [3]\n0004: halt",
			Output: "1,9,10,3,99",
		},
	}

	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			test := test
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerSuccess(t, &test)
			})
		}
	})
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		Name   string
		Source string
		Check  func(err error) bool
		Line   int
		Column int
	}{
		{
			"Unknown Instruction", "nop [1]",
			func(err error) bool { _, ok := err.(*assembler.UnknownIdentifierError); return ok },
			1, 1,
		},
		{
			"Argument Count", "halt\n  add [1], [2]",
			func(err error) bool { _, ok := err.(*assembler.InvalidNumArgumentsError); return ok },
			2, 3,
		},
		{
			"Immediate Destination", "add [1], [2], #3",
			func(err error) bool { _, ok := err.(*assembler.InvalidOperandError); return ok },
			1, 15,
		},
		{
			"Bare Operand", "out 5",
			func(err error) bool { _, ok := err.(*assembler.InvalidOperandError); return ok },
			1, 5,
		},
		{
			"Invalid Literal", "out #5x",
			func(err error) bool { _, ok := err.(*assembler.InvalidLiteralError); return ok },
			1, 5,
		},
		{
			"Unknown Label", "jt #1, #nowhere",
			func(err error) bool { _, ok := err.(*assembler.UnknownLabelError); return ok },
			1, 8,
		},
		{
			"Redeclared Label", "a: halt\na: halt",
			func(err error) bool { _, ok := err.(*assembler.RedeclaredLabelError); return ok },
			2, 1,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			_, errs := assembler.Assemble(strings.NewReader(test.Source), nil)

			if len(errs) != 1 {
				t.Fatalf("Error count mismatch\nwant:1\nhave:%v", errs)
			}

			if !test.Check(errs[0]) {
				t.Fatalf("Error type mismatch\nhave:%T", errs[0])
			}

			cursor := errs[0].(assembler.TokenError).GetPosition()

			if cursor.Line != test.Line || cursor.Column != test.Column {
				t.Errorf(
					"Error position mismatch\nwant:%02d:%02d\nhave:%02d:%02d",
					test.Line,
					test.Column,
					cursor.Line,
					cursor.Column,
				)
			}
		})
	}
}

func TestSymTable(t *testing.T) {
	symtable := assembler.NewSymTable()

	source := "start: in [x]\n\nloop: out [x]\n  jt #1, #loop\nx: .data 0"

	if _, errs := assembler.Assemble(strings.NewReader(source), symtable); len(errs) > 0 {
		t.Fatal(errs)
	}

	wantLabels := map[int]string{0: "start", 2: "loop", 7: "x"}

	for addr, want := range wantLabels {
		if have := symtable.Labels[addr]; have != want {
			t.Errorf("Label mismatch at %d\nwant:%s\nhave:%s", addr, want, have)
		}
	}

	wantLines := map[int]int{0: 1, 2: 3, 4: 4, 7: 5}

	for addr, want := range wantLines {
		if have := symtable.Lines[addr]; have != want {
			t.Errorf("Line mismatch at %d\nwant:%d\nhave:%d", addr, want, have)
		}
	}

	if addr, ok := symtable.Lookup("loop"); !ok || addr != 2 {
		t.Errorf("Lookup mismatch\nwant:2\nhave:%d", addr)
	}
}

func TestListingRoundTrip(t *testing.T) {
	code := "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31," +
		"1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104,999,1105,1,46,1101," +
		"1000,1,20,4,20,1105,1,46,98,99"

	tape, err := encoding.DecodeList(code)
	if err != nil {
		t.Fatal(err)
	}

	var listing bytes.Buffer

	if err := disasm.Listing(&listing, tape, 0, len(tape)); err != nil {
		t.Fatal(err)
	}

	result, errs := assembler.Assemble(&listing, nil)

	if len(errs) > 0 {
		t.Fatal(errs)
	}

	if have := encoding.EncodeList(result); have != code {
		t.Fatalf("Round trip mismatch\nwant:%s\nhave:%s", code, have)
	}

	// And the assembled program still behaves
	mc := machine.NewFromCells(result, []int64{8})
	outputs, _, err := mc.Collect()

	if err != nil || len(outputs) != 1 || outputs[0] != 1000 {
		t.Errorf("Output mismatch\nwant:[1000]\nhave:%v (%v)", outputs, err)
	}
}
