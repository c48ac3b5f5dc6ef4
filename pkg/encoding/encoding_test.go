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

package encoding_test

import (
	"testing"

	"github.com/lassandro/intcode/pkg/encoding"
)

func TestDecodeList(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
		Want  []int64
	}{
		{"Plain", "1,0,0,0,99", []int64{1, 0, 0, 0, 99}},
		{"Whitespace", " 1, 9 ,10,\n3 ", []int64{1, 9, 10, 3}},
		{"Empty tokens", "3,,4,", []int64{3, 4}},
		{"Negative", "1101,100,-1,4,0", []int64{1101, 100, -1, 4, 0}},
		{"Large", "104,1125899906842624,99", []int64{104, 1125899906842624, 99}},
		{"Empty", "", []int64{}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			have, err := encoding.DecodeList(test.Input)

			if err != nil {
				t.Fatalf("Unexpected error\nhave:%v", err)
			}

			if len(have) != len(test.Want) {
				t.Fatalf(
					"Length mismatch\nwant:%d\nhave:%d",
					len(test.Want),
					len(have),
				)
			}

			for i := range have {
				if have[i] != test.Want[i] {
					t.Errorf(
						"Value mismatch\nwant:%d (test.Want[%d])\nhave:%d",
						test.Want[i],
						i,
						have[i],
					)
				}
			}
		})
	}
}

func TestDecodeListInvalid(t *testing.T) {
	for _, input := range []string{"1,a,3", "1;2", "99999999999999999999"} {
		if _, err := encoding.DecodeList(input); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

func TestEncodeList(t *testing.T) {
	values := []int64{3, -1, 1125899906842624}

	if have := encoding.EncodeList(values); have != "3,-1,1125899906842624" {
		t.Errorf("Encoding mismatch\nwant:3,-1,1125899906842624\nhave:%s", have)
	}
}

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		Input string
		Want  int64
		Err   bool
	}{
		{"0x10", 16, false},
		{"x10", 16, false},
		{"0XFF", 255, false},
		{"10", 0, true},
		{"1x0", 0, true},
	}

	for _, test := range tests {
		have, err := encoding.DecodeHex(test.Input)

		if test.Err {
			if err == nil {
				t.Errorf("Expected error for %q", test.Input)
			}
			continue
		}

		if err != nil || have != test.Want {
			t.Errorf(
				"Decode mismatch for %q\nwant:%d\nhave:%d (%v)",
				test.Input,
				test.Want,
				have,
				err,
			)
		}
	}
}

func TestDecodeValue(t *testing.T) {
	tests := map[string]int64{
		"#12":  12,
		"-7":   -7,
		"#-7":  -7,
		"0x1F": 31,
	}

	for input, want := range tests {
		have, err := encoding.DecodeValue(input)

		if err != nil || have != want {
			t.Errorf(
				"Decode mismatch for %q\nwant:%d\nhave:%d (%v)",
				input,
				want,
				have,
				err,
			)
		}
	}
}
