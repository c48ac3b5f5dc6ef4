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

// Package assembler turns Intcode assembly into program cells.
//
// The syntax is the one the disassembler prints. Each line holds optional
// labels, then an instruction or a .data directive, then an optional comment:
//
//	start:  in   [rb+1]
//	        add  [x], #3, [x]     ; position, immediate, position
//	        jt   #1, #start
//	x:      .data 0, -3, start
//
// Labels may stand in for any literal. A numeric prefix such as "0004:" is
// ignored, so disassembler listings assemble back into the same cells.
package assembler

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

const DIRECTIVE_DATA = ".data"

type operand struct {
	Type     TokenType
	Value    int64
	Label    string
	Negate   bool
	Position Cursor
}

func parseInstruction(ident string) (int64, bool) {
	for opcode, name := range machine.OpNames {
		if strings.EqualFold(name, ident) {
			return opcode, true
		}
	}

	return 0, false
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, char := range s {
		switch {
		case char == '_', char <= unicode.MaxASCII && unicode.IsLetter(char):
		case i > 0 && unicode.IsDigit(char):
		default:
			return false
		}
	}

	return true
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}

	for _, char := range s {
		if !unicode.IsDigit(char) {
			return false
		}
	}

	return true
}

// Parses a literal or a label reference
func parseValue(text string, position Cursor) (operand, error) {
	text = strings.TrimSpace(text)

	if isIdent(text) {
		return operand{Label: text, Position: position}, nil
	}

	value, err := encoding.DecodeValue(text)

	if err != nil {
		return operand{}, &InvalidLiteralError{position, text}
	}

	return operand{Value: value, Position: position}, nil
}

func parseOperand(text string, position Cursor) (operand, error) {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "#"):
		result, err := parseValue(text[1:], position)
		result.Type = TOKEN_IMMEDIATE
		return result, err

	case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"):
		inner := strings.ReplaceAll(text[1:len(text)-1], " ", "")

		switch {
		case inner == "rb":
			return operand{Type: TOKEN_RELATIVE, Position: position}, nil

		case strings.HasPrefix(inner, "rb+"), strings.HasPrefix(inner, "rb-"):
			result, err := parseValue(inner[3:], position)

			if inner[2] == '-' {
				result.Value = -result.Value
				result.Negate = true
			}

			result.Type = TOKEN_RELATIVE
			return result, err

		default:
			result, err := parseValue(inner, position)
			result.Type = TOKEN_POSITION
			return result, err
		}
	}

	return operand{}, &InvalidOperandError{
		Position: position,
		Required: []TokenType{TOKEN_POSITION, TOKEN_IMMEDIATE, TOKEN_RELATIVE},
		Received: TOKEN_NONE,
	}
}

// Splits comma separated operands, returning the 1-based column of each
func splitOperands(text string, offset int) ([]string, []int) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var parts []string
	var columns []int

	start := 0

	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != ',' {
			continue
		}

		part := text[start:i]
		lead := len(part) - len(strings.TrimLeft(part, " \t"))

		parts = append(parts, part)
		columns = append(columns, offset+start+lead+1)

		start = i + 1
	}

	return parts, columns
}

// Returns the next whitespace delimited word of line starting at offset
func nextWord(line string, offset int) (word string, start int, end int) {
	start = offset

	for start < len(line) && (line[start] == ' ' || line[start] == '\t') {
		start++
	}

	end = start

	for end < len(line) && line[end] != ' ' && line[end] != '\t' {
		end++
	}

	return line[start:end], start, end
}

// Assemble reads Intcode assembly and returns the program cells. Every error
// found is returned, most implementing TokenError. When symtable is not nil
// it receives labels and source lines.
func Assemble(input io.Reader, symtable *SymTable) (result []int64, errs []error) {
	type LabelRef struct {
		Addr    int
		Operand operand
	}

	var labels = make(map[string]int)
	var labelRefs []LabelRef

	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 0, Column: 0}

	result = make([]int64, 0, 64)
	errs = make([]error, 0)

	emit := func(op operand) {
		if op.Label != "" {
			labelRefs = append(labelRefs, LabelRef{len(result), op})
		}

		result = append(result, op.Value)
	}

	for scanner.Scan() {
		cursor.Line++

		line := scanner.Text()

		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}

		// Labels and listing addresses
		word, start, end := nextWord(line, 0)

		for strings.HasSuffix(word, ":") {
			name := word[:len(word)-1]
			cursor.Column = start + 1

			if isIdent(name) {
				if _, exists := labels[name]; exists {
					errs = append(errs, &RedeclaredLabelError{cursor, name})
				} else {
					labels[name] = len(result)

					if symtable != nil {
						if _, exists := symtable.Labels[len(result)]; !exists {
							symtable.Labels[len(result)] = name
						}
					}
				}
			} else if !isNumber(name) {
				errs = append(errs, &UnknownIdentifierError{cursor, name})
			}

			word, start, end = nextWord(line, end)
		}

		if word == "" {
			continue
		}

		cursor.Column = start + 1
		parts, columns := splitOperands(line[end:], end)

		if word == DIRECTIVE_DATA {
			for i, part := range parts {
				op, err := parseValue(
					strings.TrimPrefix(strings.TrimSpace(part), "#"),
					Cursor{cursor.Line, columns[i]},
				)

				if err != nil {
					errs = append(errs, err)
					continue
				}

				if symtable != nil {
					symtable.Lines[len(result)] = cursor.Line
				}

				emit(op)
			}

			continue
		}

		opcode, ok := parseInstruction(word)

		if !ok {
			errs = append(errs, &UnknownIdentifierError{cursor, word})
			continue
		}

		if count := machine.OpParams[opcode]; len(parts) != count {
			errs = append(errs, &InvalidNumArgumentsError{cursor, count, len(parts)})
			continue
		}

		operands := make([]operand, len(parts))
		lineErrs := len(errs)
		instruction := opcode
		multiplier := int64(100)

		for i, part := range parts {
			op, err := parseOperand(part, Cursor{cursor.Line, columns[i]})

			if err != nil {
				errs = append(errs, err)
				continue
			}

			if op.Type == TOKEN_IMMEDIATE && machine.IsDestination(opcode, i+1) {
				errs = append(errs, &InvalidOperandError{
					Position: op.Position,
					Required: []TokenType{TOKEN_POSITION, TOKEN_RELATIVE},
					Received: TOKEN_IMMEDIATE,
				})
				continue
			}

			switch op.Type {
			case TOKEN_IMMEDIATE:
				instruction += machine.MODE_IMMEDIATE * multiplier
			case TOKEN_RELATIVE:
				instruction += machine.MODE_RELATIVE * multiplier
			}

			operands[i] = op
			multiplier *= 10
		}

		if len(errs) > lineErrs {
			continue
		}

		if symtable != nil {
			symtable.Lines[len(result)] = cursor.Line
		}

		result = append(result, instruction)

		for _, op := range operands {
			emit(op)
		}
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	for _, ref := range labelRefs {
		addr, exists := labels[ref.Operand.Label]

		if !exists {
			errs = append(errs, &UnknownLabelError{
				ref.Operand.Position, ref.Operand.Label,
			})
			continue
		}

		if ref.Operand.Negate {
			result[ref.Addr] = -int64(addr)
		} else {
			result[ref.Addr] = int64(addr)
		}
	}

	return result, errs
}
