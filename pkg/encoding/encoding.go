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

package encoding

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (int64, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseInt(s, 0, 64)

	if err != nil {
		return 0, err
	}

	return result, nil
}

// Decodes a base-10 string in the formats: #123, 123, #-123, -123
func DecodeInt(s string) (int64, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	return strconv.ParseInt(s, 10, 64)
}

// Decodes either a hex or a base-10 string, hex taking precedence
func DecodeValue(s string) (int64, error) {
	if value, err := DecodeHex(s); err == nil {
		return value, nil
	}

	return DecodeInt(s)
}

// Decodes a comma separated list of base-10 integers such as an Intcode
// program. Surrounding whitespace and empty tokens are ignored.
func DecodeList(s string) ([]int64, error) {
	tokens := strings.Split(s, ",")
	result := make([]int64, 0, len(tokens))

	for i, token := range tokens {
		token = strings.TrimSpace(token)

		if token == "" {
			continue
		}

		value, err := strconv.ParseInt(token, 10, 64)

		if err != nil {
			return nil, errors.Wrapf(err, "token %d", i)
		}

		result = append(result, value)
	}

	return result, nil
}

// Encodes a list of integers in the same format DecodeList accepts
func EncodeList(values []int64) string {
	var sb strings.Builder

	for i, value := range values {
		if i > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(strconv.FormatInt(value, 10))
	}

	return sb.String()
}
