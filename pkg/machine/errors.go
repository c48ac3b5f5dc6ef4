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

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOutputNotReady = errors.New("no output pending")
	ErrOutputPending  = errors.New("unread output pending")
	ErrHalted         = errors.New("machine halted")
)

// Reasons a machine may fault. A fault is terminal.
const (
	InvalidOpcode = Errno(iota)
	InvalidParameterMode
	AddressOutOfRange
	ImmediateWriteTarget
)

var strErrno = []string{
	"invalid opcode",
	"invalid parameter mode",
	"address out of range",
	"immediate mode write target",
}

type Errno int

func (e Errno) Error() string {
	if int(e) < 0 || int(e) >= len(strErrno) {
		return fmt.Sprintf("errno %d", int(e))
	}

	return strErrno[e]
}

// Fault describes why and where a machine stopped executing.
type Fault struct {
	Errno Errno
	PC    int   // instruction pointer of the faulting instruction
	Instr int64 // instruction word, when it could be fetched
	Param int   // 1-based parameter index, 0 when not parameter related
	Value int64 // offending mode digit or address
}

func (f *Fault) Error() string {
	msg := f.Errno.Error()

	switch f.Errno {
	case InvalidOpcode:
		msg += fmt.Sprintf(" %d", Opcode(f.Instr))
	case InvalidParameterMode:
		msg += fmt.Sprintf(" %d on parameter %d", f.Value, f.Param)
	case AddressOutOfRange:
		msg += fmt.Sprintf(" %d", f.Value)
	case ImmediateWriteTarget:
		msg += fmt.Sprintf(" on parameter %d", f.Param)
	}

	return fmt.Sprintf("%s at %d (%d)", msg, f.PC, f.Instr)
}

// IsFault reports whether err is a machine fault with the given errno.
func IsFault(err error, errno Errno) bool {
	f, ok := errors.Cause(err).(*Fault)
	return ok && f.Errno == errno
}
