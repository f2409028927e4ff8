// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package codegen

import (
	"fmt"

	"go.rbgen.dev/rbgen/schema"
)

type ErrorKind uint8

const (
	UnsupportedType ErrorKind = iota + 1
	UnknownField
	UnsupportedConstantType
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedType:
		return "UnsupportedType"
	case UnknownField:
		return "UnknownField"
	case UnsupportedConstantType:
		return "UnsupportedConstantType"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is a generation-fatal error. Any Error returned by Generate aborts the
// whole compilation unit.
type Error struct {
	kind    ErrorKind
	code    uint32
	message string
}

var _ error = (*Error)(nil)

// Sentinels for use with errors.Is; they match any Error of the same kind.
var (
	ErrUnsupportedType         = &Error{kind: UnsupportedType, code: 5000}
	ErrUnknownField            = &Error{kind: UnknownField, code: 5001}
	ErrUnsupportedConstantType = &Error{kind: UnsupportedConstantType, code: 5002}
)

func (err *Error) Error() string {
	if err.message == "" {
		return fmt.Sprintf("E%d: %s", err.code, err.kind)
	}
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.kind == err.kind && other.message == ""
}

func (err *Error) Kind() ErrorKind {
	return err.kind
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func errUnsupportedType(t schema.Type) error {
	return &Error{
		kind:    UnsupportedType,
		code:    5000,
		message: fmt.Sprintf("Type '%s' has no wire representation", typeString(t)),
	}
}

func errUnknownField(s *schema.Struct, name string) error {
	return &Error{
		kind: UnknownField,
		code: 5001,
		message: fmt.Sprintf(
			"%s '%s' has no field '%s'",
			s.Kind, s.Name, name,
		),
	}
}

func errUnsupportedConstantType(t schema.Type, v schema.Value) error {
	return &Error{
		kind: UnsupportedConstantType,
		code: 5002,
		message: fmt.Sprintf(
			"Cannot render %s value as constant of type '%s'",
			valueKindString(v), typeString(t),
		),
	}
}

func typeString(t schema.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.TypeName()
}

func valueKindString(v schema.Value) string {
	switch v.(type) {
	case schema.IntValue:
		return "integer"
	case schema.DoubleValue:
		return "double"
	case schema.BoolValue:
		return "bool"
	case schema.StringValue:
		return "string"
	case schema.IdentValue:
		return "identifier"
	case schema.ListValue:
		return "list"
	case schema.MapValue:
		return "map"
	case nil:
		return "empty"
	default:
		panic("unreachable")
	}
}
