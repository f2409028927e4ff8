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

package schema

import (
	"fmt"
)

// Type is one of BaseType, *Enum, *Struct, *ListType, *SetType, *MapType or
// *Typedef.
type Type interface {
	TypeName() string
	isType()
}

type BaseType uint8

const (
	Void BaseType = iota
	Bool
	Byte
	I16
	I32
	I64
	Double
	String
	Binary
)

var baseTypeNames = [...]string{
	Void:   "void",
	Bool:   "bool",
	Byte:   "byte",
	I16:    "i16",
	I32:    "i32",
	I64:    "i64",
	Double: "double",
	String: "string",
	Binary: "binary",
}

func (BaseType) isType() {}

func (t BaseType) TypeName() string {
	if int(t) < len(baseTypeNames) {
		return baseTypeNames[t]
	}
	return fmt.Sprintf("BaseType(%d)", uint8(t))
}

func (t BaseType) String() string {
	return t.TypeName()
}

// BaseTypeNamed maps an IDL keyword such as "i32" to its BaseType.
func BaseTypeNamed(name string) (BaseType, bool) {
	for ii, baseName := range baseTypeNames {
		if baseName == name {
			return BaseType(ii), true
		}
	}
	return 0, false
}

type ListType struct {
	Elem Type
}

func (*ListType) isType() {}

func (t *ListType) TypeName() string {
	return fmt.Sprintf("list<%s>", t.Elem.TypeName())
}

type SetType struct {
	Elem Type
}

func (*SetType) isType() {}

func (t *SetType) TypeName() string {
	return fmt.Sprintf("set<%s>", t.Elem.TypeName())
}

type MapType struct {
	Key   Type
	Value Type
}

func (*MapType) isType() {}

func (t *MapType) TypeName() string {
	return fmt.Sprintf("map<%s,%s>", t.Key.TypeName(), t.Value.TypeName())
}

// Resolve follows typedef aliases until it reaches a non-alias type. An
// alias without a target is returned as-is.
func Resolve(t Type) Type {
	for {
		alias, ok := t.(*Typedef)
		if !ok || alias.Target == nil {
			return t
		}
		t = alias.Target
	}
}

// IsVoid reports whether t resolves to the void base type.
func IsVoid(t Type) bool {
	base, ok := Resolve(t).(BaseType)
	return ok && base == Void
}
