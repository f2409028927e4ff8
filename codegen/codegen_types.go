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
	"strings"

	"go.rbgen.dev/rbgen/schema"
)

// WireTag identifies a value's on-the-wire type category, as understood by
// ::Thrift::Types in the Ruby runtime.
type WireTag uint8

const (
	TagBool WireTag = iota + 1
	TagByte
	TagI16
	TagI32
	TagI64
	TagDouble
	TagString
	TagStruct
	TagMap
	TagSet
	TagList
)

var wireTagNames = [...]string{
	TagBool:   "BOOL",
	TagByte:   "BYTE",
	TagI16:    "I16",
	TagI32:    "I32",
	TagI64:    "I64",
	TagDouble: "DOUBLE",
	TagString: "STRING",
	TagStruct: "STRUCT",
	TagMap:    "MAP",
	TagSet:    "SET",
	TagList:   "LIST",
}

func (tag WireTag) String() string {
	if tag != 0 && int(tag) < len(wireTagNames) {
		return wireTagNames[tag]
	}
	return fmt.Sprintf("WireTag(%d)", uint8(tag))
}

func (tag WireTag) rubyConst() string {
	return "::Thrift::Types::" + tag.String()
}

// WireTagOf maps a type to its wire tag after following typedefs. Void and
// unresolved aliases have no tag.
func WireTagOf(t schema.Type) (WireTag, error) {
	switch t := schema.Resolve(t).(type) {
	case schema.BaseType:
		switch t {
		case schema.Bool:
			return TagBool, nil
		case schema.Byte:
			return TagByte, nil
		case schema.I16:
			return TagI16, nil
		case schema.I32:
			return TagI32, nil
		case schema.I64:
			return TagI64, nil
		case schema.Double:
			return TagDouble, nil
		case schema.String, schema.Binary:
			return TagString, nil
		}
		return 0, errUnsupportedType(t)
	case *schema.Enum:
		return TagI32, nil
	case *schema.Struct:
		return TagStruct, nil
	case *schema.MapType:
		return TagMap, nil
	case *schema.SetType:
		return TagSet, nil
	case *schema.ListType:
		return TagList, nil
	case *schema.Typedef:
		return 0, errUnsupportedType(t)
	case nil:
		return 0, errUnsupportedType(nil)
	default:
		panic("unreachable")
	}
}

// modules expands a program's dotted namespace into Ruby module names.
func (g *generator) modules(program *schema.Program) []string {
	if program == nil {
		program = g.program
	}
	if program == nil || program.Namespace == "" {
		return nil
	}
	parts := strings.Split(program.Namespace, ".")
	modules := make([]string, 0, len(parts))
	for _, part := range parts {
		modules = append(modules, g.casing.Title(part))
	}
	return modules
}

func (g *generator) declName(t schema.Type) string {
	switch t := t.(type) {
	case *schema.Struct:
		return g.casing.Title(t.Name)
	case *schema.Enum:
		return g.casing.Title(t.Name)
	case nil:
		return ""
	default:
		return t.TypeName()
	}
}

func (g *generator) qualifiedName(t schema.Type) string {
	var program *schema.Program
	switch t := t.(type) {
	case *schema.Struct:
		program = t.Program
	case *schema.Enum:
		program = t.Program
	case *schema.Typedef:
		program = t.Program
	default:
		return g.declName(t)
	}
	return g.qualify(program, g.declName(t))
}

func (g *generator) qualifiedServiceName(svc *schema.Service) string {
	return g.qualify(svc.Program, g.casing.Title(svc.Name))
}

func (g *generator) qualify(program *schema.Program, name string) string {
	modules := g.modules(program)
	if len(modules) == 0 {
		return name
	}
	return strings.Join(modules, "::") + "::" + name
}
