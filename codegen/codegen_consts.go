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
	"math"
	"strconv"
	"strings"

	"go.rbgen.dev/rbgen/schema"
)

// renderConst renders value as a Ruby literal of type t. Lines after the
// first are indented relative to depth, the indentation of the line the
// literal starts on.
func (g *generator) renderConst(t schema.Type, value schema.Value, depth int) (string, error) {
	switch resolved := schema.Resolve(t).(type) {
	case schema.BaseType:
		return g.renderBaseConst(resolved, value)
	case *schema.Enum:
		// Symbolic members are resolved to integers before generation.
		if n, ok := value.(schema.IntValue); ok {
			return strconv.FormatInt(int64(n), 10), nil
		}
	case *schema.Struct:
		return g.renderStructConst(resolved, value, depth)
	case *schema.MapType:
		return g.renderMapConst(resolved, value, depth)
	case *schema.ListType:
		return g.renderSeqConst(resolved, resolved.Elem, value, depth, "[", "]")
	case *schema.SetType:
		return g.renderSeqConst(resolved, resolved.Elem, value, depth, "Set.new([", "])")
	}
	return "", errUnsupportedConstantType(t, value)
}

func (g *generator) renderBaseConst(t schema.BaseType, value schema.Value) (string, error) {
	switch t {
	case schema.String, schema.Binary:
		if s, ok := value.(schema.StringValue); ok {
			return g.casing.Quote(string(s)), nil
		}
	case schema.Bool:
		switch v := value.(type) {
		case schema.IntValue:
			return strconv.FormatBool(v != 0), nil
		case schema.BoolValue:
			return strconv.FormatBool(bool(v)), nil
		}
	case schema.Byte, schema.I16, schema.I32, schema.I64:
		if n, ok := value.(schema.IntValue); ok {
			return strconv.FormatInt(int64(n), 10), nil
		}
	case schema.Double:
		switch v := value.(type) {
		case schema.IntValue:
			return strconv.FormatInt(int64(v), 10), nil
		case schema.DoubleValue:
			return formatDouble(float64(v)), nil
		}
	}
	return "", errUnsupportedConstantType(t, value)
}

func formatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Float::INFINITY"
	case math.IsInf(f, -1):
		return "-Float::INFINITY"
	case math.IsNaN(f):
		return "Float::NAN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (g *generator) renderStructConst(s *schema.Struct, value schema.Value, depth int) (string, error) {
	entries, ok := value.(schema.MapValue)
	if !ok {
		return "", errUnsupportedConstantType(s, value)
	}

	var buf strings.Builder
	buf.WriteString(g.qualifiedName(s))
	buf.WriteString(".new({\n")
	for _, entry := range entries {
		var key string
		switch k := entry.Key.(type) {
		case schema.StringValue:
			key = string(k)
		case schema.IdentValue:
			key = string(k)
		default:
			return "", errUnsupportedConstantType(s, value)
		}
		field := g.fieldByName(s, key)
		if field == nil {
			return "", errUnknownField(s, key)
		}
		renderedKey, err := g.renderConst(schema.String, schema.StringValue(key), depth+1)
		if err != nil {
			return "", err
		}
		renderedValue, err := g.renderConst(field.Type, entry.Value, depth+1)
		if err != nil {
			return "", err
		}
		buf.WriteString(indentString(depth + 1))
		buf.WriteString(renderedKey)
		buf.WriteString(" => ")
		buf.WriteString(renderedValue)
		buf.WriteString(",\n")
	}
	buf.WriteString(indentString(depth))
	buf.WriteString("})")
	return buf.String(), nil
}

func (g *generator) renderMapConst(t *schema.MapType, value schema.Value, depth int) (string, error) {
	entries, ok := value.(schema.MapValue)
	if !ok {
		return "", errUnsupportedConstantType(t, value)
	}

	var buf strings.Builder
	buf.WriteString("{\n")
	for _, entry := range entries {
		key, err := g.renderConst(t.Key, entry.Key, depth+1)
		if err != nil {
			return "", err
		}
		val, err := g.renderConst(t.Value, entry.Value, depth+1)
		if err != nil {
			return "", err
		}
		buf.WriteString(indentString(depth + 1))
		buf.WriteString(key)
		buf.WriteString(" => ")
		buf.WriteString(val)
		buf.WriteString(",\n")
	}
	buf.WriteString(indentString(depth))
	buf.WriteString("}")
	return buf.String(), nil
}

// renderSeqConst renders list and set literals. Sets keep the declared
// element order too.
func (g *generator) renderSeqConst(
	t schema.Type,
	elemType schema.Type,
	value schema.Value,
	depth int,
	opening, closing string,
) (string, error) {
	items, ok := value.(schema.ListValue)
	if !ok {
		return "", errUnsupportedConstantType(t, value)
	}

	var buf strings.Builder
	buf.WriteString(opening)
	buf.WriteString("\n")
	for _, item := range items {
		rendered, err := g.renderConst(elemType, item, depth+1)
		if err != nil {
			return "", err
		}
		buf.WriteString(indentString(depth + 1))
		buf.WriteString(rendered)
		buf.WriteString(",\n")
	}
	buf.WriteString(indentString(depth))
	buf.WriteString(closing)
	return buf.String(), nil
}

// fieldByName looks a field up through an index built once per struct. With
// duplicate names the first declaration wins.
func (g *generator) fieldByName(s *schema.Struct, name string) *schema.Field {
	index, ok := g.fieldIndexes[s]
	if !ok {
		index = make(map[string]*schema.Field, len(s.Fields))
		for _, field := range s.Fields {
			if _, dup := index[field.Name]; !dup {
				index[field.Name] = field
			}
		}
		g.fieldIndexes[s] = index
	}
	return index[name]
}
