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

package schemadoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"go.rbgen.dev/rbgen/schema"
)

// resolveValue converts a YAML node into a constant value of type t. Scalars
// keep the distinction between integer and floating literals; mappings keep
// their written order.
func (ctx *programCtx) resolveValue(t schema.Type, node *yaml.Node) (schema.Value, error) {
	resolved := schema.Resolve(t)
	switch node.Kind {
	case yaml.ScalarNode:
		return ctx.scalarValue(resolved, node)
	case yaml.SequenceNode:
		var elemType schema.Type
		switch c := resolved.(type) {
		case *schema.ListType:
			elemType = c.Elem
		case *schema.SetType:
			elemType = c.Elem
		}
		items := make(schema.ListValue, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := ctx.resolveValue(elemType, child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.MappingNode:
		entries := make(schema.MapValue, 0, len(node.Content)/2)
		for ii := 0; ii+1 < len(node.Content); ii += 2 {
			keyNode, valueNode := node.Content[ii], node.Content[ii+1]
			var keyType, valueType schema.Type
			switch c := resolved.(type) {
			case *schema.MapType:
				keyType, valueType = c.Key, c.Value
			case *schema.Struct:
				keyType = schema.String
				valueType = fieldType(c, keyNode.Value)
			}
			key, err := ctx.resolveValue(keyType, keyNode)
			if err != nil {
				return nil, err
			}
			value, err := ctx.resolveValue(valueType, valueNode)
			if err != nil {
				return nil, err
			}
			entries = append(entries, schema.MapEntry{Key: key, Value: value})
		}
		return entries, nil
	case yaml.AliasNode:
		return ctx.resolveValue(t, node.Alias)
	case 0:
		return nil, fmt.Errorf("missing value")
	}
	return nil, fmt.Errorf("line %d: unsupported value", node.Line)
}

// fieldType returns nil for unknown fields; the generator reports those.
func fieldType(s *schema.Struct, name string) schema.Type {
	for _, field := range s.Fields {
		if field.Name == name {
			return field.Type
		}
	}
	return nil
}

func (ctx *programCtx) scalarValue(t schema.Type, node *yaml.Node) (schema.Value, error) {
	switch node.ShortTag() {
	case "!!int":
		n, err := strconv.ParseInt(strings.ReplaceAll(node.Value, "_", ""), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return schema.IntValue(n), nil
	case "!!float":
		f, err := parseFloat(node.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return schema.DoubleValue(f), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return schema.BoolValue(b), nil
	case "!!str":
		if enum, ok := t.(*schema.Enum); ok {
			return enumMemberValue(enum, node)
		}
		return schema.StringValue(node.Value), nil
	case "!!null":
		return nil, fmt.Errorf("line %d: null is not a constant value", node.Line)
	}
	return nil, fmt.Errorf("line %d: unsupported scalar tag %s", node.Line, node.ShortTag())
}

func parseFloat(s string) (float64, error) {
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return math.Inf(1), nil
	case "-.inf":
		return math.Inf(-1), nil
	case ".nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
}

// enumMemberValue accepts "MEMBER" or "Enum.MEMBER".
func enumMemberValue(enum *schema.Enum, node *yaml.Node) (schema.Value, error) {
	name := node.Value
	if prefix, member, ok := strings.Cut(name, "."); ok && prefix == enum.Name {
		name = member
	}
	member, ok := enum.Member(name)
	if !ok {
		return nil, fmt.Errorf("line %d: enum '%s' has no member '%s'", node.Line, enum.Name, node.Value)
	}
	return schema.IntValue(member.Value), nil
}
