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
	"strings"

	"go.rbgen.dev/rbgen/schema"
)

// resolveType parses a type expression such as "i32", "list<Point>",
// "map<string,set<shared.Kind>>" or "shared.SharedStruct".
func (ctx *programCtx) resolveType(expr string) (schema.Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty type")
	}
	if base, ok := schema.BaseTypeNamed(expr); ok {
		return base, nil
	}

	if name, args, ok := splitGeneric(expr); ok {
		switch name {
		case "list", "set":
			if len(args) != 1 {
				return nil, fmt.Errorf("%s requires one type argument: %q", name, expr)
			}
			elem, err := ctx.resolveType(args[0])
			if err != nil {
				return nil, err
			}
			if name == "list" {
				return &schema.ListType{Elem: elem}, nil
			}
			return &schema.SetType{Elem: elem}, nil
		case "map":
			if len(args) != 2 {
				return nil, fmt.Errorf("map requires two type arguments: %q", expr)
			}
			key, err := ctx.resolveType(args[0])
			if err != nil {
				return nil, err
			}
			value, err := ctx.resolveType(args[1])
			if err != nil {
				return nil, err
			}
			return &schema.MapType{Key: key, Value: value}, nil
		}
		return nil, fmt.Errorf("unknown container type %q", name)
	}

	decl, err := ctx.lookup(expr)
	if err != nil {
		return nil, err
	}
	t, ok := decl.(schema.Type)
	if !ok {
		return nil, fmt.Errorf("'%s' is not a type", expr)
	}
	return t, nil
}

// splitGeneric splits "name<a, b<c,d>>" into "name" and its top-level
// arguments.
func splitGeneric(expr string) (string, []string, bool) {
	open := strings.IndexByte(expr, '<')
	if open < 0 || !strings.HasSuffix(expr, ">") {
		return "", nil, false
	}
	name := strings.TrimSpace(expr[:open])
	inner := expr[open+1 : len(expr)-1]

	var args []string
	depth, start := 0, 0
	for ii := 0; ii < len(inner); ii++ {
		switch inner[ii] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:ii]))
				start = ii + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(inner[start:]))
	return name, args, true
}
