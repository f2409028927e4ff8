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

package schema_test

import (
	"testing"

	"go.rbgen.dev/rbgen/internal/testutil"
	"go.rbgen.dev/rbgen/schema"
)

func TestBaseTypeNamed(t *testing.T) {
	for _, base := range []schema.BaseType{
		schema.Void, schema.Bool, schema.Byte, schema.I16, schema.I32,
		schema.I64, schema.Double, schema.String, schema.Binary,
	} {
		got, ok := schema.BaseTypeNamed(base.TypeName())
		testutil.ExpectTrue(t, ok)
		testutil.ExpectEq(t, base, got)
	}
	_, ok := schema.BaseTypeNamed("Point")
	testutil.ExpectFalse(t, ok)
}

func TestContainerTypeNames(t *testing.T) {
	point := &schema.Struct{Name: "Point"}
	mapType := &schema.MapType{
		Key:   schema.String,
		Value: &schema.ListType{Elem: &schema.SetType{Elem: point}},
	}
	testutil.ExpectEq(t, "map<string,list<set<Point>>>", mapType.TypeName())
}

func TestResolve(t *testing.T) {
	inner := &schema.Typedef{Name: "Inner", Target: schema.I64}
	outer := &schema.Typedef{Name: "Outer", Target: inner}
	dangling := &schema.Typedef{Name: "Dangling"}

	testutil.ExpectEq[schema.Type](t, schema.I64, schema.Resolve(outer))
	testutil.ExpectEq[schema.Type](t, dangling, schema.Resolve(dangling))
	testutil.ExpectEq[schema.Type](t, schema.Bool, schema.Resolve(schema.Bool))

	testutil.ExpectTrue(t, schema.IsVoid(&schema.Typedef{Name: "Nothing", Target: schema.Void}))
	testutil.ExpectFalse(t, schema.IsVoid(outer))
}

func TestProgramLookup(t *testing.T) {
	color := &schema.Enum{Name: "Color"}
	first := &schema.Service{Name: "First"}
	second := &schema.Service{Name: "Second"}
	program := &schema.Program{
		Name:  "example",
		Decls: []schema.Decl{first, color, second},
	}

	testutil.ExpectEq[schema.Decl](t, color, program.Lookup("Color"))
	testutil.ExpectEq[schema.Decl](t, second, program.Lookup("Second"))
	testutil.ExpectEq[schema.Decl](t, nil, program.Lookup("Missing"))
}

func TestEnumMember(t *testing.T) {
	e := &schema.Enum{
		Name: "Color",
		Values: []*schema.EnumValue{
			{Name: "RED", Value: 1},
			{Name: "GREEN", Value: 2},
			{Name: "RED", Value: 3},
		},
	}
	red, ok := e.Member("RED")
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, int32(1), red.Value)

	_, ok = e.Member("BLUE")
	testutil.ExpectFalse(t, ok)
}

func TestEnumStrings(t *testing.T) {
	testutil.ExpectEq(t, "optional", schema.Optional.String())
	testutil.ExpectEq(t, "required", schema.Required.String())
	testutil.ExpectEq(t, "exception", schema.KindException.String())
	testutil.ExpectEq(t, "union", schema.KindUnion.String())
}
