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
	"errors"
	"math"
	"testing"

	"go.rbgen.dev/rbgen/internal/testutil"
	"go.rbgen.dev/rbgen/schema"
)

func testGenerator(program *schema.Program) *generator {
	if program == nil {
		program = &schema.Program{Name: "test"}
	}
	return newGenerator(NewOptions(), program)
}

func TestWireTagOf(t *testing.T) {
	program := &schema.Program{Name: "test"}
	enum := &schema.Enum{Name: "Color", Program: program}
	point := &schema.Struct{Name: "Point", Program: program}
	tests := []struct {
		t    schema.Type
		want WireTag
	}{
		{schema.Bool, TagBool},
		{schema.Byte, TagByte},
		{schema.I16, TagI16},
		{schema.I32, TagI32},
		{schema.I64, TagI64},
		{schema.Double, TagDouble},
		{schema.String, TagString},
		{schema.Binary, TagString},
		{enum, TagI32},
		{point, TagStruct},
		{&schema.Typedef{Name: "Ints", Target: &schema.ListType{Elem: schema.I32}}, TagList},
		{&schema.SetType{Elem: schema.String}, TagSet},
		{&schema.MapType{Key: schema.String, Value: point}, TagMap},
	}
	for _, test := range tests {
		got, err := WireTagOf(test.t)
		testutil.ExpectNoError(t, err)
		testutil.ExpectEq(t, test.want, got)
	}

	for _, bad := range []schema.Type{
		schema.Void,
		&schema.Typedef{Name: "Nothing", Target: schema.Void},
		&schema.Typedef{Name: "Dangling"},
	} {
		_, err := WireTagOf(bad)
		testutil.ExpectTrue(t, errors.Is(err, ErrUnsupportedType))
	}
}

func TestEnumValueNames(t *testing.T) {
	g := testGenerator(nil)
	e := &schema.Enum{
		Name: "Level",
		Values: []*schema.EnumValue{
			{Name: "LOW", Value: 1},
			{Name: "HIGH", Value: 5},
			{Name: "MINIMUM", Value: 1},
			{Name: "MID", Value: 3},
		},
	}
	got := g.enumValueNames(e)
	testutil.ExpectSliceEq(t, []enumValueName{
		{value: 1, name: "MINIMUM"},
		{value: 5, name: "HIGH"},
		{value: 3, name: "MID"},
	}, got)

	// Every member value appears exactly once in the reverse table.
	seen := map[int32]int{}
	for _, entry := range got {
		seen[entry.value]++
	}
	for _, member := range e.Values {
		testutil.ExpectEq(t, 1, seen[member.Value])
	}
}

func TestEmitEnumDuplicateValues(t *testing.T) {
	g := testGenerator(nil)
	w := &writer{}
	g.emitEnum(w, &schema.Enum{
		Name: "status",
		Values: []*schema.EnumValue{
			{Name: "OK", Value: 0},
			{Name: "SUCCESS", Value: 0, Doc: "Alias of OK."},
		},
	})
	testutil.ExpectNoDiff(t, `module Status
  OK = 0
  # Alias of OK.
  SUCCESS = 0
  VALUE_MAP = {0 => "SUCCESS"}
  VALID_VALUES = Set.new([OK, SUCCESS]).freeze
end

`, w.buf.String())
}

func TestFieldByNameFirstWins(t *testing.T) {
	g := testGenerator(nil)
	first := &schema.Field{Name: "a", ID: 1, Type: schema.I32}
	s := &schema.Struct{
		Name: "Dup",
		Fields: []*schema.Field{
			first,
			{Name: "a", ID: 2, Type: schema.String},
		},
	}
	testutil.ExpectEq(t, first, g.fieldByName(s, "a"))
	testutil.ExpectEq(t, first, g.fieldByName(s, "a"))
	testutil.ExpectEq(t, (*schema.Field)(nil), g.fieldByName(s, "b"))
	testutil.ExpectEq(t, 1, len(g.fieldIndexes))
}

func TestRenderBaseConst(t *testing.T) {
	g := testGenerator(nil)
	tests := []struct {
		t     schema.Type
		value schema.Value
		want  string
	}{
		{schema.Bool, schema.IntValue(1), "true"},
		{schema.Bool, schema.IntValue(0), "false"},
		{schema.Bool, schema.BoolValue(true), "true"},
		{schema.Byte, schema.IntValue(-7), "-7"},
		{schema.I64, schema.IntValue(math.MaxInt64), "9223372036854775807"},
		{schema.Double, schema.IntValue(2), "2"},
		{schema.Double, schema.DoubleValue(2), "2.0"},
		{schema.Double, schema.DoubleValue(0.25), "0.25"},
		{schema.Double, schema.DoubleValue(1e300), "1e+300"},
		{schema.Double, schema.DoubleValue(math.Inf(-1)), "-Float::INFINITY"},
		{schema.Double, schema.DoubleValue(math.NaN()), "Float::NAN"},
		{schema.String, schema.StringValue(`say "hi"`), `%q"say \"hi\""`},
		{schema.String, schema.StringValue("tab\there #{x}"), `"tab\there \#{x}"`},
		{schema.String, schema.StringValue("\x01"), `"\x01"`},
		{schema.Binary, schema.StringValue(`back\slash`), `%q"back\\slash"`},
		{&schema.Enum{Name: "Color"}, schema.IntValue(2), "2"},
	}
	for _, test := range tests {
		got, err := g.renderConst(test.t, test.value, 0)
		testutil.ExpectNoError(t, err)
		testutil.ExpectEq(t, test.want, got)
	}
}

func TestRenderContainerConst(t *testing.T) {
	g := testGenerator(nil)

	setType := &schema.SetType{Elem: schema.I32}
	got, err := g.renderConst(setType, schema.ListValue{
		schema.IntValue(3), schema.IntValue(1), schema.IntValue(2),
	}, 1)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, "Set.new([\n    3,\n    1,\n    2,\n  ])", got)

	mapType := &schema.MapType{
		Key:   schema.String,
		Value: &schema.ListType{Elem: schema.Bool},
	}
	got, err = g.renderConst(mapType, schema.MapValue{
		{Key: schema.StringValue("b"), Value: schema.ListValue{schema.BoolValue(true)}},
		{Key: schema.StringValue("a"), Value: schema.ListValue{}},
	}, 0)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, `{
  %q"b" => [
    true,
  ],
  %q"a" => [
  ],
}`, got)
}

func TestRenderStructConst(t *testing.T) {
	program := &schema.Program{Name: "shapes", Namespace: "draw.shapes"}
	g := testGenerator(program)
	point := &schema.Struct{
		Name:    "point",
		Program: program,
		Fields: []*schema.Field{
			{Name: "x", ID: 1, Type: schema.I32},
			{Name: "y", ID: 2, Type: schema.I32},
		},
	}
	line := &schema.Struct{
		Name:    "Line",
		Program: program,
		Fields: []*schema.Field{
			{Name: "from", ID: 1, Type: point},
		},
	}

	got, err := g.renderConst(line, schema.MapValue{
		{Key: schema.IdentValue("from"), Value: schema.MapValue{
			{Key: schema.StringValue("y"), Value: schema.IntValue(4)},
			{Key: schema.StringValue("x"), Value: schema.IntValue(3)},
		}},
	}, 0)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, `Draw::Shapes::Line.new({
  %q"from" => Draw::Shapes::Point.new({
    %q"y" => 4,
    %q"x" => 3,
  }),
})`, got)

	_, err = g.renderConst(point, schema.MapValue{
		{Key: schema.StringValue("z"), Value: schema.IntValue(0)},
	}, 0)
	testutil.ExpectTrue(t, errors.Is(err, ErrUnknownField))

	_, err = g.renderConst(point, schema.ListValue{}, 0)
	testutil.ExpectTrue(t, errors.Is(err, ErrUnsupportedConstantType))
}

func TestDescriptorRuby(t *testing.T) {
	program := &schema.Program{Name: "inv", Namespace: "inv"}
	g := testGenerator(program)
	color := &schema.Enum{Name: "Color", Program: program}
	item := &schema.Struct{Name: "Item", Program: program}

	field := &schema.Field{
		Name: "stock",
		ID:   1,
		Type: &schema.MapType{
			Key:   color,
			Value: &schema.ListType{Elem: item},
		},
		Requiredness: schema.Optional,
	}
	d, err := g.describeField(field, 0)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t,
		"{:type => ::Thrift::Types::MAP, :name => 'stock', "+
			":key => {:type => ::Thrift::Types::I32, :enum_class => Inv::Color}, "+
			":value => {:type => ::Thrift::Types::LIST, "+
			":element => {:type => ::Thrift::Types::STRUCT, :class => Inv::Item}}, "+
			":optional => true}",
		d.Ruby(),
	)

	blob := &schema.Field{Name: "blob", ID: 2, Type: &schema.SetType{Elem: schema.Binary}}
	d, err = g.describeField(blob, 0)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t,
		"{:type => ::Thrift::Types::SET, :name => 'blob', "+
			":element => {:type => ::Thrift::Types::STRING, :binary => true}}",
		d.Ruby(),
	)

	_, err = g.describeField(&schema.Field{
		Name: "bad",
		Type: &schema.ListType{Elem: schema.Void},
	}, 0)
	testutil.ExpectTrue(t, errors.Is(err, ErrUnsupportedType))
}

func TestWriterBlock(t *testing.T) {
	w := &writer{}
	w.block("module A", func() error {
		return w.block("def f()", func() error {
			w.line("x")
			w.line("")
			return nil
		})
	})
	testutil.ExpectEq(t, "module A\n  def f()\n    x\n\n  end\nend\n", w.buf.String())
	testutil.ExpectEq(t, 0, w.indent)

	defer func() {
		testutil.ExpectTrue(t, recover() != nil)
	}()
	w.indentDown()
}
