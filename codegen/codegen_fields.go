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
	"strings"

	"go.rbgen.dev/rbgen/schema"
)

// Descriptor is the metadata the Ruby runtime reads to (de)serialize one
// field or container element. It is attached to the generated class's
// FIELDS table and never executed here.
type Descriptor struct {
	Tag  WireTag
	Name string

	// Default is the pre-rendered Ruby literal, or empty.
	Default string

	Class     string
	Element   *Descriptor
	Key       *Descriptor
	Value     *Descriptor
	Binary    bool
	Optional  bool
	EnumClass string
}

func (g *generator) describeField(field *schema.Field, depth int) (*Descriptor, error) {
	return g.describe(
		field.Type,
		field.Name,
		field.Default,
		field.Requiredness == schema.Optional,
		depth,
	)
}

func (g *generator) describe(
	t schema.Type,
	name string,
	defaultValue schema.Value,
	optional bool,
	depth int,
) (*Descriptor, error) {
	tag, err := WireTagOf(t)
	if err != nil {
		return nil, err
	}
	d := &Descriptor{
		Tag:      tag,
		Name:     name,
		Optional: optional,
	}

	resolved := schema.Resolve(t)
	if defaultValue != nil {
		if d.Default, err = g.renderConst(resolved, defaultValue, depth); err != nil {
			return nil, err
		}
	}

	switch resolved := resolved.(type) {
	case schema.BaseType:
		d.Binary = resolved == schema.Binary
	case *schema.Struct:
		d.Class = g.qualifiedName(resolved)
	case *schema.Enum:
		d.EnumClass = g.qualifiedName(resolved)
	case *schema.ListType:
		d.Element, err = g.describe(resolved.Elem, "", nil, false, depth)
	case *schema.SetType:
		d.Element, err = g.describe(resolved.Elem, "", nil, false, depth)
	case *schema.MapType:
		if d.Key, err = g.describe(resolved.Key, "", nil, false, depth); err != nil {
			return nil, err
		}
		d.Value, err = g.describe(resolved.Value, "", nil, false, depth)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Ruby renders the descriptor as a Ruby hash literal.
func (d *Descriptor) Ruby() string {
	var buf strings.Builder
	d.writeRuby(&buf)
	return buf.String()
}

func (d *Descriptor) writeRuby(buf *strings.Builder) {
	buf.WriteString("{:type => ")
	buf.WriteString(d.Tag.rubyConst())
	if d.Name != "" {
		buf.WriteString(", :name => '")
		buf.WriteString(d.Name)
		buf.WriteString("'")
	}
	if d.Default != "" {
		buf.WriteString(", :default => ")
		buf.WriteString(d.Default)
	}
	if d.Class != "" {
		buf.WriteString(", :class => ")
		buf.WriteString(d.Class)
	}
	if d.Element != nil {
		buf.WriteString(", :element => ")
		d.Element.writeRuby(buf)
	}
	if d.Key != nil {
		buf.WriteString(", :key => ")
		d.Key.writeRuby(buf)
	}
	if d.Value != nil {
		buf.WriteString(", :value => ")
		d.Value.writeRuby(buf)
	}
	if d.Binary {
		buf.WriteString(", :binary => true")
	}
	if d.Optional {
		buf.WriteString(", :optional => true")
	}
	if d.EnumClass != "" {
		buf.WriteString(", :enum_class => ")
		buf.WriteString(d.EnumClass)
	}
	buf.WriteString("}")
}
