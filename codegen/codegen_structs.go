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
	"go.rbgen.dev/rbgen/schema"
)

const protocolExceptionNew = "raise ::Thrift::ProtocolException.new(::Thrift::ProtocolException::UNKNOWN"

func (g *generator) emitStruct(w *writer, s *schema.Struct) error {
	g.log.Debug().
		Str("name", s.Name).
		Stringer("kind", s.Kind).
		Int("fields", len(s.Fields)).
		Msg("emit struct")
	if s.IsUnion() {
		return g.emitUnion(w, s)
	}
	return g.emitStructClass(w, s)
}

func (g *generator) emitStructClass(w *writer, s *schema.Struct) error {
	g.emitDoc(w, s.Doc)
	header := "class " + g.declName(s)
	if s.IsException() {
		header += " < ::Thrift::Exception"
	}
	err := w.block(header, func() error {
		w.line("include ::Thrift::Struct, ::Thrift::Struct_Union")
		if s.IsException() {
			g.emitExceptionConstructor(w, s)
		}
		g.emitFieldConstants(w, s)
		if err := g.emitFieldDefns(w, s); err != nil {
			return err
		}
		g.emitStructValidator(w, s)
		w.line("::Thrift::Struct.generate_accessors self")
		return nil
	})
	w.blank()
	return err
}

func (g *generator) emitUnion(w *writer, s *schema.Struct) error {
	g.emitDoc(w, s.Doc)
	err := w.block("class "+g.declName(s)+" < ::Thrift::Union", func() error {
		w.line("include ::Thrift::Struct_Union")
		g.emitUnionConstructors(w, s)
		g.emitFieldConstants(w, s)
		if err := g.emitFieldDefns(w, s); err != nil {
			return err
		}
		g.emitUnionValidator(w, s)
		w.line("::Thrift::Union.generate_accessors self")
		return nil
	})
	w.blank()
	return err
}

// emitExceptionConstructor gives exceptions with a single string field a
// message-style constructor.
func (g *generator) emitExceptionConstructor(w *writer, s *schema.Struct) {
	if len(s.Fields) != 1 {
		return
	}
	field := s.Fields[0]
	if base, ok := schema.Resolve(field.Type).(schema.BaseType); !ok ||
		(base != schema.String && base != schema.Binary) {
		return
	}

	w.block("def initialize(message=nil)", func() error {
		w.line("super()")
		w.linef("self.%s = message", field.Name)
		return nil
	})
	w.blank()
	if field.Name != "message" {
		w.linef("def message; %s end", field.Name)
		w.blank()
	}
}

func (g *generator) emitUnionConstructors(w *writer, s *schema.Struct) {
	className := g.declName(s)
	w.block("class << self", func() error {
		for ii, field := range s.Fields {
			if ii > 0 {
				w.blank()
			}
			w.block("def "+field.Name+"(val)", func() error {
				w.linef("%s.new(:%s, val)", className, field.Name)
				return nil
			})
		}
		return nil
	})
	w.blank()
}

func (g *generator) emitFieldConstants(w *writer, s *schema.Struct) {
	for _, field := range s.Fields {
		w.linef("%s = %d", g.casing.ScreamingSnake(field.Name), field.ID)
	}
	w.blank()
}

func (g *generator) emitFieldDefns(w *writer, s *schema.Struct) error {
	w.line("FIELDS = {")
	w.indentUp()
	for ii, field := range s.Fields {
		d, err := g.describeField(field, w.indent)
		if err != nil {
			return err
		}
		g.emitDoc(w, field.Doc)
		sep := ","
		if ii == len(s.Fields)-1 {
			sep = ""
		}
		w.linef("%s => %s%s", g.casing.ScreamingSnake(field.Name), d.Ruby(), sep)
	}
	if len(s.Fields) == 0 {
		w.blank()
	}
	w.indentDown()
	w.line("}")
	w.blank()
	w.line("def struct_fields; FIELDS; end")
	w.blank()
	return nil
}

func (g *generator) emitStructValidator(w *writer, s *schema.Struct) {
	w.block("def validate", func() error {
		for _, field := range s.Fields {
			if field.Requiredness != schema.Required {
				continue
			}
			raise := protocolExceptionNew + ", 'Required field " + field.Name + " is unset!')"
			// Only booleans distinguish unset from a falsy value.
			if schema.Resolve(field.Type) == schema.Type(schema.Bool) {
				w.linef("%s if @%s.nil?", raise, field.Name)
			} else {
				w.linef("%s unless @%s", raise, field.Name)
			}
		}
		for _, field := range s.Fields {
			enum, ok := schema.Resolve(field.Type).(*schema.Enum)
			if !ok {
				continue
			}
			guard := "unless @" + field.Name + ".nil? || " +
				g.qualifiedName(enum) + "::VALID_VALUES.include?(@" + field.Name + ")"
			w.block(guard, func() error {
				w.line(protocolExceptionNew + ", 'Invalid value of field " + field.Name + "!')")
				return nil
			})
		}
		return nil
	})
	w.blank()
}

func (g *generator) emitUnionValidator(w *writer, s *schema.Struct) {
	w.block("def validate", func() error {
		w.line("raise(StandardError, 'Union fields are not set.') if get_set_field.nil? || get_value.nil?")
		for _, field := range s.Fields {
			enum, ok := schema.Resolve(field.Type).(*schema.Enum)
			if !ok {
				continue
			}
			w.block("if get_set_field == :"+field.Name, func() error {
				w.line(protocolExceptionNew + ", 'Invalid value of field " + field.Name + "!')" +
					" unless " + g.qualifiedName(enum) + "::VALID_VALUES.include?(get_value)")
				return nil
			})
		}
		return nil
	})
	w.blank()
}
