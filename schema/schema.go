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

// Package schema holds the resolved, immutable Thrift schema tree consumed by
// the Ruby generator.
package schema

type Program struct {
	// Name is the program's file stem, e.g. "shared" for shared.thrift.
	Name string

	// Namespace is the dotted Ruby namespace ("Foo.Bar"), or empty.
	Namespace string

	Includes []*Program

	// Decls are kept in source order.
	Decls []Decl
}

// Lookup returns the declaration named name, or nil.
func (p *Program) Lookup(name string) Decl {
	for _, decl := range p.Decls {
		if decl.DeclName() == name {
			return decl
		}
	}
	return nil
}

// Decl is a top-level declaration: one of *Typedef, *Enum, *Const, *Struct
// or *Service.
type Decl interface {
	DeclName() string
	isDecl()
}

type Requiredness uint8

const (
	Default Requiredness = iota
	Required
	Optional
)

func (r Requiredness) String() string {
	switch r {
	case Default:
		return "default"
	case Required:
		return "required"
	case Optional:
		return "optional"
	}
	return "unknown"
}

type Field struct {
	Name         string
	ID           int16
	Type         Type
	Requiredness Requiredness

	// Default is nil when the field has no default value.
	Default Value

	Doc string
}

type StructKind uint8

const (
	KindStruct StructKind = iota
	KindUnion
	KindException
)

func (k StructKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindException:
		return "exception"
	}
	return "unknown"
}

type Struct struct {
	Name    string
	Kind    StructKind
	Fields  []*Field
	Program *Program
	Doc     string
}

func (*Struct) isDecl()             {}
func (*Struct) isType()             {}
func (s *Struct) DeclName() string  { return s.Name }
func (s *Struct) TypeName() string  { return s.Name }
func (s *Struct) IsUnion() bool     { return s.Kind == KindUnion }
func (s *Struct) IsException() bool { return s.Kind == KindException }

type EnumValue struct {
	Name  string
	Value int32
	Doc   string
}

type Enum struct {
	Name    string
	Values  []*EnumValue
	Program *Program
	Doc     string
}

func (*Enum) isDecl()            {}
func (*Enum) isType()            {}
func (e *Enum) DeclName() string { return e.Name }
func (e *Enum) TypeName() string { return e.Name }

// Member returns the first member named name.
func (e *Enum) Member(name string) (*EnumValue, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

type Typedef struct {
	Name string

	// Target is nil for an alias that could not be resolved.
	Target  Type
	Program *Program
	Doc     string
}

func (*Typedef) isDecl()            {}
func (*Typedef) isType()            {}
func (t *Typedef) DeclName() string { return t.Name }
func (t *Typedef) TypeName() string { return t.Name }

type Const struct {
	Name    string
	Type    Type
	Value   Value
	Program *Program
	Doc     string
}

func (*Const) isDecl()            {}
func (c *Const) DeclName() string { return c.Name }

type Function struct {
	Name    string
	Returns Type
	Params  []*Field

	// Exceptions are in declaration order, which is also the order in which
	// generated code tests and catches them.
	Exceptions []*Field
	Oneway     bool
	Doc        string
}

type Service struct {
	Name      string
	Extends   *Service
	Functions []*Function
	Program   *Program
	Doc       string
}

func (*Service) isDecl()            {}
func (s *Service) DeclName() string { return s.Name }
