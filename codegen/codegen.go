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

// Package codegen lowers a resolved Thrift schema into Ruby source for the
// Thrift Ruby runtime: type declarations, constants, and service clients and
// processors.
package codegen

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"go.rbgen.dev/rbgen/naming"
	"go.rbgen.dev/rbgen/schema"
)

// DefaultVersion is the compiler version named in generated file headers.
const DefaultVersion = "0.9.3"

type Option interface {
	apply(*Options)
}

type option func(*Options)

func (f option) apply(opts *Options) { f(opts) }

type Options struct {
	casing  naming.Casing
	logger  zerolog.Logger
	version string
}

func WithCasing(casing naming.Casing) Option {
	return option(func(opts *Options) {
		opts.casing = casing
	})
}

func WithLogger(logger zerolog.Logger) Option {
	return option(func(opts *Options) {
		opts.logger = logger
	})
}

func WithVersion(version string) Option {
	return option(func(opts *Options) {
		opts.version = version
	})
}

type OutputFile struct {
	// Path is relative to the output directory.
	Path    string
	Content []byte
}

func Generate(program *schema.Program, opts ...Option) ([]*OutputFile, error) {
	return NewOptions(opts...).Generate(program)
}

func NewOptions(opts ...Option) *Options {
	options := &Options{
		casing:  naming.Default,
		logger:  zerolog.Nop(),
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt.apply(options)
	}
	return options
}

// Generate emits the files for one program. Each call owns its own output
// buffers, so Options may be shared between calls.
func (opts *Options) Generate(program *schema.Program) ([]*OutputFile, error) {
	g := newGenerator(opts, program)
	if err := g.emitProgram(); err != nil {
		return nil, err
	}
	files := make([]*OutputFile, 0, len(g.units))
	for _, w := range g.units {
		files = append(files, &OutputFile{
			Path:    w.path,
			Content: w.buf.Bytes(),
		})
	}
	return files, nil
}

type generator struct {
	opts    *Options
	casing  naming.Casing
	log     zerolog.Logger
	program *schema.Program

	units        []*writer
	fieldIndexes map[*schema.Struct]map[string]*schema.Field
}

func newGenerator(opts *Options, program *schema.Program) *generator {
	return &generator{
		opts:         opts,
		casing:       opts.casing,
		log:          opts.logger.With().Str("program", program.Name).Logger(),
		program:      program,
		fieldIndexes: make(map[*schema.Struct]map[string]*schema.Field),
	}
}

func (g *generator) newUnit(path string) *writer {
	w := &writer{path: path}
	g.units = append(g.units, w)
	return w
}

func (g *generator) emitProgram() error {
	programFile := g.casing.Snake(g.program.Name)
	modules := g.modules(g.program)

	types := g.newUnit(programFile + "_types.rb")
	g.emitHeader(types)
	types.line("require 'thrift'")
	for _, include := range g.program.Includes {
		types.linef("require '%s_types'", g.casing.Snake(include.Name))
	}
	types.blank()
	g.beginNamespace(types, modules)

	consts := g.newUnit(programFile + "_constants.rb")
	g.emitHeader(consts)
	consts.linef("require '%s_types'", programFile)
	consts.blank()
	g.beginNamespace(consts, modules)

	for _, decl := range g.program.Decls {
		var err error
		switch decl := decl.(type) {
		case *schema.Typedef:
			// Ruby types are implicit; aliases need no declaration.
			g.log.Debug().Str("name", decl.Name).Msg("skip typedef")
		case *schema.Enum:
			g.emitEnum(types, decl)
		case *schema.Const:
			err = g.emitConst(consts, decl)
		case *schema.Struct:
			err = g.emitStruct(types, decl)
		case *schema.Service:
			err = g.emitService(decl)
		default:
			panic("unreachable")
		}
		if err != nil {
			return fmt.Errorf("%s %q: %w", declKindString(decl), decl.DeclName(), err)
		}
	}

	g.endNamespace(types, modules)
	g.endNamespace(consts, modules)
	return nil
}

func declKindString(decl schema.Decl) string {
	switch decl := decl.(type) {
	case *schema.Typedef:
		return "typedef"
	case *schema.Enum:
		return "enum"
	case *schema.Const:
		return "const"
	case *schema.Struct:
		return decl.Kind.String()
	case *schema.Service:
		return "service"
	default:
		panic("unreachable")
	}
}

func (g *generator) emitHeader(w *writer) {
	w.line("#")
	w.linef("# Autogenerated by Thrift Compiler (%s)", g.opts.version)
	w.line("#")
	w.line("# DO NOT EDIT UNLESS YOU ARE SURE THAT YOU KNOW WHAT YOU ARE DOING")
	w.line("#")
	w.blank()
}

// beginNamespace opens modules outermost first; endNamespace closes them in
// reverse.
func (g *generator) beginNamespace(w *writer, modules []string) {
	for _, module := range modules {
		w.line("module " + module)
		w.indentUp()
	}
}

func (g *generator) endNamespace(w *writer, modules []string) {
	for range modules {
		w.indentDown()
		w.line("end")
	}
}

func (g *generator) emitDoc(w *writer, doc string) {
	doc = strings.TrimRight(doc, "\n")
	if strings.TrimSpace(doc) == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		w.line(strings.TrimRight("# "+line, " \t"))
	}
}

func (g *generator) emitConst(w *writer, c *schema.Const) error {
	g.log.Debug().Str("name", c.Name).Str("type", typeString(c.Type)).Msg("emit const")
	rendered, err := g.renderConst(c.Type, c.Value, w.indent)
	if err != nil {
		return err
	}
	g.emitDoc(w, c.Doc)
	w.linef("%s = %s", g.casing.Title(c.Name), rendered)
	w.blank()
	return nil
}
