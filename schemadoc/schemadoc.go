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

// Package schemadoc loads a resolved schema from a YAML (or JSON) document
// describing one Thrift program and its includes.
package schemadoc

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"go.rbgen.dev/rbgen/schema"
)

// ReadFunc reads a document by its slash-separated path.
type ReadFunc func(name string) ([]byte, error)

type document struct {
	Name      string    `yaml:"name"`
	Namespace string    `yaml:"namespace"`
	Includes  []string  `yaml:"includes"`
	Decls     []declDoc `yaml:"decls"`
}

type declDoc struct {
	Typedef   *typedefDoc `yaml:"typedef"`
	Enum      *enumDoc    `yaml:"enum"`
	Const     *constDoc   `yaml:"const"`
	Struct    *structDoc  `yaml:"struct"`
	Union     *structDoc  `yaml:"union"`
	Exception *structDoc  `yaml:"exception"`
	Service   *serviceDoc `yaml:"service"`
}

type typedefDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Doc  string `yaml:"doc"`
}

type enumDoc struct {
	Name   string         `yaml:"name"`
	Values []enumValueDoc `yaml:"values"`
	Doc    string         `yaml:"doc"`
}

type enumValueDoc struct {
	Name  string `yaml:"name"`
	Value *int32 `yaml:"value"`
	Doc   string `yaml:"doc"`
}

type constDoc struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
	Doc   string    `yaml:"doc"`
}

type structDoc struct {
	Name   string     `yaml:"name"`
	Fields []fieldDoc `yaml:"fields"`
	Doc    string     `yaml:"doc"`
}

type fieldDoc struct {
	ID           int16     `yaml:"id"`
	Name         string    `yaml:"name"`
	Type         string    `yaml:"type"`
	Requiredness string    `yaml:"requiredness"`
	Default      yaml.Node `yaml:"default"`
	Doc          string    `yaml:"doc"`
}

type serviceDoc struct {
	Name      string        `yaml:"name"`
	Extends   string        `yaml:"extends"`
	Functions []functionDoc `yaml:"functions"`
	Doc       string        `yaml:"doc"`
}

type functionDoc struct {
	Name    string     `yaml:"name"`
	Returns string     `yaml:"returns"`
	Params  []fieldDoc `yaml:"params"`
	Throws  []fieldDoc `yaml:"throws"`
	Oneway  bool       `yaml:"oneway"`
	Doc     string     `yaml:"doc"`
}

// LoadFile loads the document at path, reading includes from the
// filesystem.
func LoadFile(filePath string) (*schema.Program, error) {
	return Load(filepath.ToSlash(filePath), func(name string) ([]byte, error) {
		return os.ReadFile(filepath.FromSlash(name))
	})
}

// Load loads the document at root and, recursively, every document it
// includes. Include paths are relative to the including document.
func Load(root string, read ReadFunc) (*schema.Program, error) {
	l := &loader{
		read:     read,
		programs: make(map[string]*schema.Program),
		loading:  make(map[string]bool),
	}
	return l.load(path.Clean(root))
}

type loader struct {
	read     ReadFunc
	programs map[string]*schema.Program
	loading  map[string]bool
	stack    []string
}

// programCtx carries name resolution state for one document.
type programCtx struct {
	path     string
	doc      *document
	program  *schema.Program
	names    map[string]schema.Decl
	includes map[string]*schema.Program
}

func (l *loader) load(docPath string) (*schema.Program, error) {
	if program, ok := l.programs[docPath]; ok {
		return program, nil
	}
	if l.loading[docPath] {
		return nil, fmt.Errorf(
			"include cycle: %s -> %s",
			strings.Join(l.stack, " -> "), docPath,
		)
	}
	l.loading[docPath] = true
	l.stack = append(l.stack, docPath)
	defer func() {
		delete(l.loading, docPath)
		l.stack = l.stack[:len(l.stack)-1]
	}()

	data, err := l.read(docPath)
	if err != nil {
		return nil, err
	}
	doc := &document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(path.Base(docPath), path.Ext(docPath))
	}
	ctx := &programCtx{
		path: docPath,
		doc:  doc,
		program: &schema.Program{
			Name:      name,
			Namespace: doc.Namespace,
		},
		names:    make(map[string]schema.Decl),
		includes: make(map[string]*schema.Program),
	}

	for _, include := range doc.Includes {
		included, err := l.load(path.Join(path.Dir(docPath), include))
		if err != nil {
			return nil, err
		}
		ctx.program.Includes = append(ctx.program.Includes, included)
		ctx.includes[included.Name] = included
	}

	if err := ctx.declare(); err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}
	if err := ctx.resolve(); err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}
	l.programs[docPath] = ctx.program
	return ctx.program, nil
}

// declare creates every named declaration so that later passes can refer to
// declarations regardless of their position in the document.
func (ctx *programCtx) declare() error {
	program := ctx.program
	for ii, declDoc := range ctx.doc.Decls {
		decl, err := ctx.declareOne(declDoc)
		if err != nil {
			return fmt.Errorf("decls[%d]: %w", ii, err)
		}
		if prev, conflict := ctx.names[decl.DeclName()]; conflict && prev != nil {
			return fmt.Errorf("duplicate declaration of '%s'", decl.DeclName())
		}
		ctx.names[decl.DeclName()] = decl
		program.Decls = append(program.Decls, decl)
	}
	return nil
}

func (ctx *programCtx) declareOne(d declDoc) (schema.Decl, error) {
	program := ctx.program
	var decl schema.Decl
	count := 0
	if d.Typedef != nil {
		count++
		decl = &schema.Typedef{Name: d.Typedef.Name, Program: program, Doc: d.Typedef.Doc}
	}
	if d.Enum != nil {
		count++
		enum := &schema.Enum{Name: d.Enum.Name, Program: program, Doc: d.Enum.Doc}
		next := int32(0)
		for _, v := range d.Enum.Values {
			if v.Value != nil {
				next = *v.Value
			}
			enum.Values = append(enum.Values, &schema.EnumValue{
				Name:  v.Name,
				Value: next,
				Doc:   v.Doc,
			})
			next++
		}
		decl = enum
	}
	if d.Const != nil {
		count++
		decl = &schema.Const{Name: d.Const.Name, Program: program, Doc: d.Const.Doc}
	}
	for _, s := range []struct {
		doc  *structDoc
		kind schema.StructKind
	}{
		{d.Struct, schema.KindStruct},
		{d.Union, schema.KindUnion},
		{d.Exception, schema.KindException},
	} {
		if s.doc != nil {
			count++
			decl = &schema.Struct{Name: s.doc.Name, Kind: s.kind, Program: program, Doc: s.doc.Doc}
		}
	}
	if d.Service != nil {
		count++
		decl = &schema.Service{Name: d.Service.Name, Program: program, Doc: d.Service.Doc}
	}

	if count != 1 {
		return nil, fmt.Errorf("expected exactly one declaration kind, got %d", count)
	}
	if decl.DeclName() == "" {
		return nil, fmt.Errorf("declaration has no name")
	}
	return decl, nil
}

func (ctx *programCtx) resolve() error {
	decls := ctx.program.Decls

	// Types first, then everything that carries values, since struct
	// literals depend on resolved field types.
	for ii, d := range ctx.doc.Decls {
		var err error
		switch decl := decls[ii].(type) {
		case *schema.Typedef:
			decl.Target, err = ctx.resolveType(d.Typedef.Type)
		case *schema.Struct:
			decl.Fields, err = ctx.resolveFields(ctx.structDoc(d).Fields)
		case *schema.Service:
			err = ctx.resolveService(decl, d.Service)
		case *schema.Const:
			decl.Type, err = ctx.resolveType(d.Const.Type)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", decls[ii].DeclName(), err)
		}
	}
	for _, decl := range decls {
		if alias, ok := decl.(*schema.Typedef); ok {
			if err := checkTypedefChain(alias); err != nil {
				return err
			}
		}
	}

	for ii, d := range ctx.doc.Decls {
		var err error
		switch decl := decls[ii].(type) {
		case *schema.Struct:
			err = ctx.resolveDefaults(decl.Fields, ctx.structDoc(d).Fields)
		case *schema.Service:
			for jj, fn := range decl.Functions {
				if err = ctx.resolveDefaults(fn.Params, d.Service.Functions[jj].Params); err != nil {
					break
				}
			}
		case *schema.Const:
			decl.Value, err = ctx.resolveValue(decl.Type, &d.Const.Value)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", decls[ii].DeclName(), err)
		}
	}
	return nil
}

func (ctx *programCtx) structDoc(d declDoc) *structDoc {
	switch {
	case d.Struct != nil:
		return d.Struct
	case d.Union != nil:
		return d.Union
	default:
		return d.Exception
	}
}

func checkTypedefChain(alias *schema.Typedef) error {
	seen := map[*schema.Typedef]bool{}
	var t schema.Type = alias
	for {
		next, ok := t.(*schema.Typedef)
		if !ok {
			return nil
		}
		if seen[next] {
			return fmt.Errorf("typedef cycle through '%s'", alias.Name)
		}
		seen[next] = true
		t = next.Target
	}
}

func parseRequiredness(s string) (schema.Requiredness, error) {
	switch s {
	case "", "default":
		return schema.Default, nil
	case "required":
		return schema.Required, nil
	case "optional":
		return schema.Optional, nil
	}
	return 0, fmt.Errorf("unknown requiredness %q", s)
}

func (ctx *programCtx) resolveFields(docs []fieldDoc) ([]*schema.Field, error) {
	fields := make([]*schema.Field, 0, len(docs))
	for _, fd := range docs {
		t, err := ctx.resolveType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", fd.Name, err)
		}
		req, err := parseRequiredness(fd.Requiredness)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", fd.Name, err)
		}
		fields = append(fields, &schema.Field{
			Name:         fd.Name,
			ID:           fd.ID,
			Type:         t,
			Requiredness: req,
			Doc:          fd.Doc,
		})
	}
	return fields, nil
}

func (ctx *programCtx) resolveDefaults(fields []*schema.Field, docs []fieldDoc) error {
	for ii, field := range fields {
		node := &docs[ii].Default
		if node.Kind == 0 {
			continue
		}
		value, err := ctx.resolveValue(field.Type, node)
		if err != nil {
			return fmt.Errorf("field '%s': %w", field.Name, err)
		}
		field.Default = value
	}
	return nil
}

func (ctx *programCtx) resolveService(svc *schema.Service, doc *serviceDoc) error {
	if doc.Extends != "" {
		decl, err := ctx.lookup(doc.Extends)
		if err != nil {
			return err
		}
		base, ok := decl.(*schema.Service)
		if !ok {
			return fmt.Errorf("'%s' is not a service", doc.Extends)
		}
		svc.Extends = base
	}
	for _, fd := range doc.Functions {
		returns := schema.Type(schema.Void)
		if fd.Returns != "" {
			t, err := ctx.resolveType(fd.Returns)
			if err != nil {
				return fmt.Errorf("function '%s': %w", fd.Name, err)
			}
			returns = t
		}
		params, err := ctx.resolveFields(fd.Params)
		if err != nil {
			return fmt.Errorf("function '%s': %w", fd.Name, err)
		}
		throws, err := ctx.resolveFields(fd.Throws)
		if err != nil {
			return fmt.Errorf("function '%s': %w", fd.Name, err)
		}
		svc.Functions = append(svc.Functions, &schema.Function{
			Name:       fd.Name,
			Returns:    returns,
			Params:     params,
			Exceptions: throws,
			Oneway:     fd.Oneway,
			Doc:        fd.Doc,
		})
	}
	return nil
}

// lookup resolves "Name" against local declarations and "include.Name"
// against included programs.
func (ctx *programCtx) lookup(name string) (schema.Decl, error) {
	if scope, local, ok := strings.Cut(name, "."); ok {
		included, found := ctx.includes[scope]
		if !found {
			return nil, fmt.Errorf("no included program named '%s'", scope)
		}
		if decl := included.Lookup(local); decl != nil {
			return decl, nil
		}
		return nil, fmt.Errorf("name '%s' not found in '%s'", local, scope)
	}
	if decl, ok := ctx.names[name]; ok {
		return decl, nil
	}
	return nil, fmt.Errorf("name '%s' not found", name)
}
