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

func (g *generator) emitService(svc *schema.Service) error {
	g.log.Debug().
		Str("name", svc.Name).
		Int("functions", len(svc.Functions)).
		Msg("emit service")

	w := g.newUnit(g.casing.Snake(svc.Name) + ".rb")
	g.emitHeader(w)
	w.line("require 'thrift'")
	if svc.Extends != nil {
		w.linef("require '%s'", g.casing.Snake(svc.Extends.Name))
	}
	w.linef("require '%s_types'", g.casing.Snake(g.program.Name))
	w.blank()

	modules := g.modules(svc.Program)
	g.beginNamespace(w, modules)
	err := w.block("module "+g.casing.Title(svc.Name), func() error {
		g.emitServiceClient(w, svc)
		g.emitServiceProcessor(w, svc)
		return g.emitServiceHelpers(w, svc)
	})
	if err != nil {
		return err
	}
	w.blank()
	g.endNamespace(w, modules)
	return nil
}

func (g *generator) argsStruct(svc *schema.Service, fn *schema.Function) *schema.Struct {
	return &schema.Struct{
		Name:    fn.Name + "_args",
		Kind:    schema.KindStruct,
		Fields:  fn.Params,
		Program: svc.Program,
	}
}

// resultStruct holds the return value as field 0 ("success"), followed by
// the declared exceptions in order. Oneway functions have none.
func (g *generator) resultStruct(svc *schema.Service, fn *schema.Function) *schema.Struct {
	if fn.Oneway {
		return nil
	}
	result := &schema.Struct{
		Name:    fn.Name + "_result",
		Kind:    schema.KindStruct,
		Program: svc.Program,
	}
	if !schema.IsVoid(fn.Returns) {
		result.Fields = append(result.Fields, &schema.Field{
			Name: "success",
			ID:   0,
			Type: fn.Returns,
		})
	}
	result.Fields = append(result.Fields, fn.Exceptions...)
	return result
}

func paramList(params []*schema.Field, prefix string) string {
	names := make([]string, 0, len(params))
	for _, param := range params {
		names = append(names, prefix+param.Name)
	}
	return strings.Join(names, ", ")
}

func (g *generator) emitServiceClient(w *writer, svc *schema.Service) {
	header := "class Client"
	if svc.Extends != nil {
		header += " < " + g.qualifiedServiceName(svc.Extends) + "::Client"
	}
	w.block(header, func() error {
		w.line("include ::Thrift::Client")
		w.blank()
		for _, fn := range svc.Functions {
			g.emitClientFunction(w, svc, fn)
		}
		return nil
	})
	w.blank()
}

func (g *generator) emitClientFunction(w *writer, svc *schema.Service, fn *schema.Function) {
	params := paramList(fn.Params, "")
	returnsValue := !schema.IsVoid(fn.Returns)

	w.block("def "+fn.Name+"("+params+")", func() error {
		w.linef("send_%s(%s)", fn.Name, params)
		if !fn.Oneway {
			if returnsValue {
				w.linef("return recv_%s()", fn.Name)
			} else {
				w.linef("recv_%s()", fn.Name)
			}
		}
		return nil
	})
	w.blank()

	w.block("def send_"+fn.Name+"("+params+")", func() error {
		var buf strings.Builder
		buf.WriteString("send_message('" + fn.Name + "', " + g.declName(g.argsStruct(svc, fn)))
		for _, param := range fn.Params {
			buf.WriteString(", :" + param.Name + " => " + param.Name)
		}
		buf.WriteString(")")
		w.line(buf.String())
		return nil
	})
	w.blank()

	if fn.Oneway {
		return
	}

	w.block("def recv_"+fn.Name+"()", func() error {
		w.linef("result = receive_message(%s)", g.declName(g.resultStruct(svc, fn)))
		if returnsValue {
			w.line("return result.success unless result.success.nil?")
		}
		for _, exc := range fn.Exceptions {
			w.linef("raise result.%s unless result.%s.nil?", exc.Name, exc.Name)
		}
		if returnsValue {
			w.linef(
				"raise ::Thrift::ApplicationException.new("+
					"::Thrift::ApplicationException::MISSING_RESULT, '%s failed: unknown result')",
				fn.Name,
			)
		} else {
			w.line("return")
		}
		return nil
	})
	w.blank()
}

func (g *generator) emitServiceProcessor(w *writer, svc *schema.Service) {
	header := "class Processor"
	if svc.Extends != nil {
		header += " < " + g.qualifiedServiceName(svc.Extends) + "::Processor"
	}
	w.block(header, func() error {
		w.line("include ::Thrift::Processor")
		w.blank()
		for _, fn := range svc.Functions {
			g.emitProcessFunction(w, svc, fn)
		}
		return nil
	})
	w.blank()
}

func (g *generator) emitProcessFunction(w *writer, svc *schema.Service, fn *schema.Function) {
	if fn.Oneway && len(fn.Exceptions) > 0 {
		g.log.Warn().
			Str("service", svc.Name).
			Str("function", fn.Name).
			Msg("oneway function declares exceptions; they are discarded at dispatch")
	}

	w.block("def process_"+fn.Name+"(seqid, iprot, oprot)", func() error {
		w.linef("args = read_args(iprot, %s)", g.declName(g.argsStruct(svc, fn)))

		result := g.resultStruct(svc, fn)
		if result != nil {
			w.linef("result = %s.new()", g.declName(result))
		}

		call := "@handler." + fn.Name + "(" + paramList(fn.Params, "args.") + ")"
		if !fn.Oneway && !schema.IsVoid(fn.Returns) {
			call = "result.success = " + call
		}

		if len(fn.Exceptions) == 0 {
			w.line(call)
		} else {
			w.line("begin")
			w.indentUp()
			w.line(call)
			w.indentDown()
			for _, exc := range fn.Exceptions {
				excClass := g.qualifiedName(schema.Resolve(exc.Type))
				if fn.Oneway {
					w.line("rescue " + excClass)
					continue
				}
				w.linef("rescue %s => %s", excClass, exc.Name)
				w.indentUp()
				w.linef("result.%s = %s", exc.Name, exc.Name)
				w.indentDown()
			}
			w.line("end")
		}

		if fn.Oneway {
			w.line("return")
			return nil
		}
		w.linef("write_result(result, oprot, '%s', seqid)", fn.Name)
		return nil
	})
	w.blank()
}

func (g *generator) emitServiceHelpers(w *writer, svc *schema.Service) error {
	w.line("# HELPER FUNCTIONS AND STRUCTURES")
	w.blank()
	for _, fn := range svc.Functions {
		if err := g.emitStructClass(w, g.argsStruct(svc, fn)); err != nil {
			return err
		}
		if result := g.resultStruct(svc, fn); result != nil {
			if err := g.emitStructClass(w, result); err != nil {
				return err
			}
		}
	}
	return nil
}
