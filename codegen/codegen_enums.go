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
	"strconv"
	"strings"

	"go.rbgen.dev/rbgen/schema"
)

type enumValueName struct {
	value int32
	name  string
}

// enumValueNames builds the value->name reverse table in first-seen value
// order. When several members share a value, the last one declared wins.
func (g *generator) enumValueNames(e *schema.Enum) []enumValueName {
	var out []enumValueName
	positions := make(map[int32]int, len(e.Values))
	for _, member := range e.Values {
		name := g.casing.Title(member.Name)
		if pos, seen := positions[member.Value]; seen {
			out[pos].name = name
			continue
		}
		positions[member.Value] = len(out)
		out = append(out, enumValueName{value: member.Value, name: name})
	}
	return out
}

func (g *generator) emitEnum(w *writer, e *schema.Enum) {
	g.log.Debug().Str("name", e.Name).Int("values", len(e.Values)).Msg("emit enum")
	g.emitDoc(w, e.Doc)
	w.block("module "+g.declName(e), func() error {
		for _, member := range e.Values {
			g.emitDoc(w, member.Doc)
			w.linef("%s = %d", g.casing.Title(member.Name), member.Value)
		}

		var valueMap []string
		for _, entry := range g.enumValueNames(e) {
			valueMap = append(valueMap, strconv.Itoa(int(entry.value))+` => "`+entry.name+`"`)
		}
		w.line("VALUE_MAP = {" + strings.Join(valueMap, ", ") + "}")

		var valid []string
		for _, member := range e.Values {
			valid = append(valid, g.casing.Title(member.Name))
		}
		w.line("VALID_VALUES = Set.new([" + strings.Join(valid, ", ") + "]).freeze")
		return nil
	})
	w.blank()
}
