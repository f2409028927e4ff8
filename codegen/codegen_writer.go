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
	"bytes"
	"fmt"
	"strings"
)

const indentUnit = "  "

func indentString(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

// writer is an append-only, indentation-tracked output buffer for one
// generated file.
type writer struct {
	path   string
	buf    bytes.Buffer
	indent int
}

func (w *writer) line(s string) {
	if s == "" {
		w.buf.WriteByte('\n')
		return
	}
	w.buf.WriteString(indentString(w.indent))
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *writer) linef(format string, a ...any) {
	w.line(fmt.Sprintf(format, a...))
}

func (w *writer) blank() {
	w.buf.WriteByte('\n')
}

func (w *writer) indentUp() {
	w.indent += 1
}

func (w *writer) indentDown() {
	if w.indent == 0 {
		panic("codegen: unbalanced indentation")
	}
	w.indent -= 1
}

// block writes header, runs body one level deeper and closes with "end".
func (w *writer) block(header string, body func() error) error {
	w.line(header)
	w.indentUp()
	err := body()
	w.indentDown()
	w.line("end")
	return err
}
