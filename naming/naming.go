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

// Package naming provides the identifier casing and literal escaping used by
// the Ruby generator.
package naming

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Casing interface {
	// Title upper-cases the first character: "point" -> "Point".
	Title(name string) string

	// Snake converts camel case to snake case: "SharedService" -> "shared_service".
	Snake(name string) string

	// ScreamingSnake upper-cases every character: "field_name" -> "FIELD_NAME".
	ScreamingSnake(name string) string

	// Quote renders text as a Ruby string literal with the same bytes.
	Quote(text string) string
}

// Default is the casing used by Thrift's Ruby generator.
var Default Casing = thriftCasing{}

type thriftCasing struct{}

func (thriftCasing) Title(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

func (thriftCasing) Snake(name string) string {
	var buf strings.Builder
	for ii, r := range name {
		if ii == 0 {
			buf.WriteRune(unicode.ToLower(r))
			continue
		}
		if unicode.IsUpper(r) {
			buf.WriteByte('_')
			buf.WriteRune(unicode.ToLower(r))
			continue
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// ScreamingSnake does not insert separators, so "fooBar" becomes "FOOBAR".
func (thriftCasing) ScreamingSnake(name string) string {
	return strings.ToUpper(name)
}

// Quote uses the %q"..." form, which only unescapes \\ and \", unless text
// holds control characters. Those need a double-quoted literal.
func (thriftCasing) Quote(text string) string {
	var buf strings.Builder
	if !strings.ContainsFunc(text, isControl) {
		buf.WriteString(`%q"`)
		for ii := 0; ii < len(text); ii++ {
			if c := text[ii]; c == '\\' || c == '"' {
				buf.WriteByte('\\')
			}
			buf.WriteByte(text[ii])
		}
		buf.WriteByte('"')
		return buf.String()
	}

	buf.WriteByte('"')
	for ii := 0; ii < len(text); ii++ {
		switch c := text[ii]; c {
		case '\\', '"', '#':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\t':
			buf.WriteString(`\t`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			if c < 0x20 || c == 0x7F {
				fmt.Fprintf(&buf, `\x%02X`, c)
				continue
			}
			buf.WriteByte(c)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7F
}
