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

package schema

// Value is a constant expression tree: one of IntValue, DoubleValue,
// BoolValue, StringValue, IdentValue, ListValue or MapValue.
type Value interface {
	isValue()
}

type IntValue int64

type DoubleValue float64

type BoolValue bool

type StringValue string

// IdentValue is a bare identifier, used for field names in struct literals.
type IdentValue string

type ListValue []Value

// MapValue keeps entries in the order they were written.
type MapValue []MapEntry

type MapEntry struct {
	Key   Value
	Value Value
}

func (IntValue) isValue()    {}
func (DoubleValue) isValue() {}
func (BoolValue) isValue()   {}
func (StringValue) isValue() {}
func (IdentValue) isValue()  {}
func (ListValue) isValue()   {}
func (MapValue) isValue()    {}
