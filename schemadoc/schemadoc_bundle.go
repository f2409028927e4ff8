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

package schemadoc

import (
	"fmt"
	"path"

	"go.rbgen.dev/rbgen/schema"
)

// A Bundle holds a root document and every document it includes, so that a
// schema can be loaded without filesystem access.
type Bundle struct {
	Root  string            `json:"root"`
	Files map[string]string `json:"files"`
}

// NewBundle loads the document at root through read, recording each
// document read along the way.
func NewBundle(root string, read ReadFunc) (*Bundle, error) {
	bundle := &Bundle{
		Root:  path.Clean(root),
		Files: make(map[string]string),
	}
	recording := func(name string) ([]byte, error) {
		data, err := read(name)
		if err != nil {
			return nil, err
		}
		bundle.Files[name] = string(data)
		return data, nil
	}
	if _, err := Load(bundle.Root, recording); err != nil {
		return nil, err
	}
	return bundle, nil
}

// ReadFile reads a document recorded in the bundle.
func (b *Bundle) ReadFile(name string) ([]byte, error) {
	data, ok := b.Files[name]
	if !ok {
		return nil, fmt.Errorf("%s: not found in bundle", name)
	}
	return []byte(data), nil
}

// Load loads the bundle's root document.
func (b *Bundle) Load() (*schema.Program, error) {
	return Load(b.Root, b.ReadFile)
}
