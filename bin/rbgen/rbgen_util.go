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

package main

import (
	"os"
	"path"
	"path/filepath"

	"go.rbgen.dev/rbgen/schemadoc"
)

// loadBundle reads the schema document at schemaPath and everything it
// includes.
func loadBundle(schemaPath string) (*schemadoc.Bundle, error) {
	return schemadoc.NewBundle(
		path.Clean(filepath.ToSlash(schemaPath)),
		func(name string) ([]byte, error) {
			return os.ReadFile(filepath.FromSlash(name))
		},
	)
}

// bundlePaths lists the bundle's documents as local file paths.
func bundlePaths(bundle *schemadoc.Bundle) []string {
	paths := make([]string, 0, len(bundle.Files))
	for name := range bundle.Files {
		paths = append(paths, filepath.FromSlash(name))
	}
	return paths
}
