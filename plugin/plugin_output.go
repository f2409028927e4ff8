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

package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath joins an output file's path components onto outDir, rejecting
// paths that would escape it.
func OutputPath(outDir string, file OutputFile) (string, error) {
	parts := file.Path
	if len(parts) == 0 {
		return "", fmt.Errorf("Invalid output path %#v: empty", parts)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %#v: bad path component %q", parts, part)
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return "", fmt.Errorf("Invalid output path %#v: absolute path component %q", parts, part)
		}
		if strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("Invalid output path %#v: component %q contains a path separator", parts, part)
		}
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}

// WriteFiles validates every output path before writing any file.
func WriteFiles(outDir string, files []OutputFile) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no output files were generated")
	}
	paths := make([]string, 0, len(files))
	for _, file := range files {
		outPath, err := OutputPath(outDir, file)
		if err != nil {
			return nil, err
		}
		paths = append(paths, outPath)
	}
	for ii, file := range files {
		if err := os.MkdirAll(filepath.Dir(paths[ii]), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(paths[ii], file.Content, 0o644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
