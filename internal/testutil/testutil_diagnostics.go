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

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"testing"
)

// TestdataFS returns the calling package's testdata directory.
func TestdataFS() (fs.FS, error) {
	if _, err := os.Stat("testdata"); err != nil {
		return nil, err
	}
	return os.DirFS("testdata"), nil
}

// Diagnostic is one entry of a diagnostics catalogue: a stable key mapped to
// the error code and message (or message pattern) it must produce.
type Diagnostic struct {
	Key     string
	Code    uint32
	Message string
	Pattern *regexp.Regexp
}

func LoadDiagnostics(testdata fs.FS, path string) (map[string]*Diagnostic, error) {
	type raw struct {
		Code    uint32 `json:"code"`
		Message string `json:"message"`
		Pattern string `json:"message_pattern"`
	}

	jsonData, err := fs.ReadFile(testdata, path)
	if err != nil {
		return nil, err
	}

	var rawDiags map[string]raw
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&rawDiags); err != nil {
		return nil, err
	}

	out := make(map[string]*Diagnostic, len(rawDiags))
	codes := make(map[uint32]struct{}, len(rawDiags))
	for key, raw := range rawDiags {
		if key[0] == '_' {
			continue
		}

		if raw.Code == 0 {
			return nil, fmt.Errorf("diagnostic %q has no error code", key)
		}
		if _, conflict := codes[raw.Code]; conflict {
			return nil, fmt.Errorf("duplicate diagnostic code %d", raw.Code)
		}
		codes[raw.Code] = struct{}{}

		var pattern *regexp.Regexp
		if raw.Pattern != "" {
			pattern, err = regexp.Compile(raw.Pattern)
			if err != nil {
				return nil, err
			}
		}
		out[key] = &Diagnostic{
			Key:     key,
			Code:    raw.Code,
			Message: raw.Message,
			Pattern: pattern,
		}
	}

	return out, nil
}

// LoadExpectedError reads an expect_err.json file naming one catalogue key.
func LoadExpectedError(
	t *testing.T,
	diagnostics map[string]*Diagnostic,
	testdata fs.FS,
	path string,
) *Diagnostic {
	t.Helper()

	var raw struct {
		Key string `json:"error"`
	}
	jsonData, err := fs.ReadFile(testdata, path)
	AssertNoError(t, err)
	AssertNoError(t, json.Unmarshal(jsonData, &raw))

	diag, ok := diagnostics[raw.Key]
	if !ok {
		t.Fatalf("%s: unknown diagnostic %q", path, raw.Key)
	}
	return diag
}
