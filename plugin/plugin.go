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

// Package plugin defines the messages exchanged between rbgen and a
// WebAssembly code generator plugin.
//
// Each message is a 4-byte little-endian length followed by that many bytes
// of JSON. The plugin exports three functions:
//
//	rbgen_allocate(len u32) -> ptr
//	rbgen_deallocate(ptr)
//	rbgen_generate(request_ptr, response_ptr_ptr) -> u8
//
// rbgen_generate stores a pointer to the response message at
// response_ptr_ptr and returns zero on success.
package plugin

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"go.rbgen.dev/rbgen/codegen"
	"go.rbgen.dev/rbgen/schemadoc"
)

const (
	ExportAllocate   = "rbgen_allocate"
	ExportDeallocate = "rbgen_deallocate"
	ExportGenerate   = "rbgen_generate"
)

// Language is the only target language implemented by the built-in plugin.
const Language = "rb"

type Request struct {
	Schema   *schemadoc.Bundle `json:"schema"`
	Language string            `json:"language,omitempty"`
	Options  map[string]string `json:"options,omitempty"`
}

type Response struct {
	Files []OutputFile `json:"files,omitempty"`
	Error string       `json:"error,omitempty"`
}

type OutputFile struct {
	// Path components, relative to the output directory.
	Path    []string `json:"path"`
	Content []byte   `json:"content"`
}

// FromCodegen converts generated files into plugin output files.
func FromCodegen(files []*codegen.OutputFile) []OutputFile {
	out := make([]OutputFile, 0, len(files))
	for _, file := range files {
		out = append(out, OutputFile{
			Path:    strings.Split(file.Path, "/"),
			Content: file.Content,
		})
	}
	return out
}

// EncodeMessage encodes v as a length-prefixed JSON message.
func EncodeMessage(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(buf, uint32(len(payload)))
	return append(buf, payload...), nil
}

// DecodeMessage decodes a length-prefixed JSON message into v. Bytes after
// the message are ignored.
func DecodeMessage(buf []byte, v any) error {
	if len(buf) < 4 {
		return fmt.Errorf("message truncated: %d bytes", len(buf))
	}
	size := binary.LittleEndian.Uint32(buf)
	if uint64(size) > uint64(len(buf)-4) {
		return fmt.Errorf("message truncated: want %d bytes, have %d", size, len(buf)-4)
	}
	return json.Unmarshal(buf[4:4+size], v)
}

// Handle decodes a request message, runs the generator and returns the
// encoded response along with the return code for rbgen_generate.
func Handle(requestBuf []byte) ([]byte, uint8) {
	response, err := handle(requestBuf)
	if err != nil {
		response = &Response{Error: err.Error()}
	}
	responseBuf, encodeErr := EncodeMessage(response)
	if encodeErr != nil {
		responseBuf, _ = EncodeMessage(&Response{
			Error: fmt.Sprintf("EncodeMessage[Response]: %v", encodeErr),
		})
		return responseBuf, 1
	}
	if err != nil {
		return responseBuf, 1
	}
	return responseBuf, 0
}

func handle(requestBuf []byte) (*Response, error) {
	request := &Request{}
	if err := DecodeMessage(requestBuf, request); err != nil {
		return nil, fmt.Errorf("DecodeMessage[Request]: %w", err)
	}
	if request.Language != "" && request.Language != Language {
		return nil, fmt.Errorf("unsupported language %q", request.Language)
	}
	if request.Schema == nil {
		return nil, fmt.Errorf("request has no schema")
	}

	program, err := request.Schema.Load()
	if err != nil {
		return nil, err
	}
	var opts []codegen.Option
	if version := request.Options["version"]; version != "" {
		opts = append(opts, codegen.WithVersion(version))
	}
	files, err := codegen.Generate(program, opts...)
	if err != nil {
		return nil, err
	}
	return &Response{Files: FromCodegen(files)}, nil
}
