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

// Command rbgen-plugin is the Ruby generator packaged as an rbgen plugin.
//
// Built with TinyGo for WebAssembly it answers the plugin ABI described in
// package plugin. Run natively, it reads one request message from stdin and
// writes the response message to stdout, which is useful for debugging the
// message encoding.
package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"go.rbgen.dev/rbgen/plugin"
)

//go:generate go run ../../internal/build --output=rbgen-plugin-rb.wasm -- -target=wasip1 -buildmode=c-shared -no-debug .

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().Str("cmd", "rbgen-plugin").Logger()
	os.Exit(serve(os.Stdin, os.Stdout, log))
}

// serve answers one request message read from r, writing the response
// message to w. It returns the plugin return code.
func serve(r io.Reader, w io.Writer, log zerolog.Logger) int {
	requestBuf, err := io.ReadAll(r)
	if err != nil {
		log.Error().Err(err).Msg("read request")
		return 1
	}
	response, rc := plugin.Handle(requestBuf)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("write response")
		return 1
	}
	if rc != 0 {
		var decoded plugin.Response
		if err := plugin.DecodeMessage(response, &decoded); err == nil {
			log.Error().Str("error", decoded.Error).Msg("generation failed")
		}
	}
	return int(rc)
}
