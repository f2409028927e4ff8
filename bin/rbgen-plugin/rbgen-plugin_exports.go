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
	"encoding/binary"
	"math"
	"unsafe"

	"go.rbgen.dev/rbgen/plugin"
)

// buffers keeps allocations handed to the host reachable until the host
// releases them.
var buffers = make(map[*uint8][]uint8)

func allocate(len uint32) *uint8 {
	if len > math.MaxInt32 {
		return nil
	}
	buf := make([]uint8, int(len))
	ptr := unsafe.SliceData(buf)
	buffers[ptr] = buf
	return ptr
}

func deallocate(ptr *uint8) {
	delete(buffers, ptr)
}

// generate answers the request message at requestPtr. The response message
// stays allocated until the host deallocates it.
func generate(requestPtr *uint8, responsePtrPtr **uint8) uint8 {
	requestLen := binary.LittleEndian.Uint32(unsafe.Slice(requestPtr, 4))
	requestBuf := unsafe.Slice(requestPtr, 4+uint64(requestLen))

	response, rc := plugin.Handle(requestBuf)
	responsePtr := unsafe.SliceData(response)
	buffers[responsePtr] = response
	*responsePtrPtr = responsePtr
	return rc
}
