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

package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.rbgen.dev/rbgen/plugin"
	"go.rbgen.dev/rbgen/schemadoc"
)

func loadFixedResponsePlugin(t *testing.T) *Plugin {
	t.Helper()
	ctx := context.Background()
	p, err := LoadFile(ctx, "testdata/fixed_response.wasm", WithMemoryLimitPages(16))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close(ctx) })
	return p
}

// liveBuffers reports how many plugin allocations have not been freed.
func liveBuffers(t *testing.T, p *Plugin) uint32 {
	t.Helper()
	live := p.module.ExportedGlobal("live")
	require.NotNil(t, live)
	return uint32(live.Get())
}

func TestGenerate(t *testing.T) {
	p := loadFixedResponsePlugin(t)

	response, err := p.Generate(context.Background(), &plugin.Request{
		Schema: &schemadoc.Bundle{
			Root:  "hello.yaml",
			Files: map[string]string{"hello.yaml": "name: hello\n"},
		},
		Language: plugin.Language,
	})
	require.NoError(t, err)
	require.Len(t, response.Files, 1)
	assert.Equal(t, []string{"hello.rb"}, response.Files[0].Path)
	assert.Equal(t, "puts 'hi'\n", string(response.Files[0].Content))
	assert.Empty(t, response.Error)
	assert.Zero(t, liveBuffers(t, p))
}

func TestGeneratePluginError(t *testing.T) {
	p := loadFixedResponsePlugin(t)

	response, err := p.Generate(context.Background(), &plugin.Request{})
	assert.Nil(t, response)
	assert.EqualError(t, err, "plugin: request has no schema")
	assert.Zero(t, liveBuffers(t, p))
}

func TestGenerateRepeated(t *testing.T) {
	p := loadFixedResponsePlugin(t)
	ctx := context.Background()
	request := &plugin.Request{Schema: &schemadoc.Bundle{Root: "a.yaml"}}

	for range 3 {
		_, err := p.Generate(ctx, request)
		require.NoError(t, err)
	}
	_, err := p.Generate(ctx, &plugin.Request{})
	require.Error(t, err)
	assert.Zero(t, liveBuffers(t, p))
}
