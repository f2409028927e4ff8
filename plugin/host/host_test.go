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

package host_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.rbgen.dev/rbgen/plugin/host"
)

// An empty but valid WebAssembly module.
var emptyModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := host.Load(context.Background(), []byte("not wasm"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile plugin")
}

func TestLoadRequiresExports(t *testing.T) {
	_, err := host.Load(context.Background(), emptyModule, host.WithMemoryLimitPages(16))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `plugin does not export "rbgen_allocate"`)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := host.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.wasm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocate(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	pluginFile := filepath.Join(second, host.PluginName("rb"))
	require.NoError(t, os.WriteFile(pluginFile, emptyModule, 0o644))
	searchPath := first + string(os.PathListSeparator) + second

	got, err := host.Locate(searchPath, "rb")
	require.NoError(t, err)
	assert.Equal(t, pluginFile, got)

	_, err = host.Locate(searchPath, "py")
	assert.ErrorContains(t, err, "rbgen-plugin-py.wasm not found")

	t.Setenv(host.PluginPathEnv, searchPath)
	got, err = host.Locate("", "rb")
	require.NoError(t, err)
	assert.Equal(t, pluginFile, got)

	t.Setenv(host.PluginPathEnv, "")
	_, err = host.Locate("", "rb")
	assert.ErrorContains(t, err, "No plugin path set")
}
