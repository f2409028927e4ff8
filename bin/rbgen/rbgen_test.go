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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.rbgen.dev/rbgen/plugin/host"
)

const sharedSchema = `
name: shared
namespace: shared
decls:
  - enum:
      name: Kind
      values: [{name: SMALL}, {name: LARGE}]
`

const appSchema = `
name: app
includes: [shared/shared.yaml]
decls:
  - struct:
      name: Item
      fields:
        - {id: 1, name: kind, type: shared.Kind}
  - service:
      name: Inventory
      functions:
        - {name: count, returns: i64}
`

func writeSchema(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared", "shared.yaml"), sharedSchema)
	return writeFile(t, filepath.Join(dir, "app.yaml"), appSchema)
}

func TestRunGenerate(t *testing.T) {
	schemaPath := writeSchema(t)
	outDir := filepath.Join(t.TempDir(), "out")

	var stderr bytes.Buffer
	rc := run(context.Background(), []string{
		"--log-level=disabled", "generate", "-o", outDir, schemaPath,
	}, &stderr)
	require.Equal(t, 0, rc, stderr.String())

	for _, name := range []string{"app_types.rb", "app_constants.rb", "inventory.rb"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	types, err := os.ReadFile(filepath.Join(outDir, "app_types.rb"))
	require.NoError(t, err)
	assert.Contains(t, string(types), "require 'shared_types'\n")
	assert.Contains(t, string(types), ":enum_class => Shared::Kind}")
}

func TestRunGenerateConfigFile(t *testing.T) {
	schemaPath := writeSchema(t)
	outDir := filepath.Join(t.TempDir(), "configured")
	configPath := writeFile(t, filepath.Join(t.TempDir(), "rbgen.yaml"),
		"output: "+outDir+"\nversion: 2.0.0\nlog: {level: disabled}\n")

	var stderr bytes.Buffer
	rc := run(context.Background(), []string{
		"--config", configPath, "generate", schemaPath,
	}, &stderr)
	require.Equal(t, 0, rc, stderr.String())

	types, err := os.ReadFile(filepath.Join(outDir, "app_types.rb"))
	require.NoError(t, err)
	assert.Contains(t, string(types), "# Autogenerated by Thrift Compiler (2.0.0)\n")
}

func TestRunGenerateError(t *testing.T) {
	schemaPath := writeFile(t, filepath.Join(t.TempDir(), "bad.yaml"), `
decls:
  - struct:
      name: Bad
      fields: [{id: 1, name: nothing, type: void}]
`)
	outDir := filepath.Join(t.TempDir(), "out")

	var stderr bytes.Buffer
	rc := run(context.Background(), []string{
		"--log-level=error", "generate", "-o", outDir, schemaPath,
	}, &stderr)
	assert.Equal(t, 1, rc)
	assert.Contains(t, stderr.String(), "generation failed")
	assert.Contains(t, stderr.String(), "E5000")

	_, err := os.Stat(outDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunGenerateWatchStops(t *testing.T) {
	schemaPath := writeSchema(t)
	outDir := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr bytes.Buffer
	rc := run(ctx, []string{
		"--log-level=disabled", "generate", "--watch", "-o", outDir, schemaPath,
	}, &stderr)
	assert.Equal(t, 0, rc, stderr.String())

	_, err := os.Stat(filepath.Join(outDir, "inventory.rb"))
	assert.NoError(t, err)
}

func TestRunUsage(t *testing.T) {
	var stderr bytes.Buffer
	rc := run(context.Background(), []string{"--log-level=disabled", "generate"}, &stderr)
	assert.Equal(t, 1, rc)
	assert.Contains(t, stderr.String(), "usage: rbgen generate")

	stderr.Reset()
	rc = run(context.Background(), []string{}, &stderr)
	assert.Equal(t, 1, rc)
	assert.Contains(t, stderr.String(), "rbgen [options] COMMAND")

	stderr.Reset()
	rc = run(context.Background(), []string{"--log-level=loud", "generate", "x.yaml"}, &stderr)
	assert.Equal(t, 1, rc)
	assert.Contains(t, stderr.String(), "--log-level")
}

func TestRunPluginNotFound(t *testing.T) {
	schemaPath := writeSchema(t)
	t.Setenv(host.PluginPathEnv, "")

	var stderr bytes.Buffer
	rc := run(context.Background(), []string{
		"--log-level=error", "plugin", "-o", t.TempDir(), schemaPath,
	}, &stderr)
	assert.Equal(t, 1, rc)
	assert.Contains(t, stderr.String(), "No plugin path set")

	stderr.Reset()
	rc = run(context.Background(), []string{
		"--log-level=error", "plugin", "--plugin-path", t.TempDir(), "--language", "py", schemaPath,
	}, &stderr)
	assert.Equal(t, 1, rc)
	assert.Contains(t, stderr.String(), "rbgen-plugin-py.wasm not found")
}
