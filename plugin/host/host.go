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

// Package host runs rbgen code generator plugins compiled to WebAssembly.
package host

import (
	"context"
	"fmt"
	"io"
	"os"

	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"go.rbgen.dev/rbgen/plugin"
)

// DefaultMemoryLimitPages caps plugin memory at 1 GiB.
const DefaultMemoryLimitPages = 16384

type Option interface {
	apply(*options)
}

type option func(*options)

func (f option) apply(opts *options) { f(opts) }

type options struct {
	memoryLimitPages uint32
	stderr           io.Writer
}

// WithMemoryLimitPages limits plugin memory, in 64 KiB pages.
func WithMemoryLimitPages(pages uint32) Option {
	return option(func(opts *options) {
		opts.memoryLimitPages = pages
	})
}

// WithStderr receives anything the plugin writes to its standard error.
func WithStderr(w io.Writer) Option {
	return option(func(opts *options) {
		opts.stderr = w
	})
}

// A Plugin is an instantiated generator plugin. It is not safe for
// concurrent use.
type Plugin struct {
	runtime    wasm.Runtime
	module     api.Module
	allocate   api.Function
	deallocate api.Function
	generate   api.Function
}

// LoadFile reads and instantiates the plugin at path.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Plugin, error) {
	pluginBin, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	Logger().Debug("loading plugin", zap.String("path", path), zap.Int("size", len(pluginBin)))
	return Load(ctx, pluginBin, opts...)
}

// Load instantiates a plugin from its WebAssembly binary.
func Load(ctx context.Context, pluginBin []byte, opts ...Option) (*Plugin, error) {
	o := &options{
		memoryLimitPages: DefaultMemoryLimitPages,
		stderr:           os.Stderr,
	}
	for _, opt := range opts {
		opt.apply(o)
	}

	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(o.memoryLimitPages)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)

	p, err := instantiate(ctx, runtime, pluginBin, o)
	if err != nil {
		runtime.Close(ctx)
		return nil, err
	}
	return p, nil
}

func instantiate(
	ctx context.Context,
	runtime wasm.Runtime,
	pluginBin []byte,
	o *options,
) (*Plugin, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}

	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, fmt.Errorf("compile plugin: %w", err)
	}
	exported := pluginExe.ExportedFunctions()
	for _, name := range []string{
		plugin.ExportAllocate,
		plugin.ExportDeallocate,
		plugin.ExportGenerate,
	} {
		if _, ok := exported[name]; !ok {
			return nil, fmt.Errorf("plugin does not export %q", name)
		}
	}

	// Plugins are reactors: _initialize sets up the runtime and main never
	// runs.
	moduleConfig := wasm.NewModuleConfig().
		WithName("rbgen-plugin").
		WithStderr(o.stderr).
		WithStartFunctions("_initialize")
	module, err := runtime.InstantiateModule(ctx, pluginExe, moduleConfig)
	if err != nil {
		return nil, fmt.Errorf("instantiate plugin: %w", err)
	}
	if module.Memory() == nil {
		return nil, fmt.Errorf("plugin does not export memory")
	}

	return &Plugin{
		runtime:    runtime,
		module:     module,
		allocate:   module.ExportedFunction(plugin.ExportAllocate),
		deallocate: module.ExportedFunction(plugin.ExportDeallocate),
		generate:   module.ExportedFunction(plugin.ExportGenerate),
	}, nil
}

// Close releases the plugin and its runtime.
func (p *Plugin) Close(ctx context.Context) error {
	return p.runtime.Close(ctx)
}

// Generate sends a request to the plugin. A plugin-reported failure is
// returned as an error carrying the plugin's message.
func (p *Plugin) Generate(ctx context.Context, request *plugin.Request) (*plugin.Response, error) {
	requestBuf, err := plugin.EncodeMessage(request)
	if err != nil {
		return nil, err
	}
	mem := p.module.Memory()

	requestPtr, err := p.alloc(ctx, uint32(len(requestBuf)))
	if err != nil {
		return nil, err
	}
	defer p.free(ctx, requestPtr)
	if !mem.Write(requestPtr, requestBuf) {
		return nil, fmt.Errorf("failed to write request message")
	}

	responsePtrPtr, err := p.alloc(ctx, 4)
	if err != nil {
		return nil, err
	}
	defer p.free(ctx, responsePtrPtr)

	results, err := p.generate.Call(ctx, uint64(requestPtr), uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint8(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, fmt.Errorf("failed to read response message pointer")
	}
	defer p.free(ctx, responsePtr)
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, fmt.Errorf("failed to read response message length")
	}
	responseBuf, ok := mem.Read(responsePtr, 4+responseLen)
	if !ok {
		return nil, fmt.Errorf("failed to read response message")
	}

	response := &plugin.Response{}
	if err := plugin.DecodeMessage(responseBuf, response); err != nil {
		return nil, fmt.Errorf("DecodeMessage[Response]: %w", err)
	}
	Logger().Debug("plugin returned",
		zap.Uint8("rc", rc),
		zap.Int("files", len(response.Files)),
		zap.Uint32("response_len", responseLen),
	)
	if rc != 0 {
		if response.Error == "" {
			return nil, fmt.Errorf("plugin failed with code %d", rc)
		}
		return nil, fmt.Errorf("plugin: %s", response.Error)
	}
	return response, nil
}

func (p *Plugin) alloc(ctx context.Context, size uint32) (uint32, error) {
	results, err := p.allocate.Call(ctx, uint64(size))
	if err != nil {
		return 0, err
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("plugin failed to allocate %d bytes", size)
	}
	return ptr, nil
}

func (p *Plugin) free(ctx context.Context, ptr uint32) {
	if _, err := p.deallocate.Call(ctx, uint64(ptr)); err != nil {
		Logger().Warn("plugin deallocate failed", zap.Uint32("ptr", ptr), zap.Error(err))
	}
}
