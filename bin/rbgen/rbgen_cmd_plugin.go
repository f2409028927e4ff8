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
	"context"

	"github.com/spf13/pflag"

	"go.rbgen.dev/rbgen/plugin"
	"go.rbgen.dev/rbgen/plugin/host"
)

type cmdPlugin struct {
	*globals
	outDir     string
	pluginPath string
	language   string
}

func (*cmdPlugin) help() *commandHelp {
	return &commandHelp{
		usage:   "plugin [-o DIR] [--plugin-path PATH] [--language LANG] SCHEMA",
		summary: "Generate sources with a WebAssembly generator plugin",
	}
}

func (cmd *cmdPlugin) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outDir, "output", "o", "", "output directory (default from config, or gen-rb)")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "directories to search for plugins (default $"+host.PluginPathEnv+")")
	flags.StringVar(&cmd.language, "language", plugin.Language, "target language of the plugin")
}

func (cmd *cmdPlugin) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		return cmd.usageError(cmd.help().usage)
	}
	schemaPath := argv[0]
	outDir := cmd.outDir
	if outDir == "" {
		outDir = cmd.cfg.Output
	}
	pluginPath := cmd.pluginPath
	if pluginPath == "" {
		pluginPath = cmd.cfg.PluginPath
	}

	bundle, err := loadBundle(schemaPath)
	if err != nil {
		cmd.log.Error().Err(err).Str("schema", schemaPath).Msg("failed to load schema")
		return 1
	}

	pluginFile, err := host.Locate(pluginPath, cmd.language)
	if err != nil {
		cmd.log.Error().Err(err).Msg("failed to locate plugin")
		return 1
	}
	p, err := host.LoadFile(ctx, pluginFile, host.WithStderr(cmd.stderr))
	if err != nil {
		cmd.log.Error().Err(err).Str("plugin", pluginFile).Msg("failed to load plugin")
		return 1
	}
	defer p.Close(ctx)

	response, err := p.Generate(ctx, &plugin.Request{
		Schema:   bundle,
		Language: cmd.language,
		Options:  map[string]string{"version": cmd.cfg.Version},
	})
	if err != nil {
		cmd.log.Error().Err(err).Str("plugin", pluginFile).Msg("generation failed")
		return 1
	}

	written, err := plugin.WriteFiles(outDir, response.Files)
	if err != nil {
		cmd.log.Error().Err(err).Msg("failed to write output")
		return 1
	}
	cmd.log.Info().
		Str("schema", schemaPath).
		Str("plugin", pluginFile).
		Str("output", outDir).
		Int("files", len(written)).
		Msg("generated")
	return 0
}
