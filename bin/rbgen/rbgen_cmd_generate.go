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
	"fmt"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	"go.rbgen.dev/rbgen/codegen"
	"go.rbgen.dev/rbgen/plugin"
	"go.rbgen.dev/rbgen/schema"
	"go.rbgen.dev/rbgen/schemadoc"
)

type cmdGenerate struct {
	*globals
	outDir string
	watch  bool
}

func (*cmdGenerate) help() *commandHelp {
	return &commandHelp{
		usage:   "generate [-o DIR] [--watch] SCHEMA",
		summary: "Generate Ruby sources from a schema document",
	}
}

func (cmd *cmdGenerate) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outDir, "output", "o", "", "output directory (default from config, or gen-rb)")
	flags.BoolVar(&cmd.watch, "watch", false, "regenerate when the schema or its includes change")
}

func (cmd *cmdGenerate) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		return cmd.usageError(cmd.help().usage)
	}
	schemaPath := argv[0]
	outDir := cmd.outDir
	if outDir == "" {
		outDir = cmd.cfg.Output
	}

	sources, err := cmd.generate(schemaPath, outDir)
	if err != nil {
		cmd.log.Error().Err(err).Str("schema", schemaPath).Msg("generation failed")
		if !cmd.watch || len(sources) == 0 {
			return 1
		}
	}
	if !cmd.watch {
		return 0
	}
	if err := cmd.watchLoop(ctx, schemaPath, outDir, sources); err != nil {
		cmd.log.Error().Err(err).Msg("watch failed")
		return 1
	}
	return 0
}

// generate writes the generated files and returns the schema documents that
// were read, including on failure when the schema itself loaded.
func (cmd *cmdGenerate) generate(schemaPath, outDir string) ([]string, error) {
	program, sources, err := cmd.load(schemaPath)
	if err != nil {
		return sources, err
	}
	files, err := codegen.Generate(
		program,
		codegen.WithLogger(cmd.log),
		codegen.WithVersion(cmd.cfg.Version),
	)
	if err != nil {
		return sources, err
	}
	written, err := plugin.WriteFiles(outDir, plugin.FromCodegen(files))
	if err != nil {
		return sources, err
	}
	for _, path := range written {
		cmd.log.Debug().Str("path", path).Msg("wrote")
	}
	cmd.log.Info().
		Str("schema", schemaPath).
		Str("output", outDir).
		Int("files", len(written)).
		Msg("generated")
	return sources, nil
}

// load reads the schema. Only watch mode needs the list of documents read,
// which it gets by recording them in a bundle.
func (cmd *cmdGenerate) load(schemaPath string) (*schema.Program, []string, error) {
	if !cmd.watch {
		program, err := schemadoc.LoadFile(schemaPath)
		return program, nil, err
	}
	bundle, err := loadBundle(schemaPath)
	if err != nil {
		return nil, nil, err
	}
	sources := bundlePaths(bundle)
	program, err := bundle.Load()
	return program, sources, err
}

// watchLoop regenerates whenever one of the watched schema documents is
// written, until ctx is cancelled. Directories are watched rather than files
// so that editors which save by renaming are noticed.
func (cmd *cmdGenerate) watchLoop(ctx context.Context, schemaPath, outDir string, sources []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	tracked := map[string]bool{}
	track := func(sources []string) error {
		clear(tracked)
		for _, source := range sources {
			abs, err := filepath.Abs(source)
			if err != nil {
				return err
			}
			tracked[abs] = true
			dir := filepath.Dir(abs)
			if watched[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch directory: %w", err)
			}
			watched[dir] = true
		}
		return nil
	}
	if err := track(sources); err != nil {
		return err
	}
	dirs := make([]string, 0, len(watched))
	for dir := range watched {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	cmd.log.Info().Strs("dirs", dirs).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !tracked[abs] {
				continue
			}
			cmd.log.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("schema changed")

			sources, err := cmd.generate(schemaPath, outDir)
			if err != nil {
				cmd.log.Error().Err(err).Str("schema", schemaPath).Msg("generation failed")
			}
			if len(sources) > 0 {
				if err := track(sources); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.log.Error().Err(err).Msg("file watcher error")
		}
	}
}
