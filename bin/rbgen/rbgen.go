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
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.rbgen.dev/rbgen/plugin/host"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
}

// globals holds state shared by every command: the loaded configuration and
// the loggers built from it.
type globals struct {
	configPath string
	logLevel   string

	stderr io.Writer
	cfg    *Config
	log    zerolog.Logger
}

func (g *globals) flags(flags *pflag.FlagSet) {
	flags.StringVar(&g.configPath, "config", "", "config file (default ./rbgen.yaml if present)")
	flags.StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn, error or disabled")
}

func (g *globals) setup() error {
	cfg := defaultConfig()
	path := g.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if g.logLevel != "" {
		if _, err := zerolog.ParseLevel(g.logLevel); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = g.logLevel
	}

	g.cfg = cfg
	g.log = cfg.newLogger(g.stderr)
	host.SetLogger(cfg.newZapLogger(g.stderr))
	g.log.Debug().Str("config", path).Str("output", cfg.Output).Msg("configured")
	return nil
}

func (g *globals) usageError(usage string) int {
	fmt.Fprintf(g.stderr, "usage: rbgen %s\n", usage)
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rc := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(rc)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	g := &globals{stderr: stderr}
	rc := 0

	rbgenCmd := &cobra.Command{
		Use: "rbgen [options] COMMAND",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rbgenCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(stderr, rbgenCmd.UsageString())
		rc = 1
		return nil
	}
	rbgenCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return g.setup()
	}
	g.flags(rbgenCmd.PersistentFlags())

	commands := []command{
		&cmdGenerate{globals: g},
		&cmdPlugin{globals: g},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			RunE: func(_ *cobra.Command, args []string) error {
				rc = cmd.run(ctx, args)
				return nil
			},
		}
		rbgenCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	rbgenCmd.SetArgs(args)
	rbgenCmd.SetOut(stderr)
	rbgenCmd.SetErr(stderr)
	if err := rbgenCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return rc
}
