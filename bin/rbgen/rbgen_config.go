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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"go.rbgen.dev/rbgen/codegen"
)

// defaultConfigPath is loaded when present and --config is not given.
const defaultConfigPath = "rbgen.yaml"

type Config struct {
	// Output is the directory generated files are written to.
	Output string `yaml:"output"`

	// Version is the compiler version named in generated file headers.
	Version string `yaml:"version"`

	// PluginPath is searched for generator plugins, like $RBGEN_PLUGIN_PATH.
	PluginPath string `yaml:"plugin_path"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// LoadConfig reads a YAML config file. ${VAR} references are expanded from
// the environment before parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Output == "" {
		cfg.Output = "gen-rb"
	}
	if cfg.Version == "" {
		cfg.Version = codegen.DefaultVersion
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

func validate(cfg *Config) error {
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Log.Format)
	}
	return nil
}

// newLogger builds the CLI logger writing to w.
func (cfg *Config) newLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Log.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// newZapLogger builds the plugin host logger at the same level as the CLI
// logger.
func (cfg *Config) newZapLogger(w io.Writer) *zap.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.Disabled || level == zerolog.NoLevel {
		return zap.NewNop()
	}
	var encoder zapcore.Encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Log.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.TimeKey = ""
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapLevel(level))
	return zap.New(core).Named("plugin")
}

func zapLevel(level zerolog.Level) zapcore.Level {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return zapcore.DebugLevel
	case zerolog.InfoLevel:
		return zapcore.InfoLevel
	case zerolog.WarnLevel:
		return zapcore.WarnLevel
	case zerolog.ErrorLevel:
		return zapcore.ErrorLevel
	case zerolog.FatalLevel:
		return zapcore.FatalLevel
	case zerolog.PanicLevel:
		return zapcore.PanicLevel
	}
	return zapcore.InfoLevel
}
