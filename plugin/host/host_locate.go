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
	"fmt"
	"os"
	"path/filepath"
)

// PluginPathEnv names the environment variable searched when no plugin path
// is given explicitly.
const PluginPathEnv = "RBGEN_PLUGIN_PATH"

// PluginName returns the file name of the plugin for a target language.
func PluginName(language string) string {
	return fmt.Sprintf("rbgen-plugin-%s.wasm", language)
}

// Locate searches a list of directories (separated as in $PATH) for the
// plugin implementing language.
func Locate(pluginPath, language string) (string, error) {
	if pluginPath == "" {
		pluginPath = os.Getenv(PluginPathEnv)
	}
	if pluginPath == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $%s", PluginPathEnv)
	}
	basename := PluginName(language)
	for _, dir := range filepath.SplitList(pluginPath) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, basename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("rbgen plugin %s not found in plugin path", basename)
}
