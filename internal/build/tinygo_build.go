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

// Command build compiles a Go main package to WebAssembly with TinyGo. It is
// run by go generate; arguments after the flags are passed to "tinygo build".
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	flag "github.com/spf13/pflag"
)

var (
	tinygo  = flag.String("tinygo", "tinygo", "TinyGo executable, found in $PATH unless absolute")
	output  = flag.String("output", "", "output file, relative to the working directory")
	chdir   = flag.String("chdir", "", "directory to build in")
	wasmOpt = flag.String("wasm-opt", "", "wasm-opt executable used by TinyGo")
)

func main() {
	flag.Parse()
	if *output == "" {
		fmt.Fprintln(os.Stderr, "No output file specified (set --output=)")
		os.Exit(1)
	}
	pwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	tinygoPath, err := exec.LookPath(*tinygo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	tinygoArgs := []string{"build"}
	tinygoArgs = append(tinygoArgs, "-o="+filepath.Join(pwd, *output))
	tinygoArgs = append(tinygoArgs, flag.Args()...)

	cmd := exec.Command(tinygoPath, tinygoArgs...)
	cmd.Env = os.Environ()
	if *wasmOpt != "" {
		cmd.Env = append(cmd.Env, "WASMOPT="+*wasmOpt)
	}
	cmd.Dir = filepath.Join(pwd, *chdir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
