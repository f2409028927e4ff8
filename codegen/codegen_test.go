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

package codegen_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"go.rbgen.dev/rbgen/codegen"
	"go.rbgen.dev/rbgen/internal/testutil"
	"go.rbgen.dev/rbgen/schema"
	"go.rbgen.dev/rbgen/schemadoc"
)

var (
	testdata    fs.FS
	diagnostics map[string]*testutil.Diagnostic
)

func init() {
	var err error
	testdata, err = testutil.TestdataFS()
	if err != nil {
		panic(err)
	}
	diagnostics, err = testutil.LoadDiagnostics(testdata, "codegen_errors.json")
	if err != nil {
		panic(err)
	}
}

func TestCases(t *testing.T) {
	entries, err := fs.ReadDir(testdata, "cases")
	testutil.AssertNoError(t, err)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		t.Run(entry.Name(), func(t *testing.T) {
			caseTest(t, entry.Name())
		})
	}
}

func caseTest(t *testing.T, testName string) {
	t.Parallel()

	program, err := schemadoc.Load(
		fmt.Sprintf("cases/%s/schema.yaml", testName),
		func(name string) ([]byte, error) {
			return fs.ReadFile(testdata, name)
		},
	)
	testutil.AssertNoError(t, err)

	expectErr := fmt.Sprintf("cases/%s/expect_err.json", testName)
	if _, err := fs.Stat(testdata, expectErr); err == nil {
		testExpectErr(t, program, expectErr)
	} else {
		testExpectOK(t, program, testName)
	}
}

func testExpectOK(t *testing.T, program *schema.Program, testName string) {
	files, err := codegen.Generate(program)
	testutil.AssertNoError(t, err)

	dir := "cases/" + testName
	entries, err := fs.ReadDir(testdata, dir)
	testutil.AssertNoError(t, err)
	var expectPaths []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".rb") {
			expectPaths = append(expectPaths, entry.Name())
		}
	}

	var gotPaths []string
	for _, file := range files {
		gotPaths = append(gotPaths, file.Path)
		expectText, err := fs.ReadFile(testdata, path.Join(dir, file.Path))
		if err != nil {
			t.Errorf("unexpected output file %q", file.Path)
			continue
		}
		testutil.ExpectNoDiff(t, string(expectText), string(file.Content))
	}
	slices.Sort(gotPaths)
	testutil.ExpectSliceEq(t, expectPaths, gotPaths)
}

func testExpectErr(t *testing.T, program *schema.Program, expectErrPath string) {
	expectErr := testutil.LoadExpectedError(t, diagnostics, testdata, expectErrPath)

	files, err := codegen.Generate(program)
	testutil.ExpectEq(t, 0, len(files))
	genErr := testutil.AssertErrorAs[*codegen.Error](t, err)

	testutil.ExpectEq(t, expectErr.Code, genErr.Code())
	if expectErr.Pattern != nil {
		testutil.ExpectMatch(t, expectErr.Pattern, genErr.Message())
	} else if expectErr.Message != "" {
		testutil.ExpectEq(t, expectErr.Message, genErr.Message())
	}
}

func TestErrorsIs(t *testing.T) {
	program := &schema.Program{
		Name: "broken",
		Decls: []schema.Decl{
			&schema.Const{Name: "NOTHING", Type: schema.String, Value: schema.IntValue(1)},
		},
	}
	_, err := codegen.Generate(program)
	testutil.AssertError(t, err)

	testutil.ExpectTrue(t, errors.Is(err, codegen.ErrUnsupportedConstantType))
	testutil.ExpectFalse(t, errors.Is(err, codegen.ErrUnsupportedType))
	testutil.ExpectContains(t, `const "NOTHING": E5002: `, err.Error())

	genErr := testutil.AssertErrorAs[*codegen.Error](t, err)
	testutil.ExpectEq(t, codegen.UnsupportedConstantType, genErr.Kind())
}

func TestOutputFileNames(t *testing.T) {
	program := &schema.Program{
		Name: "UserProfile",
		Decls: []schema.Decl{
			&schema.Service{Name: "ProfileStore"},
			&schema.Service{Name: "Audit"},
		},
	}
	for _, decl := range program.Decls {
		decl.(*schema.Service).Program = program
	}
	files, err := codegen.Generate(program)
	testutil.AssertNoError(t, err)

	var paths []string
	for _, file := range files {
		paths = append(paths, file.Path)
	}
	testutil.ExpectSliceEq(t, []string{
		"user_profile_types.rb",
		"user_profile_constants.rb",
		"profile_store.rb",
		"audit.rb",
	}, paths)
}

func TestVersionOption(t *testing.T) {
	program := &schema.Program{Name: "empty"}
	files, err := codegen.Generate(program, codegen.WithVersion("1.0.0-dev"))
	testutil.AssertNoError(t, err)
	testutil.ExpectContains(t, "# Autogenerated by Thrift Compiler (1.0.0-dev)\n", string(files[0].Content))
}

func TestOnewayExceptionsWarning(t *testing.T) {
	program := &schema.Program{Name: "events"}
	failure := &schema.Struct{Name: "Failure", Kind: schema.KindException, Program: program}
	svc := &schema.Service{
		Name:    "Events",
		Program: program,
		Functions: []*schema.Function{{
			Name:    "publish",
			Returns: schema.Void,
			Oneway:  true,
			Exceptions: []*schema.Field{
				{Name: "err", ID: 1, Type: failure},
			},
		}},
	}
	program.Decls = []schema.Decl{failure, svc}

	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.WarnLevel)
	files, err := codegen.Generate(program, codegen.WithLogger(logger))
	testutil.AssertNoError(t, err)

	testutil.ExpectContains(t, `"level":"warn"`, logs.String())
	testutil.ExpectContains(t, `"function":"publish"`, logs.String())

	service := string(files[2].Content)
	testutil.ExpectContains(t, "      rescue Failure\n      end\n      return\n", service)
	testutil.ExpectNotContains(t, "Publish_result", service)
	testutil.ExpectNotContains(t, "recv_publish", service)
}

func TestOptionsReuse(t *testing.T) {
	opts := codegen.NewOptions()
	program := &schema.Program{Name: "reuse", Namespace: "a.b"}
	first, err := opts.Generate(program)
	testutil.AssertNoError(t, err)
	second, err := opts.Generate(program)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, len(first), len(second))
	for ii := range first {
		testutil.ExpectBytesEq(t, first[ii].Content, second[ii].Content)
	}
}
