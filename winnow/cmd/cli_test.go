/*
 * Copyright 2025 Winnow Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/winnow-io/winnow"
)

// mockCommand builds a bare command carrying the one flag the handlers poll
// through the cobra API. Handlers read everything else from the option
// structs directly.
func mockCommand(t *testing.T, seed uint64) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Uint64("seed", 0, "")
	if seed != 0 {
		require.NoError(t, cmd.Flags().Set("seed", fmt.Sprintf("%d", seed)))
	}
	return cmd
}

// writeSampleInput writes a small weighted input file and returns its path.
func writeSampleInput(t *testing.T, dir string, rows int) string {
	var sb strings.Builder
	sb.WriteString("id\tweight\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "row%03d\t%d\n", i, i%9+1)
	}
	path := filepath.Join(dir, "in.tsv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want byte
		ok   bool
	}{
		{`\t`, '\t', true},
		{",", ',', true},
		{"|", '|', true},
		{";", ';', true},
		{" ", ' ', true},
		{"", 0, false},
		{"ab", 0, false},
		{`\n`, 0, false},
	}
	for _, tt := range tests {
		d, err := parseDelimiter(tt.in)
		if !tt.ok {
			require.Error(t, err, "input %q", tt.in)
			require.True(t, errors.Is(err, winnow.ErrInvalidOptions))
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, d, "input %q", tt.in)
	}
}

func TestValidateRootCmdArgs(t *testing.T) {
	oldVerbose, oldQuiet := verbose, quiet
	defer func() { verbose, quiet = oldVerbose, oldQuiet }()

	cmd := &cobra.Command{Use: "sample"}
	verbose, quiet = true, false
	require.NoError(t, validateRootCmdArgs(cmd, nil))
	verbose, quiet = false, true
	require.NoError(t, validateRootCmdArgs(cmd, nil))

	verbose, quiet = true, true
	err := validateRootCmdArgs(cmd, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mutually exclusive")

	// help runs even with contradictory logging flags.
	help := &cobra.Command{Use: "help [command]"}
	require.NoError(t, validateRootCmdArgs(help, nil))
}

func TestDoSample(t *testing.T) {
	oldSo := so
	defer func() { so = oldSo }()

	dir, err := os.MkdirTemp("", "winnow-cli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	so.file = writeSampleInput(t, dir, 100)
	so.samples = 10
	require.NoError(t, so.weightCol.Set("weight"))
	so.seed = 42
	so.output = filepath.Join(dir, "out.tsv")
	quiet = true
	defer func() { quiet = false }()

	require.NoError(t, doSample(mockCommand(t, 42), nil))

	data, err := os.ReadFile(so.output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 11)
	require.Equal(t, "id\tweight", lines[0])

	// The same seed draws the same sample.
	so.output = filepath.Join(dir, "out2.tsv")
	require.NoError(t, doSample(mockCommand(t, 42), nil))
	data2, err := os.ReadFile(so.output)
	require.NoError(t, err)
	require.Equal(t, string(data), string(data2))
}

func TestDoSampleIncludeExcludeFiles(t *testing.T) {
	oldSo := so
	defer func() { so = oldSo }()

	dir, err := os.MkdirTemp("", "winnow-cli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	idFile := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(idFile, []byte("# forced ids\nrow007\n"), 0644))

	so.file = writeSampleInput(t, dir, 50)
	so.samples = 5
	so.seed = 1
	so.includeFile = []string{idFile}
	so.exclude = []string{"row001"}
	so.output = filepath.Join(dir, "out.tsv")
	quiet = true
	defer func() { quiet = false }()

	require.NoError(t, doSample(mockCommand(t, 1), nil))

	data, err := os.ReadFile(so.output)
	require.NoError(t, err)
	require.Contains(t, string(data), "row007\t")
	require.NotContains(t, string(data), "row001\t")
}

func TestDoSampleErrors(t *testing.T) {
	oldSo := so
	defer func() { so = oldSo }()

	dir, err := os.MkdirTemp("", "winnow-cli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := writeSampleInput(t, dir, 5)

	// A missing --samples surfaces as a usage error.
	so.file = path
	so.samples = 0
	err = doSample(mockCommand(t, 0), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, winnow.ErrInvalidSampleCount))
	require.Equal(t, winnow.ExitUsage, winnow.ExitCode(err))

	// So does an unknown codec name.
	so.samples = 1
	so.compression = "lz4"
	err = doSample(mockCommand(t, 0), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, winnow.ErrInvalidOptions))

	// A missing input file maps to an I/O failure.
	so.compression = "auto"
	so.file = filepath.Join(dir, "missing.tsv")
	err = doSample(mockCommand(t, 0), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, winnow.ErrIO))
	require.Equal(t, winnow.ExitIOError, winnow.ExitCode(err))

	// A bad delimiter never reaches the reader.
	so.delimiter = "ab"
	err = doSample(mockCommand(t, 0), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, winnow.ErrInvalidOptions))
}

func TestIDList(t *testing.T) {
	dir, err := os.MkdirTemp("", "winnow-cli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n# skip\n"), 0644))

	ids, err := idList([]string{"x"}, []string{path})
	require.NoError(t, err)
	require.Equal(t, []string{"x", "a", "b"}, ids)

	_, err = idList(nil, []string{filepath.Join(dir, "missing.txt")})
	require.Error(t, err)
	require.True(t, errors.Is(err, winnow.ErrIO))
}

func TestHandleInfo(t *testing.T) {
	oldIopt := iopt
	defer func() { iopt = oldIopt }()

	dir, err := os.MkdirTemp("", "winnow-cli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "in.tsv")
	require.NoError(t, os.WriteFile(path,
		[]byte("id\tweight\na\t1\nb\t2\na\t3\n"), 0644))

	iopt.file = path
	require.NoError(t, iopt.weightCol.Set("weight"))
	quiet = true
	defer func() { quiet = false }()

	require.NoError(t, handleInfo(mockCommand(t, 0), nil))

	// The histogram pass reads the same file once more.
	iopt.showHistogram = true
	require.NoError(t, handleInfo(mockCommand(t, 0), nil))

	iopt.file = filepath.Join(dir, "missing.tsv")
	err = handleInfo(mockCommand(t, 0), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, winnow.ErrIO))
}
