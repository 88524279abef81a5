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
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/winnow-io/winnow"
	"github.com/winnow-io/winnow/options"
	"github.com/winnow-io/winnow/y"
)

var so = struct {
	file        string
	samples     int
	idCol       winnow.Column
	weightCol   winnow.Column
	delimiter   string
	noHeader    bool
	seed        uint64
	include     []string
	includeFile []string
	exclude     []string
	excludeFile []string
	output      string
	stats       bool
	skipBad     bool
	maxLineSize int
	compression string
}{
	idCol: winnow.ColumnIndex(0),
}

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw a weighted random sample of records from a delimited file.",
	Long: `
This command draws records from a delimited text file without replacement, in
one pass and without loading the file into memory. When a weight column is
given, a record's chance of selection is proportional to its weight; otherwise
every record is equally likely. Selected records are printed in input order.

Ids named with --include always appear in the output, ids named with --exclude
never do. Fix --seed to make a run reproducible.
`,
	RunE: doSample,
}

func init() {
	RootCmd.AddCommand(sampleCmd)
	fl := sampleCmd.Flags()
	fl.StringVarP(&so.file, "file", "f", "",
		"Delimited input file to sample from.")
	fl.IntVarP(&so.samples, "samples", "n", 0,
		"Number of records to draw. Must be positive.")
	fl.Var(&so.idCol, "id-col",
		"Id column, by index or header name. Defaults to the first column.")
	fl.Var(&so.weightCol, "weight-col",
		"Weight column, by index or header name. Sampling is uniform when unset.")
	fl.StringVarP(&so.delimiter, "delimiter", "d", `\t`,
		"Field delimiter, a single byte.")
	fl.BoolVar(&so.noHeader, "no-header", false,
		"Treat the first line as data, not as a header row.")
	fl.Uint64Var(&so.seed, "seed", 0,
		"Seed for the random source. The same seed reproduces a run exactly.")
	fl.StringArrayVar(&so.include, "include", nil,
		"Id forced into the sample. May be repeated.")
	fl.StringArrayVar(&so.includeFile, "include-file", nil,
		"File listing one forced id per line. May be repeated.")
	fl.StringArrayVar(&so.exclude, "exclude", nil,
		"Id barred from the sample. May be repeated.")
	fl.StringArrayVar(&so.excludeFile, "exclude-file", nil,
		"File listing one barred id per line. May be repeated.")
	fl.StringVarP(&so.output, "output", "o", "",
		"Write the sample to this file instead of stdout.")
	fl.BoolVar(&so.stats, "stats", false,
		"Print run statistics to stderr afterwards.")
	fl.BoolVar(&so.skipBad, "skip-bad-weights", false,
		"Skip records whose weight does not parse instead of aborting.")
	fl.IntVar(&so.maxLineSize, "max-line-size", 1<<20,
		"Longest accepted input line in bytes.")
	fl.StringVar(&so.compression, "compression", "auto",
		"Input codec: auto, none, gz, zst or sz.")
}

func doSample(cmd *cobra.Command, args []string) error {
	delim, err := parseDelimiter(so.delimiter)
	if err != nil {
		return err
	}
	ct, err := options.ParseCompression(so.compression)
	if err != nil {
		return errors.Wrapf(winnow.ErrInvalidOptions, "%v", err)
	}
	include, err := idList(so.include, so.includeFile)
	if err != nil {
		return err
	}
	exclude, err := idList(so.exclude, so.excludeFile)
	if err != nil {
		return err
	}

	opt := winnow.DefaultOptions(so.file).
		WithSampleCount(so.samples).
		WithIDColumn(so.idCol).
		WithDelimiter(delim).
		WithHeader(!so.noHeader).
		WithInclude(include...).
		WithExclude(exclude...).
		WithSkipBadWeights(so.skipBad).
		WithMaxLineSize(so.maxLineSize).
		WithCompression(ct)
	if so.weightCol.Defined() {
		opt = opt.WithWeightColumn(so.weightCol)
	}
	if cmd.Flags().Changed("seed") {
		opt = opt.WithSeed(so.seed)
	}
	opt = loggingOptions(opt)

	res, err := winnow.Run(context.Background(), opt)
	if err != nil {
		return err
	}
	if so.output != "" {
		err = res.WriteFile(so.output)
	} else {
		err = res.Write(os.Stdout)
	}
	if err != nil {
		return err
	}
	if so.stats {
		res.Stats.Render(os.Stderr)
	}
	return nil
}

// idList merges ids given directly on the command line with ids listed in
// files, one per line.
func idList(ids, files []string) ([]string, error) {
	out := append([]string(nil), ids...)
	for _, path := range files {
		err := y.ReadLines(path, func(line string) {
			out = append(out, line)
		})
		if err != nil {
			return nil, errors.Wrapf(winnow.ErrIO, "read id file: %v", err)
		}
	}
	return out, nil
}
