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
	"fmt"
	"os"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/winnow-io/winnow"
	"github.com/winnow-io/winnow/options"
)

type infoOptions struct {
	file          string
	delimiter     string
	idCol         winnow.Column
	weightCol     winnow.Column
	noHeader      bool
	showHistogram bool
	maxLineSize   int
	compression   string
}

var iopt = infoOptions{
	idCol: winnow.ColumnIndex(0),
}

func init() {
	RootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringVarP(&iopt.file, "file", "f", "",
		"Delimited input file to inspect.")
	infoCmd.Flags().StringVarP(&iopt.delimiter, "delimiter", "d", `\t`,
		"Field delimiter, a single byte.")
	infoCmd.Flags().Var(&iopt.idCol, "id-col",
		"Id column, by index or header name. Defaults to the first column.")
	infoCmd.Flags().Var(&iopt.weightCol, "weight-col",
		"Weight column to check, by index or header name.")
	infoCmd.Flags().BoolVar(&iopt.noHeader, "no-header", false,
		"Treat the first line as data, not as a header row.")
	infoCmd.Flags().BoolVar(&iopt.showHistogram, "histogram", false,
		"Show a histogram of the id and row sizes.")
	infoCmd.Flags().IntVar(&iopt.maxLineSize, "max-line-size", 1<<20,
		"Longest accepted input line in bytes.")
	infoCmd.Flags().StringVar(&iopt.compression, "compression", "auto",
		"Input codec: auto, none, gz, zst or sz.")
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Health info about a delimited input file.",
	Long: `
This command reads the whole file once and prints what a sampling run would
see: record and byte counts, the header, id uniqueness, and the range of the
weight column if one is given. Use it to check a file before sampling from it.
`,
	RunE: handleInfo,
}

func handleInfo(cmd *cobra.Command, args []string) error {
	delim, err := parseDelimiter(iopt.delimiter)
	if err != nil {
		return err
	}
	ct, err := options.ParseCompression(iopt.compression)
	if err != nil {
		return errors.Wrapf(winnow.ErrInvalidOptions, "%v", err)
	}

	opt := winnow.DefaultOptions(iopt.file).
		WithIDColumn(iopt.idCol).
		WithDelimiter(delim).
		WithHeader(!iopt.noHeader).
		WithMaxLineSize(iopt.maxLineSize).
		WithCompression(ct)
	if iopt.weightCol.Defined() {
		opt = opt.WithWeightColumn(iopt.weightCol)
	}
	opt = loggingOptions(opt)

	rep, err := winnow.Inspect(context.Background(), opt, iopt.showHistogram)
	if err != nil {
		return err
	}
	printReport(rep)
	return nil
}

func printReport(rep *winnow.Report) {
	fmt.Printf("%-14s %s\n", "Input:", rep.Path)
	fmt.Printf("%-14s %s (%s", "Records:",
		humanize.Comma(rep.Records), humanize.IBytes(uint64(rep.BytesRead)))
	if rep.BlankLines > 0 {
		fmt.Printf(", %s blank lines skipped", humanize.Comma(rep.BlankLines))
	}
	fmt.Printf(")\n")
	if rep.Header != nil {
		fmt.Printf("%-14s %s\n", "Header:", strings.Join(rep.Header, ", "))
	}
	fmt.Printf("%-14s %d\n", "Columns:", rep.Fields)
	fmt.Printf("%-14s %s", "Distinct ids:", humanize.Comma(rep.DistinctIDs))
	if rep.DuplicateIDs > 0 {
		fmt.Printf(" (%s duplicates)", humanize.Comma(rep.DuplicateIDs))
	}
	fmt.Printf("\n")
	if rep.HasWeights {
		fmt.Printf("%-14s min %g, max %g, sum %g", "Weights:",
			rep.WeightMin, rep.WeightMax, rep.WeightSum)
		if n := rep.Records - rep.BadWeights; n > 0 {
			fmt.Printf(", mean %.4g", rep.WeightSum/float64(n))
		}
		if rep.ZeroWeights > 0 || rep.BadWeights > 0 {
			fmt.Printf(" (%s zero, %s bad)",
				humanize.Comma(rep.ZeroWeights), humanize.Comma(rep.BadWeights))
		}
		fmt.Printf("\n")
	}
	fmt.Printf("%-14s %016x\n", "xxhash64:", rep.Digest)
	if rep.Sizes != nil {
		rep.Sizes.Render(os.Stdout)
	}
}
