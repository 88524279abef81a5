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
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/winnow-io/winnow"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:               "winnow",
	Short:             "Tools to sample, inspect and generate delimited record files.",
	PersistentPreRunE: validateRootCmdArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

var (
	verbose bool
	quiet   bool
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once to
// the RootCmd. The process exit code classifies the failure so that shell
// pipelines can tell usage errors, malformed input and I/O trouble apart.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(winnow.ExitCode(err))
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging.")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"Only log errors.")
}

func validateRootCmdArgs(cmd *cobra.Command, args []string) error {
	if strings.HasPrefix(cmd.Use, "help ") { // No need to validate if it is help
		return nil
	}
	if verbose && quiet {
		return errors.New("--verbose and --quiet are mutually exclusive")
	}
	return nil
}

// loggingOptions applies the root logging flags to opt.
func loggingOptions(opt winnow.Options) winnow.Options {
	switch {
	case quiet:
		return opt.WithLoggingLevel(winnow.ERROR)
	case verbose:
		return opt.WithLoggingLevel(winnow.DEBUG)
	}
	return opt
}

// cmdLogger builds a logger honoring the root logging flags, for subcommands
// that do not go through winnow.Options.
func cmdLogger() winnow.Logger {
	switch {
	case quiet:
		return winnow.NewLogger(winnow.ERROR)
	case verbose:
		return winnow.NewLogger(winnow.DEBUG)
	}
	return winnow.NewLogger(winnow.INFO)
}

// parseDelimiter turns a --delimiter argument into the single byte the reader
// splits on. The two-character escape "\t" is accepted because shells make a
// literal tab awkward to type.
func parseDelimiter(s string) (byte, error) {
	if s == `\t` {
		return '\t', nil
	}
	if len(s) != 1 {
		return 0, errors.Wrapf(winnow.ErrInvalidOptions,
			"delimiter must be a single byte, got %q", s)
	}
	return s[0], nil
}
