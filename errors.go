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

package winnow

import "github.com/pkg/errors"

// Every error returned by this package wraps one of the sentinels below, so
// callers can classify a failure with errors.Is without matching message
// text.
var (
	// ErrIO is returned when the input cannot be opened or read, or the
	// output cannot be written.
	ErrIO = errors.New("I/O failure")

	// ErrParse is returned when the input structure does not match
	// expectations, such as a row with the wrong number of fields or a
	// weight that is not a non-negative number.
	ErrParse = errors.New("Malformed input")

	// ErrInvalidSampleCount is returned when the requested sample count is
	// not positive or exceeds the configured maximum. It is raised before
	// any file is read.
	ErrInvalidSampleCount = errors.New("Invalid sample count")

	// ErrInvalidOptions is returned when the options fail validation for a
	// reason other than the sample count.
	ErrInvalidOptions = errors.New("Invalid options")
)

// Exit codes reported by the winnow tool, one per error class.
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitParseError = 3
	ExitIOError    = 4
)

// ExitCode maps an error returned by this package to the tool's exit code.
// Unrecognized errors map to ExitFailure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidSampleCount), errors.Is(err, ErrInvalidOptions):
		return ExitUsage
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrIO):
		return ExitIOError
	}
	return ExitFailure
}
