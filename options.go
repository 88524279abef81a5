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

import (
	"github.com/pkg/errors"

	"github.com/winnow-io/winnow/options"
)

const (
	// maxSampleCount caps the reservoir size. A heap this large would hold
	// the better part of the address space of most inputs anyway.
	maxSampleCount = 1 << 30

	defaultMaxLineSize = 1 << 20
)

// Options are params for creating a sampling run.
//
// This package provides DefaultOptions which contains options that should
// work for most applications. Consider using that as a starting point before
// customizing it for your own needs.
type Options struct {
	// InputPath is the delimited text file to sample from.
	InputPath string

	// SampleCount is the number of records to select.
	SampleCount int

	// IDColumn selects the identifier column.
	IDColumn Column

	// WeightColumn selects the weight column. When undefined every record
	// weighs 1.
	WeightColumn Column

	// Delimiter separates fields within a row.
	Delimiter byte

	// Header states whether the first line of the input is a header row.
	Header bool

	// Include lists ids that are forced into the sample.
	Include []string

	// Exclude lists ids that never enter the sample.
	Exclude []string

	// SkipBadWeights skips records whose weight does not parse instead of
	// aborting the run.
	SkipBadWeights bool

	// MaxLineSize bounds the length of a single input line in bytes.
	MaxLineSize int

	// Compression names the codec of the input stream.
	Compression options.CompressionType

	// Digest computes an xxhash64 digest of the uncompressed input bytes as
	// a side effect of reading.
	Digest bool

	// MetricsEnabled feeds the package level expvar metrics.
	MetricsEnabled bool

	// EventLogging publishes a trace event log for each run on
	// /debug/events.
	EventLogging bool

	// Logger receives the run's log output.
	Logger Logger

	// Seed fixes the random source. Zero is a valid seed; WithSeed records
	// that a seed was given at all.
	Seed    uint64
	seedSet bool
}

// DefaultOptions sets a list of safe options for sampling path. Each option
// can be tweaked with a WithX method.
func DefaultOptions(path string) Options {
	return Options{
		InputPath:      path,
		SampleCount:    1,
		IDColumn:       ColumnIndex(0),
		Delimiter:      '\t',
		Header:         true,
		MaxLineSize:    defaultMaxLineSize,
		Compression:    options.Auto,
		MetricsEnabled: true,
		EventLogging:   true,
		Logger:         defaultLogger(INFO),
	}
}

// WithSampleCount returns a new Options value with SampleCount set to n.
//
// SampleCount is the number of records drawn from the input. Fewer records
// come back when the eligible population is smaller than n, which is not an
// error. The default value of SampleCount is 1.
func (opt Options) WithSampleCount(n int) Options {
	opt.SampleCount = n
	return opt
}

// WithIDColumn returns a new Options value with IDColumn set to c.
//
// The id column supplies the identifier matched against the include and
// exclude lists. The default is the first column.
func (opt Options) WithIDColumn(c Column) Options {
	opt.IDColumn = c
	return opt
}

// WithWeightColumn returns a new Options value with WeightColumn set to c.
//
// The weight column supplies the sampling weight, which must parse as a
// finite number >= 0. When no weight column is set, every record weighs 1
// and the sample is uniform. There is no default.
func (opt Options) WithWeightColumn(c Column) Options {
	opt.WeightColumn = c
	return opt
}

// WithDelimiter returns a new Options value with Delimiter set to d.
//
// The default value of Delimiter is '\t'.
func (opt Options) WithDelimiter(d byte) Options {
	opt.Delimiter = d
	return opt
}

// WithHeader returns a new Options value with Header set to b.
//
// When Header is true the first line of the input names the columns, is
// never sampled, and is repeated at the top of the output. The default value
// of Header is true.
func (opt Options) WithHeader(b bool) Options {
	opt.Header = b
	return opt
}

// WithInclude returns a new Options value with ids appended to Include.
//
// Included records appear in the output regardless of their weight, even a
// weight of zero, unless the same id is also excluded.
func (opt Options) WithInclude(ids ...string) Options {
	opt.Include = append(opt.Include, ids...)
	return opt
}

// WithExclude returns a new Options value with ids appended to Exclude.
//
// Excluded records never appear in the output. Exclusion wins over inclusion
// when an id is on both lists.
func (opt Options) WithExclude(ids ...string) Options {
	opt.Exclude = append(opt.Exclude, ids...)
	return opt
}

// WithSeed returns a new Options value with Seed set to seed.
//
// Runs with the same seed over the same input produce identical output. By
// default each run derives a fresh seed from the clock and process id.
func (opt Options) WithSeed(seed uint64) Options {
	opt.Seed = seed
	opt.seedSet = true
	return opt
}

// WithSkipBadWeights returns a new Options value with SkipBadWeights set to b.
//
// By default a weight that does not parse as a finite number >= 0 aborts the
// run, since silently dropping records could bias the sample. With b true
// such records are skipped with a warning instead. The default value of
// SkipBadWeights is false.
func (opt Options) WithSkipBadWeights(b bool) Options {
	opt.SkipBadWeights = b
	return opt
}

// WithMaxLineSize returns a new Options value with MaxLineSize set to n.
//
// Lines longer than n bytes abort the run with a parse failure. The default
// value of MaxLineSize is 1MB.
func (opt Options) WithMaxLineSize(n int) Options {
	opt.MaxLineSize = n
	return opt
}

// WithCompression returns a new Options value with Compression set to ct.
//
// The default value of Compression is options.Auto, which picks the codec
// from the file extension.
func (opt Options) WithCompression(ct options.CompressionType) Options {
	opt.Compression = ct
	return opt
}

// WithDigest returns a new Options value with Digest set to b.
//
// The default value of Digest is false.
func (opt Options) WithDigest(b bool) Options {
	opt.Digest = b
	return opt
}

// WithMetricsEnabled returns a new Options value with MetricsEnabled set to b.
//
// The default value of MetricsEnabled is true.
func (opt Options) WithMetricsEnabled(b bool) Options {
	opt.MetricsEnabled = b
	return opt
}

// WithEventLogging returns a new Options value with EventLogging set to b.
//
// The default value of EventLogging is true.
func (opt Options) WithEventLogging(b bool) Options {
	opt.EventLogging = b
	return opt
}

// WithLogger returns a new Options value with Logger set to l.
//
// The default logger writes to stderr at the INFO level.
func (opt Options) WithLogger(l Logger) Options {
	opt.Logger = l
	return opt
}

// WithLoggingLevel returns a new Options value with a default logger
// filtered to the given level.
func (opt Options) WithLoggingLevel(level loggingLevel) Options {
	opt.Logger = defaultLogger(level)
	return opt
}

// Validate checks opt for contradictions. It runs before the input file is
// touched, so an invalid sample count fails fast even on an unreadable file.
func (opt *Options) Validate() error {
	if opt.SampleCount <= 0 {
		return errors.Wrapf(ErrInvalidSampleCount, "sample count must be positive, got %d", opt.SampleCount)
	}
	if opt.SampleCount > maxSampleCount {
		return errors.Wrapf(ErrInvalidSampleCount, "sample count %d exceeds limit %d", opt.SampleCount, maxSampleCount)
	}
	if opt.InputPath == "" {
		return errors.Wrap(ErrInvalidOptions, "no input path")
	}
	if opt.Delimiter == 0 {
		return errors.Wrap(ErrInvalidOptions, "no delimiter")
	}
	if opt.Delimiter == '\n' || opt.Delimiter == '\r' {
		return errors.Wrap(ErrInvalidOptions, "delimiter cannot be a line break")
	}
	if opt.MaxLineSize <= 0 {
		return errors.Wrapf(ErrInvalidOptions, "max line size must be positive, got %d", opt.MaxLineSize)
	}
	return nil
}
