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
	"bufio"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/winnow-io/winnow/options"
	"github.com/winnow-io/winnow/y"
)

// Reader produces a forward-only sequence of records from a delimited text
// file. It transparently decompresses gzip, zstd and snappy inputs, skips
// blank lines, and verifies that every row has the same number of fields.
//
// The usual loop is
//
//	rd, err := NewReader(opt)
//	...
//	for rd.Next() {
//		rec := rd.Record()
//		...
//	}
//	err = rd.Err()
type Reader struct {
	opt      Options
	src      io.ReadCloser
	scanner  *bufio.Scanner
	counting *countingReader
	digest   hash.Hash64
	delim    string

	header     []string
	headerLine string
	hasHeader  bool

	idIdx      int
	weightIdx  int
	fieldCount int

	rec        Record
	pos        int
	lineNo     int
	blankLines int64
	err        error
}

// NewReader opens the input named by opt, reads the header if one is
// expected, and resolves the id and weight columns against it. Fails with
// ErrIO when the file cannot be opened and ErrParse when a named column does
// not exist.
func NewReader(opt Options) (*Reader, error) {
	src, err := openInput(opt.InputPath, opt.Compression)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		opt:       opt,
		src:       src,
		delim:     string([]byte{opt.Delimiter}),
		idIdx:     -1,
		weightIdx: -1,
	}

	var in io.Reader = src
	r.counting = &countingReader{r: in}
	in = r.counting
	if opt.Digest {
		r.digest = xxhash.New()
		in = io.TeeReader(in, r.digest)
	}

	r.scanner = bufio.NewScanner(in)
	initial := 64 << 10
	if initial > opt.MaxLineSize {
		initial = opt.MaxLineSize
	}
	r.scanner.Buffer(make([]byte, 0, initial), opt.MaxLineSize)

	if opt.Header {
		if err := r.readHeader(); err != nil {
			_ = src.Close()
			return nil, err
		}
	}
	if err := r.resolveColumns(); err != nil {
		_ = src.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeader() error {
	if !r.scanner.Scan() {
		// An empty input has no header, which is fine. It also has no
		// records.
		return r.scanErr()
	}
	r.lineNo++
	r.headerLine = trimBOM(r.scanner.Text())
	r.header = strings.Split(r.headerLine, r.delim)
	r.hasHeader = true
	r.fieldCount = len(r.header)
	return nil
}

func (r *Reader) resolveColumns() error {
	idIdx, err := r.opt.IDColumn.resolve(r.header)
	if err != nil {
		return err
	}
	if idIdx < 0 {
		idIdx = 0
	}
	r.idIdx = idIdx

	r.weightIdx, err = r.opt.WeightColumn.resolve(r.header)
	if err != nil {
		return err
	}
	if r.fieldCount > 0 {
		return r.checkIndexes()
	}
	return nil
}

// checkIndexes runs once the row width is known, either from the header or
// from the first data row.
func (r *Reader) checkIndexes() error {
	if r.idIdx >= r.fieldCount {
		return errors.Wrapf(ErrParse, "%s: id column %d out of range, rows have %d fields",
			r.opt.InputPath, r.idIdx, r.fieldCount)
	}
	if r.weightIdx >= r.fieldCount {
		return errors.Wrapf(ErrParse, "%s: weight column %d out of range, rows have %d fields",
			r.opt.InputPath, r.weightIdx, r.fieldCount)
	}
	return nil
}

// Next advances to the next data record. It returns false at the end of the
// input or on the first failure, which Err reports.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for r.scanner.Scan() {
		r.lineNo++
		line := r.scanner.Text()
		if r.lineNo == 1 {
			line = trimBOM(line)
		}
		if len(line) == 0 {
			r.blankLines++
			continue
		}
		fields := strings.Split(line, r.delim)
		if r.fieldCount == 0 {
			// Headerless input. The first data row fixes the width.
			r.fieldCount = len(fields)
			if err := r.checkIndexes(); err != nil {
				r.err = err
				return false
			}
		} else if len(fields) != r.fieldCount {
			r.err = errors.Wrapf(ErrParse, "%s: line %d: row has %d fields, want %d",
				r.opt.InputPath, r.lineNo, len(fields), r.fieldCount)
			return false
		}
		r.rec = Record{
			ID:     fields[r.idIdx],
			Fields: fields,
			Line:   line,
			Pos:    r.pos,
		}
		r.pos++
		return true
	}
	r.err = r.scanErr()
	return false
}

func (r *Reader) scanErr() error {
	err := r.scanner.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bufio.ErrTooLong):
		return errors.Wrapf(ErrParse, "%s: line %d exceeds the %d byte line limit",
			r.opt.InputPath, r.lineNo+1, r.opt.MaxLineSize)
	}
	return errors.Wrapf(ErrIO, "read %s: %v", r.opt.InputPath, err)
}

// Record returns the current record. Valid only after a true Next.
func (r *Reader) Record() Record {
	return r.rec
}

// Err returns the first failure encountered, or nil after a clean end of
// input.
func (r *Reader) Err() error {
	return r.err
}

// Header returns the parsed header row, or nil if the input has none.
func (r *Reader) Header() []string {
	return r.header
}

// HeaderLine returns the raw header line. The second return is false when no
// header line was read.
func (r *Reader) HeaderLine() (string, bool) {
	return r.headerLine, r.hasHeader
}

// WeightIndex returns the resolved weight column index, or -1 when no weight
// column is configured.
func (r *Reader) WeightIndex() int {
	return r.weightIdx
}

// LineNo returns the physical line number of the current record, counting
// from 1 and including the header and any blank lines.
func (r *Reader) LineNo() int {
	return r.lineNo
}

// BytesRead returns the number of uncompressed bytes consumed so far.
func (r *Reader) BytesRead() int64 {
	return r.counting.n
}

// BlankLines returns the number of blank lines skipped so far.
func (r *Reader) BlankLines() int64 {
	return r.blankLines
}

// Digest returns the xxhash64 of the uncompressed bytes consumed so far. The
// second return is false when digesting was not enabled. The digest covers
// the whole input only once the reader is exhausted.
func (r *Reader) Digest() (uint64, bool) {
	if r.digest == nil {
		return 0, false
	}
	return r.digest.Sum64(), true
}

// Close releases the underlying file and any decompressor on top of it.
func (r *Reader) Close() error {
	if err := r.src.Close(); err != nil {
		return errors.Wrapf(ErrIO, "close %s: %v", r.opt.InputPath, err)
	}
	return nil
}

func trimBOM(line string) string {
	return strings.TrimPrefix(line, "\ufeff")
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// layeredCloser reads from the top of a decompression stack and closes every
// layer, innermost last.
type layeredCloser struct {
	io.Reader
	closers []io.Closer
}

func (lc *layeredCloser) Close() error {
	var err error
	for _, c := range lc.closers {
		err = y.CombineErrors(err, c.Close())
	}
	return err
}

func openInput(path string, ct options.CompressionType) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "open %s: %v", path, err)
	}
	if ct == options.Auto {
		ct = options.ForPath(path)
	}
	switch ct {
	case options.Gzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(ErrParse, "%s: not a gzip stream: %v", path, err)
		}
		return &layeredCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case options.ZSTD:
		zr, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(ErrParse, "%s: not a zstd stream: %v", path, err)
		}
		rc := zr.IOReadCloser()
		return &layeredCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	case options.Snappy:
		return &layeredCloser{Reader: snappy.NewReader(f), closers: []io.Closer{f}}, nil
	}
	return f, nil
}
