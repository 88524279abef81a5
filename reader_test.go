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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/winnow-io/winnow/options"
)

func removeDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		panic(err)
	}
}

// createInput writes content to a file under dir and returns its path.
func createInput(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

// drain reads every record and requires a clean end of input.
func drain(t *testing.T, rd *Reader) []Record {
	var recs []Record
	for rd.Next() {
		recs = append(recs, rd.Record())
	}
	require.NoError(t, rd.Err())
	return recs
}

func TestReaderBasic(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	content := "id\tweight\nrow1\t1.5\nrow2\t2\nrow3\t0\n"
	path := createInput(t, dir, "in.tsv", content)
	rd, err := NewReader(DefaultOptions(path))
	require.NoError(t, err)
	defer func() { require.NoError(t, rd.Close()) }()

	require.Equal(t, []string{"id", "weight"}, rd.Header())
	hl, ok := rd.HeaderLine()
	require.True(t, ok)
	require.Equal(t, "id\tweight", hl)

	require.True(t, rd.Next())
	rec := rd.Record()
	require.Equal(t, "row1", rec.ID)
	require.Equal(t, []string{"row1", "1.5"}, rec.Fields)
	require.Equal(t, "row1\t1.5", rec.Line)
	require.Equal(t, 0, rec.Pos)
	require.Equal(t, 2, rd.LineNo())

	recs := drain(t, rd)
	require.Len(t, recs, 2)
	require.Equal(t, "row2", recs[0].ID)
	require.Equal(t, 1, recs[0].Pos)
	require.Equal(t, "row3", recs[1].ID)
	require.Equal(t, 2, recs[1].Pos)
	require.Equal(t, int64(len(content)), rd.BytesRead())
}

func TestReaderNamedColumns(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "in.tsv",
		"name\tscore\tweight\nalpha\t10\t1\nbeta\t20\t2\n")

	opt := DefaultOptions(path).
		WithIDColumn(ColumnNamed("name")).
		WithWeightColumn(ColumnNamed("weight"))
	rd, err := NewReader(opt)
	require.NoError(t, err)
	defer rd.Close()

	require.Equal(t, 2, rd.WeightIndex())
	recs := drain(t, rd)
	require.Equal(t, "alpha", recs[0].ID)
	require.Equal(t, "beta", recs[1].ID)

	// A name missing from the header fails at open time.
	_, err = NewReader(DefaultOptions(path).WithIDColumn(ColumnNamed("nope")))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrParse))
	require.Contains(t, err.Error(), "not found")
}

func TestReaderNamedColumnWithoutHeader(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "in.tsv", "alpha\t1\n")
	opt := DefaultOptions(path).
		WithHeader(false).
		WithWeightColumn(ColumnNamed("weight"))
	_, err = NewReader(opt)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrParse))
	require.Contains(t, err.Error(), "without a header")
}

func TestReaderHeaderless(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "in.tsv", "alpha\t1\nbeta\t2\n")
	rd, err := NewReader(DefaultOptions(path).WithHeader(false))
	require.NoError(t, err)
	defer rd.Close()

	require.Nil(t, rd.Header())
	_, ok := rd.HeaderLine()
	require.False(t, ok)

	recs := drain(t, rd)
	require.Len(t, recs, 2)
	require.Equal(t, "alpha", recs[0].ID)
	require.Equal(t, 0, recs[0].Pos)

	// The first data row fixes the width, so an out of range weight column
	// is caught on that row.
	opt := DefaultOptions(path).
		WithHeader(false).
		WithWeightColumn(ColumnIndex(5))
	rd, err = NewReader(opt)
	require.NoError(t, err)
	defer rd.Close()
	require.False(t, rd.Next())
	require.Error(t, rd.Err())
	require.True(t, errors.Is(rd.Err(), ErrParse))
	require.Contains(t, rd.Err().Error(), "out of range")
}

func TestReaderWidthMismatch(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "in.tsv",
		"id\tweight\nrow1\t1\nrow2\t2\textra\n")
	rd, err := NewReader(DefaultOptions(path))
	require.NoError(t, err)
	defer rd.Close()

	require.True(t, rd.Next())
	require.False(t, rd.Next())
	err = rd.Err()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrParse))
	require.Contains(t, err.Error(), "line 3")
	require.Contains(t, err.Error(), "want 2")
}

func TestReaderBlankLines(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "in.tsv",
		"id\tweight\n\nrow1\t1\n\n\nrow2\t2\n")
	rd, err := NewReader(DefaultOptions(path))
	require.NoError(t, err)
	defer rd.Close()

	recs := drain(t, rd)
	require.Len(t, recs, 2)
	// Positions stay contiguous across skipped lines.
	require.Equal(t, 0, recs[0].Pos)
	require.Equal(t, 1, recs[1].Pos)
	require.Equal(t, int64(3), rd.BlankLines())
}

func TestReaderBOM(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "bom.tsv", "﻿id\tweight\nrow1\t1\n")
	rd, err := NewReader(DefaultOptions(path))
	require.NoError(t, err)
	defer rd.Close()
	require.Equal(t, []string{"id", "weight"}, rd.Header())

	// Headerless, the BOM sits on the first data line.
	path = createInput(t, dir, "bom2.tsv", "﻿row1\t1\nrow2\t2\n")
	rd, err = NewReader(DefaultOptions(path).WithHeader(false))
	require.NoError(t, err)
	defer rd.Close()
	recs := drain(t, rd)
	require.Equal(t, "row1", recs[0].ID)
}

func TestReaderMaxLineSize(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	long := strings.Repeat("x", 200)
	path := createInput(t, dir, "in.tsv", "id\tweight\n"+long+"\t1\n")
	rd, err := NewReader(DefaultOptions(path).WithMaxLineSize(64))
	require.NoError(t, err)
	defer rd.Close()

	require.False(t, rd.Next())
	err = rd.Err()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrParse))
	require.Contains(t, err.Error(), "line 2 exceeds the 64 byte line limit")
}

func TestReaderMissingFile(t *testing.T) {
	_, err := NewReader(DefaultOptions("/does/not/exist.tsv"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrIO))
}

func TestReaderCompression(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	content := "id\tweight\nrow1\t1\nrow2\t2\n"

	write := func(name string, compress func(f *os.File)) string {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		compress(f)
		require.NoError(t, f.Close())
		return path
	}

	gzPath := write("in.tsv.gz", func(f *os.File) {
		zw := gzip.NewWriter(f)
		_, err := zw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	})
	zstPath := write("in.tsv.zst", func(f *os.File) {
		zw, err := zstd.NewWriter(f)
		require.NoError(t, err)
		_, err = zw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	})
	szPath := write("in.tsv.sz", func(f *os.File) {
		sw := snappy.NewBufferedWriter(f)
		_, err := sw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, sw.Close())
	})

	for _, path := range []string{gzPath, zstPath, szPath} {
		rd, err := NewReader(DefaultOptions(path))
		require.NoError(t, err, "open %s", path)
		recs := drain(t, rd)
		require.Len(t, recs, 2, "records in %s", path)
		require.Equal(t, "row1", recs[0].ID)
		require.Equal(t, "row2", recs[1].ID)
		require.NoError(t, rd.Close())
	}

	// An explicit codec overrides the extension.
	odd := filepath.Join(dir, "in.dat")
	require.NoError(t, os.Link(gzPath, odd))
	rd, err := NewReader(DefaultOptions(odd).WithCompression(options.Gzip))
	require.NoError(t, err)
	recs := drain(t, rd)
	require.Len(t, recs, 2)
	require.NoError(t, rd.Close())

	// Plain text wearing a .gz extension is rejected up front.
	fake := createInput(t, dir, "fake.tsv.gz", content)
	_, err = NewReader(DefaultOptions(fake))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrParse))
	require.Contains(t, err.Error(), "not a gzip stream")
}

func TestReaderDigest(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	content := "id\tweight\nrow1\t1\nrow2\t2\n"
	path := createInput(t, dir, "in.tsv", content)

	rd, err := NewReader(DefaultOptions(path).WithDigest(true))
	require.NoError(t, err)
	defer rd.Close()
	drain(t, rd)

	sum, ok := rd.Digest()
	require.True(t, ok)
	require.Equal(t, xxhash.Sum64([]byte(content)), sum)

	// The digest covers the uncompressed bytes, so the compressed variant
	// of the same content hashes identically.
	gzPath := filepath.Join(dir, "in.tsv.gz")
	f, err := os.Create(gzPath)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	rd, err = NewReader(DefaultOptions(gzPath).WithDigest(true))
	require.NoError(t, err)
	defer rd.Close()
	drain(t, rd)
	gzSum, ok := rd.Digest()
	require.True(t, ok)
	require.Equal(t, sum, gzSum)

	// Off by default.
	rd, err = NewReader(DefaultOptions(path))
	require.NoError(t, err)
	defer rd.Close()
	_, ok = rd.Digest()
	require.False(t, ok)
}

func TestReaderEmptyFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "empty.tsv", "")
	rd, err := NewReader(DefaultOptions(path))
	require.NoError(t, err)
	defer rd.Close()

	_, ok := rd.HeaderLine()
	require.False(t, ok)
	require.False(t, rd.Next())
	require.NoError(t, rd.Err())
}

func TestReaderNoTrailingNewline(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "in.tsv", "id\tweight\nrow1\t1")
	rd, err := NewReader(DefaultOptions(path))
	require.NoError(t, err)
	defer rd.Close()

	recs := drain(t, rd)
	require.Len(t, recs, 1)
	require.Equal(t, "row1\t1", recs[0].Line)
}

func TestReaderCommaDelimiter(t *testing.T) {
	dir, err := ioutil.TempDir("", "winnow-test")
	require.NoError(t, err)
	defer removeDir(dir)

	path := createInput(t, dir, "in.csv", "id,weight\nrow1,1\n")
	rd, err := NewReader(DefaultOptions(path).WithDelimiter(','))
	require.NoError(t, err)
	defer rd.Close()

	require.Equal(t, []string{"id", "weight"}, rd.Header())
	recs := drain(t, rd)
	require.Equal(t, []string{"row1", "1"}, recs[0].Fields)
}
