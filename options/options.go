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

// Package options holds shared option types used across winnow. They live in
// their own package so that both the library and the command line tool can
// refer to them without import cycles.
package options

import (
	"path/filepath"

	"github.com/pkg/errors"
)

// CompressionType specifies how an input or output stream is compressed.
type CompressionType uint32

const (
	// Auto picks a codec from the file extension (".gz", ".zst", ".sz")
	// and falls back to None for anything else.
	Auto CompressionType = iota
	// None reads and writes plain bytes.
	None
	// Gzip uses the gzip framing.
	Gzip
	// ZSTD uses the zstd framing.
	ZSTD
	// Snappy uses the snappy stream framing.
	Snappy
)

func (t CompressionType) String() string {
	switch t {
	case Auto:
		return "auto"
	case None:
		return "none"
	case Gzip:
		return "gz"
	case ZSTD:
		return "zst"
	case Snappy:
		return "sz"
	}
	return "unknown"
}

// ForPath picks the CompressionType matching the extension of path, None
// when the extension names no known codec.
func ForPath(path string) CompressionType {
	switch filepath.Ext(path) {
	case ".gz":
		return Gzip
	case ".zst":
		return ZSTD
	case ".sz":
		return Snappy
	}
	return None
}

// ParseCompression maps a user supplied name to a CompressionType. Both the
// short extension form ("gz") and the long form ("gzip") are accepted.
func ParseCompression(s string) (CompressionType, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "none", "plain":
		return None, nil
	case "gz", "gzip":
		return Gzip, nil
	case "zst", "zstd":
		return ZSTD, nil
	case "sz", "snappy":
		return Snappy, nil
	}
	return Auto, errors.Errorf("invalid compression type: %q", s)
}
