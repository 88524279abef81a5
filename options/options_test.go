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

package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want CompressionType
		ok   bool
	}{
		{"", Auto, true},
		{"auto", Auto, true},
		{"none", None, true},
		{"plain", None, true},
		{"gz", Gzip, true},
		{"gzip", Gzip, true},
		{"zst", ZSTD, true},
		{"zstd", ZSTD, true},
		{"sz", Snappy, true},
		{"snappy", Snappy, true},
		{"lz4", Auto, false},
		{"GZ", Auto, false},
	}
	for _, tt := range tests {
		ct, err := ParseCompression(tt.in)
		if !tt.ok {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, ct, "input %q", tt.in)
	}
}

func TestForPath(t *testing.T) {
	require.Equal(t, Gzip, ForPath("data/tips.tsv.gz"))
	require.Equal(t, ZSTD, ForPath("tips.tsv.zst"))
	require.Equal(t, Snappy, ForPath("tips.tsv.sz"))
	require.Equal(t, None, ForPath("tips.tsv"))
	require.Equal(t, None, ForPath("archive.tar"))
}

func TestCompressionString(t *testing.T) {
	require.Equal(t, "auto", Auto.String())
	require.Equal(t, "none", None.String())
	require.Equal(t, "gz", Gzip.String())
	require.Equal(t, "zst", ZSTD.String())
	require.Equal(t, "sz", Snappy.String())
	require.Equal(t, "unknown", CompressionType(99).String())
}
