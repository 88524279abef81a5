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
	"context"
	"math"

	"github.com/cespare/xxhash"
)

// Report describes the structure of an input without sampling it.
type Report struct {
	Path string
	// Records counts data rows; BlankLines and the header are not included.
	Records    int64
	BytesRead  int64
	BlankLines int64
	// Fields is the row width.
	Fields int
	// Header is the parsed header row, nil without one.
	Header []string
	// DistinctIDs and DuplicateIDs partition the id column. Distinctness is
	// tracked by 64 bit id hashes, so the split is approximate on inputs
	// with colliding hashes.
	DistinctIDs  int64
	DuplicateIDs int64
	// HasWeights is true when a weight column was configured. The weight
	// fields below are only meaningful then. Unparseable weights are
	// counted, not fatal, since this is a diagnostic pass.
	HasWeights  bool
	WeightMin   float64
	WeightMax   float64
	WeightSum   float64
	ZeroWeights int64
	BadWeights  int64
	// Digest is the xxhash64 of the uncompressed input bytes.
	Digest uint64
	// Sizes holds id and row size histograms when requested.
	Sizes *SizeHistogram
}

// Inspect reads the input named by opt once and reports on its shape:
// row and column counts, id duplication, weight range, and a content digest.
// With histogram set it also collects id and row size histograms.
func Inspect(ctx context.Context, opt Options, histogram bool) (*Report, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	opt.Digest = true

	rd, err := NewReader(opt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rd.Close() }()

	rep := &Report{
		Path:       opt.InputPath,
		Header:     rd.Header(),
		HasWeights: rd.WeightIndex() >= 0,
		WeightMin:  math.Inf(1),
		WeightMax:  math.Inf(-1),
	}
	if histogram {
		rep.Sizes = NewSizeHistogram()
	}

	seen := make(map[uint64]struct{})
	weightIdx := rd.WeightIndex()
	for rd.Next() {
		rec := rd.Record()
		rep.Records++
		rep.Fields = len(rec.Fields)

		h := xxhash.Sum64String(rec.ID)
		if _, ok := seen[h]; ok {
			rep.DuplicateIDs++
		} else {
			seen[h] = struct{}{}
		}

		if weightIdx >= 0 {
			w, werr := parseWeight(rec.Fields[weightIdx])
			switch {
			case werr != nil:
				rep.BadWeights++
			case w == 0:
				rep.ZeroWeights++
				fallthrough
			default:
				rep.WeightMin = math.Min(rep.WeightMin, w)
				rep.WeightMax = math.Max(rep.WeightMax, w)
				rep.WeightSum += w
			}
		}
		if rep.Sizes != nil {
			rep.Sizes.Update(rec)
		}

		if rep.Records%ctxCheckEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}

	rep.DistinctIDs = int64(len(seen))
	rep.BytesRead = rd.BytesRead()
	rep.BlankLines = rd.BlankLines()
	if math.IsInf(rep.WeightMin, 1) {
		// No weight parsed at all.
		rep.WeightMin, rep.WeightMax = 0, 0
	}
	rep.Digest, _ = rd.Digest()
	return rep, nil
}
