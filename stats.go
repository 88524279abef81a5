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
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dgraph-io/ristretto/z"
	"github.com/dustin/go-humanize"
)

// Stats summarizes one sampling run.
type Stats struct {
	// RecordsRead counts the data rows parsed, blank lines and the header
	// excluded.
	RecordsRead int64
	// BytesRead counts uncompressed input bytes.
	BytesRead int64
	// BlankLines counts skipped blank lines.
	BlankLines int64
	// Excluded counts records dropped by the exclusion list.
	Excluded int64
	// Forced counts distinct force-included ids in the output.
	Forced int64
	// Offered counts records that reached the sampler.
	Offered int64
	// SkippedWeights counts records dropped for an unparseable weight under
	// SkipBadWeights.
	SkippedWeights int64
	// ZeroWeights counts offered records with a weight of zero.
	ZeroWeights int64
	// Evictions counts reservoir displacements.
	Evictions int64
	// Selected is the size of the final output.
	Selected int
	// WeightMin, WeightMax and WeightSum describe the weights of offered
	// records. Min and max are zero when nothing was offered.
	WeightMin float64
	WeightMax float64
	WeightSum float64
	// Elapsed is the wall clock duration of the run.
	Elapsed time.Duration
}

func (s *Stats) observeWeight(w float64) {
	if s.Offered == 0 {
		s.WeightMin = w
		s.WeightMax = w
	} else {
		s.WeightMin = math.Min(s.WeightMin, w)
		s.WeightMax = math.Max(s.WeightMax, w)
	}
	s.WeightSum += w
	s.Offered++
}

// Render writes a human readable summary of s to w.
func (s *Stats) Render(w io.Writer) {
	fmt.Fprintf(w, "records read:    %s\n", humanize.Comma(s.RecordsRead))
	fmt.Fprintf(w, "bytes read:      %s\n", humanize.IBytes(uint64(s.BytesRead)))
	fmt.Fprintf(w, "blank lines:     %s\n", humanize.Comma(s.BlankLines))
	fmt.Fprintf(w, "excluded:        %s\n", humanize.Comma(s.Excluded))
	fmt.Fprintf(w, "forced:          %s\n", humanize.Comma(s.Forced))
	fmt.Fprintf(w, "offered:         %s\n", humanize.Comma(s.Offered))
	fmt.Fprintf(w, "skipped weights: %s\n", humanize.Comma(s.SkippedWeights))
	fmt.Fprintf(w, "zero weights:    %s\n", humanize.Comma(s.ZeroWeights))
	fmt.Fprintf(w, "heap evictions:  %s\n", humanize.Comma(s.Evictions))
	fmt.Fprintf(w, "selected:        %s\n", humanize.Comma(int64(s.Selected)))
	fmt.Fprintf(w, "weight min/max:  %g / %g\n", s.WeightMin, s.WeightMax)
	fmt.Fprintf(w, "weight sum:      %g\n", s.WeightSum)
	fmt.Fprintf(w, "elapsed:         %s\n", s.Elapsed.Round(time.Millisecond))
}

// SizeHistogram tracks the sizes of ids and whole rows on an input, in
// bytes.
type SizeHistogram struct {
	ID  *z.HistogramData
	Row *z.HistogramData
}

// NewSizeHistogram returns an empty histogram pair. Id buckets cover up to
// 64KiB, row buckets up to 16MiB.
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{
		ID:  z.NewHistogramData(z.HistogramBounds(0, 16)),
		Row: z.NewHistogramData(z.HistogramBounds(0, 24)),
	}
}

// Update feeds one record into the histograms.
func (h *SizeHistogram) Update(rec Record) {
	h.ID.Update(int64(len(rec.ID)))
	h.Row.Update(int64(len(rec.Line)))
}

// Render writes both histograms to w.
func (h *SizeHistogram) Render(w io.Writer) {
	fmt.Fprintf(w, "Histogram of id sizes (in bytes)%s\n", h.ID.String())
	fmt.Fprintf(w, "Histogram of row sizes (in bytes)%s\n", h.Row.String())
}
