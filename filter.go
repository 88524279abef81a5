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
	"math"
	"strconv"

	"github.com/pkg/errors"
)

type routeDecision int

const (
	// routeExcluded records never reach the output.
	routeExcluded routeDecision = iota
	// routeForced records bypass the sampler and always reach the output.
	routeForced
	// routeSampled records compete for a reservoir slot.
	routeSampled
	// routeSkipped records were dropped for a bad weight under
	// SkipBadWeights.
	routeSkipped
)

// forcedEntry is a force-included record. Duplicate ids collapse onto one
// entry that keeps the content of the last occurrence and the position of
// the first.
type forcedEntry struct {
	rec      Record
	firstPos int
}

// filter routes records around or into the sampler. Weight parsing happens
// here rather than in the reader so that excluded and forced records never
// trip a weight error; their weight is never used.
type filter struct {
	opt       *Options
	include   map[string]struct{}
	exclude   map[string]struct{}
	weightIdx int

	forced    []forcedEntry
	forcedIdx map[string]int
}

func newFilter(opt *Options, weightIdx int) *filter {
	f := &filter{
		opt:       opt,
		include:   make(map[string]struct{}, len(opt.Include)),
		exclude:   make(map[string]struct{}, len(opt.Exclude)),
		weightIdx: weightIdx,
		forcedIdx: make(map[string]int),
	}
	for _, id := range opt.Include {
		f.include[id] = struct{}{}
	}
	for _, id := range opt.Exclude {
		f.exclude[id] = struct{}{}
		if _, ok := f.include[id]; ok {
			opt.Warningf("id %q is both included and excluded, exclusion wins", id)
		}
	}
	return f
}

// route decides what happens to rec. On routeSampled the returned record
// carries its parsed weight. lineNo names the record's physical line in
// failure messages.
func (f *filter) route(rec Record, lineNo int) (Record, routeDecision, error) {
	if _, ok := f.exclude[rec.ID]; ok {
		return rec, routeExcluded, nil
	}
	if _, ok := f.include[rec.ID]; ok {
		f.addForced(rec)
		return rec, routeForced, nil
	}

	weight := 1.0
	if f.weightIdx >= 0 {
		var err error
		weight, err = parseWeight(rec.Fields[f.weightIdx])
		if err != nil {
			if f.opt.SkipBadWeights {
				f.opt.Warningf("%s: line %d: skipping record %q: %v",
					f.opt.InputPath, lineNo, rec.ID, err)
				return rec, routeSkipped, nil
			}
			return rec, routeExcluded, errors.Wrapf(ErrParse, "%s: line %d: record %q: %v",
				f.opt.InputPath, lineNo, rec.ID, err)
		}
	}
	rec.Weight = weight
	return rec, routeSampled, nil
}

func (f *filter) addForced(rec Record) {
	if i, ok := f.forcedIdx[rec.ID]; ok {
		// Last occurrence wins, first appearance keeps the slot.
		f.forced[i].rec = rec
		return
	}
	f.forcedIdx[rec.ID] = len(f.forced)
	f.forced = append(f.forced, forcedEntry{rec: rec, firstPos: rec.Pos})
}

// forcedEntries returns the forced records in order of first appearance.
func (f *filter) forcedEntries() []forcedEntry {
	return f.forced
}

// parseWeight accepts exactly the finite numbers >= 0.
func parseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("weight %q is not a number", s)
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, errors.Errorf("weight %q is not finite", s)
	}
	if w < 0 {
		return 0, errors.Errorf("weight %v is negative", w)
	}
	if w == 0 {
		// "-0" parses to negative zero, which would flip the sign of the
		// sampling key. Normalize to positive zero.
		return 0, nil
	}
	return w, nil
}
