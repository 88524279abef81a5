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
	"container/heap"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/winnow-io/winnow/internal/randvar"
)

// Sampled is a record together with the sampling key it drew.
type Sampled struct {
	Record Record
	Key    float64
}

// Reservoir keeps the k strongest candidates of a weighted stream, following
// the Efraimidis-Spirakis A-Res scheme. Each offered record draws a key of
// ln(u)/weight with u uniform in [0,1); larger keys are stronger. The keys of
// records retained so far never fall below the key of any record already
// evicted.
//
// A Reservoir holds at most k records regardless of stream length, and each
// offer costs O(log k).
type Reservoir struct {
	k         int
	rng       *rand.Rand
	h         candidateHeap
	offered   int64
	evictions int64
}

// NewReservoir creates a reservoir holding up to k records, drawing
// randomness from rng. A nil rng falls back to a time seeded source, which
// makes runs irreproducible; pass a seeded generator for deterministic
// output. Fails with ErrInvalidSampleCount when k is out of range.
func NewReservoir(k int, rng *rand.Rand) (*Reservoir, error) {
	if k <= 0 {
		return nil, errors.Wrapf(ErrInvalidSampleCount, "sample count must be positive, got %d", k)
	}
	if k > maxSampleCount {
		return nil, errors.Wrapf(ErrInvalidSampleCount, "sample count %d exceeds limit %d", k, maxSampleCount)
	}
	if rng == nil {
		rng = randvar.NewRand()
	}
	prealloc := k
	if prealloc > 1<<12 {
		prealloc = 1 << 12
	}
	return &Reservoir{
		k:   k,
		rng: rng,
		h:   make(candidateHeap, 0, prealloc),
	}, nil
}

// sampleKey computes the A-Res priority of a record in log domain. u is
// uniform in [0,1). Division of a negative number by a weight of zero yields
// negative infinity, so zero weight records lose against every positive
// weight without a special case.
func sampleKey(weight, u float64) float64 {
	return math.Log(u) / weight
}

// Offer considers rec for the reservoir, drawing its key from the stream's
// random source.
func (r *Reservoir) Offer(rec Record) {
	r.offer(rec, sampleKey(rec.Weight, r.rng.Float64()))
}

func (r *Reservoir) offer(rec Record, key float64) {
	r.offered++
	if len(r.h) < r.k {
		heap.Push(&r.h, candidate{key: key, rec: rec})
		return
	}
	// Only a strictly greater key displaces the weakest incumbent. An equal
	// key keeps the reservoir as it is.
	if key > r.h[0].key {
		r.h[0] = candidate{key: key, rec: rec}
		heap.Fix(&r.h, 0)
		r.evictions++
	}
}

// Len returns the number of records currently held.
func (r *Reservoir) Len() int {
	return len(r.h)
}

// Offered returns the number of records offered so far.
func (r *Reservoir) Offered() int64 {
	return r.offered
}

// Evictions returns how many held records were displaced by stronger ones.
func (r *Reservoir) Evictions() int64 {
	return r.evictions
}

// MinKey returns the weakest key currently held. The second return is false
// when the reservoir is empty.
func (r *Reservoir) MinKey() (float64, bool) {
	if len(r.h) == 0 {
		return 0, false
	}
	return r.h[0].key, true
}

// Sample returns the records currently held, in no particular order.
func (r *Reservoir) Sample() []Sampled {
	out := make([]Sampled, len(r.h))
	for i, c := range r.h {
		out[i] = Sampled{Record: c.rec, Key: c.key}
	}
	return out
}
