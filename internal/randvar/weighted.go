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

package randvar

import "golang.org/x/exp/rand"

// Weighted is a random number generator that generates numbers in the range
// [0,len(weights)-1] where the probability of i is weights(i)/sum(weights).
type Weighted struct {
	rng     *rand.Rand
	sum     float64
	weights []float64
}

// NewWeighted returns a new weighted random number generator.
func NewWeighted(rng *rand.Rand, weights ...float64) *Weighted {
	var sum float64
	for i := range weights {
		sum += weights[i]
	}
	return &Weighted{
		rng:     ensureRand(rng),
		sum:     sum,
		weights: weights,
	}
}

// Int returns a random number in the range [0,len(weights)-1] where the
// probability of i is weights(i)/sum(weights).
func (w *Weighted) Int() int {
	p := w.rng.Float64() * w.sum
	for i, weight := range w.weights {
		if p <= weight {
			return i
		}
		p -= weight
	}
	return len(w.weights) - 1
}
