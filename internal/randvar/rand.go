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

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mathext/prng"
)

// NewSource returns a pseudo random source seeded with seed. The source is a
// Mersenne Twister. There is no need for cryptographic randomness here, and
// the twister is cheap to draw from.
func NewSource(seed uint64) rand.Source {
	src := prng.NewMT19937()
	src.Seed(seed)
	return src
}

// NewRand creates a new random number generator seeded with the current time.
func NewRand() *rand.Rand {
	return NewSeededRand(uint64(time.Now().UnixNano()))
}

// NewSeededRand creates a new random number generator with an explicit seed.
// Generators built from the same seed produce the same draw sequence.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(NewSource(seed))
}

func ensureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return NewRand()
}
