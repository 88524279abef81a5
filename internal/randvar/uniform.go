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

// Uniform is a random variable that draws from the integers in [min,max] with
// equal probability.
type Uniform struct {
	min uint64
	max uint64
}

// NewUniform constructs a new Uniform variable over [min,max].
func NewUniform(min, max uint64) *Uniform {
	return &Uniform{min: min, max: max}
}

// Uint64 implements the Static interface.
func (g *Uniform) Uint64(rng *rand.Rand) uint64 {
	return rng.Uint64n(g.max-g.min+1) + g.min
}
