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

// Package randvar provides random variates for synthetic data generation.
package randvar

import "golang.org/x/exp/rand"

// Static models a random variable that pulls from a distribution with static
// bounds.
type Static interface {
	Uint64(rng *rand.Rand) uint64
}

// Constant is a degenerate random variable that always yields the same value.
type Constant uint64

// Uint64 implements the Static interface.
func (c Constant) Uint64(_ *rand.Rand) uint64 {
	return uint64(c)
}
