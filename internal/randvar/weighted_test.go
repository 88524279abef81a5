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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeighted(t *testing.T) {
	w := NewWeighted(NewSeededRand(17), 1, 2, 2, 0, 3)

	counts := make([]int, 5)
	for i := 0; i < 10000; i++ {
		counts[w.Int()]++
	}

	// Expected proportions are 1/8, 2/8, 2/8, 0 and 3/8.
	require.Zero(t, counts[3])
	require.True(t, counts[0] > 900 && counts[0] < 1600, "counts %v", counts)
	require.True(t, counts[4] > 3200 && counts[4] < 4300, "counts %v", counts)
	require.True(t, counts[1]+counts[2] > 4300 && counts[1]+counts[2] < 5700, "counts %v", counts)

	if testing.Verbose() {
		samples := make([]int, 0, 10000)
		for i := 0; i < 10000; i++ {
			samples = append(samples, w.Int())
		}
		dumpSamples(samples)
	}
}
