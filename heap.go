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

// candidate couples a record with the sampling key it drew while it sits in
// the reservoir.
type candidate struct {
	key float64
	rec Record
}

// candidateHeap is a slice backed min heap over sampling keys, so the root
// is always the weakest candidate in the reservoir. When keys are equal, the
// record that arrived later sorts first and is the one evicted.
type candidateHeap []candidate

func (h candidateHeap) Len() int {
	return len(h)
}

func (h candidateHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	return h[i].rec.Pos > h[j].rec.Pos
}

func (h candidateHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
