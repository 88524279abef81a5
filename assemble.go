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

import "golang.org/x/exp/slices"

// assemble merges the forced records with the sampler's candidates into the
// final selection, at most k records in input order.
//
// Forced records always survive. When forced and sampled together exceed k,
// the excess is trimmed from the sampled portion, weakest keys first. Forced
// records alone may exceed k; they are all kept even then. A result smaller
// than k just means the eligible population was smaller than k.
func assemble(forced []forcedEntry, sampled []Sampled, k int) []Record {
	keep := k - len(forced)
	if keep < 0 {
		keep = 0
	}
	if len(sampled) > keep {
		// Strongest first. Equal keys fall back to input order so a fixed
		// seed yields a fixed result.
		slices.SortFunc(sampled, func(a, b Sampled) bool {
			if a.Key != b.Key {
				return a.Key > b.Key
			}
			return a.Record.Pos < b.Record.Pos
		})
		sampled = sampled[:keep]
	}

	out := make([]Record, 0, len(forced)+len(sampled))
	for _, fe := range forced {
		rec := fe.rec
		rec.Pos = fe.firstPos
		out = append(out, rec)
	}
	for _, s := range sampled {
		out = append(out, s.Record)
	}
	slices.SortFunc(out, func(a, b Record) bool {
		return a.Pos < b.Pos
	})
	return out
}
