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

/*
Package winnow draws weighted random samples of records from delimited text
files, without replacement, in a single pass and in bounded memory.

Each record carries a numeric weight taken from a designated column, and its
probability of selection is proportional to that weight. Records can also be
forced into or kept out of the sample by id, regardless of weight. The
selection procedure is the Efraimidis-Spirakis reservoir scheme: every record
draws a random priority key from its weight and a min heap retains the k
strongest keys seen so far, so a stream of any length is sampled in O(k)
memory and O(log k) time per record.

A typical run looks like

	opt := winnow.DefaultOptions("tips.tsv").
		WithSampleCount(100).
		WithWeightColumn(winnow.ColumnNamed("abundance")).
		WithSeed(42)
	res, err := winnow.Run(context.Background(), opt)
	if err != nil {
		// handle error
	}
	err = res.Write(os.Stdout)

The package reads plain, gzip, zstd and snappy compressed inputs, keeps the
selected lines byte for byte intact, and emits them in input order.
*/
package winnow
