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

import "expvar"

var (
	numRecordsRead     *expvar.Int
	numBytesRead       *expvar.Int
	numRecordsExcluded *expvar.Int
	numRecordsForced   *expvar.Int
	numRecordsOffered  *expvar.Int
	numHeapEvictions   *expvar.Int
	numBadWeights      *expvar.Int
	numSamplesEmitted  *expvar.Int
	numRuns            *expvar.Int
)

// These variables are global and have cumulative values for all runs in the
// lifetime of the process.
func init() {
	numRecordsRead = getInt("winnow_records_read_total")
	numBytesRead = getInt("winnow_bytes_read_total")
	numRecordsExcluded = getInt("winnow_records_excluded_total")
	numRecordsForced = getInt("winnow_records_forced_total")
	numRecordsOffered = getInt("winnow_records_offered_total")
	numHeapEvictions = getInt("winnow_heap_evictions_total")
	numBadWeights = getInt("winnow_bad_weights_total")
	numSamplesEmitted = getInt("winnow_samples_emitted_total")
	numRuns = getInt("winnow_runs_total")
}

// expvar panics if you try to set an already set variable. So we try get
// first else get new.
func getInt(k string) *expvar.Int {
	if val := expvar.Get(k); val != nil {
		return val.(*expvar.Int)
	}
	return expvar.NewInt(k)
}

func addInt(enabled bool, metric *expvar.Int, val int64) {
	if !enabled {
		return
	}
	if metric == nil {
		return
	}
	metric.Add(val)
}

// NumRecordsReadAdd adds val to the records read metric if metrics are
// enabled.
func NumRecordsReadAdd(enabled bool, val int64) {
	addInt(enabled, numRecordsRead, val)
}

// NumBytesReadAdd adds val to the bytes read metric if metrics are enabled.
func NumBytesReadAdd(enabled bool, val int64) {
	addInt(enabled, numBytesRead, val)
}

// NumRecordsExcludedAdd adds val to the excluded records metric if metrics
// are enabled.
func NumRecordsExcludedAdd(enabled bool, val int64) {
	addInt(enabled, numRecordsExcluded, val)
}

// NumRecordsForcedAdd adds val to the forced records metric if metrics are
// enabled.
func NumRecordsForcedAdd(enabled bool, val int64) {
	addInt(enabled, numRecordsForced, val)
}

// NumRecordsOfferedAdd adds val to the offered records metric if metrics are
// enabled. A record is offered when it reaches the sampler.
func NumRecordsOfferedAdd(enabled bool, val int64) {
	addInt(enabled, numRecordsOffered, val)
}

// NumHeapEvictionsAdd adds val to the heap evictions metric if metrics are
// enabled.
func NumHeapEvictionsAdd(enabled bool, val int64) {
	addInt(enabled, numHeapEvictions, val)
}

// NumBadWeightsAdd adds val to the bad weights metric if metrics are
// enabled.
func NumBadWeightsAdd(enabled bool, val int64) {
	addInt(enabled, numBadWeights, val)
}

// NumSamplesEmittedAdd adds val to the emitted samples metric if metrics are
// enabled.
func NumSamplesEmittedAdd(enabled bool, val int64) {
	addInt(enabled, numSamplesEmitted, val)
}

// NumRunsAdd adds val to the completed runs metric if metrics are enabled.
func NumRunsAdd(enabled bool, val int64) {
	addInt(enabled, numRuns, val)
}
