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
	"context"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"

	"github.com/winnow-io/winnow/internal/randvar"
)

// Result holds the outcome of a sampling run.
type Result struct {
	// Records are the selected records in input order.
	Records []Record
	// HeaderLine is the input's header row, present when HasHeader is true.
	HeaderLine string
	HasHeader  bool
	// Seed is the seed the run actually used, whether given or derived.
	// Replaying it reproduces the run.
	Seed uint64
	// Stats summarizes the run.
	Stats Stats
}

const (
	// ctxCheckEvery bounds how stale a cancellation can go unnoticed.
	ctxCheckEvery = 4096
	progressEvery = 5 * time.Second
)

// Run samples opt.InputPath according to opt and returns the selection. The
// input is read exactly once, front to back. Cancelling ctx stops the run
// between records.
//
// Failures carry one of the package's error sentinels; see ExitCode.
func Run(ctx context.Context, opt Options) (res *Result, err error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	seed := opt.Seed
	if !opt.seedSet {
		seed = uint64(time.Now().UnixNano()) ^ uint64(os.Getpid())<<32
	}

	elog := noEventLog
	if opt.EventLogging {
		elog = trace.NewEventLog("winnow.Run", opt.InputPath)
		defer elog.Finish()
	}
	elog.Printf("sampling %s: k=%d seed=%d", opt.InputPath, opt.SampleCount, seed)
	opt.Debugf("sampling %s: k=%d seed=%d delimiter=%q header=%v include=%d exclude=%d",
		opt.InputPath, opt.SampleCount, seed, opt.Delimiter, opt.Header,
		len(opt.Include), len(opt.Exclude))

	rd, err := NewReader(opt)
	if err != nil {
		elog.Errorf("%v", err)
		return nil, err
	}
	defer func() {
		if cerr := rd.Close(); cerr != nil && err == nil {
			res, err = nil, cerr
		}
	}()

	rsv, err := NewReservoir(opt.SampleCount, randvar.NewSeededRand(seed))
	if err != nil {
		return nil, err
	}
	flt := newFilter(&opt, rd.WeightIndex())

	var stats Stats
	lastLog := start
	for rd.Next() {
		rec, decision, rerr := flt.route(rd.Record(), rd.LineNo())
		if rerr != nil {
			elog.Errorf("%v", rerr)
			return nil, rerr
		}
		stats.RecordsRead++
		switch decision {
		case routeSampled:
			stats.observeWeight(rec.Weight)
			if rec.Weight == 0 {
				stats.ZeroWeights++
			}
			rsv.Offer(rec)
		case routeExcluded:
			stats.Excluded++
		case routeSkipped:
			stats.SkippedWeights++
		}

		if stats.RecordsRead%ctxCheckEvery == 0 {
			select {
			case <-ctx.Done():
				elog.Errorf("cancelled after %d records", stats.RecordsRead)
				return nil, ctx.Err()
			default:
			}
			if now := time.Now(); now.Sub(lastLog) >= progressEvery {
				lastLog = now
				opt.Infof("processed %s records (%s), holding %d candidates",
					humanize.Comma(stats.RecordsRead), humanize.IBytes(uint64(rd.BytesRead())),
					rsv.Len())
				elog.Printf("processed %d records", stats.RecordsRead)
			}
		}
	}
	if err := rd.Err(); err != nil {
		elog.Errorf("%v", err)
		return nil, err
	}

	forced := flt.forcedEntries()
	records := assemble(forced, rsv.Sample(), opt.SampleCount)

	stats.BytesRead = rd.BytesRead()
	stats.BlankLines = rd.BlankLines()
	stats.Forced = int64(len(forced))
	stats.Evictions = rsv.Evictions()
	stats.Selected = len(records)
	stats.Elapsed = time.Since(start)

	NumRecordsReadAdd(opt.MetricsEnabled, stats.RecordsRead)
	NumBytesReadAdd(opt.MetricsEnabled, stats.BytesRead)
	NumRecordsExcludedAdd(opt.MetricsEnabled, stats.Excluded)
	NumRecordsForcedAdd(opt.MetricsEnabled, stats.Forced)
	NumRecordsOfferedAdd(opt.MetricsEnabled, stats.Offered)
	NumHeapEvictionsAdd(opt.MetricsEnabled, stats.Evictions)
	NumBadWeightsAdd(opt.MetricsEnabled, stats.SkippedWeights)
	NumSamplesEmittedAdd(opt.MetricsEnabled, int64(stats.Selected))
	NumRunsAdd(opt.MetricsEnabled, 1)

	opt.Infof("selected %d of %s records in %s",
		stats.Selected, humanize.Comma(stats.RecordsRead), stats.Elapsed.Round(time.Millisecond))
	elog.Printf("done: selected %d of %d records", stats.Selected, stats.RecordsRead)

	headerLine, hasHeader := rd.HeaderLine()
	return &Result{
		Records:    records,
		HeaderLine: headerLine,
		HasHeader:  hasHeader,
		Seed:       seed,
		Stats:      stats,
	}, nil
}
