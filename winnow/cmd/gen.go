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

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash"
	humanize "github.com/dustin/go-humanize"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/winnow-io/winnow"
	"github.com/winnow-io/winnow/internal/randvar"
	"github.com/winnow-io/winnow/options"
	"github.com/winnow-io/winnow/y"
)

// genChunkRows rows go into each generator shard. Shard boundaries are fixed
// so that the generated bytes depend only on the seed, never on --workers.
const genChunkRows = 1 << 13

var gopt = struct {
	output      string
	rows        int
	seed        uint64
	delimiter   string
	noHeader    bool
	weights     *randvar.Flag
	groups      int
	workers     int
	shuffle     bool
	compression string
}{
	weights: randvar.NewFlag("uniform:1-100"),
}

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a random delimited file to sample from.",
	Long: `
This command writes rows of random test data with id, weight, group and seq
columns. Useful for trying out the sampler and for performance analysis. The
weight column follows the distribution given with --weights.
`,
	RunE: doGen,
}

func init() {
	RootCmd.AddCommand(genCmd)
	fl := genCmd.Flags()
	fl.StringVarP(&gopt.output, "output", "o", "",
		"Write rows to this file instead of stdout.")
	fl.IntVar(&gopt.rows, "rows", 1000,
		"Number of data rows to generate.")
	fl.Uint64Var(&gopt.seed, "seed", 0,
		"Seed for the random source. The same seed regenerates the same rows.")
	fl.StringVarP(&gopt.delimiter, "delimiter", "d", `\t`,
		"Field delimiter, a single byte.")
	fl.BoolVar(&gopt.noHeader, "no-header", false,
		"Do not emit a header row.")
	fl.Var(gopt.weights, "weights",
		"Weight distribution: N, MIN-MAX, uniform:MIN-MAX or zipf:MIN-MAX[:THETA].")
	fl.IntVar(&gopt.groups, "groups", 4,
		"Number of distinct values in the group column.")
	fl.IntVar(&gopt.workers, "workers", 4,
		"Number of generator goroutines.")
	fl.BoolVar(&gopt.shuffle, "shuffle", false,
		"Shuffle id order within each shard instead of emitting ids sequentially.")
	fl.StringVar(&gopt.compression, "compression", "auto",
		"Output codec: auto, none, gz, zst or sz.")
}

func doGen(cmd *cobra.Command, args []string) error {
	delim, err := parseDelimiter(gopt.delimiter)
	if err != nil {
		return err
	}
	ct, err := options.ParseCompression(gopt.compression)
	if err != nil {
		return errors.Wrapf(winnow.ErrInvalidOptions, "%v", err)
	}
	if gopt.rows <= 0 {
		return errors.Wrapf(winnow.ErrInvalidOptions, "row count must be positive, got %d", gopt.rows)
	}
	if gopt.groups <= 0 {
		return errors.Wrapf(winnow.ErrInvalidOptions, "group count must be positive, got %d", gopt.groups)
	}
	if gopt.workers <= 0 {
		return errors.Wrapf(winnow.ErrInvalidOptions, "worker count must be positive, got %d", gopt.workers)
	}

	seed := gopt.seed
	if !cmd.Flags().Changed("seed") {
		seed = uint64(time.Now().UnixNano()) ^ uint64(os.Getpid())<<32
	}
	lg := cmdLogger()
	start := time.Now()

	out, closeOut, err := openOutput(gopt.output, ct)
	if err != nil {
		return err
	}
	cw := &countingWriter{w: out}

	lg.Infof("generating %s rows with seed %d", humanize.Comma(int64(gopt.rows)), seed)
	if !gopt.noHeader {
		if _, err := fmt.Fprintf(cw, "id%cweight%cgroup%cseq\n",
			delim, delim, delim); err != nil {
			_ = closeOut()
			return errors.Wrapf(winnow.ErrIO, "write output: %v", err)
		}
	}
	if err := generate(cw, seed, delim); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	lg.Infof("generated %s rows (%s) in %s", humanize.Comma(int64(gopt.rows)),
		humanize.IBytes(uint64(cw.n)), time.Since(start))
	return nil
}

type genShard struct {
	idx int
	buf *bytes.Buffer
}

// generate fans row production out over gopt.workers goroutines and writes
// the finished shards to w in shard order.
func generate(w io.Writer, seed uint64, delim byte) error {
	numShards := (gopt.rows + genChunkRows - 1) / genChunkRows

	gctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(gctx)

	indexes := make(chan int)
	results := make(chan genShard, gopt.workers)

	g.Go(func() error {
		defer close(indexes)
		for i := 0; i < numShards; i++ {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for i := 0; i < gopt.workers; i++ {
		g.Go(func() error {
			for idx := range indexes {
				sh := genShard{idx: idx, buf: fillShard(idx, seed, delim)}
				select {
				case results <- sh:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	// Shards finish in any order but must hit the writer in index order.
	var werr error
	next := 0
	pending := make(map[int]*bytes.Buffer)
	for sh := range results {
		if werr != nil {
			continue
		}
		pending[sh.idx] = sh.buf
		for {
			buf, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if _, err := w.Write(buf.Bytes()); err != nil {
				werr = errors.Wrapf(winnow.ErrIO, "write output: %v", err)
				cancel()
				break
			}
			next++
		}
	}
	if werr != nil {
		return werr
	}
	return g.Wait()
}

// fillShard builds the rows of one shard. Every draw comes from a generator
// seeded by (seed, idx), so a shard's bytes are a pure function of the two.
func fillShard(idx int, seed uint64, delim byte) *bytes.Buffer {
	start := idx * genChunkRows
	n := gopt.rows - start
	if n > genChunkRows {
		n = genChunkRows
	}

	rng := randvar.NewSeededRand(shardSeed(seed, idx))
	groupWeights := make([]float64, gopt.groups)
	for i := range groupWeights {
		groupWeights[i] = float64(gopt.groups - i)
	}
	grp := randvar.NewWeighted(rng, groupWeights...)
	var deck *randvar.Deck
	if gopt.shuffle {
		deck = randvar.NewUnitDeck(rng, n)
	}

	buf := bytes.NewBuffer(make([]byte, 0, 32*n))
	for i := 0; i < n; i++ {
		id := start + i
		if deck != nil {
			id = start + deck.Int()
		}
		fmt.Fprintf(buf, "row%08d%c%d%cgrp%02d%c%d\n",
			id, delim, gopt.weights.Uint64(rng), delim, grp.Int(), delim, start+i)
	}
	return buf
}

func shardSeed(seed uint64, shard int) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%d/%d", seed, shard))
}

// openOutput opens the sink for generated rows, layering the compression
// codec for ct on top of it. The returned close function flushes every layer
// and syncs file output to disk. Stdout is neither synced nor closed.
func openOutput(path string, ct options.CompressionType) (io.Writer, func() error, error) {
	f := os.Stdout
	if path != "" {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return nil, nil, errors.Wrapf(winnow.ErrIO, "create %s: %v", path, err)
		}
	}
	if ct == options.Auto {
		ct = options.ForPath(path)
	}

	bw := bufio.NewWriterSize(f, 1<<20)
	var w io.Writer = bw
	var codec io.Closer
	switch ct {
	case options.Gzip:
		zw := gzip.NewWriter(bw)
		w, codec = zw, zw
	case options.ZSTD:
		zw, err := zstd.NewWriter(bw)
		if err != nil {
			_ = f.Close()
			return nil, nil, errors.Wrapf(winnow.ErrIO, "zstd writer: %v", err)
		}
		w, codec = zw, zw
	case options.Snappy:
		zw := snappy.NewBufferedWriter(bw)
		w, codec = zw, zw
	}

	closer := func() error {
		if codec != nil {
			if err := codec.Close(); err != nil {
				return errors.Wrapf(winnow.ErrIO, "close codec: %v", err)
			}
		}
		if err := bw.Flush(); err != nil {
			return errors.Wrapf(winnow.ErrIO, "flush output: %v", err)
		}
		if f == os.Stdout {
			return nil
		}
		if err := y.FileSync(f); err != nil {
			_ = f.Close()
			return errors.Wrapf(winnow.ErrIO, "sync %s: %v", path, err)
		}
		if err := f.Close(); err != nil {
			return errors.Wrapf(winnow.ErrIO, "close %s: %v", path, err)
		}
		return nil
	}
	return w, closer, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
