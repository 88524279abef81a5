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
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/winnow-io/winnow/y"
)

// Write streams the selection to w: the header line first when the input had
// one, then each selected row byte for byte as it appeared in the input, one
// per line with a trailing newline.
func (res *Result) Write(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	if res.HasHeader {
		if _, err := bw.WriteString(res.HeaderLine); err != nil {
			return errors.Wrapf(ErrIO, "write output: %v", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrapf(ErrIO, "write output: %v", err)
		}
	}
	for i := range res.Records {
		if _, err := bw.WriteString(res.Records[i].Line); err != nil {
			return errors.Wrapf(ErrIO, "write output: %v", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrapf(ErrIO, "write output: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrapf(ErrIO, "write output: %v", err)
	}
	return nil
}

// WriteFile writes the selection to path and syncs it to stable storage
// before closing.
func (res *Result) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(ErrIO, "create %s: %v", path, err)
	}
	err = res.Write(f)
	if err == nil {
		if serr := y.FileSync(f); serr != nil {
			err = errors.Wrapf(ErrIO, "sync %s: %v", path, serr)
		}
	}
	if cerr := f.Close(); cerr != nil && err == nil {
		err = errors.Wrapf(ErrIO, "close %s: %v", path, cerr)
	}
	return err
}
