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

// Package y holds small helpers shared by the winnow library and its
// command line tool.
package y

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// AssertTrue panics with a stack trace if b is false.
func AssertTrue(b bool) {
	if !b {
		panic(errors.Errorf("Assert failed"))
	}
}

// AssertTruef is AssertTrue with extra info.
func AssertTruef(b bool, format string, args ...interface{}) {
	if !b {
		panic(errors.Errorf(format, args...))
	}
}

// CombineErrors returns a single error out of two. If both are non-nil, the
// messages are joined with "; " and the first error's type is dropped.
func CombineErrors(one, other error) error {
	if one != nil && other != nil {
		return errors.Errorf("%v; %v", one, other)
	}
	if one != nil {
		return errors.Errorf("%v", one)
	}
	if other != nil {
		return errors.Errorf("%v", other)
	}
	return nil
}

// ReadLines calls f once per non-empty line of the named file, with
// surrounding spaces trimmed. Lines whose first non-space byte is '#' are
// skipped so that id lists can carry comments.
func ReadLines(path string, f func(line string)) error {
	fd, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "while opening %s", path)
	}
	defer fd.Close()

	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		f(line)
	}
	return errors.Wrapf(scanner.Err(), "while reading %s", path)
}
