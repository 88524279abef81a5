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
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var randVarRE = regexp.MustCompile(`^(?:(const|uniform|zipf):)?(\d+)(?:-(\d+))?(?::(\d*\.?\d+))?$`)

// Flag provides a command line flag interface for specifying static random
// variables. The accepted specs are
//
//	N                  constant N
//	const:N            constant N
//	MIN-MAX            uniform over [MIN,MAX]
//	uniform:MIN-MAX    uniform over [MIN,MAX]
//	zipf:MIN-MAX       zipf over [MIN,MAX] with the default theta
//	zipf:MIN-MAX:T     zipf over [MIN,MAX] with theta T
type Flag struct {
	Static
	spec string
}

// NewFlag creates a new Flag initialized with the specified spec.
func NewFlag(spec string) *Flag {
	f := &Flag{}
	if err := f.Set(spec); err != nil {
		panic(err)
	}
	return f
}

func (f *Flag) String() string {
	return f.spec
}

// Type implements the pflag.Value interface.
func (f *Flag) Type() string {
	return "randvar"
}

// Set implements the pflag.Value interface.
func (f *Flag) Set(spec string) error {
	m := randVarRE.FindStringSubmatch(spec)
	if m == nil {
		return errors.Errorf("invalid random var spec: %q", spec)
	}

	min, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return err
	}
	max := min
	if m[3] != "" {
		max, err = strconv.ParseUint(m[3], 10, 64)
		if err != nil {
			return err
		}
	}
	dist := strings.ToLower(m[1])
	if m[4] != "" && dist != "zipf" {
		return errors.Errorf("invalid random var spec: %q: only zipf takes a theta", spec)
	}

	switch dist {
	case "const":
		if m[3] != "" {
			return errors.Errorf("invalid random var spec: %q: const takes a single value", spec)
		}
		f.Static = Constant(min)
	case "":
		if m[3] == "" {
			f.Static = Constant(min)
		} else {
			f.Static = NewUniform(min, max)
		}
	case "uniform":
		f.Static = NewUniform(min, max)
	case "zipf":
		theta := DefaultTheta
		if m[4] != "" {
			theta, err = strconv.ParseFloat(m[4], 64)
			if err != nil {
				return err
			}
		}
		f.Static, err = NewZipf(min, max, theta)
		if err != nil {
			return err
		}
	}
	f.spec = spec
	return nil
}
