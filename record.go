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
	"strconv"

	"github.com/pkg/errors"
)

// Record is one data row of a delimited input.
type Record struct {
	// ID is the value of the id column.
	ID string
	// Weight is the sampling weight. It is only set on records that reach
	// the sampler; excluded and forced records keep the zero value because
	// their weight column is never parsed.
	Weight float64
	// Fields holds the delimited values of the row.
	Fields []string
	// Line is the row exactly as read, without the trailing newline.
	Line string
	// Pos is the zero based position of the row among the data rows.
	Pos int
}

// Column selects a field of a delimited row, either by zero based index or,
// when the input carries a header, by column name. The zero value selects
// nothing.
type Column struct {
	name    string
	index   int
	byName  bool
	defined bool
}

// ColumnIndex selects the field at the zero based index i.
func ColumnIndex(i int) Column {
	return Column{index: i, defined: true}
}

// ColumnNamed selects the field whose header cell equals name.
func ColumnNamed(name string) Column {
	return Column{name: name, byName: true, defined: true}
}

// Defined reports whether the column selects anything.
func (c Column) Defined() bool {
	return c.defined
}

func (c Column) String() string {
	switch {
	case !c.defined:
		return ""
	case c.byName:
		return c.name
	}
	return strconv.Itoa(c.index)
}

// Type implements the pflag.Value interface.
func (c *Column) Type() string {
	return "column"
}

// Set implements the pflag.Value interface. A spec made of digits selects by
// index, anything else selects by name.
func (c *Column) Set(s string) error {
	if s == "" {
		return errors.Wrapf(ErrInvalidOptions, "empty column spec")
	}
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 {
			return errors.Wrapf(ErrInvalidOptions, "column index must not be negative, got %d", i)
		}
		*c = ColumnIndex(i)
		return nil
	}
	*c = ColumnNamed(s)
	return nil
}

// resolve maps the selector to a field index. header is nil for headerless
// inputs. Returns -1 when the column is undefined. Index bounds are checked
// against the row width later, once it is known.
func (c Column) resolve(header []string) (int, error) {
	if !c.defined {
		return -1, nil
	}
	if !c.byName {
		return c.index, nil
	}
	if header == nil {
		return -1, errors.Wrapf(ErrParse, "cannot select column %q by name without a header row", c.name)
	}
	for i, h := range header {
		if h == c.name {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrParse, "column %q not found in header", c.name)
}
