// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"io"

	"github.com/gorse-io/tabular/base"
	"github.com/gorse-io/tabular/base/encoding"
)

// Dict is an insertion-ordered vocabulary between strings and dense ids.
type Dict struct {
	si map[string]int32
	is []string
}

func NewDict() *Dict {
	return &Dict{si: map[string]int32{}}
}

// Count returns the number of entries.
func (d *Dict) Count() int {
	return len(d.is)
}

// Id returns the id of a string, adding it to the vocabulary if absent.
func (d *Dict) Id(s string) int32 {
	if y, ok := d.si[s]; ok {
		return y
	}
	y := int32(len(d.is))
	d.si[s] = y
	d.is = append(d.is, s)
	return y
}

// Lookup returns the id of a string, or NotId if the vocabulary does not
// contain it. The vocabulary is never extended.
func (d *Dict) Lookup(s string) int32 {
	if y, ok := d.si[s]; ok {
		return y
	}
	return base.NotId
}

// String returns the string of an id.
func (d *Dict) String(id int32) (string, bool) {
	if id < 0 || int(id) >= len(d.is) {
		return "", false
	}
	return d.is[id], true
}

// Strings returns all entries in id order.
func (d *Dict) Strings() []string {
	return d.is
}

// Marshal writes the vocabulary to a byte stream.
func (d *Dict) Marshal(w io.Writer) error {
	return encoding.WriteGob(w, d.is)
}

// Unmarshal reads the vocabulary from a byte stream.
func (d *Dict) Unmarshal(r io.Reader) error {
	if err := encoding.ReadGob(r, &d.is); err != nil {
		return err
	}
	d.si = make(map[string]int32, len(d.is))
	for i, s := range d.is {
		d.si[s] = int32(i)
	}
	return nil
}
