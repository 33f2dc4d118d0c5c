/*
Copyright © 2019 the flameFoam authors.
This file is part of flameFoam.

flameFoam is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

flameFoam is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with flameFoam.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package hash computes content keys for model coefficient sets, so that
// a reload can tell whether anything changed.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash"
	"hash/fnv"
	"reflect"

	"github.com/davecgh/go-spew/spew"
)

var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Hash returns a hash key for the specified object.
// Coefficient structs are gob encoded. Maps, whose gob encoding depends
// on iteration order, and objects that gob cannot encode are printed
// with sorted keys instead.
func Hash(object interface{}) string {
	h := fnv.New128a()
	if reflect.ValueOf(object).Kind() == reflect.Map {
		printer.Fprintf(h, "%#v", object)
		return key(h)
	}
	if err := gob.NewEncoder(h).Encode(object); err != nil {
		h.Reset()
		printer.Fprintf(h, "%#v", object)
	}
	return key(h)
}

// Equal returns whether a and b have the same hash key.
func Equal(a, b interface{}) bool {
	return Hash(a) == Hash(b)
}

func key(h hash.Hash) string {
	b := h.Sum(nil)
	return fmt.Sprintf("%x", b[0:h.Size()])
}
