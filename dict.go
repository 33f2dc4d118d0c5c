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

package flamefoam

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/unit"
	"github.com/spf13/cast"
)

// Dict is a dictionary of model coefficients, keyed by name. Nested
// dictionaries are held as map[string]interface{} values.
type Dict map[string]interface{}

// ReadDict decodes a TOML coefficient dictionary.
func ReadDict(r io.Reader) (Dict, error) {
	var d Dict
	if _, err := toml.DecodeReader(r, &d); err != nil {
		return nil, fmt.Errorf("flamefoam: reading coefficient dictionary: %v", err)
	}
	return d, nil
}

// ReadDictFile decodes the TOML coefficient dictionary in the given file.
// Environment variables in the path are expanded.
func ReadDictFile(path string) (Dict, error) {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("flamefoam: opening coefficient dictionary: %v", err)
	}
	defer f.Close()
	return ReadDict(f)
}

// Has returns whether key is present in d.
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Sub returns the sub-dictionary with the given key.
func (d Dict) Sub(key string) (Dict, error) {
	v, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("flamefoam: missing sub-dictionary %s", key)
	}
	switch s := v.(type) {
	case Dict:
		return s, nil
	case map[string]interface{}:
		return Dict(s), nil
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, fmt.Errorf("flamefoam: %s is not a dictionary: %v", key, err)
	}
	return Dict(m), nil
}

// OptionalSub returns the sub-dictionary with the given key, or an
// empty dictionary if there is none.
func (d Dict) OptionalSub(key string) (Dict, error) {
	if !d.Has(key) {
		return Dict{}, nil
	}
	return d.Sub(key)
}

// Scalar returns the required coefficient key with dimensions dims.
// Coefficients are dimensioned implicitly in SI units.
func (d Dict) Scalar(key string, dims unit.Dimensions) (*unit.Unit, error) {
	v, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("flamefoam: missing coefficient %s", key)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, fmt.Errorf("flamefoam: coefficient %s: %v", key, err)
	}
	return unit.New(f, dims), nil
}

// ScalarDefault returns the coefficient key with dimensions dims, or
// def if key is absent.
func (d Dict) ScalarDefault(key string, dims unit.Dimensions, def float64) (*unit.Unit, error) {
	if !d.Has(key) {
		return unit.New(def, dims), nil
	}
	return d.Scalar(key, dims)
}

// Positive returns the required strictly positive coefficient key.
func (d Dict) Positive(key string, dims unit.Dimensions) (*unit.Unit, error) {
	u, err := d.Scalar(key, dims)
	if err != nil {
		return nil, err
	}
	if !(u.Value() > 0) {
		return nil, fmt.Errorf("flamefoam: coefficient %s=%g but should be >0", key, u.Value())
	}
	return u, nil
}

// PositiveDefault is like Positive but returns def if key is absent.
func (d Dict) PositiveDefault(key string, dims unit.Dimensions, def float64) (*unit.Unit, error) {
	if !d.Has(key) {
		return unit.New(def, dims), nil
	}
	return d.Positive(key, dims)
}

// Word returns the required string key.
func (d Dict) Word(key string) (string, error) {
	v, ok := d[key]
	if !ok {
		return "", fmt.Errorf("flamefoam: missing keyword %s", key)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("flamefoam: keyword %s: %v", key, err)
	}
	if s == "" {
		return "", fmt.Errorf("flamefoam: keyword %s is empty", key)
	}
	return s, nil
}

// WordDefault returns the string key, or def if it is absent.
func (d Dict) WordDefault(key, def string) (string, error) {
	if !d.Has(key) {
		return def, nil
	}
	return d.Word(key)
}

// Label returns the required integer key.
func (d Dict) Label(key string) (int, error) {
	v, ok := d[key]
	if !ok {
		return 0, fmt.Errorf("flamefoam: missing label %s", key)
	}
	if f, ok := v.(float64); ok && f != float64(int(f)) {
		return 0, fmt.Errorf("flamefoam: label %s=%g is not an integer", key, f)
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("flamefoam: label %s: %v", key, err)
	}
	return i, nil
}

// LabelDefault returns the integer key, or def if it is absent.
func (d Dict) LabelDefault(key string, def int) (int, error) {
	if !d.Has(key) {
		return def, nil
	}
	return d.Label(key)
}

// Switch returns the boolean key, or def if it is absent.
func (d Dict) Switch(key string, def bool) (bool, error) {
	v, ok := d[key]
	if !ok {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, fmt.Errorf("flamefoam: switch %s: %v", key, err)
	}
	return b, nil
}
