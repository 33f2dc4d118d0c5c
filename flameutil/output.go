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

package flameutil

import (
	"fmt"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/flamefoam/flamefoam"
)

// OutputVersion is the version of the output file format.
const OutputVersion = "1"

// Variable is a field stored in an output file.
type Variable struct {
	Dims        []string           // netcdf dimensions for this variable
	Description string             // variable description
	Units       string             // variable units
	Data        *sparse.DenseArray // variable data
}

// Output holds the fields of an evaluated flame.
type Output struct {
	// Summary describes the last iteration.
	Summary flamefoam.Summary

	// Names of the selected models.
	Reaction, Laminar, Transport string

	// Data holds the variables, keyed by name.
	Data map[string]Variable
}

// AddVariable adds data for a new variable to o.
func (o *Output) AddVariable(name string, dims []string, description, units string, data []float64) {
	if o.Data == nil {
		o.Data = make(map[string]Variable)
	}
	a := sparse.ZerosDense(len(data))
	copy(a.Elements, data)
	o.Data[name] = Variable{
		Dims:        dims,
		Description: description,
		Units:       units,
		Data:        a,
	}
}

// names returns the sorted variable names so they write in the same
// order every time.
func (o *Output) names() []string {
	names := make([]string, 0, len(o.Data))
	for n := range o.Data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Write writes o to netcdf file w.
func (o *Output) Write(w cdf.ReaderWriterAt) error {
	names := o.names()
	dimLengths := make(map[string]int)
	for _, name := range names {
		v := o.Data[name]
		if len(v.Dims) != len(v.Data.Shape) {
			return fmt.Errorf("flamefoam: variable %s has %d dimensions but %d dimension names", name, len(v.Data.Shape), len(v.Dims))
		}
		for i, d := range v.Dims {
			if l, ok := dimLengths[d]; ok && l != v.Data.Shape[i] {
				return fmt.Errorf("flamefoam: dimension %s of variable %s has length %d but should be %d", d, name, v.Data.Shape[i], l)
			}
			dimLengths[d] = v.Data.Shape[i]
		}
	}
	dims := make([]string, 0, len(dimLengths))
	for d := range dimLengths {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	lengths := make([]int, len(dims))
	for i, d := range dims {
		lengths[i] = dimLengths[d]
	}

	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "flamefoam one-dimensional flame")
	h.AddAttribute("", "data_version", OutputVersion)
	h.AddAttribute("", "reactionRate", o.Reaction)
	h.AddAttribute("", "laminarBurningVelocity", o.Laminar)
	h.AddAttribute("", "thermophysicalTransport", o.Transport)
	h.AddAttribute("", "iteration", []int32{int32(o.Summary.Iteration)})
	for _, a := range summaryAttributes(&o.Summary) {
		h.AddAttribute("", a.name, []float64{*a.v})
	}
	for _, name := range names {
		v := o.Data[name]
		h.AddVariable(name, v.Dims, []float64{0})
		h.AddAttribute(name, "description", v.Description)
		h.AddAttribute(name, "units", v.Units)
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	for _, name := range names {
		if err = writeNCF(f, name, o.Data[name].Data); err != nil {
			return fmt.Errorf("flamefoam: writing variable %s to netcdf file: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// summaryAttributes returns the global attributes holding the
// floating point fields of s.
func summaryAttributes(s *flamefoam.Summary) []struct {
	name string
	v    *float64
} {
	return []struct {
		name string
		v    *float64
	}{
		{"time", &s.Time},
		{"heatRelease", &s.HeatRelease},
		{"sLMin", &s.SLMin},
		{"sLMax", &s.SLMax},
		{"cSourceMax", &s.CSourceMax},
	}
}

func writeNCF(f *cdf.File, name string, data *sparse.DenseArray) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data.Elements)
	return err
}

// ReadOutput reads an output file written by Output.Write.
func ReadOutput(r cdf.ReaderWriterAt) (*Output, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("flamefoam: reading output: %v", err)
	}
	if v, ok := f.Header.GetAttribute("", "data_version").(string); !ok || v != OutputVersion {
		return nil, fmt.Errorf("flamefoam: output data version %v is incompatible with the required version %s", v, OutputVersion)
	}
	o := new(Output)
	o.Reaction, _ = f.Header.GetAttribute("", "reactionRate").(string)
	o.Laminar, _ = f.Header.GetAttribute("", "laminarBurningVelocity").(string)
	o.Transport, _ = f.Header.GetAttribute("", "thermophysicalTransport").(string)
	if it, ok := f.Header.GetAttribute("", "iteration").([]int32); ok && len(it) == 1 {
		o.Summary.Iteration = int(it[0])
	}
	for _, a := range summaryAttributes(&o.Summary) {
		if v, ok := f.Header.GetAttribute("", a.name).([]float64); ok && len(v) == 1 {
			*a.v = v[0]
		}
	}
	o.Data = make(map[string]Variable)
	for _, name := range f.Header.Variables() {
		dims := f.Header.Lengths(name)
		v := Variable{
			Dims: f.Header.Dimensions(name),
			Data: sparse.ZerosDense(dims...),
		}
		v.Description, _ = f.Header.GetAttribute(name, "description").(string)
		v.Units, _ = f.Header.GetAttribute(name, "units").(string)
		rd := f.Reader(name, nil, nil)
		if _, err := rd.Read(v.Data.Elements); err != nil {
			return nil, fmt.Errorf("flamefoam: reading variable %s: %v", name, err)
		}
		o.Data[name] = v
	}
	return o, nil
}
