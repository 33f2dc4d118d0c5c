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

package fv

import (
	"gonum.org/v1/gonum/floats"
)

// BCType is a kind of boundary condition.
type BCType int

const (
	// ZeroGradient boundaries take the value of the adjacent cell.
	ZeroGradient BCType = iota

	// FixedValue boundaries hold a prescribed value on each face.
	// Fields derived from other fields also use this type, with the
	// face values calculated from the face values of their inputs.
	FixedValue
)

// BC is the boundary condition of a VolField on one patch.
type BC struct {
	Type BCType

	// Values holds the face values of a FixedValue boundary.
	Values []float64
}

// VolField is a cell-centred scalar field.
type VolField struct {
	Name   string
	Mesh   *Mesh
	Values []float64

	// BCs holds one boundary condition per mesh patch.
	BCs []BC
}

// NewVolField returns a uniform field with zero-gradient boundaries.
func NewVolField(name string, m *Mesh, v float64) *VolField {
	f := &VolField{
		Name:   name,
		Mesh:   m,
		Values: make([]float64, m.NCells()),
		BCs:    make([]BC, len(m.Patches)),
	}
	for i := range f.Values {
		f.Values[i] = v
	}
	return f
}

// NewVolFieldFrom returns a field holding the given cell values, with
// zero-gradient boundaries. values is not copied.
func NewVolFieldFrom(name string, m *Mesh, values []float64) *VolField {
	if len(values) != m.NCells() {
		panic("fv: field size does not match mesh")
	}
	return &VolField{
		Name:   name,
		Mesh:   m,
		Values: values,
		BCs:    make([]BC, len(m.Patches)),
	}
}

// SetFixedValue sets a uniform fixed-value condition on patch i.
func (f *VolField) SetFixedValue(patch int, v float64) {
	vals := make([]float64, f.Mesh.Patches[patch].Size())
	for i := range vals {
		vals[i] = v
	}
	f.BCs[patch] = BC{Type: FixedValue, Values: vals}
}

// BoundaryValues returns the face values of f on the given patch.
func (f *VolField) BoundaryValues(patch int) []float64 {
	bc := f.BCs[patch]
	if bc.Type == FixedValue {
		return bc.Values
	}
	p := f.Mesh.Patches[patch]
	o := make([]float64, p.Size())
	for i, c := range p.FaceCells {
		o[i] = f.Values[c]
	}
	return o
}

// Clone returns a deep copy of f with the given name.
func (f *VolField) Clone(name string) *VolField {
	o := &VolField{
		Name:   name,
		Mesh:   f.Mesh,
		Values: append([]float64(nil), f.Values...),
		BCs:    make([]BC, len(f.BCs)),
	}
	for i, bc := range f.BCs {
		o.BCs[i] = BC{Type: bc.Type, Values: append([]float64(nil), bc.Values...)}
	}
	return o
}

// Min returns the minimum cell value of f.
func (f *VolField) Min() float64 { return floats.Min(f.Values) }

// Max returns the maximum cell value of f.
func (f *VolField) Max() float64 { return floats.Max(f.Values) }

// Map returns a new field whose cell and boundary values are fn applied
// to the corresponding values of args. The boundaries of the result are
// zero-gradient where every argument is zero-gradient, and hold the
// calculated face values otherwise.
func Map(name string, fn func(x ...float64) float64, args ...*VolField) *VolField {
	m := args[0].Mesh
	o := NewVolField(name, m, 0)
	x := make([]float64, len(args))
	for i := range o.Values {
		for j, a := range args {
			x[j] = a.Values[i]
		}
		o.Values[i] = fn(x...)
	}
	bv := make([][]float64, len(args))
	for p := range m.Patches {
		fixed := false
		for j, a := range args {
			bv[j] = a.BoundaryValues(p)
			fixed = fixed || a.BCs[p].Type == FixedValue
		}
		if !fixed {
			continue
		}
		vals := make([]float64, m.Patches[p].Size())
		for i := range vals {
			for j := range args {
				x[j] = bv[j][i]
			}
			vals[i] = fn(x...)
		}
		o.BCs[p] = BC{Type: FixedValue, Values: vals}
	}
	return o
}

// SurfaceField is a face-centred scalar field.
type SurfaceField struct {
	Name string
	Mesh *Mesh

	// Values holds the internal face values.
	Values []float64

	// Boundary holds the face values of each patch.
	Boundary [][]float64
}

// NewSurfaceField returns a uniform face field.
func NewSurfaceField(name string, m *Mesh, v float64) *SurfaceField {
	s := &SurfaceField{
		Name:     name,
		Mesh:     m,
		Values:   make([]float64, m.NFaces()),
		Boundary: make([][]float64, len(m.Patches)),
	}
	for i := range s.Values {
		s.Values[i] = v
	}
	for i, p := range m.Patches {
		s.Boundary[i] = make([]float64, p.Size())
		for j := range s.Boundary[i] {
			s.Boundary[i][j] = v
		}
	}
	return s
}

// apply sets each face value of s to fn of itself and the matching face
// value of o, and returns s.
func (s *SurfaceField) apply(o *SurfaceField, fn func(a, b float64) float64) *SurfaceField {
	for i, v := range o.Values {
		s.Values[i] = fn(s.Values[i], v)
	}
	for p, vals := range o.Boundary {
		for i, v := range vals {
			s.Boundary[p][i] = fn(s.Boundary[p][i], v)
		}
	}
	return s
}

// Mul multiplies s by o face by face, in place, and returns s.
func (s *SurfaceField) Mul(o *SurfaceField) *SurfaceField {
	return s.apply(o, func(a, b float64) float64 { return a * b })
}

// Add adds o to s face by face, in place, and returns s.
func (s *SurfaceField) Add(o *SurfaceField) *SurfaceField {
	return s.apply(o, func(a, b float64) float64 { return a + b })
}

// Sub subtracts o from s face by face, in place, and returns s.
func (s *SurfaceField) Sub(o *SurfaceField) *SurfaceField {
	return s.apply(o, func(a, b float64) float64 { return a - b })
}

// Scale multiplies every face value of s by f, in place, and returns s.
func (s *SurfaceField) Scale(f float64) *SurfaceField {
	floats.Scale(f, s.Values)
	for _, b := range s.Boundary {
		floats.Scale(f, b)
	}
	return s
}

// MulMagSf multiplies s by the face areas, turning a flux density into
// a face-integrated flux, in place, and returns s.
func (s *SurfaceField) MulMagSf() *SurfaceField {
	floats.Mul(s.Values, s.Mesh.MagSf)
	for p, b := range s.Boundary {
		floats.Mul(b, s.Mesh.Patches[p].MagSf)
	}
	return s
}

// Clone returns a deep copy of s with the given name.
func (s *SurfaceField) Clone(name string) *SurfaceField {
	o := &SurfaceField{
		Name:     name,
		Mesh:     s.Mesh,
		Values:   append([]float64(nil), s.Values...),
		Boundary: make([][]float64, len(s.Boundary)),
	}
	for i, b := range s.Boundary {
		o.Boundary[i] = append([]float64(nil), b...)
	}
	return o
}
