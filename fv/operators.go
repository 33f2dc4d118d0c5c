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

// Interpolate returns the linear interpolation of f to the mesh faces.
func Interpolate(f *VolField) *SurfaceField {
	m := f.Mesh
	s := &SurfaceField{
		Name:     "interpolate(" + f.Name + ")",
		Mesh:     m,
		Values:   make([]float64, m.NFaces()),
		Boundary: make([][]float64, len(m.Patches)),
	}
	for i, own := range m.Owner {
		w := m.Weights[i]
		s.Values[i] = w*f.Values[own] + (1-w)*f.Values[m.Neighbour[i]]
	}
	for p := range m.Patches {
		s.Boundary[p] = append([]float64(nil), f.BoundaryValues(p)...)
	}
	return s
}

// SnGrad returns the face-normal gradient of f.
func SnGrad(f *VolField) *SurfaceField {
	m := f.Mesh
	s := &SurfaceField{
		Name:     "snGrad(" + f.Name + ")",
		Mesh:     m,
		Values:   make([]float64, m.NFaces()),
		Boundary: make([][]float64, len(m.Patches)),
	}
	for i, own := range m.Owner {
		s.Values[i] = m.DeltaCoeffs[i] * (f.Values[m.Neighbour[i]] - f.Values[own])
	}
	for p, patch := range m.Patches {
		s.Boundary[p] = make([]float64, patch.Size())
		if f.BCs[p].Type == ZeroGradient {
			continue
		}
		for i, c := range patch.FaceCells {
			s.Boundary[p][i] = patch.DeltaCoeffs[i] * (f.BCs[p].Values[i] - f.Values[c])
		}
	}
	return s
}

// Grad returns the Gauss linear cell gradient of f.
func Grad(f *VolField) []Vector {
	m := f.Mesh
	g := make([]Vector, m.NCells())
	face := Interpolate(f)
	for i, own := range m.Owner {
		flux := m.Sf[i].Scale(face.Values[i])
		nei := m.Neighbour[i]
		for d := 0; d < 3; d++ {
			g[own][d] += flux[d]
			g[nei][d] -= flux[d]
		}
	}
	for p, patch := range m.Patches {
		for i, c := range patch.FaceCells {
			flux := patch.Sf[i].Scale(face.Boundary[p][i])
			for d := 0; d < 3; d++ {
				g[c][d] += flux[d]
			}
		}
	}
	for i, v := range m.V {
		g[i] = g[i].Scale(1 / v)
	}
	return g
}

// MagGrad returns the magnitude of the cell gradient of f.
func MagGrad(f *VolField) *VolField {
	g := Grad(f)
	o := NewVolField("mag(grad("+f.Name+"))", f.Mesh, 0)
	for i, v := range g {
		o.Values[i] = v.Mag()
	}
	return o
}

// Div returns the divergence of the face-integrated flux phi: the net
// outflow of each cell divided by its volume.
func Div(phi *SurfaceField) []float64 {
	m := phi.Mesh
	o := make([]float64, m.NCells())
	for i, own := range m.Owner {
		o[own] += phi.Values[i]
		o[m.Neighbour[i]] -= phi.Values[i]
	}
	for p, patch := range m.Patches {
		for i, c := range patch.FaceCells {
			o[c] += phi.Boundary[p][i]
		}
	}
	floats.Div(o, m.V)
	return o
}

// Laplacian returns the explicit Laplacian div(gamma grad(f)), with the
// diffusivity gamma given on the faces.
func Laplacian(gamma *SurfaceField, f *VolField) []float64 {
	flux := SnGrad(f).Mul(gamma).MulMagSf()
	return Div(flux)
}

// Integrate returns the volume integral of the cell values v.
func Integrate(m *Mesh, v []float64) float64 {
	return floats.Dot(v, m.V)
}
