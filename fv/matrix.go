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
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix is an LDU-addressed finite-volume equation A·x = Source for the
// cell values x of a field. All coefficients are volume integrated.
// Boundary contributions are folded into Diag and Source when the
// matrix is assembled.
type Matrix struct {
	Mesh *Mesh

	// Field is the name of the field the equation is for.
	Field string

	// Diag holds the diagonal coefficient of each cell.
	Diag []float64

	// Upper holds, for each internal face, the coefficient of the
	// neighbour value in the owner's row. Lower holds the coefficient
	// of the owner value in the neighbour's row.
	Upper, Lower []float64

	Source []float64
}

// NewMatrix returns an empty equation for field f.
func NewMatrix(f *VolField) *Matrix {
	m := f.Mesh
	return &Matrix{
		Mesh:   m,
		Field:  f.Name,
		Diag:   make([]float64, m.NCells()),
		Upper:  make([]float64, m.NFaces()),
		Lower:  make([]float64, m.NFaces()),
		Source: make([]float64, m.NCells()),
	}
}

// Su returns the equation for the explicit source su [per unit volume]
// of field f.
func Su(su []float64, f *VolField) *Matrix {
	a := NewMatrix(f)
	for i, v := range f.Mesh.V {
		a.Source[i] = -su[i] * v
	}
	return a
}

// Sp returns the equation for the implicit source sp·f, where sp is a
// per unit volume coefficient.
func Sp(sp []float64, f *VolField) *Matrix {
	a := NewMatrix(f)
	for i, v := range f.Mesh.V {
		a.Diag[i] = sp[i] * v
	}
	return a
}

// LaplacianMatrix returns the implicit discretisation of
// div(gamma grad(f)), with gamma given on the faces.
func LaplacianMatrix(gamma *SurfaceField, f *VolField) *Matrix {
	m := f.Mesh
	a := NewMatrix(f)
	for i, own := range m.Owner {
		coeff := gamma.Values[i] * m.MagSf[i] * m.DeltaCoeffs[i]
		a.Upper[i] = coeff
		a.Lower[i] = coeff
		a.Diag[own] -= coeff
		a.Diag[m.Neighbour[i]] -= coeff
	}
	for p, patch := range m.Patches {
		bc := f.BCs[p]
		if bc.Type == ZeroGradient {
			continue
		}
		for i, c := range patch.FaceCells {
			coeff := gamma.Boundary[p][i] * patch.MagSf[i] * patch.DeltaCoeffs[i]
			a.Diag[c] -= coeff
			a.Source[c] -= coeff * bc.Values[i]
		}
	}
	return a
}

// LaplacianCorrection returns the implicit Laplacian of f minus its
// explicit Laplacian evaluated on the current values of f. The result
// vanishes when applied to the current field and so only affects the
// convergence path of a solution, not its converged value.
func LaplacianCorrection(gamma *SurfaceField, f *VolField) *Matrix {
	a := LaplacianMatrix(gamma, f)
	lap := Laplacian(gamma, f)
	floats.Scale(-1, lap)
	return a.Add(Su(lap, f))
}

func (a *Matrix) check(b *Matrix) {
	if a.Mesh != b.Mesh {
		panic(fmt.Errorf("fv: matrices for %s and %s are on different meshes", a.Field, b.Field))
	}
}

// Add adds b to a in place and returns a.
func (a *Matrix) Add(b *Matrix) *Matrix {
	a.check(b)
	floats.Add(a.Diag, b.Diag)
	floats.Add(a.Upper, b.Upper)
	floats.Add(a.Lower, b.Lower)
	floats.Add(a.Source, b.Source)
	return a
}

// Sub subtracts b from a in place and returns a.
func (a *Matrix) Sub(b *Matrix) *Matrix {
	a.check(b)
	floats.Sub(a.Diag, b.Diag)
	floats.Sub(a.Upper, b.Upper)
	floats.Sub(a.Lower, b.Lower)
	floats.Sub(a.Source, b.Source)
	return a
}

// Negate changes the sign of every coefficient of a and returns a.
func (a *Matrix) Negate() *Matrix {
	floats.Scale(-1, a.Diag)
	floats.Scale(-1, a.Upper)
	floats.Scale(-1, a.Lower)
	floats.Scale(-1, a.Source)
	return a
}

// MatVec returns A·x.
func (a *Matrix) MatVec(x []float64) []float64 {
	y := make([]float64, len(a.Diag))
	for i, d := range a.Diag {
		y[i] = d * x[i]
	}
	for i, own := range a.Mesh.Owner {
		nei := a.Mesh.Neighbour[i]
		y[own] += a.Upper[i] * x[nei]
		y[nei] += a.Lower[i] * x[own]
	}
	return y
}

// Residual returns (A·x − Source)/V, the per unit volume value of the
// assembled operator applied to x.
func (a *Matrix) Residual(x []float64) []float64 {
	y := a.MatVec(x)
	floats.Sub(y, a.Source)
	floats.Div(y, a.Mesh.V)
	return y
}

// Dense returns A as a dense matrix.
func (a *Matrix) Dense() *mat.Dense {
	n := len(a.Diag)
	d := mat.NewDense(n, n, nil)
	for i, v := range a.Diag {
		d.Set(i, i, v)
	}
	for i, own := range a.Mesh.Owner {
		nei := a.Mesh.Neighbour[i]
		d.Set(own, nei, d.At(own, nei)+a.Upper[i])
		d.Set(nei, own, d.At(nei, own)+a.Lower[i])
	}
	return d
}
