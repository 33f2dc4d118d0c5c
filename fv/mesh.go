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

// Package fv holds the minimal finite-volume host representation that the
// combustion closures operate on: a face-addressed mesh, cell and face
// scalar fields, explicit operators, and an LDU matrix.
package fv

import (
	"fmt"
	"math"
)

// Vector is a three-component vector.
type Vector [3]float64

// Dot returns the inner product of v and u.
func (v Vector) Dot(u Vector) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Mag returns the magnitude of v.
func (v Vector) Mag() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{v[0] * s, v[1] * s, v[2] * s}
}

// Patch is a named set of boundary faces.
type Patch struct {
	Name string

	// FaceCells holds the owner cell of each face.
	FaceCells []int

	// Sf holds the outward-pointing face area vectors [m²].
	Sf []Vector

	// MagSf holds the face areas [m²].
	MagSf []float64

	// DeltaCoeffs holds the inverse distance between the owner cell
	// centre and the face centre [1/m].
	DeltaCoeffs []float64
}

// Size returns the number of faces in the patch.
func (p *Patch) Size() int { return len(p.FaceCells) }

// Mesh is a face-addressed finite-volume mesh. Internal face f connects
// cell Owner[f] to cell Neighbour[f], and its area vector Sf[f] points
// from the owner to the neighbour.
type Mesh struct {
	// V holds the cell volumes [m³].
	V []float64

	// C holds the cell centres [m].
	C []Vector

	Owner, Neighbour []int

	// Sf and MagSf are the internal face area vectors and areas.
	Sf    []Vector
	MagSf []float64

	// DeltaCoeffs holds the inverse owner-neighbour centre distance of
	// each internal face.
	DeltaCoeffs []float64

	// Weights holds the linear interpolation weight of the owner value
	// at each internal face.
	Weights []float64

	Patches []*Patch
}

// NCells returns the number of cells in the mesh.
func (m *Mesh) NCells() int { return len(m.V) }

// NFaces returns the number of internal faces in the mesh.
func (m *Mesh) NFaces() int { return len(m.Owner) }

// PatchIndex returns the index of the patch with the given name.
func (m *Mesh) PatchIndex(name string) (int, error) {
	for i, p := range m.Patches {
		if p.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("fv: no patch named %s", name)
}

// Delta returns the cube root of the cell volumes, the implicit filter
// width of a large-eddy simulation on this mesh.
func (m *Mesh) Delta() []float64 {
	o := make([]float64, len(m.V))
	for i, v := range m.V {
		o[i] = math.Cbrt(v)
	}
	return o
}

// NewBlockMesh returns a structured hexahedral mesh of nx × ny × nz
// uniform cells spanning lx × ly × lz meters, with the lower corner at
// the origin. It has six patches, named xMin, xMax, yMin, yMax, zMin and
// zMax.
func NewBlockMesh(nx, ny, nz int, lx, ly, lz float64) (*Mesh, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("fv: invalid block mesh size %dx%dx%d", nx, ny, nz)
	}
	if lx <= 0 || ly <= 0 || lz <= 0 {
		return nil, fmt.Errorf("fv: invalid block mesh extent %gx%gx%g", lx, ly, lz)
	}
	dx, dy, dz := lx/float64(nx), ly/float64(ny), lz/float64(nz)
	n := nx * ny * nz
	m := &Mesh{
		V: make([]float64, n),
		C: make([]Vector, n),
	}
	index := func(i, j, k int) int { return i + nx*(j+ny*k) }
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := index(i, j, k)
				m.V[c] = dx * dy * dz
				m.C[c] = Vector{(float64(i) + 0.5) * dx, (float64(j) + 0.5) * dy, (float64(k) + 0.5) * dz}
			}
		}
	}

	// Spacing and face area normal to each direction.
	d := [3]float64{dx, dy, dz}
	area := [3]float64{dy * dz, dx * dz, dx * dy}
	size := [3]int{nx, ny, nz}

	addFace := func(owner, neighbour, dir int) {
		var sf Vector
		sf[dir] = area[dir]
		m.Owner = append(m.Owner, owner)
		m.Neighbour = append(m.Neighbour, neighbour)
		m.Sf = append(m.Sf, sf)
		m.MagSf = append(m.MagSf, area[dir])
		m.DeltaCoeffs = append(m.DeltaCoeffs, 1/d[dir])
		m.Weights = append(m.Weights, 0.5)
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := index(i, j, k)
				if i+1 < nx {
					addFace(c, index(i+1, j, k), 0)
				}
				if j+1 < ny {
					addFace(c, index(i, j+1, k), 1)
				}
				if k+1 < nz {
					addFace(c, index(i, j, k+1), 2)
				}
			}
		}
	}

	names := [3][2]string{{"xMin", "xMax"}, {"yMin", "yMax"}, {"zMin", "zMax"}}
	for dir := 0; dir < 3; dir++ {
		for side := 0; side < 2; side++ {
			p := &Patch{Name: names[dir][side]}
			var sf Vector
			sf[dir] = area[dir]
			if side == 0 {
				sf[dir] = -area[dir]
			}
			for k := 0; k < nz; k++ {
				for j := 0; j < ny; j++ {
					for i := 0; i < nx; i++ {
						ijk := [3]int{i, j, k}
						if side == 0 && ijk[dir] != 0 || side == 1 && ijk[dir] != size[dir]-1 {
							continue
						}
						p.FaceCells = append(p.FaceCells, index(i, j, k))
						p.Sf = append(p.Sf, sf)
						p.MagSf = append(p.MagSf, area[dir])
						p.DeltaCoeffs = append(p.DeltaCoeffs, 2/d[dir])
					}
				}
			}
			m.Patches = append(m.Patches, p)
		}
	}
	return m, nil
}
