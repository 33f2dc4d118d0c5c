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

import "github.com/flamefoam/flamefoam/fv"

// ThermophysicalTransport computes the diffusive energy flux of the
// mixture for the energy equation of the host solver.
type ThermophysicalTransport interface {
	// DEff returns the effective mass diffusivity of the species
	// [kg/m/s].
	DEff() *fv.VolField

	// Q returns the diffusive heat flux through the mesh faces [W/m²].
	Q() *fv.SurfaceField

	// DivQ returns the divergence of the heat flux as a contribution to
	// the equation of the energy field he. Its residual at he equals the
	// divergence of Q.
	DivQ(he *fv.VolField) *fv.Matrix

	// Read reloads the model coefficients. If it returns an error the
	// previous coefficients are kept.
	Read(dict Dict) error
}
