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

	"github.com/flamefoam/flamefoam/fv"
)

// Thermo is the thermophysical state of the mixture, owned by the host
// solver.
type Thermo interface {
	Mesh() *fv.Mesh

	// T returns the temperature [K].
	T() *fv.VolField

	// P returns the pressure [Pa].
	P() *fv.VolField

	// Rho returns the density [kg/m³].
	Rho() *fv.VolField

	// Kappa returns the laminar thermal conductivity [W/m/K].
	Kappa() *fv.VolField

	// Cp returns the mixture heat capacity [J/kg/K].
	Cp() *fv.VolField

	// Species returns the names of the transported species.
	Species() []string

	// Y returns the species mass fractions, in the order of Species.
	Y() []*fv.VolField

	// Hs returns the sensible enthalpy of specie i at the local
	// temperature [J/kg].
	Hs(i int) *fv.VolField
}

// Turbulence supplies the turbulence quantities, owned by the host solver.
type Turbulence interface {
	// Nut returns the turbulent kinematic viscosity [m²/s].
	Nut() *fv.VolField

	// K returns the turbulent kinetic energy [m²/s²].
	K() *fv.VolField
}

// Clock returns the current simulation time [s].
type Clock interface {
	Value() float64
}

// SpecieIndex returns the index of the named specie in th, or -1 if
// there is no such specie.
func SpecieIndex(th Thermo, name string) int {
	for i, n := range th.Species() {
		if n == name {
			return i
		}
	}
	return -1
}

// State is a Thermo, Turbulence and Clock backed by plain fields. It
// stands in for a host solver in the command-line tools and tests.
type State struct {
	Grid *fv.Mesh

	Temperature, Pressure, Density *fv.VolField
	Conductivity, HeatCapacity     *fv.VolField

	Names         []string
	MassFractions []*fv.VolField

	// SpecieCp holds a constant heat capacity [J/kg/K] for each specie,
	// used for the sensible enthalpies.
	SpecieCp []float64

	// TStd is the sensible enthalpy datum temperature [K].
	TStd float64

	EddyViscosity, KineticEnergy *fv.VolField

	Time float64
}

// Check returns an error if the fields of s are inconsistent.
func (s *State) Check() error {
	if len(s.Names) != len(s.MassFractions) || len(s.Names) != len(s.SpecieCp) {
		return fmt.Errorf("flamefoam: %d species names, %d mass fractions and %d heat capacities",
			len(s.Names), len(s.MassFractions), len(s.SpecieCp))
	}
	fields := append([]*fv.VolField{s.Temperature, s.Pressure, s.Density, s.Conductivity,
		s.HeatCapacity, s.EddyViscosity, s.KineticEnergy}, s.MassFractions...)
	for _, f := range fields {
		if f == nil {
			return fmt.Errorf("flamefoam: missing state field")
		}
		if f.Mesh != s.Grid {
			return fmt.Errorf("flamefoam: field %s is not on the state mesh", f.Name)
		}
	}
	return nil
}

// Mesh returns the mesh.
func (s *State) Mesh() *fv.Mesh { return s.Grid }

// T returns the temperature [K].
func (s *State) T() *fv.VolField { return s.Temperature }

// P returns the pressure [Pa].
func (s *State) P() *fv.VolField { return s.Pressure }

// Rho returns the density [kg/m³].
func (s *State) Rho() *fv.VolField { return s.Density }

// Kappa returns the thermal conductivity [W/m/K].
func (s *State) Kappa() *fv.VolField { return s.Conductivity }

// Cp returns the heat capacity of the mixture [J/kg/K].
func (s *State) Cp() *fv.VolField { return s.HeatCapacity }

// Species returns the specie names.
func (s *State) Species() []string { return s.Names }

// Y returns the specie mass fractions.
func (s *State) Y() []*fv.VolField { return s.MassFractions }

// Nut returns the turbulent kinematic viscosity [m²/s].
func (s *State) Nut() *fv.VolField { return s.EddyViscosity }

// K returns the turbulent kinetic energy [m²/s²].
func (s *State) K() *fv.VolField { return s.KineticEnergy }

// Value returns the simulation time [s].
func (s *State) Value() float64 { return s.Time }

// Hs returns the sensible enthalpy of specie i.
func (s *State) Hs(i int) *fv.VolField {
	cp, tStd := s.SpecieCp[i], s.TStd
	return fv.Map("hs."+s.Names[i], func(x ...float64) float64 {
		return cp * (x[0] - tStd)
	}, s.Temperature)
}
