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

// Package flamefoam holds closure models for turbulent premixed
// hydrogen/air combustion in finite-volume solvers. A ReactionRate turns
// the progress of the hydrogen consumption into species and heat release
// source terms, using a LaminarBurningVelocity and a turbulent flame speed
// closure. The Model type owns one ReactionRate and exposes it to the
// host solver.
//
// Particular closures are in the science subdirectories, and they are
// assembled from configuration by package flameutil.
package flamefoam

import (
	"math"

	"github.com/ctessum/unit"
)

// Version gives the version number.
const Version = "0.3.0"

const (
	// SMALL is the floor used to keep divisors and logarithm arguments
	// away from zero.
	SMALL = 1.0e-15

	// VSMALL is a smaller floor for quantities that are legitimately
	// tiny.
	VSMALL = 1.0e-300

	// RUniversal is the universal gas constant [J/mol/K].
	RUniversal = 8.314462618
)

// Molar masses [kg/mol].
const (
	MolarH2  = 2.01588e-3
	MolarO2  = 31.9988e-3
	MolarH2O = 18.01528e-3
	MolarN2  = 28.0134e-3

	// MolarAir is the molar mass of dry air, with argon lumped into
	// the nitrogen.
	MolarAir = xO2Air*MolarO2 + (1-xO2Air)*MolarN2
)

// Mole fraction of oxygen in dry air.
const xO2Air = 0.20946

// MoleDim is the dimension representing an amount of substance.
var MoleDim = unit.NewDimension("mole")

// Dimensions of the model coefficients and fields.
var (
	Dimless           = unit.Dimless
	Kelvin            = unit.Kelvin
	Pascal            = unit.Pascal
	MeterPerSecond    = unit.MeterPerSecond
	KilogramPerMeter3 = unit.KilogramPerMeter3

	// KinematicDiffusivity is the dimension of alpha_u and νt [m²/s].
	KinematicDiffusivity = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -1}

	// DynamicDiffusivity is the dimension of DEff and alphat [kg/m/s].
	DynamicDiffusivity = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -1}

	// JoulePerMole is the dimension of the heat of combustion H0.
	JoulePerMole = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2, MoleDim: -1}

	// JoulePerKilogram is the dimension of HEff.
	JoulePerKilogram = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2}

	// KilogramPerMole is the dimension of molar masses.
	KilogramPerMole = unit.Dimensions{unit.MassDim: 1, MoleDim: -1}

	// MassRate is the dimension of the species source terms [kg/m³/s].
	MassRate = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -3, unit.TimeDim: -1}

	// HeatRelease is the dimension of Qdot [W/m³].
	HeatRelease = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -3}

	// Viscosity is the dimension of the dynamic viscosity [kg/m/s].
	Viscosity = DynamicDiffusivity

	// SpecificHeat is the dimension of heat capacities [J/kg/K].
	SpecificHeat = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2, unit.TemperatureDim: -1}

	// Conductivity is the dimension of thermal conductivities [W/m/K].
	Conductivity = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 1, unit.TimeDim: -3, unit.TemperatureDim: -1}
)

// Floor returns x, or floor if x is smaller than floor or is NaN.
func Floor(x, floor float64) float64 {
	if x < floor || math.IsNaN(x) {
		return floor
	}
	return x
}

// Clamp limits x to the interval [lo, hi]. NaN is mapped to lo.
func Clamp(x, lo, hi float64) float64 {
	if x > hi {
		return hi
	}
	if x < lo || math.IsNaN(x) {
		return lo
	}
	return x
}

// NonNegative returns x if it is finite and positive, and zero otherwise.
func NonNegative(x float64) float64 {
	if x > 0 && !math.IsInf(x, 1) {
		return x
	}
	return 0
}
