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
	"math"

	"github.com/flamefoam/flamefoam/fv"
)

// Profile describes a planar premixed flame in a one-dimensional
// channel, with the unburnt mixture at x = 0 and the products at x =
// Length.
type Profile struct {
	// Cells is the number of cells along the channel, which is Length
	// long and Width wide [m].
	Cells         int
	Length, Width float64

	// Position and Thickness locate the flame front [m].
	Position, Thickness float64

	// Pressure [Pa], and unburnt and burnt temperatures [K].
	Pressure, TUnburnt, TBurnt float64

	// XH2 is the dry-basis hydrogen mole fraction, and XH2O the steam
	// mole fraction, of the unburnt mixture.
	XH2, XH2O float64

	// K [m²/s²] and Nut [m²/s] are the uniform turbulence quantities.
	K, Nut float64

	// Time is the simulation time [s].
	Time float64

	// Progress adds a transported progress variable specie named c.
	Progress bool
}

// DefaultProfile returns a lean (X_H2 = 0.1) flame at atmospheric
// conditions in a 1 cm channel.
func DefaultProfile() Profile {
	return Profile{
		Cells:     50,
		Length:    0.01,
		Width:     0.001,
		Position:  0.005,
		Thickness: 0.001,
		Pressure:  101325,
		TUnburnt:  298.15,
		TBurnt:    1100,
		XH2:       0.1,
		K:         0.5,
		Nut:       1e-4,
		Time:      0.01,
	}
}

// Specie heat capacities [J/kg/K] near room temperature, and thermal
// conductivity of the mixture [W/m/K].
var specieCp = map[string]float64{
	"H2":  14300,
	"O2":  918,
	"H2O": 1864,
	"N2":  1040,
	"c":   0,
}

const mixtureKappa = 0.035

// Stoichiometric limit of the dry-basis hydrogen fraction.
const xH2Stoich = 2 * xO2Air / (1 + 2*xO2Air)

// State returns the fields of the flame.
func (p Profile) State() (*State, error) {
	if !(p.XH2 > 0 && p.XH2 <= xH2Stoich) {
		return nil, fmt.Errorf("flamefoam: profile X_H2=%g should be lean, in (0, %.4f]", p.XH2, xH2Stoich)
	}
	if !(p.XH2O >= 0 && p.XH2O < 1) {
		return nil, fmt.Errorf("flamefoam: profile X_H2O=%g should be in [0, 1)", p.XH2O)
	}
	if p.Thickness <= 0 || p.Pressure <= 0 || p.TUnburnt <= 0 || p.TBurnt < p.TUnburnt {
		return nil, fmt.Errorf("flamefoam: invalid profile %+v", p)
	}
	if p.K < 0 || p.Nut < 0 {
		return nil, fmt.Errorf("flamefoam: profile turbulence k=%g, nut=%g should be non-negative", p.K, p.Nut)
	}
	m, err := fv.NewBlockMesh(p.Cells, 1, 1, p.Length, p.Width, p.Width)
	if err != nil {
		return nil, err
	}

	names := []string{"H2", "O2", "H2O", "N2"}
	if p.Progress {
		names = append(names, "c")
	}
	xH2, xH2O, xAir := UnburntMoleFractions(p.XH2, p.XH2O)
	xu := []float64{xH2, xAir * xO2Air, xH2O, xAir * (1 - xO2Air)}
	w := []float64{MolarH2, MolarO2, MolarH2O, MolarN2}
	var wu float64
	for i, x := range xu {
		wu += x * w[i]
	}
	yu := make([]float64, len(names))
	for i, x := range xu {
		yu[i] = x * w[i] / wu
	}
	yb := append([]float64(nil), yu...)
	yb[0] = 0
	yb[1] = yu[1] - sO2*yu[0]
	yb[2] = yu[2] + sH2O*yu[0]
	if p.Progress {
		yu[4], yb[4] = 0, 1
	}

	s := &State{
		Grid:          m,
		Temperature:   fv.NewVolField("T", m, 0),
		Pressure:      fv.NewVolField("p", m, p.Pressure),
		Density:       fv.NewVolField("rho", m, 0),
		Conductivity:  fv.NewVolField("kappa", m, mixtureKappa),
		HeatCapacity:  fv.NewVolField("Cp", m, 0),
		Names:         names,
		TStd:          298.15,
		EddyViscosity: fv.NewVolField("nut", m, p.Nut),
		KineticEnergy: fv.NewVolField("k", m, p.K),
		Time:          p.Time,
	}
	for _, n := range names {
		s.MassFractions = append(s.MassFractions, fv.NewVolField(n, m, 0))
		s.SpecieCp = append(s.SpecieCp, specieCp[n])
	}
	for c, x := range m.C {
		progress := 0.5 * (1 + math.Tanh((x[0]-p.Position)/p.Thickness))
		s.Temperature.Values[c] = p.TUnburnt + progress*(p.TBurnt-p.TUnburnt)
		var invW, cp float64
		for i, y := range s.MassFractions {
			y.Values[c] = yu[i] + progress*(yb[i]-yu[i])
			cp += y.Values[c] * s.SpecieCp[i]
			if i < len(w) {
				invW += y.Values[c] / w[i]
			}
		}
		s.HeatCapacity.Values[c] = cp
		s.Density.Values[c] = p.Pressure / (RUniversal * invW * s.Temperature.Values[c])
	}
	return s, s.Check()
}

// Coeffs returns reaction rate coefficients consistent with p.
func (p Profile) Coeffs() Dict {
	return Dict{
		"H0":     241.8e3,
		"yIndex": 0,
		"X_H2_0": p.XH2,
		"X_H2O":  p.XH2O,
		"p0":     p.Pressure,
		"T0":     p.TUnburnt,
	}
}
