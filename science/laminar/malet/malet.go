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

// Package malet contains a correlation for the laminar burning velocity
// of lean hydrogen/air/steam mixtures, after Malet (2005).
package malet

import (
	"fmt"
	"math"

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
)

// Fitted domain of the correlation.
const (
	phiMin, phiMax       = 0.25, 1.0
	steamMax             = 0.4
	pRatioMin, pRatioMax = 0.1, 50.0
	tRatioMin, tRatioMax = 0.5, 4.0

	// Oxygen to dry air mole ratio, for the equivalence ratio.
	o2Air = 0.42

	// Default dry-basis hydrogen fraction of the reference mixture.
	xRefDefault = 0.1
)

// Coeffs are the coefficients of the correlation.
type Coeffs struct {
	// XH2_0 is the dry-basis hydrogen mole fraction and XH2O the steam
	// mole fraction of the unburnt mixture.
	XH2_0, XH2O float64

	// ER is the equivalence ratio setting the pressure and temperature
	// exponents.
	ER float64

	// SLaminar0 is the burning velocity at the reference state [m/s].
	SLaminar0 float64

	// XRef is the dry-basis hydrogen mole fraction of the reference
	// mixture, which burns at SLaminar0.
	XRef float64

	// PRef [Pa] and TRef [K] are the reference pressure and temperature.
	PRef, TRef float64
}

// Phi returns the equivalence ratio of a mixture with the dry-basis
// hydrogen mole fraction x.
func Phi(x float64) float64 {
	x = flamefoam.Clamp(x, 0, 1-flamefoam.SMALL)
	return x / (1 - x) / o2Air
}

// shape is the lean-branch fit of the burning velocity against the
// equivalence ratio.
func shape(phi float64) float64 {
	phi = flamefoam.Clamp(phi, phiMin, phiMax)
	return 1.44*phi*phi + 1.07*phi - 0.29
}

// Alpha returns the temperature exponent at equivalence ratio er.
func Alpha(er float64) float64 { return 2.18 - 0.8*(er-1) }

// Beta returns the pressure exponent at equivalence ratio er.
func Beta(er float64) float64 { return -0.16 + 0.22*(er-1) }

// Evaluate returns the laminar burning velocity [m/s] at pressure p [Pa]
// and unburnt temperature tu [K] of a mixture with the dry-basis
// hydrogen fraction xH2 diluted by the steam fraction xH2O. Inputs are
// clamped to the fitted domain, so the result is finite and
// non-negative.
func (c Coeffs) Evaluate(p, tu, xH2, xH2O float64) float64 {
	pr := flamefoam.Clamp(p/c.PRef, pRatioMin, pRatioMax)
	tr := flamefoam.Clamp(tu/c.TRef, tRatioMin, tRatioMax)
	steam := flamefoam.Clamp(xH2O, 0, steamMax)
	sL := c.SLaminar0 * (shape(Phi(xH2)) / shape(Phi(c.XRef))) *
		math.Pow(pr, Beta(c.ER)) * math.Pow(tr, Alpha(c.ER)) * (1 - 2.1*steam)
	return flamefoam.NonNegative(sL)
}

// ParseCoeffs reads the correlation coefficients from dict. The mixture
// composition defaults to that of the reaction rate rr, and the
// equivalence ratio to that of the mixture.
func ParseCoeffs(dict flamefoam.Dict, rr *flamefoam.Base) (Coeffs, error) {
	var c Coeffs
	base := rr.Coeffs()
	x, err := dict.ScalarDefault("X_H2_0", flamefoam.Dimless, base.XH2_0)
	if err != nil {
		return c, err
	}
	c.XH2_0 = x.Value()
	if !(c.XH2_0 > 0 && c.XH2_0 < 1) {
		return c, fmt.Errorf("malet: X_H2_0=%g but should be in (0, 1)", c.XH2_0)
	}
	s, err := dict.ScalarDefault("X_H2O", flamefoam.Dimless, base.XH2O)
	if err != nil {
		return c, err
	}
	c.XH2O = s.Value()
	if !(c.XH2O >= 0 && c.XH2O < 1) {
		return c, fmt.Errorf("malet: X_H2O=%g but should be in [0, 1)", c.XH2O)
	}
	er, err := dict.PositiveDefault("ER", flamefoam.Dimless, Phi(c.XH2_0))
	if err != nil {
		return c, err
	}
	c.ER = er.Value()
	sl, err := dict.Positive("sLaminar0", flamefoam.MeterPerSecond)
	if err != nil {
		return c, err
	}
	c.SLaminar0 = sl.Value()
	xRef, err := dict.ScalarDefault("X_H2Ref", flamefoam.Dimless, xRefDefault)
	if err != nil {
		return c, err
	}
	c.XRef = xRef.Value()
	if !(c.XRef > 0 && c.XRef < 1) {
		return c, fmt.Errorf("malet: X_H2Ref=%g but should be in (0, 1)", c.XRef)
	}
	pRef, err := dict.PositiveDefault("pRef", flamefoam.Pascal, 101325)
	if err != nil {
		return c, err
	}
	c.PRef = pRef.Value()
	tRef, err := dict.PositiveDefault("TRef", flamefoam.Kelvin, 298.15)
	if err != nil {
		return c, err
	}
	c.TRef = tRef.Value()
	return c, nil
}

// Malet is a LaminarBurningVelocity computed from the correlation, for
// the unburnt mixture of a reaction rate model.
type Malet struct {
	rr     *flamefoam.Base
	coeffs Coeffs
	sL     *fv.VolField
}

// New returns a correlation configured from dict.
func New(dict flamefoam.Dict, rr *flamefoam.Base) (*Malet, error) {
	c, err := ParseCoeffs(dict, rr)
	if err != nil {
		return nil, err
	}
	return &Malet{
		rr:     rr,
		coeffs: c,
		sL:     fv.NewVolField("sL", rr.Mesh(), c.SLaminar0),
	}, nil
}

// Coeffs returns the current coefficients.
func (m *Malet) Coeffs() Coeffs { return m.coeffs }

// Correct evaluates the correlation for the local pressure and unburnt
// temperature.
func (m *Malet) Correct() {
	p := m.rr.Thermo().P().Values
	tu := m.rr.TU().Values
	for i := range m.sL.Values {
		m.sL.Values[i] = m.coeffs.Evaluate(p[i], tu[i], m.coeffs.XH2_0, m.coeffs.XH2O)
	}
}

// Evaluate returns the burning velocity [m/s] of the correlation at
// pressure p [Pa] and unburnt temperature tu [K] of a mixture with the
// dry-basis hydrogen fraction xH2 and the steam fraction xH2O.
func (m *Malet) Evaluate(p, tu, xH2, xH2O float64) float64 {
	return m.coeffs.Evaluate(p, tu, xH2, xH2O)
}

// SL returns the laminar burning velocity [m/s].
func (m *Malet) SL() *fv.VolField { return m.sL }

// Read reloads the coefficients.
func (m *Malet) Read(dict flamefoam.Dict) error {
	c, err := ParseCoeffs(dict, m.rr)
	if err != nil {
		return err
	}
	m.coeffs = c
	return nil
}
