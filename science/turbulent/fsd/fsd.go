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

// Package fsd contains an algebraic Flame Surface Density reaction rate
// for large eddy simulation. The unresolved wrinkling of the flame front
// within a cell is given by the efficiency function of Charlette, Meneveau
// and Veynante (2002).
package fsd

import (
	"fmt"
	"math"

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
)

// Coeffs are the FSD coefficients.
type Coeffs struct {
	// Beta is the exponent of the wrinkling factor.
	Beta float64

	// Ck is the Kolmogorov constant.
	Ck float64
}

// ParseCoeffs reads the FSD coefficients from dict.
func ParseCoeffs(dict flamefoam.Dict) (Coeffs, error) {
	var c Coeffs
	b, err := dict.PositiveDefault("beta", flamefoam.Dimless, 0.5)
	if err != nil {
		return c, err
	}
	c.Beta = b.Value()
	ck, err := dict.PositiveDefault("Ck", flamefoam.Dimless, 1.5)
	if err != nil {
		return c, err
	}
	c.Ck = ck.Value()
	return c, nil
}

// Exponent of the efficiency function bridging its limits.
const bRe = 1.4

// Efficiency returns the Charlette efficiency function Γ for the filter
// to flame thickness ratio delta, the velocity ratio u'/sL and the
// sub-grid Reynolds number reDelta = u'Δ/ν.
func (c Coeffs) Efficiency(delta, uRatio, reDelta float64) float64 {
	pi43 := math.Pow(math.Pi, 4.0/3.0)
	a := 0.6 + 0.2*math.Exp(-0.1*uRatio) - 0.2*math.Exp(-0.01*delta)
	fu := 4 * math.Sqrt(27*c.Ck/110) * (18 * c.Ck / 55) * uRatio * uRatio
	fd := math.Sqrt(27 * c.Ck * pi43 / 110 * math.Max(math.Pow(delta, 4.0/3.0)-1, 0))
	fRe := math.Sqrt(9.0/55*math.Exp(-1.5*c.Ck*pi43/flamefoam.Floor(reDelta, flamefoam.SMALL))) *
		math.Sqrt(math.Max(reDelta, 0))

	inner := math.Pow(math.Pow(fu, -a)+math.Pow(fd, -a), -1/a)
	g := math.Pow(math.Pow(inner, -bRe)+math.Pow(fRe, -bRe), -1/bRe)
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0
	}
	return g
}

// Wrinkling returns the sub-grid wrinkling factor
// Ξ = (1 + min(Δ/δL − 1, Γ·u'/sL))^β for the filter width filter [m], the
// laminar flame thickness deltaL [m], the velocity fluctuation uPrime and
// the laminar burning velocity sL [m/s], and the kinematic viscosity nu
// [m²/s]. Ξ is at least 1, and is 1 where the flame is resolved.
func (c Coeffs) Wrinkling(filter, deltaL, uPrime, sL, nu float64) float64 {
	delta := filter / flamefoam.Floor(deltaL, flamefoam.SMALL)
	if !(delta > 1) {
		return 1
	}
	uRatio := uPrime / flamefoam.Floor(sL, flamefoam.SMALL)
	re := uPrime * filter / flamefoam.Floor(nu, flamefoam.SMALL)
	g := c.Efficiency(delta, uRatio, re)
	xi := math.Pow(1+math.Min(delta-1, g*uRatio), c.Beta)
	if math.IsInf(xi, 1) {
		return 1
	}
	return flamefoam.Floor(xi, 1)
}

// FSD is a ReactionRate with the fuel consumed at
// ρU·sL·Ξ·|∇c|·Y_H2_0.
type FSD struct {
	*flamefoam.Base

	lbv     flamefoam.LaminarBurningVelocity
	lbvName string

	coeffs Coeffs
	xi     *fv.VolField
}

// New returns an FSD reaction rate configured from dict, sharing the
// state rr with the laminar burning velocity lbv, which was selected by
// lbvName.
func New(dict flamefoam.Dict, rr *flamefoam.Base, lbv flamefoam.LaminarBurningVelocity, lbvName string) (*FSD, error) {
	if lbv == nil {
		return nil, fmt.Errorf("fsd: nil laminar burning velocity")
	}
	c, err := ParseCoeffs(dict)
	if err != nil {
		return nil, err
	}
	return &FSD{
		Base:    rr,
		lbv:     lbv,
		lbvName: lbvName,
		coeffs:  c,
		xi:      fv.NewVolField("Xi", rr.Mesh(), 1),
	}, nil
}

// Coeffs returns the current FSD coefficients.
func (f *FSD) Coeffs() Coeffs { return f.coeffs }

// Xi returns the wrinkling factor of the last Correct.
func (f *FSD) Xi() *fv.VolField { return f.xi }

// Correct implements flamefoam.ReactionRate. The filter width is the cube
// root of the cell volume and the laminar flame thickness is μU/(ρU·sL).
func (f *FSD) Correct() {
	f.lbv.Correct()
	sL := f.lbv.SL().Values
	k := f.Turbulence().K().Values
	rhoU := f.RhoU().Values
	muU := f.MuU().Values
	filter := f.Mesh().Delta()
	st := make([]float64, len(sL))
	for i := range st {
		nu := muU[i] / flamefoam.Floor(rhoU[i], flamefoam.SMALL)
		deltaL := nu / flamefoam.Floor(sL[i], flamefoam.SMALL)
		uPrime := math.Sqrt(2 * math.Max(k[i], 0) / 3)
		f.xi.Values[i] = f.coeffs.Wrinkling(filter[i], deltaL, uPrime, sL[i], nu)
		st[i] = sL[i] * f.xi.Values[i]
	}
	f.Consume(f.RhoU(), st, f.lbv.SL())
}

// Read reloads the shared, FSD and laminar burning velocity coefficients.
// If it returns an error the previous coefficients are kept.
func (f *FSD) Read(dict flamefoam.Dict) error {
	c, err := ParseCoeffs(dict)
	if err != nil {
		return err
	}
	if err := f.ReadLaminar(dict, f.lbv, f.lbvName); err != nil {
		return err
	}
	f.coeffs = c
	return nil
}
