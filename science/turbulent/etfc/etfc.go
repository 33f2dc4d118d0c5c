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

// Package etfc contains the Extended Turbulent Flame speed Closure, in
// which the turbulent flame speed of the TFC develops from the laminar
// one over the Lagrangian time scale of the turbulence.
package etfc

import (
	"math"

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/science/turbulent/tfc"
)

// Development returns the fraction of the fully developed turbulent flame
// speed reached after the time t for the Lagrangian time scale tau,
// sqrt(1 + τ/t·(exp(−t/τ) − 1)). It rises from 0 at t = 0 to 1 as
// t/τ → ∞.
func Development(t, tau float64) float64 {
	if !(t > flamefoam.SMALL) {
		return 0
	}
	x := t / flamefoam.Floor(tau, flamefoam.VSMALL)
	if math.IsInf(x, 1) {
		return 1
	}
	if x < 1e-8 {
		return math.Sqrt(x / 2)
	}
	return math.Sqrt(flamefoam.Clamp(1+math.Expm1(-x)/x, 0, 1))
}

// ETFC is a TFC reaction rate with a time-dependent turbulent flame
// speed.
type ETFC struct {
	*tfc.TFC

	// ctau is the constant of the Lagrangian time scale Cτ·νt/k.
	ctau float64
}

func parseCtau(dict flamefoam.Dict) (float64, error) {
	c, err := dict.PositiveDefault("Ctau", flamefoam.Dimless, 1.5/0.7)
	if err != nil {
		return 0, err
	}
	return c.Value(), nil
}

// New returns an ETFC reaction rate configured from dict. The arguments
// are those of tfc.New.
func New(dict flamefoam.Dict, rr *flamefoam.Base, lbv flamefoam.LaminarBurningVelocity, lbvName string) (*ETFC, error) {
	ctau, err := parseCtau(dict)
	if err != nil {
		return nil, err
	}
	t, err := tfc.New(dict, rr, lbv, lbvName)
	if err != nil {
		return nil, err
	}
	return &ETFC{TFC: t, ctau: ctau}, nil
}

// Ctau returns the constant of the Lagrangian time scale.
func (e *ETFC) Ctau() float64 { return e.ctau }

// Correct implements flamefoam.ReactionRate. St is the fully developed
// speed of the TFC scaled by Development at the current simulation time,
// and is never below the laminar burning velocity.
func (e *ETFC) Correct() {
	in := e.Update()
	t := e.Clock().Value()
	k := e.Turbulence().K().Values
	nut := e.Turbulence().Nut().Values
	st := e.St().Values
	for i := range st {
		tau := e.ctau * nut[i] / flamefoam.Floor(k[i], flamefoam.SMALL)
		st[i] = flamefoam.Floor(st[i]*Development(t, tau), in[i].SL)
	}
	e.Consume(e.RhoU(), st, e.Laminar().SL())
}

// Read reloads the ETFC coefficients along with those of the TFC. If it
// returns an error the previous coefficients are kept.
func (e *ETFC) Read(dict flamefoam.Dict) error {
	ctau, err := parseCtau(dict)
	if err != nil {
		return err
	}
	if err := e.TFC.Read(dict); err != nil {
		return err
	}
	e.ctau = ctau
	return nil
}
