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

// Package nonunitylewis contains eddy-diffusivity closures for the heat
// flux of a reacting mixture. UnityLewisEddy diffuses heat and species
// alike. NonUnityLewisETFC gives the species their own diffusivity, with a
// laminar part set by the Lewis number of the unburnt mixture and a
// turbulent part that develops in time as in the ETFC combustion model.
package nonunitylewis

import (
	"fmt"
	"math"

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
)

// UnityLewisEddy is the eddy-diffusivity heat flux closure with a unity
// Lewis number.
type UnityLewisEddy struct {
	thermo flamefoam.Thermo
	turb   flamefoam.Turbulence

	// alpha is the phase fraction, or nil for a single phase.
	alpha *fv.VolField

	prt float64
}

func parsePrt(dict flamefoam.Dict) (float64, error) {
	prt, err := dict.Positive("Prt", flamefoam.Dimless)
	if err != nil {
		return 0, err
	}
	return prt.Value(), nil
}

// NewUnityLewisEddy returns a closure configured from dict, which holds
// the turbulent Prandtl number Prt. alpha is the phase fraction, or nil.
func NewUnityLewisEddy(dict flamefoam.Dict, thermo flamefoam.Thermo, turb flamefoam.Turbulence, alpha *fv.VolField) (*UnityLewisEddy, error) {
	prt, err := parsePrt(dict)
	if err != nil {
		return nil, err
	}
	return &UnityLewisEddy{thermo: thermo, turb: turb, alpha: alpha, prt: prt}, nil
}

// Prt returns the turbulent Prandtl number.
func (u *UnityLewisEddy) Prt() float64 { return u.prt }

// Thermo returns the thermophysical state.
func (u *UnityLewisEddy) Thermo() flamefoam.Thermo { return u.thermo }

// Turbulence returns the turbulence model.
func (u *UnityLewisEddy) Turbulence() flamefoam.Turbulence { return u.turb }

// Alphat returns the turbulent thermal diffusivity ρ·νt/Prt [kg/m/s].
func (u *UnityLewisEddy) Alphat() *fv.VolField {
	prt := u.prt
	return fv.Map("alphat", func(x ...float64) float64 {
		return x[0] * x[1] / prt
	}, u.thermo.Rho(), u.turb.Nut())
}

// KappaEff returns the effective thermal conductivity κ + Cp·alphat
// [W/m/K].
func (u *UnityLewisEddy) KappaEff() *fv.VolField {
	return fv.Map("kappaEff", func(x ...float64) float64 {
		return x[0] + x[1]*x[2]
	}, u.thermo.Kappa(), u.thermo.Cp(), u.Alphat())
}

// AlphaEff returns the effective thermal diffusivity κ/Cp + alphat
// [kg/m/s].
func (u *UnityLewisEddy) AlphaEff() *fv.VolField {
	return fv.Map("alphaEff", func(x ...float64) float64 {
		return x[0]/flamefoam.Floor(x[1], flamefoam.SMALL) + x[2]
	}, u.thermo.Kappa(), u.thermo.Cp(), u.Alphat())
}

// DEff returns the effective mass diffusivity, which equals AlphaEff.
func (u *UnityLewisEddy) DEff() *fv.VolField {
	d := u.AlphaEff()
	d.Name = "DEff"
	return d
}

// DEffY returns the effective diffusivity of the specie with mass
// fraction Yi, which is the same for every specie.
func (u *UnityLewisEddy) DEffY(Yi *fv.VolField) *fv.VolField { return u.DEff() }

// DEffPatch returns the effective diffusivity of the specie with mass
// fraction Yi on the faces of the given patch.
func (u *UnityLewisEddy) DEffPatch(Yi *fv.VolField, patch int) []float64 {
	return u.DEffY(Yi).BoundaryValues(patch)
}

// weighted returns α·f interpolated to the faces.
func (u *UnityLewisEddy) weighted(f *fv.VolField) *fv.SurfaceField {
	if u.alpha == nil {
		return fv.Interpolate(f)
	}
	return fv.Interpolate(fv.Map(f.Name, func(x ...float64) float64 {
		return x[0] * x[1]
	}, u.alpha, f))
}

// hGradY returns Σᵢ hsᵢ·snGrad(Yᵢ) on the faces.
func (u *UnityLewisEddy) hGradY() *fv.SurfaceField {
	o := fv.NewSurfaceField("hGradY", u.thermo.Mesh(), 0)
	for i, y := range u.thermo.Y() {
		o.Add(fv.Interpolate(u.thermo.Hs(i)).Mul(fv.SnGrad(y)))
	}
	return o
}

// flux returns the heat flux for the species diffusivity dEff.
func (u *UnityLewisEddy) flux(dEff *fv.VolField) *fv.SurfaceField {
	q := u.weighted(u.KappaEff()).Mul(fv.SnGrad(u.thermo.T()))
	q.Add(u.weighted(dEff).Mul(u.hGradY()))
	q.Scale(-1)
	q.Name = "q"
	return q
}

// divFlux returns the divergence of flux(dEff) for the equation of he.
// The conduction term is explicit, the species term is explicit, and the
// implicit Laplacian of he is added and removed so that only the
// convergence path of the solution changes.
func (u *UnityLewisEddy) divFlux(he *fv.VolField, dEff *fv.VolField) *fv.Matrix {
	lapT := fv.Laplacian(u.weighted(u.KappaEff()), u.thermo.T())
	for i, v := range lapT {
		lapT[i] = -v
	}
	species := fv.Div(u.weighted(dEff).Mul(u.hGradY()).MulMagSf())
	return fv.Su(lapT, he).
		Sub(fv.LaplacianCorrection(u.weighted(u.AlphaEff()), he)).
		Sub(fv.Su(species, he))
}

// Q returns the heat flux through the faces [W/m²].
func (u *UnityLewisEddy) Q() *fv.SurfaceField { return u.flux(u.DEff()) }

// DivQ returns the divergence of the heat flux for the equation of he.
func (u *UnityLewisEddy) DivQ(he *fv.VolField) *fv.Matrix { return u.divFlux(he, u.DEff()) }

// Read reloads Prt. If it returns an error the previous value is kept.
func (u *UnityLewisEddy) Read(dict flamefoam.Dict) error {
	prt, err := parsePrt(dict)
	if err != nil {
		return err
	}
	u.prt = prt
	return nil
}

// Coeffs are the coefficients of the non-unity-Lewis diffusivity.
type Coeffs struct {
	// Sct is the turbulent Schmidt number.
	Sct float64

	// AlphaU is the laminar thermal diffusivity of the unburnt mixture
	// [m²/s].
	AlphaU float64

	// Le is the Lewis number of the unburnt mixture.
	Le float64
}

// ParseCoeffs reads the non-unity-Lewis coefficients from dict.
func ParseCoeffs(dict flamefoam.Dict) (Coeffs, error) {
	var c Coeffs
	sct, err := dict.Positive("Sct", flamefoam.Dimless)
	if err != nil {
		return c, err
	}
	c.Sct = sct.Value()
	a, err := dict.Positive("alpha_u", flamefoam.KinematicDiffusivity)
	if err != nil {
		return c, err
	}
	c.AlphaU = a.Value()
	le, err := dict.Positive("Le", flamefoam.Dimless)
	if err != nil {
		return c, err
	}
	c.Le = le.Value()
	return c, nil
}

// DEff returns the effective mass diffusivity per unit density [m²/s]
// for the turbulent viscosity nut, the turbulent kinetic energy k and the
// time t since ignition:
//  alpha_u/Le + (νt/Sct)·(1 − exp(−1/max(1.5·νt/(Sct·k·t), SMALL))).
// The turbulent part grows from zero at t = 0 to νt/Sct.
func (c Coeffs) DEff(nut, k, t float64) float64 {
	x := flamefoam.Floor(1.5*nut/(c.Sct*k*t), flamefoam.SMALL)
	d := c.AlphaU/c.Le + nut/c.Sct*(-math.Expm1(-1/x))
	return flamefoam.NonNegative(d)
}

// NonUnityLewisETFC is the eddy-diffusivity heat flux closure with
// species diffusing at their own effective diffusivity.
type NonUnityLewisETFC struct {
	*UnityLewisEddy

	clock  flamefoam.Clock
	coeffs Coeffs
}

// NewNonUnityLewisETFC returns a closure configured from dict, which
// holds Prt, Sct, alpha_u and Le. clock gives the time since ignition.
func NewNonUnityLewisETFC(dict flamefoam.Dict, thermo flamefoam.Thermo, turb flamefoam.Turbulence, clock flamefoam.Clock, alpha *fv.VolField) (*NonUnityLewisETFC, error) {
	c, err := ParseCoeffs(dict)
	if err != nil {
		return nil, err
	}
	base, err := NewUnityLewisEddy(dict, thermo, turb, alpha)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		return nil, fmt.Errorf("nonunitylewis: nil clock")
	}
	return &NonUnityLewisETFC{UnityLewisEddy: base, clock: clock, coeffs: c}, nil
}

// Coeffs returns the current coefficients.
func (n *NonUnityLewisETFC) Coeffs() Coeffs { return n.coeffs }

// DEff returns the effective mass diffusivity ρ·Coeffs.DEff [kg/m/s] at
// the current time.
func (n *NonUnityLewisETFC) DEff() *fv.VolField {
	c, t := n.coeffs, n.clock.Value()
	return fv.Map("DEff", func(x ...float64) float64 {
		return x[0] * c.DEff(x[1], x[2], t)
	}, n.thermo.Rho(), n.turb.Nut(), n.turb.K())
}

// DEffY returns the effective diffusivity of the specie with mass
// fraction Yi, which is the same for every specie.
func (n *NonUnityLewisETFC) DEffY(Yi *fv.VolField) *fv.VolField { return n.DEff() }

// DEffPatch returns the effective diffusivity of the specie with mass
// fraction Yi on the faces of the given patch.
func (n *NonUnityLewisETFC) DEffPatch(Yi *fv.VolField, patch int) []float64 {
	return n.DEffY(Yi).BoundaryValues(patch)
}

// Q returns the heat flux through the faces [W/m²].
func (n *NonUnityLewisETFC) Q() *fv.SurfaceField { return n.flux(n.DEff()) }

// DivQ returns the divergence of the heat flux for the equation of he.
func (n *NonUnityLewisETFC) DivQ(he *fv.VolField) *fv.Matrix { return n.divFlux(he, n.DEff()) }

// Read reloads Prt, Sct, alpha_u and Le. If it returns an error the
// previous values are kept.
func (n *NonUnityLewisETFC) Read(dict flamefoam.Dict) error {
	c, err := ParseCoeffs(dict)
	if err != nil {
		return err
	}
	if err := n.UnityLewisEddy.Read(dict); err != nil {
		return fmt.Errorf("nonunitylewis: reading eddy diffusivity: %v", err)
	}
	n.coeffs = c
	return nil
}
