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

// Package tfc contains the Turbulent Flame speed Closure (TFC) reaction
// rate, where the fuel is consumed at ρU·St·|∇c|·Y_H2_0 with the turbulent
// flame speed St given by an empirical correlation.
package tfc

import (
	"fmt"
	"math"

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
)

// prU is the Prandtl number of the unburnt mixture, used to obtain its
// thermal diffusivity from the viscosity.
const prU = 0.71

// Inputs are the local quantities a Correlation depends on.
type Inputs struct {
	// UPrime is the turbulent velocity fluctuation [m/s].
	UPrime float64

	// Lt is the integral length scale [m].
	Lt float64

	// SL is the laminar burning velocity [m/s].
	SL float64

	// AlphaU [m²/s] and NuU [m²/s] are the thermal diffusivity and the
	// kinematic viscosity of the unburnt mixture.
	AlphaU, NuU float64
}

// NewInputs returns the correlation inputs for the turbulent kinetic
// energy k [m²/s²], the turbulent viscosity nut [m²/s], the laminar
// burning velocity sL, and the unburnt density rhoU and viscosity muU.
// cmu is the k-ε model constant.
func NewInputs(k, nut, sL, rhoU, muU, cmu float64) Inputs {
	nuU := muU / flamefoam.Floor(rhoU, flamefoam.SMALL)
	return Inputs{
		UPrime: math.Sqrt(2 * math.Max(k, 0) / 3),
		Lt:     math.Pow(cmu, -0.25) * nut / math.Sqrt(flamefoam.Floor(k, flamefoam.SMALL)),
		SL:     sL,
		AlphaU: nuU / prU,
		NuU:    nuU,
	}
}

// Correlation is a turbulent flame speed correlation.
type Correlation interface {
	// St returns the turbulent flame speed [m/s]. The result may be
	// below the laminar speed or not finite where the correlation is
	// outside its domain; see Speed.
	St(in Inputs) float64
}

// Speed returns c.St(in) floored at the laminar burning velocity, so the
// result is finite and not below in.SL for any finite non-negative
// inputs.
func Speed(c Correlation, in Inputs) float64 {
	st := c.St(in)
	if math.IsInf(st, 0) {
		return in.SL
	}
	return flamefoam.Floor(st, in.SL)
}

// Zimont is the correlation of Zimont (1979),
// St = A·u'^{3/4}·sL^{1/2}·αU^{-1/4}·lt^{1/4}.
type Zimont struct {
	A float64
}

// St implements Correlation.
func (z Zimont) St(in Inputs) float64 {
	return z.A * math.Pow(in.UPrime, 0.75) * math.Sqrt(in.SL) *
		math.Pow(flamefoam.Floor(in.AlphaU, flamefoam.SMALL), -0.25) * math.Pow(in.Lt, 0.25)
}

// Bradley is the correlation of Bradley et al. (1992),
// St = 0.88·u'·(K·Le)^{-0.3}, with the Karlovitz number
// K = 0.157·(u'/sL)²·Re_t^{-1/2}.
type Bradley struct {
	Le float64
}

// karlovitz returns the Karlovitz stretch factor of in.
func karlovitz(in Inputs) float64 {
	ratio := in.UPrime / flamefoam.Floor(in.SL, flamefoam.SMALL)
	ret := in.UPrime * in.Lt / flamefoam.Floor(in.NuU, flamefoam.SMALL)
	return 0.157 * ratio * ratio / math.Sqrt(flamefoam.Floor(ret, flamefoam.SMALL))
}

// St implements Correlation. K·Le is limited to [0.01, 0.63], where the
// correlation was fitted.
func (b Bradley) St(in Inputs) float64 {
	kle := flamefoam.Clamp(karlovitz(in)*b.Le, 0.01, 0.63)
	return 0.88 * in.UPrime * math.Pow(kle, -0.3)
}

// Bray is the correlation of Bray (1990), St = 0.875·u'·K^{-0.392}.
type Bray struct{}

// St implements Correlation. K is limited to [0.01, 1].
func (Bray) St(in Inputs) float64 {
	k := flamefoam.Clamp(karlovitz(in), 0.01, 1)
	return 0.875 * in.UPrime * math.Pow(k, -0.392)
}

// NewCorrelation returns the correlation with the given name (Zimont,
// Bradley or Bray), configured from dict.
func NewCorrelation(name string, dict flamefoam.Dict) (Correlation, error) {
	switch name {
	case "Zimont":
		a, err := dict.PositiveDefault("A", flamefoam.Dimless, 0.52)
		if err != nil {
			return nil, err
		}
		return Zimont{A: a.Value()}, nil
	case "Bradley":
		le, err := dict.PositiveDefault("Le", flamefoam.Dimless, 1)
		if err != nil {
			return nil, err
		}
		return Bradley{Le: le.Value()}, nil
	case "Bray":
		return Bray{}, nil
	default:
		return nil, fmt.Errorf("tfc: invalid correlation %q; valid options are Zimont, Bradley and Bray", name)
	}
}

// Coeffs are the TFC coefficients.
type Coeffs struct {
	// Correlation is the name of the turbulent flame speed correlation.
	Correlation string

	// Cmu is the k-ε model constant.
	Cmu float64
}

// ParseCoeffs reads the TFC coefficients and the correlation from dict.
func ParseCoeffs(dict flamefoam.Dict) (Coeffs, Correlation, error) {
	var c Coeffs
	var err error
	if c.Correlation, err = dict.WordDefault("correlation", "Zimont"); err != nil {
		return c, nil, err
	}
	corr, err := NewCorrelation(c.Correlation, dict)
	if err != nil {
		return c, nil, err
	}
	cmu, err := dict.PositiveDefault("Cmu", flamefoam.Dimless, 0.09)
	if err != nil {
		return c, nil, err
	}
	c.Cmu = cmu.Value()
	return c, corr, nil
}

// TFC is a ReactionRate with the turbulent flame speed from a
// Correlation.
type TFC struct {
	*flamefoam.Base

	lbv     flamefoam.LaminarBurningVelocity
	lbvName string

	coeffs Coeffs
	corr   Correlation
	st     *fv.VolField
}

// New returns a TFC reaction rate configured from dict, sharing the
// state rr with the laminar burning velocity lbv. lbvName is the name lbv
// was selected by, which names its coefficient sub-dictionary.
func New(dict flamefoam.Dict, rr *flamefoam.Base, lbv flamefoam.LaminarBurningVelocity, lbvName string) (*TFC, error) {
	if lbv == nil {
		return nil, fmt.Errorf("tfc: nil laminar burning velocity")
	}
	c, corr, err := ParseCoeffs(dict)
	if err != nil {
		return nil, err
	}
	return &TFC{
		Base:    rr,
		lbv:     lbv,
		lbvName: lbvName,
		coeffs:  c,
		corr:    corr,
		st:      fv.NewVolField("St", rr.Mesh(), 0),
	}, nil
}

// Coeffs returns the current TFC coefficients.
func (t *TFC) Coeffs() Coeffs { return t.coeffs }

// Correlation returns the current correlation.
func (t *TFC) Correlation() Correlation { return t.corr }

// Laminar returns the laminar burning velocity model.
func (t *TFC) Laminar() flamefoam.LaminarBurningVelocity { return t.lbv }

// St returns the turbulent flame speed of the last Correct [m/s].
func (t *TFC) St() *fv.VolField { return t.st }

// Update corrects the laminar burning velocity and sets St to the fully
// developed turbulent flame speed of every cell. It returns the
// correlation inputs.
func (t *TFC) Update() []Inputs {
	t.lbv.Correct()
	sL := t.lbv.SL().Values
	k := t.Turbulence().K().Values
	nut := t.Turbulence().Nut().Values
	rhoU := t.RhoU().Values
	muU := t.MuU().Values
	in := make([]Inputs, len(sL))
	for i := range in {
		in[i] = NewInputs(k[i], nut[i], sL[i], rhoU[i], muU[i], t.coeffs.Cmu)
		t.st.Values[i] = Speed(t.corr, in[i])
	}
	return in
}

// Correct implements flamefoam.ReactionRate.
func (t *TFC) Correct() {
	t.Update()
	t.Consume(t.RhoU(), t.st.Values, t.lbv.SL())
}

// Read reloads the shared, TFC and laminar burning velocity coefficients.
// If it returns an error the previous coefficients are kept.
func (t *TFC) Read(dict flamefoam.Dict) error {
	c, corr, err := ParseCoeffs(dict)
	if err != nil {
		return err
	}
	if err := t.ReadLaminar(dict, t.lbv, t.lbvName); err != nil {
		return err
	}
	t.coeffs, t.corr = c, corr
	return nil
}
