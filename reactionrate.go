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

// ReactionRate computes the source terms of a premixed hydrogen flame.
type ReactionRate interface {
	// Correct recomputes the fuel consumption rate from the current
	// state of the host solver.
	Correct()

	// R returns the explicit source of specie i [kg/m³/s].
	R(speciei int) []float64

	// RMatrix returns the source of the specie whose mass fraction
	// field is Y, linearized where the specie is consumed.
	RMatrix(Y *fv.VolField) *fv.Matrix

	// Qdot returns the heat release rate [W/m³].
	Qdot() *fv.VolField

	// Read reloads the model coefficients. If it returns an error the
	// previous coefficients are kept.
	Read(dict Dict) error

	// Shared returns the state shared by all reaction rate models.
	Shared() *Base
}

// LaminarBurningVelocity computes the laminar flame speed of the unburnt
// mixture.
type LaminarBurningVelocity interface {
	Correct()

	// SL returns the laminar burning velocity [m/s].
	SL() *fv.VolField

	// Read reloads the model coefficients. If it returns an error the
	// previous coefficients are kept.
	Read(dict Dict) error
}

// BaseCoeffs are the coefficients shared by all reaction rate models.
type BaseCoeffs struct {
	// H0 is the heat of combustion [J/mol H2].
	H0 float64

	// HEff is the heat of combustion [J/kg H2].
	HEff float64

	// XH2_0 is the initial hydrogen mole fraction on a dry basis, and
	// XH2O is the steam mole fraction.
	XH2_0, XH2O float64

	// YH2_0 is the initial hydrogen mass fraction, and YH2_99 the mass
	// fraction below which the fuel is exhausted.
	YH2_0, YH2_99 float64

	// YIndex is the index of the tracked fuel specie.
	YIndex int

	// WU is the molar mass of the unburnt mixture [kg/mol].
	WU float64

	// P0, T0 and Rho0 are the reference state of the unburnt mixture.
	P0, T0, Rho0 float64

	// GammaU is the heat capacity ratio of the unburnt mixture.
	GammaU float64
}

// ParseBaseCoeffs reads the shared reaction rate coefficients from dict.
// nSpecies is the number of transported species.
func ParseBaseCoeffs(dict Dict, nSpecies int) (BaseCoeffs, error) {
	var c BaseCoeffs
	h0, err := dict.Positive("H0", JoulePerMole)
	if err != nil {
		return c, err
	}
	c.H0 = h0.Value()
	c.HEff = c.H0 / MolarH2
	if c.YIndex, err = dict.Label("yIndex"); err != nil {
		return c, err
	}
	if c.YIndex < 0 || c.YIndex >= nSpecies {
		return c, fmt.Errorf("flamefoam: yIndex=%d but there are %d species", c.YIndex, nSpecies)
	}
	x, err := dict.Scalar("X_H2_0", Dimless)
	if err != nil {
		return c, err
	}
	c.XH2_0 = x.Value()
	if !(c.XH2_0 > 0 && c.XH2_0 < 1) {
		return c, fmt.Errorf("flamefoam: X_H2_0=%g but should be in (0, 1)", c.XH2_0)
	}
	xs, err := dict.ScalarDefault("X_H2O", Dimless, 0)
	if err != nil {
		return c, err
	}
	c.XH2O = xs.Value()
	if !(c.XH2O >= 0 && c.XH2O < 1) {
		return c, fmt.Errorf("flamefoam: X_H2O=%g but should be in [0, 1)", c.XH2O)
	}
	p0, err := dict.PositiveDefault("p0", Pascal, 101325)
	if err != nil {
		return c, err
	}
	c.P0 = p0.Value()
	t0, err := dict.PositiveDefault("T0", Kelvin, 298.15)
	if err != nil {
		return c, err
	}
	c.T0 = t0.Value()
	g, err := dict.PositiveDefault("gammaU", Dimless, 1.4)
	if err != nil {
		return c, err
	}
	c.GammaU = g.Value()
	if c.GammaU <= 1 {
		return c, fmt.Errorf("flamefoam: gammaU=%g but should be >1", c.GammaU)
	}

	xH2, xH2O, xAir := UnburntMoleFractions(c.XH2_0, c.XH2O)
	c.WU = xH2*MolarH2 + xH2O*MolarH2O + xAir*MolarAir
	c.YH2_0 = xH2 * MolarH2 / c.WU
	c.YH2_99 = 0.01 * c.YH2_0
	c.Rho0 = c.P0 * c.WU / (RUniversal * c.T0)
	return c, nil
}

// UnburntMoleFractions returns the mole fractions of hydrogen, steam and
// air in an unburnt mixture with the dry-basis hydrogen fraction xH2Dry
// diluted by the steam fraction xH2O.
func UnburntMoleFractions(xH2Dry, xH2O float64) (xH2, steam, air float64) {
	return xH2Dry * (1 - xH2O), xH2O, (1 - xH2Dry) * (1 - xH2O)
}

// Stoichiometric mass ratios of 2H2 + O2 -> 2H2O, per unit mass of H2.
const (
	sO2  = MolarO2 / (2 * MolarH2)
	sH2O = MolarH2O / MolarH2
)

// Base holds the state shared by all reaction rate models. Models embed
// it and fill the fuel consumption rate in Correct through Consume.
type Base struct {
	thermo Thermo
	turb   Turbulence
	clock  Clock

	coeffs BaseCoeffs

	cSource *fv.VolField
	sL      *fv.VolField

	iO2, iH2O, iC int
}

// NewBase returns the shared reaction rate state configured from dict.
func NewBase(dict Dict, thermo Thermo, turb Turbulence, clock Clock) (*Base, error) {
	c, err := ParseBaseCoeffs(dict, len(thermo.Species()))
	if err != nil {
		return nil, err
	}
	m := thermo.Mesh()
	return &Base{
		thermo:  thermo,
		turb:    turb,
		clock:   clock,
		coeffs:  c,
		cSource: fv.NewVolField("cSource", m, 0),
		sL:      fv.NewVolField("sL", m, 0),
		iO2:     SpecieIndex(thermo, "O2"),
		iH2O:    SpecieIndex(thermo, "H2O"),
		iC:      SpecieIndex(thermo, "c"),
	}, nil
}

// Shared returns b.
func (b *Base) Shared() *Base { return b }

// Coeffs returns the current shared coefficients.
func (b *Base) Coeffs() BaseCoeffs { return b.coeffs }

// SetCoeffs replaces the shared coefficients. It is used by the Read
// methods of the models once every coefficient has been parsed.
func (b *Base) SetCoeffs(c BaseCoeffs) { b.coeffs = c }

// Read reloads the shared coefficients from dict.
func (b *Base) Read(dict Dict) error {
	c, err := ParseBaseCoeffs(dict, len(b.thermo.Species()))
	if err != nil {
		return err
	}
	b.coeffs = c
	return nil
}

// LaminarCoeffs returns the coefficients of the laminar burning velocity
// model named name: the sub-dictionary <name>Coeffs of dict if there is
// one, and dict itself otherwise.
func LaminarCoeffs(dict Dict, name string) (Dict, error) {
	if name == "" || !dict.Has(name+"Coeffs") {
		return dict, nil
	}
	return dict.Sub(name + "Coeffs")
}

// ReadLaminar reloads the shared coefficients from dict, and then those
// of lbv from LaminarCoeffs(dict, lbvName). The laminar model may default
// its coefficients to the shared ones, so they are set first, and restored
// if lbv fails to read.
func (b *Base) ReadLaminar(dict Dict, lbv LaminarBurningVelocity, lbvName string) error {
	c, err := ParseBaseCoeffs(dict, len(b.thermo.Species()))
	if err != nil {
		return err
	}
	ld, err := LaminarCoeffs(dict, lbvName)
	if err != nil {
		return err
	}
	old := b.coeffs
	b.coeffs = c
	if err := lbv.Read(ld); err != nil {
		b.coeffs = old
		return fmt.Errorf("flamefoam: reading laminar burning velocity %s: %v", lbvName, err)
	}
	return nil
}

// Thermo returns the thermophysical state of the host.
func (b *Base) Thermo() Thermo { return b.thermo }

// Turbulence returns the turbulence fields of the host.
func (b *Base) Turbulence() Turbulence { return b.turb }

// Clock returns the simulation time of the host.
func (b *Base) Clock() Clock { return b.clock }

// Mesh returns the mesh of the host.
func (b *Base) Mesh() *fv.Mesh { return b.thermo.Mesh() }

// CSource returns the fuel consumption rate [kg/m³/s].
func (b *Base) CSource() *fv.VolField { return b.cSource }

// SL returns the laminar burning velocity used in the last Correct.
func (b *Base) SL() *fv.VolField { return b.sL }

// Progress returns the reaction progress variable, 0 in the unburnt and
// 1 in the burnt mixture.
func (b *Base) Progress() *fv.VolField {
	y0 := b.coeffs.YH2_0
	c := fv.Map("c", func(x ...float64) float64 {
		return Clamp(1-x[0]/y0, 0, 1)
	}, b.thermo.Y()[b.coeffs.YIndex])
	return c
}

// TU returns the temperature of the unburnt mixture, compressed
// isentropically from the reference state to the local pressure.
func (b *Base) TU() *fv.VolField {
	t0, p0, g := b.coeffs.T0, b.coeffs.P0, b.coeffs.GammaU
	return fv.Map("TU", func(x ...float64) float64 {
		return t0 * math.Pow(Floor(x[0], SMALL)/p0, (g-1)/g)
	}, b.thermo.P())
}

// RhoU returns the density of the unburnt mixture.
func (b *Base) RhoU() *fv.VolField {
	wu := b.coeffs.WU
	return fv.Map("rhoU", func(x ...float64) float64 {
		return x[0] * wu / (RUniversal * Floor(x[1], SMALL))
	}, b.thermo.P(), b.TU())
}

// MuU returns the dynamic viscosity of the unburnt mixture, from the
// Sutherland law for air.
func (b *Base) MuU() *fv.VolField {
	return fv.Map("muU", func(x ...float64) float64 {
		return Sutherland(x[0])
	}, b.TU())
}

// Sutherland returns the viscosity of air [kg/m/s] at temperature t.
func Sutherland(t float64) float64 {
	const as, ts = 1.458e-6, 110.4
	t = Floor(t, SMALL)
	return as * math.Pow(t, 1.5) / (t + ts)
}

// Consume sets the fuel consumption rate from the effective burning
// velocity st [m/s] of each cell: ρU·st·|∇c|·Y_H2_0. The rate is zero
// where the fuel is exhausted, and is never negative. sL is recorded for
// diagnostics.
func (b *Base) Consume(rhoU *fv.VolField, st []float64, sL *fv.VolField) {
	y := b.thermo.Y()[b.coeffs.YIndex].Values
	magGradC := fv.MagGrad(b.Progress()).Values
	for i := range b.cSource.Values {
		if y[i] <= b.coeffs.YH2_99 {
			b.cSource.Values[i] = 0
			continue
		}
		b.cSource.Values[i] = NonNegative(rhoU.Values[i] * st[i] * magGradC[i] * b.coeffs.YH2_0)
	}
	copy(b.sL.Values, sL.Values)
}

// rate returns the source of specie i per unit fuel consumption, and
// whether the specie is consumed.
func (b *Base) rate(i int) (float64, bool) {
	if i < 0 {
		return 0, false
	}
	switch i {
	case b.coeffs.YIndex:
		return 1, true
	case b.iO2:
		return sO2, true
	case b.iH2O:
		return sH2O, false
	case b.iC:
		return 1 / b.coeffs.YH2_0, false
	}
	return 0, false
}

// R returns the explicit source of specie i [kg/m³/s].
func (b *Base) R(speciei int) []float64 {
	o := make([]float64, len(b.cSource.Values))
	s, consumed := b.rate(speciei)
	if consumed {
		s = -s
	}
	for i, v := range b.cSource.Values {
		o[i] = s * v
	}
	return o
}

// RMatrix returns the source of the specie whose mass fraction is Y.
// Consumed species get an implicit negative source proportional to Y,
// which equals R where Y ≥ SMALL.
func (b *Base) RMatrix(Y *fv.VolField) *fv.Matrix {
	i := SpecieIndex(b.thermo, Y.Name)
	s, consumed := b.rate(i)
	if s == 0 {
		return fv.NewMatrix(Y)
	}
	v := make([]float64, len(Y.Values))
	if !consumed {
		for j, c := range b.cSource.Values {
			v[j] = s * c
		}
		return fv.Su(v, Y)
	}
	for j, c := range b.cSource.Values {
		v[j] = -s * c / Floor(Y.Values[j], SMALL)
	}
	return fv.Sp(v, Y)
}

// Qdot returns the heat release rate [W/m³].
func (b *Base) Qdot() *fv.VolField {
	o := b.cSource.Clone("Qdot")
	hEff := b.coeffs.HEff
	for i, v := range o.Values {
		o.Values[i] = v * hEff
	}
	return o
}
