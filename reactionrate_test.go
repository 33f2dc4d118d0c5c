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
	"math"
	"strings"
	"testing"

	"github.com/ctessum/unit"
	"github.com/flamefoam/flamefoam/fv"
	"github.com/flamefoam/flamefoam/internal/hash"
	"github.com/kr/pretty"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// uniformRate is a reaction rate with a uniform burning velocity.
type uniformRate struct {
	*Base
	st float64
}

func (r *uniformRate) Correct() {
	n := r.Mesh().NCells()
	st := make([]float64, n)
	for i := range st {
		st[i] = r.st
	}
	r.Consume(r.RhoU(), st, fv.NewVolField("sL", r.Mesh(), r.st))
}

func newUniformRate(t *testing.T, p Profile, st float64) (*uniformRate, *State) {
	s, err := p.State()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBase(p.Coeffs(), s, s, s)
	if err != nil {
		t.Fatal(err)
	}
	return &uniformRate{Base: b, st: st}, s
}

func TestNewBaseMissing(t *testing.T) {
	s, err := DefaultProfile().State()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"H0", "yIndex", "X_H2_0"} {
		d := DefaultProfile().Coeffs()
		delete(d, key)
		if _, err := NewBase(d, s, s, s); err == nil || !strings.Contains(err.Error(), key) {
			t.Errorf("missing %s: have error %v", key, err)
		}
	}
	bad := []Dict{
		{"H0": -1.0, "yIndex": 0, "X_H2_0": 0.1},
		{"H0": 241.8e3, "yIndex": 7, "X_H2_0": 0.1},
		{"H0": 241.8e3, "yIndex": 0, "X_H2_0": 1.5},
		{"H0": 241.8e3, "yIndex": 0.5, "X_H2_0": 0.1},
		{"H0": "lots", "yIndex": 0, "X_H2_0": 0.1},
	}
	for i, d := range bad {
		if _, err := NewBase(d, s, s, s); err == nil {
			t.Errorf("case %d should be an error", i)
		}
	}
}

func TestBaseCoeffs(t *testing.T) {
	r, _ := newUniformRate(t, DefaultProfile(), 1)
	c := r.Coeffs()
	if different(c.HEff, 241.8e3/MolarH2, 1e-14) {
		t.Errorf("HEff: have %g, want %g", c.HEff, 241.8e3/MolarH2)
	}
	// Lean 10% hydrogen in air.
	if different(c.YH2_0, 0.1*MolarH2/(0.1*MolarH2+0.9*MolarAir), 1e-12) {
		t.Errorf("YH2_0: have %g", c.YH2_0)
	}
	if c.YH2_99 != 0.01*c.YH2_0 {
		t.Errorf("YH2_99: have %g", c.YH2_99)
	}
	if different(c.Rho0, 101325*c.WU/(RUniversal*298.15), 1e-14) {
		t.Errorf("rho0: have %g", c.Rho0)
	}
}

// The heat release and species sources have consistent dimensions.
func TestDimensions(t *testing.T) {
	d := DefaultProfile().Coeffs()
	h0, err := d.Scalar("H0", JoulePerMole)
	if err != nil {
		t.Fatal(err)
	}
	hEff := unit.Div(h0, unit.New(MolarH2, KilogramPerMole))
	if err := hEff.Check(JoulePerKilogram); err != nil {
		t.Error(err)
	}
	cSource := unit.Mul(unit.New(1, KilogramPerMeter3), unit.New(1, MeterPerSecond),
		unit.New(1, unit.Dimensions{unit.LengthDim: -1}), unit.New(1, Dimless))
	if err := cSource.Check(MassRate); err != nil {
		t.Error(err)
	}
	if err := unit.Mul(cSource, hEff).Check(HeatRelease); err != nil {
		t.Error(err)
	}
	if err := unit.Mul(unit.New(1, KilogramPerMeter3), unit.New(1, KinematicDiffusivity)).Check(DynamicDiffusivity); err != nil {
		t.Error(err)
	}
	if _, err := d.Scalar("nothing", Dimless); err == nil {
		t.Error("missing coefficient should be an error")
	}
}

func TestUnburntState(t *testing.T) {
	r, s := newUniformRate(t, DefaultProfile(), 1)
	tu := r.TU()
	for i, v := range tu.Values {
		if different(v, 298.15, 1e-14) {
			t.Errorf("cell %d: TU at the reference pressure: have %g", i, v)
		}
	}
	// Doubling the pressure heats the unburnt gas isentropically.
	for i := range s.Pressure.Values {
		s.Pressure.Values[i] = 2 * 101325
	}
	if want := 298.15 * math.Pow(2, 0.4/1.4); different(r.TU().Values[0], want, 1e-12) {
		t.Errorf("compressed TU: have %g, want %g", r.TU().Values[0], want)
	}
	if want := 2 * r.Coeffs().Rho0 / math.Pow(2, 0.4/1.4); different(r.RhoU().Values[0], want, 1e-12) {
		t.Errorf("compressed rhoU: have %g, want %g", r.RhoU().Values[0], want)
	}
	// Viscosity of air at 300 K is about 1.85e-5 Pa s.
	if mu := Sutherland(300); different(mu, 1.846e-5, 1e-2) {
		t.Errorf("Sutherland: have %g", mu)
	}
}

func TestReactionSources(t *testing.T) {
	r, s := newUniformRate(t, DefaultProfile(), 0.5)
	r.Correct()
	c := r.Coeffs()
	cs := r.CSource().Values
	var active int
	for i, v := range cs {
		if v < 0 || math.IsNaN(v) {
			t.Fatalf("cell %d: negative source %g", i, v)
		}
		if v > 0 {
			active++
		}
		if s.MassFractions[0].Values[i] <= c.YH2_99 && v != 0 {
			t.Errorf("cell %d: source %g in exhausted fuel", i, v)
		}
	}
	if active == 0 {
		t.Fatal("no active cells")
	}
	rH2, rO2, rH2O, rN2 := r.R(0), r.R(1), r.R(2), r.R(3)
	q := r.Qdot().Values
	for i, v := range cs {
		if rH2[i] != -v {
			t.Errorf("cell %d: R(H2) %g != %g", i, rH2[i], -v)
		}
		if rN2[i] != 0 {
			t.Errorf("cell %d: R(N2) %g", i, rN2[i])
		}
		// Mass is conserved.
		if sum := rH2[i] + rO2[i] + rH2O[i]; math.Abs(sum) > 1e-4*v {
			t.Errorf("cell %d: net mass source %g", i, sum)
		}
		if q[i] != v*c.HEff {
			t.Errorf("cell %d: Qdot %g != %g", i, q[i], v*c.HEff)
		}
		if v == 0 && (rH2[i] != 0 || rO2[i] != 0 || rH2O[i] != 0 || q[i] != 0) {
			t.Errorf("cell %d: sources without consumption", i)
		}
	}
	if r := r.R(-1); r[0] != 0 {
		t.Errorf("unknown specie: have %g", r[0])
	}

	// Sources are linear in the consumption rate.
	r2, _ := newUniformRate(t, DefaultProfile(), 1.0)
	r2.Correct()
	for i, v := range r2.R(1) {
		if rO2[i] != 0 && different(v, 2*rO2[i], 1e-12) {
			t.Errorf("cell %d: R(O2) %g is not twice %g", i, v, rO2[i])
		}
	}
}

func TestRMatrix(t *testing.T) {
	p := DefaultProfile()
	p.Progress = true
	r, s := newUniformRate(t, p, 0.5)
	r.Correct()
	for i, y := range s.MassFractions {
		res := r.RMatrix(y).Residual(y.Values)
		want := r.R(i)
		for j := range res {
			if y.Values[j] < SMALL {
				continue
			}
			if math.Abs(res[j]-want[j]) > 1e-9*math.Abs(want[j]) {
				t.Errorf("%s cell %d: residual %g, R %g", y.Name, j, res[j], want[j])
			}
		}
	}
	// Consumed species have a negative diagonal.
	a := r.RMatrix(s.MassFractions[0])
	for j, d := range a.Diag {
		if d > 0 {
			t.Errorf("cell %d: positive diagonal %g", j, d)
		}
	}
	if got := r.R(4)[25]; different(got, r.CSource().Values[25]/r.Coeffs().YH2_0, 1e-14) {
		t.Errorf("progress variable source: have %g", got)
	}
}

func TestBaseReadIdempotent(t *testing.T) {
	r, _ := newUniformRate(t, DefaultProfile(), 0.5)
	r.Correct()
	before := r.Coeffs()
	q0 := append([]float64(nil), r.Qdot().Values...)
	if err := r.Read(DefaultProfile().Coeffs()); err != nil {
		t.Fatal(err)
	}
	if hash.Hash(before) != hash.Hash(r.Coeffs()) {
		t.Errorf("coefficients changed: %v", pretty.Diff(before, r.Coeffs()))
	}
	r.Correct()
	for i, v := range r.Qdot().Values {
		if v != q0[i] {
			t.Errorf("cell %d: Qdot %g != %g", i, v, q0[i])
		}
	}
	bad := DefaultProfile().Coeffs()
	bad["X_H2_0"] = -2.0
	if err := r.Read(bad); err == nil {
		t.Error("invalid read should fail")
	}
	if diff := pretty.Diff(before, r.Coeffs()); len(diff) != 0 {
		t.Errorf("failed read changed coefficients: %v", diff)
	}
}

func TestProfileLean(t *testing.T) {
	p := DefaultProfile()
	p.XH2 = 0.5
	if _, err := p.State(); err == nil {
		t.Error("rich mixture should be an error")
	}
	s, err := DefaultProfile().State()
	if err != nil {
		t.Fatal(err)
	}
	// Mass fractions sum to one.
	for c := range s.Temperature.Values {
		var sum float64
		for _, y := range s.MassFractions {
			sum += y.Values[c]
		}
		if different(sum, 1, 1e-12) {
			t.Errorf("cell %d: sum of mass fractions %g", c, sum)
		}
	}
}
