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

package tfc

import (
	"math"
	"testing"

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
	"github.com/flamefoam/flamefoam/internal/hash"
	"github.com/flamefoam/flamefoam/science/laminar/constant"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestCorrelations(t *testing.T) {
	in := Inputs{UPrime: 2, Lt: 0.01, SL: 0.2, AlphaU: 2e-5, NuU: 1.5e-5}
	slow := in
	slow.UPrime = 0.5
	cases := []struct {
		c    Correlation
		in   Inputs
		want float64
	}{
		{c: Zimont{A: 0.52}, in: in, want: 1.8494105864404797},
		{c: Bradley{Le: 0.5}, in: in, want: 2.7912104428377664},
		{c: Bradley{Le: 0.5}, in: slow, want: 1.3021457147448492},
		{c: Bray{}, in: in, want: 2.436314653412249},
		{c: Bray{}, in: slow, want: 1.3762098467544324},
	}
	for _, c := range cases {
		if have := Speed(c.c, c.in); different(have, c.want, 1e-12) {
			t.Errorf("%#v: have %g, want %g", c.c, have, c.want)
		}
	}
}

func TestNewCorrelation(t *testing.T) {
	c, err := NewCorrelation("Zimont", flamefoam.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	if c.(Zimont).A != 0.52 {
		t.Errorf("default A: have %g", c.(Zimont).A)
	}
	c, err = NewCorrelation("Bradley", flamefoam.Dict{"Le": 0.4})
	if err != nil {
		t.Fatal(err)
	}
	if c.(Bradley).Le != 0.4 {
		t.Errorf("Le: have %g", c.(Bradley).Le)
	}
	if _, err := NewCorrelation("Peters", flamefoam.Dict{}); err == nil {
		t.Error("unknown correlation should be an error")
	}
	if _, err := NewCorrelation("Zimont", flamefoam.Dict{"A": -1.0}); err == nil {
		t.Error("negative A should be an error")
	}
}

func TestSpeedDomain(t *testing.T) {
	values := []float64{0, 1e-300, 1e-3, 1, 1e3, 1e300}
	corrs := []Correlation{Zimont{A: 0.52}, Bradley{Le: 1}, Bray{}}
	for _, c := range corrs {
		for _, k := range values {
			for _, nut := range values {
				for _, sL := range values {
					in := NewInputs(k, nut, sL, 1.2, 1.8e-5, 0.09)
					st := Speed(c, in)
					if math.IsNaN(st) || math.IsInf(st, 0) || st < sL {
						t.Fatalf("%#v: k=%g, nut=%g, sL=%g: St=%g", c, k, nut, sL, st)
					}
				}
			}
		}
	}
	// Without turbulence the flame is laminar.
	for _, c := range corrs {
		if st := Speed(c, NewInputs(0, 0, 0.3, 1.2, 1.8e-5, 0.09)); st != 0.3 {
			t.Errorf("%#v: laminar limit %g", c, st)
		}
	}
}

func TestZimontIncreasing(t *testing.T) {
	z := Zimont{A: 0.52}
	last := 0.0
	for k := 0.1; k < 10; k *= 1.5 {
		st := Speed(z, NewInputs(k, 1e-3, 0.1, 1.2, 1.8e-5, 0.09))
		if st <= last {
			t.Errorf("k=%g: St %g did not increase from %g", k, st, last)
		}
		last = st
	}
}

func testDict(p flamefoam.Profile) flamefoam.Dict {
	d := p.Coeffs()
	d["correlation"] = "Zimont"
	d["sLaminar"] = 0.2
	return d
}

func newTFC(t *testing.T) (*TFC, *flamefoam.State) {
	p := flamefoam.DefaultProfile()
	s, err := p.State()
	if err != nil {
		t.Fatal(err)
	}
	d := testDict(p)
	b, err := flamefoam.NewBase(d, s, s, s)
	if err != nil {
		t.Fatal(err)
	}
	lbv, err := constant.New(d, b)
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(d, b, lbv, "constant")
	if err != nil {
		t.Fatal(err)
	}
	return r, s
}

func TestTFC(t *testing.T) {
	r, s := newTFC(t)
	var _ flamefoam.ReactionRate = r
	r.Correct()

	rhoU := r.RhoU().Values
	magGradC := fv.MagGrad(r.Progress()).Values
	y := s.MassFractions[0].Values
	c := r.Shared().Coeffs()
	var burning, exhausted int
	for i, cs := range r.CSource().Values {
		if r.St().Values[i] < 0.2 {
			t.Errorf("cell %d: St=%g below sL", i, r.St().Values[i])
		}
		if y[i] <= c.YH2_99 {
			exhausted++
			if cs != 0 {
				t.Errorf("cell %d: exhausted fuel but cSource=%g", i, cs)
			}
			continue
		}
		want := rhoU[i] * r.St().Values[i] * magGradC[i] * c.YH2_0
		if different(cs, want, 1e-12) && want != 0 {
			t.Errorf("cell %d: cSource=%g, want %g", i, cs, want)
		}
		if cs > 0 {
			burning++
		}
	}
	if burning == 0 || exhausted == 0 {
		t.Errorf("%d burning and %d exhausted cells", burning, exhausted)
	}
	if r.Shared().SL().Max() != 0.2 {
		t.Errorf("recorded sL %g", r.Shared().SL().Max())
	}
	q := r.Qdot().Values
	for i, cs := range r.CSource().Values {
		if different(q[i], cs*c.HEff, 1e-14) && cs != 0 {
			t.Errorf("cell %d: Qdot=%g", i, q[i])
		}
	}
}

func TestRead(t *testing.T) {
	r, _ := newTFC(t)
	p := flamefoam.DefaultProfile()
	r.Correct()
	before := r.Shared().Coeffs()
	cs := append([]float64(nil), r.CSource().Values...)
	if err := r.Read(testDict(p)); err != nil {
		t.Fatal(err)
	}
	if hash.Hash(before) != hash.Hash(r.Shared().Coeffs()) {
		t.Error("rereading the same coefficients changed them")
	}
	r.Correct()
	for i, v := range r.CSource().Values {
		if v != cs[i] {
			t.Errorf("cell %d: %g != %g", i, v, cs[i])
		}
	}

	bad := testDict(p)
	bad["correlation"] = "Peters"
	if err := r.Read(bad); err == nil {
		t.Error("invalid correlation should fail")
	}

	// A failing laminar model leaves the shared coefficients intact.
	bad = testDict(p)
	bad["X_H2_0"] = 0.2
	bad["sLaminar"] = 0.0
	if err := r.Read(bad); err == nil {
		t.Error("invalid sLaminar should fail")
	}
	if r.Shared().Coeffs() != before {
		t.Error("failed read changed the shared coefficients")
	}
	if r.Coeffs().Correlation != "Zimont" {
		t.Errorf("failed read changed the correlation to %s", r.Coeffs().Correlation)
	}

	// Laminar coefficients may be in their own sub-dictionary.
	sub := testDict(p)
	delete(sub, "sLaminar")
	sub["correlation"] = "Bray"
	sub["constantCoeffs"] = map[string]interface{}{"sLaminar": 0.3}
	if err := r.Read(sub); err != nil {
		t.Fatal(err)
	}
	r.Correct()
	if r.Shared().SL().Min() != 0.3 {
		t.Errorf("sL: have %g, want 0.3", r.Shared().SL().Min())
	}
	if _, ok := r.Correlation().(Bray); !ok {
		t.Errorf("correlation: have %#v", r.Correlation())
	}
}
