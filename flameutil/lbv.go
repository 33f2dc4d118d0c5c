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

package flameutil

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/flamefoam/flamefoam"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// mixtureModel is a laminar burning velocity that can be evaluated for
// any unburnt mixture, not only the configured one.
type mixtureModel interface {
	Evaluate(p, tu, xH2, xH2O float64) float64
}

// LaminarPoint is the laminar burning velocity SL [m/s] of the unburnt
// mixture with the dry-basis hydrogen fraction XH2 at pressure P [Pa].
type LaminarPoint struct {
	P, XH2, SL float64
}

// LaminarTable is a laminar burning velocity model evaluated over the
// composition and the pressure of the unburnt mixture.
type LaminarTable struct {
	// Model is the name of the model.
	Model string

	// TU [K] and XH2O are the temperature and the steam fraction of the
	// unburnt mixture.
	TU, XH2O float64

	// Composition holds the burning velocity at the profile pressure,
	// and Pressure the burning velocity at the profile hydrogen fraction.
	Composition, Pressure []LaminarPoint

	// PressureExponent is the slope of ln(sL) against ln(p), and
	// RSquared the coefficient of determination of the fit.
	PressureExponent, RSquared float64
}

// NewLaminarTable evaluates the laminar burning velocity model selected
// in dict for the unburnt mixture of p, at each of the hydrogen fractions
// xs and each of the pressures ps [Pa].
func NewLaminarTable(dict flamefoam.Dict, p flamefoam.Profile, xs, ps []float64) (*LaminarTable, error) {
	name, err := dict.Word("reactionRate")
	if err != nil {
		return nil, err
	}
	coeffs, err := dict.Sub(name + "Coeffs")
	if err != nil {
		return nil, err
	}
	lbvName, err := dict.Word("laminarBurningVelocity")
	if err != nil {
		return nil, err
	}

	p.Cells = 1
	p.Progress = false
	s, err := p.State()
	if err != nil {
		return nil, err
	}
	base, err := flamefoam.NewBase(coeffs, s, s, s)
	if err != nil {
		return nil, err
	}
	ld, err := flamefoam.LaminarCoeffs(coeffs, lbvName)
	if err != nil {
		return nil, err
	}
	lbv, err := NewLaminarBurningVelocity(lbvName, ld, base)
	if err != nil {
		return nil, err
	}

	evaluate := func(pressure, xH2 float64) float64 {
		if m, ok := lbv.(mixtureModel); ok {
			return m.Evaluate(pressure, p.TUnburnt, xH2, p.XH2O)
		}
		lbv.Correct()
		return lbv.SL().Values[0]
	}

	t := &LaminarTable{Model: lbvName, TU: p.TUnburnt, XH2O: p.XH2O}
	for _, x := range xs {
		t.Composition = append(t.Composition, LaminarPoint{P: p.Pressure, XH2: x, SL: evaluate(p.Pressure, x)})
	}
	var lnP, lnSL []float64
	for _, pressure := range ps {
		pt := LaminarPoint{P: pressure, XH2: p.XH2, SL: evaluate(pressure, p.XH2)}
		t.Pressure = append(t.Pressure, pt)
		if pt.SL > 0 && pressure > 0 {
			lnP = append(lnP, math.Log(pressure))
			lnSL = append(lnSL, math.Log(pt.SL))
		}
	}
	if len(lnP) > 1 {
		t.PressureExponent, _, t.RSquared, _, _, _ = stats.LinearRegression(lnP, lnSL)
	}
	return t, nil
}

// Fprint writes t to w as aligned text.
func (t *LaminarTable) Fprint(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s laminar burning velocity at TU = %g K, X_H2O = %g\n", t.Model, t.TU, t.XH2O)
	fmt.Fprintln(tw, "X_H2\tp [Pa]\tsL [m/s]")
	for _, pt := range t.Composition {
		fmt.Fprintf(tw, "%.4f\t%g\t%.6g\n", pt.XH2, pt.P, pt.SL)
	}
	for _, pt := range t.Pressure {
		fmt.Fprintf(tw, "%.4f\t%g\t%.6g\n", pt.XH2, pt.P, pt.SL)
	}
	fmt.Fprintf(tw, "# pressure exponent %.4f (R² = %.4f)\n", t.PressureExponent, t.RSquared)
	return tw.Flush()
}

// WriteXLSX writes t to a spreadsheet with one sheet for the composition
// and one for the pressure dependence.
func (t *LaminarTable) WriteXLSX(path string) error {
	f := xlsx.NewFile()
	for _, sheet := range []struct {
		name   string
		points []LaminarPoint
	}{
		{name: "composition", points: t.Composition},
		{name: "pressure", points: t.Pressure},
	} {
		sh, err := f.AddSheet(sheet.name)
		if err != nil {
			return fmt.Errorf("flamefoam: writing spreadsheet: %v", err)
		}
		header := sh.AddRow()
		for _, h := range []string{"X_H2", "p [Pa]", "sL [m/s]"} {
			header.AddCell().SetString(h)
		}
		for _, pt := range sheet.points {
			row := sh.AddRow()
			row.AddCell().SetFloat(pt.XH2)
			row.AddCell().SetFloat(pt.P)
			row.AddCell().SetFloat(pt.SL)
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("flamefoam: writing spreadsheet: %v", err)
	}
	return nil
}

// Plot saves a plot of the burning velocity against the hydrogen
// fraction to path. The format is set by the extension of path.
func (t *LaminarTable) Plot(path string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = fmt.Sprintf("%s laminar burning velocity\nTU = %g K, X_H2O = %g", t.Model, t.TU, t.XH2O)
	p.X.Label.Text = "Dry-basis hydrogen fraction"
	p.Y.Label.Text = "sL (m/s)"
	xy := make(plotter.XYs, len(t.Composition))
	for i, pt := range t.Composition {
		xy[i].X = pt.XH2
		xy[i].Y = pt.SL
	}
	if err = plotutil.AddLinePoints(p, xy); err != nil {
		return err
	}
	p.Y.Min = 0.
	return p.Save(4*vg.Inch, 3*vg.Inch, path)
}

// linspace returns n values evenly spaced over [min, max].
func linspace(min, max float64, n int) []float64 {
	if n == 1 {
		return []float64{min}
	}
	o := make([]float64, n)
	for i := range o {
		o[i] = min + (max-min)*float64(i)/float64(n-1)
	}
	return o
}

func (cfg *Cfg) runLBV(cmd *cobra.Command) error {
	p := flamefoam.DefaultProfile()
	p.Pressure = cfg.GetFloat64("Profile.Pressure")
	p.TUnburnt = cfg.GetFloat64("Profile.TUnburnt")
	p.XH2 = cfg.GetFloat64("Profile.XH2")
	p.XH2O = cfg.GetFloat64("Profile.XH2O")

	n := cfg.GetInt("lbv.N")
	if n < 1 {
		return fmt.Errorf("flamefoam: lbv.N=%d but should be at least 1", n)
	}
	xs := linspace(cfg.GetFloat64("lbv.XMin"), cfg.GetFloat64("lbv.XMax"), n)
	multiples, err := getFloat64Slice("lbv.Pressures", cfg.Viper)
	if err != nil {
		return err
	}
	ps := make([]float64, len(multiples))
	for i, m := range multiples {
		ps[i] = m * p.Pressure
	}

	dict, err := combustionProperties(os.ExpandEnv(cfg.GetString("CombustionProperties")), p)
	if err != nil {
		return err
	}
	t, err := NewLaminarTable(dict, p, xs, ps)
	if err != nil {
		return err
	}
	if err := t.Fprint(cmd.OutOrStdout()); err != nil {
		return err
	}
	if path := os.ExpandEnv(cfg.GetString("lbv.Table")); path != "" {
		if err := t.WriteXLSX(path); err != nil {
			return err
		}
	}
	if path := os.ExpandEnv(cfg.GetString("lbv.Plot")); path != "" {
		if err := t.Plot(path); err != nil {
			return fmt.Errorf("flamefoam: plotting laminar burning velocity: %v", err)
		}
		if cfg.GetBool("lbv.Open") {
			return open.Run(path)
		}
	}
	return nil
}
