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
	"bufio"
	"bytes"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/science/laminar/malet"
	"github.com/flamefoam/flamefoam/science/transport/nonunitylewis"
	"github.com/flamefoam/flamefoam/science/turbulent/etfc"
	"github.com/flamefoam/flamefoam/science/turbulent/fsd"
	"github.com/flamefoam/flamefoam/science/turbulent/tfc"
	"github.com/tealeg/xlsx"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "flamefoam")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestVersion(t *testing.T) {
	cfg := InitializeConfig()
	b := new(bytes.Buffer)
	cfg.Root.SetOutput(b)
	cfg.Root.SetArgs([]string{"version"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "flamefoam v" + flamefoam.Version + "\n"; b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func readOutput(t *testing.T, path string) *Output {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	o, err := ReadOutput(f)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func countLines(t *testing.T, path string) int {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	n := 0
	s := bufio.NewScanner(f)
	for s.Scan() {
		n++
	}
	return n
}

func TestEvaluate(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	cfg := InitializeConfig()
	cfg.Root.SetOutput(ioutil.Discard)
	cfg.Set("OutputFile", filepath.Join(dir, "flame.nc"))
	cfg.Set("RunInfo", filepath.Join(dir, "run.dat"))
	cfg.Set("NumIterations", 3)
	cfg.Set("Expressions", `{"power_kW":"heatRelease / 1000"}`)
	cfg.Root.SetArgs([]string{"evaluate"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}

	o := readOutput(t, filepath.Join(dir, "flame.nc"))
	if o.Summary.Iteration != 3 {
		t.Errorf("iteration %d, want 3", o.Summary.Iteration)
	}
	if different(o.Summary.Time, 3e-3, 1e-12) {
		t.Errorf("time %g, want 0.003", o.Summary.Time)
	}
	if !(o.Summary.HeatRelease > 0) {
		t.Errorf("heat release %g", o.Summary.HeatRelease)
	}
	if o.Reaction != "ETFC" || o.Laminar != "Malet" || o.Transport != "nonUnityLewisETFC" {
		t.Errorf("models %s, %s, %s", o.Reaction, o.Laminar, o.Transport)
	}
	for name, n := range map[string]int{
		"x": 50, "T": 50, "rho": 50, "c": 50, "sL": 50, "cSource": 50,
		"Qdot": 50, "R_H2": 50, "DEff": 50, "divQ": 50, "xFace": 49, "Q": 49,
	} {
		v, ok := o.Data[name]
		if !ok {
			t.Errorf("missing variable %s", name)
			continue
		}
		if len(v.Data.Elements) != n {
			t.Errorf("%s has %d values, want %d", name, len(v.Data.Elements), n)
		}
	}
	cSource := o.Data["cSource"].Data.Elements
	r := o.Data["R_H2"].Data.Elements
	for i, cs := range cSource {
		if cs < 0 || math.IsNaN(cs) {
			t.Errorf("cell %d: cSource=%g", i, cs)
		}
		if r[i] != -cs {
			t.Errorf("cell %d: R_H2=%g but cSource=%g", i, r[i], cs)
		}
	}

	// Header plus one line per iteration.
	if n := countLines(t, filepath.Join(dir, "run.dat")); n != 4 {
		t.Errorf("run info has %d lines, want 4", n)
	}
	log, err := ioutil.ReadFile(filepath.Join(dir, "flame.log"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"evaluation complete", "power_kW"} {
		if !strings.Contains(string(log), want) {
			t.Errorf("log does not contain %q", want)
		}
	}
}

const testProperties = `
reactionRate = "TFC"
laminarBurningVelocity = "constant"
cIndex = -1

[TFCCoeffs]
H0 = 241.8e3
yIndex = 0
X_H2_0 = 0.1
correlation = "Bray"

[TFCCoeffs.constantCoeffs]
sLaminar = 0.2

[thermophysicalTransport]
model = "unityLewisEddy"
Prt = 0.85
`

func TestEvaluateProperties(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "combustionProperties.toml")
	if err := ioutil.WriteFile(path, []byte(testProperties), 0644); err != nil {
		t.Fatal(err)
	}
	dict, err := flamefoam.ReadDictFile(path)
	if err != nil {
		t.Fatal(err)
	}
	p := flamefoam.DefaultProfile()
	o, err := Evaluate(ioutil.Discard, filepath.Join(dir, "flame.log"), filepath.Join(dir, "flame.nc"),
		"", dict, p, 2, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if o.Summary.Iteration != 2 || o.Summary.Time != p.Time {
		t.Errorf("summary %+v", o.Summary)
	}
	for i, v := range o.Data["sL"].Data.Elements {
		if v != 0.2 {
			t.Errorf("cell %d: sL=%g, want 0.2", i, v)
		}
	}
	if o.Transport != "unityLewisEddy" {
		t.Errorf("transport %s", o.Transport)
	}

	// The file holds what was evaluated.
	read := readOutput(t, filepath.Join(dir, "flame.nc"))
	for name, v := range o.Data {
		rv, ok := read.Data[name]
		if !ok {
			t.Errorf("missing variable %s", name)
			continue
		}
		if rv.Units != v.Units || rv.Description != v.Description {
			t.Errorf("%s: have %q %q, want %q %q", name, rv.Units, rv.Description, v.Units, v.Description)
		}
		for i, e := range v.Data.Elements {
			if rv.Data.Elements[i] != e {
				t.Errorf("%s[%d]: have %g, want %g", name, i, rv.Data.Elements[i], e)
			}
		}
	}
	if read.Summary != o.Summary {
		t.Errorf("summary: have %+v, want %+v", read.Summary, o.Summary)
	}

	if _, err := Evaluate(ioutil.Discard, filepath.Join(dir, "flame.log"), filepath.Join(dir, "flame.nc"),
		"", dict, p, -1, 0, nil); err == nil {
		t.Error("negative NumIterations should fail")
	}
}

func TestConfigFile(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "flame.nc")
	config := `NumIterations = 2
TimeStep = 0.5e-3
OutputFile = "` + filepath.ToSlash(out) + `"

[Profile]
Cells = 20
XH2 = 0.15
`
	path := filepath.Join(dir, "config.toml")
	if err := ioutil.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := InitializeConfig()
	cfg.Root.SetOutput(ioutil.Discard)
	cfg.Root.SetArgs([]string{"evaluate", "--config=" + path})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	o := readOutput(t, out)
	if o.Summary.Iteration != 2 || different(o.Summary.Time, 1e-3, 1e-12) {
		t.Errorf("summary %+v", o.Summary)
	}
	if n := len(o.Data["T"].Data.Elements); n != 20 {
		t.Errorf("%d cells, want 20", n)
	}
}

func TestConfigFileMissing(t *testing.T) {
	cfg := InitializeConfig()
	cfg.Root.SetOutput(ioutil.Discard)
	cfg.Root.SetArgs([]string{"version", "--config=does_not_exist.toml"})
	if err := cfg.Root.Execute(); err == nil {
		t.Error("a missing configuration file should fail")
	}
}

func TestGetStringMapString(t *testing.T) {
	cfg := InitializeConfig()
	m, err := GetStringMapString("Expressions", cfg.Viper)
	if err != nil || len(m) != 0 {
		t.Errorf("default: %v, %v", m, err)
	}
	cfg.Set("Expressions", `{"a":"sLMax * 2"}`)
	if m, err = GetStringMapString("Expressions", cfg.Viper); err != nil || m["a"] != "sLMax * 2" {
		t.Errorf("json: %v, %v", m, err)
	}
	cfg.Set("Expressions", map[string]interface{}{"b": "time"})
	if m, err = GetStringMapString("Expressions", cfg.Viper); err != nil || m["b"] != "time" {
		t.Errorf("map: %v, %v", m, err)
	}
	cfg.Set("Expressions", "{not json")
	if _, err = GetStringMapString("Expressions", cfg.Viper); err == nil {
		t.Error("invalid json should fail")
	}
}

func testState(t *testing.T) *flamefoam.State {
	s, err := flamefoam.DefaultProfile().State()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewReactionRate(t *testing.T) {
	s := testState(t)
	p := flamefoam.DefaultProfile()
	for _, name := range []string{"TFC", "ETFC", "FSD"} {
		d := DefaultProperties(p)
		d["reactionRate"] = name
		d[name+"Coeffs"] = d["ETFCCoeffs"]
		rr, err := NewReactionRate(d, s, s, s)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		var ok bool
		switch name {
		case "TFC":
			_, ok = rr.(*tfc.TFC)
		case "ETFC":
			_, ok = rr.(*etfc.ETFC)
		case "FSD":
			_, ok = rr.(*fsd.FSD)
		}
		if !ok {
			t.Errorf("%s: have %T", name, rr)
		}
		rr.Correct()
		if rr.Shared().CSource().Max() <= 0 {
			t.Errorf("%s: no fuel consumed", name)
		}
	}

	d := DefaultProperties(p)
	d["reactionRate"] = "EDC"
	if _, err := NewReactionRate(d, s, s, s); err == nil {
		t.Error("unknown reaction rate should fail")
	}
	d = DefaultProperties(p)
	d["laminarBurningVelocity"] = "Gulder"
	if _, err := NewReactionRate(d, s, s, s); err == nil {
		t.Error("unknown laminar burning velocity should fail")
	}
	d = DefaultProperties(p)
	delete(d, "ETFCCoeffs")
	if _, err := NewReactionRate(d, s, s, s); err == nil {
		t.Error("missing coefficients should fail")
	}
}

func TestNewLaminarBurningVelocity(t *testing.T) {
	s := testState(t)
	p := flamefoam.DefaultProfile()
	coeffs := p.Coeffs()
	base, err := flamefoam.NewBase(coeffs, s, s, s)
	if err != nil {
		t.Fatal(err)
	}
	coeffs["sLaminar0"] = 0.1
	lbv, err := NewLaminarBurningVelocity("Malet", coeffs, base)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := lbv.(*malet.Malet); !ok {
		t.Errorf("have %T", lbv)
	}
	if _, err := NewLaminarBurningVelocity("constant", coeffs, base); err == nil {
		t.Error("missing sLaminar should fail")
	}
	if _, err := NewLaminarBurningVelocity("DNN", coeffs, base); err == nil {
		t.Error("missing weights should fail")
	}
	if _, err := NewLaminarBurningVelocity("malet", coeffs, base); err == nil {
		t.Error("names are case sensitive")
	}
}

func TestNewTransport(t *testing.T) {
	s := testState(t)
	name, d, err := TransportProperties(DefaultProperties(flamefoam.DefaultProfile()))
	if err != nil {
		t.Fatal(err)
	}
	if name != "nonUnityLewisETFC" {
		t.Errorf("name %s", name)
	}
	tr, err := NewTransport(name, d, s, s, s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*nonunitylewis.NonUnityLewisETFC); !ok {
		t.Errorf("have %T", tr)
	}
	tr, err = NewTransport("unityLewisEddy", d, s, s, s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*nonunitylewis.UnityLewisEddy); !ok {
		t.Errorf("have %T", tr)
	}
	if _, err := NewTransport("Fickian", d, s, s, s, nil); err == nil {
		t.Error("unknown transport should fail")
	}
	if _, err := NewTransport(name, flamefoam.Dict{"Prt": 0.7}, s, s, s, nil); err == nil {
		t.Error("missing coefficients should fail")
	}
}

func TestLaminarTable(t *testing.T) {
	p := flamefoam.DefaultProfile()
	xs := linspace(0.08, 0.29, 22)
	ps := []float64{0.5 * p.Pressure, p.Pressure, 2 * p.Pressure, 8 * p.Pressure}
	tab, err := NewLaminarTable(DefaultProperties(p), p, xs, ps)
	if err != nil {
		t.Fatal(err)
	}
	if len(tab.Composition) != len(xs) || len(tab.Pressure) != len(ps) {
		t.Fatalf("%d and %d points", len(tab.Composition), len(tab.Pressure))
	}
	for i := 1; i < len(tab.Composition); i++ {
		if tab.Composition[i].SL < tab.Composition[i-1].SL {
			t.Errorf("sL decreases from %g to %g at X_H2=%g", tab.Composition[i-1].SL,
				tab.Composition[i].SL, tab.Composition[i].XH2)
		}
	}
	if sl := tab.Pressure[1].SL; sl != 0.1 {
		t.Errorf("reference state: sL=%g, want 0.1", sl)
	}
	want := malet.Beta(malet.Phi(p.XH2))
	if different(tab.PressureExponent, want, 1e-10) {
		t.Errorf("pressure exponent %g, want %g", tab.PressureExponent, want)
	}
	if different(tab.RSquared, 1, 1e-10) {
		t.Errorf("R² = %g", tab.RSquared)
	}
}

func TestLBVCommand(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	cfg := InitializeConfig()
	b := new(bytes.Buffer)
	cfg.Root.SetOutput(b)
	cfg.Set("lbv.Plot", filepath.Join(dir, "lbv.png"))
	cfg.Set("lbv.Table", filepath.Join(dir, "lbv.xlsx"))
	cfg.Set("lbv.N", 5)
	cfg.Root.SetArgs([]string{"lbv"})
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "pressure exponent") {
		t.Errorf("output:\n%s", b.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "lbv.png")); err != nil {
		t.Error(err)
	}
	f, err := xlsx.OpenFile(filepath.Join(dir, "lbv.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	for sheet, rows := range map[string]int{"composition": 6, "pressure": 6} {
		sh, ok := f.Sheet[sheet]
		if !ok {
			t.Errorf("missing sheet %s", sheet)
			continue
		}
		if len(sh.Rows) != rows {
			t.Errorf("sheet %s has %d rows, want %d", sheet, len(sh.Rows), rows)
		}
	}
	sl, err := f.Sheet["pressure"].Rows[2].Cells[2].Float()
	if err != nil {
		t.Fatal(err)
	}
	if sl != 0.1 {
		t.Errorf("reference state: sL=%g, want 0.1", sl)
	}
}
