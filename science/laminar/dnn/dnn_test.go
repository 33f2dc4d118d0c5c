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

package dnn

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flamefoam/flamefoam"
)

const testNetwork = `
inputMean = [101325.0, 298.15, 0.1, 0.0]
inputScale = [100000.0, 100.0, 0.1, 0.1]
outputMean = 0.05
outputScale = 0.1

[[layers]]
activation = "tanh"
weights = [[0.5, 1.0, 2.0, -1.0], [-0.25, 0.0, 1.0, 0.0]]
biases = [0.1, -0.2]

[[layers]]
activation = "linear"
weights = [[1.5, -0.5]]
biases = [0.3]
`

// want evaluates testNetwork by hand.
func want(p, tu, x, s float64) float64 {
	in := []float64{(p - 101325) / 1e5, (tu - 298.15) / 100, (x - 0.1) / 0.1, s / 0.1}
	h1 := math.Tanh(0.5*in[0] + in[1] + 2*in[2] - in[3] + 0.1)
	h2 := math.Tanh(-0.25*in[0] + in[2] - 0.2)
	v := (1.5*h1-0.5*h2+0.3)*0.1 + 0.05
	return math.Max(v, 0)
}

func testBase(t *testing.T) *flamefoam.Base {
	p := flamefoam.DefaultProfile()
	s, err := p.State()
	if err != nil {
		t.Fatal(err)
	}
	b, err := flamefoam.NewBase(p.Coeffs(), s, s, s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func writeNetwork(t *testing.T, dir, text string) string {
	path := filepath.Join(dir, "network.toml")
	if err := ioutil.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDNN(t *testing.T) {
	dir, err := ioutil.TempDir("", "dnn")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := writeNetwork(t, dir, testNetwork)

	d, err := New(flamefoam.Dict{"weights": path, "cacheSize": 16}, testBase(t))
	if err != nil {
		t.Fatal(err)
	}
	cases := [][4]float64{
		{101325, 298.15, 0.1, 0},
		{2e5, 350, 0.15, 0.1},
		{5e4, 300, 0.05, 0.3},
	}
	for _, c := range cases {
		have := d.Evaluate(c[0], c[1], c[2], c[3])
		if math.Abs(have-want(c[0], c[1], c[2], c[3])) > 1e-14 {
			t.Errorf("%v: have %g, want %g", c, have, want(c[0], c[1], c[2], c[3]))
		}
		if again := d.Evaluate(c[0], c[1], c[2], c[3]); again != have {
			t.Errorf("%v: memoized %g != %g", c, again, have)
		}
	}
	if d.cache.Len() != len(cases) {
		t.Errorf("cache holds %d states; want %d", d.cache.Len(), len(cases))
	}

	// The profile is uniform at the reference state, which is already
	// memoized.
	d.Correct()
	if d.SL().Min() != d.SL().Max() || math.Abs(d.SL().Min()-want(101325, 298.15, 0.1, 0)) > 1e-14 {
		t.Errorf("sL range [%g, %g]", d.SL().Min(), d.SL().Max())
	}
	if d.cache.Len() != len(cases) {
		t.Errorf("cache holds %d states after Correct; want %d", d.cache.Len(), len(cases))
	}

	// Rereading keeps the memoized states.
	if err := d.Read(flamefoam.Dict{"weights": path, "cacheSize": 16}); err != nil {
		t.Fatal(err)
	}
	if d.cache.Len() != len(cases) {
		t.Errorf("reread cleared the cache")
	}
	if err := d.Read(flamefoam.Dict{"weights": filepath.Join(dir, "missing.toml")}); err == nil {
		t.Error("missing network should fail")
	}
	if have := d.Evaluate(2e5, 350, 0.15, 0.1); math.Abs(have-want(2e5, 350, 0.15, 0.1)) > 1e-14 {
		t.Error("failed read changed the network")
	}
}

func TestNoCache(t *testing.T) {
	dir, err := ioutil.TempDir("", "dnn")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := writeNetwork(t, dir, testNetwork)

	d, err := New(flamefoam.Dict{"weights": path, "cacheSize": 0}, testBase(t))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if have := d.Evaluate(2e5, 350, 0.15, 0.1); math.Abs(have-want(2e5, 350, 0.15, 0.1)) > 1e-14 {
			t.Errorf("have %g, want %g", have, want(2e5, 350, 0.15, 0.1))
		}
	}
	if d.cache != nil {
		t.Errorf("cacheSize 0 should not memoize, but the cache holds %d states", d.cache.Len())
	}

	// Enabling the cache on reread.
	if err := d.Read(flamefoam.Dict{"weights": path, "cacheSize": 2}); err != nil {
		t.Fatal(err)
	}
	d.Evaluate(2e5, 350, 0.15, 0.1)
	if d.cache == nil || d.cache.Len() != 1 {
		t.Error("cache should be enabled after reread")
	}
	if err := d.Read(flamefoam.Dict{"weights": path, "cacheSize": -1}); err == nil {
		t.Error("negative cacheSize should fail")
	}
	n, err := ReadNetworkFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromNetwork(n, -1, testBase(t)); err == nil {
		t.Error("negative cacheSize should fail")
	}
}

func TestInvalidNetwork(t *testing.T) {
	bad := []string{
		strings.Replace(testNetwork, `"tanh"`, `"softplus"`, 1),
		strings.Replace(testNetwork, "biases = [0.3]", "biases = [0.3, 0.1]", 1),
		strings.Replace(testNetwork, "weights = [[1.5, -0.5]]", "weights = [[1.5]]", 1),
		strings.Replace(testNetwork, "inputScale = [100000.0, 100.0, 0.1, 0.1]", "inputScale = [0.0, 100.0, 0.1, 0.1]", 1),
		strings.Replace(testNetwork, "inputMean = [101325.0, 298.15, 0.1, 0.0]", "inputMean = [101325.0]", 1),
		"inputMean = [",
	}
	b := testBase(t)
	for i, text := range bad {
		n, err := ReadNetwork(strings.NewReader(text))
		if err != nil {
			continue
		}
		if _, err := NewFromNetwork(n, 4, b); err == nil {
			t.Errorf("case %d should be an error", i)
		}
	}
}

func TestNonNegative(t *testing.T) {
	n, err := ReadNetwork(strings.NewReader(strings.Replace(testNetwork, "outputMean = 0.05", "outputMean = -10.0", 1)))
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewFromNetwork(n, 0, testBase(t))
	if err != nil {
		t.Fatal(err)
	}
	if v := d.Evaluate(101325, 298.15, 0.1, 0); v != 0 {
		t.Errorf("have %g, want 0", v)
	}
}
