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

// Package dnn contains a laminar burning velocity computed by a trained
// feed-forward neural network.
//
// The network is read from a TOML file of the form
//
//  inputMean = [101325.0, 298.15, 0.1, 0.0]
//  inputScale = [1.0e5, 100.0, 0.1, 0.1]
//  outputMean = 0.0
//  outputScale = 1.0
//
//  [[layers]]
//  activation = "tanh"
//  weights = [[...], ...] # one row per neuron
//  biases = [...]
//
// The inputs are pressure [Pa], unburnt temperature [K], dry-basis hydrogen
// mole fraction and steam mole fraction. The last layer has one neuron,
// whose scaled output is the burning velocity [m/s].
package dnn

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
	"github.com/flamefoam/flamefoam/internal/hash"
	"github.com/golang/groupcache/lru"
	"gonum.org/v1/gonum/mat"
)

const nInputs = 4

// Layer is one dense network layer.
type Layer struct {
	Activation string
	Weights    [][]float64
	Biases     []float64
}

// Network is the serialized form of a network.
type Network struct {
	InputMean   []float64 `toml:"inputMean"`
	InputScale  []float64 `toml:"inputScale"`
	OutputMean  float64   `toml:"outputMean"`
	OutputScale float64   `toml:"outputScale"`
	Layers      []Layer   `toml:"layers"`
}

// ReadNetwork decodes a network from r.
func ReadNetwork(r io.Reader) (*Network, error) {
	n := new(Network)
	if _, err := toml.DecodeReader(r, n); err != nil {
		return nil, fmt.Errorf("dnn: reading network: %v", err)
	}
	return n, nil
}

// ReadNetworkFile decodes the network in the given file.
func ReadNetworkFile(path string) (*Network, error) {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("dnn: opening network: %v", err)
	}
	defer f.Close()
	return ReadNetwork(f)
}

type dense struct {
	w          *mat.Dense
	b          *mat.VecDense
	activation func(float64) float64
}

var activations = map[string]func(float64) float64{
	"tanh":    math.Tanh,
	"linear":  func(x float64) float64 { return x },
	"relu":    func(x float64) float64 { return math.Max(x, 0) },
	"sigmoid": func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
}

// model is a network ready for evaluation.
type model struct {
	mean, scale       [nInputs]float64
	outMean, outScale float64
	layers            []dense
}

func (n *Network) build() (*model, error) {
	if len(n.InputMean) != nInputs || len(n.InputScale) != nInputs {
		return nil, fmt.Errorf("dnn: network needs %d input means and scales; have %d and %d",
			nInputs, len(n.InputMean), len(n.InputScale))
	}
	if len(n.Layers) == 0 {
		return nil, fmt.Errorf("dnn: network has no layers")
	}
	m := &model{outMean: n.OutputMean, outScale: n.OutputScale}
	for i := 0; i < nInputs; i++ {
		if n.InputScale[i] == 0 {
			return nil, fmt.Errorf("dnn: input %d has zero scale", i)
		}
		m.mean[i], m.scale[i] = n.InputMean[i], n.InputScale[i]
	}
	cols := nInputs
	for i, l := range n.Layers {
		act, ok := activations[l.Activation]
		if !ok {
			return nil, fmt.Errorf("dnn: invalid activation %q in layer %d; valid options are tanh, relu, sigmoid and linear", l.Activation, i)
		}
		rows := len(l.Weights)
		if rows == 0 || len(l.Biases) != rows {
			return nil, fmt.Errorf("dnn: layer %d has %d weight rows and %d biases", i, rows, len(l.Biases))
		}
		w := mat.NewDense(rows, cols, nil)
		for r, row := range l.Weights {
			if len(row) != cols {
				return nil, fmt.Errorf("dnn: layer %d row %d has %d weights; want %d", i, r, len(row), cols)
			}
			w.SetRow(r, row)
		}
		m.layers = append(m.layers, dense{
			w:          w,
			b:          mat.NewVecDense(rows, append([]float64(nil), l.Biases...)),
			activation: act,
		})
		cols = rows
	}
	if cols != 1 {
		return nil, fmt.Errorf("dnn: output layer has %d neurons; want 1", cols)
	}
	return m, nil
}

// evaluate runs the network forward.
func (m *model) evaluate(in [nInputs]float64) float64 {
	x := mat.NewVecDense(nInputs, nil)
	for i, v := range in {
		x.SetVec(i, (v-m.mean[i])/m.scale[i])
	}
	for _, l := range m.layers {
		r, _ := l.w.Dims()
		y := mat.NewVecDense(r, nil)
		y.MulVec(l.w, x)
		y.AddVec(y, l.b)
		for i := 0; i < r; i++ {
			y.SetVec(i, l.activation(y.AtVec(i)))
		}
		x = y
	}
	return flamefoam.NonNegative(x.AtVec(0)*m.outScale + m.outMean)
}

// DNN is a LaminarBurningVelocity computed by a neural network for the
// unburnt mixture of a reaction rate model. Evaluated states are
// memoized.
type DNN struct {
	rr    *flamefoam.Base
	net   *model
	key   string
	cache *lru.Cache
	sL    *fv.VolField
}

// New returns a network model configured from dict, which holds the
// path of the network file (weights) and optionally the number of
// memoized states (cacheSize). A cacheSize of 0 disables the memoization.
func New(dict flamefoam.Dict, rr *flamefoam.Base) (*DNN, error) {
	d := &DNN{rr: rr, sL: fv.NewVolField("sL", rr.Mesh(), 0)}
	if err := d.Read(dict); err != nil {
		return nil, err
	}
	return d, nil
}

// NewFromNetwork returns a network model using n directly.
func NewFromNetwork(n *Network, cacheSize int, rr *flamefoam.Base) (*DNN, error) {
	if cacheSize < 0 {
		return nil, fmt.Errorf("dnn: cacheSize=%d but should be >=0", cacheSize)
	}
	m, err := n.build()
	if err != nil {
		return nil, err
	}
	return &DNN{
		rr:    rr,
		net:   m,
		key:   hash.Hash(n),
		cache: newCache(cacheSize),
		sL:    fv.NewVolField("sL", rr.Mesh(), 0),
	}, nil
}

// newCache returns a cache holding size states, or nil if size is 0.
// lru.New(0) would never evict.
func newCache(size int) *lru.Cache {
	if size == 0 {
		return nil
	}
	return lru.New(size)
}

// Evaluate returns the burning velocity [m/s] at pressure p [Pa] and
// unburnt temperature tu [K] of a mixture with the dry-basis hydrogen
// fraction xH2 and the steam fraction xH2O.
func (d *DNN) Evaluate(p, tu, xH2, xH2O float64) float64 {
	k := [nInputs]float64{p, tu, xH2, xH2O}
	if d.cache == nil {
		return d.net.evaluate(k)
	}
	if v, ok := d.cache.Get(k); ok {
		return v.(float64)
	}
	v := d.net.evaluate(k)
	d.cache.Add(k, v)
	return v
}

// Correct evaluates the network for the local pressure and unburnt
// temperature.
func (d *DNN) Correct() {
	c := d.rr.Coeffs()
	p := d.rr.Thermo().P().Values
	tu := d.rr.TU().Values
	for i := range d.sL.Values {
		d.sL.Values[i] = d.Evaluate(p[i], tu[i], c.XH2_0, c.XH2O)
	}
}

// SL returns the laminar burning velocity [m/s].
func (d *DNN) SL() *fv.VolField { return d.sL }

// Read reloads the network. The memoized states are kept if the network
// is unchanged.
func (d *DNN) Read(dict flamefoam.Dict) error {
	path, err := dict.Word("weights")
	if err != nil {
		return err
	}
	size, err := dict.LabelDefault("cacheSize", 1024)
	if err != nil {
		return err
	}
	if size < 0 {
		return fmt.Errorf("dnn: cacheSize=%d but should be >=0", size)
	}
	n, err := ReadNetworkFile(path)
	if err != nil {
		return err
	}
	m, err := n.build()
	if err != nil {
		return err
	}
	key := hash.Hash(n)
	if key != d.key || d.cache == nil || d.cache.MaxEntries != size {
		d.cache = newCache(size)
	}
	d.net, d.key = m, key
	return nil
}
