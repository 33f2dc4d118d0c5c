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

	"github.com/flamefoam/flamefoam/fv"
	"github.com/flamefoam/flamefoam/internal/hash"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Stage is the lifecycle stage of a Model.
type Stage int

// Model lifecycle stages. A Model is Configured when it is created,
// Active after its first Correct, and Reconfigured after a successful
// Read until the next Correct.
const (
	Uninitialized Stage = iota
	Configured
	Active
	Reconfigured
)

func (s Stage) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Configured:
		return "configured"
	case Active:
		return "active"
	case Reconfigured:
		return "reconfigured"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// modelCoeffs are the coefficients of the Model itself.
type modelCoeffs struct {
	// CIndex is the index of the progress variable specie, or -1.
	CIndex int
	Debug  bool
}

// Summary holds the diagnostics of one Model iteration.
type Summary struct {
	Iteration int
	Time      float64

	// HeatRelease is the volume integral of Qdot [W].
	HeatRelease float64

	// SLMin and SLMax are the extremes of the laminar burning
	// velocity [m/s].
	SLMin, SLMax float64

	// CSourceMax is the maximum fuel consumption rate [kg/m³/s].
	CSourceMax float64
}

// Vars returns the summary values keyed by their names in
// user expressions.
func (s Summary) Vars() map[string]interface{} {
	return map[string]interface{}{
		"iteration":   float64(s.Iteration),
		"time":        s.Time,
		"heatRelease": s.HeatRelease,
		"sLMin":       s.SLMin,
		"sLMax":       s.SLMax,
		"cSourceMax":  s.CSourceMax,
	}
}

// Model is the combustion model seen by the host solver. It owns one
// ReactionRate and republishes its source terms.
type Model struct {
	rate      ReactionRate
	coeffs    modelCoeffs
	stage     Stage
	iteration int
	hash      string

	log       logrus.FieldLogger
	observers []Observer
}

func parseModelCoeffs(dict Dict, th Thermo) (modelCoeffs, error) {
	var c modelCoeffs
	var err error
	if c.CIndex, err = dict.LabelDefault("cIndex", SpecieIndex(th, "c")); err != nil {
		return c, err
	}
	if c.CIndex >= len(th.Species()) {
		return c, fmt.Errorf("flamefoam: cIndex=%d but there are %d species", c.CIndex, len(th.Species()))
	}
	if c.Debug, err = dict.Switch("debug", false); err != nil {
		return c, err
	}
	return c, nil
}

// NewModel returns a Model that takes ownership of rate. dict holds the
// model coefficients (cIndex and debug). Observers are notified after
// every Correct.
func NewModel(rate ReactionRate, dict Dict, log logrus.FieldLogger, observers ...Observer) (*Model, error) {
	if rate == nil {
		return nil, fmt.Errorf("flamefoam: nil reaction rate")
	}
	c, err := parseModelCoeffs(dict, rate.Shared().Thermo())
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &Model{
		rate:      rate,
		coeffs:    c,
		stage:     Configured,
		hash:      hash.Hash(dict),
		log:       log,
		observers: observers,
	}
	m.log.WithFields(logrus.Fields{
		"cIndex": c.CIndex,
		"yIndex": rate.Shared().Coeffs().YIndex,
		"HEff":   rate.Shared().Coeffs().HEff,
	}).Info("flamefoam: combustion model configured")
	return m, nil
}

// Stage returns the lifecycle stage of m.
func (m *Model) Stage() Stage { return m.stage }

// ReactionRate returns the reaction rate model owned by m.
func (m *Model) ReactionRate() ReactionRate { return m.rate }

// AddObserver adds o to the observers notified after Correct.
func (m *Model) AddObserver(o Observer) { m.observers = append(m.observers, o) }

// Correct recomputes the source terms and notifies the observers.
func (m *Model) Correct() {
	m.rate.Correct()
	m.iteration++
	m.stage = Active
	s := m.Summary()
	if m.coeffs.Debug {
		m.log.WithFields(logrus.Fields{
			"iteration": s.Iteration,
			"cSource":   s.CSourceMax,
			"sLMin":     s.SLMin,
			"sLMax":     s.SLMax,
		}).Debug("flamefoam: corrected reaction rate")
	}
	for _, o := range m.observers {
		o.Observe(s)
	}
}

// Summary returns the diagnostics of the last Correct.
func (m *Model) Summary() Summary {
	b := m.rate.Shared()
	s := Summary{
		Iteration:   m.iteration,
		Time:        b.Clock().Value(),
		HeatRelease: fv.Integrate(b.Mesh(), m.rate.Qdot().Values),
	}
	if sl := b.SL().Values; len(sl) > 0 {
		s.SLMin, s.SLMax = floats.Min(sl), floats.Max(sl)
		s.CSourceMax = floats.Max(b.CSource().Values)
	}
	return s
}

// R returns the explicit source of specie i [kg/m³/s].
func (m *Model) R(speciei int) []float64 {
	if speciei == m.coeffs.CIndex && speciei >= 0 {
		b := m.rate.Shared()
		o := append([]float64(nil), b.CSource().Values...)
		floats.Scale(1/b.Coeffs().YH2_0, o)
		return o
	}
	return m.rate.R(speciei)
}

// RMatrix returns the source of the specie whose mass fraction is Y.
func (m *Model) RMatrix(Y *fv.VolField) *fv.Matrix {
	b := m.rate.Shared()
	if i := SpecieIndex(b.Thermo(), Y.Name); i == m.coeffs.CIndex && i >= 0 {
		return fv.Su(m.R(i), Y)
	}
	return m.rate.RMatrix(Y)
}

// Qdot returns the heat release rate [W/m³].
func (m *Model) Qdot() *fv.VolField { return m.rate.Qdot() }

// Read reloads the coefficients of the model and of its reaction rate.
// If it returns an error the previous coefficients are kept.
func (m *Model) Read(dict Dict) error {
	c, err := parseModelCoeffs(dict, m.rate.Shared().Thermo())
	if err != nil {
		return err
	}
	rateName, err := dict.Word("reactionRate")
	if err != nil {
		return err
	}
	rateDict, err := dict.Sub(rateName + "Coeffs")
	if err != nil {
		return err
	}
	if err := m.rate.Read(rateDict); err != nil {
		return err
	}
	m.coeffs = c
	h := hash.Hash(dict)
	m.log.WithField("changed", h != m.hash).Info("flamefoam: combustion model coefficients reloaded")
	m.hash = h
	if m.stage != Configured {
		m.stage = Reconfigured
	}
	return nil
}
