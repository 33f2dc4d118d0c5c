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
	"os"
	"time"

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func (cfg *Cfg) runEvaluate(cmd *cobra.Command) error {
	outputFile, err := checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return err
	}
	expressions, err := GetStringMapString("Expressions", cfg.Viper)
	if err != nil {
		return err
	}
	p := ProfileConfig(cfg.Viper)
	dict, err := combustionProperties(os.ExpandEnv(cfg.GetString("CombustionProperties")), p)
	if err != nil {
		return err
	}
	_, err = Evaluate(cmd.OutOrStdout(),
		checkLogFile(cfg.GetString("LogFile"), outputFile), outputFile,
		os.ExpandEnv(cfg.GetString("RunInfo")), dict, p,
		cfg.GetInt("NumIterations"), cfg.GetFloat64("TimeStep"), expressions)
	return err
}

// Evaluate builds the flame p, corrects the combustion model configured
// by dict NumIterations times, advancing the simulation time by timeStep
// before each correction, and writes the fields to OutputFile. Log
// messages go to both stdout and LogFile. If runInfo is not empty, a line
// of diagnostics is appended to it after each iteration; otherwise the
// runInfo entry of dict is used. expressions are evaluated over the
// summary of each iteration and logged.
func Evaluate(stdout io.Writer, LogFile, OutputFile, runInfo string, dict flamefoam.Dict, p flamefoam.Profile,
	NumIterations int, timeStep float64, expressions map[string]string) (*Output, error) {

	startTime := time.Now()

	if NumIterations < 0 {
		return nil, fmt.Errorf("flamefoam: NumIterations=%d but should be >=0", NumIterations)
	}
	if !(timeStep >= 0) {
		return nil, fmt.Errorf("flamefoam: TimeStep=%g but should be >=0", timeStep)
	}

	logfile, err := os.Create(LogFile)
	if err != nil {
		return nil, fmt.Errorf("flamefoam: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := logrus.New()
	log.Out = io.MultiWriter(stdout, logfile)

	s, err := p.State()
	if err != nil {
		return nil, err
	}
	rate, err := NewReactionRate(dict, s, s, s)
	if err != nil {
		return nil, err
	}

	observers := []flamefoam.Observer{flamefoam.LogObserver{Log: log}}
	if runInfo == "" {
		if runInfo, err = dict.WordDefault("runInfo", ""); err != nil {
			return nil, err
		}
	}
	if runInfo != "" {
		ri := flamefoam.NewRunInfo(runInfo, log)
		defer func() {
			if err := ri.Close(); err != nil {
				log.Warnf("flamefoam: closing run info: %v", err)
			}
		}()
		observers = append(observers, ri)
	}
	if len(expressions) > 0 {
		eo, err := flamefoam.NewExpressionObserver(expressions, log)
		if err != nil {
			return nil, err
		}
		observers = append(observers, eo)
	}

	m, err := flamefoam.NewModel(rate, dict, log, observers...)
	if err != nil {
		return nil, err
	}

	var (
		transport     flamefoam.ThermophysicalTransport
		transportName string
	)
	if dict.Has("thermophysicalTransport") {
		var td flamefoam.Dict
		transportName, td, err = TransportProperties(dict)
		if err != nil {
			return nil, err
		}
		if transport, err = NewTransport(transportName, td, s, s, s, nil); err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"cells":      p.Cells,
		"iterations": NumIterations,
		"timeStep":   timeStep,
	}).Info("flamefoam: starting evaluation")

	for i := 0; i < NumIterations; i++ {
		s.Time += timeStep
		m.Correct()
	}

	o := newOutput(m, s, transport)
	o.Transport = transportName
	o.Laminar, _ = dict.WordDefault("laminarBurningVelocity", "")
	o.Reaction, _ = dict.WordDefault("reactionRate", "")

	f, err := os.Create(OutputFile)
	if err != nil {
		return nil, fmt.Errorf("flamefoam: problem creating output file: %v", err)
	}
	if err := o.Write(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"output":   OutputFile,
		"duration": time.Since(startTime),
	}).Info("flamefoam: evaluation complete")
	return o, nil
}

// Enthalpy returns the sensible enthalpy of the mixture [J/kg].
func Enthalpy(s *flamefoam.State) *fv.VolField {
	he := fv.NewVolField("he", s.Mesh(), 0)
	for i, y := range s.Y() {
		hs := s.Hs(i)
		for c := range he.Values {
			he.Values[c] += y.Values[c] * hs.Values[c]
		}
	}
	return he
}

// newOutput collects the fields of the current state of m and s.
// transport may be nil.
func newOutput(m *flamefoam.Model, s *flamefoam.State, transport flamefoam.ThermophysicalTransport) *Output {
	b := m.ReactionRate().Shared()
	mesh := s.Mesh()
	o := &Output{Summary: m.Summary()}

	cell := []string{"cell"}
	x := make([]float64, mesh.NCells())
	for i, c := range mesh.C {
		x[i] = c[0]
	}
	o.AddVariable("x", cell, "Cell centre position", "m", x)
	o.AddVariable("T", cell, "Temperature", "K", s.T().Values)
	o.AddVariable("rho", cell, "Density", "kg/m3", s.Rho().Values)
	o.AddVariable("c", cell, "Reaction progress variable", "1", b.Progress().Values)
	o.AddVariable("sL", cell, "Laminar burning velocity", "m/s", b.SL().Values)
	o.AddVariable("cSource", cell, "Fuel consumption rate", "kg/m3/s", b.CSource().Values)
	o.AddVariable("Qdot", cell, "Heat release rate", "W/m3", m.Qdot().Values)
	yIndex := b.Coeffs().YIndex
	o.AddVariable("R_"+s.Species()[yIndex], cell, "Fuel source term", "kg/m3/s", m.R(yIndex))

	if transport == nil {
		return o
	}
	he := Enthalpy(s)
	o.AddVariable("DEff", cell, "Effective mass diffusivity", "kg/m/s", transport.DEff().Values)
	o.AddVariable("divQ", cell, "Divergence of the heat flux", "W/m3", transport.DivQ(he).Residual(he.Values))

	face := []string{"face"}
	xf := make([]float64, mesh.NFaces())
	for f, w := range mesh.Weights {
		xf[f] = w*mesh.C[mesh.Owner[f]][0] + (1-w)*mesh.C[mesh.Neighbour[f]][0]
	}
	o.AddVariable("xFace", face, "Internal face position", "m", xf)
	o.AddVariable("Q", face, "Heat flux", "W/m2", transport.Q().Values)
	return o
}
