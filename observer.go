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
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// Observer receives the diagnostics of each Model iteration.
// Observers must not return errors to the model: diagnostics never
// interrupt a simulation.
type Observer interface {
	Observe(s Summary)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(s Summary)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Summary) { f(s) }

// RunInfo appends one line per iteration to a text file. Earlier
// content of the file is kept, and the header is written only to an
// empty file.
type RunInfo struct {
	path string
	log  logrus.FieldLogger

	// Retry is the policy for opening the file.
	Retry backoff.BackOff

	w        io.WriteCloser
	empty    bool // the file had no content when opened
	disabled bool
}

// NewRunInfo returns an observer that writes to the file at path, which
// is created when the first summary arrives. Failures are logged to log
// and otherwise ignored.
func NewRunInfo(path string, log logrus.FieldLogger) *RunInfo {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	return &RunInfo{
		path:  os.ExpandEnv(path),
		log:   log,
		Retry: backoff.WithMaxRetries(b, 3),
	}
}

func (r *RunInfo) open() error {
	return backoff.RetryNotify(
		func() error {
			f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return err
			}
			fi, err := f.Stat()
			if err != nil {
				f.Close()
				return err
			}
			r.w = f
			r.empty = fi.Size() == 0
			return nil
		},
		r.Retry,
		func(err error, d time.Duration) {
			r.log.WithField("path", r.path).Warnf("flamefoam: opening run info: %v: retrying in %v", err, d)
		},
	)
}

// Observe writes s to the file.
func (r *RunInfo) Observe(s Summary) {
	if r.disabled {
		return
	}
	if r.w == nil {
		if err := r.open(); err != nil {
			r.log.WithField("path", r.path).Warnf("flamefoam: run info disabled: %v", err)
			r.disabled = true
			return
		}
		if r.empty {
			if _, err := fmt.Fprintln(r.w, "# iteration time heatRelease sLMin sLMax cSourceMax"); err != nil {
				r.log.Warnf("flamefoam: writing run info: %v", err)
			}
		}
	}
	_, err := fmt.Fprintf(r.w, "%d %g %g %g %g %g\n",
		s.Iteration, s.Time, s.HeatRelease, s.SLMin, s.SLMax, s.CSourceMax)
	if err != nil {
		r.log.Warnf("flamefoam: writing run info: %v", err)
	}
}

// Close closes the file.
func (r *RunInfo) Close() error {
	if r.w == nil {
		return nil
	}
	err := r.w.Close()
	r.w = nil
	r.disabled = true
	return err
}

// LogObserver writes each summary as a structured log entry.
type LogObserver struct {
	Log logrus.FieldLogger
}

// Observe logs s.
func (l LogObserver) Observe(s Summary) {
	l.Log.WithFields(logrus.Fields(s.Vars())).Info("flamefoam: iteration")
}

// ExpressionObserver evaluates user expressions of the summary variables
// iteration, time, heatRelease, sLMin, sLMax and cSourceMax, and logs the
// results.
type ExpressionObserver struct {
	log         logrus.FieldLogger
	names       []string
	expressions map[string]*govaluate.EvaluableExpression

	// Last holds the results of the last evaluation.
	Last map[string]float64
}

// floatArgs checks that the function name got n numeric arguments.
func floatArgs(name string, n int, arg []interface{}) ([]float64, error) {
	if len(arg) != n {
		return nil, fmt.Errorf("flamefoam: got %d arguments for function '%s', but needs %d", len(arg), name, n)
	}
	o := make([]float64, n)
	for i, a := range arg {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("flamefoam: argument %d of function '%s' is %v, which is not a number", i+1, name, a)
		}
		o[i] = v
	}
	return o, nil
}

// expressionFuncs are the functions available in summary expressions.
var expressionFuncs = map[string]govaluate.ExpressionFunction{
	"exp": func(arg ...interface{}) (interface{}, error) {
		x, err := floatArgs("exp", 1, arg)
		if err != nil {
			return nil, err
		}
		return math.Exp(x[0]), nil
	},
	"log10": func(arg ...interface{}) (interface{}, error) {
		x, err := floatArgs("log10", 1, arg)
		if err != nil {
			return nil, err
		}
		return math.Log10(x[0]), nil
	},
	"max": func(arg ...interface{}) (interface{}, error) {
		x, err := floatArgs("max", 2, arg)
		if err != nil {
			return nil, err
		}
		return math.Max(x[0], x[1]), nil
	},
}

// NewExpressionObserver parses the expressions, which are keyed by the
// names of their results.
func NewExpressionObserver(expressions map[string]string, log logrus.FieldLogger) (*ExpressionObserver, error) {
	e := &ExpressionObserver{
		log:         log,
		expressions: make(map[string]*govaluate.EvaluableExpression),
		Last:        make(map[string]float64),
	}
	vars := Summary{}.Vars()
	for name, expr := range expressions {
		ex, err := govaluate.NewEvaluableExpressionWithFunctions(expr, expressionFuncs)
		if err != nil {
			return nil, fmt.Errorf("flamefoam: expression %s: %v", name, err)
		}
		for _, v := range ex.Vars() {
			if _, ok := vars[v]; !ok {
				return nil, fmt.Errorf("flamefoam: expression %s: unknown variable %s", name, v)
			}
		}
		e.expressions[name] = ex
		e.names = append(e.names, name)
	}
	sort.Strings(e.names)
	return e, nil
}

// Observe evaluates the expressions for s.
func (e *ExpressionObserver) Observe(s Summary) {
	vars := s.Vars()
	fields := make(logrus.Fields)
	for _, name := range e.names {
		v, err := e.expressions[name].Evaluate(vars)
		if err != nil {
			e.log.Warnf("flamefoam: evaluating %s: %v", name, err)
			continue
		}
		f, ok := v.(float64)
		if !ok {
			e.log.Warnf("flamefoam: expression %s is not numeric: %v", name, v)
			continue
		}
		e.Last[name] = f
		fields[name] = f
	}
	e.log.WithFields(fields).Info("flamefoam: expressions")
}
