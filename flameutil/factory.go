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

	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
	"github.com/flamefoam/flamefoam/science/laminar/constant"
	"github.com/flamefoam/flamefoam/science/laminar/dnn"
	"github.com/flamefoam/flamefoam/science/laminar/malet"
	"github.com/flamefoam/flamefoam/science/transport/nonunitylewis"
	"github.com/flamefoam/flamefoam/science/turbulent/etfc"
	"github.com/flamefoam/flamefoam/science/turbulent/fsd"
	"github.com/flamefoam/flamefoam/science/turbulent/tfc"
)

// NewLaminarBurningVelocity returns the laminar burning velocity model
// with the given name (Malet, constant or DNN), configured from dict and
// computed for the unburnt mixture of rr.
func NewLaminarBurningVelocity(name string, dict flamefoam.Dict, rr *flamefoam.Base) (flamefoam.LaminarBurningVelocity, error) {
	var (
		lbv flamefoam.LaminarBurningVelocity
		err error
	)
	switch name {
	case "Malet":
		lbv, err = malet.New(dict, rr)
	case "constant":
		lbv, err = constant.New(dict, rr)
	case "DNN":
		lbv, err = dnn.New(dict, rr)
	default:
		return nil, fmt.Errorf("flameutil: invalid laminar burning velocity model %q; valid options are Malet, constant and DNN", name)
	}
	if err != nil {
		return nil, fmt.Errorf("flameutil: configuring laminar burning velocity %s: %v", name, err)
	}
	return lbv, nil
}

// NewReactionRate returns the reaction rate selected by the reactionRate
// keyword of dict (TFC, ETFC or FSD) with the laminar burning velocity
// selected by the laminarBurningVelocity keyword. Both are configured
// from the <reactionRate>Coeffs sub-dictionary; the burning velocity
// reads its own <laminarBurningVelocity>Coeffs sub-dictionary of that if
// there is one.
func NewReactionRate(dict flamefoam.Dict, thermo flamefoam.Thermo, turb flamefoam.Turbulence, clock flamefoam.Clock) (flamefoam.ReactionRate, error) {
	name, err := dict.Word("reactionRate")
	if err != nil {
		return nil, err
	}
	switch name {
	case "TFC", "ETFC", "FSD":
	default:
		return nil, fmt.Errorf("flameutil: invalid reaction rate model %q; valid options are TFC, ETFC and FSD", name)
	}
	coeffs, err := dict.Sub(name + "Coeffs")
	if err != nil {
		return nil, err
	}
	lbvName, err := dict.Word("laminarBurningVelocity")
	if err != nil {
		return nil, err
	}
	base, err := flamefoam.NewBase(coeffs, thermo, turb, clock)
	if err != nil {
		return nil, fmt.Errorf("flameutil: configuring reaction rate %s: %v", name, err)
	}
	ld, err := flamefoam.LaminarCoeffs(coeffs, lbvName)
	if err != nil {
		return nil, err
	}
	lbv, err := NewLaminarBurningVelocity(lbvName, ld, base)
	if err != nil {
		return nil, err
	}

	var rr flamefoam.ReactionRate
	switch name {
	case "TFC":
		rr, err = tfc.New(coeffs, base, lbv, lbvName)
	case "ETFC":
		rr, err = etfc.New(coeffs, base, lbv, lbvName)
	case "FSD":
		rr, err = fsd.New(coeffs, base, lbv, lbvName)
	}
	if err != nil {
		return nil, fmt.Errorf("flameutil: configuring reaction rate %s: %v", name, err)
	}
	return rr, nil
}

// NewTransport returns the heat flux closure with the given name
// (unityLewisEddy or nonUnityLewisETFC), configured from dict. alpha is
// the phase fraction, or nil for a single phase.
func NewTransport(name string, dict flamefoam.Dict, thermo flamefoam.Thermo, turb flamefoam.Turbulence, clock flamefoam.Clock, alpha *fv.VolField) (flamefoam.ThermophysicalTransport, error) {
	var (
		t   flamefoam.ThermophysicalTransport
		err error
	)
	switch name {
	case "unityLewisEddy":
		t, err = nonunitylewis.NewUnityLewisEddy(dict, thermo, turb, alpha)
	case "nonUnityLewisETFC":
		t, err = nonunitylewis.NewNonUnityLewisETFC(dict, thermo, turb, clock, alpha)
	default:
		return nil, fmt.Errorf("flameutil: invalid thermophysical transport model %q; valid options are unityLewisEddy and nonUnityLewisETFC", name)
	}
	if err != nil {
		return nil, fmt.Errorf("flameutil: configuring thermophysical transport %s: %v", name, err)
	}
	return t, nil
}

// TransportProperties returns the model name and coefficients of the
// thermophysicalTransport sub-dictionary of dict. The model defaults to
// nonUnityLewisETFC, and the coefficients are read from the
// <model>Coeffs sub-dictionary if there is one.
func TransportProperties(dict flamefoam.Dict) (string, flamefoam.Dict, error) {
	td, err := dict.Sub("thermophysicalTransport")
	if err != nil {
		return "", nil, err
	}
	name, err := td.WordDefault("model", "nonUnityLewisETFC")
	if err != nil {
		return "", nil, err
	}
	if !td.Has(name + "Coeffs") {
		return name, td, nil
	}
	c, err := td.Sub(name + "Coeffs")
	return name, c, err
}
