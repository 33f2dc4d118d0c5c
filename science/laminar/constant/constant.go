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

// Package constant contains a user-defined uniform laminar burning
// velocity.
package constant

import (
	"github.com/flamefoam/flamefoam"
	"github.com/flamefoam/flamefoam/fv"
)

// Constant is a uniform LaminarBurningVelocity.
type Constant struct {
	sLaminar float64
	sL       *fv.VolField
}

// New returns a uniform burning velocity, set by the sLaminar coefficient
// [m/s] in dict.
func New(dict flamefoam.Dict, rr *flamefoam.Base) (*Constant, error) {
	c := &Constant{sL: fv.NewVolField("sL", rr.Mesh(), 0)}
	if err := c.Read(dict); err != nil {
		return nil, err
	}
	return c, nil
}

// Correct sets every cell to the configured velocity.
func (c *Constant) Correct() {
	for i := range c.sL.Values {
		c.sL.Values[i] = c.sLaminar
	}
}

// SL returns the laminar burning velocity [m/s].
func (c *Constant) SL() *fv.VolField { return c.sL }

// Read reloads the velocity.
func (c *Constant) Read(dict flamefoam.Dict) error {
	s, err := dict.Positive("sLaminar", flamefoam.MeterPerSecond)
	if err != nil {
		return err
	}
	c.sLaminar = s.Value()
	return nil
}
