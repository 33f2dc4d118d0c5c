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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flamefoam/flamefoam"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// checkOutputFile expands any environment variables in f and makes sure
// that its directory exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="flamefoam.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("flamefoam: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile returns the path to the log file, derived from the
// output file if it is not specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("flamefoam: variable %s is not a JSON object: %v", varName, err)
		}
		return o, nil
	case nil:
		return map[string]string{}, nil
	default:
		return nil, fmt.Errorf("flamefoam: invalid type for variable %s: %#v", varName, i)
	}
}

// getFloat64Slice returns a []float64 from a viper configuration.
func getFloat64Slice(varName string, cfg *viper.Viper) ([]float64, error) {
	s := cfg.GetStringSlice(varName)
	o := make([]float64, len(s))
	for i, v := range s {
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("flamefoam: %s: %v", varName, err)
		}
		o[i] = f
	}
	return o, nil
}

// ProfileConfig returns the one-dimensional flame described by the
// Profile.* configuration variables.
func ProfileConfig(cfg *viper.Viper) flamefoam.Profile {
	return flamefoam.Profile{
		Cells:     cfg.GetInt("Profile.Cells"),
		Length:    cfg.GetFloat64("Profile.Length"),
		Width:     cfg.GetFloat64("Profile.Width"),
		Position:  cfg.GetFloat64("Profile.Position"),
		Thickness: cfg.GetFloat64("Profile.Thickness"),
		Pressure:  cfg.GetFloat64("Profile.Pressure"),
		TUnburnt:  cfg.GetFloat64("Profile.TUnburnt"),
		TBurnt:    cfg.GetFloat64("Profile.TBurnt"),
		XH2:       cfg.GetFloat64("Profile.XH2"),
		XH2O:      cfg.GetFloat64("Profile.XH2O"),
		K:         cfg.GetFloat64("Profile.K"),
		Nut:       cfg.GetFloat64("Profile.Nut"),
		Time:      cfg.GetFloat64("Profile.Time"),
		Progress:  cfg.GetBool("Profile.Progress"),
	}
}

// DefaultProperties returns combustion properties consistent with the
// flame p: the ETFC reaction rate with the Malet burning velocity, and
// the non-unity-Lewis heat flux.
func DefaultProperties(p flamefoam.Profile) flamefoam.Dict {
	rate := p.Coeffs()
	rate["correlation"] = "Zimont"
	rate["sLaminar0"] = 0.1
	return flamefoam.Dict{
		"reactionRate":           "ETFC",
		"laminarBurningVelocity": "Malet",
		"ETFCCoeffs":             rate,
		"thermophysicalTransport": flamefoam.Dict{
			"model": "nonUnityLewisETFC",
			"nonUnityLewisETFCCoeffs": flamefoam.Dict{
				"Prt":     0.7,
				"Sct":     0.7,
				"alpha_u": 2.2e-5,
				"Le":      0.4,
			},
		},
	}
}

// combustionProperties reads the dictionary at path, or returns the
// default properties of p if path is empty.
func combustionProperties(path string, p flamefoam.Profile) (flamefoam.Dict, error) {
	if path == "" {
		return DefaultProperties(p), nil
	}
	return flamefoam.ReadDictFile(path)
}
