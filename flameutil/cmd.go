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
	"strings"

	"github.com/flamefoam/flamefoam"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information and the command tree that uses it.
type Cfg struct {
	*viper.Viper

	Root, versionCmd, evaluateCmd, lbvCmd *cobra.Command
}

// InitializeConfig creates a new configuration and links it to a new
// set of commands.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "flamefoam",
		Short: "Closure models for turbulent premixed hydrogen flames.",
		Long: `flamefoam evaluates closure models for turbulent premixed hydrogen/air
combustion: reaction rates, laminar burning velocities and the heat flux of
a mixture with a non-unity Lewis number.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'FLAMEFOAM_var' where 'var' is the
name of the variable to be set, with any '.' replaced by '_'.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig(cfg) },
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of flamefoam.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("flamefoam v%s\n", flamefoam.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.evaluateCmd = &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the closures on a one-dimensional flame.",
		Long: `evaluate builds a one-dimensional premixed flame on a block mesh,
corrects the configured combustion model for a number of outer iterations
while advancing the simulation time, and writes the resulting fields to a
netCDF file. The coefficients are read from the TOML file given by
CombustionProperties; if none is given they are derived from the profile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.runEvaluate(cmd)
		},
		DisableAutoGenTag: true,
	}

	cfg.lbvCmd = &cobra.Command{
		Use:   "lbv",
		Short: "Tabulate and plot the laminar burning velocity.",
		Long: `lbv evaluates the configured laminar burning velocity model of the
unburnt mixture over a range of hydrogen fractions and prints the table.
It also fits the pressure exponent of the model, plots the burning velocity
and, if lbv.Table is set, writes the table to a spreadsheet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.runLBV(cmd)
		},
		DisableAutoGenTag: true,
	}

	options := []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "CombustionProperties",
			usage: `
              CombustionProperties is the path to the TOML dictionary holding the
              reactionRate and laminarBurningVelocity selections, their
              coefficients and the thermophysicalTransport sub-dictionary.
              If it is empty the coefficients are derived from the profile.`,
			shorthand:  "d",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags(), cfg.lbvCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the netCDF file where the fields
              are written.`,
			shorthand:  "o",
			defaultVal: "flamefoam.nc",
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "RunInfo",
			usage: `
              RunInfo is the path to a text file where a line of diagnostics is
              appended after each iteration. It overrides the runInfo entry of
              the combustion properties.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "NumIterations",
			usage: `
              NumIterations is the number of outer iterations to run.`,
			shorthand:  "n",
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "TimeStep",
			usage: `
              TimeStep is the simulation time [s] advanced before each outer
              iteration.`,
			defaultVal: 1.0e-3,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Expressions",
			usage: `
              Expressions holds named expressions of the iteration summary
              variables (iteration, time, heatRelease, sLMin, sLMax and cSourceMax)
              that are evaluated and logged after each iteration.
              The input is in the form of JSON, for example:
              '{"power_kW":"heatRelease / 1000"}'.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Cells",
			usage: `
              Profile.Cells is the number of cells along the flame.`,
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Length",
			usage: `
              Profile.Length is the length of the domain [m].`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Width",
			usage: `
              Profile.Width is the width and height of the domain [m].`,
			defaultVal: 0.001,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Position",
			usage: `
              Profile.Position is the location of the flame front [m].`,
			defaultVal: 0.005,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Thickness",
			usage: `
              Profile.Thickness is the thickness of the flame front [m].`,
			defaultVal: 0.001,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Pressure",
			usage: `
              Profile.Pressure is the uniform pressure [Pa].`,
			defaultVal: 101325.0,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags(), cfg.lbvCmd.Flags()},
		},
		{
			name: "Profile.TUnburnt",
			usage: `
              Profile.TUnburnt is the temperature of the unburnt mixture [K].`,
			defaultVal: 298.15,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags(), cfg.lbvCmd.Flags()},
		},
		{
			name: "Profile.TBurnt",
			usage: `
              Profile.TBurnt is the temperature of the burnt mixture [K].`,
			defaultVal: 1100.0,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.XH2",
			usage: `
              Profile.XH2 is the dry-basis hydrogen mole fraction of the
              unburnt mixture.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags(), cfg.lbvCmd.Flags()},
		},
		{
			name: "Profile.XH2O",
			usage: `
              Profile.XH2O is the steam mole fraction of the unburnt mixture.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags(), cfg.lbvCmd.Flags()},
		},
		{
			name: "Profile.K",
			usage: `
              Profile.K is the turbulent kinetic energy [m²/s²].`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Nut",
			usage: `
              Profile.Nut is the turbulent kinematic viscosity [m²/s].`,
			defaultVal: 1.0e-4,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Time",
			usage: `
              Profile.Time is the simulation time at the start [s].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "Profile.Progress",
			usage: `
              Profile.Progress specifies whether the mixture transports a
              progress variable specie named c.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.evaluateCmd.Flags()},
		},
		{
			name: "lbv.XMin",
			usage: `
              lbv.XMin is the lowest dry-basis hydrogen fraction of the table.`,
			defaultVal: 0.08,
			flagsets:   []*pflag.FlagSet{cfg.lbvCmd.Flags()},
		},
		{
			name: "lbv.XMax",
			usage: `
              lbv.XMax is the highest dry-basis hydrogen fraction of the table.`,
			defaultVal: 0.29,
			flagsets:   []*pflag.FlagSet{cfg.lbvCmd.Flags()},
		},
		{
			name: "lbv.N",
			usage: `
              lbv.N is the number of rows of the table.`,
			defaultVal: 22,
			flagsets:   []*pflag.FlagSet{cfg.lbvCmd.Flags()},
		},
		{
			name: "lbv.Pressures",
			usage: `
              lbv.Pressures are the multiples of Profile.Pressure used to fit
              the pressure exponent.`,
			defaultVal: []string{"0.5", "1", "2", "4", "8"},
			flagsets:   []*pflag.FlagSet{cfg.lbvCmd.Flags()},
		},
		{
			name: "lbv.Plot",
			usage: `
              lbv.Plot is the path of the image file of the burning velocity
              plot. The format is set by the extension. Leave it empty to skip
              the plot.`,
			defaultVal: "lbv.png",
			flagsets:   []*pflag.FlagSet{cfg.lbvCmd.Flags()},
		},
		{
			name: "lbv.Table",
			usage: `
              lbv.Table is the path of an .xlsx spreadsheet where the table is
              written. Leave it empty to skip the spreadsheet.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.lbvCmd.Flags()},
		},
		{
			name: "lbv.Open",
			usage: `
              lbv.Open specifies whether to open the plot in the default viewer.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.lbvCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("FLAMEFOAM")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	// Link the commands together.
	cfg.Root.AddCommand(cfg.versionCmd)
	cfg.Root.AddCommand(cfg.evaluateCmd)
	cfg.Root.AddCommand(cfg.lbvCmd)
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig(cfg *Cfg) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("flamefoam: problem reading configuration file: %v", err)
		}
	}
	return nil
}
