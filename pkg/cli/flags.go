// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/optprops/pkg/cli/cliflags"
	"github.com/cockroachdb/optprops/pkg/util/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cliCtx holds the values of the command-line flags.
var cliCtx struct {
	format         displayFormat
	checkIntegrity bool
	metrics        bool
	verbosity      int
	logJSON        bool
}

// setCLIDefaults resets the flag values to their defaults. It is called
// before every test that runs a command.
func setCLIDefaults() {
	cliCtx.format = displayFormatText
	cliCtx.checkIntegrity = false
	cliCtx.metrics = false
	cliCtx.verbosity = 0
	cliCtx.logJSON = false
}

func setFlagFromEnv(f *pflag.FlagSet, flagInfo cliflags.FlagInfo) {
	if flagInfo.EnvVar != "" {
		if value, set := os.LookupEnv(flagInfo.EnvVar); set {
			if err := f.Set(flagInfo.Name, value); err != nil {
				panic(errors.Wrapf(err, "invalid value for %s", flagInfo.EnvVar))
			}
		}
	}
}

// IntFlag creates an int flag and registers it with the FlagSet.
func IntFlag(f *pflag.FlagSet, valPtr *int, flagInfo cliflags.FlagInfo, defaultVal int) {
	f.IntVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, defaultVal, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// BoolFlag creates a bool flag and registers it with the FlagSet.
func BoolFlag(f *pflag.FlagSet, valPtr *bool, flagInfo cliflags.FlagInfo, defaultVal bool) {
	f.BoolVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, defaultVal, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// VarFlag creates a custom-variable flag and registers it with the FlagSet.
func VarFlag(f *pflag.FlagSet, value pflag.Value, flagInfo cliflags.FlagInfo) {
	f.VarP(value, flagInfo.Name, flagInfo.Shorthand, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

func init() {
	setCLIDefaults()

	{
		pf := planpropsCmd.PersistentFlags()
		IntFlag(pf, &cliCtx.verbosity, cliflags.Verbosity, 0)
		BoolFlag(pf, &cliCtx.logJSON, cliflags.LogJSON, false)
	}

	{
		f := appliedCmd.Flags()
		VarFlag(f, &cliCtx.format, cliflags.Format)
		BoolFlag(f, &cliCtx.checkIntegrity, cliflags.CheckIntegrity, false)
		BoolFlag(f, &cliCtx.metrics, cliflags.Metrics, false)
	}

	planpropsCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cliCtx.verbosity < 0 {
			return errors.Newf("--%s must not be negative", cliflags.Verbosity.Name)
		}
		if cliCtx.logJSON {
			log.SetJSONOutput(osStderr)
		} else {
			log.SetOutput(osStderr)
		}
		log.SetVerbosity(int32(cliCtx.verbosity))
		return nil
	}
}
