// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cliflags

import (
	"fmt"
	"strings"
)

// FlagInfo contains the static information for a CLI flag and helper
// to format the description.
type FlagInfo struct {
	// Name of the flag as used on the command line.
	Name string

	// Shorthand is the short form of the flag (optional).
	Shorthand string

	// EnvVar is the name of the environment variable through which the flag
	// value can be controlled (optional).
	EnvVar string

	// Description of the flag.
	Description string
}

// Usage returns a formatted usage string for the flag, including the
// environment variable if there is one.
func (f FlagInfo) Usage() string {
	s := strings.TrimSpace(f.Description)
	if f.EnvVar != "" {
		s += fmt.Sprintf("\nEnvironment variable: %s", f.EnvVar)
	}
	return s
}

var (
	Format = FlagInfo{
		Name:   "format",
		EnvVar: "PLANPROPS_FORMAT",
		Description: `
Selects how results are displayed:
text (the memo with the comparisons applied by each group),
table (one row per group) or dot (a Graphviz digraph).`,
	}

	CheckIntegrity = FlagInfo{
		Name:   "check-integrity",
		EnvVar: "PLANPROPS_CHECK_INTEGRITY",
		Description: `
Verify that the plan is acyclic and that every expression is well formed
before deriving properties.`,
	}

	Metrics = FlagInfo{
		Name:        "metrics",
		EnvVar:      "PLANPROPS_METRICS",
		Description: `Print derivation counters in the Prometheus text format after the results.`,
	}

	Verbosity = FlagInfo{
		Name:        "v",
		EnvVar:      "PLANPROPS_VERBOSITY",
		Description: `Log verbosity level. Logs are written to stderr.`,
	}

	LogJSON = FlagInfo{
		Name:        "log-json",
		EnvVar:      "PLANPROPS_LOG_JSON",
		Description: `Write log entries to stderr as JSON objects instead of text.`,
	}
)
