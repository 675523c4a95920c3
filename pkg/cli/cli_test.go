// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/optprops/pkg/cli/cliflags"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// runCmd runs the planprops command with the given arguments and returns its
// standard output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	setCLIDefaults()
	var out bytes.Buffer
	planpropsCmd.SetOut(&out)
	defer planpropsCmd.SetOut(nil)

	prevStderr := osStderr
	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer devNull.Close()
	osStderr = devNull
	defer func() { osStderr = prevStderr }()

	err = Run(args)
	return out.String(), err
}

// runLogged runs the planprops binary entry point with the given arguments
// and returns its exit code and what it logged to standard error.
func runLogged(t *testing.T, args ...string) (int, string) {
	t.Helper()
	setCLIDefaults()
	var out bytes.Buffer
	planpropsCmd.SetOut(&out)
	defer planpropsCmd.SetOut(nil)

	prevStderr := osStderr
	f, err := os.Create(filepath.Join(t.TempDir(), "stderr"))
	require.NoError(t, err)
	defer f.Close()
	osStderr = f
	defer func() { osStderr = prevStderr }()

	code := runMain(args)
	logged, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return code, string(logged)
}

var planFile = filepath.Join("testdata", "plan.yaml")

func TestAppliedText(t *testing.T) {
	out, err := runCmd(t, "applied", planFile)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"q: (intersection-on-keys a b) (covering-index (index-scan idx_ab [a = 1, b = 2]))",
		" └── applied: {a = 1, b = 2}",
		"a: (index-scan idx_a [a = 1])",
		" └── applied: {a = 1}",
		"b: (index-scan idx_b [b = 2])",
		" └── applied: {b = 2}",
		"",
	}, "\n"), out)
}

func TestAppliedTable(t *testing.T) {
	out, err := runCmd(t, "applied", "--format=table", planFile)
	require.NoError(t, err)
	for _, s := range []string{"group", "members", "applied", "{a = 1, b = 2}", "(3 rows)"} {
		require.Contains(t, out, s)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Contains(t, lines[3], "q")
	require.Contains(t, lines[4], "a")
	require.Contains(t, lines[5], "b")
}

func TestAppliedDot(t *testing.T) {
	out, err := runCmd(t, "applied", "--format", "dot", planFile)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "digraph"), out)
	require.Equal(t, 2, strings.Count(out, "->"))
	require.Contains(t, out, "applied: {a = 1, b = 2}")
}

func TestAppliedMetrics(t *testing.T) {
	out, err := runCmd(t, "applied", "--metrics", planFile)
	require.NoError(t, err)
	require.Contains(t, out, "# TYPE planprops_derive_passes_total counter")
	require.Contains(t, out, "planprops_derive_passes_total 1\n")
	require.Contains(t, out, "planprops_derive_groups_total 3\n")
	require.Contains(t, out, "planprops_derive_exprs_total 4\n")
	require.Contains(t, out, "planprops_derive_memo_hits_total 0\n")
}

func TestAppliedErrors(t *testing.T) {
	_, err := runCmd(t, "applied", filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading plan definition")

	cycleFile := filepath.Join("testdata", "cycle.yaml")
	_, err = runCmd(t, "applied", "--check-integrity", cycleFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle detected at group 1")
	require.Contains(t, err.Error(), "[plan="+cycleFile+"] deriving applied comparisons")

	_, err = runCmd(t, "applied", "--format=svg", planFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), `invalid display format: "svg"`)

	_, err = runCmd(t, "applied")
	require.Error(t, err)

	_, err = runCmd(t, "--v=-1", "applied", planFile)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be negative")
}

func TestAppliedLogging(t *testing.T) {
	file := filepath.Join("testdata", "unreachable.yaml")
	code, logged := runLogged(t, "applied", "--log-json", file)
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(logged), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"level":"info"`)
	require.Contains(t, lines[0], `"plan":"`+file+`"`)
	require.Contains(t, lines[0], `"message":"loaded 3 groups"`)
	require.Contains(t, lines[1], `"level":"warn"`)
	require.Contains(t, lines[1], `"message":"groups not reachable from root q: 1"`)

	code, logged = runLogged(t, "applied", "--log-json", planFile)
	require.Equal(t, 0, code)
	require.NotContains(t, logged, "not reachable")

	code, logged = runLogged(t, "--log-json", "check", filepath.Join("testdata", "missing.yaml"))
	require.Equal(t, 1, code)
	require.Contains(t, logged, `"level":"error"`)
	require.Contains(t, logged, "reading plan definition")
}

func TestCheck(t *testing.T) {
	out, err := runCmd(t, "check", planFile)
	require.NoError(t, err)
	require.Equal(t, "ok: 3 groups\n", out)

	_, err = runCmd(t, "check", filepath.Join("testdata", "cycle.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle.yaml: cycle detected at group 1")
}

func TestFlagFromEnv(t *testing.T) {
	t.Setenv(cliflags.Format.EnvVar, "dot")
	t.Setenv(cliflags.CheckIntegrity.EnvVar, "true")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var format displayFormat
	var check bool
	VarFlag(fs, &format, cliflags.Format)
	BoolFlag(fs, &check, cliflags.CheckIntegrity, false)
	require.Equal(t, displayFormatDot, format)
	require.True(t, check)

	t.Setenv(cliflags.Metrics.EnvVar, "maybe")
	require.Panics(t, func() {
		var metrics bool
		BoolFlag(fs, &metrics, cliflags.Metrics, false)
	})
}

func TestFlagUsage(t *testing.T) {
	require.Equal(t,
		"Print derivation counters in the Prometheus text format after the results.\n"+
			"Environment variable: PLANPROPS_METRICS",
		cliflags.Metrics.Usage(),
	)
	require.Equal(t, "x", cliflags.FlagInfo{Description: "\n x \n"}.Usage())
}
