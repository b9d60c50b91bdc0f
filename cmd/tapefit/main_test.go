package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tapefit/tapefit/pkg/analysis"
	"github.com/tapefit/tapefit/pkg/background"
	"github.com/tapefit/tapefit/pkg/config"
	"github.com/tapefit/tapefit/pkg/powerlaw"
)

// writeSweep writes an instrument file with 11 header lines.
func writeSweep(t *testing.T, dir, name string) string {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < 11; i++ {
		sb.WriteString(fmt.Sprintf("# header %d\n", i))
	}
	for i := 0; i < 20; i++ {
		cur := 5 + 3*float64(i)
		v := 0.5*cur + 1
		if i >= 10 {
			cur = 40 + 2*float64(i-10)
			v = 0.5*cur + 1 + 12.89/1000*100*math.Pow(cur/50, 20)
		}
		sb.WriteString(fmt.Sprintf("%.17g\t%.17g\n", cur, v))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeSweep(t, dir, "real_deal_0point6_40deg.txt")

	out, err := execute(t, "analyze", path, "--json", "--config", filepath.Join(dir, "none.json"))
	require.NoError(t, err)

	var report analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, path, report.Source)
	require.Equal(t, 40, report.Info.AngleDeg)
	require.Equal(t, powerlaw.StatusConverged, report.Fit.Status)
	require.InEpsilon(t, 50, report.Fit.CriticalCurrent(), 0.05)
	require.InEpsilon(t, 20, report.Fit.Exponent(), 0.05)
	require.Len(t, report.ModelCurve.Current, 500)
}

func TestAnalyzeCommand_Text(t *testing.T) {
	dir := t.TempDir()
	path := writeSweep(t, dir, "sweep.txt")

	out, err := execute(t, "analyze", path, "--config", filepath.Join(dir, "none.json"), "--model-points", "50")
	require.NoError(t, err)
	require.Contains(t, out, "Parameter 0:")
	require.Contains(t, out, "Parameter 1:")
	require.Contains(t, out, "converged")
}

func TestAnalyzeCommand_FitFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeSweep(t, dir, "sweep.txt")

	out, err := execute(t, "analyze", path, "--config", filepath.Join(dir, "none.json"), "--max-evaluations", "2")
	require.NoError(t, err)
	require.Contains(t, out, "failed")
	require.Contains(t, out, "unavailable")
	require.NotContains(t, out, "Parameter 0:")
}

func TestAnalyzeCommand_InsufficientBackground(t *testing.T) {
	dir := t.TempDir()
	path := writeSweep(t, dir, "sweep.txt")

	_, err := execute(t, "analyze", path, "--config", filepath.Join(dir, "none.json"), "--background-split", "below:6")
	require.ErrorIs(t, err, background.ErrInsufficientData)
}

func TestAnalyzeCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSweep(t, dir, "sweep.txt")
	cfgPath := filepath.Join(dir, "tapefit.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"maxEvaluations": 2}`), 0o644))

	out, err := execute(t, "analyze", path, "--json", "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, `"status": "failed"`)

	// Flags win over the file.
	out, err = execute(t, "analyze", path, "--json", "--config", cfgPath, "--max-evaluations", "600")
	require.NoError(t, err)
	require.Contains(t, out, `"status": "converged"`)
}

func TestConfigCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tapefit.json")

	_, err := execute(t, "config", "init", "--config", cfgPath)
	require.NoError(t, err)
	_, err = execute(t, "config", "init", "--config", cfgPath)
	require.Error(t, err)
	_, err = execute(t, "config", "init", "--config", cfgPath, "--force")
	require.NoError(t, err)

	out, err := execute(t, "config", "show", "--config", cfgPath)
	require.NoError(t, err)

	var raw config.RawFileConfig
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	require.Equal(t, config.Defaults(), &raw)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "tapefit "))
}
