package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFile_MissingUsesDefaults(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "tapefit.json"))
	require.NoError(t, err)

	require.Equal(t, 100.0, f.FieldCriterion())
	require.InDelta(t, 0.01289, f.ScaleFactor(), 1e-15)
	require.Equal(t, "midpoint", f.BackgroundSplit())
	require.Equal(t, 10.0, f.InitialExponent())
	require.Equal(t, 1e-9, f.Epsilon())
	require.Equal(t, 600, f.MaxEvaluations())
	require.Equal(t, 11, f.HeaderLines())
	require.Equal(t, 500, f.ModelPoints())
}

func TestNewFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapefit.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	f, err := NewFile(path)
	require.NoError(t, err)
	require.Equal(t, 100.0, f.FieldCriterion())
}

func TestNewFile_PartialOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapefit.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scaleFactor": 0.02, "backgroundSplit": "fraction:0.4"}`), 0o644))

	f, err := NewFile(path)
	require.NoError(t, err)
	require.Equal(t, 0.02, f.ScaleFactor())
	require.Equal(t, "fraction:0.4", f.BackgroundSplit())
	require.Equal(t, 100.0, f.FieldCriterion())
}

func TestNewFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapefit.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scaleFactor": "wide"}`), 0o644))

	_, err := NewFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), path)
}

func TestFile_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapefit.json")
	f := NewFileFromConfig(nil, path)

	f.SetFieldCriterion(1)
	f.SetScaleFactor(0.5)
	f.SetBackgroundSplit("below:20")
	f.SetInitialExponent(15)
	f.SetEpsilon(1e-6)
	f.SetMaxEvaluations(5000)
	f.SetHeaderLines(3)
	f.SetModelPoints(100)
	require.NoError(t, f.Save())

	reloaded, err := NewFile(path)
	require.NoError(t, err)
	require.Equal(t, f.LogrusFields(), reloaded.LogrusFields())
	require.Equal(t, "below:20", reloaded.BackgroundSplit())
	require.Equal(t, 5000, reloaded.MaxEvaluations())
}

func TestNewRawFileConfigFromConfig(t *testing.T) {
	_, err := NewRawFileConfigFromConfig(nil)
	require.Error(t, err)

	raw, err := NewRawFileConfigFromConfig(NewFileFromConfig(nil, ""))
	require.NoError(t, err)
	require.Equal(t, Defaults(), raw)
}

func TestFile_SetHeaderLinesStoresValue(t *testing.T) {
	f := NewFileFromConfig(nil, "")
	require.NotPanics(t, func() { f.SetHeaderLines(-1) })
	require.Equal(t, -1, f.HeaderLines())
}
