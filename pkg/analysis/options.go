package analysis

import (
	"fmt"

	"github.com/tapefit/tapefit/pkg/background"
	"github.com/tapefit/tapefit/pkg/config"
	"github.com/tapefit/tapefit/pkg/measurement"
	"github.com/tapefit/tapefit/pkg/powerlaw"
)

// DefaultModelPoints is the number of samples in Report.ModelCurve.
const DefaultModelPoints = 500

// Options configures a Pipeline.
type Options struct {
	// ScaleFactor divides the background-free voltage (tap length factor).
	ScaleFactor float64
	Split       background.SplitPolicy
	Fit         powerlaw.Config
	ModelPoints int
}

func DefaultOptions() Options {
	return Options{
		ScaleFactor: 12.89 / 1000,
		Split:       background.MidpointSplit{},
		Fit:         powerlaw.DefaultConfig(),
		ModelPoints: DefaultModelPoints,
	}
}

// OptionsFromConfig builds Options from the effective configuration.
func OptionsFromConfig(c config.Config) (Options, error) {
	split, err := background.ParseSplitPolicy(c.BackgroundSplit())
	if err != nil {
		return Options{}, err
	}

	opts := DefaultOptions()
	opts.ScaleFactor = c.ScaleFactor()
	opts.Split = split
	opts.Fit.FieldCriterion = c.FieldCriterion()
	opts.Fit.Epsilon = c.Epsilon()
	opts.Fit.InitialExponent = c.InitialExponent()
	opts.Fit.MaxEvaluations = c.MaxEvaluations()
	opts.ModelPoints = c.ModelPoints()

	if opts.ModelPoints < 2 {
		return Options{}, fmt.Errorf("model points must be at least 2, got %d", opts.ModelPoints)
	}
	return opts, nil
}

// LoadOptionsFromConfig returns the file layout configured in c.
func LoadOptionsFromConfig(c config.Config) measurement.LoadOptions {
	opts := measurement.DefaultLoadOptions
	opts.HeaderLines = c.HeaderLines()
	return opts
}
