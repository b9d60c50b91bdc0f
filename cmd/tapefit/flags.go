package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/tapefit/tapefit/pkg/config"
)

// analysisFlags override config file values for a single invocation.
type analysisFlags struct {
	fieldCriterion  float64
	scaleFactor     float64
	backgroundSplit string
	initialExponent float64
	epsilon         float64
	maxEvaluations  int
	headerLines     int
	modelPoints     int
}

func (a *analysisFlags) register(f *pflag.FlagSet) {
	d := config.Defaults()

	f.Float64Var(&a.fieldCriterion, "field-criterion", *d.FieldCriterion, "electric field criterion Ec")
	f.Float64Var(&a.scaleFactor, "scale-factor", *d.ScaleFactor, "divisor turning background-free voltage into field (voltage tap length)")
	f.StringVar(&a.backgroundSplit, "background-split", *d.BackgroundSplit, "background region rule: midpoint, fraction:<f> or below:<amps>")
	f.Float64Var(&a.initialExponent, "initial-exponent", *d.InitialExponent, "starting n-value for the fit")
	f.Float64Var(&a.epsilon, "epsilon", *d.Epsilon, "offset added to |I| before exponentiation")
	f.IntVar(&a.maxEvaluations, "max-evaluations", *d.MaxEvaluations, "model evaluation budget of the fit")
	f.IntVar(&a.headerLines, "header-lines", *d.HeaderLines, "metadata lines to skip at the top of the file")
	f.IntVar(&a.modelPoints, "model-points", *d.ModelPoints, "number of points in the sampled model curve")
}

// apply copies explicitly set flags into conf and returns their names.
func (a *analysisFlags) apply(f *pflag.FlagSet, conf config.Config) ([]string, error) {
	if f.Changed("header-lines") && a.headerLines < 0 {
		return nil, fmt.Errorf("header lines must not be negative, got %d", a.headerLines)
	}

	var changed []string
	set := func(name string, fn func()) {
		if f.Changed(name) {
			fn()
			changed = append(changed, name)
		}
	}

	set("field-criterion", func() { conf.SetFieldCriterion(a.fieldCriterion) })
	set("scale-factor", func() { conf.SetScaleFactor(a.scaleFactor) })
	set("background-split", func() { conf.SetBackgroundSplit(a.backgroundSplit) })
	set("initial-exponent", func() { conf.SetInitialExponent(a.initialExponent) })
	set("epsilon", func() { conf.SetEpsilon(a.epsilon) })
	set("max-evaluations", func() { conf.SetMaxEvaluations(a.maxEvaluations) })
	set("header-lines", func() { conf.SetHeaderLines(a.headerLines) })
	set("model-points", func() { conf.SetModelPoints(a.modelPoints) })

	return changed, nil
}
