// Package background removes the linear Ohmic contribution of contacts and
// leads from a voltage-current sweep.
package background

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/tapefit/tapefit/pkg/measurement"
)

// Model is the straight line fitted to the background subset.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	// Threshold is the split current; Points is how many samples fell below it.
	Threshold float64 `json:"threshold"`
	Points    int     `json:"points"`
}

// Predict evaluates the background voltage at current.
func (m Model) Predict(current float64) float64 {
	return m.Slope*current + m.Intercept
}

// Corrector fits and subtracts the background. It holds no per-measurement
// state, so one Corrector can be shared.
type Corrector struct {
	scale float64
	split SplitPolicy
}

// NewCorrector returns a Corrector that divides the background-free voltage
// by scale (the tap-length / instrument factor). A nil split means
// MidpointSplit.
func NewCorrector(scale float64, split SplitPolicy) (*Corrector, error) {
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("scale factor must be finite and non-zero, got %v", scale)
	}
	if split == nil {
		split = MidpointSplit{}
	}
	return &Corrector{scale: scale, split: split}, nil
}

// Fit fits the background line to samples below the split threshold.
func (c *Corrector) Fit(m *measurement.Measurement) (Model, error) {
	threshold, err := c.split.Threshold(m.Current)
	if err != nil {
		return Model{}, err
	}

	var xs, ys []float64
	for i, cur := range m.Current {
		if cur < threshold {
			xs = append(xs, cur)
			ys = append(ys, m.Voltage[i])
		}
	}

	if len(xs) < 2 {
		return Model{}, fmt.Errorf("%w: %d samples below %v A (split %s), need at least 2",
			ErrInsufficientData, len(xs), threshold, c.split)
	}
	if stat.Variance(xs, nil) == 0 {
		return Model{}, fmt.Errorf("%w: all %d background samples are at %v A",
			ErrInsufficientData, len(xs), xs[0])
	}
	if len(xs) == m.Len() {
		logrus.WithFields(logrus.Fields{
			"threshold": threshold,
			"split":     c.split.String(),
		}).Warn("every sample is below the background threshold, the fitted background includes the transition")
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	return Model{
		Slope:     slope,
		Intercept: intercept,
		Threshold: threshold,
		Points:    len(xs),
	}, nil
}

// Correct fits the background and returns (V - background) / scale for every
// sample of the sweep.
func (c *Corrector) Correct(m *measurement.Measurement) (measurement.Curve, Model, error) {
	model, err := c.Fit(m)
	if err != nil {
		return measurement.Curve{}, Model{}, err
	}

	curve := measurement.Curve{
		Current: make([]float64, m.Len()),
		Field:   make([]float64, m.Len()),
	}
	for i, cur := range m.Current {
		curve.Current[i] = cur
		curve.Field[i] = (m.Voltage[i] - model.Predict(cur)) / c.scale
	}

	logrus.WithFields(logrus.Fields{
		"slope":     model.Slope,
		"intercept": model.Intercept,
		"threshold": model.Threshold,
		"points":    model.Points,
	}).Debug("background subtracted")

	return curve, model, nil
}
