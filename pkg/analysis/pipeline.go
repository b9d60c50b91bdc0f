package analysis

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tapefit/tapefit/pkg/background"
	"github.com/tapefit/tapefit/pkg/measurement"
	"github.com/tapefit/tapefit/pkg/powerlaw"
)

// Report is everything a consumer needs to tabulate or plot one sweep.
type Report struct {
	RunID       string                `json:"runId"`
	Source      string                `json:"source,omitempty"`
	Info        *measurement.FileInfo `json:"info,omitempty"`
	Fingerprint string                `json:"fingerprint"`
	Samples     int                   `json:"samples"`

	Background background.Model  `json:"background"`
	Corrected  measurement.Curve `json:"corrected"`
	Fit        powerlaw.Result   `json:"fit"`
	// ModelCurve is nil when the fit failed.
	ModelCurve *measurement.Curve `json:"modelCurve,omitempty"`
}

// Pipeline runs correction and fitting on one measurement at a time. It
// keeps no state between runs.
type Pipeline struct {
	corrector   *background.Corrector
	fitter      *powerlaw.Fitter
	modelPoints int
}

func New(opts Options) (*Pipeline, error) {
	corrector, err := background.NewCorrector(opts.ScaleFactor, opts.Split)
	if err != nil {
		return nil, err
	}
	fitter, err := powerlaw.NewFitter(opts.Fit)
	if err != nil {
		return nil, err
	}
	points := opts.ModelPoints
	if points == 0 {
		points = DefaultModelPoints
	}

	return &Pipeline{
		corrector:   corrector,
		fitter:      fitter,
		modelPoints: points,
	}, nil
}

// Run analyzes m. Only invalid input and background.ErrInsufficientData are
// returned as errors; a fit that does not converge yields a Report whose Fit
// has StatusFailed and no ModelCurve.
func (p *Pipeline) Run(m *measurement.Measurement) (*Report, error) {
	return p.RunWithID(uuid.NewString(), m)
}

// RunWithID is Run with a caller-chosen run identifier.
func (p *Pipeline) RunWithID(runID string, m *measurement.Measurement) (*Report, error) {
	if m == nil {
		return nil, fmt.Errorf("measurement is nil")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"runId":   runID,
		"source":  m.Source,
		"samples": m.Len(),
	})
	log.Debug("analysis started")

	corrected, bg, err := p.corrector.Correct(m)
	if err != nil {
		return nil, fmt.Errorf("background correction failed: %w", err)
	}

	fit := p.fitter.Fit(corrected)

	report := &Report{
		RunID:       runID,
		Source:      m.Source,
		Info:        m.Info,
		Fingerprint: m.Fingerprint(),
		Samples:     m.Len(),
		Background:  bg,
		Corrected:   corrected,
		Fit:         fit,
	}

	if params, ok := fit.Params(); ok {
		lo, hi := m.CurrentRange()
		curve := p.fitter.Model().Curve(params, lo, hi, p.modelPoints)
		report.ModelCurve = &curve
		log.WithFields(logrus.Fields{
			"criticalCurrent": params.CriticalCurrent,
			"exponent":        params.Exponent,
		}).Info("analysis finished")
	} else {
		log.WithField("reason", fit.Reason).Warn("analysis finished without a fit, showing corrected data only")
	}

	return report, nil
}
