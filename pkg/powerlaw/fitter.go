package powerlaw

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tapefit/tapefit/pkg/measurement"
)

const numParams = 2

// Config holds the fixed constants and optimizer knobs of a Fitter.
type Config struct {
	// FieldCriterion is Ec, in the units of the corrected field.
	FieldCriterion float64
	// Epsilon is added to |I| before exponentiation.
	Epsilon float64
	// InitialExponent is the starting n. The starting Ic is the mean current.
	InitialExponent float64
	// MaxEvaluations caps model evaluations for one fit.
	MaxEvaluations int
	// FTol is the relative cost reduction below which the fit has converged.
	FTol float64
	// XTol is the relative step size below which the fit has converged.
	XTol float64
}

// DefaultConfig returns Ec = 100, eps = 1e-9, n0 = 10 and a budget of
// 200*(params+1) evaluations.
func DefaultConfig() Config {
	return Config{
		FieldCriterion:  100,
		Epsilon:         1e-9,
		InitialExponent: 10,
		MaxEvaluations:  200 * (numParams + 1),
		FTol:            1.49012e-8,
		XTol:            1.49012e-8,
	}
}

// Fitter fits corrected curves to the power law. It is stateless between
// calls.
type Fitter struct {
	cfg   Config
	model Model
}

// NewFitter validates cfg. Zero MaxEvaluations, FTol and XTol take their
// defaults.
func NewFitter(cfg Config) (*Fitter, error) {
	def := DefaultConfig()
	if cfg.MaxEvaluations == 0 {
		cfg.MaxEvaluations = def.MaxEvaluations
	}
	if cfg.FTol == 0 {
		cfg.FTol = def.FTol
	}
	if cfg.XTol == 0 {
		cfg.XTol = def.XTol
	}

	switch {
	case !(cfg.FieldCriterion > 0) || math.IsInf(cfg.FieldCriterion, 0):
		return nil, fmt.Errorf("field criterion must be positive and finite, got %v", cfg.FieldCriterion)
	case !(cfg.Epsilon >= 0) || math.IsInf(cfg.Epsilon, 0):
		return nil, fmt.Errorf("epsilon must be non-negative and finite, got %v", cfg.Epsilon)
	case math.IsNaN(cfg.InitialExponent) || math.IsInf(cfg.InitialExponent, 0):
		return nil, fmt.Errorf("initial exponent must be finite, got %v", cfg.InitialExponent)
	case cfg.MaxEvaluations < 0:
		return nil, fmt.Errorf("max evaluations must be positive, got %d", cfg.MaxEvaluations)
	case !(cfg.FTol > 0) || !(cfg.XTol > 0):
		return nil, fmt.Errorf("tolerances must be positive, got ftol=%v xtol=%v", cfg.FTol, cfg.XTol)
	}

	return &Fitter{
		cfg: cfg,
		model: Model{
			FieldCriterion: cfg.FieldCriterion,
			Epsilon:        cfg.Epsilon,
		},
	}, nil
}

func (f *Fitter) Config() Config {
	return f.cfg
}

func (f *Fitter) Model() Model {
	return f.model
}

// InitialGuess returns the starting point: Ic is the mean current and n the
// configured exponent. A sweep with a non-positive mean (negative polarity)
// starts from the mean of |I| instead, since the model only sees |I|.
func (f *Fitter) InitialGuess(c measurement.Curve) Params {
	ic := c.MeanCurrent()
	if !(ic > 0) {
		ic = c.MeanAbsCurrent()
	}
	return Params{CriticalCurrent: ic, Exponent: f.cfg.InitialExponent}
}

// Fit runs one least-squares fit of c. It never returns an error: every
// failure, including unusable input, is reported as a StatusFailed Result
// and logged.
func (f *Fitter) Fit(c measurement.Curve) Result {
	res := f.fit(c)

	if p, ok := res.Params(); ok {
		se, _ := res.StdErr()
		logrus.WithFields(logrus.Fields{
			"criticalCurrent": p.CriticalCurrent,
			"exponent":        p.Exponent,
			"evaluations":     res.Evaluations,
			"cost":            res.Cost,
		}).Debug("power-law fit converged")
		logrus.Infof("Parameter 0 (Ic): %.5f ± %.5f", p.CriticalCurrent, se.CriticalCurrent)
		logrus.Infof("Parameter 1 (n): %.5f ± %.5f", p.Exponent, se.Exponent)
	} else {
		logrus.WithFields(logrus.Fields{
			"evaluations": res.Evaluations,
		}).Warnf("fit did not converge: %s", res.Reason)
	}

	return res
}

func (f *Fitter) fit(c measurement.Curve) Result {
	m := c.Len()
	if len(c.Field) != m {
		return failed(math.NaN(), 0, "curve has %d currents but %d field values", m, len(c.Field))
	}
	if m <= numParams {
		return failed(math.NaN(), 0, "need more than %d samples to fit %d parameters, got %d", numParams, numParams, m)
	}
	for i := 0; i < m; i++ {
		if math.IsNaN(c.Current[i]) || math.IsInf(c.Current[i], 0) || math.IsNaN(c.Field[i]) || math.IsInf(c.Field[i], 0) {
			return failed(math.NaN(), 0, "sample %d is not finite", i)
		}
	}

	abs := make([]float64, m)
	for i, cur := range c.Current {
		abs[i] = math.Abs(cur)
	}
	if floats.Max(abs) == floats.Min(abs) {
		return failed(math.NaN(), 0, "all samples are at |I| = %v A, Ic and n cannot be separated", abs[0])
	}

	p := f.InitialGuess(c)
	return f.levenbergMarquardt(c, p)
}

// levenbergMarquardt minimizes the sum of squared residuals starting at p.
// The damping term is scaled by the running maximum of diag(JᵀJ), which
// makes steps invariant to the very different scales of Ic and n.
func (f *Fitter) levenbergMarquardt(c measurement.Curve, p Params) Result {
	m := c.Len()
	maxEvals := f.cfg.MaxEvaluations

	r := make([]float64, m)
	trialR := make([]float64, m)
	cost := f.residuals(c, p, r)
	evals := 1
	if !isFinite(cost) {
		return failed(math.NaN(), evals, "model is not finite at the initial guess Ic=%v n=%v", p.CriticalCurrent, p.Exponent)
	}

	var (
		jac    = mat.NewDense(m, numParams, nil)
		jtj    = mat.NewSymDense(numParams, nil)
		damped = mat.NewSymDense(numParams, nil)
		grad   = mat.NewVecDense(numParams, nil)
		step   = mat.NewVecDense(numParams, nil)
		chol   mat.Cholesky
		scale  [numParams]float64
	)
	lambda := 1e-3

	for {
		f.jacobian(c, p, jac)
		jtj.SymOuterK(1, jac.T())
		grad.MulVec(jac.T(), mat.NewVecDense(m, r))
		for k := 0; k < numParams; k++ {
			scale[k] = math.Max(scale[k], jtj.At(k, k))
		}

		for {
			if evals >= maxEvals {
				return failed(cost, evals, "maximum number of function evaluations (%d) reached", maxEvals)
			}
			if lambda > 1e16 {
				return failed(cost, evals, "no downhill step found (damping %.3g)", lambda)
			}

			damped.CopySym(jtj)
			for k := 0; k < numParams; k++ {
				damped.SetSym(k, k, jtj.At(k, k)+lambda*scale[k])
			}
			if ok := chol.Factorize(damped); !ok {
				lambda *= 10
				continue
			}
			if err := chol.SolveVecTo(step, grad); err != nil {
				lambda *= 10
				continue
			}
			step.ScaleVec(-1, step)

			trial := Params{
				CriticalCurrent: p.CriticalCurrent + step.AtVec(0),
				Exponent:        p.Exponent + step.AtVec(1),
			}
			trialCost := f.residuals(c, trial, trialR)
			evals++

			stepNorm := math.Hypot(step.AtVec(0), step.AtVec(1))
			paramNorm := math.Hypot(p.CriticalCurrent, p.Exponent)
			smallStep := stepNorm <= f.cfg.XTol*(paramNorm+f.cfg.XTol)

			if isFinite(trialCost) && trialCost < cost {
				actual := cost - trialCost
				// Reduction predicted by the linearized model.
				predicted := -(2*mat.Dot(grad, step) + mat.Inner(step, jtj, step))

				prevCost := cost
				p, cost = trial, trialCost
				r, trialR = trialR, r
				lambda = math.Max(lambda/10, 1e-12)

				if cost == 0 || smallStep ||
					(actual <= f.cfg.FTol*prevCost && predicted <= f.cfg.FTol*prevCost) {
					return f.finish(c, p, cost, evals)
				}
				break
			}

			if smallStep {
				// Even a vanishing step does not lower the cost: p is a
				// minimum to within XTol.
				return f.finish(c, p, cost, evals)
			}
			lambda *= 10
		}
	}
}

// finish estimates the covariance at p as s²·(JᵀJ)⁻¹, s² = cost/(m-2).
func (f *Fitter) finish(c measurement.Curve, p Params, cost float64, evals int) Result {
	if !(p.CriticalCurrent > 0) {
		return failed(cost, evals, "fit ended at non-physical Ic=%v", p.CriticalCurrent)
	}

	m := c.Len()
	jac := mat.NewDense(m, numParams, nil)
	f.jacobian(c, p, jac)
	jtj := mat.NewSymDense(numParams, nil)
	jtj.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(jtj); !ok {
		return failed(cost, evals, "covariance could not be estimated: Jacobian is singular at Ic=%v n=%v", p.CriticalCurrent, p.Exponent)
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return failed(cost, evals, "covariance could not be estimated: %v", err)
	}
	inv.ScaleSym(cost/float64(m-numParams), &inv)

	var cov [2][2]float64
	for i := 0; i < numParams; i++ {
		for j := 0; j < numParams; j++ {
			cov[i][j] = inv.At(i, j)
		}
	}
	return converged(p, cov, cost, evals)
}

// residuals fills r with model - data and returns the sum of squares.
func (f *Fitter) residuals(c measurement.Curve, p Params, r []float64) float64 {
	for i, cur := range c.Current {
		r[i] = f.model.Eval(cur, p) - c.Field[i]
	}
	return floats.Dot(r, r)
}

func (f *Fitter) jacobian(c measurement.Curve, p Params, jac *mat.Dense) {
	for i, cur := range c.Current {
		_, dIc, dn := f.model.partials(cur, p)
		jac.Set(i, 0, dIc)
		jac.Set(i, 1, dn)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
