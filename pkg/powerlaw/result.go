package powerlaw

import (
	"encoding/json"
	"fmt"
	"math"
)

// Status is the terminal state of a fit.
type Status string

const (
	StatusConverged Status = "converged"
	StatusFailed    Status = "failed"
)

// Result is the outcome of one Fit call. A converged Result carries the
// parameters and their covariance; a failed one carries only Reason.
type Result struct {
	Status Status
	// Evaluations is the number of model evaluations spent.
	Evaluations int
	// Cost is the final sum of squared residuals. NaN when the fit failed
	// before a finite cost was reached.
	Cost float64
	// Reason explains a failure. Empty when converged.
	Reason string

	params     Params
	covariance [2][2]float64
}

func converged(p Params, cov [2][2]float64, cost float64, evals int) Result {
	return Result{
		Status:      StatusConverged,
		Evaluations: evals,
		Cost:        cost,
		params:      p,
		covariance:  cov,
	}
}

func failed(cost float64, evals int, format string, args ...interface{}) Result {
	return Result{
		Status:      StatusFailed,
		Evaluations: evals,
		Cost:        cost,
		Reason:      fmt.Sprintf(format, args...),
	}
}

// Converged reports whether the fit reached StatusConverged.
func (r Result) Converged() bool {
	return r.Status == StatusConverged
}

// Params returns the fitted parameters. ok is false for a failed fit.
func (r Result) Params() (p Params, ok bool) {
	if !r.Converged() {
		return Params{}, false
	}
	return r.params, true
}

// Covariance returns the estimated parameter covariance, ordered (Ic, n).
func (r Result) Covariance() (cov [2][2]float64, ok bool) {
	if !r.Converged() {
		return cov, false
	}
	return r.covariance, true
}

// StdErr returns the one-sigma uncertainty of each parameter, the square
// root of the covariance diagonal.
func (r Result) StdErr() (Params, bool) {
	if !r.Converged() {
		return Params{}, false
	}
	return Params{
		CriticalCurrent: math.Sqrt(r.covariance[0][0]),
		Exponent:        math.Sqrt(r.covariance[1][1]),
	}, true
}

// CriticalCurrent returns Ic, or NaN for a failed fit. Meant for plotting
// and tables where a missing value is drawn as a gap.
func (r Result) CriticalCurrent() float64 {
	if p, ok := r.Params(); ok {
		return p.CriticalCurrent
	}
	return math.NaN()
}

// Exponent returns n, or NaN for a failed fit.
func (r Result) Exponent() float64 {
	if p, ok := r.Params(); ok {
		return p.Exponent
	}
	return math.NaN()
}

type resultJSON struct {
	Status      Status         `json:"status"`
	Params      *Params        `json:"params,omitempty"`
	StdErr      *Params        `json:"stdErr,omitempty"`
	Covariance  *[2][2]float64 `json:"covariance,omitempty"`
	Evaluations int            `json:"evaluations"`
	Cost        *float64       `json:"cost,omitempty"`
	Reason      string         `json:"reason,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Status:      r.Status,
		Evaluations: r.Evaluations,
		Reason:      r.Reason,
	}
	// JSON has no NaN.
	if !math.IsNaN(r.Cost) && !math.IsInf(r.Cost, 0) {
		cost := r.Cost
		out.Cost = &cost
	}
	if p, ok := r.Params(); ok {
		se, _ := r.StdErr()
		cov := r.covariance
		out.Params = &p
		out.StdErr = &se
		out.Covariance = &cov
	}
	return json.Marshal(out)
}

func (r *Result) UnmarshalJSON(b []byte) error {
	var in resultJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	*r = Result{
		Status:      in.Status,
		Evaluations: in.Evaluations,
		Cost:        math.NaN(),
		Reason:      in.Reason,
	}
	if in.Cost != nil {
		r.Cost = *in.Cost
	}

	switch in.Status {
	case StatusConverged:
		if in.Params == nil || in.Covariance == nil {
			return fmt.Errorf("converged result without params or covariance")
		}
		r.params = *in.Params
		r.covariance = *in.Covariance
	case StatusFailed:
	default:
		return fmt.Errorf("unknown fit status %q", in.Status)
	}
	return nil
}
