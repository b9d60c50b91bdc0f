package powerlaw

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tapefit/tapefit/pkg/measurement"
)

// Params are the fitted quantities.
type Params struct {
	CriticalCurrent float64 `json:"criticalCurrent"`
	Exponent        float64 `json:"exponent"`
}

// Model evaluates the power law for a fixed criterion and offset.
type Model struct {
	// FieldCriterion is Ec, the field at which I equals Ic.
	FieldCriterion float64
	// Epsilon is added to |I| before exponentiation.
	Epsilon float64
}

// Eval returns E(current) for p.
func (m Model) Eval(current float64, p Params) float64 {
	x := math.Abs(current) + m.Epsilon
	return m.FieldCriterion * math.Pow(x/p.CriticalCurrent, p.Exponent)
}

// partials returns E and its derivatives with respect to Ic and n.
func (m Model) partials(current float64, p Params) (e, dIc, dn float64) {
	x := math.Abs(current) + m.Epsilon
	ratio := x / p.CriticalCurrent
	e = m.FieldCriterion * math.Pow(ratio, p.Exponent)
	dIc = -p.Exponent / p.CriticalCurrent * e
	// e*log(ratio) tends to 0 as the ratio does; Log(0) would make it NaN.
	if e != 0 {
		dn = e * math.Log(ratio)
	}
	return e, dIc, dn
}

// Curve samples the model at n evenly spaced currents from lo to hi
// inclusive. n below 2 is raised to 2.
func (m Model) Curve(p Params, lo, hi float64, n int) measurement.Curve {
	if n < 2 {
		n = 2
	}
	c := measurement.Curve{
		Current: floats.Span(make([]float64, n), lo, hi),
		Field:   make([]float64, n),
	}
	for i, cur := range c.Current {
		c.Field[i] = m.Eval(cur, p)
	}
	return c
}
