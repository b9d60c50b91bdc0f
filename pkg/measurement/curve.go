package measurement

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Curve is a sequence of (current, electric field) points. It is used both
// for background-corrected data and for sampled model output.
type Curve struct {
	Current []float64 `json:"current"`
	Field   []float64 `json:"field"`
}

func (c Curve) Len() int {
	return len(c.Current)
}

// MeanCurrent returns the arithmetic mean of the currents.
func (c Curve) MeanCurrent() float64 {
	return stat.Mean(c.Current, nil)
}

// MeanAbsCurrent returns the mean of |I|.
func (c Curve) MeanAbsCurrent() float64 {
	var sum float64
	for _, cur := range c.Current {
		sum += math.Abs(cur)
	}
	return sum / float64(len(c.Current))
}
