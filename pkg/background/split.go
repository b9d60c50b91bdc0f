package background

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SplitPolicy picks the current below which samples count as the resistive,
// pre-transition background.
type SplitPolicy interface {
	// Threshold returns the split current for a sweep. Samples with current
	// strictly below it form the background subset.
	Threshold(current []float64) (float64, error)
	String() string
}

// MidpointSplit uses the current at index len/2 as the threshold, i.e.
// roughly the first half of a monotonic sweep.
type MidpointSplit struct{}

func (MidpointSplit) Threshold(current []float64) (float64, error) {
	if len(current) == 0 {
		return 0, fmt.Errorf("%w: empty sweep", ErrInsufficientData)
	}
	return current[len(current)/2], nil
}

func (MidpointSplit) String() string {
	return "midpoint"
}

// FractionSplit uses the current at index int(len*Fraction).
type FractionSplit struct {
	Fraction float64
}

func (s FractionSplit) Threshold(current []float64) (float64, error) {
	if len(current) == 0 {
		return 0, fmt.Errorf("%w: empty sweep", ErrInsufficientData)
	}
	if !(s.Fraction > 0 && s.Fraction <= 1) {
		return 0, fmt.Errorf("%w: fraction %v not in (0, 1]", ErrInvalidSplit, s.Fraction)
	}
	idx := int(float64(len(current)) * s.Fraction)
	if idx >= len(current) {
		// Fraction 1 means "everything": anything above the last sample.
		return math.Inf(1), nil
	}
	return current[idx], nil
}

func (s FractionSplit) String() string {
	return "fraction:" + strconv.FormatFloat(s.Fraction, 'g', -1, 64)
}

// AbsoluteSplit uses a fixed current, in amperes.
type AbsoluteSplit struct {
	Current float64
}

func (s AbsoluteSplit) Threshold(_ []float64) (float64, error) {
	if math.IsNaN(s.Current) {
		return 0, fmt.Errorf("%w: threshold is NaN", ErrInvalidSplit)
	}
	return s.Current, nil
}

func (s AbsoluteSplit) String() string {
	return "below:" + strconv.FormatFloat(s.Current, 'g', -1, 64)
}

// ParseSplitPolicy parses "midpoint", "fraction:<f>" or "below:<amps>".
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	kind, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")
	switch strings.ToLower(kind) {
	case "", "midpoint":
		if hasArg {
			return nil, fmt.Errorf("%w: midpoint takes no argument, got %q", ErrInvalidSplit, s)
		}
		return MidpointSplit{}, nil
	case "fraction":
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSplit, s, err)
		}
		if !(f > 0 && f <= 1) {
			return nil, fmt.Errorf("%w: fraction %v not in (0, 1]", ErrInvalidSplit, f)
		}
		return FractionSplit{Fraction: f}, nil
	case "below":
		c, err := strconv.ParseFloat(arg, 64)
		if err != nil || math.IsNaN(c) {
			return nil, fmt.Errorf("%w: %q: not a current", ErrInvalidSplit, s)
		}
		return AbsoluteSplit{Current: c}, nil
	default:
		return nil, fmt.Errorf("%w: unknown rule %q (want midpoint, fraction:<f> or below:<amps>)", ErrInvalidSplit, s)
	}
}
