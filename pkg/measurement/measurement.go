package measurement

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/floats"
)

// MinSamples is the shortest sweep that supports both a line fit on a
// nontrivial subset and a two-parameter nonlinear fit.
const MinSamples = 4

// Measurement is one voltage-current sweep, ordered by acquisition index.
type Measurement struct {
	// Source is the file or request the sweep came from. Informational only.
	Source string    `json:"source,omitempty"`
	Info   *FileInfo `json:"info,omitempty"`

	Current []float64 `json:"current"`
	Voltage []float64 `json:"voltage"`
}

// New copies current and voltage into a validated Measurement.
func New(current, voltage []float64) (*Measurement, error) {
	m := &Measurement{
		Current: append([]float64(nil), current...),
		Voltage: append([]float64(nil), voltage...),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks lengths and that every sample is a finite number.
func (m *Measurement) Validate() error {
	if len(m.Current) != len(m.Voltage) {
		return fmt.Errorf("%w: %d currents, %d voltages", ErrLengthMismatch, len(m.Current), len(m.Voltage))
	}
	if len(m.Current) < MinSamples {
		return fmt.Errorf("%w: got %d, need at least %d", ErrTooFewSamples, len(m.Current), MinSamples)
	}
	for i := range m.Current {
		if !isFinite(m.Current[i]) || !isFinite(m.Voltage[i]) {
			return fmt.Errorf("%w: sample %d is not finite (I=%v, V=%v)", ErrMalformed, i, m.Current[i], m.Voltage[i])
		}
	}
	return nil
}

// Len returns the number of samples.
func (m *Measurement) Len() int {
	return len(m.Current)
}

// CurrentRange returns the smallest and largest current in the sweep.
func (m *Measurement) CurrentRange() (lo, hi float64) {
	return floats.Min(m.Current), floats.Max(m.Current)
}

// Fingerprint hashes the samples, so identical sweeps submitted twice can be
// recognized regardless of where they came from.
func (m *Measurement) Fingerprint() string {
	d := xxhash.New()
	var buf [8]byte
	for i := range m.Current {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(m.Current[i]))
		_, _ = d.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(m.Voltage[i]))
		_, _ = d.Write(buf[:])
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
