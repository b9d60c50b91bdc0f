package background

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSplitPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SplitPolicy
		wantErr bool
	}{
		{in: "midpoint", want: MidpointSplit{}},
		{in: "", want: MidpointSplit{}},
		{in: " Midpoint ", want: MidpointSplit{}},
		{in: "fraction:0.4", want: FractionSplit{Fraction: 0.4}},
		{in: "fraction:1", want: FractionSplit{Fraction: 1}},
		{in: "below:12.5", want: AbsoluteSplit{Current: 12.5}},
		{in: "midpoint:3", wantErr: true},
		{in: "fraction:0", wantErr: true},
		{in: "fraction:1.5", wantErr: true},
		{in: "fraction:abc", wantErr: true},
		{in: "below:", wantErr: true},
		{in: "below:NaN", wantErr: true},
		{in: "onset", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSplitPolicy(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSplit)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSplitPolicy_StringRoundTrip(t *testing.T) {
	for _, p := range []SplitPolicy{MidpointSplit{}, FractionSplit{Fraction: 0.25}, AbsoluteSplit{Current: 40}} {
		got, err := ParseSplitPolicy(p.String())
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}

func TestSplitPolicy_Threshold(t *testing.T) {
	current := []float64{10, 20, 30, 40, 50}

	thr, err := MidpointSplit{}.Threshold(current)
	require.NoError(t, err)
	require.Equal(t, 30.0, thr)

	thr, err = FractionSplit{Fraction: 0.2}.Threshold(current)
	require.NoError(t, err)
	require.Equal(t, 20.0, thr)

	thr, err = FractionSplit{Fraction: 1}.Threshold(current)
	require.NoError(t, err)
	require.True(t, math.IsInf(thr, 1))

	_, err = MidpointSplit{}.Threshold(nil)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = FractionSplit{Fraction: -1}.Threshold(current)
	require.ErrorIs(t, err, ErrInvalidSplit)
}
