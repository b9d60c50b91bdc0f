package measurement

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFileInfo(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		wantField float64
		wantAngle int
		wantErr   bool
	}{
		{name: "fractional field", file: "real_deal_0point6_40deg.txt", wantField: 0.6, wantAngle: 40},
		{name: "integer field", file: "/data/labs/real_deal_1_0deg.txt", wantField: 1, wantAngle: 0},
		{name: "two decimals", file: "real_deal_0point25_90deg.txt", wantField: 0.25, wantAngle: 90},
		{name: "too few tokens", file: "sweep_1.txt", wantErr: true},
		{name: "bad field", file: "real_deal_high_40deg.txt", wantErr: true},
		{name: "angle without unit", file: "real_deal_0point6_40.txt", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseFileInfo(tt.file)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnrecognizedName)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tt.wantField, info.FieldStrength, 1e-12)
			require.Equal(t, tt.wantAngle, info.AngleDeg)
		})
	}
}
