package measurement

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// FileInfo is the applied-field metadata encoded in a measurement file name,
// e.g. real_deal_0point6_40deg.txt is 0.6 T at 40 degrees.
type FileInfo struct {
	FieldStrength float64 `json:"fieldStrength"`
	AngleDeg      int     `json:"angleDeg"`
}

// ParseFileInfo decodes field strength (third '_' token, "point" as the
// decimal separator) and angle (fourth token, "<n>deg.txt").
func ParseFileInfo(name string) (*FileInfo, error) {
	base := filepath.Base(name)
	parts := strings.Split(base, "_")
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedName, base)
	}

	field, err := strconv.ParseFloat(strings.ReplaceAll(parts[2], "point", "."), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: field strength %q in %s", ErrUnrecognizedName, parts[2], base)
	}

	angleStr := strings.TrimSuffix(parts[3], filepath.Ext(parts[3]))
	if !strings.HasSuffix(angleStr, "deg") {
		return nil, fmt.Errorf("%w: angle %q in %s", ErrUnrecognizedName, parts[3], base)
	}
	angle, err := strconv.Atoi(strings.TrimSuffix(angleStr, "deg"))
	if err != nil {
		return nil, fmt.Errorf("%w: angle %q in %s", ErrUnrecognizedName, parts[3], base)
	}

	return &FileInfo{FieldStrength: field, AngleDeg: angle}, nil
}
