package measurement

import "errors"

var (
	// ErrMalformed is returned when input cannot be read as numeric columns.
	ErrMalformed = errors.New("malformed measurement data")

	// ErrLengthMismatch is returned when current and voltage sequences differ in length.
	ErrLengthMismatch = errors.New("current and voltage lengths differ")

	// ErrTooFewSamples is returned when a sweep is shorter than MinSamples.
	ErrTooFewSamples = errors.New("too few samples")

	// ErrUnrecognizedName is returned by ParseFileInfo for names that do not
	// follow the <prefix>_<prefix>_<field>_<angle>deg.txt convention.
	ErrUnrecognizedName = errors.New("unrecognized measurement file name")
)
