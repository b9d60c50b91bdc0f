package background

import "errors"

var (
	// ErrInsufficientData is returned when the background subset cannot
	// support a straight-line fit.
	ErrInsufficientData = errors.New("insufficient data for background fit")

	// ErrInvalidSplit is returned for split rules that cannot be parsed or
	// applied.
	ErrInvalidSplit = errors.New("invalid background split")
)
