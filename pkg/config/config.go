package config

import "github.com/sirupsen/logrus"

type Config interface {
	FieldCriterion() float64
	ScaleFactor() float64
	BackgroundSplit() string
	InitialExponent() float64
	Epsilon() float64
	MaxEvaluations() int
	HeaderLines() int
	ModelPoints() int

	SetFieldCriterion(float64)
	SetScaleFactor(float64)
	SetBackgroundSplit(string)
	SetInitialExponent(float64)
	SetEpsilon(float64)
	SetMaxEvaluations(int)
	SetHeaderLines(int)
	SetModelPoints(int)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
