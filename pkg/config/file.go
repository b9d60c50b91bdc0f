package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tapefit/tapefit/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		// 100 μV/cm
		FieldCriterion: ptr.To(100.0),
		// Voltage tap separation of the standard sample holder.
		ScaleFactor:     ptr.To(12.89 / 1000),
		BackgroundSplit: ptr.To("midpoint"),
		InitialExponent: ptr.To(10.0),
		Epsilon:         ptr.To(1e-9),
		MaxEvaluations:  ptr.To(600),
		HeaderLines:     ptr.To(11),
		ModelPoints:     ptr.To(500),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

// NewFile loads configPath. A missing or empty file yields the defaults.
func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// RawFileConfig is the on-disk form. Unset fields fall back to defaults.
type RawFileConfig struct {
	FieldCriterion  *float64 `json:"fieldCriterion,omitempty"`
	ScaleFactor     *float64 `json:"scaleFactor,omitempty"`
	BackgroundSplit *string  `json:"backgroundSplit,omitempty"`
	InitialExponent *float64 `json:"initialExponent,omitempty"`
	Epsilon         *float64 `json:"epsilon,omitempty"`
	MaxEvaluations  *int     `json:"maxEvaluations,omitempty"`
	HeaderLines     *int     `json:"headerLines,omitempty"`
	ModelPoints     *int     `json:"modelPoints,omitempty"`
}

// NewRawFileConfigFromConfig returns a fully populated RawFileConfig holding
// the effective values of c.
func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		FieldCriterion:  ptr.To(c.FieldCriterion()),
		ScaleFactor:     ptr.To(c.ScaleFactor()),
		BackgroundSplit: ptr.To(c.BackgroundSplit()),
		InitialExponent: ptr.To(c.InitialExponent()),
		Epsilon:         ptr.To(c.Epsilon()),
		MaxEvaluations:  ptr.To(c.MaxEvaluations()),
		HeaderLines:     ptr.To(c.HeaderLines()),
		ModelPoints:     ptr.To(c.ModelPoints()),
	}

	return rawConfig, nil
}

// Defaults returns a copy of the built-in defaults.
func Defaults() *RawFileConfig {
	c := *defaultFileConfig
	return &c
}

func (f *File) FieldCriterion() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.FieldCriterion, *defaultFileConfig.FieldCriterion)
}

func (f *File) ScaleFactor() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.ScaleFactor, *defaultFileConfig.ScaleFactor)
}

func (f *File) BackgroundSplit() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.BackgroundSplit, *defaultFileConfig.BackgroundSplit)
}

func (f *File) InitialExponent() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.InitialExponent, *defaultFileConfig.InitialExponent)
}

func (f *File) Epsilon() float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.Epsilon, *defaultFileConfig.Epsilon)
}

func (f *File) MaxEvaluations() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.MaxEvaluations, *defaultFileConfig.MaxEvaluations)
}

func (f *File) HeaderLines() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.HeaderLines, *defaultFileConfig.HeaderLines)
}

func (f *File) ModelPoints() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.ModelPoints, *defaultFileConfig.ModelPoints)
}

func (f *File) SetFieldCriterion(v float64) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.FieldCriterion = &v
}

func (f *File) SetScaleFactor(v float64) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ScaleFactor = &v
}

func (f *File) SetBackgroundSplit(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.BackgroundSplit = &s
}

func (f *File) SetInitialExponent(v float64) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.InitialExponent = &v
}

func (f *File) SetEpsilon(v float64) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Epsilon = &v
}

func (f *File) SetMaxEvaluations(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.MaxEvaluations = &i
}

func (f *File) SetHeaderLines(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.HeaderLines = &i
}

func (f *File) SetModelPoints(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ModelPoints = &i
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"fieldCriterion":  f.FieldCriterion(),
		"scaleFactor":     f.ScaleFactor(),
		"backgroundSplit": f.BackgroundSplit(),
		"initialExponent": f.InitialExponent(),
		"epsilon":         f.Epsilon(),
		"maxEvaluations":  f.MaxEvaluations(),
		"headerLines":     f.HeaderLines(),
		"modelPoints":     f.ModelPoints(),
	}
}
