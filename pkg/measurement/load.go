package measurement

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LoadOptions describes the instrument's column text layout.
type LoadOptions struct {
	// HeaderLines is the number of leading metadata lines to skip.
	HeaderLines   int
	CurrentColumn int
	VoltageColumn int
}

// DefaultLoadOptions matches the transport-current rig output: 11 header
// lines, current in column 0, voltage in column 1.
var DefaultLoadOptions = LoadOptions{
	HeaderLines:   11,
	CurrentColumn: 0,
	VoltageColumn: 1,
}

// Load reads a whitespace or comma separated column file. Blank lines and
// lines starting with '#' after the header are ignored.
func Load(r io.Reader, opts LoadOptions) (*Measurement, error) {
	if opts.HeaderLines < 0 || opts.CurrentColumn < 0 || opts.VoltageColumn < 0 {
		return nil, pkgerrors.Errorf("invalid load options %+v", opts)
	}

	m := &Measurement{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo <= opts.HeaderLines {
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		current, err := column(fields, opts.CurrentColumn)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "line %d", lineNo)
		}
		voltage, err := column(fields, opts.VoltageColumn)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "line %d", lineNo)
		}
		m.Current = append(m.Current, current)
		m.Voltage = append(m.Voltage, voltage)
	}
	if err := sc.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read measurement")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile loads path with Load and fills Source and, when the file name
// follows the rig's naming convention, Info.
func LoadFile(path string, opts LoadOptions) (*Measurement, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open file %s", path)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", path)
		}
	}(fp)

	m, err := Load(fp, opts)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to load %s", path)
	}
	m.Source = path

	info, err := ParseFileInfo(path)
	if err != nil {
		logrus.WithField("file", path).Debugf("no field/angle metadata: %v", err)
	} else {
		m.Info = info
	}

	return m, nil
}

func column(fields []string, idx int) (float64, error) {
	if idx >= len(fields) {
		return 0, pkgerrors.Wrapf(ErrMalformed, "column %d missing (%d columns)", idx, len(fields))
	}
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, pkgerrors.Wrapf(ErrMalformed, "column %d: %q is not a number", idx, fields[idx])
	}
	return v, nil
}
