package daemon

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tapefit/tapefit/pkg/analysis"
	"github.com/tapefit/tapefit/pkg/background"
	"github.com/tapefit/tapefit/pkg/config"
	"github.com/tapefit/tapefit/pkg/measurement"
	"github.com/tapefit/tapefit/pkg/version"
)

// maxRawBody bounds /analyze/raw uploads. A sweep is a few hundred lines.
const maxRawBody = 8 << 20

// AnalyzeRequest is the JSON body of POST /analyze.
type AnalyzeRequest struct {
	Source  string    `json:"source,omitempty"`
	Current []float64 `json:"current"`
	Voltage []float64 `json:"voltage"`
}

func (s *server) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(s.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (s *server) getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func (s *server) analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	m, err := measurement.New(req.Current, req.Voltage)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	m.Source = req.Source
	if req.Source != "" {
		if info, err := measurement.ParseFileInfo(req.Source); err == nil {
			m.Info = info
		}
	}

	s.run(c, m)
}

func (s *server) analyzeRaw(c *gin.Context) {
	b, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRawBody))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	m, err := measurement.Load(bytes.NewReader(b), analysis.LoadOptionsFromConfig(s.conf))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	if name := c.Query("name"); name != "" {
		m.Source = name
		if info, err := measurement.ParseFileInfo(name); err == nil {
			m.Info = info
		}
	}

	s.run(c, m)
}

func (s *server) run(c *gin.Context, m *measurement.Measurement) {
	opts, err := analysis.OptionsFromConfig(s.conf)
	if err != nil {
		logrus.Errorf("invalid analysis config: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	p, err := analysis.New(opts)
	if err != nil {
		logrus.Errorf("failed to build pipeline: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	runID := uuid.NewString()
	c.Header(RunIDHeader, runID)

	report, err := p.RunWithID(runID, m)
	if err != nil {
		status := http.StatusInternalServerError
		if isInputError(err) {
			status = http.StatusBadRequest
		}
		c.IndentedJSON(status, err.Error())
		_ = c.AbortWithError(status, err)
		return
	}

	c.IndentedJSON(http.StatusOK, report)
}

func isInputError(err error) bool {
	return errors.Is(err, background.ErrInsufficientData) ||
		errors.Is(err, measurement.ErrMalformed) ||
		errors.Is(err, measurement.ErrLengthMismatch) ||
		errors.Is(err, measurement.ErrTooFewSamples)
}
