package daemon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tapefit/tapefit/pkg/analysis"
	"github.com/tapefit/tapefit/pkg/config"
	"github.com/tapefit/tapefit/pkg/powerlaw"
	"github.com/tapefit/tapefit/pkg/version"
)

// sweep returns a 20 sample sweep with an Ohmic first half and a
// Ic = 50 A, n = 20 transition in the second half.
func sweep() (current, voltage []float64) {
	const scale = 12.89 / 1000
	for i := 0; i < 20; i++ {
		cur := 5 + 3*float64(i)
		if i >= 10 {
			cur = 40 + 2*float64(i-10)
		}
		v := 0.5*cur + 1
		if i >= 10 {
			v += scale * 100 * math.Pow(cur/50, 20)
		}
		current = append(current, cur)
		voltage = append(voltage, v)
	}
	return current, voltage
}

func newTestHandler(t *testing.T) (http.Handler, *config.File) {
	t.Helper()
	conf := config.NewFileFromConfig(nil, "")
	return NewHandler(conf), conf
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetConfig(t *testing.T) {
	h, conf := newTestHandler(t)
	conf.SetScaleFactor(0.02)

	rec := do(t, h, http.MethodGet, "/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw config.RawFileConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Equal(t, 0.02, *raw.ScaleFactor)
	require.Equal(t, "midpoint", *raw.BackgroundSplit)
}

func TestGetVersion(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var v string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, version.Version, v)
}

func TestAnalyze(t *testing.T) {
	h, _ := newTestHandler(t)
	current, voltage := sweep()
	body, err := json.Marshal(AnalyzeRequest{
		Source:  "real_deal_0point6_40deg.txt",
		Current: current,
		Voltage: voltage,
	})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.NotEmpty(t, rec.Header().Get(RunIDHeader))
	require.Equal(t, rec.Header().Get(RunIDHeader), report.RunID)
	require.NotNil(t, report.Info)
	require.Equal(t, 40, report.Info.AngleDeg)

	require.Equal(t, powerlaw.StatusConverged, report.Fit.Status)
	require.InEpsilon(t, 50, report.Fit.CriticalCurrent(), 0.05)
	require.InEpsilon(t, 20, report.Fit.Exponent(), 0.05)
	require.NotNil(t, report.ModelCurve)
	require.Equal(t, 500, report.ModelCurve.Len())
}

func TestAnalyze_FitFailureStillOK(t *testing.T) {
	h, conf := newTestHandler(t)
	conf.SetMaxEvaluations(2)
	current, voltage := sweep()
	body, err := json.Marshal(AnalyzeRequest{Current: current, Voltage: voltage})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, powerlaw.StatusFailed, report.Fit.Status)
	require.Nil(t, report.ModelCurve)
}

func TestAnalyze_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `current=1,2,3`},
		{name: "length mismatch", body: `{"current":[1,2,3,4],"voltage":[1,2,3]}`},
		{name: "too short", body: `{"current":[1,2],"voltage":[1,2]}`},
		{name: "insufficient background", body: `{"current":[10,10,10,10,20],"voltage":[1,1,1,1,2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			rec := do(t, h, http.MethodPost, "/analyze", []byte(tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestAnalyzeRaw(t *testing.T) {
	h, conf := newTestHandler(t)
	conf.SetHeaderLines(2)

	current, voltage := sweep()
	var sb strings.Builder
	sb.WriteString("Sample: tape A\nI[A]\tV[uV]\n")
	for i := range current {
		sb.WriteString(fmt.Sprintf("%.17g\t%.17g\n", current[i], voltage[i]))
	}

	rec := do(t, h, http.MethodPost, "/analyze/raw?name=real_deal_1point2_90deg.txt", []byte(sb.String()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, "real_deal_1point2_90deg.txt", report.Source)
	require.InDelta(t, 1.2, report.Info.FieldStrength, 1e-12)
	require.Equal(t, 20, report.Samples)
	require.True(t, report.Fit.Converged())
}

func TestAnalyzeRaw_Malformed(t *testing.T) {
	h, conf := newTestHandler(t)
	conf.SetHeaderLines(0)

	rec := do(t, h, http.MethodPost, "/analyze/raw", []byte("1 2\n2 two\n3 4\n4 5\n"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "malformed")
}
