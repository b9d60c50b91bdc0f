package client

import (
	"encoding/json"
	"net/url"

	pkgerrors "github.com/pkg/errors"

	"github.com/tapefit/tapefit/pkg/analysis"
	"github.com/tapefit/tapefit/pkg/config"
	"github.com/tapefit/tapefit/pkg/daemon"
	"github.com/tapefit/tapefit/pkg/measurement"
)

// Analyze submits an already loaded measurement.
func (c *Client) Analyze(m *measurement.Measurement) (*analysis.Report, error) {
	payload, err := json.Marshal(daemon.AnalyzeRequest{
		Source:  m.Source,
		Current: m.Current,
		Voltage: m.Voltage,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to marshal measurement")
	}

	ret, err := c.Post("/analyze", "application/json", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to analyze measurement")
	}
	return parseReport(ret)
}

// AnalyzeRaw submits the instrument file contents; the daemon parses them
// with its configured layout. name is used for field/angle metadata.
func (c *Client) AnalyzeRaw(name string, data []byte) (*analysis.Report, error) {
	path := "/analyze/raw"
	if name != "" {
		path += "?name=" + url.QueryEscape(name)
	}

	ret, err := c.Post(path, "text/plain", string(data))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to analyze %s", name)
	}
	return parseReport(ret)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}

	return v, nil
}

func parseReport(ret string) (*analysis.Report, error) {
	var report analysis.Report
	if err := json.Unmarshal([]byte(ret), &report); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to unmarshal report")
	}
	return &report, nil
}
