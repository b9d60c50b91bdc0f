package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tapefit/tapefit/pkg/analysis"
	"github.com/tapefit/tapefit/pkg/client"
	"github.com/tapefit/tapefit/pkg/config"
	"github.com/tapefit/tapefit/pkg/measurement"
)

func NewAnalyzeCommand() *cobra.Command {
	var (
		jsonOutput bool
		remote     bool
		flags      analysisFlags
	)

	cmd := &cobra.Command{
		Use:     "analyze <file>",
		Aliases: []string{"fit"},
		GroupID: gBasic,
		Short:   "Correct and fit one V-I sweep",
		Long: `Load a V-I sweep, subtract its linear background and fit the power law.

Flags override the config file for this run only. With --remote the file is
sent to a running tapefit daemon, which uses its own configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			conf, err := config.NewFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			changed, err := flags.apply(cmd.Flags(), conf)
			if err != nil {
				return err
			}

			var report *analysis.Report
			if remote {
				if len(changed) > 0 {
					logrus.Warnf("--remote uses the daemon's configuration, ignoring --%s", strings.Join(changed, ", --"))
				}
				report, err = analyzeRemote(path)
			} else {
				report, err = analyzeLocal(conf, path)
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&jsonOutput, "json", false, "print the full report, including curves, as JSON")
	f.BoolVar(&remote, "remote", false, "analyze through the tapefit daemon")
	flags.register(f)

	return cmd
}

func analyzeLocal(conf config.Config, path string) (*analysis.Report, error) {
	logrus.WithFields(conf.LogrusFields()).Debug("effective config")

	opts, err := analysis.OptionsFromConfig(conf)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	p, err := analysis.New(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	m, err := measurement.LoadFile(path, analysis.LoadOptionsFromConfig(conf))
	if err != nil {
		return nil, err
	}

	return p.Run(m)
}

func analyzeRemote(path string) (*analysis.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	report, err := client.NewClient(unixSocketPath).AnalyzeRaw(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	report.Source = path
	return report, nil
}
