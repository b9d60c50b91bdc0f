package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tapefit/tapefit/pkg/daemon"
	"github.com/tapefit/tapefit/pkg/version"
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "daemon",
		Short:   "Serve the analysis API on a unix socket in the foreground",
		GroupID: gAdvanced,
		Long: `Serve the analysis API on the unix socket given by --socket.

Send SIGHUP to reload the config file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("tapefit daemon starting")
			return daemon.Run(configPath, unixSocketPath)
		},
	}
}
