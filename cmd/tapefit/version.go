package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tapefit/tapefit/pkg/client"
	"github.com/tapefit/tapefit/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	var daemonVersion bool

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: gBasic,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tapefit %s (%s)\n", version.Version, version.GitCommit)
			if !daemonVersion {
				return nil
			}

			v, err := client.NewClient(unixSocketPath).GetVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "daemon %s\n", v)
			if v != version.Version {
				logrus.WithFields(logrus.Fields{
					"clientVersion": version.Version,
					"daemonVersion": v,
				}).Warn("Version mismatch between client and daemon.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&daemonVersion, "daemon", false, "also query the running daemon")

	return cmd
}
