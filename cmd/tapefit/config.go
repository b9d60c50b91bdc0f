package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tapefit/tapefit/pkg/client"
	"github.com/tapefit/tapefit/pkg/config"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		GroupID: gAdvanced,
		Short:   "Inspect or create the tapefit config file",
	}

	var remote bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file values merged with defaults)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				raw *config.RawFileConfig
				err error
			)
			if remote {
				raw, err = client.NewClient(unixSocketPath).GetConfig()
			} else {
				var conf *config.File
				conf, err = config.NewFile(configPath)
				if err == nil {
					raw, err = config.NewRawFileConfigFromConfig(conf)
				}
			}
			if err != nil {
				return fmt.Errorf("failed to get config: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(raw)
		},
	}
	showCmd.Flags().BoolVar(&remote, "remote", false, "show the daemon's configuration instead")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file populated with the defaults",
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", configPath)
			}

			conf := config.NewFileFromConfig(config.Defaults(), configPath)
			if err := conf.Save(); err != nil {
				return err
			}
			logrus.Infof("wrote default config to %s", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(showCmd, initCmd)
	return cmd
}
