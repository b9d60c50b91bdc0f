package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tapefit/tapefit/pkg/background"
	"github.com/tapefit/tapefit/pkg/client"
	"github.com/tapefit/tapefit/pkg/measurement"
)

var (
	logLevel       = "info"
	unixSocketPath = "/tmp/tapefit.sock"
	configPath     = "tapefit.json"
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: tapefit daemon is not running")
		fmt.Fprintf(os.Stderr, "Start it with 'tapefit daemon --socket %s', or drop '--remote'.\n", unixSocketPath)
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintf(os.Stderr, "  - Check the permissions of %s\n", unixSocketPath)
	case errors.Is(err, background.ErrInsufficientData):
		fmt.Fprintln(os.Stderr, "\nError: not enough low-current samples to fit the Ohmic background")
		fmt.Fprintln(os.Stderr, "  - Try a different rule with '--background-split', e.g. 'fraction:0.6' or 'below:<amps>'")
	case errors.Is(err, measurement.ErrMalformed):
		fmt.Fprintln(os.Stderr, "\nError: the measurement file could not be parsed")
		fmt.Fprintln(os.Stderr, "  - Check '--header-lines' matches the number of metadata lines in the file")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tapefit",
		Short: "tapefit extracts critical current and n-value from superconducting tape V-I sweeps",
		Long: `tapefit extracts critical current and n-value from superconducting tape V-I sweeps.

Each sweep is corrected for its linear (Ohmic) background and then fitted to
E = Ec * (I / Ic)^n.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "socket", unixSocketPath, "tapefit daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewAnalyzeCommand(),
		NewConfigCommand(),
		NewDaemonCommand(),
		NewVersionCommand(),
	)

	return cmd
}
