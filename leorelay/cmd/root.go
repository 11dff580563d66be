// Package cmd provides the command-line interface of leorelay.
package cmd

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/leorelay/config"
)

type rootOptions struct {
	configFile string
	envFiles   []string
	verbose    bool
	tracePath  string
}

// NewRootCommand creates the leorelay command with all its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "leorelay",
		Short: "Simulate relaying data through a chain of LEO satellites.",
		Long: `leorelay simulates a payload travelling from a ground source, ` +
			`through a chain of satellites, to a ground sink. Each hop ` +
			`applies transmission and propagation delay, and the first ` +
			`relay compresses the payload.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "",
		"YAML file overriding the scenario constants")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil,
		"files with LEORELAY_* overrides (default .env)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"log debug messages")
	flags.StringVar(&opts.tracePath, "trace", "",
		"write a CSV task trace to this path (without extension)")

	rootCmd.AddCommand(
		newRunCommand(opts),
		newSweepCommand(opts),
		newShowCommand(opts),
	)

	return rootCmd
}

// Execute runs the command line and exits with a non-zero status on failure.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func (o *rootOptions) logger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func (o *rootOptions) scenario() (config.Scenario, error) {
	s := config.Default()

	if o.configFile != "" {
		var err error

		s, err = config.Load(o.configFile)
		if err != nil {
			return s, err
		}
	}

	if err := s.ApplyEnv(o.envFiles...); err != nil {
		return s, err
	}

	return s, s.Validate()
}
