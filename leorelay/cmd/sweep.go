package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/leorelay/datarecording"
	"github.com/sarchlab/leorelay/experiment"
	"github.com/sarchlab/leorelay/geometry"
	"github.com/sarchlab/leorelay/monitoring"
	"github.com/sarchlab/leorelay/runner"
	"github.com/sarchlab/leorelay/topology"
	"github.com/sarchlab/leorelay/tracing"
)

type sweepOptions struct {
	path        string
	ratios      []float64
	sizes       []uint
	delayModes  []string
	workers     int
	output      string
	sqlite      string
	monitor     bool
	monitorPort int
	openBrowser bool
}

func newSweepCommand(root *rootOptions) *cobra.Command {
	opts := &sweepOptions{}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run every ratio and packet size combination and write a CSV.",
		Example: `  leorelay sweep --path "1 2 3 5" --output results.csv
  leorelay sweep --delay-modes physical,zero --sqlite results --monitor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, root, opts)
		},
	}

	defaults := experiment.DefaultSweep(nil)
	sizes := make([]uint, len(defaults.PacketSizes))
	for i, s := range defaults.PacketSizes {
		sizes[i] = uint(s)
	}

	flags := sweepCmd.Flags()
	flags.StringVar(&opts.path, "path", "",
		`relay ids to traverse, e.g. "1 2 3 5" (default "1")`)
	flags.Float64SliceVar(&opts.ratios, "ratios", defaults.Ratios,
		"compression ratios")
	flags.UintSliceVar(&opts.sizes, "sizes", sizes, "packet sizes in bytes")
	flags.StringSliceVar(&opts.delayModes, "delay-modes", nil,
		"propagation delay models (default from the scenario)")
	flags.IntVar(&opts.workers, "workers", 0,
		"runs executed in parallel (default one per CPU)")
	flags.StringVarP(&opts.output, "output", "o", "results.csv",
		`CSV output file, "-" for stdout`)
	flags.StringVar(&opts.sqlite, "sqlite", "",
		"also record runs and hop logs in this SQLite database "+
			"(without extension)")
	flags.BoolVar(&opts.monitor, "monitor", false,
		"serve the sweep progress over HTTP")
	flags.IntVar(&opts.monitorPort, "monitor-port", 0,
		"port of the monitoring server (default random)")
	flags.BoolVar(&opts.openBrowser, "open-browser", false,
		"open the monitoring server in a browser")

	return sweepCmd
}

func (o *sweepOptions) sweep(path topology.Path) (experiment.Sweep, error) {
	s := experiment.DefaultSweep(path)
	s.Ratios = o.ratios

	s.PacketSizes = make([]uint64, len(o.sizes))
	for i, size := range o.sizes {
		s.PacketSizes[i] = uint64(size)
	}

	s.DelayModes = nil
	for _, name := range o.delayModes {
		mode, err := geometry.ParseDelayMode(name)
		if err != nil {
			return s, err
		}

		s.DelayModes = append(s.DelayModes, mode)
	}

	return s, nil
}

func runSweep(cmd *cobra.Command, root *rootOptions, opts *sweepOptions) error {
	logger := root.logger(cmd.ErrOrStderr())

	scenario, err := root.scenario()
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("delay-modes") {
		opts.delayModes = []string{scenario.DelayMode}
	}

	sweep, err := opts.sweep(parsePath(logger, opts.path, scenario))
	if err != nil {
		return err
	}

	builder := runner.MakeBuilder().
		WithScenario(scenario).
		WithLogger(logger)

	if root.tracePath != "" {
		w := tracing.NewCSVTraceWriter(root.tracePath)
		w.Init()
		defer w.Close()

		builder = builder.WithTraceWriter(w)
	}

	r := experiment.NewRunner(builder.Build()).WithLogger(logger)
	if opts.workers > 0 {
		r.WithWorkers(opts.workers)
	}

	if opts.monitor {
		m := monitoring.NewMonitor().
			WithLogger(logger).
			WithPortNumber(opts.monitorPort)

		url, err := m.StartServer()
		if err != nil {
			return err
		}
		defer m.StopServer()

		if opts.openBrowser {
			if err := monitoring.OpenInBrowser(url); err != nil {
				logger.Warn().Err(err).Msg("cannot open browser")
			}
		}

		r.WithReporter(m)
	}

	results, sweepErr := r.Run(cmd.Context(), sweep)

	if err := writeResults(cmd, opts.output, results); err != nil {
		return err
	}

	if opts.sqlite != "" {
		recordResults(opts.sqlite, results)
	}

	if sweepErr != nil {
		logger.Error().Err(sweepErr).Msg("some runs failed")
	}

	logger.Info().
		Int("runs", len(results)).
		Str("output", opts.output).
		Msg("sweep finished")

	return nil
}

func writeResults(
	cmd *cobra.Command,
	output string,
	results []experiment.Result,
) error {
	if output == "-" {
		return experiment.NewCSVWriter(cmd.OutOrStdout()).WriteAll(results)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()

	if err := experiment.NewCSVWriter(f).WriteAll(results); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	return f.Close()
}

func recordResults(path string, results []experiment.Result) {
	recorder := datarecording.NewDataRecorder(path)
	defer recorder.Close()

	records := make([]runner.RunRecord, 0, len(results))
	for _, res := range results {
		if res.Err == nil {
			records = append(records, res.Record)
		}
	}

	datarecording.NewRunRecorder(recorder).RecordAll(records)
}
