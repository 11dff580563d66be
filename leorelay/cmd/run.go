package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sarchlab/leorelay/config"
	"github.com/sarchlab/leorelay/geometry"
	"github.com/sarchlab/leorelay/runner"
	"github.com/sarchlab/leorelay/topology"
	"github.com/sarchlab/leorelay/tracing"
)

type runOptions struct {
	path      string
	ratio     float64
	size      uint64
	delayMode string
	logEvents bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a single run and print its record.",
		Example: `  leorelay run --path "1 2 3 5" --ratio 0.5 --size 5000
  leorelay run --delay-mode zero`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSingle(cmd, root, opts)
		},
	}

	flags := runCmd.Flags()
	flags.StringVar(&opts.path, "path", "",
		`relay ids to traverse, e.g. "1 2 3 5" (default "1")`)
	flags.Float64Var(&opts.ratio, "ratio", 1.0,
		"compression ratio applied by the first relay, in (0, 1]")
	flags.Uint64Var(&opts.size, "size", 1000, "packet size in bytes")
	flags.StringVar(&opts.delayMode, "delay-mode", "",
		"propagation delay model: physical, zero or fixed "+
			"(default from the scenario)")
	flags.BoolVar(&opts.logEvents, "log-events", false,
		"log every dispatched event (needs --verbose)")

	return runCmd
}

func runSingle(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	logger := root.logger(cmd.ErrOrStderr())

	scenario, err := root.scenario()
	if err != nil {
		return err
	}

	modeName := scenario.DelayMode
	if cmd.Flags().Changed("delay-mode") {
		modeName = opts.delayMode
	}

	mode, err := geometry.ParseDelayMode(modeName)
	if err != nil {
		return err
	}

	builder := runner.MakeBuilder().
		WithScenario(scenario).
		WithLogger(logger)
	if opts.logEvents {
		builder = builder.WithEventLogging()
	}

	if root.tracePath != "" {
		w := tracing.NewCSVTraceWriter(root.tracePath)
		w.Init()
		defer w.Close()

		builder = builder.WithTraceWriter(w)
	}

	path := parsePath(logger, opts.path, scenario)

	record, err := builder.Build().Run(cmd.Context(), runner.Params{
		Path:            path,
		Ratio:           opts.ratio,
		PacketSizeBytes: opts.size,
		DelayMode:       mode,
	})
	if err != nil {
		return err
	}

	printRecord(cmd.OutOrStdout(), record)

	return nil
}

func parsePath(
	logger zerolog.Logger,
	line string,
	scenario config.Scenario,
) topology.Path {
	path := topology.ParsePath(line, scenario.RelayCount)
	if line != "" && len(path) == 0 {
		logger.Warn().
			Str("path", line).
			Int("max_id", scenario.RelayCount).
			Msg("no valid relay id given, using the default path")
	}

	known := make(map[int]bool)
	for _, id := range scenario.RelayIDs() {
		known[id] = true
	}

	for _, id := range path {
		if !known[id] {
			logger.Warn().
				Int("relay", id).
				Msg("relay has no position, the payload will be dropped")
		}
	}

	return path
}

func printRecord(w io.Writer, r runner.RunRecord) {
	fmt.Fprintf(w, "Run:             %s\n", r.ID)
	fmt.Fprintf(w, "Path:            %s\n", r.Params.Path)
	fmt.Fprintf(w, "State:           %s\n", r.State)
	fmt.Fprintf(w, "Hops:            %d\n", r.Hops)
	fmt.Fprintf(w, "Up (Mbps):       %g\n", r.UpThroughputMbps())
	fmt.Fprintf(w, "Down (Mbps):     %g\n", r.DownThroughputMbps())
	fmt.Fprintf(w, "Down bits:       %g\n", r.DownBits)
	fmt.Fprintf(w, "Total time (s):  %g\n", r.TotalTime)

	if r.DropErr != nil {
		fmt.Fprintf(w, "Dropped at %d:   %v\n", r.DropNode, r.DropErr)
	}

	if r.Cutoff {
		fmt.Fprintf(w, "Cut off at (s):  %g, %d hop(s) in flight\n",
			r.EndTime, r.InFlightHops)
	}

	for _, step := range r.Steps {
		fmt.Fprintf(w, "  %s at %.9f\n", step.What, step.Time)
	}

	for _, h := range r.HopLog {
		fmt.Fprintf(w, "  %d -> %d  %6d B  %.9f -> %.9f\n",
			h.From, h.To, h.SizeBytes, h.DepartTime, h.ArriveTime)
	}
}
