package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/leorelay/datarecording"
)

func newShowCommand(_ *rootOptions) *cobra.Command {
	var (
		where    string
		withHops bool
	)

	showCmd := &cobra.Command{
		Use:   "show DATABASE",
		Short: "Print the runs recorded by sweep --sqlite.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRuns(cmd, args[0], where, withHops)
		},
	}

	showCmd.Flags().StringVar(&where, "where", "",
		`SQL condition on the runs, e.g. "Ratio < 1"`)
	showCmd.Flags().BoolVar(&withHops, "hops", false,
		"also print the hop log of every run")

	return showCmd
}

func showRuns(
	cmd *cobra.Command,
	dbFile, where string,
	withHops bool,
) error {
	if _, err := os.Stat(dbFile); errors.Is(err, os.ErrNotExist) {
		dbFile += ".sqlite3"
	}

	if _, err := os.Stat(dbFile); err != nil {
		return err
	}

	reader := datarecording.NewRunReader(dbFile)
	defer reader.Close()

	entries, err := reader.Runs(cmd.Context(), where)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tPATH\tRATIO\tSIZE\tDELAY\tSTATE\tUP(Mbps)\tDOWN(Mbps)\tTOTAL(s)")

	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%s\t%s\t%g\t%g\t%g\n",
			e.RunID, e.Path, e.Ratio, e.PacketSize, e.DelayMode, e.State,
			e.UpThroughput/1e6, e.DownThroughput/1e6, e.TotalTime)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if !withHops {
		return nil
	}

	for _, e := range entries {
		hops, err := reader.Hops(cmd.Context(), e.RunID)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", e.RunID)
		for _, h := range hops {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d -> %d  %6d B  %.9f -> %.9f\n",
				h.FromNode, h.ToNode, h.SizeBytes, h.DepartTime, h.ArriveTime)
		}
	}

	return nil
}
