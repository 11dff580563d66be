package experiment

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVHeader is the first row of a results file.
var CSVHeader = []string{
	"Ratio", "PacketSize", "Up(Mbps)", "Down(Mbps)", "TotalTime(s)",
}

// CSVWriter writes one row per run. Runs that failed or did not deliver are
// written with zero metrics.
type CSVWriter struct {
	w             *csv.Writer
	headerWritten bool
}

// NewCSVWriter creates a CSVWriter on w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// Write appends the row of a result, after the header if it is the first.
func (c *CSVWriter) Write(res Result) error {
	if !c.headerWritten {
		if err := c.w.Write(CSVHeader); err != nil {
			return err
		}

		c.headerWritten = true
	}

	up, down, total := 0.0, 0.0, 0.0
	if res.OK() {
		up = res.Record.UpThroughputMbps()
		down = res.Record.DownThroughputMbps()
		total = res.Record.TotalTime
	}

	return c.w.Write([]string{
		formatFloat(res.Params.Ratio),
		strconv.FormatUint(res.Params.PacketSizeBytes, 10),
		formatFloat(up),
		formatFloat(down),
		formatFloat(total),
	})
}

// WriteAll writes every result and flushes.
func (c *CSVWriter) WriteAll(results []Result) error {
	for _, res := range results {
		if err := c.Write(res); err != nil {
			return err
		}
	}

	return c.Flush()
}

// Flush writes buffered rows to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
