package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"wintriage/internal/engine"
	"wintriage/internal/output"
)

// ReportCmd renders a compact triage report from a snapshot
type ReportCmd struct {
	Input   string `short:"i" default:"${config_snapshot}" help:"Snapshot file to read"`
	Output  string `short:"o" help:"Write the report to a file instead of stdout (.gz compresses)"`
	Budget  int    `default:"${config_budget}" help:"Report character budget (0 = unlimited)"`
	Network bool   `default:"${config_network}" negatable:"" help:"Include the network section"`
}

// Run executes the report command
func (c *ReportCmd) Run(globals *Globals) error {
	snap, err := loadSnapshot(globals, c.Input)
	if err != nil {
		return err
	}

	eng := engine.New(globals.Logger)
	report, err := eng.BuildReport(snap, engine.FormatOptions{
		BudgetChars:        c.Budget,
		IncludeNetworkInfo: c.Network,
	})
	if err != nil {
		return outputErrorCommon(globals, codeMalformedSnapshot, err.Error())
	}

	if c.Output != "" {
		if err := writeReportFile(c.Output, report); err != nil {
			return outputErrorCommon(globals, codeWriteFailed, err.Error())
		}
		if globals.Format == "ndjson" {
			return output.NewNDJSONWriter(globals.Stdout).WriteInfo("report written", c.Output)
		}
		if !globals.Quiet {
			fmt.Fprintf(globals.Stdout, "Report written to %s\n", c.Output)
		}
		return nil
	}

	if globals.Format == "ndjson" {
		groups := eng.Aggregate(snap.Events)
		return output.NewNDJSONWriter(globals.Stdout).WriteReport(&output.ReportOutput{
			CollectedAt: snap.CollectionTime,
			EventCount:  snap.EventCount(),
			GroupCount:  len(groups),
			Truncated:   strings.HasSuffix(report, engine.TruncationMarker),
			Report:      report,
		})
	}

	fmt.Fprintln(globals.Stdout, report)
	return nil
}

// writeReportFile writes the report, gzip-compressed when the path has
// a .gz suffix.
func writeReportFile(path, report string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if _, err := io.WriteString(w, report+"\n"); err != nil {
		f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
