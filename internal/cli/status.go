package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"wintriage/internal/domain"
	"wintriage/internal/engine"
	"wintriage/internal/output"
)

// StatusCmd shows a quick health summary of a snapshot without
// rendering the full report
type StatusCmd struct {
	Input string `short:"i" default:"${config_snapshot}" help:"Snapshot file to read"`
}

// Run executes the status command
func (c *StatusCmd) Run(globals *Globals) error {
	snap, err := loadSnapshot(globals, c.Input)
	if err != nil {
		return err
	}

	eng := engine.New(globals.Logger)
	summary := eng.Summarize(snap.Events)
	groups := eng.Aggregate(snap.Events)

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteStatus(&output.StatusOutput{
			Snapshot:     c.Input,
			CollectedAt:  snap.CollectionTime,
			ComputerName: snap.SystemFacts.ComputerName,
			TotalEvents:  summary.TotalEvents,
			GroupCount:   len(groups),
			BySeverity:   summary.BySeverity,
			ByLogName:    summary.ByLogName,
		})
	}

	styled := isatty.IsTerminal(os.Stdout.Fd())

	title := fmt.Sprintf("%s (collected %s)", snap.SystemFacts.ComputerName, orDash(snap.CollectionTime))
	if styled {
		title = output.Styles.Title.Render(title)
	}
	fmt.Fprintln(globals.Stdout, title)
	fmt.Fprintf(globals.Stdout, "Snapshot: %s\n", c.Input)
	fmt.Fprintf(globals.Stdout, "Events: %d (%d distinct groups)\n\n", summary.TotalEvents, len(groups))

	sevTable := tablewriter.NewWriter(globals.Stdout)
	sevTable.Header([]string{"Severity", "Count"})
	for _, sev := range domain.Severities {
		sevTable.Append([]string{string(sev), strconv.Itoa(summary.BySeverity[sev])})
	}
	sevTable.Render()
	fmt.Fprintln(globals.Stdout)

	if len(summary.TopProviders) > 0 {
		provTable := tablewriter.NewWriter(globals.Stdout)
		provTable.Header([]string{"Top Provider", "Log", "Count"})
		for _, entry := range summary.TopProviders {
			provTable.Append([]string{entry.Name, entry.LogName, strconv.Itoa(entry.Count)})
		}
		provTable.Render()
		fmt.Fprintln(globals.Stdout)
	}

	hasErrors := summary.BySeverity[domain.SeverityError] > 0
	hasCriticals := summary.BySeverity[domain.SeverityCritical] > 0
	health := output.HealthLabel(hasErrors, hasCriticals)
	if styled {
		health = output.HealthText(hasErrors, hasCriticals)
	}
	fmt.Fprintf(globals.Stdout, "Health: %s\n", health)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
