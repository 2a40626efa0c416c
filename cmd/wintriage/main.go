package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"wintriage/internal/cli"
	"wintriage/internal/config"
)

const quickStart = `wintriage - Windows event log triage for AI agents

START HERE:
  wintriage collect                     Collect recent events into a snapshot
  wintriage report                      Render a compact triage report
  wintriage ask "why did it reboot?"    Ask the model about the snapshot

Other useful commands:
  wintriage status                      Quick health summary of a snapshot
  wintriage chat                        Interactive session over a snapshot
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment. --config has to be
	// picked out ahead of kong because its values seed the flag defaults.
	var cfg *config.Config
	var err error
	if path := config.PathFromArgs(os.Args[1:]); path != "" {
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config %s: %v\n", path, err)
			os.Exit(1)
		}
	} else if cfg, err = config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format":     cfg.Format,
		"config_snapshot":   cfg.Collector.Output,
		"config_collector":  cfg.Collector.Command,
		"config_hours":      strconv.Itoa(cfg.Collector.HoursBack),
		"config_max_events": strconv.Itoa(cfg.Collector.MaxEvents),
		"config_model":      cfg.Model.Name,
		"config_budget":     strconv.Itoa(cfg.Report.BudgetChars),
		"config_network":    strconv.FormatBool(cfg.Report.NetworkInfo),
	}

	ctx := kong.Parse(&c,
		kong.Name("wintriage"),
		kong.Description("Collect Windows event logs and compact them into an LLM-sized triage report\n\nSTART HERE: wintriage collect, then wintriage report"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}
