package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wintriage/internal/collector"
	"wintriage/internal/output"
)

// CollectCmd collects event logs and system facts into a snapshot file
type CollectCmd struct {
	Output    string        `short:"o" default:"${config_snapshot}" help:"Snapshot file to write"`
	Hours     int           `default:"${config_hours}" help:"How many hours back to collect"`
	MaxEvents int           `default:"${config_max_events}" help:"Maximum events to collect per log"`
	Command   string        `default:"${config_collector}" help:"Collection shell command"`
	Timeout   time.Duration `default:"5m" help:"Abort collection after this long"`
}

// Run executes the collect command
func (c *CollectCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	globals.Debug("collector command: %s (timeout %s)", c.Command, c.Timeout)

	if !globals.Quiet && globals.Format != "ndjson" {
		fmt.Fprintf(globals.Stderr, "Collecting events from the last %d hours (max %d per log)...\n",
			c.Hours, c.MaxEvents)
	}

	col := collector.New(c.Command, globals.Logger)

	start := time.Now()
	snap, err := col.Collect(ctx, collector.Options{
		OutputPath: c.Output,
		HoursBack:  c.Hours,
		MaxEvents:  c.MaxEvents,
	})
	if err != nil {
		return outputErrorCommon(globals, codeCollectFailed, err.Error())
	}
	elapsed := time.Since(start)

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteCollect(&output.CollectOutput{
			Snapshot:    c.Output,
			EventCount:  snap.EventCount(),
			CollectedAt: snap.CollectionTime,
			ElapsedSecs: elapsed.Seconds(),
		})
	}

	fmt.Fprintf(globals.Stdout, "Collected %d events to %s in %s\n",
		snap.EventCount(), c.Output, elapsed.Round(time.Millisecond))
	return nil
}
