package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"wintriage/internal/config"
	"wintriage/internal/output"
)

// CLI is the root command structure for wintriage
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format"`
	Quiet   bool   `short:"q" help:"Suppress progress output"`
	Verbose bool   `short:"v" help:"Show debug output (subprocess lines, parse recoveries, retries)"`
	Config  string `type:"path" help:"Load configuration from this file instead of the search paths"`

	// Commands
	Collect CollectCmd `cmd:"" help:"Collect event logs and system facts into a snapshot file"`
	Report  ReportCmd  `cmd:"" help:"Render a compact triage report from a snapshot"`
	Status  StatusCmd  `cmd:"" help:"Show a quick health summary of a snapshot"`
	Ask     AskCmd     `cmd:"" help:"Ask the model one question about a snapshot"`
	Chat    ChatCmd    `cmd:"" help:"Interactive chat session over a snapshot"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet,
		Verbose: cli.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}

	// Apply config values if CLI flags weren't explicitly set
	if cfg != nil {
		if !cli.Quiet && cfg.Quiet {
			g.Quiet = cfg.Quiet
		}
		if !cli.Verbose && cfg.Verbose {
			g.Verbose = cfg.Verbose
		}
	}

	g.Logger = newLogger(g.Verbose)
	return g
}

// Debug prints a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.Verbose {
		fmt.Fprintf(g.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// newLogger builds the diagnostic sink handed to the engine, collector,
// and model client. Quiet by default; verbose enables debug to stderr.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteVersion(Version, Commit)
	}
	io.WriteString(globals.Stdout, "wintriage version "+Version+" ("+Commit+")\n")
	return nil
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
