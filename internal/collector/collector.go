package collector

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wintriage/internal/domain"
)

//go:embed collect_events.ps1
var collectScript []byte

// Options controls one collection run
type Options struct {
	// OutputPath is where the collector writes the snapshot document.
	OutputPath string

	// HoursBack is how far back to harvest events.
	HoursBack int

	// MaxEvents caps the events harvested per log.
	MaxEvents int
}

// Collector runs the host log-collection subprocess and parses its
// output document. The subprocess is treated as an opaque producer of
// JSON; its command is configurable so tests can substitute a stub.
type Collector struct {
	command string
	clock   clock.Clock
	log     *zap.Logger
}

// New creates a Collector that invokes the given command (empty means
// the platform default, powershell.exe).
func New(command string, logger *zap.Logger) *Collector {
	if command == "" {
		command = "powershell.exe"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		command: command,
		clock:   clock.New(),
		log:     logger,
	}
}

// SetClock replaces the wall clock, for tests
func (c *Collector) SetClock(clk clock.Clock) {
	c.clock = clk
}

// Collect runs the collection script and parses the document it wrote.
// A non-zero exit, a missing output file, or an empty output file all
// fail the run; stderr from the subprocess is surfaced in the error.
func (c *Collector) Collect(ctx context.Context, opts Options) (*domain.Snapshot, error) {
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("collect: output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("collect: create output directory: %w", err)
	}

	scriptPath, cleanup, err := writeScript()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	args := []string{
		"-NoProfile",
		"-ExecutionPolicy", "Bypass",
		"-File", scriptPath,
		"-OutputFile", opts.OutputPath,
		"-HoursBack", strconv.Itoa(opts.HoursBack),
		"-MaxEvents", strconv.Itoa(opts.MaxEvents),
	}

	start := c.clock.Now()
	cmd := exec.CommandContext(ctx, c.command, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("collect: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("collect: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("collect: start %s: %w", c.command, err)
	}

	// Drain both pipes concurrently to avoid blocking the subprocess.
	var stderrTail []string
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				c.log.Debug("collector stdout", zap.String("line", line))
			}
		}
		return sc.Err()
	})
	g.Go(func() error {
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			c.log.Debug("collector stderr", zap.String("line", line))
			if len(stderrTail) < 10 {
				stderrTail = append(stderrTail, line)
			}
		}
		return sc.Err()
	})

	drainErr := g.Wait()
	waitErr := cmd.Wait()
	if waitErr != nil {
		if len(stderrTail) > 0 {
			return nil, fmt.Errorf("collect: %s failed: %w: %s", c.command, waitErr, strings.Join(stderrTail, "; "))
		}
		return nil, fmt.Errorf("collect: %s failed: %w", c.command, waitErr)
	}
	if drainErr != nil {
		return nil, fmt.Errorf("collect: read subprocess output: %w", drainErr)
	}

	c.log.Debug("collection script finished",
		zap.Duration("elapsed", c.clock.Now().Sub(start)),
		zap.String("output", opts.OutputPath))

	return Load(opts.OutputPath)
}

// Load reads and parses a previously collected snapshot document
func Load(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("load snapshot: %s is empty", path)
	}
	return Parse(data)
}

// writeScript materializes the embedded collection script in a temp
// file so the shell can execute it from a real path.
func writeScript() (string, func(), error) {
	dir, err := os.MkdirTemp("", "wintriage-collect-*")
	if err != nil {
		return "", nil, fmt.Errorf("collect: temp dir: %w", err)
	}
	path := filepath.Join(dir, "collect_events.ps1")
	if err := os.WriteFile(path, collectScript, 0o600); err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("collect: write script: %w", err)
	}
	return path, func() { os.RemoveAll(dir) }, nil
}
