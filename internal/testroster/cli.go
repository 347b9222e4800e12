package testroster

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/gymteams/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging directs the global logger to stdout and logFile. An empty
// logFile gets a timestamped name. The returned file must be closed by
// the caller.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "gen_roster_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file), "text"); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the roster generator.
func ShowHelp() {
	os.Stdout.WriteString(`Gym Roster Generator
====================

Writes a deterministic synthetic two-day roster as day1.csv and day2.csv,
optionally as a Prelims/Finals workbook, and optionally checks a running
gymteams service.

Usage:
  go run ./cmd/gen-roster [options]

Options:
  -athletes int
        Number of athletes to generate (default 20)
  -seed uint
        Generator seed; the same seed yields the same roster (default 1)
  -step float
        Score granularity; coarse steps such as 0.5 produce many ties (default 0.001)
  -out string
        Output directory (default "data")
  -workbook
        Also write results.xlsx with Prelims and Finals sheets
  -url string
        Base URL of a running service to query after generation (default: none)
  -top int
        Number of top teams to fetch from the service (default 10)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for tool output (default: gen_roster_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Thirty athletes with judged precision
  go run ./cmd/gen-roster -athletes 30

  # A tie-heavy roster for exercising duplicate collapsing
  go run ./cmd/gen-roster -athletes 12 -step 0.5 -out data/ties

  # Check the top teams of a running service
  go run ./cmd/gen-roster -url http://localhost:9080 -top 5
`)
}
