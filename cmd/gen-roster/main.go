package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/gymteams/internal/testroster"
)

// Default configuration constants.
const (
	defaultAthletes = 20
	defaultSeed     = 1
	defaultTopN     = 10
	defaultTimeout  = 30 * time.Second
	defaultRunLimit = 5 * time.Minute
)

func main() {
	var (
		athletes = flag.Int("athletes", defaultAthletes, "Number of athletes to generate")
		seed     = flag.Uint64("seed", defaultSeed, "Generator seed")
		step     = flag.Float64("step", testroster.DefaultStep, "Score granularity")
		outDir   = flag.String("out", "data", "Output directory")
		workbook = flag.Bool("workbook", false, "Also write a Prelims/Finals workbook")
		baseURL  = flag.String("url", "", "Base URL of a running service to query")
		topN     = flag.Int("top", defaultTopN, "Number of top teams to fetch from the service")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for tool output (default: gen_roster_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testroster.ShowHelp()
		return
	}

	closer, err := testroster.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	config := &testroster.Config{
		Athletes:  *athletes,
		Seed:      *seed,
		Step:      *step,
		OutputDir: *outDir,
		Workbook:  *workbook,
		BaseURL:   *baseURL,
		TopN:      *topN,
		Timeout:   *timeout,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	if _, err := testroster.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		cancel()
		closer.Close()
		os.Exit(1)
	}
}
