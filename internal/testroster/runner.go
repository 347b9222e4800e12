package testroster

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/gymteams/internal/adapters/sheet"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/scoring"
	"github.com/okian/gymteams/pkg/logger"
)

// File names written by Run.
const (
	Day1File     = "day1.csv"
	Day2File     = "day2.csv"
	WorkbookFile = "results.xlsx"

	directoryPermission = 0750
)

// Run generates a roster, writes it under config.OutputDir and, when
// config.BaseURL is set, checks the top teams of a running service.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Default()

	log.Info(ctx, "starting roster generation",
		logger.Int("athletes", config.Athletes),
		logger.Any("seed", config.Seed),
		logger.Float64("step", config.Step),
		logger.String("outputDir", config.OutputDir),
		logger.Bool("workbook", config.Workbook))

	if config.Athletes < 1 {
		return nil, fmt.Errorf("athletes must be positive, got %d", config.Athletes)
	}
	day1, day2 := Generate(config.Athletes, config.Seed, config.Step)
	stats.AthletesGenerated = config.Athletes

	if err := writeRoster(ctx, config, day1, day2, stats); err != nil {
		return nil, fmt.Errorf("writing roster failed: %w", err)
	}

	if config.BaseURL != "" {
		if err := checkService(ctx, config, stats); err != nil {
			return nil, fmt.Errorf("service check failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func writeRoster(ctx context.Context, config *Config, day1, day2 []model.DayResult, stats *Stats) error {
	if err := os.MkdirAll(config.OutputDir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for _, f := range []struct {
		name string
		rows []model.DayResult
	}{{Day1File, day1}, {Day2File, day2}} {
		path := filepath.Join(config.OutputDir, f.name)
		rows := f.rows
		if err := sheet.WriteFile(path, func(w io.Writer) error { return sheet.WriteDayCSV(w, rows) }); err != nil {
			return err
		}
		stats.RowsWritten += len(rows)
		logger.Default().Debug(ctx, "day written", logger.String("path", path), logger.Int("rows", len(rows)))
	}
	if config.Workbook {
		path := filepath.Join(config.OutputDir, WorkbookFile)
		if err := sheet.WriteResultsWorkbook(path, "Prelims", "Finals", day1, day2); err != nil {
			return err
		}
		logger.Default().Debug(ctx, "workbook written", logger.String("path", path))
	}
	logger.Default().Info(ctx, "roster written", logger.String("dir", config.OutputDir), logger.Int("rows", stats.RowsWritten))
	return nil
}

// checkService verifies the service is healthy and that its top teams
// come back ordered by rank and score.
func checkService(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	var health map[string]string
	if err := client.getJSON(ctx, config.BaseURL+"/healthz", &health); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(config.TopN))
	var resp teamsResponse
	if err := client.getJSON(ctx, config.BaseURL+"/teams?"+q.Encode(), &resp); err != nil {
		return err
	}
	if err := verifyTeams(resp.Teams, config.TopN); err != nil {
		return err
	}
	stats.TeamsRetrieved = len(resp.Teams)

	for _, t := range resp.Teams {
		logger.Default().Info(ctx, "team",
			logger.Int("rank", t.Rank),
			logger.Int("teamID", t.TeamID),
			logger.Float64("score", t.Score),
			logger.Any("members", t.Members))
	}
	for _, a := range resp.Annotations {
		logger.Default().Info(ctx, a)
	}
	return nil
}

// verifyTeams checks a top-team list is no longer than limit, has five
// members per team and is ordered by rank and score.
func verifyTeams(teams []TeamEntry, limit int) error {
	if len(teams) > limit {
		return fmt.Errorf("got %d teams, limit was %d", len(teams), limit)
	}
	for i, t := range teams {
		if len(t.Members) != scoring.TeamSize {
			return fmt.Errorf("team %d has %d members", t.TeamID, len(t.Members))
		}
		if i == 0 {
			continue
		}
		prev := teams[i-1]
		if t.Score > prev.Score {
			return fmt.Errorf("team %d scores %.2f above team %d at %.2f", t.TeamID, t.Score, prev.TeamID, prev.Score)
		}
		if t.Rank < prev.Rank {
			return fmt.Errorf("team %d rank %d precedes rank %d", t.TeamID, t.Rank, prev.Rank)
		}
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Default().Info(ctx, "final statistics",
		logger.Int("athletesGenerated", stats.AthletesGenerated),
		logger.Int("rowsWritten", stats.RowsWritten),
		logger.Int("teamsRetrieved", stats.TeamsRetrieved),
		logger.Duration("duration", stats.Duration))
}
