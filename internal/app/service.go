// Package service runs the team computation pipeline and serves its
// results to the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gymteams/internal/adapters/repository"
	"github.com/okian/gymteams/internal/adapters/sheet"
	"github.com/okian/gymteams/internal/domain/dedupe"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/report"
	"github.com/okian/gymteams/internal/domain/roster"
	"github.com/okian/gymteams/internal/domain/scoring"
	"github.com/okian/gymteams/internal/domain/types"
	"github.com/okian/gymteams/pkg/logger"
	"github.com/okian/gymteams/pkg/metrics"
)

// Output formats for counting entries.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Service builds rosters, scores every team per basis and keeps the
// resolved results for reading.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	resolver dedupe.Resolver

	// Configuration
	workerCount  int
	bases        []model.Basis
	strictJoin   bool
	scoreMin     float64
	scoreMax     float64
	outputDir    string
	outputFormat string

	// State
	roster  *model.Roster
	runID   string
	lastRun time.Time
	elapsed time.Duration

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		bases:        model.Bases,
		scoreMin:     0,
		scoreMax:     20,
		outputFormat: FormatCSV,
		logger:       logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithLogger(s.logger))
	}
	s.resolver = dedupe.NewResolver(dedupe.WithLogger(s.logger))
	return s
}

// Run computes every configured basis from two days of results. Results
// are published only when every basis succeeds; on error the previously
// published results stay in place.
func (s *Service) Run(ctx context.Context, day1, day2 []model.DayResult) error {
	start := time.Now()
	r, err := s.buildRoster(ctx, day1, day2)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	scorer := scoring.NewScorer(scoring.WithWorkers(s.workerCount), scoring.WithLogger(s.logger))
	snaps := make([]*repository.Snapshot, 0, len(s.bases))
	for _, b := range s.bases {
		table, err := scorer.Score(ctx, r, b)
		if err != nil {
			return err
		}
		res, err := s.resolver.ResolveTable(ctx, table)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", b, err)
		}
		snaps = append(snaps, repository.NewSnapshot(runID, table, res))
	}

	if s.outputDir != "" {
		if err := s.export(ctx, snaps); err != nil {
			metrics.RecordPipelineError("export", "write")
			return err
		}
	}
	return s.publish(ctx, runID, r, snaps, start)
}

// Reload rebuilds results from tables a previous run exported to dir,
// skipping enumeration. The roster must be rebuilt from the same results.
func (s *Service) Reload(ctx context.Context, day1, day2 []model.DayResult, dir string) error {
	start := time.Now()
	r, err := s.buildRoster(ctx, day1, day2)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	snaps := make([]*repository.Snapshot, 0, len(s.bases))
	for _, b := range s.bases {
		table, err := sheet.LoadTableFiles(dir, b, r)
		if err != nil {
			metrics.RecordPipelineError("reload", "read")
			return fmt.Errorf("reloading %s: %w", b, err)
		}
		res, err := s.resolver.ResolveTable(ctx, table)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", b, err)
		}
		snaps = append(snaps, repository.NewSnapshot(runID, table, res))
	}
	return s.publish(ctx, runID, r, snaps, start)
}

func (s *Service) buildRoster(ctx context.Context, day1, day2 []model.DayResult) (*model.Roster, error) {
	b := roster.NewBuilder(
		roster.WithStrictJoin(s.strictJoin),
		roster.WithScoreRange(s.scoreMin, s.scoreMax),
		roster.WithLogger(s.logger),
	)
	r, err := b.Build(ctx, day1, day2)
	if err != nil {
		return nil, fmt.Errorf("building roster: %w", err)
	}
	return r, nil
}

func (s *Service) publish(ctx context.Context, runID string, r *model.Roster, snaps []*repository.Snapshot, start time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snaps {
		if err := s.store.Publish(ctx, snap); err != nil {
			return fmt.Errorf("publishing %s: %w", snap.Basis, err)
		}
	}
	s.roster = r
	s.runID = runID
	s.lastRun = time.Now()
	s.elapsed = time.Since(start)
	s.logger.Info(ctx, "run completed",
		logger.String("runID", runID),
		logger.Int("athletes", r.Len()),
		logger.Int("bases", len(snaps)),
		logger.Duration("elapsed", s.elapsed))
	return nil
}

// export writes the team-membership table of every basis as CSV and the
// counting entries as CSV files or one workbook.
func (s *Service) export(ctx context.Context, snaps []*repository.Snapshot) error {
	tables := make([]*scoring.Table, len(snaps))
	for i, snap := range snaps {
		tables[i] = snap.Table
	}
	return Export(ctx, s.outputDir, s.outputFormat, tables...)
}

// Export writes tables under dir in the given counting-entries format.
func Export(ctx context.Context, dir, format string, tables ...*scoring.Table) error {
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, sheet.TeamsFileName(t.Basis))
		if err := sheet.WriteFile(path, func(w io.Writer) error { return sheet.WriteTeamsCSV(w, t) }); err != nil {
			return err
		}
		if format == FormatCSV {
			path = filepath.Join(dir, sheet.CountingFileName(t.Basis))
			if err := sheet.WriteFile(path, func(w io.Writer) error { return sheet.WriteCountingCSV(w, t) }); err != nil {
				return err
			}
		}
	}
	if format == FormatXLSX {
		if err := sheet.WriteCountingWorkbook(filepath.Join(dir, sheet.WorkbookName), tables...); err != nil {
			return err
		}
	}
	logger.Default().Info(ctx, "tables exported", logger.String("dir", dir), logger.String("format", format))
	return nil
}

// TopTeams returns the k best representative teams for basis together
// with the substitution notes for flagged teams.
func (s *Service) TopTeams(ctx context.Context, basis model.Basis, k int) ([]types.TeamEntry, []string, error) {
	if k < 1 {
		return nil, nil, repository.ErrInvalidLimit
	}
	top, err := s.store.TopN(ctx, basis, k)
	if err != nil {
		return nil, nil, err
	}
	snap, err := s.store.Snapshot(ctx, basis)
	if err != nil {
		return nil, nil, err
	}
	reps := make([]scoring.Team, len(top))
	for i, e := range top {
		reps[i] = snap.Table.Teams[e.TeamID]
	}
	rows := report.TopTable(reps, snap.Resolution.Duplicates, snap.Table, k)
	out := make([]types.TeamEntry, len(rows))
	for i, row := range rows {
		out[i] = types.TeamEntry{
			Rank:    row.Rank,
			TeamID:  row.TeamID,
			Score:   row.Score,
			Gap:     row.Gap,
			Members: row.Members[:],
			Flag:    row.Flag,
			CouldBe: row.CouldBe,
		}
	}
	return out, report.Annotations(rows), nil
}

// Team returns one team with its counting entries. A collapsed team
// reports the lineup it was folded into.
func (s *Service) Team(ctx context.Context, basis model.Basis, id int) (types.TeamDetail, error) {
	view, err := s.store.Team(ctx, basis, id)
	if err != nil {
		return types.TeamDetail{}, err
	}
	snap, err := s.store.Snapshot(ctx, basis)
	if err != nil {
		return types.TeamDetail{}, err
	}
	t, _ := snap.Table.Team(id)
	l := snap.Table.Roster.Lookup()
	names := snap.Table.MemberNames(t)

	detail := types.TeamDetail{
		TeamID:      id,
		Basis:       basis.String(),
		Score:       t.Score,
		Members:     names[:],
		EventTotals: make(map[string]float64, model.NumEvents),
		Duplicates:  view.Duplicates,
	}
	for _, e := range model.Events {
		detail.EventTotals[e.String()] = scoring.Round(t.EventTotal(e), 3)
	}
	if view.Representative != id {
		rep := view.Representative
		detail.Representative = &rep
		detail.Duplicates = nil
	}
	for _, e := range t.Entries() {
		detail.Counting = append(detail.Counting, types.CountingEntry{
			Event: e.Event.String(),
			Rank:  e.Rank,
			Name:  l.Name(e.Athlete),
			Score: e.Score,
		})
	}
	return detail, nil
}

// Athletes returns the athlete leaderboard for one event and basis.
func (s *Service) Athletes(_ context.Context, basis model.Basis, event model.Event, n int) ([]types.AthleteEntry, error) {
	r := s.currentRoster()
	if r == nil {
		return nil, ErrNotReady
	}
	rows := report.Leaderboard(r, basis, event, n)
	out := make([]types.AthleteEntry, len(rows))
	for i, row := range rows {
		out[i] = types.AthleteEntry{Rank: row.Rank, Name: row.Name, Color: row.Color, Score: row.Score, Gap: row.Gap}
	}
	return out, nil
}

// Movements returns day-over-day all-around changes for the n best
// average all-arounders.
func (s *Service) Movements(_ context.Context, n int) ([]types.Movement, error) {
	r := s.currentRoster()
	if r == nil {
		return nil, ErrNotReady
	}
	ms := report.Movements(r, n)
	out := make([]types.Movement, len(ms))
	for i, m := range ms {
		out[i] = types.Movement{Name: m.Name, Color: m.Color, Day1: m.Day1, Day2: m.Day2, Delta: m.Delta}
	}
	return out, nil
}

func (s *Service) currentRoster() *model.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster
}

// Ready reports whether a run has completed.
func (s *Service) Ready() bool {
	return s.currentRoster() != nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"ready":       s.roster != nil,
		"workerCount": s.workerCount,
	}
	if s.roster == nil {
		return stats
	}

	bases := make([]types.BasisStats, 0, len(s.bases))
	for _, b := range s.store.Bases(ctx) {
		snap, err := s.store.Snapshot(ctx, b)
		if err != nil {
			continue
		}
		bases = append(bases, types.BasisStats{
			Basis:           b.String(),
			Teams:           snap.Table.Len(),
			Representatives: len(snap.Resolution.Teams),
			TieGroups:       snap.Resolution.TieGroups,
			Collapsed:       snap.Resolution.Collapsed,
		})
	}
	stats["runID"] = s.runID
	stats["rosterSize"] = s.roster.Len()
	stats["lastRun"] = s.lastRun.UTC().Format(time.RFC3339)
	stats["runDurationMs"] = s.elapsed.Milliseconds()
	stats["bases"] = bases
	return stats
}
