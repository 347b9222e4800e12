// Package dedupe collapses teams that count the exact same twelve
// performances into one representative lineup.
package dedupe

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/okian/gymteams/internal/domain/scoring"
	"github.com/okian/gymteams/pkg/logger"
	"github.com/okian/gymteams/pkg/metrics"
)

// Default precisions.
const (
	defaultEntryDecimals = 6
	cancelCheckInterval  = 4096
)

// Resolver detects equivalent teams among those tied on total score.
type Resolver interface {
	// Resolve returns the representatives of teams plus the mapping from
	// each representative id to the ids it absorbed. teams is not modified.
	Resolve(ctx context.Context, teams []scoring.Team) (*Resolution, error)

	// ResolveTable resolves every team of a scored table and records
	// resolution metrics under the table's basis.
	ResolveTable(ctx context.Context, table *scoring.Table) (*Resolution, error)
}

// Resolution is the reduced team set for one basis.
type Resolution struct {
	// Teams holds one team per equivalence class in input order.
	Teams []scoring.Team
	// Duplicates maps a representative id to its absorbed ids, ascending.
	Duplicates map[int][]int
	// TieGroups counts distinct totals shared by two or more teams.
	TieGroups int
	// Collapsed counts teams removed as duplicates.
	Collapsed int
}

// Lineups returns id followed by every id it absorbed.
func (r *Resolution) Lineups(id int) []int {
	out := make([]int, 0, 1+len(r.Duplicates[id]))
	out = append(out, id)
	return append(out, r.Duplicates[id]...)
}

// entryKey is one counting entry in comparable form.
type entryKey struct {
	athlete int
	event   int
	rank    int
	score   int64
}

// signature is the sorted multiset of a team's counting entries. Arrays
// of comparable structs are valid map keys, so equal signatures collide
// structurally without any manual encoding.
type signature [scoring.EntriesPerTeam]entryKey

type resolver struct {
	scoreDecimals int
	entryDecimals int
	logger        logger.Logger
}

// NewResolver creates a Resolver with configuration options.
func NewResolver(opts ...Option) Resolver {
	r := &resolver{
		scoreDecimals: scoring.TeamScoreDecimals,
		entryDecimals: defaultEntryDecimals,
		logger:        logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *resolver) Resolve(ctx context.Context, teams []scoring.Team) (*Resolution, error) {
	groups := make(map[int64][]int)
	for i := range teams {
		k := scoring.ScoreKey(teams[i].Score, r.scoreDecimals)
		groups[k] = append(groups[k], i)
	}

	res := &Resolution{Duplicates: make(map[int][]int)}
	drop := make(map[int]bool)
	checked := 0
	for _, idx := range groups {
		if len(idx) < 2 {
			continue
		}
		res.TieGroups++
		slices.SortFunc(idx, func(a, b int) int { return cmp.Compare(teams[a].ID, teams[b].ID) })

		seen := make(map[signature]int, len(idx))
		for _, i := range idx {
			checked++
			if checked%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			sig := r.signature(&teams[i])
			rep, ok := seen[sig]
			if !ok {
				seen[sig] = i
				continue
			}
			repID := teams[rep].ID
			res.Duplicates[repID] = append(res.Duplicates[repID], teams[i].ID)
			drop[i] = true
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Collapsed = len(drop)
	if res.Collapsed == 0 {
		res.Teams = slices.Clone(teams)
		return res, nil
	}
	res.Teams = make([]scoring.Team, 0, len(teams)-res.Collapsed)
	for i := range teams {
		if !drop[i] {
			res.Teams = append(res.Teams, teams[i])
		}
	}
	return res, nil
}

func (r *resolver) ResolveTable(ctx context.Context, table *scoring.Table) (*Resolution, error) {
	basis := table.Basis.String()
	start := time.Now()
	res, err := r.Resolve(ctx, table.Teams)
	if err != nil {
		metrics.RecordPipelineError("resolve", "canceled")
		return nil, err
	}
	elapsed := time.Since(start)
	metrics.RecordResolveDuration(basis, float64(elapsed.Milliseconds()))
	metrics.UpdateResolution(basis, res.TieGroups, res.Collapsed, len(res.Teams))
	r.logger.Info(ctx, "teams resolved",
		logger.String("basis", basis),
		logger.Int("teams", len(table.Teams)),
		logger.Int("tieGroups", res.TieGroups),
		logger.Int("collapsed", res.Collapsed),
		logger.Duration("elapsed", elapsed),
	)
	return res, nil
}

func (r *resolver) signature(t *scoring.Team) signature {
	var sig signature
	i := 0
	for _, row := range t.Counting {
		for _, e := range row {
			sig[i] = entryKey{
				athlete: e.Athlete,
				event:   int(e.Event),
				rank:    e.Rank,
				score:   scoring.ScoreKey(e.Score, r.entryDecimals),
			}
			i++
		}
	}
	slices.SortFunc(sig[:], compareEntries)
	return sig
}

func compareEntries(a, b entryKey) int {
	return cmp.Or(
		cmp.Compare(a.athlete, b.athlete),
		cmp.Compare(a.event, b.event),
		cmp.Compare(a.rank, b.rank),
		cmp.Compare(a.score, b.score),
	)
}
