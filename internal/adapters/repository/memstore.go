package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gymteams/internal/domain/dedupe"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/scoring"
	"github.com/okian/gymteams/pkg/logger"
)

// Snapshot is the immutable result of one basis computation.
type Snapshot struct {
	RunID      string
	Basis      model.Basis
	CreatedAt  time.Time
	Table      *scoring.Table
	Resolution *dedupe.Resolution

	// Ranked holds representatives sorted by score desc, id asc.
	Ranked []Entry
	// rankByTeam maps a representative id to its rank.
	rankByTeam map[int]int
	// repOf maps an absorbed id to its representative.
	repOf map[int]int
}

// NewSnapshot ranks the resolved representatives of table.
func NewSnapshot(runID string, table *scoring.Table, res *dedupe.Resolution) *Snapshot {
	ranked := make([]Entry, len(res.Teams))
	for i := range res.Teams {
		ranked[i] = Entry{TeamID: res.Teams[i].ID, Score: res.Teams[i].Score}
	}
	sortEntries(ranked)
	assignRanksWithTies(ranked)

	rankByTeam := make(map[int]int, len(ranked))
	for _, e := range ranked {
		rankByTeam[e.TeamID] = e.Rank
	}
	repOf := make(map[int]int, res.Collapsed)
	for rep, dups := range res.Duplicates {
		for _, d := range dups {
			repOf[d] = rep
		}
	}
	return &Snapshot{
		RunID:      runID,
		Basis:      table.Basis,
		Table:      table,
		Resolution: res,
		Ranked:     ranked,
		rankByTeam: rankByTeam,
		repOf:      repOf,
	}
}

// MemoryStore keeps one snapshot per basis in memory. Readers never block:
// the basis map is replaced wholesale on every publish.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots atomic.Pointer[map[model.Basis]*Snapshot]
	now       func() time.Time
	logger    logger.Logger
}

// NewMemoryStore constructs an empty store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		now:    time.Now,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := make(map[model.Basis]*Snapshot)
	s.snapshots.Store(&empty)
	return s
}

// Publish implements Store.Publish.
func (s *MemoryStore) Publish(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.Table == nil || snap.Resolution == nil {
		return ErrIncomplete
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = s.now()
	}
	cur := *s.snapshots.Load()
	next := make(map[model.Basis]*Snapshot, len(cur)+1)
	for b, v := range cur {
		next[b] = v
	}
	next[snap.Basis] = snap
	s.snapshots.Store(&next)

	s.logger.Info(ctx, "snapshot published",
		logger.String("basis", snap.Basis.String()),
		logger.String("runID", snap.RunID),
		logger.Int("representatives", len(snap.Ranked)))
	return nil
}

// Snapshot implements Store.Snapshot.
func (s *MemoryStore) Snapshot(_ context.Context, basis model.Basis) (*Snapshot, error) {
	snap, ok := (*s.snapshots.Load())[basis]
	if !ok {
		return nil, fmt.Errorf("%s: %w", basis, ErrNoSnapshot)
	}
	return snap, nil
}

// TopN implements Store.TopN.
func (s *MemoryStore) TopN(ctx context.Context, basis model.Basis, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	snap, err := s.Snapshot(ctx, basis)
	if err != nil {
		return nil, err
	}
	n = min(n, len(snap.Ranked))
	return slices.Clone(snap.Ranked[:n]), nil
}

// Team implements Store.Team.
func (s *MemoryStore) Team(ctx context.Context, basis model.Basis, id int) (TeamView, error) {
	snap, err := s.Snapshot(ctx, basis)
	if err != nil {
		return TeamView{}, err
	}
	if _, ok := snap.Table.Team(id); !ok {
		return TeamView{}, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}
	rep := id
	if r, ok := snap.repOf[id]; ok {
		rep = r
	}
	return TeamView{
		TeamID:         id,
		Representative: rep,
		Rank:           snap.rankByTeam[rep],
		Duplicates:     slices.Clone(snap.Resolution.Duplicates[rep]),
	}, nil
}

// Bases implements Store.Bases.
func (s *MemoryStore) Bases(_ context.Context) []model.Basis {
	cur := *s.snapshots.Load()
	out := make([]model.Basis, 0, len(cur))
	for b := range cur {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// sortEntries sorts entries by score (descending) and team id (ascending).
func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.TeamID, b.TeamID))
	})
}

// assignRanksWithTies assigns consecutive ranks; teams with the same
// score share a rank.
func assignRanksWithTies(entries []Entry) {
	currentRank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			currentRank++
		}
		entries[i].Rank = currentRank
	}
}
