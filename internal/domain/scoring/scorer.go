package scoring

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/pkg/logger"
	"github.com/okian/gymteams/pkg/metrics"
)

// Default scorer configuration constants.
const (
	defaultMinShardSize = 4096
	cancelCheckInterval = 1024
)

// Scorer enumerates and scores every team for a roster and basis.
type Scorer struct {
	workers      int
	minShardSize int
	logger       logger.Logger
}

// NewScorer creates a Scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		workers:      runtime.NumCPU(),
		minShardSize: defaultMinShardSize,
		logger:       logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score builds the full team table for basis. Every combination of
// TeamSize roster positions is scored; team i in the result is the i-th
// combination in lexicographic order. The enumeration is split into
// contiguous shards that write disjoint ranges of the table, so the
// output does not depend on the worker count. On error or cancellation
// no table is returned.
func (s *Scorer) Score(ctx context.Context, r *model.Roster, basis model.Basis) (*Table, error) {
	n := r.Len()
	if n < TeamSize {
		metrics.RecordPipelineError("scoring", "insufficient_roster")
		return nil, &model.InsufficientRosterError{Size: n, Required: TeamSize}
	}

	start := time.Now()
	total := Binomial(n, TeamSize)
	teams := make([]Team, total)
	scores := r.ScoreMatrix(basis)

	shards := s.shardCount(total)
	size := (total + shards - 1) / shards
	metrics.UpdateEnumerationShards(shards)

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < total; lo += size {
		hi := min(lo+size, total)
		g.Go(func() error {
			return scoreRange(gctx, teams, lo, hi, n, scores)
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordPipelineError("scoring", "canceled")
		return nil, fmt.Errorf("scoring %s: %w", basis, err)
	}

	elapsed := time.Since(start)
	metrics.RecordTeamsScored(basis.String(), total)
	metrics.RecordEnumerationDuration(basis.String(), float64(elapsed.Milliseconds()))
	s.logger.Info(ctx, "teams scored",
		logger.String("basis", basis.String()),
		logger.Int("athletes", n),
		logger.Int("teams", total),
		logger.Int("shards", shards),
		logger.Duration("elapsed", elapsed),
	)
	return &Table{Basis: basis, Roster: r, Teams: teams}, nil
}

func (s *Scorer) shardCount(total int) int {
	shards := max(1, min(s.workers, total/s.minShardSize))
	return shards
}

// scoreRange scores combinations [lo, hi).
func scoreRange(ctx context.Context, teams []Team, lo, hi, n int, scores [][model.NumEvents]float64) error {
	var comb [TeamSize]int
	Unrank(lo, n, comb[:])
	for id := lo; id < hi; id++ {
		if (id-lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		ScoreTeam(&teams[id], id, comb, scores)
		Next(comb[:], n)
	}
	return nil
}

// ScoreTeam fills t with the score of the members in comb. On every event
// the five scores are ranked descending; equal scores keep member order.
func ScoreTeam(t *Team, id int, comb [TeamSize]int, scores [][model.NumEvents]float64) {
	t.ID = id
	t.Members = comb
	var total float64
	for _, e := range model.Events {
		order := comb
		// Insertion sort: stable and allocation free for five elements.
		for i := 1; i < TeamSize; i++ {
			for j := i; j > 0 && scores[order[j]][e] > scores[order[j-1]][e]; j-- {
				order[j], order[j-1] = order[j-1], order[j]
			}
		}
		for rank := 0; rank < Counted; rank++ {
			a := order[rank]
			v := scores[a][e]
			t.Counting[e][rank] = Entry{Athlete: a, Event: e, Rank: rank + 1, Score: v}
			total += v
		}
	}
	t.Score = Round(total, TeamScoreDecimals)
}
