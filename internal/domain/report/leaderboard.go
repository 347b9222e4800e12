package report

import (
	"cmp"
	"slices"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/internal/domain/scoring"
)

// leaderboardDecimals is the precision athlete scores are ranked at.
const leaderboardDecimals = 3

// AthleteRow is one line of an athlete leaderboard.
type AthleteRow struct {
	Rank  int
	ID    int
	Name  string
	Color string
	Score float64
	// Gap is the distance to the leader's score; zero for the leader.
	Gap float64
}

// Leaderboard ranks athletes on one event (or the all-around) for a basis.
// Equal scores share a rank and the next distinct score takes the next
// rank. Ties are listed in roster order. n <= 0 returns every athlete.
func Leaderboard(r *model.Roster, basis model.Basis, event model.Event, n int) []AthleteRow {
	rows := make([]AthleteRow, r.Len())
	for i := range rows {
		a := r.At(i)
		rows[i] = AthleteRow{ID: a.ID, Name: a.Name, Color: a.Color, Score: a.Score(basis, event)}
	}
	slices.SortStableFunc(rows, func(a, b AthleteRow) int {
		return cmp.Compare(key(b.Score), key(a.Score))
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	assignRanks(len(rows), func(i int) int64 { return key(rows[i].Score) }, func(i, rank int) {
		rows[i].Rank = rank
		rows[i].Gap = scoring.Round(rows[i].Score-rows[0].Score, leaderboardDecimals)
	})
	return rows
}

// Movement is one athlete's all-around change between the two days.
type Movement struct {
	Name  string
	Color string
	Day1  float64
	Day2  float64
	Delta float64
}

// Movements returns day-over-day all-around totals for the n best athletes
// by average all-around, in that order.
func Movements(r *model.Roster, n int) []Movement {
	top := Leaderboard(r, model.Average, model.AllAround, n)
	out := make([]Movement, len(top))
	for i, row := range top {
		a := r.At(row.ID)
		d1, d2 := a.AllAround(model.Day1), a.AllAround(model.Day2)
		out[i] = Movement{
			Name:  a.Name,
			Color: a.Color,
			Day1:  d1,
			Day2:  d2,
			Delta: scoring.Round(d2-d1, leaderboardDecimals),
		}
	}
	return out
}

func key(score float64) int64 { return scoring.ScoreKey(score, leaderboardDecimals) }

// assignRanks gives sorted rows consecutive ranks where equal keys share
// the same rank.
func assignRanks(n int, keyAt func(int) int64, set func(i, rank int)) {
	rank := 0
	for i := 0; i < n; i++ {
		if i == 0 || keyAt(i) != keyAt(i-1) {
			rank++
		}
		set(i, rank)
	}
}
