package roster

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/pkg/logger"
	"github.com/okian/gymteams/pkg/metrics"
)

// Default score band. Women's artistic scores never leave it.
const (
	defaultMinScore = 0
	defaultMaxScore = 20
)

// Day labels used in errors.
const (
	day1Label = "day1"
	day2Label = "day2"
)

// Builder joins day results into a Roster.
type Builder struct {
	strict   bool
	minScore float64
	maxScore float64
	logger   logger.Logger
}

// NewBuilder creates a Builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		minScore: defaultMinScore,
		maxScore: defaultMaxScore,
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates both days, inner-joins them on athlete name and returns
// the roster ordered by descending all-around average. Exact ties keep
// day1 input order. Inputs are not modified.
func (b *Builder) Build(ctx context.Context, day1, day2 []model.DayResult) (*model.Roster, error) {
	byName1, err := b.index(day1, day1Label)
	if err != nil {
		metrics.RecordRosterBuildError()
		return nil, err
	}
	byName2, err := b.index(day2, day2Label)
	if err != nil {
		metrics.RecordRosterBuildError()
		return nil, err
	}

	athletes := make([]model.Athlete, 0, len(day1))
	excluded := 0
	for _, r1 := range day1 {
		i2, ok := byName2[r1.Name]
		if !ok {
			if b.strict {
				metrics.RecordRosterBuildError()
				return nil, &model.MissingAthleteError{Name: r1.Name, Day: day2Label}
			}
			excluded++
			b.logger.Debug(ctx, "excluding athlete without day2 results", logger.String("athlete", r1.Name))
			continue
		}
		athletes = append(athletes, merge(r1, day2[i2]))
	}
	for _, r2 := range day2 {
		if _, ok := byName1[r2.Name]; ok {
			continue
		}
		if b.strict {
			metrics.RecordRosterBuildError()
			return nil, &model.MissingAthleteError{Name: r2.Name, Day: day1Label}
		}
		excluded++
		b.logger.Debug(ctx, "excluding athlete without day1 results", logger.String("athlete", r2.Name))
	}

	slices.SortStableFunc(athletes, func(a, c model.Athlete) int {
		aa, ca := a.AllAround(model.Average), c.AllAround(model.Average)
		switch {
		case aa > ca:
			return -1
		case aa < ca:
			return 1
		default:
			return 0
		}
	})

	r := model.NewRoster(athletes)
	metrics.UpdateRosterSize(r.Len())
	metrics.RecordAthletesExcluded(excluded)
	b.logger.Info(ctx, "roster built",
		logger.Int("athletes", r.Len()),
		logger.Int("excluded", excluded),
	)
	return r, nil
}

// index validates one day's rows and maps names to row positions.
func (b *Builder) index(rows []model.DayResult, day string) (map[string]int, error) {
	out := make(map[string]int, len(rows))
	for i, r := range rows {
		if _, dup := out[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q on %s", model.ErrDuplicateAthlete, r.Name, day)
		}
		for _, e := range model.Events {
			if err := b.checkScore(r.Name, e, day, r.Scores[e]); err != nil {
				return nil, err
			}
		}
		out[r.Name] = i
	}
	return out, nil
}

func (b *Builder) checkScore(name string, e model.Event, day string, v float64) error {
	raw := strconv.FormatFloat(v, 'f', -1, 64)
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &model.MalformedScoreError{Athlete: name, Event: e, Day: day, Raw: raw, Reason: "not a finite number"}
	case v < b.minScore || v > b.maxScore:
		return &model.MalformedScoreError{
			Athlete: name, Event: e, Day: day, Raw: raw,
			Reason: fmt.Sprintf("outside [%g, %g]", b.minScore, b.maxScore),
		}
	}
	return nil
}

// merge combines both days. Color comes from day1 unless it is blank.
func merge(r1, r2 model.DayResult) model.Athlete {
	a := model.Athlete{
		Name:  r1.Name,
		Color: r1.Color,
		Day1:  r1.Scores,
		Day2:  r2.Scores,
	}
	if a.Color == "" {
		a.Color = r2.Color
	}
	for _, e := range model.Events {
		a.Avg[e] = (r1.Scores[e] + r2.Scores[e]) / 2
	}
	return a
}
