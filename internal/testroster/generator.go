// Package testroster generates synthetic two-day rosters for tests,
// benchmarks and the gen-roster tool.
package testroster

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/gymteams/internal/domain/model"
)

// Score bands per performer tier.
const (
	eliteMin    = 14.0
	eliteRange  = 1.6
	strongMin   = 13.2
	strongRange = 1.2
	solidMin    = 12.4
	solidRange  = 1.2
	weakMin     = 11.0
	weakRange   = 1.6
	// dayDrift bounds the day-to-day change of one event score.
	dayDrift = 0.6
	// DefaultStep mimics judged scores with three decimals.
	DefaultStep = 0.001
)

// Performer tiers.
const (
	tierElite = iota
	tierStrong
	tierSolid
	tierWeak
	numTiers
)

var colors = []string{ //nolint:gochecknoglobals // display palette
	"tab:blue", "tab:orange", "tab:green", "tab:red", "tab:purple",
	"tab:brown", "tab:pink", "tab:gray", "tab:olive", "tab:cyan",
}

// Generate returns day1 and day2 results for n athletes. The same seed
// always yields the same rosters. step quantizes every score; zero or
// negative means DefaultStep.
func Generate(n int, seed uint64, step float64) ([]model.DayResult, []model.DayResult) {
	if step <= 0 {
		step = DefaultStep
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	day1 := make([]model.DayResult, n)
	day2 := make([]model.DayResult, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Athlete %02d", i+1)
		color := colors[i%len(colors)]
		lo, span := band(rng.IntN(numTiers))
		day1[i] = model.DayResult{Name: name, Color: color}
		day2[i] = model.DayResult{Name: name, Color: color}
		for _, e := range model.Events {
			base := lo + rng.Float64()*span
			day1[i].Scores[e] = quantize(base, step)
			day2[i].Scores[e] = quantize(base+(rng.Float64()*2-1)*dayDrift, step)
		}
	}
	return day1, day2
}

// Roster builds a merged roster directly, skipping the builder's checks.
// Athletes keep generation order.
func Roster(n int, seed uint64, step float64) *model.Roster {
	day1, day2 := Generate(n, seed, step)
	athletes := make([]model.Athlete, n)
	for i := range day1 {
		a := model.Athlete{Name: day1[i].Name, Color: day1[i].Color, Day1: day1[i].Scores, Day2: day2[i].Scores}
		for _, e := range model.Events {
			a.Avg[e] = (a.Day1[e] + a.Day2[e]) / 2
		}
		athletes[i] = a
	}
	return model.NewRoster(athletes)
}

func band(tier int) (float64, float64) {
	switch tier {
	case tierElite:
		return eliteMin, eliteRange
	case tierStrong:
		return strongMin, strongRange
	case tierSolid:
		return solidMin, solidRange
	default:
		return weakMin, weakRange
	}
}

func quantize(v, step float64) float64 {
	q := math.Round(v/step) * step
	// Trim float noise left by the multiplication.
	return math.Round(q*1000) / 1000
}
