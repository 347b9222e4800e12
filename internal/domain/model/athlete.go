package model

// DayResult is one athlete's row from a single competition day.
type DayResult struct {
	Name   string
	Color  string
	Scores [NumEvents]float64
}

// AllAround returns the sum of the four event scores.
func (d DayResult) AllAround() float64 {
	return sum(d.Scores)
}

// Athlete merges both competition days for one gymnast.
type Athlete struct {
	// ID is the athlete's position in the roster (0..N-1). It is an
	// encoding for fast comparisons, not a ranking.
	ID    int
	Name  string
	Color string

	Day1 [NumEvents]float64
	Day2 [NumEvents]float64
	Avg  [NumEvents]float64
}

// Scores returns the event scores for the given basis.
func (a *Athlete) Scores(b Basis) [NumEvents]float64 {
	switch b {
	case Day1:
		return a.Day1
	case Day2:
		return a.Day2
	default:
		return a.Avg
	}
}

// Score returns a single event score (or the all-around) for the given basis.
func (a *Athlete) Score(b Basis, e Event) float64 {
	if e == AllAround {
		return a.AllAround(b)
	}
	s := a.Scores(b)
	return s[e]
}

// AllAround returns the all-around total for the given basis.
func (a *Athlete) AllAround(b Basis) float64 {
	return sum(a.Scores(b))
}

func sum(s [NumEvents]float64) float64 {
	var t float64
	for _, v := range s {
		t += v
	}
	return t
}
