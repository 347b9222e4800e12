package model

// Roster is the ordered, immutable set of eligible athletes.
type Roster struct {
	athletes []Athlete
	lookup   *Lookup
}

// NewRoster wraps athletes in roster order. IDs are reassigned to match
// positions so that ID i always refers to athletes[i].
func NewRoster(athletes []Athlete) *Roster {
	own := make([]Athlete, len(athletes))
	copy(own, athletes)
	for i := range own {
		own[i].ID = i
	}
	return &Roster{athletes: own, lookup: newLookup(own)}
}

// Len returns the number of athletes.
func (r *Roster) Len() int { return len(r.athletes) }

// At returns the athlete at roster position i.
func (r *Roster) At(i int) *Athlete { return &r.athletes[i] }

// Athletes returns a copy of the roster in order.
func (r *Roster) Athletes() []Athlete {
	out := make([]Athlete, len(r.athletes))
	copy(out, r.athletes)
	return out
}

// Lookup returns the name/color/id table built from this roster.
func (r *Roster) Lookup() *Lookup { return r.lookup }

// ScoreMatrix returns per-athlete event scores for a basis, indexed by ID.
func (r *Roster) ScoreMatrix(b Basis) [][NumEvents]float64 {
	m := make([][NumEvents]float64, len(r.athletes))
	for i := range r.athletes {
		m[i] = r.athletes[i].Scores(b)
	}
	return m
}

// Lookup maps between athlete names, ids and display colors.
// It is built once per roster and never mutated.
type Lookup struct {
	ids    map[string]int
	names  []string
	colors []string
}

func newLookup(athletes []Athlete) *Lookup {
	l := &Lookup{
		ids:    make(map[string]int, len(athletes)),
		names:  make([]string, len(athletes)),
		colors: make([]string, len(athletes)),
	}
	for i, a := range athletes {
		l.ids[a.Name] = i
		l.names[i] = a.Name
		l.colors[i] = a.Color
	}
	return l
}

// ID returns the id for a name.
func (l *Lookup) ID(name string) (int, bool) {
	id, ok := l.ids[name]
	return id, ok
}

// Name returns the athlete name for id, or "" when out of range.
func (l *Lookup) Name(id int) string {
	if id < 0 || id >= len(l.names) {
		return ""
	}
	return l.names[id]
}

// Color returns the display color for id, or "" when out of range.
func (l *Lookup) Color(id int) string {
	if id < 0 || id >= len(l.colors) {
		return ""
	}
	return l.colors[id]
}

// Len returns the number of athletes in the table.
func (l *Lookup) Len() int { return len(l.names) }
