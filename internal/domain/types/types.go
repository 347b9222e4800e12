// Package types contains the read shapes returned to API callers
package types

// AthleteEntry represents an athlete leaderboard row
type AthleteEntry struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Color string  `json:"color,omitempty"`
	Score float64 `json:"score"`
	Gap   float64 `json:"gap"`
}

// TeamEntry represents a ranked representative team
type TeamEntry struct {
	Rank    int      `json:"rank"`
	TeamID  int      `json:"team_id"`
	Score   float64  `json:"score"`
	Gap     float64  `json:"gap"`
	Members []string `json:"members"`
	Flag    string   `json:"flag,omitempty"`
	CouldBe []string `json:"could_be,omitempty"`
}

// CountingEntry is one performance counted toward a team score
type CountingEntry struct {
	Event string  `json:"event"`
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// TeamDetail is a team with its counted performances and equivalent lineups
type TeamDetail struct {
	TeamID   int             `json:"team_id"`
	Basis    string          `json:"basis"`
	Score    float64         `json:"score"`
	Members  []string        `json:"members"`
	Counting []CountingEntry `json:"counting"`
	// EventTotals sums the three counted scores per event
	EventTotals map[string]float64 `json:"event_totals"`
	Duplicates  []int              `json:"duplicates,omitempty"`
	// Representative is set when the team was collapsed into another lineup
	Representative *int `json:"representative,omitempty"`
}

// Movement is an athlete's all-around change between the two days
type Movement struct {
	Name  string  `json:"name"`
	Color string  `json:"color,omitempty"`
	Day1  float64 `json:"day1"`
	Day2  float64 `json:"day2"`
	Delta float64 `json:"delta"`
}

// BasisStats summarizes one computed basis
type BasisStats struct {
	Basis           string `json:"basis"`
	Teams           int    `json:"teams"`
	Representatives int    `json:"representatives"`
	TieGroups       int    `json:"tie_groups"`
	Collapsed       int    `json:"collapsed"`
}
