package testroster

import "time"

// Config holds configuration for roster generation.
type Config struct {
	Athletes  int           // Number of athletes to generate
	Seed      uint64        // Seed for the deterministic generator
	Step      float64       // Score granularity; coarse steps produce ties
	OutputDir string        // Directory receiving day1.csv and day2.csv
	Workbook  bool          // Also write a Prelims/Finals workbook
	BaseURL   string        // Optional running service to query after generation
	TopN      int           // Number of top teams to fetch from the service
	Timeout   time.Duration // HTTP request timeout
	LogFile   string        // Log file for tool output
	Verbose   bool          // Enable verbose logging
}

// Stats holds generation statistics.
type Stats struct {
	AthletesGenerated int
	RowsWritten       int
	TeamsRetrieved    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// TeamEntry is the subset of a /teams response the tool checks.
type TeamEntry struct {
	Rank    int      `json:"rank"`
	TeamID  int      `json:"team_id"`
	Score   float64  `json:"score"`
	Members []string `json:"members"`
}
