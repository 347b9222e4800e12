// Package repository holds computed team results for reading.
package repository

import (
	"context"

	"github.com/okian/gymteams/internal/domain/model"
)

// Entry represents a ranked representative team.
type Entry struct {
	Rank   int
	TeamID int
	Score  float64
}

// TeamView is one team as stored for a basis. A team that was collapsed
// into another lineup reports that lineup as Representative.
type TeamView struct {
	TeamID         int
	Representative int
	Rank           int
	Duplicates     []int
}

// Store provides read/write access to computed results.
type Store interface {
	// Publish replaces the snapshot for the snapshot's basis.
	Publish(ctx context.Context, snap *Snapshot) error

	// Snapshot returns the current snapshot for basis.
	// Returns ErrNoSnapshot if the basis was never published.
	Snapshot(ctx context.Context, basis model.Basis) (*Snapshot, error)

	// TopN returns the top-N representatives ordered by score desc.
	TopN(ctx context.Context, basis model.Basis, n int) ([]Entry, error)

	// Team returns one team by combination id.
	// Returns ErrNotFound if the id is outside the table.
	Team(ctx context.Context, basis model.Basis, id int) (TeamView, error)

	// Bases returns the published bases in Basis order.
	Bases(ctx context.Context) []model.Basis
}
