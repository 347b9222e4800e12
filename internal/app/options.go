package service

import (
	"github.com/okian/gymteams/internal/adapters/repository"
	"github.com/okian/gymteams/internal/domain/model"
	"github.com/okian/gymteams/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of enumeration shards run in parallel.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithBases sets which scoring bases each run computes.
func WithBases(bases ...model.Basis) Option {
	return func(s *Service) {
		if len(bases) > 0 {
			s.bases = bases
		}
	}
}

// WithStrictJoin makes a run fail when an athlete is missing a day.
func WithStrictJoin(strict bool) Option {
	return func(s *Service) {
		s.strictJoin = strict
	}
}

// WithScoreRange sets the legal event score band.
func WithScoreRange(minScore, maxScore float64) Option {
	return func(s *Service) {
		if maxScore > minScore {
			s.scoreMin, s.scoreMax = minScore, maxScore
		}
	}
}

// WithOutput exports team tables to dir after every run. format is "csv"
// or "xlsx"; an empty dir disables export.
func WithOutput(dir, format string) Option {
	return func(s *Service) {
		s.outputDir = dir
		if format != "" {
			s.outputFormat = format
		}
	}
}

// WithStore sets the store results are published to.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
