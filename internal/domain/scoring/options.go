package scoring

import "github.com/okian/gymteams/pkg/logger"

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWorkers sets how many shards of the enumeration run in parallel.
func WithWorkers(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMinShardSize sets the smallest number of combinations per shard, so
// small rosters are not split across goroutines for nothing.
func WithMinShardSize(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.minShardSize = n
		}
	}
}

// WithLogger sets a custom logger for the scorer.
func WithLogger(l logger.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}
