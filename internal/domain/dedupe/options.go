package dedupe

import "github.com/okian/gymteams/pkg/logger"

// Option applies a configuration option to the resolver.
type Option func(*resolver)

// WithScoreDecimals sets the precision at which team totals are compared.
// It must match the precision totals were rounded to when scored.
func WithScoreDecimals(d int) Option {
	return func(r *resolver) {
		if d >= 0 {
			r.scoreDecimals = d
		}
	}
}

// WithEntryDecimals sets the precision at which individual counting
// scores are compared when building signatures.
func WithEntryDecimals(d int) Option {
	return func(r *resolver) {
		if d >= 0 {
			r.entryDecimals = d
		}
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
