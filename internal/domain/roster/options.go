// Package roster merges two competition days into an ordered roster.
package roster

import "github.com/okian/gymteams/pkg/logger"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithStrictJoin makes Build fail with a MissingAthleteError when an athlete
// has results for only one day. By default such athletes are excluded.
func WithStrictJoin(strict bool) Option {
	return func(b *Builder) {
		b.strict = strict
	}
}

// WithScoreRange sets the inclusive band of legal event scores.
func WithScoreRange(minScore, maxScore float64) Option {
	return func(b *Builder) {
		if maxScore > minScore {
			b.minScore = minScore
			b.maxScore = maxScore
		}
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}
