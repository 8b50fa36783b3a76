package club

import "context"

type Repository interface {
	ReplaceAll(ctx context.Context, items []Club) error
	// DeleteZeroScore removes clubs whose cumulative score across all scoring
	// rows is exactly zero and returns the number of purged clubs.
	DeleteZeroScore(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
}
