package match

import "context"

type Repository interface {
	ReplaceAll(ctx context.Context, items []Match) error
	Count(ctx context.Context) (int, error)
	CountByRound(ctx context.Context) (map[int64]int, error)
}
