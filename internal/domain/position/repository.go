package position

import "context"

type Repository interface {
	ReplaceAll(ctx context.Context, items []Position) error
	Count(ctx context.Context) (int, error)
}
