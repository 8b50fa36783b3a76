package round

import "context"

// Repository exposes round warehouse operations.
type Repository interface {
	ReplaceAll(ctx context.Context, items []Round) error
	Count(ctx context.Context) (int, error)
}
