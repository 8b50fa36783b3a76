package report

import "context"

// Repository exposes read-only analytical queries over the cleaned warehouse.
type Repository interface {
	FactRows(ctx context.Context, limit, offset int) ([]FactRow, error)
	TopPlayerAverages(ctx context.Context, minMatches, limit int) ([]PlayerAverage, error)
	TopGoalScorers(ctx context.Context, limit int) ([]PlayerTotal, error)
	TopAssistProviders(ctx context.Context, limit int) ([]PlayerTotal, error)
	MostCardedPlayers(ctx context.Context, limit int) ([]PlayerTotal, error)
	AverageByPosition(ctx context.Context) ([]PositionAverage, error)
	ClubTotals(ctx context.Context) ([]ClubTotal, error)
	GoalkeeperStats(ctx context.Context, limit int) ([]GoalkeeperStat, error)
	HomeAwaySplits(ctx context.Context) ([]HomeAwaySplit, error)
	RoundTotals(ctx context.Context) ([]RoundTotal, error)
}
