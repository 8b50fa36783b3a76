package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/report"
	basecache "github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/cache"
)

type countingReportRepo struct {
	clubCalls int
	avgCalls  int
}

func (r *countingReportRepo) FactRows(context.Context, int, int) ([]report.FactRow, error) {
	return nil, nil
}

func (r *countingReportRepo) TopPlayerAverages(context.Context, int, int) ([]report.PlayerAverage, error) {
	r.avgCalls++
	return []report.PlayerAverage{{Apelido: "Hulk", AvgPoints: 9.2}}, nil
}

func (r *countingReportRepo) TopGoalScorers(context.Context, int) ([]report.PlayerTotal, error) {
	return nil, nil
}

func (r *countingReportRepo) TopAssistProviders(context.Context, int) ([]report.PlayerTotal, error) {
	return nil, nil
}

func (r *countingReportRepo) MostCardedPlayers(context.Context, int) ([]report.PlayerTotal, error) {
	return nil, nil
}

func (r *countingReportRepo) AverageByPosition(context.Context) ([]report.PositionAverage, error) {
	return nil, nil
}

func (r *countingReportRepo) ClubTotals(context.Context) ([]report.ClubTotal, error) {
	r.clubCalls++
	return []report.ClubTotal{{Club: "Flamengo", TotalPoints: 1804.3}}, nil
}

func (r *countingReportRepo) GoalkeeperStats(context.Context, int) ([]report.GoalkeeperStat, error) {
	return nil, nil
}

func (r *countingReportRepo) HomeAwaySplits(context.Context) ([]report.HomeAwaySplit, error) {
	return nil, nil
}

func (r *countingReportRepo) RoundTotals(context.Context) ([]report.RoundTotal, error) {
	return nil, nil
}

func TestReportRepository_ServesSecondReadFromCache(t *testing.T) {
	ctx := context.Background()
	next := &countingReportRepo{}
	repo := NewReportRepository(next, basecache.NewStore(time.Minute))

	first, err := repo.ClubTotals(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := repo.ClubTotals(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, next.clubCalls)
}

func TestReportRepository_KeysIncludeQueryArguments(t *testing.T) {
	ctx := context.Background()
	next := &countingReportRepo{}
	repo := NewReportRepository(next, basecache.NewStore(time.Minute))

	_, err := repo.TopPlayerAverages(ctx, 4, 10)
	require.NoError(t, err)
	_, err = repo.TopPlayerAverages(ctx, 10, 10)
	require.NoError(t, err)
	require.Equal(t, 2, next.avgCalls)
}

func TestReportRepository_InvalidateAllDropsCachedReports(t *testing.T) {
	ctx := context.Background()
	next := &countingReportRepo{}
	repo := NewReportRepository(next, basecache.NewStore(time.Minute))

	_, err := repo.ClubTotals(ctx)
	require.NoError(t, err)

	repo.InvalidateAll(ctx)

	_, err = repo.ClubTotals(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, next.clubCalls)
}
