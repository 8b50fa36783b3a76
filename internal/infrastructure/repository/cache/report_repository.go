package cache

import (
	"context"
	"strconv"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/report"
	basecache "github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/cache"
)

// ReportRepository caches the analytical queries in front of the database
// repository. The warehouse only changes when a pipeline run finishes, so a
// short TTL keeps the reports API cheap without serving stale data for long.
type ReportRepository struct {
	next  report.Repository
	cache *basecache.Store
}

func NewReportRepository(next report.Repository, cache *basecache.Store) *ReportRepository {
	return &ReportRepository{next: next, cache: cache}
}

func (r *ReportRepository) FactRows(ctx context.Context, limit, offset int) ([]report.FactRow, error) {
	key := "report:fact:" + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
	return loadSlice(ctx, r.cache, key, func(ctx context.Context) ([]report.FactRow, error) {
		return r.next.FactRows(ctx, limit, offset)
	})
}

func (r *ReportRepository) TopPlayerAverages(ctx context.Context, minMatches, limit int) ([]report.PlayerAverage, error) {
	key := "report:player-averages:" + strconv.Itoa(minMatches) + ":" + strconv.Itoa(limit)
	return loadSlice(ctx, r.cache, key, func(ctx context.Context) ([]report.PlayerAverage, error) {
		return r.next.TopPlayerAverages(ctx, minMatches, limit)
	})
}

func (r *ReportRepository) TopGoalScorers(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	key := "report:goals:" + strconv.Itoa(limit)
	return loadSlice(ctx, r.cache, key, func(ctx context.Context) ([]report.PlayerTotal, error) {
		return r.next.TopGoalScorers(ctx, limit)
	})
}

func (r *ReportRepository) TopAssistProviders(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	key := "report:assists:" + strconv.Itoa(limit)
	return loadSlice(ctx, r.cache, key, func(ctx context.Context) ([]report.PlayerTotal, error) {
		return r.next.TopAssistProviders(ctx, limit)
	})
}

func (r *ReportRepository) MostCardedPlayers(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	key := "report:cards:" + strconv.Itoa(limit)
	return loadSlice(ctx, r.cache, key, func(ctx context.Context) ([]report.PlayerTotal, error) {
		return r.next.MostCardedPlayers(ctx, limit)
	})
}

func (r *ReportRepository) AverageByPosition(ctx context.Context) ([]report.PositionAverage, error) {
	return loadSlice(ctx, r.cache, "report:positions", func(ctx context.Context) ([]report.PositionAverage, error) {
		return r.next.AverageByPosition(ctx)
	})
}

func (r *ReportRepository) ClubTotals(ctx context.Context) ([]report.ClubTotal, error) {
	return loadSlice(ctx, r.cache, "report:clubs", func(ctx context.Context) ([]report.ClubTotal, error) {
		return r.next.ClubTotals(ctx)
	})
}

func (r *ReportRepository) GoalkeeperStats(ctx context.Context, limit int) ([]report.GoalkeeperStat, error) {
	key := "report:goalkeepers:" + strconv.Itoa(limit)
	return loadSlice(ctx, r.cache, key, func(ctx context.Context) ([]report.GoalkeeperStat, error) {
		return r.next.GoalkeeperStats(ctx, limit)
	})
}

func (r *ReportRepository) HomeAwaySplits(ctx context.Context) ([]report.HomeAwaySplit, error) {
	return loadSlice(ctx, r.cache, "report:home-away", func(ctx context.Context) ([]report.HomeAwaySplit, error) {
		return r.next.HomeAwaySplits(ctx)
	})
}

func (r *ReportRepository) RoundTotals(ctx context.Context) ([]report.RoundTotal, error) {
	return loadSlice(ctx, r.cache, "report:rounds", func(ctx context.Context) ([]report.RoundTotal, error) {
		return r.next.RoundTotals(ctx)
	})
}

// InvalidateAll drops every cached report so the next request hits the
// database again. The ETL runs as a separate process, so the API relies on
// the store TTL for routine freshness; this exists for operational resets.
func (r *ReportRepository) InvalidateAll(ctx context.Context) {
	if r.cache == nil {
		return
	}
	r.cache.DeletePrefix(ctx, "report:")
}

func loadSlice[T any](ctx context.Context, store *basecache.Store, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	v, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]T(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]T)
	return append([]T(nil), items...), nil
}
