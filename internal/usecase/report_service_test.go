package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/report"
)

type stubReportRepo struct {
	lastMinMatches int
	lastLimit      int
	lastOffset     int
	averages       []report.PlayerAverage
	totals         []report.PlayerTotal
}

func (r *stubReportRepo) FactRows(_ context.Context, limit, offset int) ([]report.FactRow, error) {
	r.lastLimit = limit
	r.lastOffset = offset
	return nil, nil
}

func (r *stubReportRepo) TopPlayerAverages(_ context.Context, minMatches, limit int) ([]report.PlayerAverage, error) {
	r.lastMinMatches = minMatches
	r.lastLimit = limit
	return r.averages, nil
}

func (r *stubReportRepo) TopGoalScorers(_ context.Context, limit int) ([]report.PlayerTotal, error) {
	r.lastLimit = limit
	return r.totals, nil
}

func (r *stubReportRepo) TopAssistProviders(_ context.Context, limit int) ([]report.PlayerTotal, error) {
	r.lastLimit = limit
	return r.totals, nil
}

func (r *stubReportRepo) MostCardedPlayers(_ context.Context, limit int) ([]report.PlayerTotal, error) {
	r.lastLimit = limit
	return r.totals, nil
}

func (r *stubReportRepo) AverageByPosition(context.Context) ([]report.PositionAverage, error) {
	return nil, nil
}

func (r *stubReportRepo) ClubTotals(context.Context) ([]report.ClubTotal, error) {
	return nil, nil
}

func (r *stubReportRepo) GoalkeeperStats(_ context.Context, limit int) ([]report.GoalkeeperStat, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *stubReportRepo) HomeAwaySplits(context.Context) ([]report.HomeAwaySplit, error) {
	return nil, nil
}

func (r *stubReportRepo) RoundTotals(context.Context) ([]report.RoundTotal, error) {
	return nil, nil
}

func TestReportService_TopPlayerAveragesDefaults(t *testing.T) {
	t.Parallel()

	repo := &stubReportRepo{averages: []report.PlayerAverage{{Apelido: "Pedro", Matches: 12, AvgPoints: 7.1}}}
	svc := NewReportService(repo)

	got, err := svc.TopPlayerAverages(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, DefaultMinMatches, repo.lastMinMatches)
	require.Equal(t, defaultReportLimit, repo.lastLimit)
}

func TestReportService_LimitIsClamped(t *testing.T) {
	t.Parallel()

	repo := &stubReportRepo{}
	svc := NewReportService(repo)

	_, err := svc.TopGoalScorers(context.Background(), 5000)
	require.NoError(t, err)
	require.Equal(t, maxReportLimit, repo.lastLimit)
}

func TestReportService_NegativeLimitIsInvalid(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&stubReportRepo{})

	_, err := svc.MostCardedPlayers(context.Background(), -1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestReportService_NegativeOffsetIsInvalid(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&stubReportRepo{})

	_, err := svc.FactRows(context.Background(), 10, -1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}
