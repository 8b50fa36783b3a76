package usecase

import (
	"context"
	"fmt"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/report"
)

const (
	defaultReportLimit = 10
	maxReportLimit     = 100
	defaultFactLimit   = 100
	maxFactLimit       = 1000

	// A player needs more than three appearances before an average is
	// considered meaningful.
	DefaultMinMatches = 4
)

// ReportService answers the analytical questions over the cleaned season.
type ReportService struct {
	repo report.Repository
}

func NewReportService(repo report.Repository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) FactRows(ctx context.Context, limit, offset int) ([]report.FactRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.FactRows")
	defer span.End()

	limit, err := normalizeLimit(limit, defaultFactLimit, maxFactLimit)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must be >= 0", ErrInvalidInput)
	}

	return s.repo.FactRows(ctx, limit, offset)
}

func (s *ReportService) TopPlayerAverages(ctx context.Context, minMatches, limit int) ([]report.PlayerAverage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.TopPlayerAverages")
	defer span.End()

	if minMatches <= 0 {
		minMatches = DefaultMinMatches
	}
	limit, err := normalizeLimit(limit, defaultReportLimit, maxReportLimit)
	if err != nil {
		return nil, err
	}

	return s.repo.TopPlayerAverages(ctx, minMatches, limit)
}

func (s *ReportService) TopGoalScorers(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.TopGoalScorers")
	defer span.End()

	limit, err := normalizeLimit(limit, defaultReportLimit, maxReportLimit)
	if err != nil {
		return nil, err
	}

	return s.repo.TopGoalScorers(ctx, limit)
}

func (s *ReportService) TopAssistProviders(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.TopAssistProviders")
	defer span.End()

	limit, err := normalizeLimit(limit, defaultReportLimit, maxReportLimit)
	if err != nil {
		return nil, err
	}

	return s.repo.TopAssistProviders(ctx, limit)
}

func (s *ReportService) MostCardedPlayers(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.MostCardedPlayers")
	defer span.End()

	limit, err := normalizeLimit(limit, defaultReportLimit, maxReportLimit)
	if err != nil {
		return nil, err
	}

	return s.repo.MostCardedPlayers(ctx, limit)
}

func (s *ReportService) AverageByPosition(ctx context.Context) ([]report.PositionAverage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.AverageByPosition")
	defer span.End()

	return s.repo.AverageByPosition(ctx)
}

func (s *ReportService) ClubTotals(ctx context.Context) ([]report.ClubTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ClubTotals")
	defer span.End()

	return s.repo.ClubTotals(ctx)
}

func (s *ReportService) GoalkeeperStats(ctx context.Context, limit int) ([]report.GoalkeeperStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.GoalkeeperStats")
	defer span.End()

	limit, err := normalizeLimit(limit, defaultReportLimit, maxReportLimit)
	if err != nil {
		return nil, err
	}

	return s.repo.GoalkeeperStats(ctx, limit)
}

func (s *ReportService) HomeAwaySplits(ctx context.Context) ([]report.HomeAwaySplit, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.HomeAwaySplits")
	defer span.End()

	return s.repo.HomeAwaySplits(ctx)
}

func (s *ReportService) RoundTotals(ctx context.Context) ([]report.RoundTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.RoundTotals")
	defer span.End()

	return s.repo.RoundTotals(ctx)
}

func normalizeLimit(limit, fallback, max int) (int, error) {
	if limit < 0 {
		return 0, fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	}
	if limit == 0 {
		return fallback, nil
	}
	if limit > max {
		return max, nil
	}
	return limit, nil
}
