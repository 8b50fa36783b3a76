package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/report"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/logging"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/usecase"
)

type fixedReportRepo struct {
	lastLimit      int
	lastMinMatches int
}

func (r *fixedReportRepo) FactRows(_ context.Context, limit, offset int) ([]report.FactRow, error) {
	r.lastLimit = limit
	return []report.FactRow{{Apelido: "Pedro", Points: 8.46, Played: true, Club: "Flamengo", RoundID: 1}}, nil
}

func (r *fixedReportRepo) TopPlayerAverages(_ context.Context, minMatches, limit int) ([]report.PlayerAverage, error) {
	r.lastMinMatches = minMatches
	r.lastLimit = limit
	return []report.PlayerAverage{{Apelido: "Hulk", Club: "Atlético-MG", Position: "ata", Matches: 12, AvgPoints: 9.1}}, nil
}

func (r *fixedReportRepo) TopGoalScorers(_ context.Context, limit int) ([]report.PlayerTotal, error) {
	r.lastLimit = limit
	return []report.PlayerTotal{{Apelido: "Hulk", Club: "Atlético-MG", Total: 11}}, nil
}

func (r *fixedReportRepo) TopAssistProviders(_ context.Context, limit int) ([]report.PlayerTotal, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *fixedReportRepo) MostCardedPlayers(_ context.Context, limit int) ([]report.PlayerTotal, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *fixedReportRepo) AverageByPosition(context.Context) ([]report.PositionAverage, error) {
	return []report.PositionAverage{{Position: "gol", Players: 24, AvgPoints: 4.2}}, nil
}

func (r *fixedReportRepo) ClubTotals(context.Context) ([]report.ClubTotal, error) {
	return []report.ClubTotal{{Club: "Flamengo", AvgPoints: 5.1, TotalPoints: 1804.3}}, nil
}

func (r *fixedReportRepo) GoalkeeperStats(_ context.Context, limit int) ([]report.GoalkeeperStat, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *fixedReportRepo) HomeAwaySplits(context.Context) ([]report.HomeAwaySplit, error) {
	return nil, nil
}

func (r *fixedReportRepo) RoundTotals(context.Context) ([]report.RoundTotal, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *fixedReportRepo) {
	t.Helper()

	repo := &fixedReportRepo{}
	handler := NewHandler(usecase.NewReportService(repo), logging.NewNop())
	return NewRouter(handler, logging.NewNop(), nil), repo
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_ClubTotalsEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/clubs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		APIVersion string         `json:"apiVersion"`
		Data       []clubTotalDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.APIVersion != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %q", body.APIVersion)
	}
	if len(body.Data) != 1 || body.Data[0].Club != "Flamengo" {
		t.Fatalf("unexpected data: %+v", body.Data)
	}
}

func TestRouter_PlayerAveragesPassesQueryParams(t *testing.T) {
	router, repo := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/player-averages?min_matches=10&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if repo.lastMinMatches != 10 {
		t.Fatalf("expected min_matches=10, got %d", repo.lastMinMatches)
	}
	if repo.lastLimit != 5 {
		t.Fatalf("expected limit=5, got %d", repo.lastLimit)
	}
}

func TestRouter_RejectsNonNumericLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/goals?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_RejectsNegativeOffset(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/fact?offset=-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
