package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/club"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/match"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/position"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/round"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/scoring"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/logging"
)

type stubProvider struct {
	rounds         []ExternalRound
	clubs          []ExternalClub
	positions      []ExternalPosition
	matchesByRound map[int64][]ExternalMatch
	scoresByRound  map[int64][]ExternalScore
	missingRounds  map[int64]bool
	missingScores  map[int64]bool
}

func (p *stubProvider) FetchRounds(context.Context) ([]ExternalRound, []byte, error) {
	return p.rounds, []byte(`[]`), nil
}

func (p *stubProvider) FetchClubs(context.Context) ([]ExternalClub, []byte, error) {
	return p.clubs, []byte(`{}`), nil
}

func (p *stubProvider) FetchPositions(context.Context) ([]ExternalPosition, []byte, error) {
	return p.positions, []byte(`{}`), nil
}

func (p *stubProvider) FetchMatches(_ context.Context, roundID int64) ([]ExternalMatch, []byte, error) {
	if p.missingRounds[roundID] {
		return nil, nil, fmt.Errorf("%w: provider status=404", ErrNotFound)
	}
	return p.matchesByRound[roundID], []byte(`{"partidas":[]}`), nil
}

func (p *stubProvider) FetchScores(_ context.Context, roundID int64) ([]ExternalScore, []byte, error) {
	if p.missingRounds[roundID] || p.missingScores[roundID] {
		return nil, nil, fmt.Errorf("%w: provider status=404", ErrNotFound)
	}
	return p.scoresByRound[roundID], []byte(`{"atletas":{}}`), nil
}

type stubSnapshots struct {
	seasonWrites []string
	roundWrites  []string
	csvWrites    []string
	manifest     map[string][]int64
}

func (s *stubSnapshots) WriteSeasonJSON(resource string, _ []byte) error {
	s.seasonWrites = append(s.seasonWrites, resource)
	return nil
}

func (s *stubSnapshots) WriteRoundJSON(resource string, roundID int64, _ []byte) error {
	s.roundWrites = append(s.roundWrites, fmt.Sprintf("%s:%d", resource, roundID))
	return nil
}

func (s *stubSnapshots) WriteCSV(resource string, _ []string, _ [][]string) error {
	s.csvWrites = append(s.csvWrites, resource)
	return nil
}

func (s *stubSnapshots) WriteRunManifest(_ []string, rounds map[string][]int64) error {
	s.manifest = rounds
	return nil
}

type stubRoundRepo struct {
	stored []round.Round
}

func (r *stubRoundRepo) ReplaceAll(_ context.Context, items []round.Round) error {
	r.stored = items
	return nil
}

func (r *stubRoundRepo) Count(context.Context) (int, error) { return len(r.stored), nil }

type stubClubRepo struct {
	stored []club.Club
	purged int64
}

func (r *stubClubRepo) ReplaceAll(_ context.Context, items []club.Club) error {
	r.stored = items
	return nil
}

func (r *stubClubRepo) DeleteZeroScore(context.Context) (int64, error) { return r.purged, nil }

func (r *stubClubRepo) Count(context.Context) (int, error) { return len(r.stored), nil }

type stubPositionRepo struct {
	stored []position.Position
}

func (r *stubPositionRepo) ReplaceAll(_ context.Context, items []position.Position) error {
	r.stored = items
	return nil
}

func (r *stubPositionRepo) Count(context.Context) (int, error) { return len(r.stored), nil }

type stubMatchRepo struct {
	stored []match.Match
}

func (r *stubMatchRepo) ReplaceAll(_ context.Context, items []match.Match) error {
	r.stored = items
	return nil
}

func (r *stubMatchRepo) Count(context.Context) (int, error) { return len(r.stored), nil }

func (r *stubMatchRepo) CountByRound(context.Context) (map[int64]int, error) {
	out := make(map[int64]int)
	for _, item := range r.stored {
		out[item.RoundID]++
	}
	return out, nil
}

type stubScoringRepo struct {
	stored    []scoring.Score
	backfill  scoring.BackfillResult
	invalid   int64
	degenerat int64
}

func (r *stubScoringRepo) ReplaceAll(_ context.Context, items []scoring.Score) error {
	r.stored = items
	return nil
}

func (r *stubScoringRepo) BackfillMatchRefs(context.Context) (scoring.BackfillResult, error) {
	return r.backfill, nil
}

func (r *stubScoringRepo) DeleteInvalidMatchRows(context.Context) (int64, error) {
	return r.invalid, nil
}

func (r *stubScoringRepo) DeleteDegenerateRows(context.Context) (int64, error) {
	return r.degenerat, nil
}

func (r *stubScoringRepo) Count(context.Context) (int, error) { return len(r.stored), nil }

type stubNotifier struct {
	published []RunSummary
}

func (n *stubNotifier) PublishRunSummary(_ context.Context, summary RunSummary) error {
	n.published = append(n.published, summary)
	return nil
}

func newTestPipeline(provider *stubProvider, cfg PipelineConfig) (*PipelineService, *stubSnapshots, *stubMatchRepo, *stubScoringRepo, *stubNotifier) {
	snapshots := &stubSnapshots{}
	matchRepo := &stubMatchRepo{}
	scoringRepo := &stubScoringRepo{backfill: scoring.BackfillResult{Updated: 3}}
	notifier := &stubNotifier{}
	svc := NewPipelineService(
		provider,
		snapshots,
		&stubRoundRepo{},
		&stubClubRepo{},
		&stubPositionRepo{},
		matchRepo,
		scoringRepo,
		notifier,
		nil,
		cfg,
		logging.NewNop(),
	)
	return svc, snapshots, matchRepo, scoringRepo, notifier
}

func twoRoundProvider() *stubProvider {
	date := time.Date(2023, 4, 16, 16, 0, 0, 0, time.UTC)
	return &stubProvider{
		rounds: []ExternalRound{
			{ID: 1, Name: "Rodada 1", Start: date, End: date.Add(48 * time.Hour)},
			{ID: 2, Name: "Rodada 2", Start: date.AddDate(0, 0, 7), End: date.AddDate(0, 0, 9)},
		},
		clubs: []ExternalClub{
			{ID: 262, Name: "Flamengo", Abbrev: "FLA"},
			{ID: 263, Name: "Botafogo", Abbrev: "BOT"},
		},
		positions: []ExternalPosition{
			{ID: 1, Abbrev: "gol", Name: "Goleiro"},
			{ID: 5, Abbrev: "ata", Name: "Atacante"},
		},
		matchesByRound: map[int64][]ExternalMatch{
			1: {{ID: 301, HomeClubID: 262, AwayClubID: 263, Valid: true, RoundID: 1, Date: date}},
			2: {{ID: 302, HomeClubID: 263, AwayClubID: 262, Valid: true, RoundID: 2, Date: date.AddDate(0, 0, 7)}},
		},
		scoresByRound: map[int64][]ExternalScore{
			1: {{Apelido: "Pedro", Points: 8.46, PositionID: 5, ClubID: 262, Played: true, RoundID: 1, Scout: map[string]int{"G": 1}}},
			2: {{Apelido: "Pedro", Points: 3.2, PositionID: 5, ClubID: 262, Played: true, RoundID: 2}},
		},
		missingRounds: map[int64]bool{},
		missingScores: map[int64]bool{},
	}
}

func TestPipelineRun_LoadsAllStages(t *testing.T) {
	t.Parallel()

	svc, snapshots, matchRepo, scoringRepo, notifier := newTestPipeline(twoRoundProvider(), PipelineConfig{FirstRound: 1, LastRound: 2})

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}
	if summary.RoundsLoaded != 2 || summary.ClubsLoaded != 2 || summary.PositionsLoaded != 2 {
		t.Fatalf("unexpected reference counts: %+v", summary)
	}
	if summary.MatchesLoaded != 2 || summary.ScoresLoaded != 2 {
		t.Fatalf("unexpected round data counts: %+v", summary)
	}
	if summary.MatchRefsBackfilled != 3 {
		t.Fatalf("expected backfill count 3, got=%d", summary.MatchRefsBackfilled)
	}
	if len(matchRepo.stored) != 2 || len(scoringRepo.stored) != 2 {
		t.Fatalf("expected repositories loaded, got matches=%d scores=%d", len(matchRepo.stored), len(scoringRepo.stored))
	}
	if len(snapshots.seasonWrites) != 3 {
		t.Fatalf("expected 3 season snapshots, got=%v", snapshots.seasonWrites)
	}
	if len(snapshots.roundWrites) != 4 {
		t.Fatalf("expected 4 round snapshots, got=%v", snapshots.roundWrites)
	}
	if len(notifier.published) != 1 {
		t.Fatalf("expected one published summary, got=%d", len(notifier.published))
	}
}

func TestPipelineRun_SkipsUnplayedRounds(t *testing.T) {
	t.Parallel()

	provider := twoRoundProvider()
	provider.missingRounds[2] = true
	svc, snapshots, matchRepo, _, _ := newTestPipeline(provider, PipelineConfig{FirstRound: 1, LastRound: 2})

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.SkippedRounds) != 1 || summary.SkippedRounds[0] != 2 {
		t.Fatalf("unexpected skipped rounds: %v", summary.SkippedRounds)
	}
	if summary.MatchesLoaded != 1 {
		t.Fatalf("expected 1 match loaded, got=%d", summary.MatchesLoaded)
	}
	if len(matchRepo.stored) != 1 {
		t.Fatalf("expected 1 match stored, got=%d", len(matchRepo.stored))
	}
	if got := snapshots.manifest["partidas"]; len(got) != 1 || got[0] != 1 {
		t.Fatalf("unexpected manifest rounds: %v", got)
	}
}

func TestPipelineRun_KeepsMatchesWhenScoresNotPublished(t *testing.T) {
	t.Parallel()

	provider := twoRoundProvider()
	provider.missingScores[2] = true
	svc, snapshots, matchRepo, scoringRepo, _ := newTestPipeline(provider, PipelineConfig{FirstRound: 1, LastRound: 2})

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The round 2 fixture list exists even though its scores are not out
	// yet, so both matches load while the scores stop at round 1.
	if summary.MatchesLoaded != 2 || len(matchRepo.stored) != 2 {
		t.Fatalf("expected 2 matches loaded, got summary=%d stored=%d", summary.MatchesLoaded, len(matchRepo.stored))
	}
	if summary.ScoresLoaded != 1 || len(scoringRepo.stored) != 1 {
		t.Fatalf("expected 1 score loaded, got summary=%d stored=%d", summary.ScoresLoaded, len(scoringRepo.stored))
	}
	if len(summary.SkippedRounds) != 1 || summary.SkippedRounds[0] != 2 {
		t.Fatalf("unexpected skipped rounds: %v", summary.SkippedRounds)
	}
	if got := snapshots.manifest["partidas"]; len(got) != 2 {
		t.Fatalf("expected both rounds in the partidas manifest, got=%v", got)
	}
	if got := snapshots.manifest["pontuacao"]; len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only round 1 in the pontuacao manifest, got=%v", got)
	}
}

func TestPipelineRun_WarnsOnShortSeason(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newTestPipeline(twoRoundProvider(), PipelineConfig{FirstRound: 1, LastRound: 2})

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two rounds, two matches and two positions all fall short of a full
	// championship, plus two rounds with fewer than ten matches each.
	if len(summary.Warnings) == 0 {
		t.Fatal("expected verification warnings for a short season")
	}
}

func TestPipelineRun_AmbiguousBackfillBecomesWarning(t *testing.T) {
	t.Parallel()

	svc, _, _, scoringRepo, _ := newTestPipeline(twoRoundProvider(), PipelineConfig{FirstRound: 1, LastRound: 2})
	scoringRepo.backfill = scoring.BackfillResult{Updated: 2, Ambiguous: 1}

	summary, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.AmbiguousMatchPairs != 1 {
		t.Fatalf("expected 1 ambiguous pair, got=%d", summary.AmbiguousMatchPairs)
	}
	found := false
	for _, warning := range summary.Warnings {
		if warning == "1 round/club pairs matched more than one match, kept the most recent" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ambiguity warning, got=%v", summary.Warnings)
	}
}
