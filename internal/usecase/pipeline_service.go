package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/club"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/match"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/position"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/round"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/scoring"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/id"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/logging"
)

// SnapshotWriter persists raw provider payloads and the normalized CSV
// exports of one pipeline run.
type SnapshotWriter interface {
	WriteSeasonJSON(resource string, raw []byte) error
	WriteRoundJSON(resource string, roundID int64, raw []byte) error
	WriteCSV(resource string, header []string, rows [][]string) error
	WriteRunManifest(season []string, rounds map[string][]int64) error
}

// RunNotifier publishes the summary of a finished run to an external hook.
type RunNotifier interface {
	PublishRunSummary(ctx context.Context, summary RunSummary) error
}

type RunSummary struct {
	RunID                  string    `json:"run_id"`
	StartedAt              time.Time `json:"started_at"`
	FinishedAt             time.Time `json:"finished_at"`
	RoundsLoaded           int       `json:"rounds_loaded"`
	ClubsLoaded            int       `json:"clubs_loaded"`
	PositionsLoaded        int       `json:"positions_loaded"`
	MatchesLoaded          int       `json:"matches_loaded"`
	ScoresLoaded           int       `json:"scores_loaded"`
	SkippedRounds          []int64   `json:"skipped_rounds"`
	MatchRefsBackfilled    int64     `json:"match_refs_backfilled"`
	AmbiguousMatchPairs    int64     `json:"ambiguous_match_pairs"`
	ClubsPurged            int64     `json:"clubs_purged"`
	InvalidMatchRowsPurged int64     `json:"invalid_match_rows_purged"`
	DegenerateRowsPurged   int64     `json:"degenerate_rows_purged"`
	Warnings               []string  `json:"warnings"`
}

type PipelineConfig struct {
	FirstRound int64
	LastRound  int64
}

// PipelineService runs the full extract, load, reconcile and verify cycle.
// Every stage is strictly sequential: one round at a time, one table at a
// time, so a failed run never leaves interleaved partial state behind.
type PipelineService struct {
	provider     CartolaProvider
	snapshots    SnapshotWriter
	roundRepo    round.Repository
	clubRepo     club.Repository
	positionRepo position.Repository
	matchRepo    match.Repository
	scoringRepo  scoring.Repository
	notifier     RunNotifier
	idGen        id.Generator
	cfg          PipelineConfig
	logger       *logging.Logger
}

func NewPipelineService(
	provider CartolaProvider,
	snapshots SnapshotWriter,
	roundRepo round.Repository,
	clubRepo club.Repository,
	positionRepo position.Repository,
	matchRepo match.Repository,
	scoringRepo scoring.Repository,
	notifier RunNotifier,
	idGen id.Generator,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}

	return &PipelineService{
		provider:     provider,
		snapshots:    snapshots,
		roundRepo:    roundRepo,
		clubRepo:     clubRepo,
		positionRepo: positionRepo,
		matchRepo:    matchRepo,
		scoringRepo:  scoringRepo,
		notifier:     notifier,
		idGen:        idGen,
		cfg:          cfg,
		logger:       logger,
	}
}

// Run executes one full pipeline cycle and returns its summary. Rounds the
// provider has not published yet are skipped and reported, every other
// failure aborts the run.
func (s *PipelineService) Run(ctx context.Context) (RunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	if s.provider == nil || s.snapshots == nil {
		return RunSummary{}, fmt.Errorf("%w: pipeline is not fully configured", ErrDependencyUnavailable)
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return RunSummary{}, fmt.Errorf("generate run id: %w", err)
	}

	summary := RunSummary{RunID: runID, StartedAt: time.Now().UTC()}
	s.logger.InfoContext(ctx, "pipeline run started", "run_id", runID,
		"first_round", s.cfg.FirstRound, "last_round", s.cfg.LastRound)

	rounds, err := s.loadReferenceData(ctx, &summary)
	if err != nil {
		return RunSummary{}, err
	}

	if err := s.loadRoundData(ctx, rounds, &summary); err != nil {
		return RunSummary{}, err
	}

	if err := s.reconcile(ctx, &summary); err != nil {
		return RunSummary{}, err
	}

	if err := s.verify(ctx, &summary); err != nil {
		return RunSummary{}, err
	}

	summary.FinishedAt = time.Now().UTC()
	s.logger.InfoContext(ctx, "pipeline run finished",
		"run_id", runID,
		"rounds_loaded", summary.RoundsLoaded,
		"matches_loaded", summary.MatchesLoaded,
		"scores_loaded", summary.ScoresLoaded,
		"skipped_rounds", len(summary.SkippedRounds),
		"warnings", len(summary.Warnings),
		"duration", summary.FinishedAt.Sub(summary.StartedAt).String(),
	)

	if s.notifier != nil {
		if err := s.notifier.PublishRunSummary(ctx, summary); err != nil {
			s.logger.WarnContext(ctx, "publish run summary failed", "run_id", runID, "error", err.Error())
		}
	}

	return summary, nil
}

func (s *PipelineService) loadReferenceData(ctx context.Context, summary *RunSummary) ([]round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.loadReferenceData")
	defer span.End()

	externalRounds, rawRounds, err := s.provider.FetchRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rounds: %w", err)
	}
	if err := s.snapshots.WriteSeasonJSON("rodadas", rawRounds); err != nil {
		return nil, fmt.Errorf("snapshot rounds: %w", err)
	}
	rounds := mapExternalRoundsToDomain(externalRounds)
	if err := s.roundRepo.ReplaceAll(ctx, rounds); err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	if err := s.snapshots.WriteCSV("rodadas", roundCSVHeader, roundCSVRows(rounds)); err != nil {
		return nil, fmt.Errorf("export rounds csv: %w", err)
	}
	summary.RoundsLoaded = len(rounds)
	s.logger.InfoContext(ctx, "rounds loaded", "run_id", summary.RunID, "count", len(rounds))

	externalClubs, rawClubs, err := s.provider.FetchClubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch clubs: %w", err)
	}
	if err := s.snapshots.WriteSeasonJSON("clubes", rawClubs); err != nil {
		return nil, fmt.Errorf("snapshot clubs: %w", err)
	}
	clubs := mapExternalClubsToDomain(externalClubs)
	if err := s.clubRepo.ReplaceAll(ctx, clubs); err != nil {
		return nil, fmt.Errorf("load clubs: %w", err)
	}
	if err := s.snapshots.WriteCSV("clubes", clubCSVHeader, clubCSVRows(clubs)); err != nil {
		return nil, fmt.Errorf("export clubs csv: %w", err)
	}
	summary.ClubsLoaded = len(clubs)
	s.logger.InfoContext(ctx, "clubs loaded", "run_id", summary.RunID, "count", len(clubs))

	externalPositions, rawPositions, err := s.provider.FetchPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	if err := s.snapshots.WriteSeasonJSON("posicoes", rawPositions); err != nil {
		return nil, fmt.Errorf("snapshot positions: %w", err)
	}
	positions := mapExternalPositionsToDomain(externalPositions)
	if err := s.positionRepo.ReplaceAll(ctx, positions); err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	if err := s.snapshots.WriteCSV("posicoes", positionCSVHeader, positionCSVRows(positions)); err != nil {
		return nil, fmt.Errorf("export positions csv: %w", err)
	}
	summary.PositionsLoaded = len(positions)
	s.logger.InfoContext(ctx, "positions loaded", "run_id", summary.RunID, "count", len(positions))

	return rounds, nil
}

func (s *PipelineService) loadRoundData(ctx context.Context, rounds []round.Round, summary *RunSummary) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.loadRoundData")
	defer span.End()

	manifestRounds := map[string][]int64{"partidas": nil, "pontuacao": nil}

	var allMatches []match.Match
	var allScores []scoring.Score
	for _, roundID := range s.roundIDsToLoad(rounds) {
		externalMatches, rawMatches, err := s.provider.FetchMatches(ctx, roundID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				s.logger.InfoContext(ctx, "round not played yet, skipping",
					"run_id", summary.RunID, "rodada_id", roundID)
				summary.SkippedRounds = append(summary.SkippedRounds, roundID)
				continue
			}
			return fmt.Errorf("fetch matches rodada_id=%d: %w", roundID, err)
		}
		if err := s.snapshots.WriteRoundJSON("partidas", roundID, rawMatches); err != nil {
			return fmt.Errorf("snapshot matches rodada_id=%d: %w", roundID, err)
		}
		manifestRounds["partidas"] = append(manifestRounds["partidas"], roundID)
		allMatches = append(allMatches, mapExternalMatchesToDomain(externalMatches)...)

		// The fixture list is published ahead of the scores, so a missing
		// pontuados payload only skips the scores for this round.
		externalScores, rawScores, err := s.provider.FetchScores(ctx, roundID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				s.logger.InfoContext(ctx, "round scores not published yet, keeping matches",
					"run_id", summary.RunID, "rodada_id", roundID)
				summary.SkippedRounds = append(summary.SkippedRounds, roundID)
				continue
			}
			return fmt.Errorf("fetch scores rodada_id=%d: %w", roundID, err)
		}
		if err := s.snapshots.WriteRoundJSON("pontuacao", roundID, rawScores); err != nil {
			return fmt.Errorf("snapshot scores rodada_id=%d: %w", roundID, err)
		}
		manifestRounds["pontuacao"] = append(manifestRounds["pontuacao"], roundID)
		allScores = append(allScores, mapExternalScoresToDomain(externalScores)...)
	}

	if err := s.matchRepo.ReplaceAll(ctx, allMatches); err != nil {
		return fmt.Errorf("load matches: %w", err)
	}
	if err := s.scoringRepo.ReplaceAll(ctx, allScores); err != nil {
		return fmt.Errorf("load scores: %w", err)
	}
	if err := s.snapshots.WriteCSV("partidas", matchCSVHeader, matchCSVRows(allMatches)); err != nil {
		return fmt.Errorf("export matches csv: %w", err)
	}
	if err := s.snapshots.WriteCSV("pontuacao", scoreCSVHeader, scoreCSVRows(allScores)); err != nil {
		return fmt.Errorf("export scores csv: %w", err)
	}
	if err := s.snapshots.WriteRunManifest([]string{"rodadas", "clubes", "posicoes"}, manifestRounds); err != nil {
		return fmt.Errorf("write snapshot manifest: %w", err)
	}

	summary.MatchesLoaded = len(allMatches)
	summary.ScoresLoaded = len(allScores)
	s.logger.InfoContext(ctx, "round data loaded",
		"run_id", summary.RunID,
		"matches", len(allMatches),
		"scores", len(allScores),
		"skipped_rounds", len(summary.SkippedRounds),
	)

	return nil
}

// reconcile runs the cleanup passes in a fixed order: match backfill first
// so the validity purge can follow the new references, degenerate rows last.
func (s *PipelineService) reconcile(ctx context.Context, summary *RunSummary) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.reconcile")
	defer span.End()

	backfill, err := s.scoringRepo.BackfillMatchRefs(ctx)
	if err != nil {
		return fmt.Errorf("backfill score match refs: %w", err)
	}
	summary.MatchRefsBackfilled = backfill.Updated
	summary.AmbiguousMatchPairs = backfill.Ambiguous
	if backfill.Ambiguous > 0 {
		warning := fmt.Sprintf("%d round/club pairs matched more than one match, kept the most recent", backfill.Ambiguous)
		summary.Warnings = append(summary.Warnings, warning)
		s.logger.WarnContext(ctx, "ambiguous match references resolved by date",
			"run_id", summary.RunID, "pairs", backfill.Ambiguous)
	}

	clubsPurged, err := s.clubRepo.DeleteZeroScore(ctx)
	if err != nil {
		return fmt.Errorf("purge zero score clubs: %w", err)
	}
	summary.ClubsPurged = clubsPurged

	invalidPurged, err := s.scoringRepo.DeleteInvalidMatchRows(ctx)
	if err != nil {
		return fmt.Errorf("purge scores of invalid matches: %w", err)
	}
	summary.InvalidMatchRowsPurged = invalidPurged

	degeneratePurged, err := s.scoringRepo.DeleteDegenerateRows(ctx)
	if err != nil {
		return fmt.Errorf("purge degenerate score rows: %w", err)
	}
	summary.DegenerateRowsPurged = degeneratePurged

	s.logger.InfoContext(ctx, "reconcile passes finished",
		"run_id", summary.RunID,
		"match_refs_backfilled", backfill.Updated,
		"clubs_purged", clubsPurged,
		"invalid_match_rows_purged", invalidPurged,
		"degenerate_rows_purged", degeneratePurged,
	)

	return nil
}

// verify checks the loaded season against the expected shape of a full
// Brazilian championship. Mismatches are warnings, not failures: a season in
// progress legitimately has fewer rounds.
func (s *PipelineService) verify(ctx context.Context, summary *RunSummary) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.verify")
	defer span.End()

	roundCount, err := s.roundRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count rounds: %w", err)
	}
	if roundCount != round.ExpectedSeasonRounds {
		s.warn(ctx, summary, fmt.Sprintf("expected %d rounds, found %d", round.ExpectedSeasonRounds, roundCount))
	}

	positionCount, err := s.positionRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count positions: %w", err)
	}
	if positionCount != position.ExpectedPositions {
		s.warn(ctx, summary, fmt.Sprintf("expected %d positions, found %d", position.ExpectedPositions, positionCount))
	}

	matchCount, err := s.matchRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count matches: %w", err)
	}
	expectedMatches := round.ExpectedSeasonRounds * match.ExpectedMatchesPerRound
	if matchCount != expectedMatches {
		s.warn(ctx, summary, fmt.Sprintf("expected %d matches, found %d", expectedMatches, matchCount))
	}

	perRound, err := s.matchRepo.CountByRound(ctx)
	if err != nil {
		return fmt.Errorf("count matches by round: %w", err)
	}
	roundIDs := make([]int64, 0, len(perRound))
	for roundID := range perRound {
		roundIDs = append(roundIDs, roundID)
	}
	sort.Slice(roundIDs, func(i, j int) bool { return roundIDs[i] < roundIDs[j] })
	for _, roundID := range roundIDs {
		if perRound[roundID] != match.ExpectedMatchesPerRound {
			s.warn(ctx, summary, fmt.Sprintf("rodada_id=%d has %d matches, expected %d",
				roundID, perRound[roundID], match.ExpectedMatchesPerRound))
		}
	}

	return nil
}

func (s *PipelineService) warn(ctx context.Context, summary *RunSummary, message string) {
	summary.Warnings = append(summary.Warnings, message)
	s.logger.WarnContext(ctx, "verification mismatch", "run_id", summary.RunID, "detail", message)
}

// roundIDsToLoad intersects the configured round range with the rounds the
// provider actually announced.
func (s *PipelineService) roundIDsToLoad(rounds []round.Round) []int64 {
	announced := make(map[int64]struct{}, len(rounds))
	for _, item := range rounds {
		announced[item.ID] = struct{}{}
	}

	out := make([]int64, 0, len(rounds))
	for roundID := s.cfg.FirstRound; roundID <= s.cfg.LastRound; roundID++ {
		if len(announced) > 0 {
			if _, ok := announced[roundID]; !ok {
				continue
			}
		}
		out = append(out, roundID)
	}
	return out
}

func mapExternalRoundsToDomain(items []ExternalRound) []round.Round {
	out := make([]round.Round, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, round.Round{
			ID:    item.ID,
			Start: item.Start,
			End:   item.End,
			Name:  item.Name,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func mapExternalClubsToDomain(items []ExternalClub) []club.Club {
	out := make([]club.Club, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, club.Club{
			ID:          item.ID,
			Name:        item.Name,
			Abbrev:      item.Abbrev,
			Slug:        item.Slug,
			Nickname:    item.Nickname,
			DisplayName: item.DisplayName,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func mapExternalPositionsToDomain(items []ExternalPosition) []position.Position {
	out := make([]position.Position, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, position.Position{
			ID:     item.ID,
			Abbrev: item.Abbrev,
			Name:   item.Name,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func mapExternalMatchesToDomain(items []ExternalMatch) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, match.Match{
			ID:        item.ID,
			Venue:     item.Venue,
			Date:      item.Date,
			HomeScore: item.HomeScore,
			AwayScore: item.AwayScore,
			HomeRank:  item.HomeRank,
			AwayRank:  item.AwayRank,
			HomeClub:  item.HomeClubID,
			AwayClub:  item.AwayClubID,
			Valid:     item.Valid,
			RoundID:   item.RoundID,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RoundID != out[j].RoundID {
			return out[i].RoundID < out[j].RoundID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func mapExternalScoresToDomain(items []ExternalScore) []scoring.Score {
	out := make([]scoring.Score, 0, len(items))
	for _, item := range items {
		if item.Apelido == "" {
			continue
		}
		out = append(out, scoring.Score{
			Apelido:    item.Apelido,
			Points:     item.Points,
			PositionID: item.PositionID,
			ClubID:     item.ClubID,
			Played:     item.Played,
			RoundID:    item.RoundID,
			Scout:      scoring.ScoutFromCodes(item.Scout),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RoundID != out[j].RoundID {
			return out[i].RoundID < out[j].RoundID
		}
		return out[i].Apelido < out[j].Apelido
	})
	return out
}

var roundCSVHeader = []string{"rodada_id", "inicio", "fim", "nome_rodada"}

func roundCSVRows(items []round.Round) [][]string {
	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, []string{
			strconv.FormatInt(item.ID, 10),
			csvTime(item.Start),
			csvTime(item.End),
			item.Name,
		})
	}
	return out
}

var clubCSVHeader = []string{"clube_id", "clube", "abrev_clube", "slug_clube", "apelido_clube", "nome_fantasia"}

func clubCSVRows(items []club.Club) [][]string {
	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, []string{
			strconv.FormatInt(item.ID, 10),
			item.Name,
			item.Abbrev,
			item.Slug,
			item.Nickname,
			item.DisplayName,
		})
	}
	return out
}

var positionCSVHeader = []string{"posicao_id", "abrev_posicao", "posicao"}

func positionCSVRows(items []position.Position) [][]string {
	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, []string{
			strconv.FormatInt(item.ID, 10),
			item.Abbrev,
			item.Name,
		})
	}
	return out
}

var matchCSVHeader = []string{
	"partida_id", "local", "partida_data", "placar_oficial_mandante", "placar_oficial_visitante",
	"clube_casa_posicao", "clube_visitante_posicao", "clube_casa_id", "clube_visitante_id", "valida", "rodada_id",
}

func matchCSVRows(items []match.Match) [][]string {
	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, []string{
			strconv.FormatInt(item.ID, 10),
			item.Venue,
			csvTime(item.Date),
			strconv.Itoa(item.HomeScore),
			strconv.Itoa(item.AwayScore),
			strconv.Itoa(item.HomeRank),
			strconv.Itoa(item.AwayRank),
			strconv.FormatInt(item.HomeClub, 10),
			strconv.FormatInt(item.AwayClub, 10),
			strconv.FormatBool(item.Valid),
			strconv.FormatInt(item.RoundID, 10),
		})
	}
	return out
}

var scoreCSVHeader = []string{
	"apelido", "pontuacao", "posicao_id", "clube_id", "entrou_em_campo", "rodada_id",
	"ca", "ds", "fc", "ff", "fd", "fs", "i", "sg", "a", "g",
	"de", "gs", "v", "ps", "ft", "pp", "dp", "cv", "pc",
}

func scoreCSVRows(items []scoring.Score) [][]string {
	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, []string{
			item.Apelido,
			strconv.FormatFloat(item.Points, 'f', 2, 64),
			strconv.FormatInt(item.PositionID, 10),
			strconv.FormatInt(item.ClubID, 10),
			strconv.FormatBool(item.Played),
			strconv.FormatInt(item.RoundID, 10),
			strconv.Itoa(item.Scout.CA),
			strconv.Itoa(item.Scout.DS),
			strconv.Itoa(item.Scout.FC),
			strconv.Itoa(item.Scout.FF),
			strconv.Itoa(item.Scout.FD),
			strconv.Itoa(item.Scout.FS),
			strconv.Itoa(item.Scout.I),
			strconv.Itoa(item.Scout.SG),
			strconv.Itoa(item.Scout.A),
			strconv.Itoa(item.Scout.G),
			strconv.Itoa(item.Scout.DE),
			strconv.Itoa(item.Scout.GS),
			strconv.Itoa(item.Scout.V),
			strconv.Itoa(item.Scout.PS),
			strconv.Itoa(item.Scout.FT),
			strconv.Itoa(item.Scout.PP),
			strconv.Itoa(item.Scout.DP),
			strconv.Itoa(item.Scout.CV),
			strconv.Itoa(item.Scout.PC),
		})
	}
	return out
}

func csvTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format("2006-01-02 15:04:05")
}
