package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/report"
)

type listReportQuery struct {
	Limit      int `validate:"gte=0,lte=1000"`
	Offset     int `validate:"gte=0"`
	MinMatches int `validate:"gte=0,lte=38"`
}

// parseListQuery collects limit/offset/min_matches from the query string.
// Absent parameters come back as zero so the service applies its defaults.
func (h *Handler) parseListQuery(ctx context.Context, r *http.Request) (listReportQuery, error) {
	var q listReportQuery
	var err error

	if q.Limit, err = queryInt(r, "limit", 0); err != nil {
		return q, err
	}
	if q.Offset, err = queryInt(r, "offset", 0); err != nil {
		return q, err
	}
	if q.MinMatches, err = queryInt(r, "min_matches", 0); err != nil {
		return q, err
	}
	if err := h.validateRequest(ctx, q); err != nil {
		return q, err
	}

	return q, nil
}

func (h *Handler) GetFactRows(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFactRows")
	defer span.End()

	q, err := h.parseListQuery(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.reportService.FactRows(ctx, q.Limit, q.Offset)
	if err != nil {
		h.logger.WarnContext(ctx, "fact rows query failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]factRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, factRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTopPlayerAverages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTopPlayerAverages")
	defer span.End()

	q, err := h.parseListQuery(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	averages, err := h.reportService.TopPlayerAverages(ctx, q.MinMatches, q.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "player averages query failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerAverageDTO, 0, len(averages))
	for _, avg := range averages {
		items = append(items, playerAverageDTO{
			Apelido:   avg.Apelido,
			Club:      avg.Club,
			Position:  avg.Position,
			Matches:   avg.Matches,
			AvgPoints: avg.AvgPoints,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTopGoalScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTopGoalScorers")
	defer span.End()

	h.servePlayerTotals(ctx, w, r, "goal scorers", h.reportService.TopGoalScorers)
}

func (h *Handler) GetTopAssistProviders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTopAssistProviders")
	defer span.End()

	h.servePlayerTotals(ctx, w, r, "assist providers", h.reportService.TopAssistProviders)
}

func (h *Handler) GetMostCardedPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMostCardedPlayers")
	defer span.End()

	h.servePlayerTotals(ctx, w, r, "carded players", h.reportService.MostCardedPlayers)
}

func (h *Handler) servePlayerTotals(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	name string,
	load func(context.Context, int) ([]report.PlayerTotal, error),
) {
	q, err := h.parseListQuery(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	totals, err := load(ctx, q.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "player totals query failed", "report", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerTotalDTO, 0, len(totals))
	for _, total := range totals {
		items = append(items, playerTotalDTO{
			Apelido: total.Apelido,
			Club:    total.Club,
			Total:   total.Total,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetAverageByPosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAverageByPosition")
	defer span.End()

	averages, err := h.reportService.AverageByPosition(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "position averages query failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]positionAverageDTO, 0, len(averages))
	for _, avg := range averages {
		items = append(items, positionAverageDTO{
			Position:  avg.Position,
			Players:   avg.Players,
			AvgPoints: avg.AvgPoints,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetClubTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClubTotals")
	defer span.End()

	totals, err := h.reportService.ClubTotals(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "club totals query failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]clubTotalDTO, 0, len(totals))
	for _, total := range totals {
		items = append(items, clubTotalDTO{
			Club:        total.Club,
			AvgPoints:   total.AvgPoints,
			TotalPoints: total.TotalPoints,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGoalkeeperStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGoalkeeperStats")
	defer span.End()

	q, err := h.parseListQuery(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.reportService.GoalkeeperStats(ctx, q.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "goalkeeper stats query failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]goalkeeperStatDTO, 0, len(stats))
	for _, stat := range stats {
		items = append(items, goalkeeperStatDTO{
			Apelido:     stat.Apelido,
			Club:        stat.Club,
			Saves:       stat.Saves,
			Conceded:    stat.Conceded,
			CleanSheets: stat.CleanSheets,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetHomeAwaySplits(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHomeAwaySplits")
	defer span.End()

	splits, err := h.reportService.HomeAwaySplits(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "home/away splits query failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]homeAwaySplitDTO, 0, len(splits))
	for _, split := range splits {
		items = append(items, homeAwaySplitDTO{
			Club:       split.Club,
			HomePoints: split.HomePoints,
			AwayPoints: split.AwayPoints,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetRoundTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundTotals")
	defer span.End()

	totals, err := h.reportService.RoundTotals(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "round totals query failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]roundTotalDTO, 0, len(totals))
	for _, total := range totals {
		items = append(items, roundTotalDTO{
			RoundID:     total.RoundID,
			Players:     total.Players,
			TotalPoints: total.TotalPoints,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type factRowDTO struct {
	Apelido   string  `json:"apelido"`
	Points    float64 `json:"points"`
	Played    bool    `json:"played"`
	Position  string  `json:"position"`
	Club      string  `json:"club"`
	RoundID   int64   `json:"roundId"`
	RoundName string  `json:"roundName"`
	MatchID   int64   `json:"matchId,omitempty"`
	Venue     string  `json:"venue,omitempty"`
	MatchDate string  `json:"matchDate,omitempty"`
	Goals     int     `json:"goals"`
	Assists   int     `json:"assists"`
	Saves     int     `json:"saves"`
}

type playerAverageDTO struct {
	Apelido   string  `json:"apelido"`
	Club      string  `json:"club"`
	Position  string  `json:"position"`
	Matches   int     `json:"matches"`
	AvgPoints float64 `json:"avgPoints"`
}

type playerTotalDTO struct {
	Apelido string `json:"apelido"`
	Club    string `json:"club"`
	Total   int    `json:"total"`
}

type positionAverageDTO struct {
	Position  string  `json:"position"`
	Players   int     `json:"players"`
	AvgPoints float64 `json:"avgPoints"`
}

type clubTotalDTO struct {
	Club        string  `json:"club"`
	AvgPoints   float64 `json:"avgPoints"`
	TotalPoints float64 `json:"totalPoints"`
}

type goalkeeperStatDTO struct {
	Apelido     string `json:"apelido"`
	Club        string `json:"club"`
	Saves       int    `json:"saves"`
	Conceded    int    `json:"conceded"`
	CleanSheets int    `json:"cleanSheets"`
}

type homeAwaySplitDTO struct {
	Club       string  `json:"club"`
	HomePoints float64 `json:"homePoints"`
	AwayPoints float64 `json:"awayPoints"`
}

type roundTotalDTO struct {
	RoundID     int64   `json:"roundId"`
	Players     int     `json:"players"`
	TotalPoints float64 `json:"totalPoints"`
}

func factRowToDTO(row report.FactRow) factRowDTO {
	matchDate := ""
	if !row.MatchDate.IsZero() {
		matchDate = row.MatchDate.UTC().Format(time.RFC3339)
	}

	return factRowDTO{
		Apelido:   row.Apelido,
		Points:    row.Points,
		Played:    row.Played,
		Position:  row.Position,
		Club:      row.Club,
		RoundID:   row.RoundID,
		RoundName: row.RoundName,
		MatchID:   row.MatchID,
		Venue:     row.Venue,
		MatchDate: matchDate,
		Goals:     row.Goals,
		Assists:   row.Assists,
		Saves:     row.Saves,
	}
}
