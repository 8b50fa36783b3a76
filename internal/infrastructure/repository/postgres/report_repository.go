package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/report"
)

const factRowsQuery = `
SELECT p.apelido, p.pontuacao, p.entrou_em_campo,
       po.posicao, c.clube,
       p.rodada_id, r.nome_rodada,
       p.partida_id, pa.local, pa.partida_data,
       p.g, p.a, p.de
FROM pontuacao p
JOIN posicao po ON po.posicao_id = p.posicao_id
JOIN clubes c ON c.clube_id = p.clube_id
JOIN rodadas r ON r.rodada_id = p.rodada_id
LEFT JOIN partidas pa ON pa.partida_id = p.partida_id
ORDER BY p.rodada_id, p.apelido
LIMIT $1 OFFSET $2`

const topPlayerAveragesQuery = `
SELECT p.apelido, c.clube, po.posicao,
       COUNT(*) AS jogos, AVG(p.pontuacao) AS media
FROM pontuacao p
JOIN clubes c ON c.clube_id = p.clube_id
JOIN posicao po ON po.posicao_id = p.posicao_id
GROUP BY p.apelido, c.clube, po.posicao
HAVING COUNT(*) >= $1
ORDER BY media DESC, p.apelido
LIMIT $2`

const topGoalScorersQuery = `
SELECT p.apelido, c.clube, SUM(p.g) AS total
FROM pontuacao p
JOIN clubes c ON c.clube_id = p.clube_id
GROUP BY p.apelido, c.clube
HAVING SUM(p.g) > 0
ORDER BY total DESC, p.apelido
LIMIT $1`

const topAssistProvidersQuery = `
SELECT p.apelido, c.clube, SUM(p.a) AS total
FROM pontuacao p
JOIN clubes c ON c.clube_id = p.clube_id
GROUP BY p.apelido, c.clube
HAVING SUM(p.a) > 0
ORDER BY total DESC, p.apelido
LIMIT $1`

const mostCardedPlayersQuery = `
SELECT p.apelido, c.clube, SUM(p.ca + p.cv) AS total
FROM pontuacao p
JOIN clubes c ON c.clube_id = p.clube_id
GROUP BY p.apelido, c.clube
HAVING SUM(p.ca + p.cv) > 0
ORDER BY total DESC, p.apelido
LIMIT $1`

const averageByPositionQuery = `
SELECT po.posicao, COUNT(DISTINCT p.apelido) AS jogadores, AVG(p.pontuacao) AS media
FROM pontuacao p
JOIN posicao po ON po.posicao_id = p.posicao_id
WHERE p.entrou_em_campo = true
GROUP BY po.posicao
ORDER BY media DESC`

const clubTotalsQuery = `
SELECT c.clube, AVG(p.pontuacao) AS media, SUM(p.pontuacao) AS total
FROM pontuacao p
JOIN clubes c ON c.clube_id = p.clube_id
GROUP BY c.clube
ORDER BY total DESC`

const goalkeeperStatsQuery = `
SELECT p.apelido, c.clube,
       SUM(p.de) AS defesas, SUM(p.gs) AS gols_sofridos, SUM(p.sg) AS jogos_sem_sofrer
FROM pontuacao p
JOIN posicao po ON po.posicao_id = p.posicao_id
JOIN clubes c ON c.clube_id = p.clube_id
WHERE po.abrev_posicao = 'gol'
GROUP BY p.apelido, c.clube
ORDER BY defesas DESC, p.apelido
LIMIT $1`

const homeAwaySplitsQuery = `
SELECT c.clube,
       SUM(CASE WHEN pa.clube_casa_id = p.clube_id THEN p.pontuacao ELSE 0 END) AS pontos_casa,
       SUM(CASE WHEN pa.clube_visitante_id = p.clube_id THEN p.pontuacao ELSE 0 END) AS pontos_fora
FROM pontuacao p
JOIN partidas pa ON pa.partida_id = p.partida_id
JOIN clubes c ON c.clube_id = p.clube_id
GROUP BY c.clube
ORDER BY c.clube`

const roundTotalsQuery = `
SELECT p.rodada_id, COUNT(*) AS jogadores, SUM(p.pontuacao) AS total
FROM pontuacao p
GROUP BY p.rodada_id
ORDER BY p.rodada_id`

type factRowModel struct {
	Apelido       string     `db:"apelido"`
	Pontuacao     float64    `db:"pontuacao"`
	EntrouEmCampo bool       `db:"entrou_em_campo"`
	Posicao       string     `db:"posicao"`
	Clube         string     `db:"clube"`
	RodadaID      int64      `db:"rodada_id"`
	NomeRodada    string     `db:"nome_rodada"`
	PartidaID     *int64     `db:"partida_id"`
	Local         *string    `db:"local"`
	PartidaData   *time.Time `db:"partida_data"`
	G             int        `db:"g"`
	A             int        `db:"a"`
	DE            int        `db:"de"`
}

type playerTotalModel struct {
	Apelido string `db:"apelido"`
	Clube   string `db:"clube"`
	Total   int    `db:"total"`
}

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) FactRows(ctx context.Context, limit, offset int) ([]report.FactRow, error) {
	var models []factRowModel
	if err := r.db.SelectContext(ctx, &models, factRowsQuery, limit, offset); err != nil {
		if !isBindParameterMismatch(err) && !isUnnamedPreparedStatementMissing(err) {
			return nil, fmt.Errorf("select fact rows: %w", err)
		}
		// Pooled connections can drop the unnamed prepared statement;
		// limit and offset are plain ints, so inline them and retry.
		literal := strings.Replace(factRowsQuery, "LIMIT $1 OFFSET $2",
			fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset), 1)
		if err := r.db.SelectContext(ctx, &models, literal); err != nil {
			return nil, fmt.Errorf("select fact rows fallback: %w", err)
		}
	}

	rows := make([]report.FactRow, 0, len(models))
	for _, m := range models {
		row := report.FactRow{
			Apelido:   m.Apelido,
			Points:    m.Pontuacao,
			Played:    m.EntrouEmCampo,
			Position:  m.Posicao,
			Club:      m.Clube,
			RoundID:   m.RodadaID,
			RoundName: m.NomeRodada,
			MatchDate: timeOrZero(m.PartidaData),
			Goals:     m.G,
			Assists:   m.A,
			Saves:     m.DE,
		}
		if m.PartidaID != nil {
			row.MatchID = *m.PartidaID
		}
		if m.Local != nil {
			row.Venue = *m.Local
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (r *ReportRepository) TopPlayerAverages(ctx context.Context, minMatches, limit int) ([]report.PlayerAverage, error) {
	var models []struct {
		Apelido string  `db:"apelido"`
		Clube   string  `db:"clube"`
		Posicao string  `db:"posicao"`
		Jogos   int     `db:"jogos"`
		Media   float64 `db:"media"`
	}
	if err := r.db.SelectContext(ctx, &models, topPlayerAveragesQuery, minMatches, limit); err != nil {
		return nil, fmt.Errorf("select top player averages: %w", err)
	}

	items := make([]report.PlayerAverage, 0, len(models))
	for _, m := range models {
		items = append(items, report.PlayerAverage{
			Apelido:   m.Apelido,
			Club:      m.Clube,
			Position:  m.Posicao,
			Matches:   m.Jogos,
			AvgPoints: m.Media,
		})
	}

	return items, nil
}

func (r *ReportRepository) TopGoalScorers(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	return r.selectPlayerTotals(ctx, topGoalScorersQuery, "top goal scorers", limit)
}

func (r *ReportRepository) TopAssistProviders(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	return r.selectPlayerTotals(ctx, topAssistProvidersQuery, "top assist providers", limit)
}

func (r *ReportRepository) MostCardedPlayers(ctx context.Context, limit int) ([]report.PlayerTotal, error) {
	return r.selectPlayerTotals(ctx, mostCardedPlayersQuery, "most carded players", limit)
}

func (r *ReportRepository) selectPlayerTotals(ctx context.Context, query, label string, limit int) ([]report.PlayerTotal, error) {
	var models []playerTotalModel
	if err := r.db.SelectContext(ctx, &models, query, limit); err != nil {
		return nil, fmt.Errorf("select %s: %w", label, err)
	}

	items := make([]report.PlayerTotal, 0, len(models))
	for _, m := range models {
		items = append(items, report.PlayerTotal{Apelido: m.Apelido, Club: m.Clube, Total: m.Total})
	}

	return items, nil
}

func (r *ReportRepository) AverageByPosition(ctx context.Context) ([]report.PositionAverage, error) {
	var models []struct {
		Posicao   string  `db:"posicao"`
		Jogadores int     `db:"jogadores"`
		Media     float64 `db:"media"`
	}
	if err := r.db.SelectContext(ctx, &models, averageByPositionQuery); err != nil {
		return nil, fmt.Errorf("select average by position: %w", err)
	}

	items := make([]report.PositionAverage, 0, len(models))
	for _, m := range models {
		items = append(items, report.PositionAverage{Position: m.Posicao, Players: m.Jogadores, AvgPoints: m.Media})
	}

	return items, nil
}

func (r *ReportRepository) ClubTotals(ctx context.Context) ([]report.ClubTotal, error) {
	var models []struct {
		Clube string  `db:"clube"`
		Media float64 `db:"media"`
		Total float64 `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &models, clubTotalsQuery); err != nil {
		return nil, fmt.Errorf("select club totals: %w", err)
	}

	items := make([]report.ClubTotal, 0, len(models))
	for _, m := range models {
		items = append(items, report.ClubTotal{Club: m.Clube, AvgPoints: m.Media, TotalPoints: m.Total})
	}

	return items, nil
}

func (r *ReportRepository) GoalkeeperStats(ctx context.Context, limit int) ([]report.GoalkeeperStat, error) {
	var models []struct {
		Apelido        string `db:"apelido"`
		Clube          string `db:"clube"`
		Defesas        int    `db:"defesas"`
		GolsSofridos   int    `db:"gols_sofridos"`
		JogosSemSofrer int    `db:"jogos_sem_sofrer"`
	}
	if err := r.db.SelectContext(ctx, &models, goalkeeperStatsQuery, limit); err != nil {
		return nil, fmt.Errorf("select goalkeeper stats: %w", err)
	}

	items := make([]report.GoalkeeperStat, 0, len(models))
	for _, m := range models {
		items = append(items, report.GoalkeeperStat{
			Apelido:     m.Apelido,
			Club:        m.Clube,
			Saves:       m.Defesas,
			Conceded:    m.GolsSofridos,
			CleanSheets: m.JogosSemSofrer,
		})
	}

	return items, nil
}

func (r *ReportRepository) HomeAwaySplits(ctx context.Context) ([]report.HomeAwaySplit, error) {
	var models []struct {
		Clube      string  `db:"clube"`
		PontosCasa float64 `db:"pontos_casa"`
		PontosFora float64 `db:"pontos_fora"`
	}
	if err := r.db.SelectContext(ctx, &models, homeAwaySplitsQuery); err != nil {
		return nil, fmt.Errorf("select home away splits: %w", err)
	}

	items := make([]report.HomeAwaySplit, 0, len(models))
	for _, m := range models {
		items = append(items, report.HomeAwaySplit{Club: m.Clube, HomePoints: m.PontosCasa, AwayPoints: m.PontosFora})
	}

	return items, nil
}

func (r *ReportRepository) RoundTotals(ctx context.Context) ([]report.RoundTotal, error) {
	var models []struct {
		RodadaID  int64   `db:"rodada_id"`
		Jogadores int     `db:"jogadores"`
		Total     float64 `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &models, roundTotalsQuery); err != nil {
		return nil, fmt.Errorf("select round totals: %w", err)
	}

	items := make([]report.RoundTotal, 0, len(models))
	for _, m := range models {
		items = append(items, report.RoundTotal{RoundID: m.RodadaID, Players: m.Jogadores, TotalPoints: m.Total})
	}

	return items, nil
}
