package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/scoring"
	qb "github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/querybuilder"
)

// scoringInsertChunkSize keeps multi row inserts well under the lib/pq
// placeholder limit of 65535 (26 columns per row).
const scoringInsertChunkSize = 500

var scoringColumns = []string{
	"apelido", "pontuacao", "posicao_id", "clube_id", "entrou_em_campo",
	"partida_id", "rodada_id",
	"ca", "ds", "fc", "ff", "fd", "fs", "i", "sg", "a", "g",
	"de", "gs", "v", "ps", "ft", "pp", "dp", "cv", "pc",
}

// backfillMatchRefsQuery resolves every (rodada_id, clube_id) pair of the
// pontuacao table to the match that club played in that round. When a club
// appears in more than one match of the same round the most recent one wins.
const backfillMatchRefsQuery = `
UPDATE pontuacao p
SET partida_id = m.partida_id
FROM (
	SELECT DISTINCT ON (pa.rodada_id, c.clube_id)
		pa.rodada_id, c.clube_id, pa.partida_id
	FROM partidas pa
	CROSS JOIN LATERAL (VALUES (pa.clube_casa_id), (pa.clube_visitante_id)) AS c(clube_id)
	ORDER BY pa.rodada_id, c.clube_id, pa.partida_data DESC NULLS LAST, pa.partida_id DESC
) m
WHERE p.rodada_id = m.rodada_id AND p.clube_id = m.clube_id`

const countAmbiguousMatchPairsQuery = `
SELECT COUNT(*) FROM (
	SELECT pa.rodada_id, c.clube_id
	FROM partidas pa
	CROSS JOIN LATERAL (VALUES (pa.clube_casa_id), (pa.clube_visitante_id)) AS c(clube_id)
	GROUP BY pa.rodada_id, c.clube_id
	HAVING COUNT(*) > 1
) ambiguous`

const deleteInvalidMatchRowsQuery = `
DELETE FROM pontuacao
WHERE partida_id IN (SELECT partida_id FROM partidas WHERE valida = false)`

// deleteDegenerateRowsQuery drops rows that carry no information at all: the
// player did not enter the field, scored zero and has an empty scout line.
const deleteDegenerateRowsQuery = `
DELETE FROM pontuacao
WHERE entrou_em_campo = false
  AND pontuacao = 0
  AND (ds + ff + fd + fs + sg + a + g + de + v + ps + ft + dp) = 0
  AND (ca + fc + i + gs + pp + cv + pc) = 0`

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

// ReplaceAll overwrites the pontuacao table inside one transaction. Rows are
// inserted in chunks because a full season holds tens of thousands of them.
func (r *ScoringRepository) ReplaceAll(ctx context.Context, items []scoring.Score) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace scores: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pontuacao"); err != nil {
		return fmt.Errorf("clear pontuacao: %w", err)
	}

	for start := 0; start < len(items); start += scoringInsertChunkSize {
		end := start + scoringInsertChunkSize
		if end > len(items) {
			end = len(items)
		}
		if err := insertScoringChunk(ctx, tx, items[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace scores tx: %w", err)
	}

	return nil
}

func insertScoringChunk(ctx context.Context, tx *sqlx.Tx, items []scoring.Score) error {
	builder := qb.InsertInto("pontuacao").Columns(scoringColumns...)
	for _, item := range items {
		m := scoringModelFromDomain(item)
		builder.Values(
			m.Apelido, m.Pontuacao, m.PosicaoID, m.ClubeID, m.EntrouEmCampo,
			m.PartidaID, m.RodadaID,
			m.CA, m.DS, m.FC, m.FF, m.FD, m.FS, m.I, m.SG, m.A, m.G,
			m.DE, m.GS, m.V, m.PS, m.FT, m.PP, m.DP, m.CV, m.PC,
		)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert scores query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scores chunk of %d rows: %w", len(items), err)
	}
	return nil
}

// BackfillMatchRefs fills partida_id by joining each score row to the match
// its club played in the same round, and reports how many (round, club)
// pairs had more than one candidate match.
func (r *ScoringRepository) BackfillMatchRefs(ctx context.Context) (scoring.BackfillResult, error) {
	var result scoring.BackfillResult

	if err := r.db.GetContext(ctx, &result.Ambiguous, countAmbiguousMatchPairsQuery); err != nil {
		return scoring.BackfillResult{}, fmt.Errorf("count ambiguous match pairs: %w", err)
	}

	res, err := r.db.ExecContext(ctx, backfillMatchRefsQuery)
	if err != nil {
		return scoring.BackfillResult{}, fmt.Errorf("backfill score match refs: %w", err)
	}
	result.Updated, err = res.RowsAffected()
	if err != nil {
		return scoring.BackfillResult{}, fmt.Errorf("read backfill rows affected: %w", err)
	}

	return result, nil
}

func (r *ScoringRepository) DeleteInvalidMatchRows(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteInvalidMatchRowsQuery)
	if err != nil {
		return 0, fmt.Errorf("delete scores of invalid matches: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read invalid match purge rows affected: %w", err)
	}
	return deleted, nil
}

func (r *ScoringRepository) DeleteDegenerateRows(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteDegenerateRowsQuery)
	if err != nil {
		return 0, fmt.Errorf("delete degenerate score rows: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read degenerate purge rows affected: %w", err)
	}
	return deleted, nil
}

func (r *ScoringRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM pontuacao"); err != nil {
		return 0, fmt.Errorf("count pontuacao: %w", err)
	}
	return count, nil
}
