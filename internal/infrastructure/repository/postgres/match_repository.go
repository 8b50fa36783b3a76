package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/match"
	qb "github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ReplaceAll(ctx context.Context, items []match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM partidas"); err != nil {
		return fmt.Errorf("clear partidas: %w", err)
	}

	for _, item := range items {
		insertModel := matchTableModel{
			PartidaID:              item.ID,
			Local:                  item.Venue,
			PartidaData:            nullableTime(item.Date),
			PlacarOficialMandante:  item.HomeScore,
			PlacarOficialVisitante: item.AwayScore,
			ClubeCasaPosicao:       item.HomeRank,
			ClubeVisitantePosicao:  item.AwayRank,
			ClubeCasaID:            item.HomeClub,
			ClubeVisitanteID:       item.AwayClub,
			Valida:                 item.Valid,
			RodadaID:               item.RoundID,
		}
		query, args, err := qb.InsertModel("partidas", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert match partida_id=%d rodada_id=%d: %w", item.ID, item.RoundID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace matches tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM partidas"); err != nil {
		return 0, fmt.Errorf("count partidas: %w", err)
	}
	return count, nil
}

func (r *MatchRepository) CountByRound(ctx context.Context) (map[int64]int, error) {
	query, args, err := qb.Select("rodada_id", "COUNT(*) AS total").
		From("partidas").
		GroupBy("rodada_id").
		OrderBy("rodada_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count matches by round query: %w", err)
	}

	var rows []struct {
		RodadaID int64 `db:"rodada_id"`
		Total    int   `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count matches by round: %w", err)
	}

	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.RodadaID] = row.Total
	}

	return out, nil
}
