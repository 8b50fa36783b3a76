package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/position"
	qb "github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/querybuilder"
)

type positionTableModel struct {
	PosicaoID    int64  `db:"posicao_id"`
	AbrevPosicao string `db:"abrev_posicao"`
	Posicao      string `db:"posicao"`
}

type PositionRepository struct {
	db *sqlx.DB
}

func NewPositionRepository(db *sqlx.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) ReplaceAll(ctx context.Context, items []position.Position) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace positions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM posicao"); err != nil {
		return fmt.Errorf("clear posicao: %w", err)
	}

	for _, item := range items {
		insertModel := positionTableModel{
			PosicaoID:    item.ID,
			AbrevPosicao: item.Abbrev,
			Posicao:      item.Name,
		}
		query, args, err := qb.InsertModel("posicao", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert position query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert position posicao_id=%d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace positions tx: %w", err)
	}

	return nil
}

func (r *PositionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM posicao"); err != nil {
		return 0, fmt.Errorf("count posicao: %w", err)
	}
	return count, nil
}
