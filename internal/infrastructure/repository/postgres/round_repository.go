package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/round"
	qb "github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/querybuilder"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

// ReplaceAll overwrites the rodadas table inside one transaction so readers
// never observe a partially loaded table.
func (r *RoundRepository) ReplaceAll(ctx context.Context, items []round.Round) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace rounds: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rodadas"); err != nil {
		return fmt.Errorf("clear rodadas: %w", err)
	}

	for _, item := range items {
		insertModel := roundTableModel{
			RodadaID:   item.ID,
			Inicio:     nullableTime(item.Start),
			Fim:        nullableTime(item.End),
			NomeRodada: item.Name,
		}
		query, args, err := qb.InsertModel("rodadas", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert round query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert round rodada_id=%d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace rounds tx: %w", err)
	}

	return nil
}

func (r *RoundRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM rodadas"); err != nil {
		return 0, fmt.Errorf("count rodadas: %w", err)
	}
	return count, nil
}
