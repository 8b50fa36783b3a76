package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/club"
	qb "github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/querybuilder"
)

// deleteZeroScoreClubsQuery removes clubs whose scoring rows sum to exactly
// zero. The LEFT JOIN keeps clubs with no rows at all in scope, counting
// them as zero contributors.
const deleteZeroScoreClubsQuery = `
DELETE FROM clubes
WHERE clube_id IN (
    SELECT c.clube_id
    FROM clubes c
    LEFT JOIN pontuacao p ON p.clube_id = c.clube_id
    GROUP BY c.clube_id
    HAVING SUM(COALESCE(p.pontuacao, 0)) = 0
)`

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) ReplaceAll(ctx context.Context, items []club.Club) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace clubs: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM clubes"); err != nil {
		return fmt.Errorf("clear clubes: %w", err)
	}

	for _, item := range items {
		insertModel := clubTableModel{
			ClubeID:      item.ID,
			Clube:        item.Name,
			AbrevClube:   item.Abbrev,
			SlugClube:    item.Slug,
			ApelidoClube: item.Nickname,
			NomeFantasia: item.DisplayName,
		}
		query, args, err := qb.InsertModel("clubes", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert club query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert club clube_id=%d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace clubs tx: %w", err)
	}

	return nil
}

func (r *ClubRepository) DeleteZeroScore(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, deleteZeroScoreClubsQuery)
	if err != nil {
		return 0, fmt.Errorf("delete zero-score clubs: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count purged clubs: %w", err)
	}

	return purged, nil
}

func (r *ClubRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM clubes"); err != nil {
		return 0, fmt.Errorf("count clubes: %w", err)
	}
	return count, nil
}
