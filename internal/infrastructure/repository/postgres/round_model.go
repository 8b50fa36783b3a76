package postgres

import "time"

type roundTableModel struct {
	RodadaID   int64      `db:"rodada_id"`
	Inicio     *time.Time `db:"inicio"`
	Fim        *time.Time `db:"fim"`
	NomeRodada string     `db:"nome_rodada"`
}

func nullableTime(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	out := value
	return &out
}

func timeOrZero(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return *value
}
