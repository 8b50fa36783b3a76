package postgres

import "time"

type matchTableModel struct {
	PartidaID              int64      `db:"partida_id"`
	Local                  string     `db:"local"`
	PartidaData            *time.Time `db:"partida_data"`
	PlacarOficialMandante  int        `db:"placar_oficial_mandante"`
	PlacarOficialVisitante int        `db:"placar_oficial_visitante"`
	ClubeCasaPosicao       int        `db:"clube_casa_posicao"`
	ClubeVisitantePosicao  int        `db:"clube_visitante_posicao"`
	ClubeCasaID            int64      `db:"clube_casa_id"`
	ClubeVisitanteID       int64      `db:"clube_visitante_id"`
	Valida                 bool       `db:"valida"`
	RodadaID               int64      `db:"rodada_id"`
}
