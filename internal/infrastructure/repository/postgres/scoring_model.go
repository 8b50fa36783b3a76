package postgres

import "github.com/AdrianaLegalReis/cartola-warehouse/internal/domain/scoring"

// scoringTableModel mirrors the pontuacao table. Counter columns keep the
// provider's scout codes, folded to lower case by the database.
type scoringTableModel struct {
	Apelido       string  `db:"apelido"`
	Pontuacao     float64 `db:"pontuacao"`
	PosicaoID     int64   `db:"posicao_id"`
	ClubeID       int64   `db:"clube_id"`
	EntrouEmCampo bool    `db:"entrou_em_campo"`
	PartidaID     *int64  `db:"partida_id"`
	RodadaID      int64   `db:"rodada_id"`
	CA            int     `db:"ca"`
	DS            int     `db:"ds"`
	FC            int     `db:"fc"`
	FF            int     `db:"ff"`
	FD            int     `db:"fd"`
	FS            int     `db:"fs"`
	I             int     `db:"i"`
	SG            int     `db:"sg"`
	A             int     `db:"a"`
	G             int     `db:"g"`
	DE            int     `db:"de"`
	GS            int     `db:"gs"`
	V             int     `db:"v"`
	PS            int     `db:"ps"`
	FT            int     `db:"ft"`
	PP            int     `db:"pp"`
	DP            int     `db:"dp"`
	CV            int     `db:"cv"`
	PC            int     `db:"pc"`
}

func scoringModelFromDomain(item scoring.Score) scoringTableModel {
	return scoringTableModel{
		Apelido:       item.Apelido,
		Pontuacao:     item.Points,
		PosicaoID:     item.PositionID,
		ClubeID:       item.ClubID,
		EntrouEmCampo: item.Played,
		PartidaID:     item.MatchID,
		RodadaID:      item.RoundID,
		CA:            item.Scout.CA,
		DS:            item.Scout.DS,
		FC:            item.Scout.FC,
		FF:            item.Scout.FF,
		FD:            item.Scout.FD,
		FS:            item.Scout.FS,
		I:             item.Scout.I,
		SG:            item.Scout.SG,
		A:             item.Scout.A,
		G:             item.Scout.G,
		DE:            item.Scout.DE,
		GS:            item.Scout.GS,
		V:             item.Scout.V,
		PS:            item.Scout.PS,
		FT:            item.Scout.FT,
		PP:            item.Scout.PP,
		DP:            item.Scout.DP,
		CV:            item.Scout.CV,
		PC:            item.Scout.PC,
	}
}
