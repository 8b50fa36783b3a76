package cartola

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/usecase"
)

// ErrNotFound marks a resource the provider has not published yet, such as
// a round that has not been played. Callers skip and retry on the next run.
// It aliases the usecase sentinel so services can match it without depending
// on this package.
var ErrNotFound = usecase.ErrNotFound

var errCartolaTransient = crerr.New("cartola transient failure")

type roundRecord struct {
	RodadaID   int64  `json:"rodada_id"`
	Inicio     string `json:"inicio"`
	Fim        string `json:"fim"`
	NomeRodada string `json:"nome_rodada"`
}

// clubRecord rows arrive as one JSON object keyed by club id; the map key is
// authoritative when the embedded id is missing.
type clubRecord struct {
	ID           int64  `json:"id"`
	Nome         string `json:"nome"`
	Abreviacao   string `json:"abreviacao"`
	Slug         string `json:"slug"`
	Apelido      string `json:"apelido"`
	NomeFantasia string `json:"nome_fantasia"`
}

type positionRecord struct {
	ID         int64  `json:"id"`
	Nome       string `json:"nome"`
	Abreviacao string `json:"abreviacao"`
}

type matchesEnvelope struct {
	Partidas []matchRecord `json:"partidas"`
}

type matchRecord struct {
	PartidaID              int64  `json:"partida_id"`
	Local                  string `json:"local"`
	PartidaData            string `json:"partida_data"`
	PlacarOficialMandante  *int   `json:"placar_oficial_mandante"`
	PlacarOficialVisitante *int   `json:"placar_oficial_visitante"`
	ClubeCasaPosicao       int    `json:"clube_casa_posicao"`
	ClubeVisitantePosicao  int    `json:"clube_visitante_posicao"`
	ClubeCasaID            int64  `json:"clube_casa_id"`
	ClubeVisitanteID       int64  `json:"clube_visitante_id"`
	Valida                 bool   `json:"valida"`
}

type scoresEnvelope struct {
	Atletas map[string]scoreRecord `json:"atletas"`
}

// scoreRecord embeds the nested scout sub-object; its keys flatten into
// top-level counter columns during normalization.
type scoreRecord struct {
	Apelido       string         `json:"apelido"`
	Pontuacao     *float64       `json:"pontuacao"`
	PosicaoID     int64          `json:"posicao_id"`
	ClubeID       int64          `json:"clube_id"`
	EntrouEmCampo bool           `json:"entrou_em_campo"`
	Scout         map[string]int `json:"scout"`
}
