package postgres

type clubTableModel struct {
	ClubeID      int64  `db:"clube_id"`
	Clube        string `db:"clube"`
	AbrevClube   string `db:"abrev_clube"`
	SlugClube    string `db:"slug_clube"`
	ApelidoClube string `db:"apelido_clube"`
	NomeFantasia string `db:"nome_fantasia"`
}
