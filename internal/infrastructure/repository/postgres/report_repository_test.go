package postgres

import (
	"strings"
	"testing"
)

// The jogos column counts every row that survived reconciliation, including
// players carded without entering the pitch. Filtering on entrou_em_campo
// here would undercount matches for the minimum-games cutoff.
func TestTopPlayerAveragesCountsEverySurvivingRow(t *testing.T) {
	if strings.Contains(topPlayerAveragesQuery, "entrou_em_campo") {
		t.Fatal("player averages must not filter on pitch time")
	}
	if !strings.Contains(topPlayerAveragesQuery, "HAVING COUNT(*) >= $1") {
		t.Fatal("player averages must apply the minimum-games cutoff to the full row count")
	}
}
