package scoring

// Scout holds the per-row in-match event counters tracked by the external
// scoring authority. Column names follow the provider's scout codes.
type Scout struct {
	CA int // yellow cards
	DS int // tackles
	FC int // fouls committed
	FF int // shots off target
	FD int // shots saved
	FS int // fouls suffered
	I  int // offsides
	SG int // clean sheet
	A  int // assists
	G  int // goals
	DE int // saves
	GS int // goals conceded
	V  int // win
	PS int // penalties suffered
	FT int // shots on post
	PP int // penalties missed
	DP int // penalties saved
	CV int // red cards
	PC int // penalties committed
}

// PositiveTotal sums the counters that map to positive point values.
func (s Scout) PositiveTotal() int {
	return s.DS + s.FF + s.FD + s.FS + s.SG + s.A + s.G + s.DE + s.V + s.PS + s.FT + s.DP
}

// NegativeTotal sums the counters that map to negative point values.
func (s Scout) NegativeTotal() int {
	return s.CA + s.FC + s.I + s.GS + s.PP + s.CV + s.PC
}

// CardCount is the total of yellow and red cards on the row.
func (s Scout) CardCount() int {
	return s.CA + s.CV
}

// Score is a player's fantasy-points record for one round. Identity is the
// composite (Apelido, RoundID, ClubID); a player can appear once per round
// per club. MatchID stays nil until reconciliation backfills it.
type Score struct {
	Apelido    string
	Points     float64
	PositionID int64
	ClubID     int64
	Played     bool
	MatchID    *int64
	RoundID    int64
	Scout      Scout
}

// IsDegenerate reports whether the row carries no information at all: the
// player did not enter the pitch, scored zero, and has no event counters in
// either sign group. Such rows are purged during reconciliation.
func (s Score) IsDegenerate() bool {
	return !s.Played &&
		s.Points == 0 &&
		s.Scout.PositiveTotal() == 0 &&
		s.Scout.NegativeTotal() == 0
}

// ScoutFromCodes projects raw provider scout codes onto the tracked
// counters. Codes outside the warehouse schema are dropped.
func ScoutFromCodes(codes map[string]int) Scout {
	var s Scout
	for code, count := range codes {
		switch code {
		case "CA":
			s.CA = count
		case "DS":
			s.DS = count
		case "FC":
			s.FC = count
		case "FF":
			s.FF = count
		case "FD":
			s.FD = count
		case "FS":
			s.FS = count
		case "I":
			s.I = count
		case "SG":
			s.SG = count
		case "A":
			s.A = count
		case "G":
			s.G = count
		case "DE":
			s.DE = count
		case "GS":
			s.GS = count
		case "V":
			s.V = count
		case "PS":
			s.PS = count
		case "FT":
			s.FT = count
		case "PP":
			s.PP = count
		case "DP":
			s.DP = count
		case "CV":
			s.CV = count
		case "PC":
			s.PC = count
		}
	}
	return s
}
