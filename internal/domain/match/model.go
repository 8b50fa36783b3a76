package match

import "time"

// ExpectedMatchesPerRound is the fixture count per round in a 20-club league.
const ExpectedMatchesPerRound = 10

// Match is one fixture between two clubs within a round. Valid marks whether
// the match counts for fantasy scoring.
type Match struct {
	ID        int64
	Venue     string
	Date      time.Time
	HomeScore int
	AwayScore int
	HomeRank  int
	AwayRank  int
	HomeClub  int64
	AwayClub  int64
	Valid     bool
	RoundID   int64
}

// Involves reports whether clubID played in the match on either side.
func (m Match) Involves(clubID int64) bool {
	return clubID != 0 && (m.HomeClub == clubID || m.AwayClub == clubID)
}
