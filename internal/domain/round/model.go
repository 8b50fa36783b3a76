package round

import "time"

// ExpectedSeasonRounds is the number of rounds in a full Serie A season.
const ExpectedSeasonRounds = 38

// Round is one scheduling unit of the season (a matchday).
type Round struct {
	ID    int64
	Start time.Time
	End   time.Time
	Name  string
}
