package report

import "time"

// FactRow is one denormalized row of the analytical view: a player's scoring
// record for one round with match, club, round and position attributes
// attached.
type FactRow struct {
	Apelido   string
	Points    float64
	Played    bool
	Position  string
	Club      string
	RoundID   int64
	RoundName string
	MatchID   int64
	Venue     string
	MatchDate time.Time
	Goals     int
	Assists   int
	Saves     int
}

// PlayerAverage answers "highest mean score per player" with a minimum
// matches-played cutoff.
type PlayerAverage struct {
	Apelido   string
	Club      string
	Position  string
	Matches   int
	AvgPoints float64
}

// PlayerTotal is a per-player sum of one counter (goals, assists, cards).
type PlayerTotal struct {
	Apelido string
	Club    string
	Total   int
}

type PositionAverage struct {
	Position  string
	Players   int
	AvgPoints float64
}

type ClubTotal struct {
	Club        string
	AvgPoints   float64
	TotalPoints float64
}

// GoalkeeperStat covers the goalkeeper questions: saves, goals conceded and
// clean sheets per keeper.
type GoalkeeperStat struct {
	Apelido     string
	Club        string
	Saves       int
	Conceded    int
	CleanSheets int
}

// HomeAwaySplit compares a club's scoring output at home and away.
type HomeAwaySplit struct {
	Club       string
	HomePoints float64
	AwayPoints float64
}

type RoundTotal struct {
	RoundID     int64
	Players     int
	TotalPoints float64
}
