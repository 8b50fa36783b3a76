package usecase

import (
	"context"
	"time"
)

// CartolaProvider is the upstream statistics API consumed by the pipeline.
// Every method also returns the raw response body so the pipeline can
// snapshot exactly what the provider served.
type CartolaProvider interface {
	FetchRounds(ctx context.Context) ([]ExternalRound, []byte, error)
	FetchClubs(ctx context.Context) ([]ExternalClub, []byte, error)
	FetchPositions(ctx context.Context) ([]ExternalPosition, []byte, error)
	FetchMatches(ctx context.Context, roundID int64) ([]ExternalMatch, []byte, error)
	FetchScores(ctx context.Context, roundID int64) ([]ExternalScore, []byte, error)
}

type ExternalRound struct {
	ID    int64
	Start time.Time
	End   time.Time
	Name  string
}

type ExternalClub struct {
	ID          int64
	Name        string
	Abbrev      string
	Slug        string
	Nickname    string
	DisplayName string
}

type ExternalPosition struct {
	ID     int64
	Abbrev string
	Name   string
}

type ExternalMatch struct {
	ID         int64
	Venue      string
	Date       time.Time
	HomeScore  int
	AwayScore  int
	HomeRank   int
	AwayRank   int
	HomeClubID int64
	AwayClubID int64
	Valid      bool
	RoundID    int64
}

// ExternalScore is one flattened player scoring record. Scout carries the
// provider's raw event-counter codes; unknown codes are tolerated and
// dropped when the row is projected onto the warehouse schema.
type ExternalScore struct {
	Apelido    string
	Points     float64
	PositionID int64
	ClubID     int64
	Played     bool
	RoundID    int64
	Scout      map[string]int
}
