package position

import "strings"

// ExpectedPositions is the size of the static position reference set.
const ExpectedPositions = 6

const (
	AbbrevGoalkeeper = "gol"
	AbbrevFullback   = "lat"
	AbbrevDefender   = "zag"
	AbbrevMidfielder = "mei"
	AbbrevForward    = "ata"
	AbbrevCoach      = "tec"
)

// Position is one entry of the static player-position reference set.
type Position struct {
	ID     int64
	Abbrev string
	Name   string
}

func IsCoach(abbrev string) bool {
	return strings.EqualFold(strings.TrimSpace(abbrev), AbbrevCoach)
}
