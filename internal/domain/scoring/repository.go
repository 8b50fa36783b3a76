package scoring

import "context"

// BackfillResult reports the outcome of the match-reference backfill pass.
type BackfillResult struct {
	Updated   int64
	Ambiguous int64
}

type Repository interface {
	ReplaceAll(ctx context.Context, items []Score) error
	// BackfillMatchRefs sets MatchID on rows whose (round, club) pair matches
	// a loaded match on either side. Pairs matching more than one match are
	// resolved to the most recent match date and counted as ambiguous.
	BackfillMatchRefs(ctx context.Context) (BackfillResult, error)
	// DeleteInvalidMatchRows removes rows whose backfilled match is not valid
	// for scoring purposes.
	DeleteInvalidMatchRows(ctx context.Context) (int64, error)
	// DeleteDegenerateRows removes rows with no participation, no score and
	// no event counters in either sign group.
	DeleteDegenerateRows(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
}
