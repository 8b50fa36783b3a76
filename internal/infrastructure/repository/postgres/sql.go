package postgres

import "strings"

// PgBouncer in transaction pooling mode occasionally loses the unnamed
// prepared statement between Prepare and Bind. These predicates detect the
// two error shapes lib/pq surfaces so callers can fall back to a query
// without bind parameters.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "parameters")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "unnamed prepared statement does not exist") {
		return true
	}
	return strings.Contains(msg, "prepared statement") && strings.Contains(msg, "26000")
}
