package schema

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres codes for "the thing you are adding already exists".
const (
	codeDuplicateColumn = "42701"
	codeDuplicateTable  = "42P07"
	codeDuplicateObject = "42710"
)

// Classify maps a DDL execution result onto a step outcome. Detection of
// already-present is by inspecting the failure, never by pre-querying
// schema metadata, which may lag on replicated backends. The message-text
// fallback covers proxies and dialects that surface bare strings instead
// of structured pg errors. All dialect knowledge lives here so call sites
// stay untouched when it changes.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeApplied
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeDuplicateColumn, codeDuplicateTable, codeDuplicateObject:
			return OutcomeAlreadyPresent
		}
		return OutcomeFailed
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column") {
		return OutcomeAlreadyPresent
	}
	return OutcomeFailed
}
