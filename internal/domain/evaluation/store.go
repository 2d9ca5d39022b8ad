package evaluation

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"review360/internal/domain/scoring"
	"review360/internal/platform/querier"
)

const (
	pgUndefinedColumn      = "42703"
	pgUndefinedTable       = "42P01"
	pgInvalidTextRepresent = "22P02"
	migrationHint          = "run `review360 migrate` against this database"
	connectivityHint       = "check database connectivity"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// classify turns driver errors into scoring errors. Schema drift is reported
// as unavailable data rather than silently scored as zero.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	var scoringErr *scoring.Error
	if errors.As(err, &scoringErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return scoring.NotFound(what+" not found", "check the id and organization")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedColumn, pgUndefinedTable:
			return scoring.DataUnavailable(what+" unavailable: schema is missing "+pgErr.Message, migrationHint, err)
		case pgInvalidTextRepresent:
			return scoring.Validation("malformed id for "+what, "ids are UUIDs")
		}
	}
	return scoring.DataUnavailable(what+" unavailable", connectivityHint, err)
}
