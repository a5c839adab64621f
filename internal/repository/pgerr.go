package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/remexre/nihctfplat/internal/my_errors"
)

// mapConstraintError converts integrity-constraint failures raised by
// Postgres into my_errors.ConstraintViolation, keyed on the structural
// constraint and table names the driver reports. Other errors pass through
// unchanged.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return &my_errors.ConstraintViolation{
			Table:      pgErr.TableName,
			Constraint: pgErr.ConstraintName,
		}
	}
	return err
}
