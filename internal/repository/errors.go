package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the stores translate into apperr sentinels.
const (
	codeUniqueViolation     = "23505" // courier phone
	codeForeignKeyViolation = "23503" // order.shop_id, order.assigned_courier
)

func sqlState(err error) string {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return ""
}

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool { return sqlState(err) == codeUniqueViolation }

// IsForeignKey reports a reference to a missing shop or courier.
func IsForeignKey(err error) bool { return sqlState(err) == codeForeignKeyViolation }

// IsNotFound reports a single-row query that matched nothing.
func IsNotFound(err error) bool { return errors.Is(err, pgx.ErrNoRows) }
