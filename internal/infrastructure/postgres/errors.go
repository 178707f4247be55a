package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/devconnector/pkg/apperror"
)

// Unique indexes and the client-facing message for each.
var uniqueFields = map[string][2]string{
	"users_email_key":     {"email", "Email already exists"},
	"profiles_handle_key": {"handle", "That handle already exists"},
}

// mapErr classifies a pgx error into an apperror kind.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.New(apperror.KindNotFound, op, nil)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return apperror.Wrap(apperror.KindStoreUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if f, ok := uniqueFields[pgErr.ConstraintName]; ok {
				e := apperror.Field(apperror.KindConflict, op, f[0], f[1])
				e.Err = err
				return e
			}
			return apperror.Wrap(apperror.KindConflict, op, err)
		case "22P02": // invalid_text_representation, e.g. a malformed uuid in the path
			return apperror.New(apperror.KindNotFound, op, nil)
		case "57P01", "57P02", "57P03", "53300": // shutdown, crash, cannot connect now, too many connections
			return apperror.Wrap(apperror.KindStoreUnavailable, op, err)
		}
		return apperror.Wrap(apperror.KindInternal, op, err)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) {
		return apperror.Wrap(apperror.KindStoreUnavailable, op, err)
	}
	return apperror.Wrap(apperror.KindInternal, op, err)
}
