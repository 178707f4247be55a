package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/devconnector/internal/domain/repository"
)

type AccountStore struct {
	base
}

func NewAccountStore(pool *pgxpool.Pool, timeout time.Duration) *AccountStore {
	return &AccountStore{base: newBase(pool, timeout)}
}

// DeleteAccount removes the profile and the user in a single transaction so a
// crash cannot leave an orphaned profile behind.
func (s *AccountStore) DeleteAccount(ctx context.Context, userID string) error {
	const op = "postgres.DeleteAccount"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return mapErr(op, err)
	}
	return nil
}

var _ repository.AccountStore = (*AccountStore)(nil)
