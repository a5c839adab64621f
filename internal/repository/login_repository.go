package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/remexre/nihctfplat/internal/domain"
	"github.com/remexre/nihctfplat/internal/my_errors"
	"github.com/remexre/nihctfplat/internal/store"
)

type LoginRepository struct {
	exec *store.Executor
}

func NewLoginRepository(exec *store.Executor) *LoginRepository {
	return &LoginRepository{exec: exec}
}

// CreateLogin inserts a new pending login link. Several pending links may
// exist for the same user at once.
func (r *LoginRepository) CreateLogin(ctx context.Context, login *domain.Login) error {
	return r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		query := `INSERT INTO logins (id, userid, expires) VALUES ($1, $2, $3)`
		if _, err := conn.Exec(ctx, query, login.ID, login.UserID, login.Expires); err != nil {
			return fmt.Errorf("failed to create login link: %w", mapConstraintError(err))
		}
		return nil
	})
}

// Redeem flips the link's used flag and mints token in one transaction. The
// update is conditioned on `NOT used AND expires > now()` in the same
// statement that reads the owning user, so of N concurrent redemption
// attempts exactly one observes an affected row; the rest get
// ErrLinkInvalidOrExpired. token.UserID is filled in from the link.
func (r *LoginRepository) Redeem(ctx context.Context, linkID uuid.UUID, token *domain.AuthToken) error {
	return r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		return store.WithTx(ctx, conn, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			query := `
				UPDATE logins SET used = true
				WHERE id = $1 AND NOT used AND expires > now()
				RETURNING userid
			`
			err := tx.QueryRow(ctx, query, linkID).Scan(&token.UserID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return my_errors.ErrLinkInvalidOrExpired
				}
				return fmt.Errorf("failed to redeem login link: %w", err)
			}

			insert := `INSERT INTO auths (id, userid, expires) VALUES ($1, $2, $3)`
			if _, err := tx.Exec(ctx, insert, token.ID, token.UserID, token.Expires); err != nil {
				return fmt.Errorf("failed to mint auth token: %w", mapConstraintError(err))
			}
			return nil
		})
	})
}
