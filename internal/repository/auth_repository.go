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

type AuthRepository struct {
	exec *store.Executor
}

func NewAuthRepository(exec *store.Executor) *AuthRepository {
	return &AuthRepository{exec: exec}
}

func (r *AuthRepository) SaveToken(ctx context.Context, token *domain.AuthToken) error {
	return r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		query := `INSERT INTO auths (id, userid, expires) VALUES ($1, $2, $3)`
		if _, err := conn.Exec(ctx, query, token.ID, token.UserID, token.Expires); err != nil {
			return fmt.Errorf("failed to save token: %w", mapConstraintError(err))
		}
		return nil
	})
}

// GetUserIDByToken resolves a token to its owner. The predicate excludes
// expired rows, so an expired token is indistinguishable from an absent one.
func (r *AuthRepository) GetUserIDByToken(ctx context.Context, tokenID uuid.UUID) (int64, error) {
	var userID int64
	err := r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		query := `
			SELECT userid FROM auths
			WHERE id = $1 AND (expires IS NULL OR expires > now())
		`
		err := conn.QueryRow(ctx, query, tokenID).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return my_errors.ErrNotFound
			}
			return fmt.Errorf("failed to look up token: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}
