package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/remexre/nihctfplat/internal/domain"
	"github.com/remexre/nihctfplat/internal/my_errors"
	"github.com/remexre/nihctfplat/internal/store"
)

type UserRepository struct {
	exec *store.Executor
}

func NewUserRepository(exec *store.Executor) *UserRepository {
	return &UserRepository{exec: exec}
}

// CreateUser inserts a new user with no team. Format and uniqueness rules
// live in the schema; violations surface as ConstraintViolation.
func (r *UserRepository) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	user := &domain.User{Name: name, Email: email}
	err := r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		query := `INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`
		if err := conn.QueryRow(ctx, query, name, email).Scan(&user.ID); err != nil {
			return fmt.Errorf("failed to create user: %w", mapConstraintError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		query := `SELECT id, name, email, teamid FROM users WHERE id = $1`
		err := conn.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &user.TeamID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return my_errors.ErrNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	var user domain.User
	err := r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		query := `SELECT id, name, email, teamid FROM users WHERE name = $1`
		err := conn.QueryRow(ctx, query, name).Scan(&user.ID, &user.Name, &user.Email, &user.TeamID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return my_errors.ErrNotFound
			}
			return fmt.Errorf("failed to get user by name: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
