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

type TeamRepository struct {
	exec *store.Executor
}

func NewTeamRepository(exec *store.Executor) *TeamRepository {
	return &TeamRepository{exec: exec}
}

// lockUserTeam reads the user's team reference with the row locked for the
// rest of the transaction.
func lockUserTeam(ctx context.Context, tx pgx.Tx, userID int64) (*uuid.UUID, error) {
	var teamID *uuid.UUID
	err := tx.QueryRow(ctx, `SELECT teamid FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, my_errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user row: %w", err)
	}
	return teamID, nil
}

// CreateTeamForUser inserts a team and points the creating user at it inside
// one transaction, so a crash or concurrent conflicting request cannot leave
// an ownerless team or a dangling team reference.
func (r *TeamRepository) CreateTeamForUser(ctx context.Context, userID int64, teamID uuid.UUID, name string) error {
	return r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		return store.WithTx(ctx, conn, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			current, err := lockUserTeam(ctx, tx, userID)
			if err != nil {
				return err
			}
			if current != nil {
				return my_errors.ErrAlreadyOnTeam
			}

			if _, err := tx.Exec(ctx, `INSERT INTO teams (id, name) VALUES ($1, $2)`, teamID, name); err != nil {
				return fmt.Errorf("failed to create team: %w", mapConstraintError(err))
			}

			if _, err := tx.Exec(ctx, `UPDATE users SET teamid = $1 WHERE id = $2`, teamID, userID); err != nil {
				return fmt.Errorf("failed to set team reference: %w", err)
			}
			return nil
		})
	})
}

// JoinTeam sets the user's team reference after checking, under row locks on
// both the user and the team, that the user is unaffiliated and the team has
// room. The team-row lock serializes concurrent joiners so the member count
// cannot overshoot the capacity limit.
func (r *TeamRepository) JoinTeam(ctx context.Context, userID int64, teamID uuid.UUID, capacity int) error {
	return r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		return store.WithTx(ctx, conn, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			current, err := lockUserTeam(ctx, tx, userID)
			if err != nil {
				return err
			}
			if current != nil {
				return my_errors.ErrAlreadyOnTeam
			}

			var locked uuid.UUID
			err = tx.QueryRow(ctx, `SELECT id FROM teams WHERE id = $1 FOR UPDATE`, teamID).Scan(&locked)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return my_errors.ErrTeamNotFound
				}
				return fmt.Errorf("failed to lock team row: %w", err)
			}

			var members int
			err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE teamid = $1`, teamID).Scan(&members)
			if err != nil {
				return fmt.Errorf("failed to count team members: %w", err)
			}
			if members >= capacity {
				return my_errors.ErrTeamFull
			}

			if _, err := tx.Exec(ctx, `UPDATE users SET teamid = $1 WHERE id = $2`, teamID, userID); err != nil {
				return fmt.Errorf("failed to set team reference: %w", err)
			}
			return nil
		})
	})
}

func (r *TeamRepository) GetTeamByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	err := r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		query := `SELECT id, name FROM teams WHERE id = $1`
		err := conn.QueryRow(ctx, query, id).Scan(&team.ID, &team.Name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return my_errors.ErrTeamNotFound
			}
			return fmt.Errorf("failed to get team: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetTeamMemberNames returns the display names of the users on a team.
// Membership is derived from users.teamid.
func (r *TeamRepository) GetTeamMemberNames(ctx context.Context, teamID uuid.UUID) ([]string, error) {
	var names []string
	err := r.exec.Execute(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		query := `SELECT name FROM users WHERE teamid = $1 ORDER BY name`
		rows, err := conn.Query(ctx, query, teamID)
		if err != nil {
			return fmt.Errorf("failed to get team members: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("failed to scan member name: %w", err)
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
