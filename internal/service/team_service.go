package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/remexre/nihctfplat/internal/domain"
)

type TeamService struct {
	teams TeamRepository
}

func NewTeamService(teams TeamRepository) *TeamService {
	return &TeamService{teams: teams}
}

// CreateTeam makes a new team owned by the given user and returns its id.
// Fails with ErrAlreadyOnTeam if the user already has a team; name format
// violations surface as ConstraintViolation.
func (s *TeamService) CreateTeam(ctx context.Context, userID int64, name string) (uuid.UUID, error) {
	teamID := uuid.New()
	if err := s.teams.CreateTeamForUser(ctx, userID, teamID, name); err != nil {
		return uuid.Nil, err
	}
	return teamID, nil
}

// JoinTeam adds the user to an existing team. Fails with ErrAlreadyOnTeam or
// ErrTeamFull; the capacity check and the membership write share one
// transaction.
func (s *TeamService) JoinTeam(ctx context.Context, userID int64, teamID uuid.UUID) error {
	return s.teams.JoinTeam(ctx, userID, teamID, domain.TeamCapacity)
}

func (s *TeamService) GetTeam(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	return s.teams.GetTeamByID(ctx, id)
}

func (s *TeamService) TeamMemberNames(ctx context.Context, teamID uuid.UUID) ([]string, error) {
	names, err := s.teams.GetTeamMemberNames(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return names, nil
}
