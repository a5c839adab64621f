package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/remexre/nihctfplat/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, name, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
}

type TeamRepository interface {
	CreateTeamForUser(ctx context.Context, userID int64, teamID uuid.UUID, name string) error
	JoinTeam(ctx context.Context, userID int64, teamID uuid.UUID, capacity int) error
	GetTeamByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	GetTeamMemberNames(ctx context.Context, teamID uuid.UUID) ([]string, error)
}

type LoginRepository interface {
	CreateLogin(ctx context.Context, login *domain.Login) error
	Redeem(ctx context.Context, linkID uuid.UUID, token *domain.AuthToken) error
}

type AuthRepository interface {
	SaveToken(ctx context.Context, token *domain.AuthToken) error
	GetUserIDByToken(ctx context.Context, tokenID uuid.UUID) (int64, error)
}

// MailSender is the contract required of the mail collaborator. Sends are
// not retried here; a failure propagates to the caller.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Renderer is the contract required of the view collaborator. Rendering
// failures are opaque to the services.
type Renderer interface {
	Render(name string, data any) (string, error)
}
