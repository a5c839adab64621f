package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/remexre/nihctfplat/internal/domain"
	"github.com/remexre/nihctfplat/internal/my_errors"
)

type AuthService struct {
	auths AuthRepository
	users UserRepository
}

func NewAuthService(auths AuthRepository, users UserRepository) *AuthService {
	return &AuthService{
		auths: auths,
		users: users,
	}
}

// Resolve returns the user owning the given bearer token. An expired or
// absent token and a missing user all come back as ErrNotFound; a token that
// does not parse as a UUID is ErrMalformedToken. Resolve has no side
// effects.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", my_errors.ErrMalformedToken, err)
	}

	userID, err := s.auths.GetUserIDByToken(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Issue mints a fresh auth token for the user. A nil ttl produces a
// non-expiring token.
func (s *AuthService) Issue(ctx context.Context, userID int64, ttl *time.Duration) (uuid.UUID, error) {
	token := &domain.AuthToken{
		ID:     uuid.New(),
		UserID: userID,
	}
	if ttl != nil {
		expires := time.Now().Add(*ttl)
		token.Expires = &expires
	}

	if err := s.auths.SaveToken(ctx, token); err != nil {
		return uuid.Nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token.ID, nil
}
