package service

import (
	"context"
	"fmt"
)

// LoginMailer is what registration needs from the login-link flow.
type LoginMailer interface {
	SendLoginMail(ctx context.Context, userID int64, isRegistration bool) error
}

type UserService struct {
	users     UserRepository
	loginMail LoginMailer
}

func NewUserService(users UserRepository, loginMail LoginMailer) *UserService {
	return &UserService{
		users:     users,
		loginMail: loginMail,
	}
}

// Register creates the user and mails their first login link. Name/email
// format and uniqueness failures surface as ConstraintViolation from the
// store. If the mail fails the user row is kept and the error propagates.
func (s *UserService) Register(ctx context.Context, name, email string) error {
	user, err := s.users.CreateUser(ctx, name, email)
	if err != nil {
		return err
	}

	if err := s.loginMail.SendLoginMail(ctx, user.ID, true); err != nil {
		return fmt.Errorf("registered but failed to send login mail: %w", err)
	}
	return nil
}
